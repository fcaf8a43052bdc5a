package main

import (
	_ "embed"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/aot-toolchain/treeshake/archive/stripfilter"
	"github.com/aot-toolchain/treeshake/internal/descriptor"
	"github.com/aot-toolchain/treeshake/reachability"
)

//go:embed doc.go
var doc string

// flags
var (
	modeFlag  = flag.String("mode", "conservative", "tree-shaking policy: none, conservative, or aggressive")
	rootsFlag = flag.String("roots", "", "comma-separated class internal names to force into the root set")

	stripFlag        = flag.Bool("strip", false, "evaluate trailing arguments as archive entry paths against a strip filter, instead of reading descriptor files")
	stripIncludeFlag stringList
	stripExcludeFlag stringList

	formatFlag = flag.String("f", "", "format output records using template")
	jsonFlag   = flag.Bool("json", false, "output JSON records")
)

func init() {
	flag.Var(&stripIncludeFlag, "strip-include", "glob pattern to include (repeatable; -strip mode only)")
	flag.Var(&stripExcludeFlag, "strip-exclude", "glob pattern to exclude (repeatable; -strip mode only)")
}

// stringList accumulates repeated -flag=value occurrences in command-line
// order. Each flag keeps its own ordered list, so the relative order of
// interleaved -strip-include and -strip-exclude occurrences is not kept;
// runStrip adds every include rule before every exclude rule (see doc.go).
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func usage() {
	// doc.go's package comment is the run of "//" lines before "package main".
	var text strings.Builder
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "package ") {
			break
		}
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, " ")
		text.WriteString(line + "\n")
	}
	io.WriteString(flag.CommandLine.Output(), text.String()+`
Flags:

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("treeshake: ")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()

	if *formatFlag != "" {
		if *jsonFlag {
			log.Fatalf("you cannot specify both -f=template and -json")
		}
		if _, err := template.New("treeshake").Parse(*formatFlag); err != nil {
			log.Fatalf("invalid -f: %v", err)
		}
	}

	if *stripFlag {
		runStrip(flag.Args())
		return
	}

	mode, ok := reachability.ParseMode(*modeFlag)
	if !ok {
		log.Fatalf("invalid -mode %q: want none, conservative, or aggressive", *modeFlag)
	}

	if len(flag.Args()) == 0 {
		usage()
		os.Exit(2)
	}

	runReachability(mode, flag.Args())
}

// runReachability decodes every descriptor file concurrently (the one place
// in this driver where concurrency is safe: each goroutine decodes into its
// own slice slot, and no decoded value touches the Engine until every
// goroutine has finished), then feeds the results into a single Engine
// serially, per the single-threaded call discipline the engine requires.
func runReachability(mode reachability.Mode, paths []string) {
	decoded := make([][]descriptor.ClazzRecord, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			recs, err := descriptor.DecodeDescriptorFile(path)
			if err != nil {
				return err
			}
			decoded[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("%v", err)
	}

	forcedRoots := make(map[string]bool)
	if *rootsFlag != "" {
		for _, name := range strings.Split(*rootsFlag, ",") {
			forcedRoots[name] = true
		}
	}

	engine := reachability.New(mode)
	for _, recs := range decoded {
		for _, rec := range recs {
			engine.Add(rec.ToClazz(), rec.IsRoot || forcedRoots[rec.InternalName])
		}
	}

	printReachability(engine)
}

// reachabilityReport is the JSON/template record emitted by the default
// (non -strip) mode.
type reachabilityReport struct {
	Classes []string             `json:"classes"`
	Methods []reachabilityMethod `json:"methods"`
}

type reachabilityMethod struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
}

func (m reachabilityMethod) String() string { return m.Owner + "." + m.Name + m.Desc }

func printReachability(engine *reachability.Engine) {
	classSet := engine.FindReachableClasses()
	classes := make([]string, 0, len(classSet))
	for name := range classSet {
		classes = append(classes, name)
	}
	sort.Strings(classes)

	methodSet := engine.FindReachableMethods()
	methods := make([]reachabilityMethod, 0, len(methodSet))
	for ref := range methodSet {
		methods = append(methods, reachabilityMethod{Owner: ref.Owner, Name: ref.Name, Desc: ref.Desc})
	}
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].Owner != methods[j].Owner {
			return methods[i].Owner < methods[j].Owner
		}
		if methods[i].Name != methods[j].Name {
			return methods[i].Name < methods[j].Name
		}
		return methods[i].Desc < methods[j].Desc
	})

	report := reachabilityReport{Classes: classes, Methods: methods}

	if *jsonFlag {
		out, err := json.MarshalIndent(report, "", "\t")
		if err != nil {
			log.Fatalf("internal error: %v", err)
		}
		os.Stdout.Write(out)
		os.Stdout.Write([]byte("\n"))
		return
	}

	format := `{{range .Classes}}{{printf "class: %s\n" .}}{{end}}{{range .Methods}}{{printf "method: %s\n" .}}{{end}}`
	if *formatFlag != "" {
		format = *formatFlag
	}
	runTemplate(format, report)
}

// runStrip builds a StripArchivesConfig from the -strip-include/-strip-exclude
// flags, in the order they were given relative to each other within each
// flag, include rules first then exclude rules (see stringList doc), and
// reports keep/drop for each trailing path argument.
func runStrip(paths []string) {
	if len(paths) == 0 {
		usage()
		os.Exit(2)
	}

	b := stripfilter.NewBuilder()
	if len(stripIncludeFlag) > 0 {
		if err := b.AddInclude(stripIncludeFlag...); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if len(stripExcludeFlag) > 0 {
		if err := b.AddExclude(stripExcludeFlag...); err != nil {
			log.Fatalf("%v", err)
		}
	}
	cfg, err := b.Build()
	if err != nil {
		log.Fatalf("%v", err)
	}

	type stripResult struct {
		Path    string `json:"path"`
		Include bool   `json:"include"`
	}
	var results []stripResult
	for _, p := range paths {
		results = append(results, stripResult{Path: p, Include: cfg.ShouldInclude(p)})
	}

	if *jsonFlag {
		out, err := json.MarshalIndent(results, "", "\t")
		if err != nil {
			log.Fatalf("internal error: %v", err)
		}
		os.Stdout.Write(out)
		os.Stdout.Write([]byte("\n"))
		return
	}

	format := `{{if .Include}}keep{{else}}drop{{end}}: {{.Path}}`
	if *formatFlag != "" {
		format = *formatFlag
	}
	for _, r := range results {
		runTemplate(format, r)
	}
}

func runTemplate(format string, v any) {
	tmpl := template.Must(template.New("treeshake").Parse(format))
	var buf strings.Builder
	if err := tmpl.Execute(&buf, v); err != nil {
		log.Fatal(err)
	}
	s := buf.String()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	io.WriteString(os.Stdout, s)
}
