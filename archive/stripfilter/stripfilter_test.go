package stripfilter_test

import (
	"errors"
	"testing"

	"github.com/aot-toolchain/treeshake/archive/stripfilter"
)

// Scenario 6: strip filter default.
func TestDefaultConfig(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"com/x/Foo.class", false},
		{"META-INF/MANIFEST.MF", true},
		{"res/a.png", true},
	}
	for _, tc := range cases {
		if got := stripfilter.Default.ShouldInclude(tc.path); got != tc.want {
			t.Errorf("Default.ShouldInclude(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

// Scenario 7: strip filter ordering — an earlier user rule wins over the
// auto-appended class exclusion.
func TestOrderingUserRuleBeforeTerminal(t *testing.T) {
	b := stripfilter.NewBuilder()
	if err := b.AddInclude("**/keep/**/*.class"); err != nil {
		t.Fatalf("AddInclude: %v", err)
	}
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !cfg.ShouldInclude("p/keep/X.class") {
		t.Error("p/keep/X.class should be included: matches the user rule before the terminal exclusion")
	}
	if cfg.ShouldInclude("p/drop/Y.class") {
		t.Error("p/drop/Y.class should be excluded: falls through to the terminal *.class exclusion")
	}
}

// Scenario 8: builder reuse rejected; the previously-returned config is
// unaffected.
func TestBuilderReuseRejected(t *testing.T) {
	b := stripfilter.NewBuilder()
	if err := b.AddInclude("a/*.txt"); err != nil {
		t.Fatalf("AddInclude: %v", err)
	}
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := b.AddInclude("b/*.txt"); !errors.Is(err, stripfilter.ErrBuilderUsed) {
		t.Errorf("AddInclude after Build: got %v, want ErrBuilderUsed", err)
	}
	if err := b.AddExclude("c/*.txt"); !errors.Is(err, stripfilter.ErrBuilderUsed) {
		t.Errorf("AddExclude after Build: got %v, want ErrBuilderUsed", err)
	}
	if _, err := b.Build(); !errors.Is(err, stripfilter.ErrBuilderUsed) {
		t.Errorf("second Build: got %v, want ErrBuilderUsed", err)
	}

	if !cfg.ShouldInclude("a/x.txt") {
		t.Error("previously-returned config should still honor its rule")
	}
}

// AddExclude ordering: an earlier exclude rule wins over a later include,
// and Patterns() reports the terminal rules appended by Build.
func TestAddExcludeOrderingAndPatterns(t *testing.T) {
	b := stripfilter.NewBuilder()
	if err := b.AddExclude("secret/**"); err != nil {
		t.Fatalf("AddExclude: %v", err)
	}
	if err := b.AddInclude("**/*.txt"); err != nil {
		t.Fatalf("AddInclude: %v", err)
	}
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if cfg.ShouldInclude("secret/a.txt") {
		t.Error("secret/a.txt should be excluded by the earlier exclude rule")
	}
	if !cfg.ShouldInclude("public/a.txt") {
		t.Error("public/a.txt should be included by the later include rule")
	}

	patterns := cfg.Patterns()
	if len(patterns) != 4 {
		t.Fatalf("Patterns() returned %d patterns, want 4 (2 user + 2 terminal)", len(patterns))
	}
	last := patterns[len(patterns)-1]
	if last.Glob != "**/*" || !last.IsInclude {
		t.Errorf("final pattern = %+v, want terminal include **/* ", last)
	}
	secondLast := patterns[len(patterns)-2]
	if secondLast.Glob != "**/*.class" || secondLast.IsInclude {
		t.Errorf("second-to-last pattern = %+v, want terminal exclude **/*.class", secondLast)
	}
}

// P9: shouldInclude returns a defined boolean for arbitrary paths, including
// ones a real archive would never contain.
func TestTotality(t *testing.T) {
	paths := []string{
		"a",
		"a/b/c.class",
		"a\\b\\c.class",
		"weird path with spaces.txt",
		"unicode/日本語.class",
	}
	for _, p := range paths {
		_ = stripfilter.Default.ShouldInclude(p) // must not panic
	}
}

func TestInvalidGlobRejected(t *testing.T) {
	b := stripfilter.NewBuilder()
	if err := b.AddInclude("["); err == nil {
		t.Error("expected an error for an invalid glob pattern")
	}
}
