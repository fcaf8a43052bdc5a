// The treeshake command is a demonstration and ops harness for the
// reachability engine and archive strip filter: it decodes one or more
// descriptor-set JSON files, feeds the classes they describe into an Engine,
// and reports which classes and methods survive tree shaking under a chosen
// policy.
//
//	Usage: treeshake [flags] descriptor.json...
//
// Each descriptor-set file holds a JSON array of class records; see the
// internal/descriptor package for the exact schema. This command does not
// parse real class files — that front end is out of scope for this toolchain's
// core and is assumed to already exist upstream.
//
// The -mode flag selects the tree-shaking policy: none, conservative
// (default), or aggressive. The -roots flag force-adds class names to the
// root set regardless of what their descriptor's isRoot field says, useful
// for ad hoc experiments without re-editing a descriptor file.
//
// # Output
//
// With no flags, the command prints one line per reachable class, then one
// line per reachable method, in the form:
//
//	$ treeshake -mode=conservative classes.json
//	class: A
//	class: B
//	method: A.m()V
//	method: B.n()V
//
// With the -json flag, the command prints a single JSON object with
// "classes" and "methods" arrays. With the -f=template flag, the command
// executes the given template against that same object.
//
// # Archive stripping
//
// The -strip flag switches the command into archive-filter mode: instead of
// reporting reachability, it evaluates every trailing positional argument as
// an archive entry path against a StripArchivesConfig built from the
// repeatable -strip-include and -strip-exclude flags, and reports whether
// each would be kept. All -strip-include patterns come first, in the order
// given, followed by all -strip-exclude patterns, in the order given;
// interleaving the two flags on the command line does not interleave the
// rules.
//
//	$ treeshake -strip -strip-include='**/keep/**/*.class' p/keep/X.class p/drop/Y.class
//	keep: p/keep/X.class
//	drop: p/drop/Y.class
package main
