// Package reachability builds an incremental dependency graph over compiled
// classes and methods and answers, under a chosen tree-shaking Mode, which
// classes and methods are reachable from a declared root set.
//
// The graph is purely in-memory and performs no I/O; it is the caller's job
// to serialize calls to a single Engine if more than one goroutine may touch
// it (see the package doc on Engine).
package reachability

import "sort"

// nodeKind discriminates the two Node variants stored in Engine.nodes.
type nodeKind int

const (
	classNode nodeKind = iota
	methodNode
)

// node is the internal representation of either a ClassNode or a MethodNode.
// Nodes are stored in an append-only table and referenced by index (nodeID)
// rather than by pointer, per the graph's recommended representation: this
// keeps equality trivial and traversal safe without recursion.
type node struct {
	kind nodeKind

	class  string    // valid when kind == classNode
	method MethodRef // valid when kind == methodNode

	weaklyLinked   bool // valid when kind == methodNode
	stronglyLinked bool // valid when kind == methodNode

	strong map[nodeID]struct{}
	weak   map[nodeID]struct{}
}

func newNode(kind nodeKind) node {
	return node{
		kind:   kind,
		strong: make(map[nodeID]struct{}),
		weak:   make(map[nodeID]struct{}),
	}
}

// addEdge records an edge to target, strong unless weak is set. An edge
// added as both strong and weak (by separate calls) is kept in both sets;
// traversal treats strong as dominant, so this never changes behavior.
func (n *node) addEdge(target nodeID, weak bool) {
	if weak {
		n.weak[target] = struct{}{}
	} else {
		n.strong[target] = struct{}{}
	}
}

// nodeID is an index into Engine.nodes.
type nodeID int

// Engine is the dependency graph for one compilation run, pinned to a single
// Mode for its lifetime. The zero value is not usable; construct one with
// New.
//
// Engine is not internally synchronized. A caller driving Add and the
// Find*/GetAllClasses queries from more than one goroutine must serialize
// those calls itself.
type Engine struct {
	mode Mode

	nodes []node

	classIndex  map[string]nodeID
	methodIndex map[MethodRef]nodeID

	roots map[nodeID]struct{}

	// reachable caches the result of the last traversal. It is cleared on
	// every Add. The cache is considered "empty" (and thus rebuilt)
	// whenever it has no entries, which also happens to be true of a
	// graph with no roots — that degenerate case simply retraverses (to
	// an empty result) on every query instead of caching, which is
	// harmless.
	reachable map[nodeID]struct{}
}

// New constructs an empty Engine pinned to mode.
func New(mode Mode) *Engine {
	return &Engine{
		mode:        mode,
		classIndex:  make(map[string]nodeID),
		methodIndex: make(map[MethodRef]nodeID),
		roots:       make(map[nodeID]struct{}),
	}
}

// Mode reports the tree-shaking policy this Engine was constructed with.
func (e *Engine) Mode() Mode { return e.mode }

func (e *Engine) classNode(name string) nodeID {
	if id, ok := e.classIndex[name]; ok {
		return id
	}
	id := nodeID(len(e.nodes))
	n := newNode(classNode)
	n.class = name
	e.nodes = append(e.nodes, n)
	e.classIndex[name] = id
	return id
}

// methodNodeResolve resolves or creates the MethodNode for ref, merging in
// weak/strong via monotonic OR. Passing weak=false, strong=false (as happens
// when resolving a dependency's target, which carries no link attributes of
// its own) only ever resolves identity; it never clears existing flags.
func (e *Engine) methodNodeResolve(ref MethodRef, weak, strong bool) nodeID {
	if id, ok := e.methodIndex[ref]; ok {
		if weak {
			e.nodes[id].weaklyLinked = true
		}
		if strong {
			e.nodes[id].stronglyLinked = true
		}
		return id
	}
	id := nodeID(len(e.nodes))
	n := newNode(methodNode)
	n.method = ref
	n.weaklyLinked = weak
	n.stronglyLinked = strong
	e.nodes = append(e.nodes, n)
	e.methodIndex[ref] = id
	return id
}

// Add ingests one compiled class. If isRoot is true, the class (and, per the
// strong-pin rules below, all of its declared methods) is always reachable.
//
// Add is idempotent in graph content for equal inputs: adding the same
// MethodInfo twice with different link flags accumulates them via monotonic
// OR rather than overwriting.
func (e *Engine) Add(c Clazz, isRoot bool) {
	e.reachable = nil

	classID := e.classNode(c.InternalName)
	if isRoot {
		e.roots[classID] = struct{}{}
	}

	e.addDependencyEdges(classID, c.Info.Dependencies, false)

	for _, m := range c.Info.Methods {
		strong := isRoot ||
			m.IsCallback ||
			(m.IsStatic && m.Name == "<clinit>" && m.Desc == "()V") ||
			(c.Info.IsEnum && m.IsStatic && m.Name == "values" && m.Desc == "()[L"+c.InternalName+";") ||
			(c.Info.IsStruct && m.IsStatic && m.Name == "sizeOf" && m.Desc == "()I")

		ref := MethodRef{Owner: c.InternalName, Name: m.Name, Desc: m.Desc}
		methodID := e.methodNodeResolve(ref, m.IsWeaklyLinked, m.IsStronglyLinked)

		e.nodes[classID].addEdge(methodID, !strong)
		e.nodes[methodID].addEdge(classID, false)

		e.addDependencyEdges(methodID, m.Dependencies, true)
	}
}

// addDependencyEdges wires one source node's dependencies into the graph.
// reverseSuper is true only for method-level dependencies: there, a
// SuperMethod dependency's edge is inverted and forced strong (reaching the
// super method implies reaching the override), per the edge-type table.
// Class-level SuperMethod dependencies are not reversed.
func (e *Engine) addDependencyEdges(source nodeID, deps []Dependency, reverseSuper bool) {
	for _, dep := range deps {
		switch dep.Kind {
		case DepPlain:
			target := e.classNode(dep.ClassName)
			e.nodes[source].addEdge(target, dep.IsWeak)

		case DepInvokeMethod:
			target := e.methodNodeResolve(MethodRef{Owner: dep.ClassName, Name: dep.MethodName, Desc: dep.MethodDesc}, false, false)
			e.nodes[source].addEdge(target, dep.IsWeak)

		case DepSuperMethod:
			target := e.methodNodeResolve(MethodRef{Owner: dep.ClassName, Name: dep.MethodName, Desc: dep.MethodDesc}, false, false)
			if reverseSuper {
				e.nodes[target].addEdge(source, false)
			} else {
				e.nodes[source].addEdge(target, dep.IsWeak)
			}

		default:
			panic("reachability: unknown dependency kind in Add: " + dep.Kind.String())
		}
	}
}

// GetAllClasses returns the internal names of every ClassNode ever created,
// in ascending lexicographic order: every class ever Add-ed, plus every class
// ever named as a class-level Plain dependency target. A class named only as
// the owner of an InvokeMethod or SuperMethod dependency does not by itself
// create a ClassNode — resolving that dependency touches only the method
// table, matching how method dependencies are resolved in Add.
func (e *Engine) GetAllClasses() []string {
	names := make([]string, 0, len(e.classIndex))
	for name := range e.classIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindReachableClasses returns the set of class internal names reachable
// from the root set under this Engine's Mode.
func (e *Engine) FindReachableClasses() map[string]bool {
	out := make(map[string]bool)
	for id := range e.ensureReachable() {
		if n := &e.nodes[id]; n.kind == classNode {
			out[n.class] = true
		}
	}
	return out
}

// FindReachableMethods returns the set of (owner, name, descriptor) triples
// reachable from the root set under this Engine's Mode.
func (e *Engine) FindReachableMethods() map[MethodRef]bool {
	out := make(map[MethodRef]bool)
	for id := range e.ensureReachable() {
		if n := &e.nodes[id]; n.kind == methodNode {
			out[n.method] = true
		}
	}
	return out
}

func (e *Engine) ensureReachable() map[nodeID]struct{} {
	if len(e.reachable) == 0 {
		e.reachable = e.traverse()
	}
	return e.reachable
}
