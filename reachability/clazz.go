package reachability

import "strconv"

// Clazz is one compiled class descriptor as handed to (*Engine).Add by the
// upstream class-file front end. It is the unit of ingestion: every edge the
// graph gains on a call to Add comes from exactly one Clazz.
type Clazz struct {
	// InternalName is the class's slash-separated fully qualified name,
	// e.g. "java/lang/String". It is the identity of the ClassNode this
	// Clazz resolves to.
	InternalName string
	Info         ClazzInfo
}

// ClazzInfo carries the parts of a compiled class that the graph cares
// about: its shape (enum/struct) and its declared dependencies and methods.
type ClazzInfo struct {
	IsEnum   bool
	IsStruct bool

	// Dependencies are class-level: dependencies that exist regardless of
	// which method (if any) is live, such as a superclass or implemented
	// interface reference.
	Dependencies []Dependency
	Methods      []MethodInfo
}

// MethodInfo describes one method declared by a Clazz.
type MethodInfo struct {
	Name string
	Desc string

	IsStatic   bool
	IsCallback bool

	// IsWeaklyLinked and IsStronglyLinked seed the corresponding MethodNode
	// attributes; see (*Engine).Add for how they accumulate across calls.
	IsWeaklyLinked   bool
	IsStronglyLinked bool

	Dependencies []Dependency
}

// DependencyKind discriminates the three Dependency shapes. It replaces the
// type-switch the original graph used to distinguish dependency kinds with a
// flat, exhaustively-matched enum.
type DependencyKind int

const (
	// DepPlain is a class-to-class dependency: ClassName names the target
	// class directly.
	DepPlain DependencyKind = iota
	// DepInvokeMethod is a dependency on invoking a specific method.
	// ClassName is the invoked method's owner; MethodName/MethodDesc name it.
	DepInvokeMethod
	// DepSuperMethod is a dependency on a super/overridden method.
	// ClassName is the super method's owner; MethodName/MethodDesc name it.
	DepSuperMethod
)

func (k DependencyKind) String() string {
	switch k {
	case DepPlain:
		return "plain"
	case DepInvokeMethod:
		return "invoke-method"
	case DepSuperMethod:
		return "super-method"
	default:
		return "DependencyKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Dependency is a tagged union over the three dependency shapes the graph
// understands. ClassName and IsWeak are common to all three; MethodName and
// MethodDesc apply only when Kind != DepPlain.
type Dependency struct {
	Kind       DependencyKind
	ClassName  string
	IsWeak     bool
	MethodName string
	MethodDesc string
}

// Mode selects the weak-edge admission rule used by (*Engine).traverse.
// It affects traversal only, never graph construction.
type Mode int

const (
	// ModeNone follows every weak edge: no tree shaking at all.
	ModeNone Mode = iota
	// ModeConservative drops only methods explicitly flagged weakly-linked
	// when reached solely by a weak edge.
	ModeConservative
	// ModeAggressive keeps a weakly-reached method only if it is strongly
	// linked, or is an unmarked constructor; weak edges to classes are
	// never admitted.
	ModeAggressive
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeConservative:
		return "conservative"
	case ModeAggressive:
		return "aggressive"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode parses one of "none", "conservative", "aggressive".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "none":
		return ModeNone, true
	case "conservative":
		return ModeConservative, true
	case "aggressive":
		return ModeAggressive, true
	default:
		return 0, false
	}
}

// MethodRef names a method the way the graph's callers see it: by owner,
// name and descriptor, with no link to the Engine that produced it.
type MethodRef struct {
	Owner string
	Name  string
	Desc  string
}
