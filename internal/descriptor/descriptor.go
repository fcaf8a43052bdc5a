// Package descriptor decodes and encodes the JSON wire form of the
// reachability engine's ingress contract.
//
// Class-file parsing is out of scope for this toolchain's core (see
// reachability.Clazz): the real front end hands the engine already-
// decoded Go values. This package exists only so the cmd/treeshake
// demonstration driver has a concrete file format to read, and so tests can
// exercise the engine end to end without a real class-file parser. The
// reachability package itself never imports encoding/json.
package descriptor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aot-toolchain/treeshake/reachability"
)

// File is the top-level shape of one descriptor-set JSON file: an array of
// classes, each carrying the isRoot flag the driver would otherwise have to
// track out of band.
type File []ClazzRecord

// ClazzRecord is the JSON form of a reachability.Clazz plus its isRoot bit.
type ClazzRecord struct {
	InternalName string    `json:"internalName"`
	IsRoot       bool      `json:"isRoot"`
	ClazzInfo    ClazzInfo `json:"clazzInfo"`
}

// ClazzInfo mirrors reachability.ClazzInfo.
type ClazzInfo struct {
	IsEnum       bool         `json:"isEnum,omitempty"`
	IsStruct     bool         `json:"isStruct,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Methods      []MethodInfo `json:"methods,omitempty"`
}

// MethodInfo mirrors reachability.MethodInfo.
type MethodInfo struct {
	Name             string       `json:"name"`
	Desc             string       `json:"desc"`
	IsStatic         bool         `json:"isStatic,omitempty"`
	IsCallback       bool         `json:"isCallback,omitempty"`
	IsWeaklyLinked   bool         `json:"isWeaklyLinked,omitempty"`
	IsStronglyLinked bool         `json:"isStronglyLinked,omitempty"`
	Dependencies     []Dependency `json:"dependencies,omitempty"`
}

// Dependency is the JSON form of the ingress contract's tagged Dependency
// union. Kind is one of "plain", "invoke-method", "super-method"; the
// method fields are present only for the latter two.
type Dependency struct {
	Kind       string `json:"kind"`
	ClassName  string `json:"className"`
	IsWeak     bool   `json:"isWeak,omitempty"`
	MethodName string `json:"methodName,omitempty"`
	MethodDesc string `json:"methodDesc,omitempty"`
}

// DecodeDescriptorFile reads and decodes one descriptor-set JSON file,
// returning each class alongside its isRoot flag in file order.
func DecodeDescriptorFile(path string) ([]ClazzRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor file %s: %w", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding descriptor file %s: %w", path, err)
	}
	return f, nil
}

// ToClazz converts the JSON record into the reachability package's ingress
// value. It panics if a dependency's Kind is not one of "plain",
// "invoke-method" or "super-method", treating malformed input as fatal in
// the same way (*Engine).Add does for an unknown DependencyKind.
func (r ClazzRecord) ToClazz() reachability.Clazz {
	return reachability.Clazz{
		InternalName: r.InternalName,
		Info: reachability.ClazzInfo{
			IsEnum:       r.ClazzInfo.IsEnum,
			IsStruct:     r.ClazzInfo.IsStruct,
			Dependencies: toDependencies(r.ClazzInfo.Dependencies),
			Methods:      toMethods(r.ClazzInfo.Methods),
		},
	}
}

func toMethods(in []MethodInfo) []reachability.MethodInfo {
	if in == nil {
		return nil
	}
	out := make([]reachability.MethodInfo, len(in))
	for i, m := range in {
		out[i] = reachability.MethodInfo{
			Name:             m.Name,
			Desc:             m.Desc,
			IsStatic:         m.IsStatic,
			IsCallback:       m.IsCallback,
			IsWeaklyLinked:   m.IsWeaklyLinked,
			IsStronglyLinked: m.IsStronglyLinked,
			Dependencies:     toDependencies(m.Dependencies),
		}
	}
	return out
}

func toDependencies(in []Dependency) []reachability.Dependency {
	if in == nil {
		return nil
	}
	out := make([]reachability.Dependency, len(in))
	for i, d := range in {
		var kind reachability.DependencyKind
		switch d.Kind {
		case "plain":
			kind = reachability.DepPlain
		case "invoke-method":
			kind = reachability.DepInvokeMethod
		case "super-method":
			kind = reachability.DepSuperMethod
		default:
			panic("descriptor: unrecognized dependency kind " + d.Kind)
		}
		out[i] = reachability.Dependency{
			Kind:       kind,
			ClassName:  d.ClassName,
			IsWeak:     d.IsWeak,
			MethodName: d.MethodName,
			MethodDesc: d.MethodDesc,
		}
	}
	return out
}

// Encode renders records back to their JSON descriptor-set form. It is used
// by the codec round-trip test (P10) and has no role in the driver itself.
func Encode(records []ClazzRecord) ([]byte, error) {
	return json.MarshalIndent(File(records), "", "  ")
}

// FromClazz is the inverse of ToClazz, used by the round-trip test to build
// ClazzRecord values from reachability.Clazz fixtures without hand-writing
// JSON.
func FromClazz(c reachability.Clazz, isRoot bool) ClazzRecord {
	return ClazzRecord{
		InternalName: c.InternalName,
		IsRoot:       isRoot,
		ClazzInfo: ClazzInfo{
			IsEnum:       c.Info.IsEnum,
			IsStruct:     c.Info.IsStruct,
			Dependencies: fromDependencies(c.Info.Dependencies),
			Methods:      fromMethods(c.Info.Methods),
		},
	}
}

func fromMethods(in []reachability.MethodInfo) []MethodInfo {
	if in == nil {
		return nil
	}
	out := make([]MethodInfo, len(in))
	for i, m := range in {
		out[i] = MethodInfo{
			Name:             m.Name,
			Desc:             m.Desc,
			IsStatic:         m.IsStatic,
			IsCallback:       m.IsCallback,
			IsWeaklyLinked:   m.IsWeaklyLinked,
			IsStronglyLinked: m.IsStronglyLinked,
			Dependencies:     fromDependencies(m.Dependencies),
		}
	}
	return out
}

func fromDependencies(in []reachability.Dependency) []Dependency {
	if in == nil {
		return nil
	}
	out := make([]Dependency, len(in))
	for i, d := range in {
		out[i] = Dependency{
			Kind:       d.Kind.String(),
			ClassName:  d.ClassName,
			IsWeak:     d.IsWeak,
			MethodName: d.MethodName,
			MethodDesc: d.MethodDesc,
		}
	}
	return out
}
