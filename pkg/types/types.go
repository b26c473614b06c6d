package types

import (
	"fmt"
	"strings"
)

// Type is implemented by every static type the transpiler can ask questions
// about: String for diagnostics, Equals for structural comparison. The
// unexported marker keeps the implementation set closed to this package, so
// dispatching code can type-switch exhaustively.
type Type interface {
	String() string
	Equals(other Type) bool
	typeNode()
}

// --- Primitive Types ---

// Primitive is an atomic built-in type. Each one exists as exactly one
// package-level value, never constructed elsewhere, which lets equality
// reduce to identity.
type Primitive struct {
	name string
}

func primitive(name string) *Primitive { return &Primitive{name: name} }

func (p *Primitive) String() string { return p.name }

func (p *Primitive) typeNode() {}

func (p *Primitive) Equals(other Type) bool { return p == other }

// The primitive singletons.
var (
	Number    = primitive("number")
	String    = primitive("string")
	Boolean   = primitive("boolean")
	Null      = primitive("null")
	Undefined = primitive("undefined")
	Any       = primitive("any")
	Unknown   = primitive("unknown")
	Never     = primitive("never")
	Void      = primitive("void")
)

// --- Literal Types ---

// LiteralType represents a literal type such as "foo", 42, or true.
// Value holds a string, float64, or bool.
type LiteralType struct {
	Value interface{}
}

func (lt *LiteralType) String() string {
	switch v := lt.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
func (lt *LiteralType) typeNode() {}
func (lt *LiteralType) Equals(other Type) bool {
	otherLt, ok := other.(*LiteralType)
	if !ok {
		return false
	}
	return lt.Value == otherLt.Value
}

// NewStringLiteral creates the literal type of a string constant.
func NewStringLiteral(v string) *LiteralType { return &LiteralType{Value: v} }

// NewNumberLiteral creates the literal type of a numeric constant.
func NewNumberLiteral(v float64) *LiteralType { return &LiteralType{Value: v} }

// NewBooleanLiteral creates the literal type of a boolean constant.
func NewBooleanLiteral(v bool) *LiteralType { return &LiteralType{Value: v} }

// --- Function Types ---

// FunctionType represents the type of a function.
type FunctionType struct {
	ParameterTypes []Type
	ReturnType     Type
	IsVariadic     bool
}

func (ft *FunctionType) String() string {
	var params strings.Builder
	params.WriteString("(")
	for i, p := range ft.ParameterTypes {
		if i > 0 {
			params.WriteString(", ")
		}
		if ft.IsVariadic && i == len(ft.ParameterTypes)-1 {
			params.WriteString("...")
		}
		if p != nil {
			params.WriteString(p.String())
		} else {
			params.WriteString("<nil>")
		}
	}
	params.WriteString(")")

	retTypeStr := "void"
	if ft.ReturnType != nil {
		retTypeStr = ft.ReturnType.String()
	}
	return fmt.Sprintf("%s => %s", params.String(), retTypeStr)
}
func (ft *FunctionType) typeNode() {}
func (ft *FunctionType) Equals(other Type) bool {
	otherFt, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if len(ft.ParameterTypes) != len(otherFt.ParameterTypes) {
		return false
	}
	if ft.IsVariadic != otherFt.IsVariadic {
		return false
	}
	for i, p1 := range ft.ParameterTypes {
		p2 := otherFt.ParameterTypes[i]
		if (p1 == nil) != (p2 == nil) {
			return false
		}
		if p1 != nil && !p1.Equals(p2) {
			return false
		}
	}
	if (ft.ReturnType == nil) != (otherFt.ReturnType == nil) {
		return false
	}
	if ft.ReturnType != nil && !ft.ReturnType.Equals(otherFt.ReturnType) {
		return false
	}
	return true
}
