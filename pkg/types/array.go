package types

import (
	"fmt"
	"strings"
)

// --- Array Types ---

// ArrayType represents the type of an array.
type ArrayType struct {
	ElementType Type
}

func (at *ArrayType) String() string {
	elemTypeStr := "<nil>"
	if at.ElementType != nil {
		elemTypeStr = at.ElementType.String()
	}
	return fmt.Sprintf("%s[]", elemTypeStr)
}
func (at *ArrayType) typeNode() {}
func (at *ArrayType) Equals(other Type) bool {
	otherAt, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	if (at.ElementType == nil) != (otherAt.ElementType == nil) {
		return false
	}
	if at.ElementType != nil && !at.ElementType.Equals(otherAt.ElementType) {
		return false
	}
	return true
}

// NewArrayType creates an array type with the given element type.
func NewArrayType(elem Type) *ArrayType { return &ArrayType{ElementType: elem} }

// --- Tuple Types ---

// TupleType represents a tuple type with fixed-length, ordered elements.
type TupleType struct {
	ElementTypes []Type
}

func (tt *TupleType) String() string {
	var elements strings.Builder
	elements.WriteString("[")
	for i, elemType := range tt.ElementTypes {
		if i > 0 {
			elements.WriteString(", ")
		}
		if elemType != nil {
			elements.WriteString(elemType.String())
		} else {
			elements.WriteString("<nil>")
		}
	}
	elements.WriteString("]")
	return elements.String()
}
func (tt *TupleType) typeNode() {}
func (tt *TupleType) Equals(other Type) bool {
	otherTt, ok := other.(*TupleType)
	if !ok {
		return false
	}
	if len(tt.ElementTypes) != len(otherTt.ElementTypes) {
		return false
	}
	for i, t1 := range tt.ElementTypes {
		t2 := otherTt.ElementTypes[i]
		if (t1 == nil) != (t2 == nil) {
			return false
		}
		if t1 != nil && !t1.Equals(t2) {
			return false
		}
	}
	return true
}

// NewTupleType creates a tuple type from the given element types.
func NewTupleType(elems ...Type) *TupleType { return &TupleType{ElementTypes: elems} }
