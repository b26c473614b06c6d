package types

// --- Class Types ---

// ClassType represents a nominal class (or class-like engine) type. BaseTypes
// lists the direct bases; inheritance queries walk the chain transitively.
type ClassType struct {
	Name      string
	BaseTypes []Type
}

func (ct *ClassType) String() string { return ct.Name }
func (ct *ClassType) typeNode()      {}
func (ct *ClassType) Equals(other Type) bool {
	otherCt, ok := other.(*ClassType)
	if !ok {
		return false
	}
	return ct == otherCt || ct.Name == otherCt.Name
}

// NewClassType creates a class type with the given name and base types.
func NewClassType(name string, bases ...Type) *ClassType {
	return &ClassType{Name: name, BaseTypes: bases}
}

// InheritsFrom reports whether the type is, or transitively derives from, a
// class with the given name.
func (ct *ClassType) InheritsFrom(name string) bool {
	if ct.Name == name {
		return true
	}
	for _, base := range ct.BaseTypes {
		if baseCt, ok := base.(*ClassType); ok && baseCt.InheritsFrom(name) {
			return true
		}
	}
	return false
}

// NameOf returns the nominal name of a type, or "" when it has none.
func NameOf(t Type) string {
	switch typ := t.(type) {
	case *ClassType:
		return typ.Name
	case *Primitive:
		return typ.name
	default:
		return ""
	}
}
