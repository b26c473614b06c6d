package types

// --- Union Types ---

// UnionType represents a union of multiple types (e.g., string | number).
type UnionType struct {
	Types []Type
}

func (ut *UnionType) String() string {
	typesStr := ""
	for i, t := range ut.Types {
		if i > 0 {
			typesStr += " | "
		}
		typesStr += t.String()
	}
	return typesStr
}
func (ut *UnionType) typeNode() {}
func (ut *UnionType) Equals(other Type) bool {
	otherUt, ok := other.(*UnionType)
	if !ok {
		return false
	}

	// Unions are equal if they contain the same set of unique types,
	// regardless of order.
	if len(ut.Types) != len(otherUt.Types) {
		return false
	}

	matched := make([]bool, len(otherUt.Types))
	for _, t1 := range ut.Types {
		foundMatch := false
		for j, t2 := range otherUt.Types {
			if !matched[j] && t1.Equals(t2) {
				matched[j] = true
				foundMatch = true
				break
			}
		}
		if !foundMatch {
			return false
		}
	}
	return true
}

// ContainsType checks if the union contains a type that equals the given type.
func (ut *UnionType) ContainsType(target Type) bool {
	for _, t := range ut.Types {
		if t.Equals(target) {
			return true
		}
	}
	return false
}

// NewUnionType creates a union from the given constituent types.
func NewUnionType(ts ...Type) *UnionType {
	return &UnionType{Types: ts}
}
