// Package luau holds lexical facts about the emitted target language:
// reserved words, identifier validity, indexing forms, and the metamethod
// names the class lowering recognizes.
package luau

import (
	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

// ReservedKeywords are the target-language keywords; user identifiers that
// collide with them are rejected.
var ReservedKeywords = map[string]bool{
	"and":      true,
	"break":    true,
	"do":       true,
	"else":     true,
	"elseif":   true,
	"end":      true,
	"false":    true,
	"for":      true,
	"function": true,
	"if":       true,
	"in":       true,
	"local":    true,
	"nil":      true,
	"not":      true,
	"or":       true,
	"repeat":   true,
	"return":   true,
	"then":     true,
	"true":     true,
	"until":    true,
	"while":    true,
}

var (
	identPattern     = regexp2.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`, regexp2.None)
	numberKeyPattern = regexp2.MustCompile(`^\d+$`, regexp2.None)
)

// IsValidIdentifier reports whether s can be emitted as a bare identifier.
// The input language admits Unicode identifier forms the target does not, so
// names are NFC-normalized before classification.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	s = norm.NFC.String(s)
	if ReservedKeywords[s] {
		return false
	}
	ok, _ := identPattern.MatchString(s)
	return ok
}

// IsNumberKey reports whether s is a digits-only object key, which must be
// emitted in indexed numeric form.
func IsNumberKey(s string) bool {
	ok, _ := numberKeyPattern.MatchString(s)
	return ok
}

// SafeIndex returns obj.key or obj["key"] depending on identifier validity.
func SafeIndex(obj, key string) string {
	if IsValidIdentifier(key) {
		return obj + "." + key
	}
	return obj + "[\"" + key + "\"]"
}

// Metamethods are the operator hooks a class method may legitimately shadow;
// the class lowering installs a trampoline for each one defined.
var Metamethods = map[string]bool{
	"__add":      true,
	"__sub":      true,
	"__mul":      true,
	"__div":      true,
	"__mod":      true,
	"__pow":      true,
	"__unm":      true,
	"__eq":       true,
	"__lt":       true,
	"__le":       true,
	"__call":     true,
	"__concat":   true,
	"__tostring": true,
	"__len":      true,
}

// UndefinableMetamethods are reserved by the class lowering itself; defining
// them as methods is rejected.
var UndefinableMetamethods = map[string]bool{
	"__index":    true,
	"__newindex": true,
	"__mode":     true,
}
