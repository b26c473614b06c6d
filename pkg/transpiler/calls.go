package transpiler

import (
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/types"
)

// stringMacroMethods map directly onto the target's string library.
var stringMacroMethods = map[string]bool{
	"byte": true, "find": true, "format": true, "gmatch": true, "gsub": true,
	"len": true, "lower": true, "match": true, "rep": true, "reverse": true,
	"sub": true, "upper": true,
}

// mathMacroMethods inline to binary arithmetic on math-like engine value
// types.
var mathMacroMethods = map[string]string{
	"add": "+",
	"sub": "-",
	"mul": "*",
	"div": "/",
}

// mathValueTypes are the engine's math-like value types.
var mathValueTypes = map[string]bool{
	"CFrame":       true,
	"UDim":         true,
	"UDim2":        true,
	"Vector2":      true,
	"Vector2int16": true,
	"Vector3":      true,
	"Vector3int16": true,
}

var mapLikeTypes = map[string]bool{"Map": true, "ReadonlyMap": true, "WeakMap": true}
var setLikeTypes = map[string]bool{"Set": true, "ReadonlySet": true, "WeakSet": true}

// transpileArguments renders an argument list; a spread in argument position
// unpacks its source sequence.
func (t *Transpiler) transpileArguments(args []ast.Expression) (string, errors.TranspileError) {
	parts := make([]string, len(args))
	for i, arg := range args {
		str, err := t.transpileExpression(arg)
		if err != nil {
			return "", err
		}
		parts[i] = str
	}
	return strings.Join(parts, ", "), nil
}

func (t *Transpiler) transpileCallExpression(node *ast.CallExpression, asStatement bool) (string, errors.TranspileError) {
	// A super call forwards to the base constructor with self first.
	if _, ok := node.Callee.(*ast.SuperExpression); ok {
		class := t.currentClass()
		if class == nil || class.BaseName == "" {
			return "", t.err(node, errors.CodeUnrecognizedOperation, "`super` call outside a derived class")
		}
		argsStr, err := t.transpileArguments(node.Arguments)
		if err != nil {
			return "", err
		}
		if argsStr != "" {
			argsStr = ", " + argsStr
		}
		return class.BaseName + ".constructor(self" + argsStr + ")", nil
	}

	if member, ok := node.Callee.(*ast.MemberExpression); ok {
		return t.transpileMethodCall(node, member, asStatement)
	}

	calleeStr, err := t.transpileExpression(node.Callee)
	if err != nil {
		return "", err
	}
	argsStr, err := t.transpileArguments(node.Arguments)
	if err != nil {
		return "", err
	}
	return calleeStr + "(" + argsStr + ")", nil
}

// transpileMethodCall classifies the receiver of a property-access call by
// its static type and routes the call accordingly.
func (t *Transpiler) transpileMethodCall(node *ast.CallExpression, member *ast.MemberExpression, asStatement bool) (string, errors.TranspileError) {
	method := member.Property.Name

	if err := t.checkCrossContext(node, member.Property.Symbol); err != nil {
		return "", err
	}

	// Constructor namespaces first: their receiver is the global itself.
	if ident, ok := member.Object.(*ast.Identifier); ok {
		switch ident.Name {
		case "Symbol":
			if method == "for" {
				// `for` is a reserved target keyword.
				argsStr, err := t.transpileArguments(node.Arguments)
				if err != nil {
					return "", err
				}
				return "TS.Symbol.getFor(" + argsStr + ")", nil
			}
		case "Object":
			argsStr, err := t.transpileArguments(node.Arguments)
			if err != nil {
				return "", err
			}
			return "TS.Object_" + method + "(" + argsStr + ")", nil
		}
	}

	recvType := typeOf(member.Object)
	recvName := types.NameOf(recvType)

	argsStr, err := t.transpileArguments(node.Arguments)
	if err != nil {
		return "", err
	}
	withRecv := func(recvStr string) string {
		if argsStr == "" {
			return recvStr
		}
		return recvStr + ", " + argsStr
	}

	switch {
	case types.IsArrayType(recvType):
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		return "TS.array_" + method + "(" + withRecv(recvStr) + ")", nil

	case types.IsStringType(recvType):
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		if stringMacroMethods[method] {
			return "string." + method + "(" + withRecv(recvStr) + ")", nil
		}
		return "TS.string_" + method + "(" + withRecv(recvStr) + ")", nil

	case recvName == "Promise" && method == "then":
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		return recvStr + ":andThen(" + argsStr + ")", nil

	case mapLikeTypes[recvName]:
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		return "TS.map_" + method + "(" + withRecv(recvStr) + ")", nil

	case setLikeTypes[recvName]:
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		return "TS.set_" + method + "(" + withRecv(recvStr) + ")", nil
	}

	if op, ok := mathMacroMethods[method]; ok && mathValueTypes[recvName] {
		if asStatement {
			return "", t.err(node, errors.CodeMacroInStatement, "%s.%s() cannot be used as a statement", recvName, method)
		}
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		return "(" + recvStr + " " + op + " " + argsStr + ")", nil
	}

	// Methods call with an implicit self; plain function-typed properties do
	// not.
	if declarationIsFunction(member.Property.Symbol) && isMethodDeclaration(member.Property.Symbol) {
		if _, ok := member.Object.(*ast.SuperExpression); ok {
			class := t.currentClass()
			if class == nil || class.BaseName == "" {
				return "", t.err(node, errors.CodeUnrecognizedOperation, "`super` used outside a derived class")
			}
			return class.BaseName + ".__index." + method + "(" + withRecv("self") + ")", nil
		}
		recvStr, err := t.transpileExpression(member.Object)
		if err != nil {
			return "", err
		}
		return recvStr + ":" + method + "(" + argsStr + ")", nil
	}

	recvStr, err := t.transpileExpression(member.Object)
	if err != nil {
		return "", err
	}
	return t.memberAccessText(recvStr, method) + "(" + argsStr + ")", nil
}

// isMethodDeclaration reports whether the symbol's value declaration is a
// method proper (as opposed to a function-typed property).
func isMethodDeclaration(sym *ast.Symbol) bool {
	if sym == nil || sym.ValueDeclaration == nil {
		return false
	}
	switch decl := sym.ValueDeclaration.(type) {
	case *ast.MethodDefinition:
		return decl.Kind == ast.MethodNormal
	case *ast.MethodSignature:
		return true
	}
	return false
}

func (t *Transpiler) transpileNewExpression(node *ast.NewExpression) (string, errors.TranspileError) {
	if !node.HasParentheses {
		return "", t.err(node, errors.CodeNoParenthesesLessNew, "constructor calls require parentheses")
	}
	if ident, ok := node.Callee.(*ast.Identifier); ok && ident.Name == "Array" {
		return "{}", nil
	}
	calleeStr, err := t.transpileExpression(node.Callee)
	if err != nil {
		return "", err
	}
	argsStr, err := t.transpileArguments(node.Arguments)
	if err != nil {
		return "", err
	}
	return calleeStr + ".new(" + argsStr + ")", nil
}
