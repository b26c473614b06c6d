package transpiler

import (
	"strconv"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/luau"
	"tslua/pkg/project"
	"tslua/pkg/types"
)

// memberAccessText renders obj.prop, falling back to the indexed string form
// for keys that are not valid target identifiers.
func (t *Transpiler) memberAccessText(objStr, prop string) string {
	return luau.SafeIndex(objStr, prop)
}

// declarationIsFunction reports whether a symbol's value declaration is a
// function or method shape.
func declarationIsFunction(sym *ast.Symbol) bool {
	if sym == nil || sym.ValueDeclaration == nil {
		return false
	}
	switch sym.ValueDeclaration.(type) {
	case *ast.FunctionDeclaration, *ast.FunctionLiteral, *ast.ArrowFunction,
		*ast.MethodDefinition, *ast.MethodSignature:
		return true
	}
	return false
}

// symbolOf returns the provider-resolved symbol of an expression, when the
// expression is a name that can carry one.
func symbolOf(exp ast.Expression) *ast.Symbol {
	switch e := exp.(type) {
	case *ast.Identifier:
		return e.Symbol
	case *ast.MemberExpression:
		return e.Property.Symbol
	}
	return nil
}

// checkCrossContext enforces the API-visibility directives: under the Server
// context a client-only symbol is fatal, and symmetrically for Client.
// Disabled when the compiler runs without heuristics.
func (t *Transpiler) checkCrossContext(node ast.Node, sym *ast.Symbol) errors.TranspileError {
	if sym == nil || t.compiler.NoHeuristics() {
		return nil
	}
	switch t.scriptContext {
	case project.ContextServer:
		if sym.HasJSDocTag("@rbx-client") {
			return t.err(node, errors.CodeCrossContextAPI, "%s is a client-only API and cannot be used in a server context", sym.Name)
		}
	case project.ContextClient:
		if sym.HasJSDocTag("@rbx-server") {
			return t.err(node, errors.CodeCrossContextAPI, "%s is a server-only API and cannot be used in a client context", sym.Name)
		}
	}
	return nil
}

// lengthAccessReceiver parenthesizes receivers the length operator would not
// otherwise bind to.
func lengthAccessReceiver(obj ast.Expression, objStr string) string {
	switch obj.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression,
		*ast.ParenthesizedExpression, *ast.CallExpression, *ast.ThisExpression:
		return objStr
	}
	return "(" + objStr + ")"
}

func (t *Transpiler) transpileMemberExpression(node *ast.MemberExpression) (string, errors.TranspileError) {
	propName := node.Property.Name

	if err := t.checkCrossContext(node, node.Property.Symbol); err != nil {
		return "", err
	}

	// super.prop checks the base class's getter table before falling back to
	// the plain field on self.
	if _, ok := node.Object.(*ast.SuperExpression); ok {
		class := t.currentClass()
		if class == nil || class.BaseName == "" {
			return "", t.err(node, errors.CodeUnrecognizedOperation, "`super` used outside a derived class")
		}
		getter := class.BaseName + "._getters." + propName
		return "(" + getter + " ~= nil and " + getter + "(self) or self." + propName + ")", nil
	}

	objSym := symbolOf(node.Object)

	// Indexing a function value is an error in this dialect.
	if declarationIsFunction(objSym) {
		return "", t.err(node, errors.CodeNoFunctionIndexing, "cannot index a function value")
	}

	// Const-enum members are inlined to their compile-time values.
	if objSym != nil {
		if enumDecl, ok := objSym.ValueDeclaration.(*ast.EnumDeclaration); ok && enumDecl.IsConst {
			return t.constEnumMemberText(node, enumDecl, propName)
		}
	}

	// The prototype of a class is not observable in the emitted shape.
	if propName == "prototype" {
		if objSym != nil {
			if _, ok := objSym.ValueDeclaration.(*ast.ClassDeclaration); ok {
				return "", t.err(node, errors.CodeNoPrototypeAccess, "`prototype` is not accessible")
			}
		}
	}

	objStr, err := t.transpileExpression(node.Object)
	if err != nil {
		return "", err
	}

	// length on strings and arrays is the target's length operator.
	if propName == "length" {
		objType := typeOf(node.Object)
		if types.IsStringType(objType) || types.IsArrayType(objType) || types.IsTupleType(objType) {
			return "#" + lengthAccessReceiver(node.Object, objStr), nil
		}
	}

	return t.memberAccessText(objStr, propName), nil
}

// constEnumMemberText inlines a const-enum member to its value.
func (t *Transpiler) constEnumMemberText(node ast.Node, decl *ast.EnumDeclaration, memberName string) (string, errors.TranspileError) {
	values, err := t.enumMemberValues(decl)
	if err != nil {
		return "", err
	}
	for _, v := range values {
		if v.Name == memberName {
			if v.IsNumber {
				return formatEnumNumber(v.Number), nil
			}
			return strconv.Quote(v.Str), nil
		}
	}
	return "", t.err(node, errors.CodeUnrecognizedOperation, "unknown enum member %q", memberName)
}

// indexText renders the index of an element access, applying the 1-based
// offset when the receiver is an array or tuple.
func (t *Transpiler) indexText(node *ast.IndexExpression) (string, errors.TranspileError) {
	indexStr, err := t.transpileExpression(node.Index)
	if err != nil {
		return "", err
	}
	objType := typeOf(node.Object)
	if types.IsArrayType(objType) || types.IsTupleType(objType) {
		if num, ok := node.Index.(*ast.NumberLiteral); ok {
			return strconv.FormatInt(int64(num.Value)+1, 10), nil
		}
		return indexStr + " + 1", nil
	}
	return indexStr, nil
}

func (t *Transpiler) transpileIndexExpression(node *ast.IndexExpression) (string, errors.TranspileError) {
	objType := typeOf(node.Object)

	// A call returning a tuple has no table to index; select picks the
	// wanted element out of the multi-return.
	if call, ok := node.Object.(*ast.CallExpression); ok && types.IsTupleType(objType) {
		callStr, err := t.transpileCallExpression(call, false)
		if err != nil {
			return "", err
		}
		indexStr, err := t.indexText(node)
		if err != nil {
			return "", err
		}
		return "(select(" + indexStr + ", " + callStr + "))", nil
	}

	objStr, err := t.transpileExpression(node.Object)
	if err != nil {
		return "", err
	}
	indexStr, err := t.indexText(node)
	if err != nil {
		return "", err
	}

	// Array literals and array constructor calls must be parenthesized so
	// indexing binds to the table value.
	switch node.Object.(type) {
	case *ast.ArrayLiteral:
		objStr = "(" + objStr + ")"
	case *ast.NewExpression:
		objStr = "(" + objStr + ")"
	}

	return objStr + "[" + indexStr + "]", nil
}
