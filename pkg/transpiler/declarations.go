package transpiler

import (
	"strconv"
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/types"
)

// --- Functions ---

// transpileFunctionValue renders a function expression. The body is a
// statemented scope; parameter defaults and initializers precede it.
func (t *Transpiler) transpileFunctionValue(params []*ast.Parameter, body *ast.BlockStatement, isAsync bool, returnType types.Type) (string, errors.TranspileError) {
	parts, err := t.transpileParameters(params)
	if err != nil {
		return "", err
	}
	out := "function(" + join(parts.names) + ")\n"
	t.pushIndent()
	var prelude string
	for _, line := range parts.defaults {
		prelude += t.indent + line + "\n"
	}
	for _, line := range parts.initializers {
		prelude += t.indent + line + "\n"
	}
	t.returnTupleStack = append(t.returnTupleStack, types.IsTupleType(returnType))
	bodyStr, err := t.transpileScope(body.Statements)
	t.returnTupleStack = t.returnTupleStack[:len(t.returnTupleStack)-1]
	t.popIndent()
	if err != nil {
		return "", err
	}
	result := out + prelude + bodyStr + t.indent + "end"
	if isAsync {
		result = "TS.async(" + result + ")"
	}
	return result, nil
}

func (t *Transpiler) transpileArrowFunction(node *ast.ArrowFunction) (string, errors.TranspileError) {
	if block, ok := node.Body.(*ast.BlockStatement); ok {
		return t.transpileFunctionValue(node.Parameters, block, node.IsAsync, node.ReturnType)
	}
	exp, ok := node.Body.(ast.Expression)
	if !ok {
		return "", t.err(node, errors.CodeUnrecognizedOperation, "unrecognized arrow function body %T", node.Body)
	}
	parts, err := t.transpileParameters(node.Parameters)
	if err != nil {
		return "", err
	}
	out := "function(" + join(parts.names) + ")\n"
	t.pushIndent()
	var prelude string
	for _, line := range parts.defaults {
		prelude += t.indent + line + "\n"
	}
	for _, line := range parts.initializers {
		prelude += t.indent + line + "\n"
	}
	expStr, err := t.transpileExpression(exp)
	t.popIndent()
	if err != nil {
		return "", err
	}
	result := out + prelude + t.indent + "\treturn " + expStr + ";\n" + t.indent + "end"
	if node.IsAsync {
		result = "TS.async(" + result + ")"
	}
	return result, nil
}

// transpileFunctionDeclaration hoists the name and assigns the function
// value, so forward references and recursion resolve.
func (t *Transpiler) transpileFunctionDeclaration(node *ast.FunctionDeclaration) (string, errors.TranspileError) {
	name, err := t.transpileIdentifier(node.Name)
	if err != nil {
		return "", err
	}
	t.hoistIdentifier(name)
	if node.Exported {
		t.markExported(name)
	}
	fnStr, err := t.transpileFunctionValue(node.Parameters, node.Body, node.IsAsync, node.ReturnType)
	if err != nil {
		return "", err
	}
	return t.indent + name + " = " + fnStr + ";\n", nil
}

// --- Namespaces ---

// isTypeOnlyStatement reports whether a statement contributes nothing at
// runtime.
func isTypeOnlyStatement(node ast.Statement) bool {
	switch stmt := node.(type) {
	case *ast.InterfaceDeclaration, *ast.TypeAliasDeclaration, *ast.EmptyStatement, *ast.AmbientDeclaration:
		return true
	case *ast.NamespaceDeclaration:
		for _, s := range stmt.Statements {
			if !isTypeOnlyStatement(s) {
				return false
			}
		}
		return true
	}
	return false
}

// transpileNamespace lowers a namespace to a local table filled inside a
// scoped block. A namespace whose transitive body is type-level only emits
// nothing.
func (t *Transpiler) transpileNamespace(node *ast.NamespaceDeclaration) (string, errors.TranspileError) {
	typeOnly := true
	for _, s := range node.Statements {
		if !isTypeOnlyStatement(s) {
			typeOnly = false
			break
		}
	}
	if typeOnly {
		return "", nil
	}

	name, err := t.transpileIdentifier(node.Name)
	if err != nil {
		return "", err
	}
	if node.Exported {
		t.markExported(name)
	}

	// A fresh synthetic identifier names the namespace object and receives
	// the nested exports.
	id := t.getNewID()
	out := t.indent + "local " + name + " = {} do\n"
	t.pushIndent()
	inner := t.indent + "local " + id + " = " + name + ";\n"
	t.namespaceStack = append(t.namespaceStack, id)
	body, err := t.transpileScope(node.Statements)
	t.namespaceStack = t.namespaceStack[:len(t.namespaceStack)-1]
	t.popIndent()
	if err != nil {
		return "", err
	}
	return out + inner + body + t.indent + "end;\n", nil
}

// --- Enums ---

type enumValue struct {
	Name     string
	IsNumber bool
	Number   float64
	Str      string
}

func formatEnumNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// enumMemberValues evaluates enum members: uninitialised members
// auto-increment from the last numeric value, starting at 0.
func (t *Transpiler) enumMemberValues(decl *ast.EnumDeclaration) ([]enumValue, errors.TranspileError) {
	var out []enumValue
	nextValue := 0.0
	lastWasNumeric := true
	for _, member := range decl.Members {
		v := enumValue{Name: member.Name.Name}
		switch init := member.Initializer.(type) {
		case nil:
			if !lastWasNumeric {
				return nil, t.err(member, errors.CodeUnrecognizedOperation, "enum member %q requires an initializer", member.Name.Name)
			}
			v.IsNumber = true
			v.Number = nextValue
		case *ast.NumberLiteral:
			v.IsNumber = true
			v.Number = init.Value
		case *ast.PrefixExpression:
			num, ok := init.Operand.(*ast.NumberLiteral)
			if init.Operator != "-" || !ok {
				return nil, t.err(member, errors.CodeUnrecognizedOperation, "enum member %q must have a constant initializer", member.Name.Name)
			}
			v.IsNumber = true
			v.Number = -num.Value
		case *ast.StringLiteral:
			v.Str = init.Value
		default:
			return nil, t.err(member, errors.CodeUnrecognizedOperation, "enum member %q must have a constant initializer", member.Name.Name)
		}
		if v.IsNumber {
			nextValue = v.Number + 1
			lastWasNumeric = true
		} else {
			lastWasNumeric = false
		}
		out = append(out, v)
	}
	return out, nil
}

// transpileEnumDeclaration emits an idempotent table of forward member
// mappings; numeric members also get the reverse mapping. Const enums emit
// nothing — their uses were inlined at the access sites.
func (t *Transpiler) transpileEnumDeclaration(node *ast.EnumDeclaration) (string, errors.TranspileError) {
	if node.IsConst {
		return "", nil
	}
	name, err := t.transpileIdentifier(node.Name)
	if err != nil {
		return "", err
	}
	t.hoistIdentifier(name)
	if node.Exported {
		t.markExported(name)
	}

	values, err := t.enumMemberValues(node)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(t.indent + name + " = " + name + " or {};\n")
	out.WriteString(t.indent + "do\n")
	t.pushIndent()
	for _, v := range values {
		if v.IsNumber {
			num := formatEnumNumber(v.Number)
			out.WriteString(t.indent + name + "." + v.Name + " = " + num + ";\n")
			out.WriteString(t.indent + name + "[" + num + "] = \"" + v.Name + "\";\n")
		} else {
			out.WriteString(t.indent + name + "." + v.Name + " = " + strconv.Quote(v.Str) + ";\n")
		}
	}
	t.popIndent()
	out.WriteString(t.indent + "end;\n")
	return out.String(), nil
}
