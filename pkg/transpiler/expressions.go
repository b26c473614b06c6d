package transpiler

import (
	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/types"
)

// assignmentOperators are the assignment forms of BinaryExpression.
var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"**=": true, "%=": true, "|=": true, "&=": true, "^=": true,
	"<<=": true, ">>=": true,
}

func (t *Transpiler) transpileExpression(node ast.Expression) (string, errors.TranspileError) {
	switch exp := node.(type) {
	case *ast.Identifier:
		return t.transpileIdentifier(exp)
	case *ast.NumberLiteral:
		return t.transpileNumberLiteral(exp), nil
	case *ast.StringLiteral:
		return t.transpileStringLiteral(exp), nil
	case *ast.BooleanLiteral:
		if exp.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.NullLiteral:
		return "", t.err(exp, errors.CodeNoNull, "`null` is not supported; use `undefined`")
	case *ast.TemplateLiteral:
		return t.transpileTemplateLiteral(exp)
	case *ast.ArrayLiteral:
		return t.transpileArrayLiteral(exp)
	case *ast.ObjectLiteral:
		return t.transpileObjectLiteral(exp)
	case *ast.ThisExpression:
		return "self", nil
	case *ast.BinaryExpression:
		if assignmentOperators[exp.Operator] {
			return t.transpileAssignmentExpression(exp)
		}
		return t.transpileBinaryExpression(exp)
	case *ast.PrefixExpression:
		return t.transpilePrefixExpression(exp)
	case *ast.PostfixExpression:
		return t.transpilePostfixExpression(exp)
	case *ast.ConditionalExpression:
		return t.transpileConditionalExpression(exp)
	case *ast.CallExpression:
		return t.transpileCallExpression(exp, false)
	case *ast.NewExpression:
		return t.transpileNewExpression(exp)
	case *ast.MemberExpression:
		return t.transpileMemberExpression(exp)
	case *ast.IndexExpression:
		return t.transpileIndexExpression(exp)
	case *ast.AwaitExpression:
		str, err := t.transpileExpression(exp.Expression)
		if err != nil {
			return "", err
		}
		return "TS.await(" + str + ")", nil
	case *ast.SpreadElement:
		str, err := t.transpileExpression(exp.Expression)
		if err != nil {
			return "", err
		}
		return "unpack(" + str + ")", nil
	case *ast.ParenthesizedExpression:
		str, err := t.transpileExpression(exp.Expression)
		if err != nil {
			return "", err
		}
		return "(" + str + ")", nil
	case *ast.AsExpression:
		return t.transpileExpression(exp.Expression)
	case *ast.FunctionLiteral:
		return t.transpileFunctionValue(exp.Parameters, exp.Body, exp.IsAsync, exp.ReturnType)
	case *ast.ArrowFunction:
		return t.transpileArrowFunction(exp)
	case *ast.SuperExpression:
		return "", t.err(exp, errors.CodeUnrecognizedOperation, "unexpected `super` outside call or property access")
	default:
		return "", t.err(node, errors.CodeUnrecognizedOperation, "unrecognized expression kind %T", node)
	}
}

// typeOf returns the provider-resolved type of an expression, widening to
// `any` when the provider left it unset.
func typeOf(exp ast.Expression) types.Type {
	if exp == nil {
		return types.Any
	}
	if t := exp.GetComputedType(); t != nil {
		return t
	}
	return types.Any
}

// --- Binary expressions ---

func (t *Transpiler) transpileBinaryExpression(node *ast.BinaryExpression) (string, errors.TranspileError) {
	lhsStr, err := t.transpileExpression(node.Left)
	if err != nil {
		return "", err
	}

	// `in` reads the right operand as the container.
	if node.Operator == "in" {
		rhsStr, err := t.transpileExpression(node.Right)
		if err != nil {
			return "", err
		}
		return rhsStr + "[" + lhsStr + "] ~= nil", nil
	}

	if node.Operator == "instanceof" {
		return t.transpileInstanceOf(node, lhsStr)
	}

	rhsStr, err := t.transpileExpression(node.Right)
	if err != nil {
		return "", err
	}

	switch node.Operator {
	case "==", "!=":
		return "", t.err(node, errors.CodeNoNonStrictEquality, "operator %q is not supported; use strict equality", node.Operator)
	case "===":
		return lhsStr + " == " + rhsStr, nil
	case "!==":
		return lhsStr + " ~= " + rhsStr, nil
	case "&&":
		return lhsStr + " and " + rhsStr, nil
	case "||":
		return lhsStr + " or " + rhsStr, nil
	case "<", ">", "<=", ">=":
		return lhsStr + " " + node.Operator + " " + rhsStr, nil
	case "+":
		return t.additionText(node.Left, node.Right, lhsStr, rhsStr), nil
	case "-", "*", "/", "%":
		return lhsStr + " " + node.Operator + " " + rhsStr, nil
	case "**":
		return lhsStr + " ^ " + rhsStr, nil
	case "|":
		// `x | 0` is the canonical integer-truncation idiom.
		if num, ok := node.Right.(*ast.NumberLiteral); ok && num.Value == 0 && num.Text != "" {
			return "TS.round(" + lhsStr + ")", nil
		}
		return "TS.bor(" + lhsStr + ", " + rhsStr + ")", nil
	case "&":
		return "TS.band(" + lhsStr + ", " + rhsStr + ")", nil
	case "^":
		return "TS.bxor(" + lhsStr + ", " + rhsStr + ")", nil
	case "<<":
		return "TS.blsh(" + lhsStr + ", " + rhsStr + ")", nil
	case ">>":
		return "TS.brsh(" + lhsStr + ", " + rhsStr + ")", nil
	default:
		return "", t.err(node, errors.CodeBadBinaryOperator, "bad binary operator %q", node.Operator)
	}
}

// additionText dispatches `+` on operand types: string concatenation when
// either side is a string, native addition when both are numbers, and the
// runtime helper otherwise (user-defined semantics on domain types).
func (t *Transpiler) additionText(left, right ast.Expression, lhsStr, rhsStr string) string {
	lhsType, rhsType := typeOf(left), typeOf(right)
	if types.IsStringType(lhsType) || types.IsStringType(rhsType) {
		return "(" + lhsStr + ") .. " + rhsStr
	}
	if types.IsNumberType(lhsType) && types.IsNumberType(rhsType) {
		return lhsStr + " + " + rhsStr
	}
	return "TS.add(" + lhsStr + ", " + rhsStr + ")"
}

// typeofTagTypes are engine value types whose instances answer a typeof tag
// check rather than an isA query.
var typeofTagTypes = map[string]bool{
	"CFrame":              true,
	"UDim":                true,
	"UDim2":               true,
	"Vector2":             true,
	"Vector2int16":        true,
	"Vector3":             true,
	"Vector3int16":        true,
	"RBXScriptConnection": true,
	"RBXScriptSignal":     true,
}

func (t *Transpiler) transpileInstanceOf(node *ast.BinaryExpression, lhsStr string) (string, errors.TranspileError) {
	rhsType := typeOf(node.Right)
	if classType, ok := rhsType.(*types.ClassType); ok {
		if classType.InheritsFrom("Rbx_Instance") {
			return "TS.isA(" + lhsStr + ", \"" + classType.Name + "\")", nil
		}
		if typeofTagTypes[classType.Name] {
			return "(TS.typeof(" + lhsStr + ") == \"" + classType.Name + "\")", nil
		}
	}
	rhsStr, err := t.transpileExpression(node.Right)
	if err != nil {
		return "", err
	}
	return "TS.instanceof(" + lhsStr + ", " + rhsStr + ")", nil
}

// --- Prefix / postfix ---

func (t *Transpiler) transpilePrefixExpression(node *ast.PrefixExpression) (string, errors.TranspileError) {
	switch node.Operator {
	case "!":
		str, err := t.transpileExpression(node.Operand)
		if err != nil {
			return "", err
		}
		return "not " + str, nil
	case "-":
		str, err := t.transpileExpression(node.Operand)
		if err != nil {
			return "", err
		}
		return "-" + str, nil
	case "typeof":
		str, err := t.transpileExpression(node.Operand)
		if err != nil {
			return "", err
		}
		return "TS.typeof(" + str + ")", nil
	case "++", "--":
		return t.transpileIncDecExpression(node, node.Operand, node.Operator, true)
	default:
		return "", t.err(node, errors.CodeBadPrefixOperator, "bad prefix operator %q", node.Operator)
	}
}

func (t *Transpiler) transpilePostfixExpression(node *ast.PostfixExpression) (string, errors.TranspileError) {
	switch node.Operator {
	case "++", "--":
		return t.transpileIncDecExpression(node, node.Operand, node.Operator, false)
	default:
		return "", t.err(node, errors.CodeBadPostfixOperator, "bad postfix operator %q", node.Operator)
	}
}

func incDecOp(operator string) string {
	if operator == "++" {
		return "+"
	}
	return "-"
}

// assignmentTarget resolves the write site of an assignment or inc/dec. When
// the target is a property or element access, the receiver is evaluated
// exactly once into a fresh identifier; receiverLine carries that binding.
func (t *Transpiler) assignmentTarget(lhs ast.Expression) (receiverLine string, accessStr string, err errors.TranspileError) {
	switch target := lhs.(type) {
	case *ast.Identifier:
		str, err := t.transpileIdentifier(target)
		if err != nil {
			return "", "", err
		}
		return "", str, nil
	case *ast.MemberExpression:
		objStr, err := t.transpileExpression(target.Object)
		if err != nil {
			return "", "", err
		}
		id := t.getNewID()
		return "local " + id + " = " + objStr + ";", t.memberAccessText(id, target.Property.Name), nil
	case *ast.IndexExpression:
		objStr, err := t.transpileExpression(target.Object)
		if err != nil {
			return "", "", err
		}
		indexStr, err := t.indexText(target)
		if err != nil {
			return "", "", err
		}
		id := t.getNewID()
		return "local " + id + " = " + objStr + ";", id + "[" + indexStr + "]", nil
	default:
		return "", "", t.err(lhs, errors.CodeUnrecognizedOperation, "unrecognized assignment target %T", lhs)
	}
}

// transpileIncDecStatement lowers ++/-- in statement position.
func (t *Transpiler) transpileIncDecStatement(operand ast.Expression, operator string) (string, errors.TranspileError) {
	receiverLine, access, err := t.assignmentTarget(operand)
	if err != nil {
		return "", err
	}
	var out string
	if receiverLine != "" {
		out += t.indent + receiverLine + "\n"
	}
	out += t.indent + access + " = " + access + " " + incDecOp(operator) + " 1;\n"
	return out, nil
}

// transpileIncDecExpression lowers ++/-- in value position: an immediately
// invoked function preserves assignment-is-an-expression semantics, and the
// postfix form captures the pre-value into a fresh identifier.
func (t *Transpiler) transpileIncDecExpression(node ast.Expression, operand ast.Expression, operator string, prefix bool) (string, errors.TranspileError) {
	receiverLine, access, err := t.assignmentTarget(operand)
	if err != nil {
		return "", err
	}
	op := incDecOp(operator)
	var out string
	out += "(function()"
	if receiverLine != "" {
		out += " " + receiverLine
	}
	if prefix {
		out += " " + access + " = " + access + " " + op + " 1; return " + access + "; end)()"
		return out, nil
	}
	pre := t.getNewID()
	out += " local " + pre + " = " + access + "; " + access + " = " + access + " " + op + " 1; return " + pre + "; end)()"
	return out, nil
}

// compoundRHS builds the read-modify value for a compound assignment,
// reusing the addition dispatch for `+=`.
func (t *Transpiler) compoundRHS(node *ast.BinaryExpression, access, rhsStr string) (string, errors.TranspileError) {
	rhs := "(" + rhsStr + ")"
	switch node.Right.(type) {
	case *ast.Identifier, *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral,
		*ast.CallExpression, *ast.ParenthesizedExpression:
		rhs = rhsStr
	}
	switch node.Operator {
	case "+=":
		return t.additionText(node.Left, node.Right, access, rhs), nil
	case "-=":
		return access + " - " + rhs, nil
	case "*=":
		return access + " * " + rhs, nil
	case "/=":
		return access + " / " + rhs, nil
	case "**=":
		return access + " ^ " + rhs, nil
	case "%=":
		return access + " % " + rhs, nil
	case "|=":
		return "TS.bor(" + access + ", " + rhsStr + ")", nil
	case "&=":
		return "TS.band(" + access + ", " + rhsStr + ")", nil
	case "^=":
		return "TS.bxor(" + access + ", " + rhsStr + ")", nil
	case "<<=":
		return "TS.blsh(" + access + ", " + rhsStr + ")", nil
	case ">>=":
		return "TS.brsh(" + access + ", " + rhsStr + ")", nil
	default:
		return "", t.err(node, errors.CodeBadBinaryOperator, "bad compound assignment operator %q", node.Operator)
	}
}

// transpileAssignmentStatement lowers assignment forms in statement position
// as a plain statement sequence.
func (t *Transpiler) transpileAssignmentStatement(node *ast.BinaryExpression) (string, errors.TranspileError) {
	rhsStr, err := t.transpileExpression(node.Right)
	if err != nil {
		return "", err
	}
	if node.Operator == "=" {
		// Plain assignment reads the receiver once by construction.
		lhsStr, err := t.transpilePlainAssignmentTarget(node.Left)
		if err != nil {
			return "", err
		}
		return t.indent + lhsStr + " = " + rhsStr + ";\n", nil
	}
	receiverLine, access, err := t.assignmentTarget(node.Left)
	if err != nil {
		return "", err
	}
	value, err := t.compoundRHS(node, access, rhsStr)
	if err != nil {
		return "", err
	}
	var out string
	if receiverLine != "" {
		out += t.indent + receiverLine + "\n"
	}
	out += t.indent + access + " = " + value + ";\n"
	return out, nil
}

// transpilePlainAssignmentTarget renders the write site of a `=` assignment.
func (t *Transpiler) transpilePlainAssignmentTarget(lhs ast.Expression) (string, errors.TranspileError) {
	switch target := lhs.(type) {
	case *ast.Identifier:
		return t.transpileIdentifier(target)
	case *ast.MemberExpression:
		objStr, err := t.transpileExpression(target.Object)
		if err != nil {
			return "", err
		}
		return t.memberAccessText(objStr, target.Property.Name), nil
	case *ast.IndexExpression:
		objStr, err := t.transpileExpression(target.Object)
		if err != nil {
			return "", err
		}
		indexStr, err := t.indexText(target)
		if err != nil {
			return "", err
		}
		return objStr + "[" + indexStr + "]", nil
	default:
		return "", t.err(lhs, errors.CodeUnrecognizedOperation, "unrecognized assignment target %T", lhs)
	}
}

// transpileAssignmentExpression lowers assignment forms in value position by
// wrapping the statement sequence in an immediately invoked function that
// returns the new value.
func (t *Transpiler) transpileAssignmentExpression(node *ast.BinaryExpression) (string, errors.TranspileError) {
	rhsStr, err := t.transpileExpression(node.Right)
	if err != nil {
		return "", err
	}
	receiverLine, access, err := t.assignmentTarget(node.Left)
	if err != nil {
		return "", err
	}
	var value string
	if node.Operator == "=" {
		value = rhsStr
	} else {
		value, err = t.compoundRHS(node, access, rhsStr)
		if err != nil {
			return "", err
		}
	}
	out := "(function()"
	if receiverLine != "" {
		out += " " + receiverLine
	}
	out += " " + access + " = " + value + "; return " + access + "; end)()"
	return out, nil
}

// --- Conditional ---

func (t *Transpiler) transpileConditionalExpression(node *ast.ConditionalExpression) (string, errors.TranspileError) {
	condStr, err := t.transpileExpression(node.Condition)
	if err != nil {
		return "", err
	}
	trueStr, err := t.transpileExpression(node.WhenTrue)
	if err != nil {
		return "", err
	}
	falseStr, err := t.transpileExpression(node.WhenFalse)
	if err != nil {
		return "", err
	}
	// When the true branch admits false-like values, the direct and/or form
	// would fall through to the false branch; thunk both sides.
	trueType := typeOf(node.WhenTrue)
	if types.IsNullableType(trueType) || types.IsBooleanType(trueType) {
		return "(" + condStr + " and function() return " + trueStr + " end or function() return " + falseStr + " end)()", nil
	}
	return "(" + condStr + " and " + trueStr + " or " + falseStr + ")", nil
}
