package transpiler

import (
	"fmt"
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/types"
)

func (t *Transpiler) transpileStatements(stmts []ast.Statement) (string, errors.TranspileError) {
	var out strings.Builder
	for _, stmt := range stmts {
		str, err := t.transpileStatement(stmt)
		if err != nil {
			return "", err
		}
		out.WriteString(str)
	}
	return out.String(), nil
}

func (t *Transpiler) transpileStatement(node ast.Statement) (string, errors.TranspileError) {
	switch stmt := node.(type) {
	case *ast.VariableStatement:
		return t.transpileVariableStatement(stmt)
	case *ast.ExpressionStatement:
		return t.transpileExpressionStatement(stmt)
	case *ast.BlockStatement:
		return t.transpileBlockStatement(stmt)
	case *ast.ReturnStatement:
		return t.transpileReturnStatement(stmt)
	case *ast.IfStatement:
		return t.transpileIfStatement(stmt)
	case *ast.WhileStatement:
		return t.transpileWhileStatement(stmt)
	case *ast.DoWhileStatement:
		return t.transpileDoWhileStatement(stmt)
	case *ast.ForStatement:
		return t.transpileForStatement(stmt)
	case *ast.ForInStatement:
		return t.transpileForInStatement(stmt)
	case *ast.ForOfStatement:
		return t.transpileForOfStatement(stmt)
	case *ast.BreakStatement:
		if stmt.Label != nil {
			return "", t.err(stmt, errors.CodeNoLabeledStatement, "labeled break is not supported")
		}
		return t.indent + "break;\n", nil
	case *ast.ContinueStatement:
		return t.transpileContinueStatement(stmt)
	case *ast.SwitchStatement:
		return t.transpileSwitchStatement(stmt)
	case *ast.ThrowStatement:
		str, err := t.transpileExpression(stmt.Value)
		if err != nil {
			return "", err
		}
		return t.indent + "TS.error(" + str + ");\n", nil
	case *ast.TryStatement:
		return t.transpileTryStatement(stmt)
	case *ast.LabeledStatement:
		return "", t.err(stmt, errors.CodeNoLabeledStatement, "labeled statements are not supported")
	case *ast.EmptyStatement:
		return "", nil
	case *ast.FunctionDeclaration:
		return t.transpileFunctionDeclaration(stmt)
	case *ast.ClassDeclaration:
		return t.transpileClassDeclaration(stmt)
	case *ast.NamespaceDeclaration:
		return t.transpileNamespace(stmt)
	case *ast.EnumDeclaration:
		return t.transpileEnumDeclaration(stmt)
	case *ast.InterfaceDeclaration, *ast.TypeAliasDeclaration, *ast.AmbientDeclaration:
		return "", nil
	case *ast.ImportDeclaration:
		return t.transpileImportDeclaration(stmt)
	case *ast.ExportDeclaration:
		return t.transpileExportDeclaration(stmt)
	case *ast.ExportAssignment:
		return t.transpileExportAssignment(stmt)
	default:
		return "", t.err(node, errors.CodeUnrecognizedOperation, "unrecognized statement kind %T", node)
	}
}

// transpileInnerStatement translates the body of a control construct: blocks
// open a fresh statemented scope in place, single statements translate as-is.
func (t *Transpiler) transpileInnerStatement(node ast.Statement) (string, errors.TranspileError) {
	if block, ok := node.(*ast.BlockStatement); ok {
		return t.transpileScope(block.Statements)
	}
	return t.transpileStatement(node)
}

func (t *Transpiler) transpileBlockStatement(node *ast.BlockStatement) (string, errors.TranspileError) {
	out := t.indent + "do\n"
	t.pushIndent()
	body, err := t.transpileScope(node.Statements)
	t.popIndent()
	if err != nil {
		return "", err
	}
	return out + body + t.indent + "end;\n", nil
}

// --- Expression statements ---

func (t *Transpiler) transpileExpressionStatement(node *ast.ExpressionStatement) (string, errors.TranspileError) {
	switch exp := node.Expression.(type) {
	case *ast.CallExpression:
		str, err := t.transpileCallExpression(exp, true)
		if err != nil {
			return "", err
		}
		return t.indent + str + ";\n", nil
	case *ast.NewExpression:
		str, err := t.transpileNewExpression(exp)
		if err != nil {
			return "", err
		}
		return t.indent + str + ";\n", nil
	case *ast.AwaitExpression:
		str, err := t.transpileExpression(exp)
		if err != nil {
			return "", err
		}
		return t.indent + str + ";\n", nil
	case *ast.BinaryExpression:
		if assignmentOperators[exp.Operator] {
			return t.transpileAssignmentStatement(exp)
		}
	case *ast.PrefixExpression:
		if exp.Operator == "++" || exp.Operator == "--" {
			return t.transpileIncDecStatement(exp.Operand, exp.Operator)
		}
	case *ast.PostfixExpression:
		if exp.Operator == "++" || exp.Operator == "--" {
			return t.transpileIncDecStatement(exp.Operand, exp.Operator)
		}
	}
	return "", t.err(node, errors.CodeInvalidExpressionStatement,
		"expression statements must be assignments, calls, new-expressions, awaits, or increments")
}

// --- Variable statements ---

// isFlatIdentifierArrayPattern reports whether a pattern is a flat array
// pattern of plain identifiers, which a tuple call can assign directly.
func isFlatIdentifierArrayPattern(pattern ast.Node) bool {
	arr, ok := pattern.(*ast.ArrayBindingPattern)
	if !ok || len(arr.Elements) == 0 {
		return false
	}
	for _, element := range arr.Elements {
		if element == nil || element.IsRest || element.Initializer != nil {
			return false
		}
		if _, ok := element.Name.(*ast.Identifier); !ok {
			return false
		}
	}
	return true
}

// isTupleCall reports whether the expression is a call returning a tuple.
func isTupleCall(exp ast.Expression) bool {
	_, ok := exp.(*ast.CallExpression)
	return ok && types.IsTupleType(typeOf(exp))
}

func (t *Transpiler) transpileVariableStatement(node *ast.VariableStatement) (string, errors.TranspileError) {
	if node.Kind == ast.DeclarationVar {
		return "", t.err(node, errors.CodeNoVarKeyword, "`var` is not supported; use `let` or `const`")
	}

	// A lone flat array pattern bound to a tuple call consumes the
	// multi-return directly.
	if len(node.Declarations) == 1 {
		decl := node.Declarations[0]
		if isFlatIdentifierArrayPattern(decl.Name) && decl.Initializer != nil && isTupleCall(decl.Initializer) {
			arr := decl.Name.(*ast.ArrayBindingPattern)
			names := make([]string, len(arr.Elements))
			for i, element := range arr.Elements {
				str, err := t.transpileIdentifier(element.Name.(*ast.Identifier))
				if err != nil {
					return "", err
				}
				names[i] = str
			}
			initStr, err := t.transpileExpression(decl.Initializer)
			if err != nil {
				return "", err
			}
			if node.Exported {
				t.markExported(names...)
			}
			return t.indent + "local " + join(names) + " = " + initStr + ";\n", nil
		}
	}

	var out strings.Builder
	var exportedNames []string
	for _, decl := range node.Declarations {
		switch name := decl.Name.(type) {
		case *ast.Identifier:
			nameStr, err := t.transpileIdentifier(name)
			if err != nil {
				return "", err
			}
			exportedNames = append(exportedNames, nameStr)
			if decl.Initializer == nil || isUndefinedIdentifier(decl.Initializer) {
				// Trailing nil initializers are truncated.
				out.WriteString(t.indent + "local " + nameStr + ";\n")
				continue
			}
			initStr, err := t.transpileExpression(decl.Initializer)
			if err != nil {
				return "", err
			}
			if isTupleCall(decl.Initializer) {
				// A tuple bound to one identifier collapses into a group.
				out.WriteString(t.indent + "local " + nameStr + " = { " + initStr + " };\n")
				continue
			}
			out.WriteString(t.indent + "local " + nameStr + " = " + initStr + ";\n")
		case *ast.ArrayBindingPattern, *ast.ObjectBindingPattern:
			if decl.Initializer == nil {
				return "", t.err(decl, errors.CodeUnrecognizedOperation, "destructuring declaration has no initializer")
			}
			initStr, err := t.transpileExpression(decl.Initializer)
			if err != nil {
				return "", err
			}
			root := t.getNewID()
			out.WriteString(t.indent + "local " + root + " = " + initStr + ";\n")
			data, err := t.getBindingData(decl.Name, root)
			if err != nil {
				return "", err
			}
			out.WriteString(t.bindingLines(data))
			exportedNames = append(exportedNames, data.names...)
		default:
			return "", t.err(decl, errors.CodeUnrecognizedOperation, "unrecognized declaration name %T", decl.Name)
		}
	}
	if node.Exported {
		t.markExported(exportedNames...)
	}
	return out.String(), nil
}

func isUndefinedIdentifier(exp ast.Expression) bool {
	ident, ok := exp.(*ast.Identifier)
	return ok && ident.Name == "undefined"
}

// --- Return / control flow ---

func (t *Transpiler) transpileReturnStatement(node *ast.ReturnStatement) (string, errors.TranspileError) {
	if node.Value == nil {
		return t.indent + "return;\n", nil
	}
	if t.returnsTuple() && types.IsTupleType(typeOf(node.Value)) {
		if arr, ok := node.Value.(*ast.ArrayLiteral); ok && !arrayHasSpread(arr) {
			// Braces stripped: the elements return as multiple values.
			parts := make([]string, len(arr.Elements))
			for i, element := range arr.Elements {
				str, err := t.transpileExpression(element)
				if err != nil {
					return "", err
				}
				parts[i] = str
			}
			return t.indent + "return " + join(parts) + ";\n", nil
		}
		str, err := t.transpileExpression(node.Value)
		if err != nil {
			return "", err
		}
		if isTupleCall(node.Value) {
			// A tuple call already multi-returns.
			return t.indent + "return " + str + ";\n", nil
		}
		return t.indent + "return unpack(" + str + ");\n", nil
	}
	str, err := t.transpileExpression(node.Value)
	if err != nil {
		return "", err
	}
	return t.indent + "return " + str + ";\n", nil
}

func arrayHasSpread(arr *ast.ArrayLiteral) bool {
	for _, element := range arr.Elements {
		if _, ok := element.(*ast.SpreadElement); ok {
			return true
		}
	}
	return false
}

func (t *Transpiler) transpileIfStatement(node *ast.IfStatement) (string, errors.TranspileError) {
	condStr, err := t.transpileExpression(node.Condition)
	if err != nil {
		return "", err
	}
	out := t.indent + "if " + condStr + " then\n"
	t.pushIndent()
	thenStr, err := t.transpileInnerStatement(node.Then)
	t.popIndent()
	if err != nil {
		return "", err
	}
	out += thenStr

	// Flatten chained else-ifs.
	cur := node.Else
	for cur != nil {
		if elseIf, ok := cur.(*ast.IfStatement); ok {
			condStr, err := t.transpileExpression(elseIf.Condition)
			if err != nil {
				return "", err
			}
			out += t.indent + "elseif " + condStr + " then\n"
			t.pushIndent()
			body, err := t.transpileInnerStatement(elseIf.Then)
			t.popIndent()
			if err != nil {
				return "", err
			}
			out += body
			cur = elseIf.Else
			continue
		}
		out += t.indent + "else\n"
		t.pushIndent()
		body, err := t.transpileInnerStatement(cur)
		t.popIndent()
		if err != nil {
			return "", err
		}
		out += body
		cur = nil
	}
	return out + t.indent + "end;\n", nil
}

// --- Loops and continue simulation ---

// containsContinue reports whether a statement transitively contains a
// continue, without descending into function bodies.
func containsContinue(node ast.Statement) bool {
	switch stmt := node.(type) {
	case *ast.ContinueStatement:
		return true
	case *ast.BlockStatement:
		for _, s := range stmt.Statements {
			if containsContinue(s) {
				return true
			}
		}
	case *ast.IfStatement:
		if containsContinue(stmt.Then) {
			return true
		}
		if stmt.Else != nil && containsContinue(stmt.Else) {
			return true
		}
	case *ast.WhileStatement:
		return containsContinue(stmt.Body)
	case *ast.DoWhileStatement:
		return containsContinue(stmt.Body)
	case *ast.ForStatement:
		return containsContinue(stmt.Body)
	case *ast.ForInStatement:
		return containsContinue(stmt.Body)
	case *ast.ForOfStatement:
		return containsContinue(stmt.Body)
	case *ast.SwitchStatement:
		for _, c := range stmt.Cases {
			for _, s := range c.Statements {
				if containsContinue(s) {
					return true
				}
			}
		}
	case *ast.TryStatement:
		for _, s := range stmt.Block.Statements {
			if containsContinue(s) {
				return true
			}
		}
		if stmt.Catch != nil {
			for _, s := range stmt.Catch.Block.Statements {
				if containsContinue(s) {
					return true
				}
			}
		}
		if stmt.Finally != nil {
			for _, s := range stmt.Finally.Statements {
				if containsContinue(s) {
					return true
				}
			}
		}
	}
	return false
}

func (t *Transpiler) continueFlag() string {
	return fmt.Sprintf("_continue_%d", t.continueID)
}

func (t *Transpiler) transpileContinueStatement(node *ast.ContinueStatement) (string, errors.TranspileError) {
	if node.Label != nil {
		return "", t.err(node, errors.CodeNoLabeledStatement, "labeled continue is not supported")
	}
	if t.continueID < 0 {
		return "", t.err(node, errors.CodeUnrecognizedOperation, "`continue` outside a loop")
	}
	return t.indent + t.continueFlag() + " = true;\n" + t.indent + "break;\n", nil
}

// transpileLoopBody wraps a loop body in the continue simulation when needed:
// the body runs in an inner repeat, continue sets the flag and breaks it, the
// flag is also set on the fall-through path, and a plain break leaves it
// false so the trailing check propagates the outer break.
func (t *Transpiler) transpileLoopBody(body ast.Statement) (string, errors.TranspileError) {
	if !containsContinue(body) {
		return t.transpileInnerStatement(body)
	}
	t.continueID++
	flag := t.continueFlag()
	out := t.indent + "local " + flag + " = false;\n"
	out += t.indent + "repeat\n"
	t.pushIndent()
	inner, err := t.transpileInnerStatement(body)
	if err == nil {
		inner += t.indent + flag + " = true;\n"
	}
	t.popIndent()
	t.continueID--
	if err != nil {
		return "", err
	}
	out += inner + t.indent + "until true;\n"
	out += t.indent + "if not " + flag + " then\n"
	out += t.indent + "\tbreak;\n"
	out += t.indent + "end;\n"
	return out, nil
}

func (t *Transpiler) transpileWhileStatement(node *ast.WhileStatement) (string, errors.TranspileError) {
	condStr, err := t.transpileExpression(node.Condition)
	if err != nil {
		return "", err
	}
	out := t.indent + "while " + condStr + " do\n"
	t.pushIndent()
	body, err := t.transpileLoopBody(node.Body)
	t.popIndent()
	if err != nil {
		return "", err
	}
	return out + body + t.indent + "end;\n", nil
}

func (t *Transpiler) transpileDoWhileStatement(node *ast.DoWhileStatement) (string, errors.TranspileError) {
	out := t.indent + "repeat\n"
	t.pushIndent()
	body, err := t.transpileLoopBody(node.Body)
	t.popIndent()
	if err != nil {
		return "", err
	}
	condStr, err := t.transpileExpression(node.Condition)
	if err != nil {
		return "", err
	}
	return out + body + t.indent + "until not (" + condStr + ");\n", nil
}

// transpileIncrementorStatement lowers a for-loop incrementor in statement
// position.
func (t *Transpiler) transpileIncrementorStatement(exp ast.Expression) (string, errors.TranspileError) {
	switch inc := exp.(type) {
	case *ast.BinaryExpression:
		if assignmentOperators[inc.Operator] {
			return t.transpileAssignmentStatement(inc)
		}
	case *ast.PrefixExpression:
		if inc.Operator == "++" || inc.Operator == "--" {
			return t.transpileIncDecStatement(inc.Operand, inc.Operator)
		}
	case *ast.PostfixExpression:
		if inc.Operator == "++" || inc.Operator == "--" {
			return t.transpileIncDecStatement(inc.Operand, inc.Operator)
		}
	case *ast.CallExpression:
		str, err := t.transpileCallExpression(inc, true)
		if err != nil {
			return "", err
		}
		return t.indent + str + ";\n", nil
	}
	return "", t.err(exp, errors.CodeInvalidExpressionStatement, "unsupported for-loop incrementor")
}

func (t *Transpiler) transpileForStatement(node *ast.ForStatement) (string, errors.TranspileError) {
	out := t.indent + "do\n"
	t.pushIndent()
	body, err := t.scoped(func() (string, errors.TranspileError) {
		var inner strings.Builder
		if node.Initializer != nil {
			initStr, err := t.transpileStatement(node.Initializer)
			if err != nil {
				return "", err
			}
			inner.WriteString(initStr)
		}
		condStr := "true"
		if node.Condition != nil {
			var err errors.TranspileError
			condStr, err = t.transpileExpression(node.Condition)
			if err != nil {
				return "", err
			}
		}
		inner.WriteString(t.indent + "while " + condStr + " do\n")
		t.pushIndent()
		bodyStr, err := t.transpileLoopBody(node.Body)
		if err == nil && node.Incrementor != nil {
			var incStr string
			incStr, err = t.transpileIncrementorStatement(node.Incrementor)
			bodyStr += incStr
		}
		t.popIndent()
		if err != nil {
			return "", err
		}
		inner.WriteString(bodyStr)
		inner.WriteString(t.indent + "end;\n")
		return inner.String(), nil
	})
	t.popIndent()
	if err != nil {
		return "", err
	}
	return out + body + t.indent + "end;\n", nil
}

func (t *Transpiler) transpileForInStatement(node *ast.ForInStatement) (string, errors.TranspileError) {
	if node.Initializer != nil {
		return "", t.err(node, errors.CodeBadForInStatement, "unexpected initializer in for...in")
	}
	ident, ok := node.Variable.(*ast.Identifier)
	if !ok {
		return "", t.err(node, errors.CodeBadForInStatement, "binding patterns are not supported in for...in")
	}
	if ident.Name == "" {
		return "", t.err(node, errors.CodeEmptyForVariable, "empty for...in variable name")
	}
	keyStr, err := t.transpileIdentifier(ident)
	if err != nil {
		return "", err
	}
	expStr, err := t.transpileExpression(node.Expression)
	if err != nil {
		return "", err
	}
	out := t.indent + "for " + keyStr + " in pairs(" + expStr + ") do\n"
	t.pushIndent()
	body, err := t.transpileLoopBody(node.Body)
	t.popIndent()
	if err != nil {
		return "", err
	}
	return out + body + t.indent + "end;\n", nil
}

func (t *Transpiler) transpileForOfStatement(node *ast.ForOfStatement) (string, errors.TranspileError) {
	expStr, err := t.transpileExpression(node.Expression)
	if err != nil {
		return "", err
	}

	switch variable := node.Variable.(type) {
	case *ast.Identifier:
		if variable.Name == "" {
			return "", t.err(node, errors.CodeEmptyForVariable, "empty for...of variable name")
		}
		valueStr, err := t.transpileIdentifier(variable)
		if err != nil {
			return "", err
		}
		out := t.indent + "for _, " + valueStr + " in pairs(" + expStr + ") do\n"
		t.pushIndent()
		body, err := t.transpileLoopBody(node.Body)
		t.popIndent()
		if err != nil {
			return "", err
		}
		return out + body + t.indent + "end;\n", nil
	case *ast.ArrayBindingPattern, *ast.ObjectBindingPattern:
		id := t.getNewID()
		out := t.indent + "for _, " + id + " in pairs(" + expStr + ") do\n"
		t.pushIndent()
		data, err := t.getBindingData(node.Variable, id)
		var body string
		if err == nil {
			body = t.bindingLines(data)
			var bodyStr string
			bodyStr, err = t.transpileLoopBody(node.Body)
			body += bodyStr
		}
		t.popIndent()
		if err != nil {
			return "", err
		}
		return out + body + t.indent + "end;\n", nil
	default:
		return "", t.err(node, errors.CodeUnrecognizedOperation, "unrecognized for...of variable %T", node.Variable)
	}
}

// --- Switch ---

func endsWithBreakOrReturn(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	switch stmts[len(stmts)-1].(type) {
	case *ast.BreakStatement, *ast.ReturnStatement:
		return true
	}
	return false
}

// transpileSwitchStatement lowers a switch to repeat...until true so break
// exits; a fallthrough flag carries matching across cases that do not end in
// break or return.
func (t *Transpiler) transpileSwitchStatement(node *ast.SwitchStatement) (string, errors.TranspileError) {
	out := t.indent + "repeat\n"
	t.pushIndent()
	body, err := t.scoped(func() (string, errors.TranspileError) {
		discStr, err := t.transpileExpression(node.Discriminant)
		if err != nil {
			return "", err
		}
		discVar := t.getNewID()
		var inner strings.Builder
		inner.WriteString(t.indent + "local " + discVar + " = " + discStr + ";\n")

		anyFallThrough := false
		for i, c := range node.Cases {
			if i < len(node.Cases)-1 && !endsWithBreakOrReturn(c.Statements) {
				anyFallThrough = true
				break
			}
		}
		fallVar := ""
		if anyFallThrough {
			fallVar = t.getNewID()
			inner.WriteString(t.indent + "local " + fallVar + " = false;\n")
		}

		for i, c := range node.Cases {
			fallsThrough := fallVar != "" && i < len(node.Cases)-1 && !endsWithBreakOrReturn(c.Statements)
			if c.Test != nil {
				testStr, err := t.transpileExpression(c.Test)
				if err != nil {
					return "", err
				}
				cond := discVar + " == (" + testStr + ")"
				if fallVar != "" {
					cond = fallVar + " or " + cond
				}
				inner.WriteString(t.indent + "if " + cond + " then\n")
				t.pushIndent()
				caseBody, err := t.transpileStatements(c.Statements)
				if err == nil && fallsThrough {
					caseBody += t.indent + fallVar + " = true;\n"
				}
				t.popIndent()
				if err != nil {
					return "", err
				}
				inner.WriteString(caseBody)
				inner.WriteString(t.indent + "end;\n")
			} else {
				// A default clause runs when a prior case fell through, or
				// when nothing matches at all. Earlier cases have already
				// been tested by the time control reaches this position, so
				// a non-last default only needs to rule out the cases after
				// it.
				var laterTests []string
				for _, later := range node.Cases[i+1:] {
					if later.Test == nil {
						continue
					}
					testStr, err := t.transpileExpression(later.Test)
					if err != nil {
						return "", err
					}
					laterTests = append(laterTests, discVar+" == ("+testStr+")")
				}
				guarded := len(laterTests) > 0
				if guarded {
					cond := "not (" + strings.Join(laterTests, " or ") + ")"
					if fallVar != "" {
						cond = fallVar + " or " + cond
					}
					inner.WriteString(t.indent + "if " + cond + " then\n")
					t.pushIndent()
				}
				caseBody, err := t.transpileStatements(c.Statements)
				if err == nil && fallsThrough {
					caseBody += t.indent + fallVar + " = true;\n"
				}
				if guarded {
					t.popIndent()
				}
				if err != nil {
					return "", err
				}
				inner.WriteString(caseBody)
				if guarded {
					inner.WriteString(t.indent + "end;\n")
				}
			}
		}
		return inner.String(), nil
	})
	t.popIndent()
	if err != nil {
		return "", err
	}
	return out + body + t.indent + "until true;\n", nil
}

// --- Try ---

// transpileTryStatement wraps the body in the target's protected-call idiom.
// The catch variable receives the decoded error, and the finally block runs
// unconditionally after the protected call.
func (t *Transpiler) transpileTryStatement(node *ast.TryStatement) (string, errors.TranspileError) {
	okVar := t.getNewID()
	errVar := t.getNewID()
	out := t.indent + "local " + okVar + ", " + errVar + " = pcall(function()\n"
	t.pushIndent()
	body, err := t.transpileScope(node.Block.Statements)
	t.popIndent()
	if err != nil {
		return "", err
	}
	out += body + t.indent + "end);\n"

	if node.Catch != nil {
		out += t.indent + "if not " + okVar + " then\n"
		t.pushIndent()
		catchBody, err := t.scoped(func() (string, errors.TranspileError) {
			var inner string
			if node.Catch.Variable != nil {
				inner = t.indent + "local " + node.Catch.Variable.Name + " = TS.decodeError(" + errVar + ");\n"
			}
			stmts, err := t.transpileStatements(node.Catch.Block.Statements)
			if err != nil {
				return "", err
			}
			return inner + stmts, nil
		})
		t.popIndent()
		if err != nil {
			return "", err
		}
		out += catchBody + t.indent + "end;\n"
	}

	if node.Finally != nil {
		finallyStr, err := t.transpileBlockStatement(node.Finally)
		if err != nil {
			return "", err
		}
		out += finallyStr
	}
	return out, nil
}
