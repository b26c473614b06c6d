package transpiler

import (
	"strings"
	"testing"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/types"
)

func TestVarRejected(t *testing.T) {
	st := letDecl("x", num("1", 1))
	st.Kind = ast.DeclarationVar
	expectCode(t, []ast.Statement{st}, errors.CodeNoVarKeyword)
}

func TestVariableWithoutInitializer(t *testing.T) {
	out := transpileScript(t, letDecl("x", nil), letDecl("y", ident("undefined")))
	expectContains(t, out, "local x;\n", "local y;\n")
}

// E1: a tuple call bound to a single identifier collapses into a group.
func TestTupleCallBoundToIdentifier(t *testing.T) {
	call := callExpr(ident("f"))
	call.SetComputedType(types.NewTupleType(types.Number, types.String))
	out := transpileScript(t, letDecl("x", call))
	expectContains(t, out, "local x = { f() };\n")
}

// E2: a flat identifier array pattern consumes the multi-return directly.
func TestTupleCallDestructuring(t *testing.T) {
	call := callExpr(ident("f"))
	call.SetComputedType(types.NewTupleType(types.Number, types.String))
	st := &ast.VariableStatement{
		Kind: ast.DeclarationConst,
		Declarations: []*ast.VariableDeclaration{{
			Name: &ast.ArrayBindingPattern{Elements: []*ast.BindingElement{
				{Name: ident("a")},
				{Name: ident("b")},
			}},
			Initializer: call,
		}},
	}
	out := transpileScript(t, st)
	expectContains(t, out, "local a, b = f();\n")
}

func TestObjectDestructuring(t *testing.T) {
	st := &ast.VariableStatement{
		Kind: ast.DeclarationConst,
		Declarations: []*ast.VariableDeclaration{{
			Name: &ast.ObjectBindingPattern{Elements: []*ast.BindingElement{
				{Name: ident("a")},
				{Name: ident("c"), PropertyName: "b"},
				{Name: ident("d"), Initializer: num("1", 1)},
			}},
			Initializer: typedIdent("source", types.Any),
		}},
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"local _0 = source;\n",
		"local a, c, d = _0.a, _0.b, _0.d;\n",
		"if d == nil then d = 1 end;\n")
}

func TestNestedDestructuring(t *testing.T) {
	st := &ast.VariableStatement{
		Kind: ast.DeclarationConst,
		Declarations: []*ast.VariableDeclaration{{
			Name: &ast.ObjectBindingPattern{Elements: []*ast.BindingElement{
				{Name: ident("a")},
				{
					Name: &ast.ArrayBindingPattern{Elements: []*ast.BindingElement{
						{Name: ident("b")},
						{Name: ident("c")},
					}},
					PropertyName: "pair",
				},
			}},
			Initializer: typedIdent("source", types.Any),
		}},
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"local _0 = source;\n",
		"local _1 = _0.pair;\n",
		"local a, b, c = _0.a, _1[1], _1[2];\n")
}

func TestSpreadInBindingRejected(t *testing.T) {
	st := &ast.VariableStatement{
		Kind: ast.DeclarationConst,
		Declarations: []*ast.VariableDeclaration{{
			Name: &ast.ArrayBindingPattern{Elements: []*ast.BindingElement{
				{Name: ident("a")},
				{Name: ident("rest"), IsRest: true},
			}},
			Initializer: typedIdent("source", types.Any),
		}},
	}
	expectCode(t, []ast.Statement{st}, errors.CodeNoSpreadInBinding)
}

func TestIfElseChain(t *testing.T) {
	st := &ast.IfStatement{
		Condition: typedIdent("a", types.Boolean),
		Then:      block(exprStmt(callExpr(ident("f")))),
		Else: &ast.IfStatement{
			Condition: typedIdent("b", types.Boolean),
			Then:      block(exprStmt(callExpr(ident("g")))),
			Else:      block(exprStmt(callExpr(ident("h")))),
		},
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"if a then\n\tf();\nelseif b then\n\tg();\nelse\n\th();\nend;\n")
}

func TestWhileLoop(t *testing.T) {
	out := transpileScript(t, &ast.WhileStatement{
		Condition: typedIdent("cond", types.Boolean),
		Body:      block(exprStmt(callExpr(ident("f")))),
	})
	expectContains(t, out, "while cond do\n\tf();\nend;\n")
}

func TestDoWhileLoop(t *testing.T) {
	out := transpileScript(t, &ast.DoWhileStatement{
		Body:      block(exprStmt(callExpr(ident("f")))),
		Condition: typedIdent("cond", types.Boolean),
	})
	expectContains(t, out, "repeat\n\tf();\nuntil not (cond);\n")
}

func TestForLoop(t *testing.T) {
	st := &ast.ForStatement{
		Initializer: letDecl("i", num("0", 0)),
		Condition:   binary(typedIdent("i", types.Number), "<", num("10", 10)),
		Incrementor: &ast.PostfixExpression{Operator: "++", Operand: ident("i")},
		Body:        block(exprStmt(callExpr(ident("f"), ident("i")))),
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"do\n\tlocal i = 0;\n\twhile i < 10 do\n\t\tf(i);\n\t\ti = i + 1;\n\tend;\nend;\n")
}

func TestForLoopWithoutCondition(t *testing.T) {
	out := transpileScript(t, &ast.ForStatement{
		Body: block(&ast.BreakStatement{}),
	})
	expectContains(t, out, "while true do\n\t\tbreak;\n\tend;\n")
}

func TestForInLoop(t *testing.T) {
	out := transpileScript(t, &ast.ForInStatement{
		Variable:   ident("k"),
		Expression: typedIdent("obj", types.Any),
		Body:       block(exprStmt(callExpr(ident("f"), ident("k")))),
	})
	expectContains(t, out, "for k in pairs(obj) do\n\tf(k);\nend;\n")
}

func TestForInRejectsBindingPattern(t *testing.T) {
	expectCode(t, []ast.Statement{&ast.ForInStatement{
		Variable:   &ast.ArrayBindingPattern{Elements: []*ast.BindingElement{{Name: ident("a")}}},
		Expression: typedIdent("obj", types.Any),
		Body:       block(),
	}}, errors.CodeBadForInStatement)
}

func TestForInRejectsInitializer(t *testing.T) {
	expectCode(t, []ast.Statement{&ast.ForInStatement{
		Variable:    ident("k"),
		Initializer: num("0", 0),
		Expression:  typedIdent("obj", types.Any),
		Body:        block(),
	}}, errors.CodeBadForInStatement)
}

func TestEmptyForVariableRejected(t *testing.T) {
	expectCode(t, []ast.Statement{&ast.ForInStatement{
		Variable:   ident(""),
		Expression: typedIdent("obj", types.Any),
		Body:       block(),
	}}, errors.CodeEmptyForVariable)

	expectCode(t, []ast.Statement{&ast.ForOfStatement{
		Variable:   ident(""),
		Expression: typedIdent("list", types.Any),
		Body:       block(),
	}}, errors.CodeEmptyForVariable)
}

func TestForOfLoop(t *testing.T) {
	out := transpileScript(t, &ast.ForOfStatement{
		Variable:   ident("v"),
		Expression: typedIdent("list", types.NewArrayType(types.Number)),
		Body:       block(exprStmt(callExpr(ident("f"), ident("v")))),
	})
	expectContains(t, out, "for _, v in pairs(list) do\n\tf(v);\nend;\n")
}

func TestForOfWithBindingPattern(t *testing.T) {
	out := transpileScript(t, &ast.ForOfStatement{
		Variable: &ast.ObjectBindingPattern{Elements: []*ast.BindingElement{
			{Name: ident("a")},
			{Name: ident("b")},
		}},
		Expression: typedIdent("list", types.Any),
		Body:       block(exprStmt(callExpr(ident("f"), ident("a"), ident("b")))),
	})
	expectContains(t, out,
		"for _, _0 in pairs(list) do\n",
		"\tlocal a, b = _0.a, _0.b;\n",
		"\tf(a, b);\n")
}

func TestLabeledStatementsRejected(t *testing.T) {
	expectCode(t, []ast.Statement{&ast.LabeledStatement{
		Label:     ident("outer"),
		Statement: block(),
	}}, errors.CodeNoLabeledStatement)

	expectCode(t, []ast.Statement{&ast.WhileStatement{
		Condition: boolLit(true),
		Body:      block(&ast.BreakStatement{Label: ident("outer")}),
	}}, errors.CodeNoLabeledStatement)
}

func TestContinueSimulation(t *testing.T) {
	st := &ast.WhileStatement{
		Condition: typedIdent("cond", types.Boolean),
		Body: block(
			&ast.IfStatement{
				Condition: typedIdent("skip", types.Boolean),
				Then:      block(&ast.ContinueStatement{}),
			},
			exprStmt(callExpr(ident("f"))),
		),
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"local _continue_0 = false;\n",
		"repeat\n",
		"_continue_0 = true;\n\t\t\tbreak;\n",
		"until true;\n",
		"if not _continue_0 then\n\t\tbreak;\n\tend;\n")
	// The fall-through path sets the flag too.
	if strings.Count(out, "_continue_0 = true;") != 2 {
		t.Errorf("expected flag set on both continue and fall-through paths:\n%s", out)
	}
}

func TestNestedContinueSimulation(t *testing.T) {
	inner := &ast.WhileStatement{
		Condition: typedIdent("b", types.Boolean),
		Body:      block(&ast.ContinueStatement{}),
	}
	outer := &ast.WhileStatement{
		Condition: typedIdent("a", types.Boolean),
		Body:      block(inner),
	}
	out := transpileScript(t, outer)
	expectContains(t, out, "_continue_0", "_continue_1 = true;")
}

func TestSwitchStatement(t *testing.T) {
	st := &ast.SwitchStatement{
		Discriminant: typedIdent("x", types.Number),
		Cases: []*ast.SwitchCase{
			{Test: num("1", 1), Statements: []ast.Statement{
				exprStmt(callExpr(ident("one"))),
			}},
			{Test: num("2", 2), Statements: []ast.Statement{
				exprStmt(callExpr(ident("two"))),
				&ast.BreakStatement{},
			}},
			{Statements: []ast.Statement{
				exprStmt(callExpr(ident("other"))),
			}},
		},
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"repeat\n",
		"local _0 = x;\n",
		"local _1 = false;\n",
		"if _1 or _0 == (1) then\n",
		"one();\n",
		"_1 = true;\n",
		"if _1 or _0 == (2) then\n",
		"two();\n",
		"break;\n",
		"other();\n",
		"until true;\n")
}

// A default clause placed before other cases must not run when a later case
// matches; it is guarded on the remaining tests.
func TestSwitchWithMidDefault(t *testing.T) {
	st := &ast.SwitchStatement{
		Discriminant: typedIdent("x", types.Number),
		Cases: []*ast.SwitchCase{
			{Test: num("1", 1), Statements: []ast.Statement{
				exprStmt(callExpr(ident("a"))),
				&ast.BreakStatement{},
			}},
			{Statements: []ast.Statement{
				exprStmt(callExpr(ident("d"))),
			}},
			{Test: num("2", 2), Statements: []ast.Statement{
				exprStmt(callExpr(ident("b"))),
				&ast.BreakStatement{},
			}},
		},
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"if _1 or _0 == (1) then\n",
		"if _1 or not (_0 == (2)) then\n",
		"d();\n",
		"_1 = true;\n",
		"if _1 or _0 == (2) then\n",
		"b();\n")
	defaultIdx := strings.Index(out, "if _1 or not (_0 == (2)) then")
	lastCaseIdx := strings.Index(out, "if _1 or _0 == (2) then")
	if defaultIdx < 0 || lastCaseIdx < 0 || defaultIdx > lastCaseIdx {
		t.Errorf("default guard must precede the later case in source order:\n%s", out)
	}
}

func TestTryCatchFinally(t *testing.T) {
	st := &ast.TryStatement{
		Block: block(&ast.ThrowStatement{Value: strLit("boom")}),
		Catch: &ast.CatchClause{
			Variable: ident("e"),
			Block:    block(exprStmt(callExpr(ident("warn"), ident("e")))),
		},
		Finally: block(exprStmt(callExpr(ident("cleanup")))),
	}
	out := transpileScript(t, st)
	expectContains(t, out,
		"local _0, _1 = pcall(function()\n",
		"TS.error(\"boom\");\n",
		"end);\n",
		"if not _0 then\n",
		"local e = TS.decodeError(_1);\n",
		"warn(e);\n",
		"cleanup();\n")
}

func TestThrow(t *testing.T) {
	out := transpileScript(t, &ast.ThrowStatement{Value: strLit("bad")})
	expectContains(t, out, "TS.error(\"bad\");\n")
}

func TestReturnTupleConventions(t *testing.T) {
	tuple := types.NewTupleType(types.Number, types.Number)

	arrayReturn := &ast.ArrayLiteral{Elements: []ast.Expression{ident("a"), ident("b")}}
	arrayReturn.SetComputedType(tuple)
	fnA := &ast.FunctionDeclaration{
		Name:       ident("pair"),
		Body:       block(&ast.ReturnStatement{Value: arrayReturn}),
		ReturnType: tuple,
	}

	tupleValue := typedIdent("pairValue", tuple)
	fnB := &ast.FunctionDeclaration{
		Name:       ident("forward"),
		Body:       block(&ast.ReturnStatement{Value: tupleValue}),
		ReturnType: tuple,
	}

	tupleCall := callExpr(ident("pair"))
	tupleCall.SetComputedType(tuple)
	fnC := &ast.FunctionDeclaration{
		Name:       ident("chain"),
		Body:       block(&ast.ReturnStatement{Value: tupleCall}),
		ReturnType: tuple,
	}

	out := transpileScript(t, fnA, fnB, fnC)
	expectContains(t, out,
		"return a, b;\n",
		"return unpack(pairValue);\n",
		"return pair();\n")
}

// All tuple boundary points agree on the brace-wrap/unpack convention, for
// every tuple arity.
func TestTupleConventionAcrossShapes(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	for arity := 1; arity <= len(names); arity++ {
		elemTypes := make([]types.Type, arity)
		elems := make([]ast.Expression, arity)
		patternElems := make([]*ast.BindingElement, arity)
		for i := 0; i < arity; i++ {
			elemTypes[i] = types.Number
			elems[i] = typedIdent(names[i], types.Number)
			patternElems[i] = &ast.BindingElement{Name: ident(names[i])}
		}
		tuple := types.NewTupleType(elemTypes...)

		arr := &ast.ArrayLiteral{Elements: elems}
		arr.SetComputedType(tuple)
		fn := &ast.FunctionDeclaration{
			Name:       ident("make"),
			Body:       block(&ast.ReturnStatement{Value: arr}),
			ReturnType: tuple,
		}

		call := callExpr(ident("make"))
		call.SetComputedType(tuple)
		single := letDecl("wrapped", call)

		call2 := callExpr(ident("make"))
		call2.SetComputedType(tuple)
		multi := &ast.VariableStatement{
			Kind: ast.DeclarationConst,
			Declarations: []*ast.VariableDeclaration{{
				Name:        &ast.ArrayBindingPattern{Elements: patternElems},
				Initializer: call2,
			}},
		}

		out := transpileScript(t, fn, single, multi)
		flat := strings.Join(names[:arity], ", ")
		expectContains(t, out,
			"return "+flat+";\n",
			"local wrapped = { make() };\n",
			"local "+flat+" = make();\n")
	}
}

func TestBlockStatementScoping(t *testing.T) {
	out := transpileScript(t, block(letDecl("x", num("1", 1))))
	expectContains(t, out, "do\n\tlocal x = 1;\nend;\n")
}
