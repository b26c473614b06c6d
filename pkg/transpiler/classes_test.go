package transpiler

import (
	"strings"
	"testing"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/types"
)

// classDecl builds a class whose heritage identifier resolves to the base
// declaration, the way the AST provider links symbols.
func classDecl(name string, base *ast.ClassDeclaration, members ...ast.ClassMember) *ast.ClassDeclaration {
	decl := &ast.ClassDeclaration{Name: ident(name), Members: members}
	if base != nil {
		heritage := ident(base.Name.Name)
		heritage.Symbol = &ast.Symbol{Name: base.Name.Name, ValueDeclaration: base}
		decl.Heritage = heritage
	}
	return decl
}

func method(name string, body ...ast.Statement) *ast.MethodDefinition {
	return &ast.MethodDefinition{
		Name: ident(name),
		Kind: ast.MethodNormal,
		Body: block(body...),
	}
}

func ctor(params []*ast.Parameter, body ...ast.Statement) *ast.MethodDefinition {
	return &ast.MethodDefinition{
		Kind:       ast.MethodConstructor,
		Parameters: params,
		Body:       block(body...),
	}
}

func TestSimpleClass(t *testing.T) {
	decl := classDecl("Animal", nil,
		method("speak", exprStmt(callExpr(ident("print"), strLit("...")))),
	)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"local Animal;\n",
		"do\n",
		"\tAnimal = {};\n",
		"\tAnimal.__index = {\n",
		"\t\tspeak = function(self)\n",
		"\tAnimal.new = function(...)\n",
		"\t\treturn Animal.constructor(setmetatable({}, Animal), ...);\n",
		"\tAnimal.constructor = function(self)\n",
		"\t\treturn self;\n")
}

// E6: a derived class chains its prototype to the base and its constructor
// forwards through the base.
func TestDerivedClassConstructor(t *testing.T) {
	base := classDecl("A", nil, method("m"))
	superCall := &ast.CallExpression{
		Callee:    &ast.SuperExpression{},
		Arguments: []ast.Expression{ident("x")},
	}
	derived := classDecl("B", base,
		ctor(
			[]*ast.Parameter{{Name: ident("x"), Type: types.Number}},
			exprStmt(superCall),
			exprStmt(binary(member(&ast.ThisExpression{}, "x"), "=", ident("x"))),
		),
	)
	out := transpileScript(t, base, derived)
	expectContains(t, out,
		"B.__index = setmetatable({}, { __index = A.__index });\n",
		"B.constructor = function(self, x)\n",
		"A.constructor(self, x);\n",
		"self.x = x;\n",
		"return self;\n",
		"B.new = function(...)\n")
}

func TestSynthesizedConstructorForwardsVarargs(t *testing.T) {
	base := classDecl("A", nil, method("m"))
	derived := classDecl("B", base)
	out := transpileScript(t, base, derived)
	expectContains(t, out,
		"B.constructor = function(self, ...)\n",
		"A.constructor(self, ...);\n")
}

func TestInstancePropertyInitializers(t *testing.T) {
	decl := classDecl("Counter", nil,
		&ast.PropertyDefinition{Name: ident("count"), Value: num("0", 0)},
	)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"Counter.constructor = function(self)\n",
		"self.count = 0;\n",
		"return self;\n")
}

func TestParameterProperty(t *testing.T) {
	decl := classDecl("Point", nil,
		ctor([]*ast.Parameter{
			{Name: ident("x"), IsThisProperty: true},
			{Name: ident("y"), IsThisProperty: true},
		}),
	)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"Point.constructor = function(self, x, y)\n",
		"self.x = x;\n",
		"self.y = y;\n")
}

// Defaults are emitted before the super call; captured parameters after it.
func TestConstructorBodyOrder(t *testing.T) {
	base := classDecl("A", nil, method("m"))
	derived := classDecl("B", base,
		ctor(
			[]*ast.Parameter{{Name: ident("x"), Initializer: num("1", 1), IsThisProperty: true}},
			exprStmt(&ast.CallExpression{Callee: &ast.SuperExpression{}}),
		),
	)
	out := transpileScript(t, base, derived)
	defaultsIdx := strings.Index(out, "if x == nil then x = 1 end;")
	superIdx := strings.Index(out, "A.constructor(self);")
	captureIdx := strings.Index(out, "self.x = x;")
	if defaultsIdx < 0 || superIdx < 0 || captureIdx < 0 {
		t.Fatalf("missing constructor pieces:\n%s", out)
	}
	if !(defaultsIdx < superIdx && superIdx < captureIdx) {
		t.Errorf("constructor body out of order:\n%s", out)
	}
}

func TestConstructorReturnRejected(t *testing.T) {
	decl := classDecl("C", nil,
		ctor(nil, &ast.ReturnStatement{}),
	)
	expectCode(t, []ast.Statement{decl}, errors.CodeNoConstructorReturn)
}

func TestAbstractClassHasNoFactory(t *testing.T) {
	decl := classDecl("Base", nil, method("m"))
	decl.IsAbstract = true
	out := transpileScript(t, decl)
	if strings.Contains(out, "Base.new") {
		t.Errorf("abstract class must not emit a factory:\n%s", out)
	}
	expectContains(t, out, "Base.constructor = function(self)\n")
}

func TestStaticMembers(t *testing.T) {
	staticMethod := method("create")
	staticMethod.IsStatic = true
	decl := classDecl("Registry", nil,
		staticMethod,
		&ast.PropertyDefinition{Name: ident("count"), IsStatic: true, Value: num("0", 0)},
	)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"\tRegistry = {\n",
		"\t\tcreate = function()\n",
		"\tRegistry.count = 0;\n")
}

func TestStaticInheritanceChainsClassTable(t *testing.T) {
	staticMethod := method("create")
	staticMethod.IsStatic = true
	base := classDecl("A", nil, staticMethod)
	derived := classDecl("B", base)
	out := transpileScript(t, base, derived)
	expectContains(t, out, "B = setmetatable({}, { __index = A });\n")
}

func TestGetterLowering(t *testing.T) {
	getter := &ast.MethodDefinition{
		Name: ident("value"),
		Kind: ast.MethodGet,
		Body: block(&ast.ReturnStatement{Value: member(&ast.ThisExpression{}, "_value")}),
	}
	decl := classDecl("Box", nil, getter)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"Box._getters = {\n",
		"value = function(self)\n",
		"return self._value;\n",
		"local __index = Box.__index;\n",
		"Box.__index = function(self, index)\n",
		"local getter = Box._getters[index];\n",
		"if getter then\n",
		"return getter(self);\n",
		"return __index[index];\n")
}

func TestSetterLowering(t *testing.T) {
	setter := &ast.MethodDefinition{
		Name:       ident("value"),
		Kind:       ast.MethodSet,
		Parameters: []*ast.Parameter{{Name: ident("v")}},
		Body:       block(exprStmt(binary(member(&ast.ThisExpression{}, "_value"), "=", ident("v")))),
	}
	decl := classDecl("Box", nil, setter)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"Box._setters = {\n",
		"value = function(self, v)\n",
		"Box.__newindex = function(self, index, value)\n",
		"local setter = Box._setters[index];\n",
		"setter(self, value);\n",
		"rawset(self, index, value);\n")
}

func TestInheritedGettersByReference(t *testing.T) {
	getter := &ast.MethodDefinition{
		Name: ident("value"),
		Kind: ast.MethodGet,
		Body: block(&ast.ReturnStatement{Value: num("1", 1)}),
	}
	base := classDecl("A", nil, getter)
	derived := classDecl("B", base)
	out := transpileScript(t, base, derived)
	expectContains(t, out, "B._getters = A._getters;\n")
}

func TestMetamethodTrampoline(t *testing.T) {
	decl := classDecl("Vec", nil,
		method("__tostring", &ast.ReturnStatement{Value: strLit("Vec")}),
	)
	out := transpileScript(t, decl)
	expectContains(t, out,
		"Vec.__tostring = function(self, ...) return self:__tostring(...); end;\n")
}

func TestUndefinableMetamethodsRejected(t *testing.T) {
	for _, name := range []string{"__index", "__newindex", "__mode"} {
		decl := classDecl("C", nil, method(name))
		expectCode(t, []ast.Statement{decl}, errors.CodeReservedMetamethod)
	}
}

func TestSuperMethodCall(t *testing.T) {
	baseMethod := method("greet")
	base := classDecl("A", nil, baseMethod)
	call := &ast.CallExpression{Callee: &ast.MemberExpression{
		Object:   &ast.SuperExpression{},
		Property: &ast.Identifier{Name: "greet", Symbol: &ast.Symbol{Name: "greet", ValueDeclaration: baseMethod}},
	}}
	derived := classDecl("B", base,
		method("greet", exprStmt(call)),
	)
	out := transpileScript(t, base, derived)
	expectContains(t, out, "A.__index.greet(self);\n")
}

func TestSuperPropertyAccess(t *testing.T) {
	getter := &ast.MethodDefinition{
		Name: ident("value"),
		Kind: ast.MethodGet,
		Body: block(&ast.ReturnStatement{Value: num("1", 1)}),
	}
	base := classDecl("A", nil, getter)
	derived := classDecl("B", base,
		method("read", &ast.ReturnStatement{Value: &ast.MemberExpression{
			Object:   &ast.SuperExpression{},
			Property: ident("value"),
		}}),
	)
	out := transpileScript(t, base, derived)
	expectContains(t, out,
		"(A._getters.value ~= nil and A._getters.value(self) or self.value)")
}

func TestExportedClassBinding(t *testing.T) {
	decl := classDecl("C", nil, method("m"))
	decl.Exported = true
	out, err := transpileFile(t, sourceFile("module.ts", decl))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "_exports.C = C;\n")
}
