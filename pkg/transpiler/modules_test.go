package transpiler

import (
	"strings"
	"testing"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/project"
)

func moduleStatements(stmts ...ast.Statement) []ast.Statement {
	// Keep the file a module by exporting something alongside the statements
	// under test.
	exported := constDecl("__module", num("1", 1))
	exported.Exported = true
	return append(stmts, exported)
}

func TestSideEffectImport(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts", moduleStatements(
		&ast.ImportDeclaration{ModuleSpecifier: "./module"},
	)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "require(script.Parent.module);\n")
}

func TestDefaultImport(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts", moduleStatements(
		&ast.ImportDeclaration{ModuleSpecifier: "./module", Default: ident("mod")},
	)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "local mod = require(script.Parent.module)._default;\n")
}

func TestNamespaceImport(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts", moduleStatements(
		&ast.ImportDeclaration{ModuleSpecifier: "./module", Namespace: ident("ns")},
	)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "local ns = require(script.Parent.module);\n")
}

func TestNamedImports(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts", moduleStatements(
		&ast.ImportDeclaration{
			ModuleSpecifier: "./module",
			Named: []*ast.ImportSpecifier{
				{Name: ident("a")},
			},
		},
	)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "local a = require(script.Parent.module).a;\n")
}

// Multiple bindings sharing one source cache the module table.
func TestMultipleImportBindingsAreCached(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts", moduleStatements(
		&ast.ImportDeclaration{
			ModuleSpecifier: "./module",
			Default:         ident("def"),
			Named: []*ast.ImportSpecifier{
				{Name: ident("a")},
				{Name: ident("c"), PropertyName: "b"},
			},
		},
	)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out,
		"local _0 = require(script.Parent.module);\n",
		"local def = _0._default;\n",
		"local a = _0.a;\n",
		"local c = _0.b;\n")
	if strings.Count(out, "require(script.Parent.module)") != 1 {
		t.Errorf("module table must be required once:\n%s", out)
	}
}

func TestMissingModuleFile(t *testing.T) {
	_, err := transpileFile(t, sourceFile("module.ts", moduleStatements(
		&ast.ImportDeclaration{ModuleSpecifier: "./does-not-exist"},
	)...))
	if err == nil || err.Code() != errors.CodeMissingModuleFile {
		t.Fatalf("expected MissingModuleFile, got %v", err)
	}
}

func TestNamedExportList(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts",
		constDecl("a", num("1", 1)),
		&ast.ExportDeclaration{Specifiers: []*ast.ExportSpecifier{
			{Name: "a"},
			{Name: "a", Alias: "alias"},
		}},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out,
		"_exports.a = a;\n",
		"_exports.alias = a;\n",
		"return _exports;\n")
}

func TestReExport(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts",
		&ast.ExportDeclaration{
			ModuleSpecifier: "./other",
			Specifiers: []*ast.ExportSpecifier{
				{Name: "a"},
				{Name: "b", Alias: "c"},
			},
		},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out,
		"local _0 = require(script.Parent.other);\n",
		"_exports.a = _0.a;\n",
		"_exports.c = _0.b;\n")
}

func TestStarExport(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts",
		&ast.ExportDeclaration{IsStar: true, ModuleSpecifier: "./other"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out,
		"TS.exportNamespace(require(script.Parent.other), _exports);\n")
}

func TestExportEquals(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts",
		&ast.ExportAssignment{IsExportEquals: true, Expression: ident("value")},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "_exports = value;\n", "return _exports;\n")
}

func TestDefaultExport(t *testing.T) {
	out, err := transpileFile(t, sourceFile("module.ts",
		&ast.ExportAssignment{Expression: ident("value")},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "_exports._default = value;\n")
}

// --- Cross-context directives ---

func clientOnlySymbol(name string) *ast.Symbol {
	return &ast.Symbol{Name: name, JSDocTags: []string{"@rbx-client"}}
}

func TestServerCannotTouchClientAPI(t *testing.T) {
	access := &ast.MemberExpression{
		Object:   ident("Players"),
		Property: &ast.Identifier{Name: "LocalPlayer", Symbol: clientOnlySymbol("LocalPlayer")},
	}
	_, err := transpileFile(t, sourceFile("main.server.ts", constDecl("p", access)))
	if err == nil || err.Code() != errors.CodeCrossContextAPI {
		t.Fatalf("expected CrossContextAPI, got %v", err)
	}
}

func TestClientCanTouchClientAPI(t *testing.T) {
	access := &ast.MemberExpression{
		Object:   ident("Players"),
		Property: &ast.Identifier{Name: "LocalPlayer", Symbol: clientOnlySymbol("LocalPlayer")},
	}
	out, err := transpileFile(t, sourceFile("main.client.ts", constDecl("p", access)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "local p = Players.LocalPlayer;\n")
}

func TestNoHeuristicsDisablesContextChecks(t *testing.T) {
	access := &ast.MemberExpression{
		Object:   ident("Players"),
		Property: &ast.Identifier{Name: "LocalPlayer", Symbol: clientOnlySymbol("LocalPlayer")},
	}
	compiler := testCompiler()
	compiler.DisableHeuristics = true
	out, err := New(compiler).TranspileSourceFile(sourceFile("main.server.ts", constDecl("p", access)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectContains(t, out, "local p = Players.LocalPlayer;\n")
}

func TestScriptClassification(t *testing.T) {
	tests := []struct {
		path    string
		context project.ScriptContext
		typ     project.ScriptType
	}{
		{"src/main.server.ts", project.ContextServer, project.TypeScript},
		{"src/ui.client.ts", project.ContextClient, project.TypeScript},
		{"src/shared.ts", project.ContextNone, project.TypeModule},
	}
	for _, tt := range tests {
		if got := project.GetScriptContext(tt.path); got != tt.context {
			t.Errorf("GetScriptContext(%q) = %v, want %v", tt.path, got, tt.context)
		}
		if got := project.GetScriptType(tt.path); got != tt.typ {
			t.Errorf("GetScriptType(%q) = %v, want %v", tt.path, got, tt.typ)
		}
	}
}
