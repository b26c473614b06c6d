// Package transpiler translates typed input-language syntax trees into
// target-language source text. One Transpiler instance is bound to a single
// compilation unit at a time; translation is synchronous and the AST is never
// mutated.
package transpiler

import (
	"fmt"
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/project"
)

// classInfo tracks the class whose members are currently being translated.
type classInfo struct {
	Name     string
	BaseName string
}

// Transpiler is the stateful translator. The stacks follow a strict LIFO
// discipline matched to recursion: every push has a matched pop on every exit
// path, errors included.
type Transpiler struct {
	compiler project.Compiler
	file     *ast.SourceFile

	indent         string
	hoistStack     [][]string
	exportStack    [][]string
	namespaceStack []string
	idStack        []int
	continueID     int
	isModule       bool
	scriptContext  project.ScriptContext

	classStack       []*classInfo
	returnTupleStack []bool
}

// New creates a transpiler bound to the given compiler collaborator.
func New(compiler project.Compiler) *Transpiler {
	return &Transpiler{
		compiler:   compiler,
		continueID: -1,
	}
}

// TranspileSourceFile translates one source file to target-language source.
// Partial output for a failing file is never returned.
func (t *Transpiler) TranspileSourceFile(file *ast.SourceFile) (string, errors.TranspileError) {
	t.file = file
	t.indent = ""
	t.hoistStack = nil
	t.exportStack = nil
	t.namespaceStack = nil
	t.idStack = nil
	t.continueID = -1
	t.isModule = false
	t.scriptContext = project.GetScriptContext(file.Path)
	t.classStack = nil
	t.returnTupleStack = nil

	body, err := t.transpileScope(file.Statements)
	if err != nil {
		return "", err
	}

	scriptType := project.GetScriptType(file.Path)
	if t.isModule && scriptType != project.TypeModule {
		return "", t.err(file, errors.CodeExportInScript, "export encountered in non-module script %q", file.Path)
	}
	if !t.isModule && scriptType == project.TypeModule {
		return "", t.err(file, errors.CodeModuleWithoutExports, "module script %q has no exports", file.Path)
	}

	var out strings.Builder
	out.WriteString("-- luacheck: ignore\n")
	out.WriteString("local TS = require(" + t.compiler.RuntimeLibExpression() + ");\n")
	if t.isModule {
		out.WriteString("local _exports = {};\n")
	}
	out.WriteString(body)
	if t.isModule {
		out.WriteString("return _exports;\n")
	}
	return out.String(), nil
}

// err builds a translation error attributed to the given node.
func (t *Transpiler) err(node ast.Node, code errors.Code, format string, args ...interface{}) errors.TranspileError {
	return errors.New(node.Pos(), code, format, args...)
}

// --- Indentation ---

func (t *Transpiler) pushIndent() { t.indent += "\t" }
func (t *Transpiler) popIndent()  { t.indent = t.indent[:len(t.indent)-1] }

// --- Synthetic identifiers ---

// getNewID allocates a synthetic identifier. The name is the sum of all
// counters on the id stack, and the top counter is incremented, which keeps
// names monotone-unique across any nesting depth.
func (t *Transpiler) getNewID() string {
	sum := 0
	for _, n := range t.idStack {
		sum += n
	}
	t.idStack[len(t.idStack)-1]++
	return fmt.Sprintf("_%d", sum)
}

// --- Scope frames ---

func (t *Transpiler) pushScopeFrames() {
	t.idStack = append(t.idStack, 0)
	t.hoistStack = append(t.hoistStack, nil)
	t.exportStack = append(t.exportStack, nil)
}

func (t *Transpiler) popScopeFrames() (hoists []string, exports []string) {
	hoists = t.hoistStack[len(t.hoistStack)-1]
	exports = t.exportStack[len(t.exportStack)-1]
	t.idStack = t.idStack[:len(t.idStack)-1]
	t.hoistStack = t.hoistStack[:len(t.hoistStack)-1]
	t.exportStack = t.exportStack[:len(t.exportStack)-1]
	return hoists, exports
}

// hoistIdentifier records a name to declare at the head of the enclosing
// statemented scope.
func (t *Transpiler) hoistIdentifier(name string) {
	top := len(t.hoistStack) - 1
	t.hoistStack[top] = append(t.hoistStack[top], name)
}

// pushExport records a binding-installation statement to append at the end of
// the enclosing statemented scope.
func (t *Transpiler) pushExport(line string) {
	top := len(t.exportStack) - 1
	t.exportStack[top] = append(t.exportStack[top], line)
}

// exportTarget is the object receiving export bindings: the innermost
// namespace object, or the file-level _exports table.
func (t *Transpiler) exportTarget() string {
	if len(t.namespaceStack) > 0 {
		return t.namespaceStack[len(t.namespaceStack)-1]
	}
	return "_exports"
}

// markExported pushes export-binding lines for the given names and, for
// file-level exports, flips the module flag.
func (t *Transpiler) markExported(names ...string) {
	target := t.exportTarget()
	if target == "_exports" {
		t.isModule = true
	}
	for _, name := range names {
		t.pushExport(target + "." + name + " = " + name + ";")
	}
}

// scoped runs body inside fresh id/hoist/export frames. On exit the hoist
// frame becomes a single declaration line prepended to the body, and the
// export frame's lines are appended after it. Frames are popped on the error
// path as well.
func (t *Transpiler) scoped(body func() (string, errors.TranspileError)) (string, errors.TranspileError) {
	t.pushScopeFrames()
	out, err := body()
	hoists, exports := t.popScopeFrames()
	if err != nil {
		return "", err
	}
	var result strings.Builder
	if len(hoists) > 0 {
		result.WriteString(t.indent + "local " + strings.Join(hoists, ", ") + ";\n")
	}
	result.WriteString(out)
	for _, line := range exports {
		result.WriteString(t.indent + line + "\n")
	}
	return result.String(), nil
}

// transpileScope translates a statemented scope: a fresh set of frames around
// the statement list, hoists prepended and exports appended.
func (t *Transpiler) transpileScope(stmts []ast.Statement) (string, errors.TranspileError) {
	return t.scoped(func() (string, errors.TranspileError) {
		return t.transpileStatements(stmts)
	})
}

// currentClass is the class whose members are being translated, or nil.
func (t *Transpiler) currentClass() *classInfo {
	if len(t.classStack) == 0 {
		return nil
	}
	return t.classStack[len(t.classStack)-1]
}

// returnsTuple reports whether the innermost function being translated
// declares a tuple return.
func (t *Transpiler) returnsTuple() bool {
	if len(t.returnTupleStack) == 0 {
		return false
	}
	return t.returnTupleStack[len(t.returnTupleStack)-1]
}
