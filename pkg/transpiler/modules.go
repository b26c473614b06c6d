package transpiler

import (
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/luau"
)

// requireText resolves an import target through the compiler collaborator;
// the returned path expression is already quoted for require position.
func (t *Transpiler) requireText(node ast.Node, moduleFile *ast.SourceFile, specifier string) (string, errors.TranspileError) {
	path, err := t.compiler.GetRelativeImportPath(t.file, moduleFile, specifier)
	if err != nil {
		return "", errors.New(node.Pos(), errors.CodeMissingModuleFile, "could not find module %q", specifier).CausedBy(err)
	}
	return "require(" + path + ")", nil
}

// transpileImportDeclaration lowers import bindings: default imports read the
// _default field, namespace imports bind the module table, named imports read
// fields by source name. When multiple bindings share one source the module
// table is cached in a synthetic local.
func (t *Transpiler) transpileImportDeclaration(node *ast.ImportDeclaration) (string, errors.TranspileError) {
	requireStr, err := t.requireText(node, node.ModuleFile, node.ModuleSpecifier)
	if err != nil {
		return "", err
	}

	bindingCount := len(node.Named)
	if node.Default != nil {
		bindingCount++
	}
	if node.Namespace != nil {
		bindingCount++
	}

	if bindingCount == 0 {
		// Side-effect import.
		return t.indent + requireStr + ";\n", nil
	}

	source := requireStr
	var out strings.Builder
	if bindingCount > 1 {
		id := t.getNewID()
		out.WriteString(t.indent + "local " + id + " = " + requireStr + ";\n")
		source = id
	}

	if node.Default != nil {
		name, err := t.transpileIdentifier(node.Default)
		if err != nil {
			return "", err
		}
		out.WriteString(t.indent + "local " + name + " = " + source + "._default;\n")
	}
	if node.Namespace != nil {
		name, err := t.transpileIdentifier(node.Namespace)
		if err != nil {
			return "", err
		}
		out.WriteString(t.indent + "local " + name + " = " + source + ";\n")
	}
	for _, spec := range node.Named {
		name, err := t.transpileIdentifier(spec.Name)
		if err != nil {
			return "", err
		}
		property := spec.PropertyName
		if property == "" {
			property = spec.Name.Name
		}
		out.WriteString(t.indent + "local " + name + " = " + luau.SafeIndex(source, property) + ";\n")
	}
	return out.String(), nil
}

// transpileExportDeclaration lowers export lists and re-exports. Star
// re-exports hand the module table to the runtime; named re-exports assign
// into the enclosing export object.
func (t *Transpiler) transpileExportDeclaration(node *ast.ExportDeclaration) (string, errors.TranspileError) {
	target := t.exportTarget()
	if target == "_exports" {
		t.isModule = true
	}

	if node.IsStar {
		requireStr, err := t.requireText(node, node.ModuleFile, node.ModuleSpecifier)
		if err != nil {
			return "", err
		}
		return t.indent + "TS.exportNamespace(" + requireStr + ", " + target + ");\n", nil
	}

	if node.ModuleSpecifier != "" {
		requireStr, err := t.requireText(node, node.ModuleFile, node.ModuleSpecifier)
		if err != nil {
			return "", err
		}
		source := requireStr
		var out strings.Builder
		if len(node.Specifiers) > 1 {
			id := t.getNewID()
			out.WriteString(t.indent + "local " + id + " = " + requireStr + ";\n")
			source = id
		}
		for _, spec := range node.Specifiers {
			alias := spec.Alias
			if alias == "" {
				alias = spec.Name
			}
			out.WriteString(t.indent + luau.SafeIndex(target, alias) + " = " + luau.SafeIndex(source, spec.Name) + ";\n")
		}
		return out.String(), nil
	}

	for _, spec := range node.Specifiers {
		alias := spec.Alias
		if alias == "" {
			alias = spec.Name
		}
		t.pushExport(luau.SafeIndex(target, alias) + " = " + spec.Name + ";")
	}
	return "", nil
}

// transpileExportAssignment lowers `export =` to a direct write of the export
// object, and `export default` to its _default field.
func (t *Transpiler) transpileExportAssignment(node *ast.ExportAssignment) (string, errors.TranspileError) {
	str, err := t.transpileExpression(node.Expression)
	if err != nil {
		return "", err
	}
	t.isModule = true
	if node.IsExportEquals {
		return t.indent + "_exports = " + str + ";\n", nil
	}
	return t.indent + "_exports._default = " + str + ";\n", nil
}
