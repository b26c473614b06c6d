package transpiler

import (
	"fmt"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/luau"
)

// bindingData accumulates the three fragments of a binding-pattern lowering:
// pre-statements that introduce temporaries for nested patterns, a flat
// declaration of all leaf identifiers paired with index expressions against
// their root, and post-statements that apply default values. Statement lines
// carry no indentation; callers prefix the current indent.
type bindingData struct {
	preStatements  []string
	names          []string
	values         []string
	postStatements []string
}

// getBindingData walks a binding pattern rooted at the given expression text.
func (t *Transpiler) getBindingData(pattern ast.Node, root string) (*bindingData, errors.TranspileError) {
	data := &bindingData{}
	if err := t.collectBindingData(pattern, root, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (t *Transpiler) collectBindingData(pattern ast.Node, root string, data *bindingData) errors.TranspileError {
	switch pat := pattern.(type) {
	case *ast.ArrayBindingPattern:
		for i, element := range pat.Elements {
			if element == nil || element.Name == nil {
				continue
			}
			// Array patterns read 1-based numeric keys.
			value := fmt.Sprintf("%s[%d]", root, i+1)
			if err := t.collectBindingElement(element, value, data); err != nil {
				return err
			}
		}
	case *ast.ObjectBindingPattern:
		for _, element := range pat.Elements {
			if element == nil || element.Name == nil {
				continue
			}
			key := element.PropertyName
			if key == "" {
				ident, ok := element.Name.(*ast.Identifier)
				if !ok {
					return t.err(element, errors.CodeUnrecognizedOperation, "binding element has no property name")
				}
				key = ident.Name
			}
			// Object patterns read string keys.
			value := luau.SafeIndex(root, key)
			if err := t.collectBindingElement(element, value, data); err != nil {
				return err
			}
		}
	default:
		return t.err(pattern, errors.CodeUnrecognizedOperation, "unrecognized binding pattern %T", pattern)
	}
	return nil
}

func (t *Transpiler) collectBindingElement(element *ast.BindingElement, value string, data *bindingData) errors.TranspileError {
	if element.IsRest {
		return t.err(element, errors.CodeNoSpreadInBinding, "spread is not supported in binding patterns")
	}
	switch name := element.Name.(type) {
	case *ast.Identifier:
		str, err := t.transpileIdentifier(name)
		if err != nil {
			return err
		}
		data.names = append(data.names, str)
		data.values = append(data.values, value)
		if element.Initializer != nil {
			defaultStr, err := t.transpileExpression(element.Initializer)
			if err != nil {
				return err
			}
			data.postStatements = append(data.postStatements,
				"if "+str+" == nil then "+str+" = "+defaultStr+" end;")
		}
	case *ast.ArrayBindingPattern, *ast.ObjectBindingPattern:
		id := t.getNewID()
		data.preStatements = append(data.preStatements, "local "+id+" = "+value+";")
		if element.Initializer != nil {
			defaultStr, err := t.transpileExpression(element.Initializer)
			if err != nil {
				return err
			}
			data.preStatements = append(data.preStatements,
				"if "+id+" == nil then "+id+" = "+defaultStr+" end;")
		}
		if err := t.collectBindingData(element.Name, id, data); err != nil {
			return err
		}
	default:
		return t.err(element, errors.CodeUnrecognizedOperation, "unrecognized binding name %T", element.Name)
	}
	return nil
}

// bindingLines renders the accumulated fragments as indented lines: pre,
// flat declaration, post.
func (t *Transpiler) bindingLines(data *bindingData) string {
	var out string
	for _, line := range data.preStatements {
		out += t.indent + line + "\n"
	}
	if len(data.names) > 0 {
		out += t.indent + "local " + join(data.names) + " = " + join(data.values) + ";\n"
	}
	for _, line := range data.postStatements {
		out += t.indent + line + "\n"
	}
	return out
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// parameterParts is the lowered form of a parameter list. Defaults are kept
// apart from the other initializers because constructor contexts emit them
// before the super call.
type parameterParts struct {
	names        []string
	defaults     []string
	initializers []string
}

// transpileParameters lowers a parameter list. A rest parameter becomes the
// varargs marker followed by a local-collecting statement; parameters marked
// as captured onto the instance additionally write self fields.
func (t *Transpiler) transpileParameters(params []*ast.Parameter) (*parameterParts, errors.TranspileError) {
	parts := &parameterParts{}
	for _, param := range params {
		if param == nil || param.Name == nil {
			return nil, t.err(t.file, errors.CodeMissingParameter, "parameter has no binding name")
		}
		if param.IsRest {
			ident, ok := param.Name.(*ast.Identifier)
			if !ok {
				return nil, t.err(param, errors.CodeNoSpreadInBinding, "rest parameter cannot be a binding pattern")
			}
			parts.names = append(parts.names, "...")
			parts.initializers = append(parts.initializers, "local "+ident.Name+" = { ... };")
			continue
		}
		switch name := param.Name.(type) {
		case *ast.Identifier:
			str, err := t.transpileIdentifier(name)
			if err != nil {
				return nil, err
			}
			parts.names = append(parts.names, str)
			if param.Initializer != nil {
				defaultStr, err := t.transpileExpression(param.Initializer)
				if err != nil {
					return nil, err
				}
				parts.defaults = append(parts.defaults,
					"if "+str+" == nil then "+str+" = "+defaultStr+" end;")
			}
			if param.IsThisProperty {
				parts.initializers = append(parts.initializers, "self."+str+" = "+str+";")
			}
		case *ast.ArrayBindingPattern, *ast.ObjectBindingPattern:
			id := t.getNewID()
			parts.names = append(parts.names, id)
			if param.Initializer != nil {
				defaultStr, err := t.transpileExpression(param.Initializer)
				if err != nil {
					return nil, err
				}
				parts.defaults = append(parts.defaults,
					"if "+id+" == nil then "+id+" = "+defaultStr+" end;")
			}
			data, err := t.getBindingData(param.Name, id)
			if err != nil {
				return nil, err
			}
			parts.initializers = append(parts.initializers, data.preStatements...)
			if len(data.names) > 0 {
				parts.initializers = append(parts.initializers,
					"local "+join(data.names)+" = "+join(data.values)+";")
			}
			parts.initializers = append(parts.initializers, data.postStatements...)
		default:
			return nil, t.err(param, errors.CodeMissingParameter, "unrecognized parameter name %T", param.Name)
		}
	}
	return parts, nil
}
