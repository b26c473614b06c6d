package transpiler

import (
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/luau"
	"tslua/pkg/types"
)

// --- Ancestor queries ---

func classHasStaticMembers(decl *ast.ClassDeclaration) bool {
	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.MethodDefinition:
			if m.IsStatic {
				return true
			}
		case *ast.PropertyDefinition:
			if m.IsStatic {
				return true
			}
		}
	}
	return false
}

func classHasInstanceMembers(decl *ast.ClassDeclaration) bool {
	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.MethodDefinition:
			if !m.IsStatic && m.Kind != ast.MethodConstructor {
				return true
			}
		case *ast.PropertyDefinition:
			if !m.IsStatic {
				return true
			}
		}
	}
	return false
}

func classGetters(decl *ast.ClassDeclaration) []*ast.MethodDefinition {
	var out []*ast.MethodDefinition
	for _, member := range decl.Members {
		if m, ok := member.(*ast.MethodDefinition); ok && m.Kind == ast.MethodGet {
			out = append(out, m)
		}
	}
	return out
}

func classSetters(decl *ast.ClassDeclaration) []*ast.MethodDefinition {
	var out []*ast.MethodDefinition
	for _, member := range decl.Members {
		if m, ok := member.(*ast.MethodDefinition); ok && m.Kind == ast.MethodSet {
			out = append(out, m)
		}
	}
	return out
}

func anyAncestor(decl *ast.ClassDeclaration, pred func(*ast.ClassDeclaration) bool) bool {
	for base := decl.BaseClass(); base != nil; base = base.BaseClass() {
		if pred(base) {
			return true
		}
	}
	return false
}

// containsReturn reports whether the statements contain a return, without
// descending into nested function bodies.
func containsReturn(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStatement:
			return true
		case *ast.BlockStatement:
			if containsReturn(s.Statements) {
				return true
			}
		case *ast.IfStatement:
			var inner []ast.Statement
			inner = append(inner, s.Then)
			if s.Else != nil {
				inner = append(inner, s.Else)
			}
			if containsReturn(inner) {
				return true
			}
		case *ast.WhileStatement:
			if containsReturn([]ast.Statement{s.Body}) {
				return true
			}
		case *ast.DoWhileStatement:
			if containsReturn([]ast.Statement{s.Body}) {
				return true
			}
		case *ast.ForStatement:
			if containsReturn([]ast.Statement{s.Body}) {
				return true
			}
		case *ast.ForInStatement:
			if containsReturn([]ast.Statement{s.Body}) {
				return true
			}
		case *ast.ForOfStatement:
			if containsReturn([]ast.Statement{s.Body}) {
				return true
			}
		case *ast.SwitchStatement:
			for _, c := range s.Cases {
				if containsReturn(c.Statements) {
					return true
				}
			}
		case *ast.TryStatement:
			if containsReturn(s.Block.Statements) {
				return true
			}
			if s.Catch != nil && containsReturn(s.Catch.Block.Statements) {
				return true
			}
			if s.Finally != nil && containsReturn(s.Finally.Statements) {
				return true
			}
		}
	}
	return false
}

// --- Class lowering ---

func (t *Transpiler) transpileClassDeclaration(node *ast.ClassDeclaration) (string, errors.TranspileError) {
	name, err := t.transpileIdentifier(node.Name)
	if err != nil {
		return "", err
	}

	for _, member := range node.Members {
		if m, ok := member.(*ast.MethodDefinition); ok && m.Name != nil {
			if luau.UndefinableMetamethods[m.Name.Name] {
				return "", t.err(m, errors.CodeReservedMetamethod, "cannot define class method %q", m.Name.Name)
			}
		}
	}

	baseName := ""
	if node.Heritage != nil {
		baseName, err = t.transpileExpression(node.Heritage)
		if err != nil {
			return "", err
		}
	}

	t.hoistIdentifier(name)
	if node.Exported {
		t.markExported(name)
	}

	t.classStack = append(t.classStack, &classInfo{Name: name, BaseName: baseName})
	t.pushIndent()
	body, err := t.transpileClassBody(node, name, baseName)
	t.popIndent()
	t.classStack = t.classStack[:len(t.classStack)-1]
	if err != nil {
		return "", err
	}

	return t.indent + "do\n" + body + t.indent + "end;\n", nil
}

func (t *Transpiler) transpileClassBody(node *ast.ClassDeclaration, name, baseName string) (string, errors.TranspileError) {
	var out strings.Builder

	// 1. The class table carries the static methods; when any ancestor has
	// static members the table indexes into the base class.
	staticEntries, err := t.classMethodEntries(node, func(m *ast.MethodDefinition) bool {
		return m.IsStatic && m.Kind == ast.MethodNormal
	}, false)
	if err != nil {
		return "", err
	}
	classTable := t.classTableText(staticEntries)
	if baseName != "" && anyAncestor(node, classHasStaticMembers) {
		out.WriteString(t.indent + name + " = setmetatable(" + classTable + ", { __index = " + baseName + " });\n")
	} else {
		out.WriteString(t.indent + name + " = " + classTable + ";\n")
	}

	// 2. The prototype table carries the instance methods.
	instanceEntries, err := t.classMethodEntries(node, func(m *ast.MethodDefinition) bool {
		return !m.IsStatic && m.Kind == ast.MethodNormal
	}, true)
	if err != nil {
		return "", err
	}
	prototypeTable := t.classTableText(instanceEntries)
	if baseName != "" && anyAncestor(node, classHasInstanceMembers) {
		out.WriteString(t.indent + name + ".__index = setmetatable(" + prototypeTable + ", { __index = " + baseName + ".__index });\n")
	} else {
		out.WriteString(t.indent + name + ".__index = " + prototypeTable + ";\n")
	}

	// 3. Metamethod trampolines for operator hooks defined as methods.
	for _, member := range node.Members {
		if m, ok := member.(*ast.MethodDefinition); ok && !m.IsStatic && m.Kind == ast.MethodNormal && m.Name != nil {
			if luau.Metamethods[m.Name.Name] {
				mm := m.Name.Name
				out.WriteString(t.indent + name + "." + mm + " = function(self, ...) return self:" + mm + "(...); end;\n")
			}
		}
	}

	// 4. Factory for concrete classes.
	if !node.IsAbstract {
		out.WriteString(t.indent + name + ".new = function(...)\n")
		out.WriteString(t.indent + "\treturn " + name + ".constructor(setmetatable({}, " + name + "), ...);\n")
		out.WriteString(t.indent + "end;\n")
	}

	// 5. Constructor.
	ctorStr, err := t.transpileConstructor(node, name, baseName)
	if err != nil {
		return "", err
	}
	out.WriteString(ctorStr)

	// 6. Static properties.
	for _, member := range node.Members {
		if p, ok := member.(*ast.PropertyDefinition); ok && p.IsStatic && p.Value != nil {
			valueStr, err := t.transpileExpression(p.Value)
			if err != nil {
				return "", err
			}
			out.WriteString(t.indent + t.memberAccessText(name, p.Name.Name) + " = " + valueStr + ";\n")
		}
	}

	// 7. Getter dispatch.
	getters := classGetters(node)
	ancestorHasGetters := anyAncestor(node, func(d *ast.ClassDeclaration) bool { return len(classGetters(d)) > 0 })
	if len(getters) > 0 {
		var entries []string
		for _, g := range getters {
			t.pushIndent()
			fn, err := t.transpileMethodFunction(g, true)
			t.popIndent()
			if err != nil {
				return "", err
			}
			entries = append(entries, g.Name.Name+" = "+fn)
		}
		table := t.classTableText(entries)
		if ancestorHasGetters {
			out.WriteString(t.indent + name + "._getters = setmetatable(" + table + ", { __index = " + baseName + "._getters });\n")
		} else {
			out.WriteString(t.indent + name + "._getters = " + table + ";\n")
		}
	} else if ancestorHasGetters {
		out.WriteString(t.indent + name + "._getters = " + baseName + "._getters;\n")
	}
	if len(getters) > 0 || ancestorHasGetters {
		out.WriteString(t.indent + "local __index = " + name + ".__index;\n")
		out.WriteString(t.indent + name + ".__index = function(self, index)\n")
		out.WriteString(t.indent + "\tlocal getter = " + name + "._getters[index];\n")
		out.WriteString(t.indent + "\tif getter then\n")
		out.WriteString(t.indent + "\t\treturn getter(self);\n")
		out.WriteString(t.indent + "\telse\n")
		out.WriteString(t.indent + "\t\treturn __index[index];\n")
		out.WriteString(t.indent + "\tend;\n")
		out.WriteString(t.indent + "end;\n")
	}

	// 8. Setter dispatch, symmetric to getters.
	setters := classSetters(node)
	ancestorHasSetters := anyAncestor(node, func(d *ast.ClassDeclaration) bool { return len(classSetters(d)) > 0 })
	if len(setters) > 0 {
		var entries []string
		for _, s := range setters {
			t.pushIndent()
			fn, err := t.transpileMethodFunction(s, true)
			t.popIndent()
			if err != nil {
				return "", err
			}
			entries = append(entries, s.Name.Name+" = "+fn)
		}
		table := t.classTableText(entries)
		if ancestorHasSetters {
			out.WriteString(t.indent + name + "._setters = setmetatable(" + table + ", { __index = " + baseName + "._setters });\n")
		} else {
			out.WriteString(t.indent + name + "._setters = " + table + ";\n")
		}
	} else if ancestorHasSetters {
		out.WriteString(t.indent + name + "._setters = " + baseName + "._setters;\n")
	}
	if len(setters) > 0 || ancestorHasSetters {
		out.WriteString(t.indent + name + ".__newindex = function(self, index, value)\n")
		out.WriteString(t.indent + "\tlocal setter = " + name + "._setters[index];\n")
		out.WriteString(t.indent + "\tif setter then\n")
		out.WriteString(t.indent + "\t\tsetter(self, value);\n")
		out.WriteString(t.indent + "\telse\n")
		out.WriteString(t.indent + "\t\trawset(self, index, value);\n")
		out.WriteString(t.indent + "\tend;\n")
		out.WriteString(t.indent + "end;\n")
	}

	return out.String(), nil
}

// classMethodEntries renders `name = function(...) ... end` entries for the
// members the filter selects.
func (t *Transpiler) classMethodEntries(node *ast.ClassDeclaration, filter func(*ast.MethodDefinition) bool, withSelf bool) ([]string, errors.TranspileError) {
	var entries []string
	for _, member := range node.Members {
		m, ok := member.(*ast.MethodDefinition)
		if !ok || m.Name == nil || !filter(m) {
			continue
		}
		t.pushIndent()
		fn, err := t.transpileMethodFunction(m, withSelf)
		t.popIndent()
		if err != nil {
			return nil, err
		}
		entries = append(entries, m.Name.Name+" = "+fn)
	}
	return entries, nil
}

// classTableText renders a brace table whose entries were built one indent
// level deeper than the current line.
func (t *Transpiler) classTableText(entries []string) string {
	if len(entries) == 0 {
		return "{}"
	}
	var out strings.Builder
	out.WriteString("{\n")
	for _, entry := range entries {
		out.WriteString(t.indent + "\t" + entry + ",\n")
	}
	out.WriteString(t.indent + "}")
	return out.String()
}

// transpileMethodFunction renders a method value, prepending self for
// instance members.
func (t *Transpiler) transpileMethodFunction(m *ast.MethodDefinition, withSelf bool) (string, errors.TranspileError) {
	parts, err := t.transpileParameters(m.Parameters)
	if err != nil {
		return "", err
	}
	names := parts.names
	if withSelf {
		names = append([]string{"self"}, names...)
	}
	out := "function(" + join(names) + ")\n"
	t.pushIndent()
	var prelude string
	for _, line := range parts.defaults {
		prelude += t.indent + line + "\n"
	}
	for _, line := range parts.initializers {
		prelude += t.indent + line + "\n"
	}
	t.returnTupleStack = append(t.returnTupleStack, types.IsTupleType(m.ReturnType))
	body, err := t.transpileScope(m.Body.Statements)
	t.returnTupleStack = t.returnTupleStack[:len(t.returnTupleStack)-1]
	t.popIndent()
	if err != nil {
		return "", err
	}
	result := out + prelude + body + t.indent + "end"
	if m.IsAsync {
		result = "TS.async(" + result + ")"
	}
	return result, nil
}

// transpileConstructor emits the constructor in its strict body order:
// parameter defaults, the leading super call, parameter initializers,
// instance-property initializers, then the remaining user statements. The
// constructor always returns self.
func (t *Transpiler) transpileConstructor(node *ast.ClassDeclaration, name, baseName string) (string, errors.TranspileError) {
	var userCtor *ast.MethodDefinition
	for _, member := range node.Members {
		if m, ok := member.(*ast.MethodDefinition); ok && m.Kind == ast.MethodConstructor {
			userCtor = m
			break
		}
	}

	// Instance-property initial values run in declaration order.
	var extraInitializers []string
	for _, member := range node.Members {
		if p, ok := member.(*ast.PropertyDefinition); ok && !p.IsStatic && p.Value != nil {
			valueStr, errV := t.transpileExpression(p.Value)
			if errV != nil {
				return "", errV
			}
			extraInitializers = append(extraInitializers, "self."+p.Name.Name+" = "+valueStr+";")
		}
	}

	if userCtor == nil {
		var out strings.Builder
		if baseName != "" {
			out.WriteString(t.indent + name + ".constructor = function(self, ...)\n")
			out.WriteString(t.indent + "\t" + baseName + ".constructor(self, ...);\n")
		} else {
			out.WriteString(t.indent + name + ".constructor = function(self)\n")
		}
		for _, line := range extraInitializers {
			out.WriteString(t.indent + "\t" + line + "\n")
		}
		out.WriteString(t.indent + "\treturn self;\n")
		out.WriteString(t.indent + "end;\n")
		return out.String(), nil
	}

	if containsReturn(userCtor.Body.Statements) {
		return "", t.err(userCtor, errors.CodeNoConstructorReturn, "constructors cannot contain return statements")
	}

	parts, err := t.transpileParameters(userCtor.Parameters)
	if err != nil {
		return "", err
	}
	names := append([]string{"self"}, parts.names...)

	stmts := userCtor.Body.Statements
	var superCall ast.Statement
	if len(stmts) > 0 {
		if exp, ok := stmts[0].(*ast.ExpressionStatement); ok {
			if call, ok := exp.Expression.(*ast.CallExpression); ok {
				if _, ok := call.Callee.(*ast.SuperExpression); ok {
					superCall = stmts[0]
					stmts = stmts[1:]
				}
			}
		}
	}

	out := t.indent + name + ".constructor = function(" + join(names) + ")\n"
	t.pushIndent()
	var body string
	for _, line := range parts.defaults {
		body += t.indent + line + "\n"
	}
	if superCall != nil {
		superStr, errS := t.transpileStatement(superCall)
		if errS != nil {
			t.popIndent()
			return "", errS
		}
		body += superStr
	}
	for _, line := range parts.initializers {
		body += t.indent + line + "\n"
	}
	for _, line := range extraInitializers {
		body += t.indent + line + "\n"
	}
	t.returnTupleStack = append(t.returnTupleStack, false)
	rest, err := t.transpileScope(stmts)
	t.returnTupleStack = t.returnTupleStack[:len(t.returnTupleStack)-1]
	t.popIndent()
	if err != nil {
		return "", err
	}
	out += body + rest
	out += t.indent + "\treturn self;\n"
	out += t.indent + "end;\n"
	return out, nil
}
