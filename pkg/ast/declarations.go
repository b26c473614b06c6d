package ast

import (
	"strings"

	"tslua/pkg/types"
)

// --- Declaration Nodes ---

// FunctionDeclaration represents a named function declaration.
type FunctionDeclaration struct {
	BaseNode
	Name       *Identifier
	Parameters []*Parameter
	Body       *BlockStatement
	IsAsync    bool
	ReturnType types.Type
	Exported   bool
}

func (fd *FunctionDeclaration) statementNode() {}
func (fd *FunctionDeclaration) String() string {
	params := make([]string, len(fd.Parameters))
	for i, p := range fd.Parameters {
		params[i] = p.String()
	}
	return "function " + fd.Name.String() + "(" + strings.Join(params, ", ") + ") {...}"
}

// --- Classes ---

// MethodKind distinguishes the member function forms of a class.
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodGet
	MethodSet
	MethodConstructor
)

// ClassMember is implemented by the member forms of a class body.
type ClassMember interface {
	Node
	classMemberNode()
}

// MethodDefinition is a method, accessor, or constructor of a class.
type MethodDefinition struct {
	BaseNode
	Name       *Identifier // nil for constructors
	Kind       MethodKind
	IsStatic   bool
	IsAsync    bool
	Parameters []*Parameter
	Body       *BlockStatement
	ReturnType types.Type
}

func (md *MethodDefinition) classMemberNode() {}
func (md *MethodDefinition) String() string {
	name := "constructor"
	if md.Name != nil {
		name = md.Name.String()
	}
	return name + "(...) {...}"
}

// PropertyDefinition is an instance or static property of a class.
type PropertyDefinition struct {
	BaseNode
	Name     *Identifier
	IsStatic bool
	Value    Expression
	Type     types.Type
}

func (pd *PropertyDefinition) classMemberNode() {}
func (pd *PropertyDefinition) String() string {
	if pd.Value == nil {
		return pd.Name.String() + ";"
	}
	return pd.Name.String() + " = " + pd.Value.String() + ";"
}

// MethodSignature is a method declaration without a body, as found on
// interfaces and ambient engine APIs. It exists so symbols can point their
// value declaration at a method shape.
type MethodSignature struct {
	BaseNode
	Name *Identifier
}

func (ms *MethodSignature) String() string { return ms.Name.String() + "(...);" }

// ClassDeclaration represents a class declaration.
type ClassDeclaration struct {
	BaseNode
	Name       *Identifier
	Heritage   *Identifier // base class reference, or nil
	IsAbstract bool
	Members    []ClassMember
	Exported   bool
}

func (cd *ClassDeclaration) statementNode() {}
func (cd *ClassDeclaration) String() string {
	out := "class " + cd.Name.String()
	if cd.Heritage != nil {
		out += " extends " + cd.Heritage.String()
	}
	return out + " {...}"
}

// BaseClass resolves the heritage identifier to the base class declaration
// through its symbol, or nil when the class has no resolvable base.
func (cd *ClassDeclaration) BaseClass() *ClassDeclaration {
	if cd.Heritage == nil || cd.Heritage.Symbol == nil {
		return nil
	}
	base, _ := cd.Heritage.Symbol.ValueDeclaration.(*ClassDeclaration)
	return base
}

// --- Namespaces ---

// NamespaceDeclaration represents a `namespace N { ... }` declaration.
type NamespaceDeclaration struct {
	BaseNode
	Name       *Identifier
	Statements []Statement
	Exported   bool
}

func (nd *NamespaceDeclaration) statementNode() {}
func (nd *NamespaceDeclaration) String() string {
	return "namespace " + nd.Name.String() + " {...}"
}

// --- Enums ---

// EnumMember is one member of an enum declaration.
type EnumMember struct {
	BaseNode
	Name        *Identifier
	Initializer Expression
}

func (em *EnumMember) String() string {
	if em.Initializer == nil {
		return em.Name.String()
	}
	return em.Name.String() + " = " + em.Initializer.String()
}

// EnumDeclaration represents an `enum` or `const enum` declaration.
type EnumDeclaration struct {
	BaseNode
	Name     *Identifier
	IsConst  bool
	Members  []*EnumMember
	Exported bool
}

func (ed *EnumDeclaration) statementNode() {}
func (ed *EnumDeclaration) String() string {
	kw := "enum "
	if ed.IsConst {
		kw = "const enum "
	}
	return kw + ed.Name.String() + " {...}"
}

// --- Type-level declarations ---

// InterfaceDeclaration is type-level only and translates to nothing.
type InterfaceDeclaration struct {
	BaseNode
	Name *Identifier
}

func (id *InterfaceDeclaration) statementNode() {}
func (id *InterfaceDeclaration) String() string { return "interface " + id.Name.String() + " {...}" }

// TypeAliasDeclaration is type-level only and translates to nothing.
type TypeAliasDeclaration struct {
	BaseNode
	Name *Identifier
}

func (tad *TypeAliasDeclaration) statementNode() {}
func (tad *TypeAliasDeclaration) String() string { return "type " + tad.Name.String() + " = ...;" }

// AmbientDeclaration wraps a `declare`d statement; type-level only.
type AmbientDeclaration struct {
	BaseNode
	Inner Statement
}

func (ad *AmbientDeclaration) statementNode() {}
func (ad *AmbientDeclaration) String() string { return "declare " + ad.Inner.String() }

// --- Binding patterns ---

// BindingElement is one slot of a binding pattern. For object patterns,
// PropertyName is the source key when it differs from the bound name.
type BindingElement struct {
	BaseNode
	Name         Node // *Identifier or a nested binding pattern
	PropertyName string
	Initializer  Expression
	IsRest       bool
}

func (be *BindingElement) String() string {
	var out strings.Builder
	if be.IsRest {
		out.WriteString("...")
	}
	if be.PropertyName != "" {
		out.WriteString(be.PropertyName + ": ")
	}
	out.WriteString(be.Name.String())
	if be.Initializer != nil {
		out.WriteString(" = " + be.Initializer.String())
	}
	return out.String()
}

// ObjectBindingPattern represents `{ a, b: c, ...rest }` in binding position.
type ObjectBindingPattern struct {
	BaseNode
	Elements []*BindingElement
}

func (obp *ObjectBindingPattern) String() string {
	parts := make([]string, len(obp.Elements))
	for i, e := range obp.Elements {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// ArrayBindingPattern represents `[a, [b], c = 1]` in binding position.
type ArrayBindingPattern struct {
	BaseNode
	Elements []*BindingElement
}

func (abp *ArrayBindingPattern) String() string {
	parts := make([]string, len(abp.Elements))
	for i, e := range abp.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// --- Imports and exports ---

// ImportSpecifier is one named import binding; PropertyName is the source
// export name when the binding is aliased.
type ImportSpecifier struct {
	BaseNode
	PropertyName string
	Name         *Identifier
}

func (is *ImportSpecifier) String() string {
	if is.PropertyName != "" && is.PropertyName != is.Name.Name {
		return is.PropertyName + " as " + is.Name.String()
	}
	return is.Name.String()
}

// ImportDeclaration represents an import statement. ModuleFile is the
// provider-resolved target, nil when the module could not be found.
type ImportDeclaration struct {
	BaseNode
	ModuleSpecifier string
	ModuleFile      *SourceFile
	Default         *Identifier
	Namespace       *Identifier
	Named           []*ImportSpecifier
}

func (id *ImportDeclaration) statementNode() {}
func (id *ImportDeclaration) String() string {
	return "import ... from " + id.ModuleSpecifier + ";"
}

// ExportSpecifier is one named export binding; Alias is the exported name
// when it differs from the local one.
type ExportSpecifier struct {
	BaseNode
	Name  string
	Alias string
}

func (es *ExportSpecifier) String() string {
	if es.Alias != "" && es.Alias != es.Name {
		return es.Name + " as " + es.Alias
	}
	return es.Name
}

// ExportDeclaration represents `export { ... }`, optionally re-exporting from
// a module, and `export * from "m"`.
type ExportDeclaration struct {
	BaseNode
	IsStar          bool
	Specifiers      []*ExportSpecifier
	ModuleSpecifier string
	ModuleFile      *SourceFile
}

func (ed *ExportDeclaration) statementNode() {}
func (ed *ExportDeclaration) String() string {
	if ed.IsStar {
		return "export * from " + ed.ModuleSpecifier + ";"
	}
	return "export { ... };"
}

// ExportAssignment represents `export = expr;` and `export default expr;`.
type ExportAssignment struct {
	BaseNode
	Expression     Expression
	IsExportEquals bool
}

func (ea *ExportAssignment) statementNode() {}
func (ea *ExportAssignment) String() string {
	if ea.IsExportEquals {
		return "export = " + ea.Expression.String() + ";"
	}
	return "export default " + ea.Expression.String() + ";"
}
