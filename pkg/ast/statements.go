package ast

import "strings"

// --- Statement Nodes ---

// DeclarationKind distinguishes let/const/var variable statements.
type DeclarationKind int

const (
	DeclarationLet DeclarationKind = iota
	DeclarationConst
	DeclarationVar
)

func (dk DeclarationKind) String() string {
	switch dk {
	case DeclarationConst:
		return "const"
	case DeclarationVar:
		return "var"
	default:
		return "let"
	}
}

// VariableDeclaration is one declarator of a variable statement; Name is an
// *Identifier or a binding pattern.
type VariableDeclaration struct {
	BaseNode
	Name        Node
	Initializer Expression
}

func (vd *VariableDeclaration) String() string {
	if vd.Initializer == nil {
		return vd.Name.String()
	}
	return vd.Name.String() + " = " + vd.Initializer.String()
}

// VariableStatement represents a `let`, `const`, or `var` statement.
type VariableStatement struct {
	BaseNode
	Kind         DeclarationKind
	Declarations []*VariableDeclaration
	Exported     bool
}

func (vs *VariableStatement) statementNode() {}
func (vs *VariableStatement) String() string {
	parts := make([]string, len(vs.Declarations))
	for i, d := range vs.Declarations {
		parts[i] = d.String()
	}
	return vs.Kind.String() + " " + strings.Join(parts, ", ") + ";"
}

// ExpressionStatement represents a statement consisting of a single expression.
type ExpressionStatement struct {
	BaseNode
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string { return es.Expression.String() + ";" }

// BlockStatement represents a `{ ... }` statement block.
type BlockStatement struct {
	BaseNode
	Statements []Statement
}

func (bs *BlockStatement) statementNode() {}
func (bs *BlockStatement) String() string {
	var out strings.Builder
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// ReturnStatement represents a `return` statement.
type ReturnStatement struct {
	BaseNode
	Value Expression
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

// IfStatement represents `if (cond) then [else otherwise]`; Else may be
// another IfStatement for else-if chains.
type IfStatement struct {
	BaseNode
	Condition Expression
	Then      Statement
	Else      Statement
}

func (is *IfStatement) statementNode() {}
func (is *IfStatement) String() string {
	out := "if (" + is.Condition.String() + ") " + is.Then.String()
	if is.Else != nil {
		out += " else " + is.Else.String()
	}
	return out
}

// WhileStatement represents a `while` loop.
type WhileStatement struct {
	BaseNode
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode() {}
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// DoWhileStatement represents a `do ... while (cond);` loop.
type DoWhileStatement struct {
	BaseNode
	Body      Statement
	Condition Expression
}

func (dws *DoWhileStatement) statementNode() {}
func (dws *DoWhileStatement) String() string {
	return "do " + dws.Body.String() + " while (" + dws.Condition.String() + ");"
}

// ForStatement represents a classic `for (init; cond; inc)` loop. Initializer
// is a *VariableStatement or *ExpressionStatement, or nil.
type ForStatement struct {
	BaseNode
	Initializer Statement
	Condition   Expression
	Incrementor Expression
	Body        Statement
}

func (fs *ForStatement) statementNode() {}
func (fs *ForStatement) String() string {
	init, cond, inc := "", "", ""
	if fs.Initializer != nil {
		init = strings.TrimSuffix(fs.Initializer.String(), ";")
	}
	if fs.Condition != nil {
		cond = fs.Condition.String()
	}
	if fs.Incrementor != nil {
		inc = fs.Incrementor.String()
	}
	return "for (" + init + "; " + cond + "; " + inc + ") " + fs.Body.String()
}

// ForInStatement represents `for (key in expr)`. Variable is the key slot and
// Initializer, when present, is the rejected key initializer.
type ForInStatement struct {
	BaseNode
	Variable    Node // *Identifier (binding patterns are rejected here)
	Initializer Expression
	Expression  Expression
	Body        Statement
}

func (fis *ForInStatement) statementNode() {}
func (fis *ForInStatement) String() string {
	return "for (" + fis.Variable.String() + " in " + fis.Expression.String() + ") " + fis.Body.String()
}

// ForOfStatement represents `for (v of expr)`; Variable may be a binding
// pattern.
type ForOfStatement struct {
	BaseNode
	Variable   Node
	Expression Expression
	Body       Statement
}

func (fos *ForOfStatement) statementNode() {}
func (fos *ForOfStatement) String() string {
	return "for (" + fos.Variable.String() + " of " + fos.Expression.String() + ") " + fos.Body.String()
}

// BreakStatement represents `break` (labels are rejected).
type BreakStatement struct {
	BaseNode
	Label *Identifier
}

func (bs *BreakStatement) statementNode() {}
func (bs *BreakStatement) String() string { return "break;" }

// ContinueStatement represents `continue` (labels are rejected).
type ContinueStatement struct {
	BaseNode
	Label *Identifier
}

func (cs *ContinueStatement) statementNode() {}
func (cs *ContinueStatement) String() string { return "continue;" }

// SwitchCase is one `case test:` (or `default:` when Test is nil) clause.
type SwitchCase struct {
	BaseNode
	Test       Expression
	Statements []Statement
}

func (sc *SwitchCase) String() string {
	head := "default:"
	if sc.Test != nil {
		head = "case " + sc.Test.String() + ":"
	}
	var out strings.Builder
	out.WriteString(head)
	for _, s := range sc.Statements {
		out.WriteString(" " + s.String())
	}
	return out.String()
}

// SwitchStatement represents a `switch` statement.
type SwitchStatement struct {
	BaseNode
	Discriminant Expression
	Cases        []*SwitchCase
}

func (ss *SwitchStatement) statementNode() {}
func (ss *SwitchStatement) String() string {
	var out strings.Builder
	out.WriteString("switch (" + ss.Discriminant.String() + ") {")
	for _, c := range ss.Cases {
		out.WriteString(" " + c.String())
	}
	out.WriteString(" }")
	return out.String()
}

// ThrowStatement represents `throw expr;`.
type ThrowStatement struct {
	BaseNode
	Value Expression
}

func (ts *ThrowStatement) statementNode() {}
func (ts *ThrowStatement) String() string { return "throw " + ts.Value.String() + ";" }

// CatchClause is the `catch (variable) { ... }` part of a try statement.
type CatchClause struct {
	BaseNode
	Variable *Identifier
	Block    *BlockStatement
}

func (cc *CatchClause) String() string {
	return "catch (" + cc.Variable.String() + ") " + cc.Block.String()
}

// TryStatement represents `try { } catch { } finally { }`.
type TryStatement struct {
	BaseNode
	Block   *BlockStatement
	Catch   *CatchClause
	Finally *BlockStatement
}

func (ts *TryStatement) statementNode() {}
func (ts *TryStatement) String() string {
	out := "try " + ts.Block.String()
	if ts.Catch != nil {
		out += " " + ts.Catch.String()
	}
	if ts.Finally != nil {
		out += " finally " + ts.Finally.String()
	}
	return out
}

// LabeledStatement represents `label: stmt` (always rejected).
type LabeledStatement struct {
	BaseNode
	Label     *Identifier
	Statement Statement
}

func (ls *LabeledStatement) statementNode() {}
func (ls *LabeledStatement) String() string {
	return ls.Label.String() + ": " + ls.Statement.String()
}

// EmptyStatement represents a lone `;`.
type EmptyStatement struct {
	BaseNode
}

func (es *EmptyStatement) statementNode() {}
func (es *EmptyStatement) String() string { return ";" }
