package transpiler

import (
	"strconv"
	"strings"

	"tslua/pkg/ast"
	"tslua/pkg/errors"
	"tslua/pkg/luau"
)

// runtimeClasses are input-language globals backed by runtime implementations;
// references to them are routed through the runtime namespace.
var runtimeClasses = map[string]bool{
	"Promise": true,
	"Symbol":  true,
}

func (t *Transpiler) transpileIdentifier(node *ast.Identifier) (string, errors.TranspileError) {
	name := node.Name
	if name == "undefined" {
		return "nil", nil
	}
	if runtimeClasses[name] {
		return "TS." + name, nil
	}
	if luau.ReservedKeywords[name] {
		return "", t.err(node, errors.CodeReservedIdentifier, "%q is a reserved word", name)
	}
	return name, nil
}

func (t *Transpiler) transpileNumberLiteral(node *ast.NumberLiteral) string {
	text := node.Text
	if len(text) > 2 {
		switch text[:2] {
		case "0x", "0X", "0b", "0B", "0o", "0O":
			base := 16
			switch text[1] {
			case 'b', 'B':
				base = 2
			case 'o', 'O':
				base = 8
			}
			if v, err := strconv.ParseInt(text[2:], base, 64); err == nil {
				return strconv.FormatInt(v, 10)
			}
		}
	}
	// Scientific notation passes through verbatim.
	if strings.ContainsAny(text, "eE") {
		return text
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		v = node.Value
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (t *Transpiler) transpileStringLiteral(node *ast.StringLiteral) string {
	text := node.Text
	if strings.HasPrefix(text, "`") && strings.HasSuffix(text, "`") && len(text) >= 2 {
		// No-substitution template: rewrite delimiters to double quotes.
		inner := text[1 : len(text)-1]
		inner = strings.ReplaceAll(inner, "\\`", "`")
		inner = strings.ReplaceAll(inner, "\"", "\\\"")
		return "\"" + inner + "\""
	}
	return text
}

func (t *Transpiler) transpileTemplateLiteral(node *ast.TemplateLiteral) (string, errors.TranspileError) {
	var parts []string
	for i, quasi := range node.Quasis {
		if quasi != "" {
			parts = append(parts, strconv.Quote(quasi))
		}
		if i < len(node.Expressions) {
			expStr, err := t.transpileExpression(node.Expressions[i])
			if err != nil {
				return "", err
			}
			parts = append(parts, "tostring("+expStr+")")
		}
	}
	if len(parts) == 0 {
		return "\"\"", nil
	}
	return strings.Join(parts, " .. "), nil
}

func (t *Transpiler) transpileArrayLiteral(node *ast.ArrayLiteral) (string, errors.TranspileError) {
	hasSpread := false
	for _, element := range node.Elements {
		if _, ok := element.(*ast.SpreadElement); ok {
			hasSpread = true
			break
		}
	}

	if !hasSpread {
		if len(node.Elements) == 0 {
			return "{}", nil
		}
		parts := make([]string, len(node.Elements))
		for i, element := range node.Elements {
			str, err := t.transpileExpression(element)
			if err != nil {
				return "", err
			}
			parts[i] = str
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	}

	// Interleave inline groups of adjacent non-spread elements with the
	// spread expressions and concatenate at runtime.
	var segments []string
	var group []string
	flush := func() {
		if len(group) > 0 {
			segments = append(segments, "{ "+strings.Join(group, ", ")+" }")
			group = nil
		}
	}
	for _, element := range node.Elements {
		if spread, ok := element.(*ast.SpreadElement); ok {
			str, err := t.transpileExpression(spread.Expression)
			if err != nil {
				return "", err
			}
			flush()
			segments = append(segments, str)
		} else {
			str, err := t.transpileExpression(element)
			if err != nil {
				return "", err
			}
			group = append(group, str)
		}
	}
	flush()
	return "TS.array_concat(" + strings.Join(segments, ", ") + ")", nil
}

// objectKeyText renders an object-literal key: bare identifier when valid,
// indexed numeric form for number-shaped keys, indexed string form otherwise.
func (t *Transpiler) objectKeyText(key ast.Expression) (string, errors.TranspileError) {
	switch k := key.(type) {
	case *ast.Identifier:
		if luau.IsValidIdentifier(k.Name) {
			return k.Name, nil
		}
		return "[\"" + k.Name + "\"]", nil
	case *ast.StringLiteral:
		if luau.IsNumberKey(k.Value) {
			return "[" + k.Value + "]", nil
		}
		if luau.IsValidIdentifier(k.Value) {
			return k.Value, nil
		}
		return "[" + strconv.Quote(k.Value) + "]", nil
	case *ast.NumberLiteral:
		return "[" + t.transpileNumberLiteral(k) + "]", nil
	default:
		return "", t.err(key, errors.CodeUnrecognizedOperation, "unrecognized object key kind")
	}
}

func (t *Transpiler) transpileObjectLiteral(node *ast.ObjectLiteral) (string, errors.TranspileError) {
	hasSpread := false
	for _, member := range node.Properties {
		if _, ok := member.(*ast.SpreadAssignment); ok {
			hasSpread = true
			break
		}
	}

	transpileGroup := func(members []ast.ObjectMember) (string, errors.TranspileError) {
		if len(members) == 0 {
			return "{}", nil
		}
		parts := make([]string, len(members))
		for i, member := range members {
			prop := member.(*ast.PropertyAssignment)
			keyStr, err := t.objectKeyText(prop.Key)
			if err != nil {
				return "", err
			}
			var valueStr string
			if prop.Shorthand {
				valueStr, err = t.transpileExpression(prop.Key)
			} else {
				valueStr, err = t.transpileExpression(prop.Value)
			}
			if err != nil {
				return "", err
			}
			parts[i] = keyStr + " = " + valueStr
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	}

	if !hasSpread {
		return transpileGroup(node.Properties)
	}

	// Spread assignments split the object into segments merged at runtime.
	// When the first segment is not a key-value group, an empty object is
	// prepended so the merge writes into a fresh target.
	var segments []string
	var group []ast.ObjectMember
	flush := func() errors.TranspileError {
		if len(group) > 0 {
			str, err := transpileGroup(group)
			if err != nil {
				return err
			}
			segments = append(segments, str)
			group = nil
		}
		return nil
	}
	for _, member := range node.Properties {
		if spread, ok := member.(*ast.SpreadAssignment); ok {
			str, err := t.transpileExpression(spread.Expression)
			if err != nil {
				return "", err
			}
			if len(segments) == 0 && len(group) == 0 {
				segments = append(segments, "{}")
			}
			if err := flush(); err != nil {
				return "", err
			}
			segments = append(segments, str)
		} else {
			group = append(group, member)
		}
	}
	if err := flush(); err != nil {
		return "", err
	}
	return "TS.Object_assign(" + strings.Join(segments, ", ") + ")", nil
}
