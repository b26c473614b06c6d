// Package project models the surface the transpiler consumes from its host
// compiler: script classification, import-path resolution, and heuristics
// flags. The real host owns file discovery and watching; this package only
// answers questions about files it is handed.
package project

import (
	"fmt"
	"path"
	"strings"

	"tslua/pkg/ast"
)

// ScriptContext describes the ambient capabilities of a file.
type ScriptContext int

const (
	ContextNone ScriptContext = iota
	ContextServer
	ContextClient
)

func (sc ScriptContext) String() string {
	switch sc {
	case ContextServer:
		return "Server"
	case ContextClient:
		return "Client"
	default:
		return "None"
	}
}

// ScriptType distinguishes plain scripts from module scripts.
type ScriptType int

const (
	TypeScript ScriptType = iota
	TypeModule
)

// GetScriptContext classifies a file by its name suffix convention.
func GetScriptContext(filePath string) ScriptContext {
	name := path.Base(filePath)
	switch {
	case strings.HasSuffix(name, ".server.ts") || strings.HasSuffix(name, ".server.tsx"):
		return ContextServer
	case strings.HasSuffix(name, ".client.ts") || strings.HasSuffix(name, ".client.tsx"):
		return ContextClient
	default:
		return ContextNone
	}
}

// GetScriptType classifies a file: server and client scripts run as plain
// scripts, everything else is a module.
func GetScriptType(filePath string) ScriptType {
	if GetScriptContext(filePath) != ContextNone {
		return TypeScript
	}
	return TypeModule
}

// Compiler is the collaborator the transpiler asks for project-level answers.
// Import-path queries return expressions already quoted for require(...)
// position.
type Compiler interface {
	NoHeuristics() bool
	RuntimeLibExpression() string
	GetRelativeImportPath(from, to *ast.SourceFile, specifier string) (string, error)
	GetImportPathFromFile(from, to *ast.SourceFile) (string, error)
}

// StaticCompiler is a table-backed Compiler for hosts that resolve paths up
// front (and for tests).
type StaticCompiler struct {
	DisableHeuristics bool
	RuntimeLib        string
	ImportPaths       map[string]string // module specifier -> require-position expression
}

func (c *StaticCompiler) NoHeuristics() bool { return c.DisableHeuristics }

func (c *StaticCompiler) RuntimeLibExpression() string {
	if c.RuntimeLib != "" {
		return c.RuntimeLib
	}
	return "game.ReplicatedStorage.RobloxTS.Include.RuntimeLib"
}

func (c *StaticCompiler) GetRelativeImportPath(from, to *ast.SourceFile, specifier string) (string, error) {
	if p, ok := c.ImportPaths[specifier]; ok {
		return p, nil
	}
	if to != nil {
		return c.GetImportPathFromFile(from, to)
	}
	return "", fmt.Errorf("could not resolve module %q", specifier)
}

func (c *StaticCompiler) GetImportPathFromFile(from, to *ast.SourceFile) (string, error) {
	if to == nil {
		return "", fmt.Errorf("missing module file")
	}
	if p, ok := c.ImportPaths[to.Path]; ok {
		return p, nil
	}
	return "", fmt.Errorf("could not resolve module file %q", to.Path)
}
