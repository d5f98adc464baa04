// Package ctxkey defines an analyzer that reports context.WithValue calls
// keyed by a value of a built-in type such as string or int.
package ctxkey

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer reports context keys of built-in types. Keys of a built-in type
// collide across packages; request-scoped values such as the authenticated
// user must be stored under a key of a dedicated type.
var Analyzer = &analysis.Analyzer{
	Name:     "ctxkey",
	Doc:      "prohibits context.WithValue keys of built-in types",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}
	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)

		// Exclude go-build cache files
		if isGoBuildCacheFile(pass.Fset.File(call.Pos()).Name()) {
			return
		}

		fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "context" || fn.Name() != "WithValue" {
			return
		}
		if len(call.Args) != 3 {
			return
		}

		key := call.Args[1]
		if _, isBasic := pass.TypesInfo.TypeOf(key).(*types.Basic); isBasic {
			pass.Reportf(key.Pos(), "context key should be of a dedicated type, not %s", pass.TypesInfo.TypeOf(key))
		}
	})

	return nil, nil
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/") || strings.Contains(path, `\go-build\`)
}
