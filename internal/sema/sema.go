// Package sema performs semantic analysis: symbol collection, struct layout,
// and type checking of function bodies.
//
// Analysis accumulates diagnostics instead of stopping at the first one, with
// one gate: bodies are only checked when signature collection and layout both
// came through clean, so body checking never sees a half-built global table.
// Callers must not run later stages when the reporter saw any error.
package sema

import (
	"fmt"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/layout"
	"toyc/internal/source"
	"toyc/internal/symbols"
	"toyc/internal/types"
)

// Options configures a Check run.
type Options struct {
	Reporter diag.Reporter
	Target   layout.Target
}

// Result is the read-only product of analysis that later stages consume.
type Result struct {
	Types   *types.Interner
	Layouts *layout.Engine
	Table   *symbols.Table

	// ExprTypes annotates every reachable expression with its resolved type.
	// Later stages read it and never re-derive types.
	ExprTypes map[ast.Expr]types.TypeID
}

type checker struct {
	prog     *ast.Program
	reporter diag.Reporter
	errs     int

	interner *types.Interner
	builtins types.Builtins
	layouts  *layout.Engine
	table    *symbols.Table

	exprTypes map[ast.Expr]types.TypeID

	scopes *symbols.ScopeStack
	fn     *symbols.FnSig
}

// Check analyzes a program. ok is false when any diagnostic with error
// severity was reported; the Result is still returned for inspection but
// must not be fed to later stages in that case.
func Check(prog *ast.Program, opts Options) (*Result, bool) {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	target := opts.Target
	if target.PtrSize == 0 {
		target = layout.X86_64LinuxGNU()
	}

	interner := types.NewInterner()
	c := &checker{
		prog:      prog,
		reporter:  reporter,
		interner:  interner,
		builtins:  interner.Builtins(),
		layouts:   layout.New(target, interner),
		table:     symbols.NewTable(),
		exprTypes: make(map[ast.Expr]types.TypeID, 64),
		scopes:    symbols.NewScopeStack(),
	}

	c.collectStructs()
	c.collectSignatures()
	c.checkLayouts()

	// Body checking assumes complete, consistent global tables.
	if c.errs == 0 {
		c.checkBodies()
	}

	return &Result{
		Types:     c.interner,
		Layouts:   c.layouts,
		Table:     c.table,
		ExprTypes: c.exprTypes,
	}, c.errs == 0
}

func (c *checker) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	c.errs++
	c.reporter.Report(diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}

// resolveType resolves type syntax to an interned type. Reports
// UndefinedSymbol for unknown names and returns NoTypeID.
func (c *checker) resolveType(te ast.TypeExpr) types.TypeID {
	switch t := te.(type) {
	case *ast.NamedType:
		switch t.Name {
		case "i64":
			return c.builtins.I64
		case "u64":
			return c.builtins.U64
		case "u8":
			return c.builtins.U8
		case "bool":
			return c.builtins.Bool
		case "unit":
			return c.builtins.Unit
		}
		if id, ok := c.table.LookupStruct(t.Name); ok {
			return id
		}
		c.errorf(diag.SemaUndefinedSymbol, t.Sp, "unknown type %q", t.Name)
		return types.NoTypeID
	case *ast.PtrType:
		elem := c.resolveType(t.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		return c.interner.Ptr(elem)
	default:
		panic(fmt.Sprintf("unexpected type syntax %T", te))
	}
}

func (c *checker) typeString(id types.TypeID) string {
	return c.interner.TypeString(id)
}
