// Package codegen turns a normalized, annotated program into x86-64 assembly
// in Intel syntax for the System V calling convention.
//
// Every expression computes its value into rax; a sibling operand spills with
// push/pop around the other side's evaluation. Type annotations from analysis
// are authoritative and never re-derived here: a missing annotation, a
// surviving defer statement, or any other inconsistency is an internal
// invariant violation reported through ErrInternal, never a user diagnostic.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"toyc/internal/ast"
	"toyc/internal/sema"
	"toyc/internal/source"
	"toyc/internal/types"
)

// ErrInternal marks a defect in an earlier stage: codegen was handed a
// program that analysis should never have let through.
var ErrInternal = errors.New("internal invariant violation")

// argRegs is the System V integer argument register sequence.
var argRegs = [6]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// argRegs8 are the byte-wide forms of argRegs for size-1 parameters.
var argRegs8 = [6]string{"dil", "sil", "dl", "cl", "r8b", "r9b"}

// Options configures assembly generation.
type Options struct {
	// Comments interleaves `# path:line:col | source` markers before each
	// statement. FileSet must be set for them to resolve.
	Comments bool
	FileSet  *source.FileSet
}

type bug struct{ msg string }

func ice(format string, args ...any) {
	panic(bug{msg: fmt.Sprintf(format, args...)})
}

type generator struct {
	res  *sema.Result
	opts Options
	out  strings.Builder

	labelID int

	// Per-function state, reset by genFn.
	frame      *frame
	scopes     []map[string]slot
	lastLoc    source.LineCol
	lastLocSet bool
}

// Generate emits the whole program. The listing is deterministic: the same
// annotated program always produces byte-identical output.
func Generate(prog *ast.Program, res *sema.Result, opts Options) (asm string, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bug)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %s", ErrInternal, b.msg)
		}
	}()

	g := &generator{res: res, opts: opts}
	g.line(".intel_syntax noprefix")
	g.line(".text")
	g.line(`.section .note.GNU-stack,"",@progbits`)
	g.line(".text")

	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FnDecl); ok {
			g.genFn(fn)
		}
	}
	return g.out.String(), nil
}

func (g *generator) genFn(fn *ast.FnDecl) {
	sig, ok := g.res.Table.LookupFunc(fn.Name)
	if !ok {
		ice("function %q missing from symbol table", fn.Name)
	}
	if len(sig.Params) > len(argRegs) {
		ice("function %q exceeds the register argument budget", fn.Name)
	}

	g.frame = g.buildFrame(fn, sig)
	g.scopes = nil
	g.lastLocSet = false

	g.line("")
	g.linef(".globl %s", fn.Name)
	g.linef("%s:", fn.Name)
	g.ins("push rbp")
	g.ins("mov rbp, rsp")
	if g.frame.size > 0 {
		g.insf("sub rsp, %d", g.frame.size)
	}

	// Spill incoming arguments into their slots.
	g.pushScope()
	for i, p := range sig.Params {
		s := g.frame.params[p.Name]
		g.bind(p.Name, s)
		if g.sizeOf(s.t) == 1 {
			g.insf("mov byte ptr [rbp - %d], %s", s.off, argRegs8[i])
		} else {
			g.insf("mov qword ptr [rbp - %d], %s", s.off, argRegs[i])
		}
	}

	g.genBlockStmts(fn.Body)
	g.popScope()

	// Falling off the end of the body returns; analysis guarantees this is
	// only reachable in unit functions or after a jump to the exit label.
	g.epilogue()
}

func (g *generator) epilogue() {
	g.ins("mov rsp, rbp")
	g.ins("pop rbp")
	g.ins("ret")
}

func (g *generator) sizeOf(t types.TypeID) int {
	size, err := g.res.Layouts.SizeOf(t)
	if err != nil {
		ice("no layout for %s", g.res.Types.TypeString(t))
	}
	return size
}

// typeOf returns the authoritative annotation for an expression.
func (g *generator) typeOf(e ast.Expr) types.TypeID {
	t, ok := g.res.ExprTypes[e]
	if !ok {
		ice("expression %T has no type annotation", e)
	}
	return t
}

func (g *generator) pushScope() {
	g.scopes = append(g.scopes, make(map[string]slot, 4))
}

func (g *generator) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

func (g *generator) bind(name string, s slot) {
	g.scopes[len(g.scopes)-1][name] = s
}

func (g *generator) lookup(name string) slot {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if s, ok := g.scopes[i][name]; ok {
			return s
		}
	}
	ice("unknown local %q", name)
	return slot{}
}
