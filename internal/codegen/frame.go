package codegen

import (
	"toyc/internal/ast"
	"toyc/internal/symbols"
	"toyc/internal/types"
)

// slot is one fixed frame location: a positive byte distance below rbp and
// the type stored there.
type slot struct {
	off int
	t   types.TypeID
}

// frame is the arena of frame slots for one function, assigned once in a
// pre-pass over the body so emission never recomputes offsets. Parameters are
// keyed by name; every variable declaration, including synthesized ones, is
// keyed by its node.
type frame struct {
	params map[string]slot
	vars   map[*ast.VarDecl]slot
	size   int
}

// buildFrame walks parameters then the body in statement order, allocating a
// slot per declaration and rounding the total so rsp stays 16-byte aligned
// after the prologue.
func (g *generator) buildFrame(fn *ast.FnDecl, sig *symbols.FnSig) *frame {
	f := &frame{
		params: make(map[string]slot, len(sig.Params)),
		vars:   make(map[*ast.VarDecl]slot, 8),
	}
	for _, p := range sig.Params {
		f.params[p.Name] = g.allocSlot(f, p.Type)
	}
	g.sizeBlock(fn.Body, f)
	f.size = alignUp(f.size, 16)
	return f
}

func (g *generator) allocSlot(f *frame, t types.TypeID) slot {
	size, err := g.res.Layouts.SizeOf(t)
	if err != nil {
		ice("no layout for %s", g.res.Types.TypeString(t))
	}
	align, err := g.res.Layouts.AlignOf(t)
	if err != nil {
		ice("no alignment for %s", g.res.Types.TypeString(t))
	}
	// Struct locals land on 8-byte boundaries regardless of their own
	// alignment so field addressing matches the layout engine.
	if g.res.Types.Kind(t) == types.KindStruct && align < 8 {
		align = 8
	}
	f.size = alignUp(f.size+size, align)
	return slot{off: f.size, t: t}
}

func (g *generator) sizeBlock(b *ast.Block, f *frame) {
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if s.ResolvedType == types.NoTypeID {
				ice("variable %q has no resolved type", s.Name)
			}
			f.vars[s] = g.allocSlot(f, s.ResolvedType)
		case *ast.Block:
			g.sizeBlock(s, f)
		case *ast.IfStmt:
			g.sizeBlock(s.Then, f)
			if s.Else != nil {
				g.sizeBlock(s.Else, f)
			}
		case *ast.WhileStmt:
			g.sizeBlock(s.Body, f)
		case *ast.LabeledBlock:
			g.sizeBlock(s.Body, f)
		}
	}
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
