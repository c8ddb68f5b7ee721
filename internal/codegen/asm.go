package codegen

import (
	"fmt"

	"toyc/internal/source"
	"toyc/internal/types"
)

func (g *generator) line(s string) {
	g.out.WriteString(s)
	g.out.WriteByte('\n')
}

func (g *generator) linef(format string, args ...any) {
	fmt.Fprintf(&g.out, format, args...)
	g.out.WriteByte('\n')
}

// ins writes one indented instruction.
func (g *generator) ins(s string) {
	g.out.WriteString("  ")
	g.line(s)
}

func (g *generator) insf(format string, args ...any) {
	g.out.WriteString("  ")
	g.linef(format, args...)
}

func (g *generator) newLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, g.labelID)
	g.labelID++
	return label
}

// loadSlot reads a frame slot into rax, zero-extending byte-sized values.
func (g *generator) loadSlot(s slot) {
	if g.sizeOf(s.t) == 1 {
		g.insf("movzx rax, byte ptr [rbp - %d]", s.off)
	} else {
		g.insf("mov rax, qword ptr [rbp - %d]", s.off)
	}
}

// storeSlot writes rax into a frame slot.
func (g *generator) storeSlot(s slot) {
	if g.sizeOf(s.t) == 1 {
		g.insf("mov byte ptr [rbp - %d], al", s.off)
	} else {
		g.insf("mov qword ptr [rbp - %d], rax", s.off)
	}
}

// loadIndirect replaces the address in rax with the value it points at.
func (g *generator) loadIndirect(t types.TypeID) {
	if g.sizeOf(t) == 1 {
		g.ins("movzx rax, byte ptr [rax]")
	} else {
		g.ins("mov rax, qword ptr [rax]")
	}
}

// storeIndirect writes rax through the address held in addrReg.
func (g *generator) storeIndirect(addrReg string, t types.TypeID) {
	if g.sizeOf(t) == 1 {
		g.insf("mov byte ptr [%s], al", addrReg)
	} else {
		g.insf("mov qword ptr [%s], rax", addrReg)
	}
}

// loc interleaves a source position comment before a statement's code. The
// same line is never repeated twice in a row.
func (g *generator) loc(sp source.Span) {
	if !g.opts.Comments || g.opts.FileSet == nil || sp.Empty() {
		return
	}
	start, _ := g.opts.FileSet.Resolve(sp)
	if g.lastLocSet && g.lastLoc.Line == start.Line {
		return
	}
	g.lastLoc = start
	g.lastLocSet = true
	file := g.opts.FileSet.Get(sp.File)
	g.insf("# %s:%d:%d", file.Path, start.Line, start.Col)
}
