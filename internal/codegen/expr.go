package codegen

import (
	"toyc/internal/ast"
	"toyc/internal/types"
)

// genExpr computes an expression into rax.
func (g *generator) genExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.IntLit:
		g.insf("mov rax, %d", x.Value)

	case *ast.BoolLit:
		if x.Value {
			g.ins("mov rax, 1")
		} else {
			g.ins("mov rax, 0")
		}

	case *ast.NullLit:
		g.ins("xor rax, rax")

	case *ast.VarExpr:
		g.loadSlot(g.lookup(x.Name))

	case *ast.UnaryExpr:
		g.genUnary(x)

	case *ast.BinaryExpr:
		g.genBinary(x)

	case *ast.CallExpr:
		g.genCall(x)

	case *ast.FieldExpr:
		g.genAddr(x)
		g.loadIndirect(g.typeOf(x))

	case *ast.AssignExpr:
		g.genAssign(x)

	case *ast.SizeofExpr:
		if x.Resolved == types.NoTypeID {
			ice("sizeof operand has no resolved type")
		}
		g.insf("mov rax, %d", g.sizeOf(x.Resolved))

	case *ast.StructLit:
		ice("struct literal outside an initializer or assignment")

	default:
		ice("unsupported expression %T", e)
	}
}

func (g *generator) genUnary(x *ast.UnaryExpr) {
	switch x.Op {
	case ast.UnaryNeg:
		g.genExpr(x.X)
		g.ins("neg rax")

	case ast.UnaryNot:
		g.genExpr(x.X)
		g.ins("cmp rax, 0")
		g.ins("sete al")
		g.ins("movzx rax, al")

	case ast.UnaryDeref:
		g.genExpr(x.X)
		g.loadIndirect(g.typeOf(x))

	case ast.UnaryAddr:
		g.genAddr(x.X)

	default:
		ice("unknown unary operator %v", x.Op)
	}
}

// genBinary evaluates left, spills it, evaluates right, then combines with
// the left operand restored into rcx. Signedness follows the operand type.
func (g *generator) genBinary(x *ast.BinaryExpr) {
	if x.Op.IsShortCircuit() {
		g.genShortCircuit(x)
		return
	}

	operandKind := g.res.Types.Kind(g.typeOf(x.Left))

	g.genExpr(x.Left)
	g.ins("push rax")
	g.genExpr(x.Right)
	g.ins("pop rcx")

	switch x.Op {
	case ast.BinAdd:
		g.ins("add rcx, rax")
		g.ins("mov rax, rcx")
	case ast.BinSub:
		g.ins("sub rcx, rax")
		g.ins("mov rax, rcx")
	case ast.BinMul:
		g.ins("imul rcx, rax")
		g.ins("mov rax, rcx")

	case ast.BinDiv, ast.BinRem:
		g.ins("mov r8, rax")
		g.ins("mov rax, rcx")
		if operandKind == types.KindI64 {
			g.ins("cqo")
			g.ins("idiv r8")
		} else {
			g.ins("xor rdx, rdx")
			g.ins("div r8")
		}
		if x.Op == ast.BinRem {
			g.ins("mov rax, rdx")
		}

	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		g.ins("cmp rcx, rax")
		g.insf("set%s al", conditionCode(x.Op, operandKind == types.KindI64))
		g.ins("movzx rax, al")

	default:
		ice("unknown binary operator %v", x.Op)
	}
}

// conditionCode picks the setcc suffix: signed forms for i64, unsigned forms
// for u64, u8 and pointers.
func conditionCode(op ast.BinaryOp, signed bool) string {
	switch op {
	case ast.BinEq:
		return "e"
	case ast.BinNe:
		return "ne"
	case ast.BinLt:
		if signed {
			return "l"
		}
		return "b"
	case ast.BinLe:
		if signed {
			return "le"
		}
		return "be"
	case ast.BinGt:
		if signed {
			return "g"
		}
		return "a"
	case ast.BinGe:
		if signed {
			return "ge"
		}
		return "ae"
	}
	ice("no condition code for %v", op)
	return ""
}

// genShortCircuit lowers && and || to control flow so the right operand's
// side effects are skippable.
func (g *generator) genShortCircuit(x *ast.BinaryExpr) {
	if x.Op == ast.BinAnd {
		falseLabel := g.newLabel(".and_false")
		endLabel := g.newLabel(".and_end")
		g.genExpr(x.Left)
		g.ins("cmp rax, 0")
		g.insf("je %s", falseLabel)
		g.genExpr(x.Right)
		g.ins("cmp rax, 0")
		g.ins("setne al")
		g.ins("movzx rax, al")
		g.insf("jmp %s", endLabel)
		g.linef("%s:", falseLabel)
		g.ins("xor rax, rax")
		g.linef("%s:", endLabel)
		return
	}

	trueLabel := g.newLabel(".or_true")
	endLabel := g.newLabel(".or_end")
	g.genExpr(x.Left)
	g.ins("cmp rax, 0")
	g.insf("jne %s", trueLabel)
	g.genExpr(x.Right)
	g.ins("cmp rax, 0")
	g.ins("setne al")
	g.ins("movzx rax, al")
	g.insf("jmp %s", endLabel)
	g.linef("%s:", trueLabel)
	g.ins("mov rax, 1")
	g.linef("%s:", endLabel)
}

// genCall pushes every argument left to right, pops them into the argument
// registers in reverse, and issues the call. The result is in rax.
func (g *generator) genCall(x *ast.CallExpr) {
	callee, ok := x.Callee.(*ast.VarExpr)
	if !ok {
		ice("call target is %T, not a function name", x.Callee)
	}
	if len(x.Args) > len(argRegs) {
		ice("call to %q exceeds the register argument budget", callee.Name)
	}

	for _, arg := range x.Args {
		g.genExpr(arg)
		g.ins("push rax")
	}
	for i := len(x.Args) - 1; i >= 0; i-- {
		g.insf("pop %s", argRegs[i])
	}
	g.insf("call %s", callee.Name)
}

// genAssign stores into the target's address. The assigned value stays in rax
// so assignment chains.
func (g *generator) genAssign(x *ast.AssignExpr) {
	targetType := g.typeOf(x.Target)

	if g.res.Types.Kind(targetType) == types.KindStruct {
		lit, isLit := x.Value.(*ast.StructLit)
		if !isLit {
			ice("struct assignment without a literal source")
		}
		g.genAddr(x.Target)
		g.ins("push rax")
		g.genStructLit(lit, targetType)
		return
	}

	g.genAddr(x.Target)
	g.ins("push rax")
	g.genExpr(x.Value)
	g.ins("pop rcx")
	g.storeIndirect("rcx", targetType)
}

// genAddr computes an lvalue's address into rax.
func (g *generator) genAddr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.VarExpr:
		g.insf("lea rax, [rbp - %d]", g.lookup(x.Name).off)

	case *ast.UnaryExpr:
		if x.Op != ast.UnaryDeref {
			ice("unary %v is not addressable", x.Op)
		}
		g.genExpr(x.X)

	case *ast.FieldExpr:
		off := g.fieldOffset(x)
		if g.res.Types.Kind(g.typeOf(x.Base)) == types.KindPtr {
			// One implicit dereference: the pointer's value is the base.
			g.genExpr(x.Base)
		} else {
			g.genAddr(x.Base)
		}
		if off != 0 {
			g.insf("add rax, %d", off)
		}

	default:
		ice("expression %T is not addressable", e)
	}
}

// fieldOffset resolves a field access to its static byte offset.
func (g *generator) fieldOffset(x *ast.FieldExpr) int {
	baseType := g.typeOf(x.Base)
	t, ok := g.res.Types.Lookup(baseType)
	if !ok {
		ice("field base has unknown type")
	}
	structType := baseType
	if t.Kind == types.KindPtr {
		structType = t.Elem
	}
	info, ok := g.res.Types.StructInfo(structType)
	if !ok {
		ice("no struct info for %s", g.res.Types.TypeString(structType))
	}
	idx := info.FieldIndex(x.Name)
	if idx < 0 {
		ice("struct %q has no field %q", info.Name, x.Name)
	}
	off, err := g.res.Layouts.FieldOffset(structType, idx)
	if err != nil {
		ice("no field offset for %s.%s", info.Name, x.Name)
	}
	return off
}

// genStructLit fills the struct whose destination address is on top of the
// machine stack, field by field in written order, then pops the address.
func (g *generator) genStructLit(lit *ast.StructLit, structType types.TypeID) {
	info, ok := g.res.Types.StructInfo(structType)
	if !ok {
		ice("no struct info for %s", g.res.Types.TypeString(structType))
	}

	for i := range lit.Fields {
		f := &lit.Fields[i]
		idx := info.FieldIndex(f.Name)
		if idx < 0 {
			ice("struct %q has no field %q", info.Name, f.Name)
		}
		fieldType := info.Fields[idx].Type
		off, err := g.res.Layouts.FieldOffset(structType, idx)
		if err != nil {
			ice("no field offset for %s.%s", info.Name, f.Name)
		}

		if nested, isLit := f.Value.(*ast.StructLit); isLit {
			g.ins("mov rax, [rsp]")
			if off != 0 {
				g.insf("lea rax, [rax + %d]", off)
			}
			g.ins("push rax")
			g.genStructLit(nested, fieldType)
			continue
		}

		g.genExpr(f.Value)
		g.ins("mov rcx, [rsp]")
		if g.sizeOf(fieldType) == 1 {
			g.insf("mov byte ptr [rcx + %d], al", off)
		} else {
			g.insf("mov qword ptr [rcx + %d], rax", off)
		}
	}
	g.ins("add rsp, 8")
}
