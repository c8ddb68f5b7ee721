package codegen

import (
	"toyc/internal/ast"
	"toyc/internal/types"
)

func (g *generator) genBlock(b *ast.Block) {
	g.pushScope()
	g.genBlockStmts(b)
	g.popScope()
}

// genBlockStmts emits statements into the current scope; genFn uses it so the
// outermost block shares the parameter scope.
func (g *generator) genBlockStmts(b *ast.Block) {
	for _, stmt := range b.Stmts {
		g.genStmt(stmt)
	}
}

func (g *generator) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		g.genBlock(s)

	case *ast.VarDecl:
		g.loc(s.Sp)
		g.genVarDecl(s)

	case *ast.IfStmt:
		g.loc(s.Sp)
		elseLabel := g.newLabel(".else")
		endLabel := g.newLabel(".endif")
		g.genExpr(s.Cond)
		g.ins("cmp rax, 0")
		g.insf("je %s", elseLabel)
		g.genBlock(s.Then)
		g.insf("jmp %s", endLabel)
		g.linef("%s:", elseLabel)
		if s.Else != nil {
			g.genBlock(s.Else)
		}
		g.linef("%s:", endLabel)

	case *ast.WhileStmt:
		g.loc(s.Sp)
		startLabel := g.newLabel(".while")
		endLabel := g.newLabel(".endwhile")
		g.linef("%s:", startLabel)
		g.genExpr(s.Cond)
		g.ins("cmp rax, 0")
		g.insf("je %s", endLabel)
		g.genBlock(s.Body)
		g.insf("jmp %s", startLabel)
		g.linef("%s:", endLabel)

	case *ast.ReturnStmt:
		g.loc(s.Sp)
		if s.Value != nil {
			g.genExpr(s.Value)
		}
		g.epilogue()

	case *ast.ExprStmt:
		g.loc(s.Sp)
		g.genExpr(s.X)

	case *ast.GotoStmt:
		g.loc(s.Sp)
		g.insf("jmp %s", s.Label)

	case *ast.LabeledBlock:
		g.linef("%s:", s.Label)
		g.genBlock(s.Body)

	case *ast.DeferStmt:
		ice("defer statement survived normalization")

	default:
		ice("unsupported statement %T", s)
	}
}

func (g *generator) genVarDecl(s *ast.VarDecl) {
	sl, ok := g.frame.vars[s]
	if !ok {
		ice("variable %q has no frame slot", s.Name)
	}
	g.bind(s.Name, sl)

	if g.res.Types.Kind(sl.t) == types.KindStruct {
		lit, isLit := s.Init.(*ast.StructLit)
		if !isLit {
			ice("struct variable %q initialized without a literal", s.Name)
		}
		g.insf("lea rax, [rbp - %d]", sl.off)
		g.ins("push rax")
		g.genStructLit(lit, sl.t)
		return
	}

	g.genExpr(s.Init)
	g.storeSlot(sl)
}
