package lower

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func intTypeSym() *ir.TypeSymbol {
	return ir.NewTypeSymbol("int(64)", &ir.PrimitiveType{Name: "int(64)"})
}

func TestLowerParallelExtractsNestedFunction(t *testing.T) {
	p := ir.NewProgram()

	owner := ir.NewFnSymbol("outer")
	ownerBody := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	owner.SetBody(ownerBody)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, owner, nil, nil))

	x := ir.NewVarSymbol("x", intTypeSym())
	ownerBody.Append(ir.NewDefExpr(ir.Pos{}, x, nil, nil))

	beginBlock := ir.NewBlockStmt(ir.Pos{}, ir.BlockBegin)
	beginBlock.Append(ir.NewCallExpr(ir.Pos{}, ir.NewSymExpr(ir.Pos{}, x)))
	ownerBody.Append(beginBlock)

	lowered := LowerParallelProgram(p)
	if len(lowered) != 1 {
		t.Fatalf("expected exactly one lowered construct, got %d", len(lowered))
	}
	l := lowered[0]
	if !l.Nested.HasFlag(ir.FnFlagBeginBlockFn) {
		t.Errorf("expected nested function flagged FnFlagBeginBlockFn")
	}
	if len(l.Nested.Formals) != 1 || l.Nested.Formals[0].Name() != "x" {
		t.Fatalf("expected the nested function to take x as a formal, got %+v", l.Nested.Formals)
	}
	if l.Bundle == nil {
		t.Fatalf("expected a bundle type")
	}
	bundleType := l.Bundle.Type.(*ir.ClassLikeType)
	if len(bundleType.Fields) != 2 { // x, _endCount
		t.Fatalf("expected 2 bundle fields (x, _endCount), got %d", len(bundleType.Fields))
	}

	if ir.InTree(beginBlock) {
		t.Errorf("expected the original begin block to be unlinked from the tree")
	}
	if ownerBody.Body.Len() != 2 { // x def + dispatch site
		t.Fatalf("expected the begin block replaced by one dispatch site, got %d statements", ownerBody.Body.Len())
	}
}

func TestLowerOnBlockGetsDstLocaleField(t *testing.T) {
	p := ir.NewProgram()
	owner := ir.NewFnSymbol("outer")
	ownerBody := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	owner.SetBody(ownerBody)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, owner, nil, nil))

	onBlock := ir.NewBlockStmt(ir.Pos{}, ir.BlockOn)
	ownerBody.Append(onBlock)

	lowered := LowerParallelProgram(p)
	bundleType := lowered[0].Bundle.Type.(*ir.ClassLikeType)
	var sawDstLocale bool
	for _, f := range bundleType.Fields {
		if f.Sym.Name() == "_dst_locale" {
			sawDstLocale = true
		}
	}
	if !sawDstLocale {
		t.Errorf("expected an on-block's bundle to carry a _dst_locale field")
	}
}

func TestHeapPromoteMarksOwnedLocalsOnly(t *testing.T) {
	p := ir.NewProgram()
	owner := ir.NewFnSymbol("outer")
	ownerBody := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	owner.SetBody(ownerBody)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, owner, nil, nil))

	local := ir.NewVarSymbol("local", intTypeSym())
	ownerBody.Append(ir.NewDefExpr(ir.Pos{}, local, nil, nil))

	outsideVar := ir.NewVarSymbol("outside", intTypeSym()) // never declared anywhere in owner

	beginBlock := ir.NewBlockStmt(ir.Pos{}, ir.BlockBegin)
	beginBlock.Append(ir.NewCallExpr(ir.Pos{}, ir.NewSymExpr(ir.Pos{}, local)))
	beginBlock.Append(ir.NewCallExpr(ir.Pos{}, ir.NewSymExpr(ir.Pos{}, outsideVar)))
	ownerBody.Append(beginBlock)

	LowerParallelProgram(p)

	if !local.HeapPromoted {
		t.Errorf("expected the owner-local captured variable to be heap-promoted")
	}
	if outsideVar.HeapPromoted {
		t.Errorf("a variable not declared in owner should not be heap-promoted by this construct")
	}
}
