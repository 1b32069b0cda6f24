package resolve

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func TestBuildDefaultWrapperOmitsDefaultedFormal(t *testing.T) {
	b := intArg("b")
	b.DefaultExpr = ir.NewSymExpr(ir.Pos{}, ir.NewVarSymbol("_imm0", nil))
	fn := makeFn("f", intArg("a"), b)
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	fn.RetType = ir.NewTypeSymbol("int", primType("int(64)"))

	cache := NewWrapperCache()
	wrapper := BuildDefaultWrapper(cache, fn, map[*ir.ArgSymbol]bool{b: true}, nil)

	if len(wrapper.Formals) != 1 {
		t.Fatalf("expected wrapper to drop the defaulted formal, got %d formals", len(wrapper.Formals))
	}
	if !wrapper.HasFlag(ir.FnFlagDefaultWrapper) {
		t.Errorf("expected FnFlagDefaultWrapper to be set")
	}
	if !wrapper.HasFlag(ir.FnFlagInvisible) {
		t.Errorf("expected a wrapper to be invisible to the visibility cache")
	}
}

func TestBuildDefaultWrapperMemoizes(t *testing.T) {
	fn := makeFn("f", intArg("a"))
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))

	cache := NewWrapperCache()
	w1 := BuildDefaultWrapper(cache, fn, nil, nil)
	w2 := BuildDefaultWrapper(cache, fn, nil, nil)
	if w1 != w2 {
		t.Fatalf("identical default-wrapper requests should share one FnSymbol")
	}
}

func TestBuildOrderWrapperPreservesDeclarationOrder(t *testing.T) {
	fn := makeFn("f", intArg("a"), intArg("b"))
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))

	cache := NewWrapperCache()
	wrapper := BuildOrderWrapper(cache, fn, []int{1, 0}, nil)

	if len(wrapper.Formals) != 2 {
		t.Fatalf("expected both formals to be present, got %d", len(wrapper.Formals))
	}
	if wrapper.Formals[0].Name() != "b" || wrapper.Formals[1].Name() != "a" {
		t.Fatalf("wrapper formals should appear in call order, got %s, %s", wrapper.Formals[0].Name(), wrapper.Formals[1].Name())
	}
}

func TestBuildCoercionWrapperCastsFlaggedFormal(t *testing.T) {
	fn := makeFn("f", intArg("a"))
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))

	cache := NewWrapperCache()
	wrapper := BuildCoercionWrapper(cache, fn, map[int]bool{0: true}, nil)

	if !wrapper.HasFlag(ir.FnFlagCoercionWrapper) {
		t.Errorf("expected FnFlagCoercionWrapper to be set")
	}
	if wrapper.Body == nil || wrapper.Body.Body.Head() == nil {
		t.Fatalf("expected a non-empty wrapper body")
	}
}

func TestBuildPromotionWrapperIsIteratorFn(t *testing.T) {
	fn := makeFn("f", intArg("a"))
	fn.RetType = ir.NewTypeSymbol("int", primType("int(64)"))
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))

	cache := NewWrapperCache()
	wrapper := BuildPromotionWrapper(cache, fn, 0, nil)

	if !wrapper.HasFlag(ir.FnFlagIteratorFn) || !wrapper.HasFlag(ir.FnFlagPromotionWrapper) {
		t.Errorf("expected a promotion wrapper to be flagged as both a wrapper and an iterator")
	}
	if wrapper.Body == nil {
		t.Fatalf("expected a wrapper body")
	}
}

func TestZipNameCoversOneThroughFour(t *testing.T) {
	for n, want := range map[int]string{1: IterZip1, 2: IterZip2, 3: IterZip3, 4: IterZip4} {
		if got := ZipName(n); got != want {
			t.Errorf("ZipName(%d) = %q, want %q", n, got, want)
		}
	}
	if got := ZipName(5); got != "" {
		t.Errorf("ZipName(5) = %q, want empty string", got)
	}
}
