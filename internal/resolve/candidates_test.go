package resolve

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func intArg(name string) *ir.ArgSymbol {
	return ir.NewArgSymbol(name, ir.NewTypeSymbol("int", primType("int(64)")), ir.IntentBlank)
}

func makeFn(name string, formals ...*ir.ArgSymbol) *ir.FnSymbol {
	fn := ir.NewFnSymbol(name)
	fn.Formals = formals
	return fn
}

func TestComputeActualFormalMapPositional(t *testing.T) {
	fn := makeFn("f", intArg("a"), intArg("b"))
	actuals := []CallActual{{Type: primType("int(64)")}, {Type: primType("int(64)")}}

	aligned, ok := ComputeActualFormalMap(fn, actuals)
	if !ok {
		t.Fatalf("expected alignment to succeed")
	}
	if aligned.ActualFormals[0] != fn.Formals[0] || aligned.ActualFormals[1] != fn.Formals[1] {
		t.Fatalf("positional actuals bound out of order: %v", aligned.ActualFormals)
	}
}

func TestComputeActualFormalMapNamed(t *testing.T) {
	fn := makeFn("f", intArg("a"), intArg("b"))
	actuals := []CallActual{{Type: primType("int(64)"), Name: "b"}, {Type: primType("int(64)"), Name: "a"}}

	aligned, ok := ComputeActualFormalMap(fn, actuals)
	if !ok {
		t.Fatalf("expected alignment to succeed")
	}
	if aligned.ActualFormals[0] != fn.Formals[1] || aligned.ActualFormals[1] != fn.Formals[0] {
		t.Fatalf("named actuals bound to the wrong formals")
	}
}

func TestComputeActualFormalMapMissingRequiredFormal(t *testing.T) {
	fn := makeFn("f", intArg("a"), intArg("b"))
	actuals := []CallActual{{Type: primType("int(64)")}}

	if _, ok := ComputeActualFormalMap(fn, actuals); ok {
		t.Fatalf("expected alignment to fail: b has no default and no actual")
	}
}

func TestComputeActualFormalMapDefaultFillsGap(t *testing.T) {
	b := intArg("b")
	b.DefaultExpr = ir.NewSymExpr(ir.Pos{}, ir.NewVarSymbol("_imm0", nil))
	fn := makeFn("f", intArg("a"), b)
	actuals := []CallActual{{Type: primType("int(64)")}}

	aligned, ok := ComputeActualFormalMap(fn, actuals)
	if !ok {
		t.Fatalf("expected alignment to succeed via default expression")
	}
	if aligned.FormalActuals[1] != nil {
		t.Fatalf("unbound defaulted formal should have a nil actual slot")
	}
}

func TestComputeActualFormalMapUnknownNamedActual(t *testing.T) {
	fn := makeFn("f", intArg("a"))
	actuals := []CallActual{{Type: primType("int(64)"), Name: "nope"}}

	if _, ok := ComputeActualFormalMap(fn, actuals); ok {
		t.Fatalf("expected alignment to fail for an unknown named actual")
	}
}

func TestAddCandidateRejectsUndispatchableActual(t *testing.T) {
	fn := makeFn("f", intArg("a"))
	actuals := []CallActual{{Type: primType("string")}}

	if _, ok := AddCandidate(fn, actuals); ok {
		t.Fatalf("string actual should not dispatch to an int formal")
	}
}

func TestCollectCandidatesFiltersNonViable(t *testing.T) {
	good := makeFn("f", intArg("a"))
	bad := makeFn("f", intArg("a"), intArg("b"))
	actuals := []CallActual{{Type: primType("int(64)")}}

	cands := CollectCandidates([]*ir.FnSymbol{good, bad}, actuals)
	if len(cands) != 1 || cands[0].Aligned.Fn != good {
		t.Fatalf("expected only the single-formal overload to be viable, got %d candidates", len(cands))
	}
}
