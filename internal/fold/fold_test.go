package fold

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

func intType() *ir.TypeSymbol {
	return ir.NewTypeSymbol("int(64)", &ir.PrimitiveType{Name: "int(64)"})
}

func intVar(name string) *ir.VarSymbol {
	return ir.NewVarSymbol(name, intType())
}

func moveCall(target *ir.VarSymbol, src ir.Expr) *ir.CallExpr {
	return ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, target), src)
}

func immCall(tag primitive.Tag, actuals ...ir.Expr) *ir.CallExpr {
	return ir.NewPrimitiveCall(ir.Pos{}, int(tag), actuals...)
}

func immInt(v int64) *ir.SymExpr {
	vs := ir.NewVarSymbol("_t", intType())
	vs.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: v}
	return ir.NewSymExpr(ir.Pos{}, vs)
}

func TestFoldPropagatesConstantMoveToParam(t *testing.T) {
	fn := ir.NewFnSymbol("f")
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	fn.SetBody(body)

	x := intVar("x")
	x.IsParam = true
	sum := immCall(primitive.Add, immInt(6), immInt(8))
	body.Append(moveCall(x, sum))

	r := Fold(fn)
	if r.Folded == 0 {
		t.Fatalf("expected at least one fold")
	}
	if !x.Immediate.Valid || x.Immediate.Int != 14 {
		t.Fatalf("expected x to be folded to 14, got %+v", x.Immediate)
	}
}

func TestFoldSkipsMultiplyAssignedParam(t *testing.T) {
	fn := ir.NewFnSymbol("f")
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	fn.SetBody(body)

	x := intVar("x")
	x.IsParam = true
	body.Append(moveCall(x, immInt(1)))
	body.Append(moveCall(x, immInt(2)))

	Fold(fn)
	if x.Immediate.Valid {
		t.Fatalf("a param assigned twice should not be folded to a constant")
	}
}

func TestFoldComparisonProducesBoolImmediate(t *testing.T) {
	fn := ir.NewFnSymbol("f")
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	fn.SetBody(body)

	b := ir.NewVarSymbol("b", ir.NewTypeSymbol("bool", &ir.PrimitiveType{Name: "bool"}))
	b.IsConst = true
	cmp := immCall(primitive.Less, immInt(3), immInt(5))
	body.Append(moveCall(b, cmp))

	Fold(fn)
	if !b.Immediate.Valid || b.Immediate.Kind != ir.ImmBool || !b.Immediate.Bool {
		t.Fatalf("expected b to fold to true, got %+v", b.Immediate)
	}
}

func TestUnrollParamForCopiesBodyPerIteration(t *testing.T) {
	fn := ir.NewFnSymbol("f")
	outer := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	fn.SetBody(outer)

	idx := intVar("i")
	loop := ir.NewBlockStmt(ir.Pos{}, ir.BlockParamFor)
	low := intVar("_low")
	low.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: 0}
	high := intVar("_high")
	high.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: 2}
	stride := intVar("_stride")
	stride.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: 1}
	loop.ParamFor = &ir.ParamForInfo{Index: idx, Low: low, High: high, Stride: stride}

	acc := intVar("acc")
	acc.IsParam = true
	loop.Append(moveCall(acc, ir.NewSymExpr(ir.Pos{}, idx)))
	outer.Append(loop)

	r := Fold(fn)
	if r.Unrolled != 1 {
		t.Fatalf("expected exactly one loop unrolled, got %d", r.Unrolled)
	}
	if outer.Body.Len() != 3 {
		t.Fatalf("expected 3 unrolled iterations, got %d statements", outer.Body.Len())
	}
	for s := outer.Body.Head(); s != nil; s = s.Next() {
		if _, ok := s.(*ir.BlockStmt); !ok {
			t.Fatalf("expected each unrolled iteration to be a plain block, got %T", s)
		}
	}
}

func TestUnrollParamForLeavesNonConstantBoundsAlone(t *testing.T) {
	fn := ir.NewFnSymbol("f")
	outer := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	fn.SetBody(outer)

	idx := intVar("i")
	loop := ir.NewBlockStmt(ir.Pos{}, ir.BlockParamFor)
	loop.ParamFor = &ir.ParamForInfo{Index: idx, Low: intVar("lo"), High: intVar("hi"), Stride: intVar("st")}
	outer.Append(loop)

	r := Fold(fn)
	if r.Unrolled != 0 {
		t.Fatalf("expected no unrolling when bounds are not constant immediates")
	}
	if outer.Body.Len() != 1 {
		t.Fatalf("expected the loop block to remain untouched")
	}
}
