package fold

import "github.com/pgasc/midc/internal/ir"

// tryUnrollParamFor unrolls blk in place when it is a param-for loop
// whose low/high/stride all carry a valid integer immediate,
// replacing it with one plain-block copy per iteration with the
// induction variable substituted by that iteration's constant value
// (spec §4.8, grounded on fold_param_for in
// original_source/compiler/resolution/functionResolution.cpp). It
// reports whether unrolling happened; blk is left untouched (and
// still in the tree) when its bounds are not yet known constants.
func tryUnrollParamFor(blk *ir.BlockStmt, r *Result) bool {
	pf := blk.ParamFor
	if pf == nil || pf.Index == nil || pf.Low == nil || pf.High == nil || pf.Stride == nil {
		return false
	}
	low, high, stride := pf.Low.Immediate, pf.High.Immediate, pf.Stride.Immediate
	if !low.Valid || !high.Valid || !stride.Valid {
		return false
	}
	if low.Kind != ir.ImmInt || high.Kind != ir.ImmInt || stride.Kind != ir.ImmInt {
		return false
	}
	if stride.Int == 0 {
		return false
	}

	var iterations []int64
	if stride.Int < 0 {
		for i := high.Int; i >= low.Int; i += stride.Int {
			iterations = append(iterations, i)
		}
	} else {
		for i := low.Int; i <= high.Int; i += stride.Int {
			iterations = append(iterations, i)
		}
	}

	cursor := ir.Expr(blk)
	for _, i := range iterations {
		sm := ir.NewSymMap()
		sm.Put(pf.Index, intImmediateVar(pf.Index.Name(), i))
		copy := copyIterationBody(blk, sm)
		if err := ir.InsertAfter(cursor, copy); err != nil {
			return false
		}
		cursor = copy
	}
	if err := ir.Remove(blk); err != nil {
		return false
	}
	r.Unrolled++
	return true
}

// copyIterationBody copies blk's statements into a fresh plain block,
// substituting symbols per sm; unlike BlockStmt.Copy it deliberately
// drops ParamFor (the result is one concrete iteration, not a loop).
func copyIterationBody(blk *ir.BlockStmt, sm *ir.SymMap) *ir.BlockStmt {
	nb := ir.NewBlockStmt(blk.Pos(), ir.BlockPlain)
	for s := blk.Body.Head(); s != nil; s = s.Next() {
		nb.Append(s.Copy(sm))
	}
	return nb
}

func intImmediateVar(name string, v int64) *ir.VarSymbol {
	vs := ir.NewVarSymbol(name, nil)
	vs.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: v}
	vs.IsParam = true
	return vs
}
