package lower

import (
	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

// WideSet records, for every class-like type that might cross a
// locale boundary, the wide-pair record type synthesized for it
// (spec §4.10 step 1: "a wide pair (locale-id, address)").
type WideSet struct {
	WideOf map[*ir.TypeSymbol]*ir.TypeSymbol
}

// Wide looks up t's synthesized wide type, if any.
func (w *WideSet) Wide(t *ir.TypeSymbol) (*ir.TypeSymbol, bool) {
	wt, ok := w.WideOf[t]
	return wt, ok
}

// CandidateWideTypes collects every class-like type reachable as the
// type of a module-scope (potentially multi-locale-visible) variable,
// or as the HeapType of a C10 heap-promoted local (a heap box an
// on-block's remote task may dereference from a locale other than the
// one that allocated it) — the two situations spec §4.10 names as
// needing a wide representation.
func CandidateWideTypes(p *ir.Program) []*ir.TypeSymbol {
	seen := map[*ir.TypeSymbol]bool{}
	var out []*ir.TypeSymbol
	add := func(t *ir.TypeSymbol) {
		if t == nil || seen[t] {
			return
		}
		if cl, ok := t.Type.(*ir.ClassLikeType); ok && cl.Kind == ir.KindClass {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, mod := range p.Modules {
		if mod.Block == nil {
			continue
		}
		for s := mod.Block.Body.Head(); s != nil; s = s.Next() {
			if d, ok := s.(*ir.DefExpr); ok {
				if v, ok := d.Sym.(*ir.VarSymbol); ok {
					add(v.Type)
				}
			}
		}
	}
	for _, fn := range p.Functions() {
		if fn.Body == nil {
			continue
		}
		ir.Visit(fn.Body, func(e ir.Expr) bool {
			if d, ok := e.(*ir.DefExpr); ok {
				if v, ok := d.Sym.(*ir.VarSymbol); ok && v.HeapPromoted {
					add(v.HeapType)
				}
			}
			return true
		})
	}
	return out
}

// BuildWideTypes synthesizes one wide-class type per candidate,
// reusing the existing ir.NewWideClassType constructor and flagging
// the result FlagWideClass so the emitter recognizes it.
func BuildWideTypes(candidates []*ir.TypeSymbol) *WideSet {
	ws := &WideSet{WideOf: make(map[*ir.TypeSymbol]*ir.TypeSymbol)}
	for _, t := range candidates {
		wideClass := ir.NewWideClassType(t)
		wideSym := ir.NewTypeSymbol(wideClass.Name, wideClass)
		wideSym.AddFlag(ir.FlagWideClass)
		ws.WideOf[t] = wideSym
	}
	return ws
}

// LowerWideProgram runs C11 end to end: collect candidates, build
// their wide types, then rewrite member-access primitives that touch
// a wide-typed value to their CHPL_WIDE_* counterparts, narrowing
// (leaving the access untouched but inserting a LocalCheck) inside
// any `local` block (spec §4.10 step 3).
func LowerWideProgram(p *ir.Program) *WideSet {
	ws := BuildWideTypes(CandidateWideTypes(p))
	for _, fn := range p.Functions() {
		if fn.Body == nil {
			continue
		}
		rewriteWideBlock(fn.Body, ws, false)
	}
	return ws
}

// rewriteWideBlock walks e, tracking whether the current position is
// inside a `local` block. A `local` block's own member accesses are
// left narrow (the original, non-wide primitive), and the block gets
// a single LocalCheck inserted at its head asserting everything
// inside it executes on one locale.
func rewriteWideBlock(e ir.Expr, ws *WideSet, local bool) int {
	if blk, ok := e.(*ir.BlockStmt); ok {
		inLocal := local || blk.BlockInfo == ir.BlockLocal
		if blk.BlockInfo == ir.BlockLocal {
			insertLocalCheck(blk)
		}
		count := 0
		for s := blk.Body.Head(); s != nil; s = s.Next() {
			count += rewriteWideBlock(s, ws, inLocal)
		}
		return count
	}
	count := 0
	for _, c := range ir.Children(e) {
		count += rewriteWideBlock(c, ws, local)
	}
	if call, ok := e.(*ir.CallExpr); ok && call.IsPrimitive() && !local {
		if rewriteWideCall(call, ws) {
			count++
		}
	}
	return count
}

// rewriteWideCall rewrites call's own primitive tag in place (the
// member-access shape is identical; only the operation differs at
// the emitter level) when its base operand has a wide-candidate type.
func rewriteWideCall(call *ir.CallExpr, ws *WideSet) bool {
	base := call.Actuals.Head()
	if base == nil {
		return false
	}
	if _, ok := wideBaseType(base, ws); !ok {
		return false
	}
	switch primitive.Tag(call.PrimitiveTag) {
	case primitive.GetMemberValue:
		call.PrimitiveTag = int(primitive.WideGet)
	case primitive.SetMember:
		call.PrimitiveTag = int(primitive.WidePut)
	case primitive.GetMember:
		call.PrimitiveTag = int(primitive.WideGetAddr)
	default:
		return false
	}
	return true
}

func wideBaseType(e ir.Expr, ws *WideSet) (*ir.TypeSymbol, bool) {
	se, ok := e.(*ir.SymExpr)
	if !ok {
		return nil, false
	}
	t := typeOf(se.Sym)
	if t == nil {
		return nil, false
	}
	return ws.Wide(t)
}

// insertLocalCheck inserts a single LocalCheck primitive call at
// blk's head, idempotent across repeated lowering passes.
func insertLocalCheck(blk *ir.BlockStmt) {
	if first := blk.Body.Head(); first != nil {
		if call, ok := first.(*ir.CallExpr); ok && call.PrimitiveTag == int(primitive.LocalCheck) {
			return
		}
	}
	check := ir.NewPrimitiveCall(blk.Pos(), int(primitive.LocalCheck))
	if first := blk.Body.Head(); first != nil {
		ir.InsertBefore(first, check)
		return
	}
	blk.Append(check)
}
