package lower

import "github.com/pgasc/midc/internal/ir"

// heapTypeCache memoizes the box type synthesized for a given element
// type, mirroring buildHeapType's static heapTypeMap in
// original_source/compiler/passes/parallel.cpp so that two captured
// variables of the same type share one box class.
var heapTypeCache = map[*ir.TypeSymbol]*ir.TypeSymbol{}

func heapBoxType(elem *ir.TypeSymbol) *ir.TypeSymbol {
	if elem == nil {
		return nil
	}
	if box, ok := heapTypeCache[elem]; ok {
		return box
	}
	cls := &ir.ClassLikeType{
		Kind:   ir.KindClass,
		Name:   "_heap_" + elem.Name(),
		Fields: []*ir.DefExpr{ir.NewDefExpr(ir.Pos{}, ir.NewVarSymbol("value", elem), nil, nil)},
	}
	box := ir.NewTypeSymbol(cls.Name, cls)
	heapTypeCache[elem] = box
	return box
}

// heapPromoteCaptured marks every local VarSymbol among captured that
// is declared in owner itself (as opposed to one of owner's formals,
// or a variable from an enclosing scope further out) for heap
// promotion: its address escapes into an asynchronous task's nested
// function, so its storage must outlive owner's own stack frame
// (spec §4.9 step 4). A variable already marked from an earlier
// (outer) construct is left alone.
func heapPromoteCaptured(owner *ir.FnSymbol, captured []ir.Symbol) {
	for _, sym := range captured {
		v, ok := sym.(*ir.VarSymbol)
		if !ok || v.HeapPromoted {
			continue
		}
		if !declaredIn(owner, v) {
			continue
		}
		v.HeapPromoted = true
		v.HeapType = heapBoxType(v.Type)
	}
}

// declaredIn reports whether v's DefExpr is reachable from owner's
// own body (not a formal, and not from some enclosing function).
func declaredIn(owner *ir.FnSymbol, v *ir.VarSymbol) bool {
	if owner.Body == nil || v.DefPoint() == nil {
		return false
	}
	found := false
	var visit func(e ir.Expr)
	visit = func(e ir.Expr) {
		if found {
			return
		}
		if d, ok := e.(*ir.DefExpr); ok && d.Sym == ir.Symbol(v) {
			found = true
			return
		}
		for _, c := range ir.Children(e) {
			visit(c)
		}
	}
	visit(owner.Body)
	return found
}
