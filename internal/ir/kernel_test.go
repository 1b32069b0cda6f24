package ir

import "testing"

func newTestFn(name string) (*FnSymbol, *BlockStmt) {
	fn := NewFnSymbol(name)
	body := NewBlockStmt(Pos{}, BlockPlain)
	fn.SetBody(body)
	return fn, body
}

func TestAppendAndChildren(t *testing.T) {
	fn, body := newTestFn("f")
	x := NewVarSymbol("x", nil)
	def := NewDefExpr(Pos{}, x, nil, nil)
	body.Append(def)

	if def.ParentExpr() != Expr(body) {
		t.Fatalf("def.ParentExpr() = %v, want body", def.ParentExpr())
	}
	if def.ParentSymbol() != Symbol(fn) {
		t.Fatalf("def.ParentSymbol() = %v, want fn", def.ParentSymbol())
	}
	if body.ParentSymbol() != Symbol(fn) {
		t.Fatalf("body.ParentSymbol() = %v, want fn", body.ParentSymbol())
	}
	if body.ParentExpr() != nil {
		t.Fatalf("body.ParentExpr() = %v, want nil (direct child of a symbol)", body.ParentExpr())
	}
	if !InTree(def) {
		t.Fatalf("def should be in-tree once appended")
	}
}

func TestRemovePreservesSubtree(t *testing.T) {
	fn, body := newTestFn("f")
	x := NewVarSymbol("x", nil)
	def := NewDefExpr(Pos{}, x, nil, nil)
	body.Append(def)

	if err := Remove(def); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if InTree(def) {
		t.Fatalf("def should be out-of-tree after Remove")
	}
	if body.Body.Len() != 0 {
		t.Fatalf("body should be empty after Remove, got len=%d", body.Body.Len())
	}
	if def.Sym != Symbol(x) {
		t.Fatalf("Remove must not destroy the subtree: def.Sym = %v", def.Sym)
	}

	// Re-insertion must succeed since the subtree is intact.
	body.Append(def)
	if !InTree(def) {
		t.Fatalf("def should be in-tree again after re-append")
	}
	_ = fn
}

func TestReplaceSwapsListMember(t *testing.T) {
	_, body := newTestFn("f")
	x := NewVarSymbol("x", nil)
	y := NewVarSymbol("y", nil)
	defX := NewDefExpr(Pos{}, x, nil, nil)
	defY := NewDefExpr(Pos{}, y, nil, nil)
	body.Append(defX)

	if err := Replace(defX, defY); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if InTree(defX) {
		t.Fatalf("old node must be out-of-tree after Replace")
	}
	if !InTree(defY) {
		t.Fatalf("new node must be in-tree after Replace")
	}
	if body.Body.Head() != Expr(defY) {
		t.Fatalf("body head = %v, want defY", body.Body.Head())
	}
	if body.Body.Len() != 1 {
		t.Fatalf("body length = %d, want 1", body.Body.Len())
	}
}

func TestReplaceNamedSlot(t *testing.T) {
	_, body := newTestFn("f")
	x := NewVarSymbol("x", nil)
	def := NewDefExpr(Pos{}, x, nil, nil)
	body.Append(def)

	litSym := NewVarSymbol("_imm1", nil)
	litSym.Immediate = Immediate{Valid: true, Kind: ImmInt, Int: 1}
	init := NewSymExpr(Pos{}, litSym)

	// DefExpr has no current Init; a pass attaches one via the
	// ReplaceChild hook directly (Replace requires a non-nil old node
	// already occupying the slot, which is not the case here).
	if !def.ReplaceChild(nil, init) {
		t.Fatalf("ReplaceChild(nil, init) should succeed when Init is currently nil")
	}
	if def.Init != Expr(init) {
		t.Fatalf("def.Init = %v, want init", def.Init)
	}
}

func TestInsertBeforeAfter(t *testing.T) {
	_, body := newTestFn("f")
	a := NewDefExpr(Pos{}, NewVarSymbol("a", nil), nil, nil)
	c := NewDefExpr(Pos{}, NewVarSymbol("c", nil), nil, nil)
	body.Append(a)
	body.Append(c)

	b := NewDefExpr(Pos{}, NewVarSymbol("b", nil), nil, nil)
	if err := InsertAfter(a, b); err != nil {
		t.Fatalf("InsertAfter: %v", err)
	}

	got := body.Body.Slice()
	if len(got) != 3 || got[0] != Expr(a) || got[1] != Expr(b) || got[2] != Expr(c) {
		t.Fatalf("unexpected order after InsertAfter: %v", got)
	}

	d := NewDefExpr(Pos{}, NewVarSymbol("d", nil), nil, nil)
	if err := InsertBefore(c, d); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}
	got = body.Body.Slice()
	if len(got) != 4 || got[2] != Expr(d) || got[3] != Expr(c) {
		t.Fatalf("unexpected order after InsertBefore: %v", got)
	}
}

func TestCopyIsolation(t *testing.T) {
	fn, body := newTestFn("f")
	x := NewVarSymbol("x", nil)
	def := NewDefExpr(Pos{}, x, nil, nil)
	body.Append(def)
	ref := NewSymExpr(Pos{}, x)
	body.Append(NewCallExpr(Pos{}, nil, ref))

	cp := Copy(Expr(body)).(*BlockStmt)

	seen := map[int64]bool{}
	Visit(Expr(body), func(e Expr) bool { seen[e.ID()] = true; return true })
	Visit(Expr(cp), func(e Expr) bool {
		if seen[e.ID()] {
			t.Fatalf("copy shares identity %d with original (P3 violated)", e.ID())
		}
		return true
	})

	// The copied call's SymExpr must refer to the copied DefExpr's
	// symbol, not the original x.
	copiedDef := cp.Body.Head().(*DefExpr)
	copiedCall := cp.Body.Head().Next().(*CallExpr)
	copiedRef := copiedCall.Actuals.Head().(*SymExpr)
	if copiedRef.Sym != copiedDef.Sym {
		t.Fatalf("copy did not rewrite internal symbol references consistently")
	}
	_ = fn
}

func TestCheckInvariantsClean(t *testing.T) {
	_, body := newTestFn("f")
	x := NewVarSymbol("x", nil)
	body.Append(NewDefExpr(Pos{}, x, nil, nil))
	body.Append(NewCallExpr(Pos{}, nil, NewSymExpr(Pos{}, x)))

	if v := CheckInvariants(Expr(body), false); len(v) != 0 {
		t.Fatalf("unexpected violations: %v", v)
	}
}
