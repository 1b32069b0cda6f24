package ir

// SymMap records old-symbol -> new-symbol correspondences built up
// while Copy-ing a subtree, so that SymExpr references inside the
// copy can be rewritten to point at the copies of their targets
// rather than the originals (P3: copy-isolation).
type SymMap struct {
	m map[Symbol]Symbol
}

// NewSymMap returns an empty substitution map.
func NewSymMap() *SymMap { return &SymMap{m: make(map[Symbol]Symbol)} }

// Put records that old now corresponds to new.
func (sm *SymMap) Put(old, new Symbol) { sm.m[old] = new }

// Get returns the substitution for old, or old itself if none was
// recorded (references outside the copied subtree are left alone).
func (sm *SymMap) Get(old Symbol) Symbol {
	if new, ok := sm.m[old]; ok {
		return new
	}
	return old
}

// Expr is the interface implemented by every expression variant.
type Expr interface {
	Node
	exprNode()

	Prev() Expr
	Next() Expr
	SetPrev(Expr)
	SetNext(Expr)
	List() *ExprList
	SetList(*ExprList)

	ParentExpr() Expr
	SetParentExpr(Expr)
	ParentSymbol() Symbol
	SetParentSymbol(Symbol)

	// ReplaceChild updates the named (non-list) child slot currently
	// holding old to new, returning false if old does not occupy a
	// named slot of this expression.
	ReplaceChild(old, new Expr) bool

	// Copy returns a structural deep copy. Every DefExpr in the copy
	// owns a freshly identified Symbol; m records old->new so that
	// sibling SymExprs referencing a symbol defined elsewhere in the
	// same copied subtree are rewritten consistently.
	Copy(m *SymMap) Expr
}

// BaseExpr carries the fields common to every expression variant:
// identity, location, sibling-list membership, and parent links.
// Concrete variants embed BaseExpr and get Node/Expr plumbing for
// free, implementing only String, ReplaceChild, and Copy themselves.
type BaseExpr struct {
	id           int64
	pos          Pos
	tag          Tag
	prev, next   Expr
	list         *ExprList
	parentExpr   Expr
	parentSymbol Symbol
}

func newBaseExpr(tag Tag, pos Pos) BaseExpr {
	return BaseExpr{id: newID(), pos: pos, tag: tag}
}

func (b *BaseExpr) ID() int64             { return b.id }
func (b *BaseExpr) Pos() Pos              { return b.pos }
func (b *BaseExpr) Tag() Tag              { return b.tag }
func (b *BaseExpr) exprNode()             {}
func (b *BaseExpr) Prev() Expr            { return b.prev }
func (b *BaseExpr) Next() Expr            { return b.next }
func (b *BaseExpr) SetPrev(e Expr)        { b.prev = e }
func (b *BaseExpr) SetNext(e Expr)        { b.next = e }
func (b *BaseExpr) List() *ExprList       { return b.list }
func (b *BaseExpr) SetList(l *ExprList)   { b.list = l }
func (b *BaseExpr) ParentExpr() Expr      { return b.parentExpr }
func (b *BaseExpr) SetParentExpr(e Expr)  { b.parentExpr = e }
func (b *BaseExpr) ParentSymbol() Symbol  { return b.parentSymbol }
func (b *BaseExpr) SetParentSymbol(s Symbol) { b.parentSymbol = s }

// ---------------------------------------------------------------------------
// Symbol reference: names a defined symbol by pointer (non-owning).
// ---------------------------------------------------------------------------

type SymExpr struct {
	BaseExpr
	Sym Symbol
}

func NewSymExpr(pos Pos, sym Symbol) *SymExpr {
	return &SymExpr{BaseExpr: newBaseExpr(TagSymExpr, pos), Sym: sym}
}

func (e *SymExpr) String() string {
	if e.Sym == nil {
		return "<nil-sym>"
	}
	return e.Sym.Name()
}

func (e *SymExpr) ReplaceChild(old, new Expr) bool { return false }

func (e *SymExpr) Copy(m *SymMap) Expr {
	return NewSymExpr(e.pos, m.Get(e.Sym))
}

// ---------------------------------------------------------------------------
// Unresolved reference: a name not yet bound to a symbol. The name is
// a plain string, not an intern.Name; lookups intern it on demand.
// ---------------------------------------------------------------------------

type UnresolvedSymExpr struct {
	BaseExpr
	Name string
}

func NewUnresolvedSymExpr(pos Pos, name string) *UnresolvedSymExpr {
	return &UnresolvedSymExpr{BaseExpr: newBaseExpr(TagUnresolvedSymExpr, pos), Name: name}
}

func (e *UnresolvedSymExpr) String() string                   { return e.Name }
func (e *UnresolvedSymExpr) ReplaceChild(old, new Expr) bool   { return false }
func (e *UnresolvedSymExpr) Copy(m *SymMap) Expr {
	return NewUnresolvedSymExpr(e.pos, e.Name)
}

// ---------------------------------------------------------------------------
// Definition: owns its defined symbol; optional initializer and type.
// ---------------------------------------------------------------------------

type DefExpr struct {
	BaseExpr
	Sym  Symbol
	Init Expr // optional
	Type Expr // optional, a type expression (typically a SymExpr naming a TypeSymbol)
}

func NewDefExpr(pos Pos, sym Symbol, init, typ Expr) *DefExpr {
	d := &DefExpr{BaseExpr: newBaseExpr(TagDefExpr, pos), Sym: sym, Init: init, Type: typ}
	if sym != nil {
		sym.setDefPoint(d)
	}
	adopt(d, init)
	adopt(d, typ)
	return d
}

func (e *DefExpr) String() string {
	if e.Sym == nil {
		return "<def>"
	}
	return "def " + e.Sym.Name()
}

func (e *DefExpr) ReplaceChild(old, new Expr) bool {
	switch old {
	case e.Init:
		e.Init = new
	case e.Type:
		e.Type = new
	default:
		return false
	}
	return true
}

func (e *DefExpr) Copy(m *SymMap) Expr {
	newSym := copySymbol(e.Sym, m)
	var init, typ Expr
	if e.Init != nil {
		init = e.Init.Copy(m)
	}
	if e.Type != nil {
		typ = e.Type.Copy(m)
	}
	return NewDefExpr(e.pos, newSym, init, typ)
}

// ---------------------------------------------------------------------------
// Call: a primitive operation or a to-be-resolved base expression,
// applied to an ordered list of actual arguments.
// ---------------------------------------------------------------------------

// DispatchKind records how C8 decided to implement a resolved virtual
// call; the emitter (C12) reads this rather than re-deciding it.
type DispatchKind uint8

const (
	DispatchStatic DispatchKind = iota
	DispatchClassIDChain
	DispatchVTable
)

type CallExpr struct {
	BaseExpr
	PrimitiveTag int // 0 if this call names a base expression instead
	Base         Expr
	Actuals      *ExprList
	Partial      bool // method-partial
	MethodTag    bool // method call in source
	Square       bool // bracket call (indexing syntax)
	Dispatch     DispatchKind
}

func NewCallExpr(pos Pos, base Expr, actuals ...Expr) *CallExpr {
	c := &CallExpr{BaseExpr: newBaseExpr(TagCallExpr, pos), Actuals: &ExprList{}}
	c.Base = base
	adopt(c, base)
	for _, a := range actuals {
		c.AppendActual(a)
	}
	return c
}

// NewPrimitiveCall builds a call naming a primitive operation rather
// than a base expression (invariant 7: primitive calls have no base).
func NewPrimitiveCall(pos Pos, primTag int, actuals ...Expr) *CallExpr {
	c := &CallExpr{BaseExpr: newBaseExpr(TagCallExpr, pos), PrimitiveTag: primTag, Actuals: &ExprList{}}
	for _, a := range actuals {
		c.AppendActual(a)
	}
	return c
}

func (e *CallExpr) IsPrimitive() bool { return e.PrimitiveTag != 0 }

// AppendActual links a into this call's actual-argument list,
// maintaining invariant 3 (each actual's parentExpr equals the call).
func (e *CallExpr) AppendActual(a Expr) {
	e.Actuals.append(a)
	setSubtreeParents(a, e, e.ParentSymbol())
}

func (e *CallExpr) String() string {
	if e.Base != nil {
		return e.Base.String() + "(...)"
	}
	return "primitive(...)"
}

func (e *CallExpr) ReplaceChild(old, new Expr) bool {
	if old == e.Base {
		e.Base = new
		return true
	}
	return false
}

func (e *CallExpr) Copy(m *SymMap) Expr {
	var base Expr
	if e.Base != nil {
		base = e.Base.Copy(m)
	}
	var actuals []Expr
	for a := e.Actuals.Head(); a != nil; a = a.Next() {
		actuals = append(actuals, a.Copy(m))
	}
	var nc *CallExpr
	if e.IsPrimitive() {
		nc = NewPrimitiveCall(e.pos, e.PrimitiveTag, actuals...)
	} else {
		nc = NewCallExpr(e.pos, base, actuals...)
	}
	nc.Partial = e.Partial
	nc.MethodTag = e.MethodTag
	nc.Square = e.Square
	return nc
}

// ---------------------------------------------------------------------------
// Named actual: wraps an actual argument with a parameter name, for
// keyword-style passing.
// ---------------------------------------------------------------------------

type NamedExpr struct {
	BaseExpr
	ParamName string
	Actual    Expr
}

func NewNamedExpr(pos Pos, paramName string, actual Expr) *NamedExpr {
	n := &NamedExpr{BaseExpr: newBaseExpr(TagNamedExpr, pos), ParamName: paramName, Actual: actual}
	adopt(n, actual)
	return n
}

func (e *NamedExpr) String() string { return e.ParamName + " = " + e.Actual.String() }

func (e *NamedExpr) ReplaceChild(old, new Expr) bool {
	if old == e.Actual {
		e.Actual = new
		return true
	}
	return false
}

func (e *NamedExpr) Copy(m *SymMap) Expr {
	return NewNamedExpr(e.pos, e.ParamName, e.Actual.Copy(m))
}

// ---------------------------------------------------------------------------
// Block: an ordered list of child expressions plus an optional
// block-info call tagging the block as loop/parallel/scopeless/type.
// ---------------------------------------------------------------------------

// BlockTag classifies what kind of construct a BlockStmt represents.
type BlockTag uint8

const (
	BlockPlain BlockTag = iota
	BlockScopeless
	BlockTypeBlock
	BlockWhileDo
	BlockDoWhile
	BlockFor
	BlockParamFor
	BlockBegin
	BlockCobegin
	BlockCoforall
	BlockOn
	BlockOnNonblocking
	BlockGPUOn
	BlockLocal
	BlockAtomic
)

func (t BlockTag) IsParallel() bool {
	switch t {
	case BlockBegin, BlockCobegin, BlockCoforall, BlockOn, BlockOnNonblocking, BlockGPUOn:
		return true
	}
	return false
}

func (t BlockTag) IsLoop() bool {
	switch t {
	case BlockWhileDo, BlockDoWhile, BlockFor, BlockParamFor:
		return true
	}
	return false
}

type BlockStmt struct {
	BaseExpr
	BlockInfo BlockTag
	Body      *ExprList

	// Uses records this block's own "use module" clauses (as opposed
	// to a ModuleSymbol's top-level Uses), so a nested block can widen
	// visibility without requiring a child module (spec §4.3).
	Uses []*ModuleSymbol

	// ParamFor carries the index symbol and compile-time bounds/stride
	// of a BlockParamFor loop (spec §4.8, C9 unrolling), mirroring the
	// PRIM_BLOCK_PARAM_LOOP call's actuals in original_source; nil for
	// every other block tag.
	ParamFor *ParamForInfo
}

// ParamForInfo is the per-loop data a param-for BlockStmt carries:
// the loop index variable and the VarSymbols holding its low, high,
// and stride immediates. C9 unrolls the loop only when Low/High/
// Stride all carry a valid compile-time Immediate.
type ParamForInfo struct {
	Index  *VarSymbol
	Low    *VarSymbol
	High   *VarSymbol
	Stride *VarSymbol
}

func NewBlockStmt(pos Pos, info BlockTag, body ...Expr) *BlockStmt {
	b := &BlockStmt{BaseExpr: newBaseExpr(TagBlockStmt, pos), BlockInfo: info, Body: &ExprList{}}
	for _, s := range body {
		b.Append(s)
	}
	return b
}

// AddUse records that this block uses mod, making mod's top-level
// symbols visible from within the block.
func (e *BlockStmt) AddUse(mod *ModuleSymbol) {
	e.Uses = append(e.Uses, mod)
}

// Append links s onto the end of the block's body. Per invariant 1,
// parentExpr is nil only for the single node directly owned by a
// Symbol (a function or module body); every statement inside a block
// has parentExpr pointing back at that block.
func (e *BlockStmt) Append(s Expr) {
	e.Body.append(s)
	setSubtreeParents(s, e, e.ParentSymbol())
}

func (e *BlockStmt) String() string { return "{ ... }" }

func (e *BlockStmt) ReplaceChild(old, new Expr) bool { return false }

func (e *BlockStmt) Copy(m *SymMap) Expr {
	nb := NewBlockStmt(e.pos, e.BlockInfo)
	nb.Uses = append(nb.Uses, e.Uses...)
	if e.ParamFor != nil {
		nb.ParamFor = &ParamForInfo{
			Index:  symOrNil[*VarSymbol](m.Get(e.ParamFor.Index)),
			Low:    e.ParamFor.Low,
			High:   e.ParamFor.High,
			Stride: e.ParamFor.Stride,
		}
	}
	for s := e.Body.Head(); s != nil; s = s.Next() {
		nb.Append(s.Copy(m))
	}
	return nb
}

// symOrNil type-asserts sym to T, returning the zero value if sym is
// nil or not a T (used when a SymMap substitution may not have run
// yet, e.g. an index symbol not itself defined inside the copied
// subtree).
func symOrNil[T Symbol](sym Symbol) T {
	if v, ok := sym.(T); ok {
		return v
	}
	var zero T
	return zero
}

// ---------------------------------------------------------------------------
// Conditional: a condition expression and then/else blocks.
// ---------------------------------------------------------------------------

type CondStmt struct {
	BaseExpr
	Cond Expr
	Then *BlockStmt
	Else *BlockStmt // optional
}

func NewCondStmt(pos Pos, cond Expr, then, els *BlockStmt) *CondStmt {
	c := &CondStmt{BaseExpr: newBaseExpr(TagCondStmt, pos), Cond: cond, Then: then, Else: els}
	adopt(c, cond)
	adopt(c, then)
	if els != nil {
		adopt(c, els)
	}
	return c
}

func (e *CondStmt) String() string { return "if " + e.Cond.String() + " ..." }

func (e *CondStmt) ReplaceChild(old, new Expr) bool {
	if old == e.Cond {
		e.Cond = new
		return true
	}
	if e.Then != nil && old == Expr(e.Then) {
		nb, ok := new.(*BlockStmt)
		if !ok {
			return false
		}
		e.Then = nb
		return true
	}
	if e.Else != nil && old == Expr(e.Else) {
		nb, ok := new.(*BlockStmt)
		if !ok {
			return false
		}
		e.Else = nb
		return true
	}
	return false
}

func (e *CondStmt) Copy(m *SymMap) Expr {
	var els *BlockStmt
	if e.Else != nil {
		els = e.Else.Copy(m).(*BlockStmt)
	}
	return NewCondStmt(e.pos, e.Cond.Copy(m), e.Then.Copy(m).(*BlockStmt), els)
}

// ---------------------------------------------------------------------------
// Goto: a tag (normal/break/continue/return) plus a label.
// ---------------------------------------------------------------------------

type GotoTag uint8

const (
	GotoNormal GotoTag = iota
	GotoBreak
	GotoContinue
	GotoReturn
)

type GotoStmt struct {
	BaseExpr
	Kind  GotoTag
	Label Expr // a SymExpr (LabelSymbol) or UnresolvedSymExpr, may be nil
}

func NewGotoStmt(pos Pos, kind GotoTag, label Expr) *GotoStmt {
	g := &GotoStmt{BaseExpr: newBaseExpr(TagGotoStmt, pos), Kind: kind, Label: label}
	if label != nil {
		adopt(g, label)
	}
	return g
}

func (e *GotoStmt) String() string {
	switch e.Kind {
	case GotoBreak:
		return "break"
	case GotoContinue:
		return "continue"
	case GotoReturn:
		return "return"
	default:
		return "goto"
	}
}

func (e *GotoStmt) ReplaceChild(old, new Expr) bool {
	if old == e.Label {
		e.Label = new
		return true
	}
	return false
}

func (e *GotoStmt) Copy(m *SymMap) Expr {
	var label Expr
	if e.Label != nil {
		label = e.Label.Copy(m)
	}
	return NewGotoStmt(e.pos, e.Kind, label)
}

// adopt sets child's parentExpr to owner and propagates owner's
// parentSymbol, used by constructors that own a single named-slot
// child (as opposed to a sibling-list member, which Append/append
// handle).
func adopt(owner, child Expr) {
	if child == nil {
		return
	}
	setSubtreeParents(child, owner, owner.ParentSymbol())
}
