package ir

// Symbol is the interface implemented by every symbol variant:
// variable, argument, function, type symbol, module, label, and enum
// constant (spec §3, "Symbol variants").
type Symbol interface {
	Node
	symbolNode()

	Name() string
	DefPoint() *DefExpr
	setDefPoint(*DefExpr)
	InTree() bool

	Deprecated() bool
	SetDeprecated(bool)
}

// BaseSymbol carries the fields common to every symbol variant.
type BaseSymbol struct {
	id         int64
	pos        Pos
	tag        Tag
	name       string
	defPoint   *DefExpr
	deprecated bool
}

func newBaseSymbol(tag Tag, name string) BaseSymbol {
	return BaseSymbol{id: newID(), tag: tag, name: name}
}

func (b *BaseSymbol) ID() int64               { return b.id }
func (b *BaseSymbol) Pos() Pos                { return b.pos }
func (b *BaseSymbol) Tag() Tag                { return b.tag }
func (b *BaseSymbol) symbolNode()             {}
func (b *BaseSymbol) Name() string            { return b.name }
func (b *BaseSymbol) DefPoint() *DefExpr      { return b.defPoint }
func (b *BaseSymbol) setDefPoint(d *DefExpr)  { b.defPoint = d; b.pos = d.Pos() }
func (b *BaseSymbol) Deprecated() bool        { return b.deprecated }
func (b *BaseSymbol) SetDeprecated(v bool)    { b.deprecated = v }

// InTree reports whether this symbol's DefExpr is currently linked
// into the tree (invariant 6: a symbol's defPoint is in-tree iff the
// symbol is in-tree).
func (b *BaseSymbol) InTree() bool {
	if b.defPoint == nil {
		return false
	}
	return inTree(b.defPoint)
}

// ---------------------------------------------------------------------------
// Variable: storage or parameter (storage form; ArgSymbol is the
// parameter form used in formals lists).
// ---------------------------------------------------------------------------

// Immediate holds a compile-time constant value folded onto a
// VarSymbol by C9 (spec end-to-end scenario 1: "resolution
// substitutes x with the immediate 14").
type Immediate struct {
	Valid bool
	// exactly one of the following is meaningful, chosen by Kind
	Kind  ImmediateKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

type ImmediateKind uint8

const (
	ImmNone ImmediateKind = iota
	ImmInt
	ImmFloat
	ImmString
	ImmBool
)

type VarSymbol struct {
	BaseSymbol
	Type      *TypeSymbol
	Immediate Immediate
	IsConst   bool
	IsParam   bool // compile-time param variable (distinct from ArgSymbol's param intent)

	// HeapPromoted/HeapType record that C10's escape analysis moved
	// this variable's storage onto the heap because its address
	// escapes into an asynchronous task (spec §4.9 step 4); the
	// variable keeps its own identity and Type, and HeapType is the
	// single-field box class the emitter allocates/frees and
	// dereferences through instead of using a stack slot directly.
	HeapPromoted bool
	HeapType     *TypeSymbol
}

func NewVarSymbol(name string, typ *TypeSymbol) *VarSymbol {
	return &VarSymbol{BaseSymbol: newBaseSymbol(TagVarSymbol, name), Type: typ}
}

func (s *VarSymbol) String() string { return s.Name() }

func (s *VarSymbol) Copy(m *SymMap) Symbol {
	ns := NewVarSymbol(s.Name(), s.Type)
	ns.Immediate = s.Immediate
	ns.IsConst = s.IsConst
	ns.IsParam = s.IsParam
	ns.HeapPromoted = s.HeapPromoted
	ns.HeapType = s.HeapType
	m.Put(s, ns)
	return ns
}

// ---------------------------------------------------------------------------
// Argument: a function parameter, with a passing intent.
// ---------------------------------------------------------------------------

// Intent is a formal parameter's passing mode.
type Intent uint8

const (
	IntentBlank Intent = iota
	IntentConst
	IntentIn
	IntentOut
	IntentInout
	IntentRef
	IntentParam
	IntentType
)

func (i Intent) String() string {
	switch i {
	case IntentConst:
		return "const"
	case IntentIn:
		return "in"
	case IntentOut:
		return "out"
	case IntentInout:
		return "inout"
	case IntentRef:
		return "ref"
	case IntentParam:
		return "param"
	case IntentType:
		return "type"
	default:
		return ""
	}
}

type ArgSymbol struct {
	BaseSymbol
	Type         *TypeSymbol
	Intent       Intent
	DefaultExpr  Expr
	IsVariadic   bool // variable-count formal (spec §4.5)
	VariadicElem *TypeSymbol

	// InstantiatedFrom is the generic formal type this formal's
	// concrete Type was instantiated from (spec §4.5, component C6);
	// nil for a formal whose type was never generic.
	InstantiatedFrom *TypeSymbol
	// InstantiatedParam marks a param-intent formal bound to a
	// compile-time constant actual during this candidate's alignment,
	// read by disambiguation criterion (a) (spec §4.4 step 2).
	InstantiatedParam bool
}

func NewArgSymbol(name string, typ *TypeSymbol, intent Intent) *ArgSymbol {
	return &ArgSymbol{BaseSymbol: newBaseSymbol(TagArgSymbol, name), Type: typ, Intent: intent}
}

func (s *ArgSymbol) String() string { return s.Intent.String() + " " + s.Name() }

func (s *ArgSymbol) Copy(m *SymMap) Symbol {
	ns := NewArgSymbol(s.Name(), s.Type, s.Intent)
	ns.IsVariadic = s.IsVariadic
	ns.VariadicElem = s.VariadicElem
	ns.InstantiatedFrom = s.InstantiatedFrom
	ns.InstantiatedParam = s.InstantiatedParam
	if s.DefaultExpr != nil {
		ns.DefaultExpr = s.DefaultExpr.Copy(m)
	}
	m.Put(s, ns)
	return ns
}

// ---------------------------------------------------------------------------
// Function: formals + body + return type + return-tag + flags.
// ---------------------------------------------------------------------------

type ReturnTag uint8

const (
	ReturnValue ReturnTag = iota
	ReturnRef
	ReturnType
	ReturnParam
)

type FnSymbol struct {
	BaseSymbol
	Formals    []*ArgSymbol
	Body       *BlockStmt
	RetType    *TypeSymbol
	RetTag     ReturnTag
	Flags      FnFlag
	CalledBy   map[*FnSymbol]struct{}
	WhereClause Expr // optional

	// InstantiationOf/Substitution record that this FnSymbol is a
	// generic instantiation (spec §4.5); nil for non-instantiated
	// functions.
	InstantiationOf *FnSymbol
	Substitution    map[*ArgSymbol]Symbol
	// InstantiationPoint is the block this instantiation was first
	// requested from (spec glossary: instantiation point).
	InstantiationPoint *BlockStmt
}

func NewFnSymbol(name string) *FnSymbol {
	return &FnSymbol{BaseSymbol: newBaseSymbol(TagFnSymbol, name), CalledBy: make(map[*FnSymbol]struct{})}
}

func (s *FnSymbol) String() string { return "fn " + s.Name() }

func (s *FnSymbol) HasFlag(f FnFlag) bool { return s.Flags.Has(f) }
func (s *FnSymbol) AddFlag(f FnFlag)      { s.Flags = s.Flags.With(f) }
func (s *FnSymbol) RemoveFlag(f FnFlag)   { s.Flags = s.Flags.Without(f) }

// AddCaller records that caller invokes s, maintaining the calledBy
// set used by dead-function pruning and virtual-table construction.
func (s *FnSymbol) AddCaller(caller *FnSymbol) {
	if s.CalledBy == nil {
		s.CalledBy = make(map[*FnSymbol]struct{})
	}
	s.CalledBy[caller] = struct{}{}
}

func (s *FnSymbol) NumFormals() int { return len(s.Formals) }

// SetBody installs b as s's body, the one node per spec invariant 1
// whose parentExpr is nil (it is owned directly by the symbol).
func (s *FnSymbol) SetBody(b *BlockStmt) {
	s.Body = b
	if b != nil {
		setSubtreeParents(b, nil, s)
	}
}

func (s *FnSymbol) Copy(m *SymMap) Symbol {
	ns := NewFnSymbol(s.Name())
	ns.RetTag = s.RetTag
	ns.RetType = s.RetType
	ns.Flags = s.Flags
	ns.InstantiationOf = s.InstantiationOf
	for _, f := range s.Formals {
		nf := f.Copy(m).(*ArgSymbol)
		ns.Formals = append(ns.Formals, nf)
	}
	m.Put(s, ns)
	if s.WhereClause != nil {
		ns.WhereClause = s.WhereClause.Copy(m)
	}
	if s.Body != nil {
		ns.SetBody(s.Body.Copy(m).(*BlockStmt))
	}
	return ns
}

// ---------------------------------------------------------------------------
// Type symbol: wraps a Type.
// ---------------------------------------------------------------------------

type TypeSymbol struct {
	BaseSymbol
	Type  Type
	Flags TypeFlag

	// InstantiatedFrom is the generic TypeSymbol this one was
	// instantiated from (spec §4.5, component C6); nil for a
	// non-instantiated type.
	InstantiatedFrom *TypeSymbol
}

func NewTypeSymbol(name string, typ Type) *TypeSymbol {
	return &TypeSymbol{BaseSymbol: newBaseSymbol(TagTypeSymbol, name), Type: typ}
}

func (s *TypeSymbol) String() string { return "type " + s.Name() }

func (s *TypeSymbol) HasFlag(f TypeFlag) bool { return s.Flags.Has(f) }
func (s *TypeSymbol) AddFlag(f TypeFlag)      { s.Flags = s.Flags.With(f) }

func (s *TypeSymbol) Copy(m *SymMap) Symbol {
	ns := NewTypeSymbol(s.Name(), s.Type)
	ns.Flags = s.Flags
	ns.InstantiatedFrom = s.InstantiatedFrom
	m.Put(s, ns)
	return ns
}

// ---------------------------------------------------------------------------
// Module: a lexical scope corresponding to one translation unit.
// ---------------------------------------------------------------------------

type ModuleSymbol struct {
	BaseSymbol
	Block    *BlockStmt
	Internal bool // parsed from the standard library
	Uses     []*ModuleSymbol
}

func NewModuleSymbol(name string, internal bool) *ModuleSymbol {
	return &ModuleSymbol{BaseSymbol: newBaseSymbol(TagModuleSymbol, name), Internal: internal}
}

func (s *ModuleSymbol) String() string { return "module " + s.Name() }

// SetBlock installs b as s's top-level block, the node whose
// parentExpr is nil per invariant 1.
func (s *ModuleSymbol) SetBlock(b *BlockStmt) {
	s.Block = b
	if b != nil {
		setSubtreeParents(b, nil, s)
	}
}

func (s *ModuleSymbol) Copy(m *SymMap) Symbol {
	ns := NewModuleSymbol(s.Name(), s.Internal)
	m.Put(s, ns)
	if s.Block != nil {
		ns.SetBlock(s.Block.Copy(m).(*BlockStmt))
	}
	return ns
}

// ---------------------------------------------------------------------------
// Label: the target of a goto/break/continue.
// ---------------------------------------------------------------------------

type LabelSymbol struct {
	BaseSymbol
}

func NewLabelSymbol(name string) *LabelSymbol {
	return &LabelSymbol{BaseSymbol: newBaseSymbol(TagLabelSymbol, name)}
}

func (s *LabelSymbol) String() string { return "label " + s.Name() }

func (s *LabelSymbol) Copy(m *SymMap) Symbol {
	ns := NewLabelSymbol(s.Name())
	m.Put(s, ns)
	return ns
}

// ---------------------------------------------------------------------------
// Enum constant.
// ---------------------------------------------------------------------------

type EnumSymbol struct {
	BaseSymbol
	Owner *EnumType
	Ord   int
}

func NewEnumSymbol(name string, ord int) *EnumSymbol {
	return &EnumSymbol{BaseSymbol: newBaseSymbol(TagEnumSymbol, name), Ord: ord}
}

func (s *EnumSymbol) String() string { return s.Name() }

func (s *EnumSymbol) Copy(m *SymMap) Symbol {
	ns := NewEnumSymbol(s.Name(), s.Ord)
	ns.Owner = s.Owner
	m.Put(s, ns)
	return ns
}

// copySymbol dispatches to the concrete variant's Copy method,
// returning the substituted symbol straight from m if it was already
// copied (e.g. a formal referenced by both the body and a where-clause).
func copySymbol(s Symbol, m *SymMap) Symbol {
	if s == nil {
		return nil
	}
	if existing, ok := m.m[s]; ok {
		return existing
	}
	switch v := s.(type) {
	case *VarSymbol:
		return v.Copy(m)
	case *ArgSymbol:
		return v.Copy(m)
	case *FnSymbol:
		return v.Copy(m)
	case *TypeSymbol:
		return v.Copy(m)
	case *ModuleSymbol:
		return v.Copy(m)
	case *LabelSymbol:
		return v.Copy(m)
	case *EnumSymbol:
		return v.Copy(m)
	default:
		return s
	}
}
