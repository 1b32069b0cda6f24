package ir

// Type is implemented by every concrete type representation a
// TypeSymbol can wrap: primitive, enumerated, or class-like
// (record/union/class).
type Type interface {
	TypeName() string
	IsClassLike() bool
}

// PrimitiveType is a built-in scalar type (int, real, bool, string, ...).
type PrimitiveType struct {
	Name string
	// Promotion is the scalar-promotion type associated with this
	// type for promotion purposes (spec glossary); nil for types that
	// cannot be promoted over (e.g. this primitive already is a
	// promotion target, such as int itself).
	Promotion *TypeSymbol
}

func (t *PrimitiveType) TypeName() string { return t.Name }
func (t *PrimitiveType) IsClassLike() bool { return false }

// EnumType is an enumerated type; its constants are EnumSymbols.
type EnumType struct {
	Name      string
	Constants []*EnumSymbol
}

func (t *EnumType) TypeName() string { return t.Name }
func (t *EnumType) IsClassLike() bool { return false }

// ClassLikeKind distinguishes record, union, and class.
type ClassLikeKind uint8

const (
	KindRecord ClassLikeKind = iota
	KindUnion
	KindClass
)

// ClassLikeType is a record, union, or class type: it owns a list of
// field definitions, parent-type expressions, a reference-type
// back-pointer, a default value symbol, default (value) constructor,
// default type-constructor, destructor, and ordered
// dispatch-children/dispatch-parents vectors (spec §3).
type ClassLikeType struct {
	Kind                   ClassLikeKind
	Name                   string
	Fields                 []*DefExpr
	ParentExprs            []Expr
	RefType                *TypeSymbol
	DefaultValue           *VarSymbol
	DefaultConstructor     *FnSymbol
	DefaultTypeConstructor *FnSymbol
	Destructor             *FnSymbol
	DispatchChildren       []*TypeSymbol
	DispatchParents        []*TypeSymbol

	// ScalarPromotionType is the element type used when an aggregate
	// value of this type is promoted over (spec glossary,
	// scalar-promotion type); nil for non-aggregate class-like types.
	ScalarPromotionType *TypeSymbol
}

func (t *ClassLikeType) TypeName() string  { return t.Name }
func (t *ClassLikeType) IsClassLike() bool { return true }

// AddDispatchChild records a subtype edge child -> t (t is a
// dispatch-parent of child).
func (t *ClassLikeType) AddDispatchChild(child *TypeSymbol) {
	t.DispatchChildren = append(t.DispatchChildren, child)
}

// AddDispatchParent records a subtype edge t -> parent.
func (t *ClassLikeType) AddDispatchParent(parent *TypeSymbol) {
	t.DispatchParents = append(t.DispatchParents, parent)
}

// NewWideClassType synthesizes the wide-class record type for a class
// type symbol: a two-field record {locale, addr} (spec §4.10, C11
// step 1). The caller installs the result as the RefType/wide pair on
// the original class's TypeSymbol.
func NewWideClassType(inner *TypeSymbol) *ClassLikeType {
	localeSym := NewVarSymbol("locale", nil)
	addrSym := NewVarSymbol("addr", nil)
	wide := &ClassLikeType{
		Kind: KindRecord,
		Name: "_wide_" + inner.Name(),
		Fields: []*DefExpr{
			NewDefExpr(Pos{}, localeSym, nil, nil),
			NewDefExpr(Pos{}, addrSym, nil, nil),
		},
	}
	return wide
}

// NewWideRefType synthesizes the wide-ref record type for a reference
// type symbol, structurally identical to a wide-class type.
func NewWideRefType(inner *TypeSymbol) *ClassLikeType {
	t := NewWideClassType(inner)
	t.Name = "_wide_ref_" + inner.Name()
	return t
}
