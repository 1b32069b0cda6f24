package ir

// TypeFlag holds the special marker bits a TypeSymbol's wrapped type
// may carry (spec §3, "Types").
type TypeFlag uint32

const (
	FlagRef TypeFlag = 1 << iota
	FlagWide
	FlagWideClass
	FlagGeneric
	FlagTuple
	FlagStarTuple
	FlagIteratorClass
	FlagIteratorRecord
	FlagSync
	FlagSingle
	FlagDataClass
	FlagRuntimeType
)

func (f TypeFlag) Has(bit TypeFlag) bool { return f&bit != 0 }
func (f TypeFlag) With(bit TypeFlag) TypeFlag { return f | bit }
func (f TypeFlag) Without(bit TypeFlag) TypeFlag { return f &^ bit }

// FnFlag holds the marker bits a FnSymbol may carry. Several are set
// by passes rather than the front end: FnFlagPromotionWrapper,
// FnFlagDefaultWrapper, FnFlagOrderWrapper, and FnFlagCoercionWrapper
// are set by C7; FnFlagAutoII by C6's iterator instantiation;
// FnFlagInline is advisory to the emitter.
type FnFlag uint32

const (
	FnFlagExtern FnFlag = 1 << iota
	FnFlagInline
	FnFlagGeneric
	FnFlagIteratorFn
	FnFlagTypeConstructor
	FnFlagDefaultConstructor
	FnFlagMethod
	FnFlagModuleInit
	FnFlagNoParens
	FnFlagDefaultWrapper
	FnFlagOrderWrapper
	FnFlagCoercionWrapper
	FnFlagPromotionWrapper
	FnFlagAutoII
	FnFlagBeginBlockFn
	FnFlagCobeginBlockFn
	FnFlagCoforallBlockFn
	FnFlagOnBlockFn
	FnFlagOnBlockFnNonblocking
	FnFlagGPUOnBlockFn
	FnFlagDeprecated
	FnFlagInvisible // excluded from the visibility cache (spec §4.3)
)

func (f FnFlag) Has(bit FnFlag) bool      { return f&bit != 0 }
func (f FnFlag) With(bit FnFlag) FnFlag    { return f | bit }
func (f FnFlag) Without(bit FnFlag) FnFlag { return f &^ bit }

// DeprecatedFlag mirrors FnFlagDeprecated for non-function symbols
// (variables, type symbols) that may also be marked deprecated; kept
// distinct from FnFlag because most symbol kinds carry no other flags.
type DeprecatedFlag bool
