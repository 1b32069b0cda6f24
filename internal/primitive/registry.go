// Package primitive implements the named and tagged intrinsic operator
// registry (spec §4.2, component C3): a process-scoped table of
// primitives, each with a textual name for the emitter, a return-type
// oracle, and essential/pass-lineno/atomic-safe flags.
package primitive

import (
	"fmt"

	"github.com/pgasc/midc/internal/ir"
)

// Tag identifies one primitive operation.
type Tag int

const (
	Unknown Tag = iota

	Move
	Init
	Return
	Yield

	UnaryMinus
	UnaryPlus
	UnaryNot
	UnaryLNot
	Add
	Subtract
	Mult
	Div
	Mod
	LShift
	RShift
	Equal
	NotEqual
	LessOrEqual
	GreaterOrEqual
	Less
	Greater
	BitAnd
	BitOr
	BitXor
	Pow

	SetCID
	GetCID
	GetMember
	GetMemberValue
	SetMember
	New
	Cast
	DynamicCast
	TypeOf
	TypeToString
	IsSubtype
	IsStarTupleType

	GetRef
	SetRef
	InitRef

	WideGet
	WidePut
	WideGetLocale
	WideGetAddr
	WideMakeWide
	WideClassGetCID
	LocalCheck

	ArrayAlloc
	ArrayFree
	ArrayGet
	ArraySet

	SyncInit
	SyncDestroy
	SyncLock
	SyncUnlock
	SyncWaitFull
	SyncWaitEmpty
	SyncSignalFull
	SyncSignalEmpty
	SingleInit
	SingleDestroy
	SingleLock
	SingleUnlock
	SingleWaitFull
	SingleSignalFull

	GetEndCount
	SetEndCount
	InitTaskList
	ProcessTaskList
	ExecuteTasksInList
	FreeTaskList

	ChplAlloc
	ChplFree
	HeapRegister

	StringConcat
	StringLength
	StringIndex

	TxBegin
	TxCommit
	TxArraySet

	Fork
	GPULaunch
)

// ReturnOracle computes the result type of a call to this primitive.
// Oracles never mutate the call; they are pure functions of its
// actuals' types.
type ReturnOracle func(call *ir.CallExpr) (ir.Type, error)

// Entry is one primitive registration.
type Entry struct {
	Tag        Tag
	Name       string
	Oracle     ReturnOracle
	Essential  bool // side-effecting: cannot be dead-code-eliminated
	PassLineno bool // emitter appends source location to the call
	AtomicSafe bool // permitted inside an atomic block
}

var (
	byTag  = map[Tag]*Entry{}
	byName = map[string]Tag{}
)

func def(tag Tag, name string, oracle ReturnOracle, essential, passLineno, atomicSafe bool) {
	e := &Entry{Tag: tag, Name: name, Oracle: oracle, Essential: essential, PassLineno: passLineno, AtomicSafe: atomicSafe}
	byTag[tag] = e
	byName[name] = tag
}

func init() {
	def(Unknown, "<unknown>", returnInfoVoid, false, false, false)

	def(Move, "move", returnInfoVoid, true, false, true)
	def(Init, "init", returnInfoFirstDeref, false, false, false)
	def(Return, "return", returnInfoFirst, true, false, false)
	def(Yield, "yield", returnInfoFirst, true, false, false)

	def(UnaryMinus, "u-", returnInfoFirst, false, false, true)
	def(UnaryPlus, "u+", returnInfoFirst, false, false, true)
	def(UnaryNot, "u~", returnInfoFirst, false, false, true)
	def(UnaryLNot, "!", returnInfoBool, false, false, true)
	def(Add, "+", returnInfoNumericUp, false, false, true)
	def(Subtract, "-", returnInfoNumericUp, false, false, true)
	def(Mult, "*", returnInfoNumericUp, false, false, true)
	def(Div, "/", returnInfoNumericUp, true, false, true) // div-by-zero is observable
	def(Mod, "%", returnInfoFirst, false, false, true)
	def(LShift, "<<", returnInfoFirst, false, false, true)
	def(RShift, ">>", returnInfoFirst, false, false, true)
	def(Equal, "==", returnInfoBool, false, false, true)
	def(NotEqual, "!=", returnInfoBool, false, false, true)
	def(LessOrEqual, "<=", returnInfoBool, false, false, true)
	def(GreaterOrEqual, ">=", returnInfoBool, false, false, true)
	def(Less, "<", returnInfoBool, false, false, true)
	def(Greater, ">", returnInfoBool, false, false, true)
	def(BitAnd, "&", returnInfoFirst, false, false, true)
	def(BitOr, "|", returnInfoFirst, false, false, true)
	def(BitXor, "^", returnInfoFirst, false, false, true)
	def(Pow, "**", returnInfoNumericUp, false, false, true)

	def(SetCID, "setcid", returnInfoVoid, true, true, false)
	def(GetCID, "getcid", returnInfoBool, false, true, false)
	def(GetMember, ".", returnInfoGetMemberRef, false, false, true)
	def(GetMemberValue, ".v", returnInfoGetMember, false, true, true)
	def(SetMember, ".=", returnInfoVoid, true, true, true)
	def(New, "new", returnInfoFirst, false, false, false)
	def(Cast, "cast", returnInfoCast, false, true, false)
	def(DynamicCast, "dynamic_cast", returnInfoCast, false, true, false)
	def(TypeOf, "typeof", returnInfoFirstDeref, false, false, false)
	def(TypeToString, "typeToString", returnInfoString, false, false, false)
	def(IsSubtype, "is_subtype", returnInfoBool, false, false, false)
	def(IsStarTupleType, "is_star_tuple_type", returnInfoBool, false, false, false)

	def(GetRef, "get ref", returnInfoVal, false, true, false)
	def(SetRef, "set ref", returnInfoRef, false, false, false)
	def(InitRef, "init ref", returnInfoVoid, true, false, false)

	def(WideGet, "CHPL_WIDE_GET", returnInfoVal, false, true, false)
	def(WidePut, "CHPL_WIDE_PUT", returnInfoVoid, true, true, false)
	def(WideGetLocale, "CHPL_WIDE_GET_LOCALE", returnInfoInt64, false, false, false)
	def(WideGetAddr, "CHPL_WIDE_GET_ADDR", returnInfoVal, false, false, false)
	def(WideMakeWide, "CHPL_WIDE_MAKE", returnInfoFirst, false, false, false)
	def(WideClassGetCID, "CHPL_WIDE_CLASS_GET_CID", returnInfoBool, false, true, false)
	def(LocalCheck, "CHPL_LOCAL_CHECK", returnInfoVoid, true, true, false)

	def(ArrayAlloc, "array_alloc", returnInfoVoid, true, true, false)
	def(ArrayFree, "array_free", returnInfoVoid, true, true, false)
	def(ArrayGet, "array_get", returnInfoArrayIndex, false, true, false)
	def(ArraySet, "array_set", returnInfoVoid, true, true, false)

	def(SyncInit, "init_sync_aux", returnInfoVoid, true, false, false)
	def(SyncDestroy, "destroy_sync_aux", returnInfoVoid, true, false, false)
	def(SyncLock, "sync_lock", returnInfoVoid, true, false, false)
	def(SyncUnlock, "sync_unlock", returnInfoVoid, true, false, false)
	def(SyncWaitFull, "sync_wait_full_and_lock", returnInfoVoid, true, true, false)
	def(SyncWaitEmpty, "sync_wait_empty_and_lock", returnInfoVoid, true, true, false)
	def(SyncSignalFull, "sync_mark_and_signal_full", returnInfoVoid, true, false, false)
	def(SyncSignalEmpty, "sync_mark_and_signal_empty", returnInfoVoid, true, false, false)
	def(SingleInit, "init_single_aux", returnInfoVoid, true, false, false)
	def(SingleDestroy, "destroy_single_aux", returnInfoVoid, true, false, false)
	def(SingleLock, "single_lock", returnInfoVoid, true, false, false)
	def(SingleUnlock, "single_unlock", returnInfoVoid, true, false, false)
	def(SingleWaitFull, "single_wait_full", returnInfoVoid, true, true, false)
	def(SingleSignalFull, "single_mark_and_signal_full", returnInfoVoid, true, false, false)

	def(GetEndCount, "get_end_count", returnInfoFirst, false, false, false)
	def(SetEndCount, "set_end_count", returnInfoVoid, true, false, false)
	def(InitTaskList, "init_task_list", returnInfoVoid, false, false, false)
	def(ProcessTaskList, "process_task_list", returnInfoVoid, true, false, false)
	def(ExecuteTasksInList, "execute_tasks_in_list", returnInfoVoid, true, false, false)
	def(FreeTaskList, "free_task_list", returnInfoVoid, true, false, false)

	def(ChplAlloc, "chpl_alloc", returnInfoChplAlloc, true, true, false)
	def(ChplFree, "chpl_free", returnInfoVoid, true, true, false)
	def(HeapRegister, "chpl_heap_register", returnInfoVoid, true, true, false)

	def(StringConcat, "string_concat", returnInfoString, false, false, false)
	def(StringLength, "string_length", returnInfoInt64, false, false, false)
	def(StringIndex, "string_index", returnInfoString, false, true, false)

	def(TxBegin, "tx_begin", returnInfoVoid, true, true, true)
	def(TxCommit, "tx_commit", returnInfoVoid, true, true, true)
	def(TxArraySet, "tx_array_set", returnInfoVoid, true, true, true)

	// Fork dispatches an on-block's wrapper function onto a remote
	// locale; GPULaunch dispatches a gpu-on block's wrapper as a
	// kernel launch. Named after PRIM_ON_LOCALE_NUM/PRIM_ON_GPU
	// (original_source/compiler/AST/primitive.cpp) rather than the C
	// backend's own runtime call names, since this module stops at
	// the primitive-call IR level (spec §4.9, §4.11).
	def(Fork, "chpl_executeOn", returnInfoVoid, true, true, false)
	def(GPULaunch, "chpl_on_gpu", returnInfoVoid, true, true, false)
}

// Lookup returns the entry for tag.
func Lookup(tag Tag) (*Entry, bool) {
	e, ok := byTag[tag]
	return e, ok
}

// LookupName is the reverse mapping from textual name back to a tag,
// used by the AST loader to turn a primitive's name into its tag.
func LookupName(name string) (Tag, bool) {
	t, ok := byName[name]
	return t, ok
}

// ReturnType is the oracle contract: given a fully-formed call naming
// this primitive, compute its result type.
func ReturnType(tag Tag, call *ir.CallExpr) (ir.Type, error) {
	e, ok := byTag[tag]
	if !ok {
		return nil, fmt.Errorf("primitive: unknown tag %d", tag)
	}
	return e.Oracle(call)
}
