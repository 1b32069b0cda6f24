package resolve

import (
	"fmt"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

// buildEmptyWrapper allocates the shell every wrapper kind shares: same
// name as fn, invisible to the visibility cache, inlined, carrying fn's
// return tag/type unless fn is an iterator (whose "return type" is a
// var, not a type). instPoint records the block the wrapper was first
// requested from, so a later request for the identical wrapper can be
// satisfied without resolving the call site again.
func buildEmptyWrapper(fn *ir.FnSymbol, instPoint *ir.BlockStmt) *ir.FnSymbol {
	wrapper := ir.NewFnSymbol(fn.Name())
	wrapper.AddFlag(ir.FnFlagInvisible)
	wrapper.AddFlag(ir.FnFlagInline)
	if fn.HasFlag(ir.FnFlagNoParens) {
		wrapper.AddFlag(ir.FnFlagNoParens)
	}
	if fn.HasFlag(ir.FnFlagMethod) {
		wrapper.AddFlag(ir.FnFlagMethod)
	}
	if !fn.HasFlag(ir.FnFlagIteratorFn) {
		wrapper.RetTag = fn.RetTag
		wrapper.RetType = fn.RetType
	}
	wrapper.InstantiationPoint = instPoint
	return wrapper
}

// copyFormalForWrapper copies formal with blank intent, the convention
// every wrapper kind uses for its own formals regardless of the
// intent fn itself declared (spec §4.4 step 2, wrapper synthesis).
func copyFormalForWrapper(formal *ir.ArgSymbol) *ir.ArgSymbol {
	wf := ir.NewArgSymbol(formal.Name(), formal.Type, ir.IntentBlank)
	wf.IsVariadic = formal.IsVariadic
	wf.VariadicElem = formal.VariadicElem
	return wf
}

// appendWrappedCall appends call to body, routing the result through a
// temporary and a return unless fn returns void.
func appendWrappedCall(fn *ir.FnSymbol, body *ir.BlockStmt, call *ir.CallExpr) {
	if fn.RetType == nil || fn.RetType.Name() == "void" {
		body.Append(call)
		return
	}
	tmp := ir.NewVarSymbol("_wrap_ret", fn.RetType)
	body.Append(ir.NewDefExpr(ir.Pos{}, tmp, nil, nil))
	body.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, tmp), call))
	body.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Return), ir.NewSymExpr(ir.Pos{}, tmp)))
}

// insertWrappedCall installs a freshly built single-statement body on
// wrapper, the shape the order wrapper needs (no prelude statements
// ahead of the call itself).
func insertWrappedCall(fn, wrapper *ir.FnSymbol, call *ir.CallExpr) {
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	appendWrappedCall(fn, body, call)
	wrapper.SetBody(body)
}

// callOf builds the plain call to fn that every wrapper kind ends up
// making, one SymExpr actual per supplied formal, in order.
func callOf(fn *ir.FnSymbol, actuals ...*ir.ArgSymbol) *ir.CallExpr {
	call := ir.NewCallExpr(ir.Pos{}, ir.NewSymExpr(ir.Pos{}, fn))
	for _, a := range actuals {
		call.AppendActual(ir.NewSymExpr(ir.Pos{}, a))
	}
	return call
}

// ---------------------------------------------------------------------------
// wrapper cache: keyed on (fn, kind, substitution-fingerprint), mirrors
// the memoized shape of InstantiationCache in generics.go so repeated
// requests for the same wrapper at the same call shape return the one
// already built rather than duplicating it.
// ---------------------------------------------------------------------------

type wrapperKind uint8

const (
	wrapperDefault wrapperKind = iota
	wrapperOrder
	wrapperCoercion
	wrapperPromotion
)

type wrapperKey struct {
	fn   *ir.FnSymbol
	kind wrapperKind
	key  string
}

// WrapperCache memoizes synthesized wrappers so two calls requiring the
// identical default/order/coercion/promotion wrapper around the same
// function share one FnSymbol (spec §4.4 step 2).
type WrapperCache struct {
	byKey map[wrapperKey]*ir.FnSymbol
}

// NewWrapperCache returns an empty cache.
func NewWrapperCache() *WrapperCache {
	return &WrapperCache{byKey: make(map[wrapperKey]*ir.FnSymbol)}
}

func (c *WrapperCache) lookup(fn *ir.FnSymbol, kind wrapperKind, key string) (*ir.FnSymbol, bool) {
	w, ok := c.byKey[wrapperKey{fn, kind, key}]
	return w, ok
}

func (c *WrapperCache) store(fn *ir.FnSymbol, kind wrapperKind, key string, w *ir.FnSymbol) {
	c.byKey[wrapperKey{fn, kind, key}] = w
}

// ---------------------------------------------------------------------------
// default wrapper: omits formals bound by their default expression,
// supplying that default's value to fn in their place.
// ---------------------------------------------------------------------------

// BuildDefaultWrapper synthesizes the wrapper that lets a call which
// omitted defaulted formals still reach fn, which always wants every
// formal materialized. defaulted marks which of fn's formals were left
// to their default at this call site.
func BuildDefaultWrapper(cache *WrapperCache, fn *ir.FnSymbol, defaulted map[*ir.ArgSymbol]bool, instPoint *ir.BlockStmt) *ir.FnSymbol {
	key := defaultedKey(fn, defaulted)
	if w, ok := cache.lookup(fn, wrapperDefault, key); ok {
		return w
	}
	wrapper := buildEmptyWrapper(fn, instPoint)
	wrapper.AddFlag(ir.FnFlagDefaultWrapper)

	var callActuals []*ir.ArgSymbol
	for _, formal := range fn.Formals {
		if defaulted[formal] {
			defTmp := ir.NewVarSymbol("_default_"+formal.Name(), formal.Type)
			ensureBody(wrapper).Append(ir.NewDefExpr(ir.Pos{}, defTmp, formal.DefaultExpr, nil))
			callActuals = append(callActuals, ir.NewArgSymbol(defTmp.Name(), formal.Type, ir.IntentBlank))
			continue
		}
		wf := copyFormalForWrapper(formal)
		wrapper.Formals = append(wrapper.Formals, wf)
		callActuals = append(callActuals, wf)
	}
	appendWrappedCall(fn, ensureBody(wrapper), callOf(fn, callActuals...))
	cache.store(fn, wrapperDefault, key, wrapper)
	return wrapper
}

func defaultedKey(fn *ir.FnSymbol, defaulted map[*ir.ArgSymbol]bool) string {
	key := ""
	for _, f := range fn.Formals {
		if defaulted[f] {
			key += "1"
		} else {
			key += "0"
		}
	}
	return key
}

func ensureBody(fn *ir.FnSymbol) *ir.BlockStmt {
	if fn.Body == nil {
		fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	}
	return fn.Body
}

// ---------------------------------------------------------------------------
// order wrapper: a call supplied its named actuals in a different order
// than fn declares its formals; the wrapper accepts them in call order
// and forwards them to fn in declaration order.
// ---------------------------------------------------------------------------

// BuildOrderWrapper synthesizes the wrapper that accepts actuals in
// callOrder (a permutation of indices into fn.Formals, the order a
// particular call site supplied them) and forwards them to fn in
// fn.Formals' own order.
func BuildOrderWrapper(cache *WrapperCache, fn *ir.FnSymbol, callOrder []int, instPoint *ir.BlockStmt) *ir.FnSymbol {
	key := orderKey(callOrder)
	if w, ok := cache.lookup(fn, wrapperOrder, key); ok {
		return w
	}
	wrapper := buildEmptyWrapper(fn, instPoint)
	wrapper.AddFlag(ir.FnFlagOrderWrapper)

	wrapperFormals := make([]*ir.ArgSymbol, len(fn.Formals))
	for _, formalIdx := range callOrder {
		wf := copyFormalForWrapper(fn.Formals[formalIdx])
		wrapper.Formals = append(wrapper.Formals, wf)
		wrapperFormals[formalIdx] = wf
	}
	insertWrappedCall(fn, wrapper, callOf(fn, wrapperFormals...))
	cache.store(fn, wrapperOrder, key, wrapper)
	return wrapper
}

func orderKey(order []int) string {
	key := ""
	for _, i := range order {
		key += fmt.Sprintf("%d,", i)
	}
	return key
}

// ---------------------------------------------------------------------------
// coercion wrapper: one or more actuals need a cast inserted before fn
// sees them (e.g. int(32) actual reaching a real(64) formal).
// ---------------------------------------------------------------------------

// BuildCoercionWrapper synthesizes the wrapper that accepts actuals at
// their own (uncoerced) types and casts each formal index named in
// coerce to fn's declared formal type before calling fn.
func BuildCoercionWrapper(cache *WrapperCache, fn *ir.FnSymbol, coerce map[int]bool, instPoint *ir.BlockStmt) *ir.FnSymbol {
	key := defaultedKeyFromSet(fn, coerce)
	if w, ok := cache.lookup(fn, wrapperCoercion, key); ok {
		return w
	}
	wrapper := buildEmptyWrapper(fn, instPoint)
	wrapper.AddFlag(ir.FnFlagCoercionWrapper)
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)

	var callActuals []*ir.ArgSymbol
	for i, formal := range fn.Formals {
		wf := copyFormalForWrapper(formal)
		wrapper.Formals = append(wrapper.Formals, wf)
		if !coerce[i] {
			callActuals = append(callActuals, wf)
			continue
		}
		casted := ir.NewVarSymbol("_coerce_"+formal.Name(), formal.Type)
		body.Append(ir.NewDefExpr(ir.Pos{}, casted, nil, nil))
		castCall := ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Cast),
			ir.NewSymExpr(ir.Pos{}, formal.Type), ir.NewSymExpr(ir.Pos{}, wf))
		body.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, casted), castCall))
		callActuals = append(callActuals, ir.NewArgSymbol(casted.Name(), formal.Type, ir.IntentBlank))
	}

	appendWrappedCall(fn, body, callOf(fn, callActuals...))
	wrapper.SetBody(body)

	cache.store(fn, wrapperCoercion, key, wrapper)
	return wrapper
}

func defaultedKeyFromSet(fn *ir.FnSymbol, set map[int]bool) string {
	key := ""
	for i := range fn.Formals {
		if set[i] {
			key += "1"
		} else {
			key += "0"
		}
	}
	return key
}

// ---------------------------------------------------------------------------
// promotion wrapper: fn's formal at promoteIdx expects a scalar but the
// actual is an array-like type carrying ScalarPromotionType; the
// wrapper iterates the array's elements and calls fn once per element
// (spec §4.4 step 2, "promotes").
// ---------------------------------------------------------------------------

// BuildPromotionWrapper synthesizes the wrapper that drives fn across
// every element of the actual bound to formal promoteIdx, using the
// standalone iterator protocol (advance/hasMore/getValue) rather than
// inlining a loop body, so the same wrapper works regardless of what
// iterable produced the array-like actual.
func BuildPromotionWrapper(cache *WrapperCache, fn *ir.FnSymbol, promoteIdx int, instPoint *ir.BlockStmt) *ir.FnSymbol {
	key := fmt.Sprintf("p%d", promoteIdx)
	if w, ok := cache.lookup(fn, wrapperPromotion, key); ok {
		return w
	}
	wrapper := buildEmptyWrapper(fn, instPoint)
	wrapper.AddFlag(ir.FnFlagPromotionWrapper)
	wrapper.AddFlag(ir.FnFlagIteratorFn)

	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	promoted := fn.Formals[promoteIdx]
	elem := ir.NewVarSymbol("_promote_elem", promoted.Type)

	var callActuals []*ir.ArgSymbol
	for i, formal := range fn.Formals {
		wf := copyFormalForWrapper(formal)
		wrapper.Formals = append(wrapper.Formals, wf)
		if i == promoteIdx {
			callActuals = append(callActuals, ir.NewArgSymbol(elem.Name(), formal.Type, ir.IntentBlank))
		} else {
			callActuals = append(callActuals, wf)
		}
	}
	promotedFormal := wrapper.Formals[promoteIdx]

	getIter := ir.NewCallExpr(ir.Pos{}, ir.NewUnresolvedSymExpr(ir.Pos{}, IterGetIterator), ir.NewSymExpr(ir.Pos{}, promotedFormal))
	iterTmp := ir.NewVarSymbol("_promote_iter", nil)
	body.Append(ir.NewDefExpr(ir.Pos{}, iterTmp, nil, nil))
	body.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, iterTmp), getIter))
	body.Append(ir.NewDefExpr(ir.Pos{}, elem, nil, nil))

	loop := ir.NewBlockStmt(ir.Pos{}, ir.BlockWhileDo)
	more := ir.NewVarSymbol("_promote_more", nil)
	loop.Append(ir.NewDefExpr(ir.Pos{}, more, nil, nil))
	hasMore := ir.NewCallExpr(ir.Pos{}, ir.NewUnresolvedSymExpr(ir.Pos{}, IterHasMore), ir.NewSymExpr(ir.Pos{}, iterTmp))
	loop.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, more), hasMore))
	brk := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain, ir.NewGotoStmt(ir.Pos{}, ir.GotoBreak, nil))
	loop.Append(ir.NewCondStmt(ir.Pos{}, ir.NewSymExpr(ir.Pos{}, more), ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain), brk))

	getValue := ir.NewCallExpr(ir.Pos{}, ir.NewUnresolvedSymExpr(ir.Pos{}, IterGetValue), ir.NewSymExpr(ir.Pos{}, iterTmp))
	loop.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, elem), getValue))

	if fn.RetType != nil && fn.RetType.Name() != "void" {
		result := ir.NewVarSymbol("_promote_result", fn.RetType)
		loop.Append(ir.NewDefExpr(ir.Pos{}, result, nil, nil))
		loop.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Move), ir.NewSymExpr(ir.Pos{}, result), callOf(fn, callActuals...)))
		loop.Append(ir.NewPrimitiveCall(ir.Pos{}, int(primitive.Yield), ir.NewSymExpr(ir.Pos{}, result)))
	} else {
		loop.Append(callOf(fn, callActuals...))
	}
	loop.Append(ir.NewCallExpr(ir.Pos{}, ir.NewUnresolvedSymExpr(ir.Pos{}, IterAdvance), ir.NewSymExpr(ir.Pos{}, iterTmp)))
	body.Append(loop)
	wrapper.SetBody(body)

	cache.store(fn, wrapperPromotion, key, wrapper)
	return wrapper
}

// ---------------------------------------------------------------------------
// standalone iterator protocol: the fixed set of names the promotion
// wrapper above calls through.
// Kept as an unresolved-reference protocol rather than direct FnSymbol
// pointers because the concrete iterator class implementing them is
// synthesized per iterable type, later, by the iterator-to-class
// rewrite rather than by this package.
// ---------------------------------------------------------------------------

const (
	IterGetIterator = "_getIterator"
	IterAdvance     = "advance"
	IterHasMore     = "hasMore"
	IterGetValue    = "getValue"
	IterZip1        = "zip1"
	IterZip2        = "zip2"
	IterZip3        = "zip3"
	IterZip4        = "zip4"
)

// ZipName returns the standalone zip helper for n zippered iterables,
// or "" if n falls outside the fixed 1-4 arity the protocol supports
// (anything wider is rewritten to nested pairwise zips upstream).
func ZipName(n int) string {
	switch n {
	case 1:
		return IterZip1
	case 2:
		return IterZip2
	case 3:
		return IterZip3
	case 4:
		return IterZip4
	default:
		return ""
	}
}
