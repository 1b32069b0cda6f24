package lower

import (
	"fmt"
	"sync/atomic"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

var genCounter int64

func nextGenID() int64 { return atomic.AddInt64(&genCounter, 1) }

// Lowered records the three symbols C10 produces for one parallel
// block: the nested function holding the former block body, the
// bundle record type carrying its live-in variables, and the wrapper
// function that unpacks the bundle and calls the nested function
// (spec §4.9 steps 1-3).
type Lowered struct {
	Construct ir.BlockTag
	Nested    *ir.FnSymbol
	Wrapper   *ir.FnSymbol
	Bundle    *ir.TypeSymbol
}

// LowerParallelProgram finds every begin/cobegin/coforall/on/
// on-nonblocking/gpu-on block reachable from p's functions and
// rewrites each one in place, to a fixpoint (a nested function's own
// body may itself contain a further parallel block). New bundle/
// nested/wrapper symbols are installed at _Program scope, matching
// the original compiler's habit of inserting every pass-generated
// helper function into theProgram's own block regardless of which
// module the construct appeared in.
func LowerParallelProgram(p *ir.Program) []*Lowered {
	var out []*Lowered
	for pass := 0; pass < 8; pass++ {
		var progress bool
		for _, fn := range p.Functions() {
			for _, block := range parallelBlocksIn(fn) {
				out = append(out, lowerParallelBlock(fn, block, p.Main))
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	return out
}

// parallelBlocksIn returns every direct parallel BlockStmt reachable
// from fn's own body, not descending into one once found (its body
// becomes the nested function's body, lowered on a later pass once it
// is itself visited via p.Functions()).
func parallelBlocksIn(fn *ir.FnSymbol) []*ir.BlockStmt {
	if fn.Body == nil {
		return nil
	}
	var out []*ir.BlockStmt
	var visit func(e ir.Expr)
	visit = func(e ir.Expr) {
		if blk, ok := e.(*ir.BlockStmt); ok && blk.BlockInfo.IsParallel() {
			out = append(out, blk)
			return
		}
		for _, c := range ir.Children(e) {
			visit(c)
		}
	}
	visit(fn.Body)
	return out
}

func nestedFlagFor(kind ir.BlockTag) ir.FnFlag {
	switch kind {
	case ir.BlockBegin:
		return ir.FnFlagBeginBlockFn
	case ir.BlockCobegin:
		return ir.FnFlagCobeginBlockFn
	case ir.BlockCoforall:
		return ir.FnFlagCoforallBlockFn
	case ir.BlockOn:
		return ir.FnFlagOnBlockFn
	case ir.BlockOnNonblocking:
		return ir.FnFlagOnBlockFnNonblocking
	case ir.BlockGPUOn:
		return ir.FnFlagGPUOnBlockFn
	default:
		return 0
	}
}

func constructLabel(kind ir.BlockTag) string {
	switch kind {
	case ir.BlockBegin:
		return "begin"
	case ir.BlockCobegin:
		return "cobegin"
	case ir.BlockCoforall:
		return "coforall"
	case ir.BlockOn:
		return "on"
	case ir.BlockOnNonblocking:
		return "on_nb"
	case ir.BlockGPUOn:
		return "gpu_on"
	default:
		return "task"
	}
}

func isOnConstruct(kind ir.BlockTag) bool {
	return kind == ir.BlockOn || kind == ir.BlockOnNonblocking
}

// lowerParallelBlock performs the C10 rewrite of one parallel block:
// extraction into a flagged nested function, bundle-type synthesis
// (with the _dst_locale field for on-blocks and the _endCount field
// for every construct), a wrapper that unpacks the bundle and calls
// the nested function, heap promotion of every captured local declared
// in owner (so it survives past the construct's lifetime), and
// replacement of block with the dispatch
// call appropriate to its construct kind.
func lowerParallelBlock(owner *ir.FnSymbol, block *ir.BlockStmt, main *ir.ModuleSymbol) *Lowered {
	kind := block.BlockInfo
	label := constructLabel(kind)
	gen := nextGenID()
	pos := block.Pos()

	captured := freeVars(block)
	heapPromoteCaptured(owner, captured)

	sm := ir.NewSymMap()
	nested := ir.NewFnSymbol(fmt.Sprintf("_%s_fn_%d", label, gen))
	nested.AddFlag(nestedFlagFor(kind))
	nested.AddFlag(ir.FnFlagInvisible)
	for _, sym := range captured {
		formal := ir.NewArgSymbol(sym.Name(), typeOf(sym), ir.IntentRef)
		sm.Put(sym, formal)
		nested.Formals = append(nested.Formals, formal)
	}
	nestedBody := ir.NewBlockStmt(pos, ir.BlockPlain)
	for s := block.Body.Head(); s != nil; s = s.Next() {
		nestedBody.Append(s.Copy(sm))
	}
	nested.SetBody(nestedBody)

	fieldSyms := make([]*ir.VarSymbol, 0, len(captured))
	bundleFields := make([]*ir.DefExpr, 0, len(captured)+2)
	for _, sym := range captured {
		fs := ir.NewVarSymbol(sym.Name(), typeOf(sym))
		fieldSyms = append(fieldSyms, fs)
		bundleFields = append(bundleFields, ir.NewDefExpr(pos, fs, nil, nil))
	}
	var dstLocaleField *ir.VarSymbol
	if isOnConstruct(kind) {
		dstLocaleField = ir.NewVarSymbol("_dst_locale", nil)
		bundleFields = append(bundleFields, ir.NewDefExpr(pos, dstLocaleField, nil, nil))
	}
	endCountField := ir.NewVarSymbol("_endCount", nil)
	bundleFields = append(bundleFields, ir.NewDefExpr(pos, endCountField, nil, nil))

	bundleType := &ir.ClassLikeType{Kind: ir.KindClass, Name: fmt.Sprintf("_%s_bundle_%d", label, gen), Fields: bundleFields}
	bundleSym := ir.NewTypeSymbol(bundleType.Name, bundleType)

	wrapper := buildWrapper(pos, label, gen, bundleSym, fieldSyms, nested)

	main.Block.Append(ir.NewDefExpr(pos, bundleSym, nil, nil))
	main.Block.Append(ir.NewDefExpr(pos, nested, nil, nil))
	main.Block.Append(ir.NewDefExpr(pos, wrapper, nil, nil))

	dispatch := buildDispatchSite(pos, kind, bundleSym, fieldSyms, captured, dstLocaleField, endCountField, wrapper)
	ir.Replace(block, dispatch)

	return &Lowered{Construct: kind, Nested: nested, Wrapper: wrapper, Bundle: bundleSym}
}

// buildWrapper builds the unpack-and-call wrapper for one lowered
// construct: one local temp per bundle field, read via
// PRIM_GET_MEMBER_VALUE, then a single call to nested passing those
// temps by reference (spec §4.9 step 3).
func buildWrapper(pos ir.Pos, label string, gen int64, bundleSym *ir.TypeSymbol, fieldSyms []*ir.VarSymbol, nested *ir.FnSymbol) *ir.FnSymbol {
	wrapper := ir.NewFnSymbol(fmt.Sprintf("_%s_wrap_%d", label, gen))
	wrapper.AddFlag(ir.FnFlagInvisible)
	bundleArg := ir.NewArgSymbol("bundle", bundleSym, ir.IntentRef)
	wrapper.Formals = []*ir.ArgSymbol{bundleArg}

	body := ir.NewBlockStmt(pos, ir.BlockPlain)
	var actuals []ir.Expr
	for _, fs := range fieldSyms {
		tmp := ir.NewVarSymbol(fs.Name(), fs.Type)
		read := ir.NewPrimitiveCall(pos, int(primitive.GetMemberValue), ir.NewSymExpr(pos, bundleArg), ir.NewSymExpr(pos, fs))
		body.Append(ir.NewDefExpr(pos, tmp, read, nil))
		actuals = append(actuals, ir.NewSymExpr(pos, tmp))
	}
	body.Append(ir.NewCallExpr(pos, ir.NewSymExpr(pos, nested), actuals...))
	wrapper.SetBody(body)
	return wrapper
}

// buildDispatchSite replaces a lowered parallel block with the
// bundle-construction and task-dispatch sequence appropriate to its
// construct kind: a single enqueue for begin, an init/enqueue/wait/
// free sequence for cobegin and coforall (spec scopes the single
// nested function to one branch; a true multi-branch cobegin/
// coforall would enqueue once per branch/iteration), a remote fork
// for on/on-nonblocking (the nonblocking variant omits the wait), and
// a kernel launch for gpu-on.
func buildDispatchSite(pos ir.Pos, kind ir.BlockTag, bundleSym *ir.TypeSymbol, fieldSyms []*ir.VarSymbol, captured []ir.Symbol, dstLocaleField, endCountField *ir.VarSymbol, wrapper *ir.FnSymbol) *ir.BlockStmt {
	site := ir.NewBlockStmt(pos, ir.BlockPlain)

	bundleVar := ir.NewVarSymbol("_bundle", bundleSym)
	alloc := ir.NewPrimitiveCall(pos, int(primitive.ChplAlloc), ir.NewSymExpr(pos, bundleSym))
	site.Append(ir.NewDefExpr(pos, bundleVar, alloc, nil))

	for i, fs := range fieldSyms {
		set := ir.NewPrimitiveCall(pos, int(primitive.SetMember),
			ir.NewSymExpr(pos, bundleVar), ir.NewSymExpr(pos, fs), ir.NewSymExpr(pos, captured[i]))
		site.Append(set)
	}
	if dstLocaleField != nil {
		locale := ir.NewUnresolvedSymExpr(pos, "here")
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.SetMember), ir.NewSymExpr(pos, bundleVar), ir.NewSymExpr(pos, dstLocaleField), locale))
	}

	endCountVar := ir.NewVarSymbol("_endCount", nil)
	getEndCount := ir.NewPrimitiveCall(pos, int(primitive.GetEndCount))
	site.Append(ir.NewDefExpr(pos, endCountVar, getEndCount, nil))
	site.Append(ir.NewPrimitiveCall(pos, int(primitive.SetMember), ir.NewSymExpr(pos, bundleVar), ir.NewSymExpr(pos, endCountField), ir.NewSymExpr(pos, endCountVar)))

	wrapperRef := ir.NewSymExpr(pos, wrapper)
	bundleRef := ir.NewSymExpr(pos, bundleVar)

	switch kind {
	case ir.BlockBegin:
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.ProcessTaskList), ir.NewSymExpr(pos, endCountVar), wrapperRef, bundleRef))
	case ir.BlockCobegin, ir.BlockCoforall:
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.InitTaskList), ir.NewSymExpr(pos, endCountVar)))
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.ProcessTaskList), ir.NewSymExpr(pos, endCountVar), wrapperRef, bundleRef))
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.ExecuteTasksInList), ir.NewSymExpr(pos, endCountVar)))
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.FreeTaskList), ir.NewSymExpr(pos, endCountVar)))
	case ir.BlockOn:
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.Fork), wrapperRef, bundleRef))
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.ExecuteTasksInList), ir.NewSymExpr(pos, endCountVar)))
	case ir.BlockOnNonblocking:
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.Fork), wrapperRef, bundleRef))
	case ir.BlockGPUOn:
		site.Append(ir.NewPrimitiveCall(pos, int(primitive.GPULaunch), wrapperRef, bundleRef))
	}
	return site
}
