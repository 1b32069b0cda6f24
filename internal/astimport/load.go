// Package astimport ingests the normalized-AST JSON document the
// front end hands to the core (spec §6.1) and produces an ir.Program,
// and supports the reverse direction — dumping a program back out as
// JSON — for the CLI's --dump-ast and --json output. Field access
// goes through gjson
// (path-based, schema-decoupled) rather than a generated JSON struct,
// matching how the pack's own front-end payloads are handled.
package astimport

import (
	"fmt"
	"io"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
	"github.com/tidwall/gjson"
)

// scope is a chain of name->Symbol maps used while walking the
// document, since "sym" nodes reference an already-defined symbol by
// name rather than by direct pointer (JSON has no notion of identity).
type scope struct {
	parent *scope
	syms   map[string]ir.Symbol
}

func newScope(parent *scope) *scope { return &scope{parent: parent, syms: map[string]ir.Symbol{}} }

func (s *scope) define(name string, sym ir.Symbol) { s.syms[name] = sym }

func (s *scope) lookup(name string) (ir.Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.syms[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// typeTable memoizes one TypeSymbol per type name so two references
// to, say, "int(64)" resolve to the same symbol rather than two
// structurally-equal-but-distinct ones.
type typeTable struct {
	byName map[string]*ir.TypeSymbol
}

func newTypeTable() *typeTable { return &typeTable{byName: map[string]*ir.TypeSymbol{}} }

func (t *typeTable) get(name string) *ir.TypeSymbol {
	if name == "" {
		return nil
	}
	if ts, ok := t.byName[name]; ok {
		return ts
	}
	ts := ir.NewTypeSymbol(name, &ir.PrimitiveType{Name: name})
	t.byName[name] = ts
	return ts
}

// Load parses a normalized-AST JSON document into an ir.Program, one
// module at a time (spec §6.1).
func Load(r io.Reader) (*ir.Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("astimport: invalid JSON document")
	}
	doc := gjson.ParseBytes(data)

	modules := doc.Get("modules")
	if !modules.Exists() {
		return nil, fmt.Errorf("astimport: document has no \"modules\" array")
	}

	p := ir.NewProgram()
	types := newTypeTable()
	global := newScope(nil)

	var firstErr error
	modules.ForEach(func(_ /*index*/, modNode gjson.Result) bool {
		name := modNode.Get("name").String()
		internal := modNode.Get("internal").Bool()

		var mod *ir.ModuleSymbol
		if name == p.Main.Name() || name == "" {
			mod = p.Main
		} else {
			mod = ir.NewModuleSymbol(name, internal)
			p.AddModule(mod)
		}

		modScope := newScope(global)
		modNode.Get("body").ForEach(func(_, stmtNode gjson.Result) bool {
			stmt, err := buildStmt(stmtNode, modScope, types)
			if err != nil {
				firstErr = err
				return false
			}
			if stmt != nil {
				mod.Block.Append(stmt)
			}
			return true
		})
		return firstErr == nil
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return p, nil
}

var blockKinds = map[string]ir.BlockTag{
	"plain":          ir.BlockPlain,
	"scopeless":      ir.BlockScopeless,
	"type":           ir.BlockTypeBlock,
	"while_do":       ir.BlockWhileDo,
	"do_while":       ir.BlockDoWhile,
	"for":            ir.BlockFor,
	"param_for":      ir.BlockParamFor,
	"begin":          ir.BlockBegin,
	"cobegin":        ir.BlockCobegin,
	"coforall":       ir.BlockCoforall,
	"on":             ir.BlockOn,
	"on_nonblocking": ir.BlockOnNonblocking,
	"gpu_on":         ir.BlockGPUOn,
	"local":          ir.BlockLocal,
	"atomic":         ir.BlockAtomic,
}

var intents = map[string]ir.Intent{
	"":      ir.IntentBlank,
	"const": ir.IntentConst,
	"in":    ir.IntentIn,
	"out":   ir.IntentOut,
	"inout": ir.IntentInout,
	"ref":   ir.IntentRef,
	"param": ir.IntentParam,
	"type":  ir.IntentType,
}

func pos(node gjson.Result) ir.Pos {
	return ir.Pos{
		File:   node.Get("file").String(),
		Line:   int(node.Get("line").Int()),
		Column: int(node.Get("col").Int()),
	}
}

// buildStmt dispatches on node's "tag" field to construct one
// statement-level ir.Expr: a "def" (function/variable/type
// definition), a nested "block", or any expression tag used as a
// bare statement (a standalone call).
func buildStmt(node gjson.Result, sc *scope, types *typeTable) (ir.Expr, error) {
	switch node.Get("tag").String() {
	case "def":
		return buildDef(node, sc, types)
	case "block":
		return buildBlock(node, sc, types)
	default:
		return buildExpr(node, sc, types)
	}
}

func buildDef(node gjson.Result, sc *scope, types *typeTable) (ir.Expr, error) {
	kindNode := node.Get("sym")
	if !kindNode.Exists() {
		return nil, fmt.Errorf("astimport: \"def\" node missing \"sym\"")
	}
	switch kindNode.Get("tag").String() {
	case "fn":
		fn, err := buildFn(kindNode, sc, types)
		if err != nil {
			return nil, err
		}
		sc.define(fn.Name(), fn)
		return ir.NewDefExpr(pos(node), fn, nil, nil), nil
	case "var":
		v := buildVar(kindNode, types)
		sc.define(v.Name(), v)
		var init ir.Expr
		if initNode := kindNode.Get("init"); initNode.Exists() {
			e, err := buildExpr(initNode, sc, types)
			if err != nil {
				return nil, err
			}
			init = e
		}
		return ir.NewDefExpr(pos(node), v, init, nil), nil
	default:
		return nil, fmt.Errorf("astimport: unsupported def symbol tag %q", kindNode.Get("tag").String())
	}
}

func buildVar(node gjson.Result, types *typeTable) *ir.VarSymbol {
	v := ir.NewVarSymbol(node.Get("name").String(), types.get(node.Get("type").String()))
	v.IsConst = node.Get("const").Bool()
	v.IsParam = node.Get("param").Bool()
	return v
}

func buildFn(node gjson.Result, outer *scope, types *typeTable) (*ir.FnSymbol, error) {
	fn := ir.NewFnSymbol(node.Get("name").String())
	fn.RetType = types.get(node.Get("rettype").String())

	fnScope := newScope(outer)
	node.Get("formals").ForEach(func(_, f gjson.Result) bool {
		arg := ir.NewArgSymbol(f.Get("name").String(), types.get(f.Get("type").String()), intents[f.Get("intent").String()])
		fn.Formals = append(fn.Formals, arg)
		fnScope.define(arg.Name(), arg)
		return true
	})

	bodyNode := node.Get("body")
	if bodyNode.Exists() {
		body, err := buildBlock(bodyNode, fnScope, types)
		if err != nil {
			return nil, err
		}
		fn.SetBody(body.(*ir.BlockStmt))
	}
	return fn, nil
}

func buildBlock(node gjson.Result, outer *scope, types *typeTable) (ir.Expr, error) {
	kind, ok := blockKinds[node.Get("kind").String()]
	if !ok {
		kind = ir.BlockPlain
	}
	block := ir.NewBlockStmt(pos(node), kind)
	inner := newScope(outer)

	var firstErr error
	node.Get("children").ForEach(func(_, c gjson.Result) bool {
		stmt, err := buildStmt(c, inner, types)
		if err != nil {
			firstErr = err
			return false
		}
		if stmt != nil {
			block.Append(stmt)
		}
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return block, nil
}

// buildExpr dispatches on an expression node's "tag": a primitive or
// resolved-base call, a symbol reference, or a scalar literal
// (materialized as a floating immediate VarSymbol, the same
// representation C9's folding produces).
func buildExpr(node gjson.Result, sc *scope, types *typeTable) (ir.Expr, error) {
	switch node.Get("tag").String() {
	case "call":
		return buildCall(node, sc, types)
	case "sym":
		name := node.Get("name").String()
		if s, ok := sc.lookup(name); ok {
			return ir.NewSymExpr(pos(node), s), nil
		}
		return ir.NewUnresolvedSymExpr(pos(node), name), nil
	case "int":
		return literalExpr(node, ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: node.Get("value").Int()}), nil
	case "float":
		return literalExpr(node, ir.Immediate{Valid: true, Kind: ir.ImmFloat, Float: node.Get("value").Float()}), nil
	case "string":
		return literalExpr(node, ir.Immediate{Valid: true, Kind: ir.ImmString, Str: node.Get("value").String()}), nil
	case "bool":
		return literalExpr(node, ir.Immediate{Valid: true, Kind: ir.ImmBool, Bool: node.Get("value").Bool()}), nil
	default:
		return nil, fmt.Errorf("astimport: unsupported expression tag %q", node.Get("tag").String())
	}
}

func literalExpr(node gjson.Result, imm ir.Immediate) ir.Expr {
	v := ir.NewVarSymbol("_imm", nil)
	v.Immediate = imm
	return ir.NewSymExpr(pos(node), v)
}

func buildCall(node gjson.Result, sc *scope, types *typeTable) (ir.Expr, error) {
	var actuals []ir.Expr
	var firstErr error
	node.Get("actuals").ForEach(func(_, a gjson.Result) bool {
		e, err := buildExpr(a, sc, types)
		if err != nil {
			firstErr = err
			return false
		}
		actuals = append(actuals, e)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}

	if primName := node.Get("primitive").String(); primName != "" {
		tag, ok := primitive.LookupName(primName)
		if !ok {
			return nil, fmt.Errorf("astimport: unknown primitive %q", primName)
		}
		return ir.NewPrimitiveCall(pos(node), int(tag), actuals...), nil
	}

	baseName := node.Get("base").String()
	var base ir.Expr
	if s, ok := sc.lookup(baseName); ok {
		base = ir.NewSymExpr(pos(node), s)
	} else {
		base = ir.NewUnresolvedSymExpr(pos(node), baseName)
	}
	return ir.NewCallExpr(pos(node), base, actuals...), nil
}
