package visibility

import (
	"sort"
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func declareFn(block *ir.BlockStmt, fn *ir.FnSymbol) {
	block.Append(ir.NewDefExpr(ir.Pos{}, fn, nil, nil))
}

func TestLookupFindsFunctionInOwnBlock(t *testing.T) {
	prog := ir.NewProgram()
	fn := ir.NewFnSymbol("foo")
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	declareFn(prog.Main.Block, fn)

	c := NewCache(prog)
	c.AddFunction(fn)

	got := c.Lookup(prog.Main.Block, "foo")
	if len(got) != 1 || got[0] != fn {
		t.Fatalf("Lookup(foo) = %v, want [fn]", got)
	}
	if got := c.Lookup(prog.Main.Block, "bar"); len(got) != 0 {
		t.Fatalf("Lookup(bar) = %v, want empty", got)
	}
}

func TestLookupFollowsUseClause(t *testing.T) {
	prog := ir.NewProgram()

	lib := ir.NewModuleSymbol("Lib", false)
	lib.SetBlock(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	libFn := ir.NewFnSymbol("helper")
	libFn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	declareFn(lib.Block, libFn)
	prog.AddModule(lib)

	userBlock := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	userBlock.AddUse(lib)
	prog.Main.Block.Append(userBlock)

	c := NewCache(prog)
	c.AddFunction(libFn)

	got := c.Lookup(userBlock, "helper")
	if len(got) != 1 || got[0] != libFn {
		t.Fatalf("Lookup(helper) via use clause = %v, want [libFn]", got)
	}
}

func TestLookupCoalescesStandardModule(t *testing.T) {
	prog := ir.NewProgram()

	std := ir.NewModuleSymbol("Std", true)
	std.SetBlock(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	stdFn := ir.NewFnSymbol("writeln")
	stdFn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	declareFn(std.Block, stdFn)
	prog.AddModule(std)

	c := NewCache(prog)
	c.MarkStandardModule(std.Block)
	c.AddFunction(stdFn)

	got := c.Lookup(prog.Main.Block, "writeln")
	if len(got) != 1 || got[0] != stdFn {
		t.Fatalf("Lookup(writeln) coalesced to program block = %v, want [stdFn]", got)
	}
}

func TestLookupIgnoresInvisibleFlag(t *testing.T) {
	prog := ir.NewProgram()
	fn := ir.NewFnSymbol("_hidden")
	fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	fn.AddFlag(ir.FnFlagInvisible)
	declareFn(prog.Main.Block, fn)

	c := NewCache(prog)
	c.AddFunction(fn)

	if got := c.Lookup(prog.Main.Block, "_hidden"); len(got) != 0 {
		t.Fatalf("Lookup(_hidden) = %v, want empty (FnFlagInvisible)", got)
	}
}

func TestLookupIncrementalRebuildPicksUpNewFunctions(t *testing.T) {
	prog := ir.NewProgram()
	c := NewCache(prog)

	first := ir.NewFnSymbol("f")
	first.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	declareFn(prog.Main.Block, first)
	c.AddFunction(first)

	if got := c.Lookup(prog.Main.Block, "f"); len(got) != 1 {
		t.Fatalf("Lookup(f) before second add = %v", got)
	}

	second := ir.NewFnSymbol("f")
	second.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
	declareFn(prog.Main.Block, second)
	c.AddFunction(second)

	got := c.Lookup(prog.Main.Block, "f")
	if len(got) != 2 {
		t.Fatalf("Lookup(f) after second add = %d entries, want 2", len(got))
	}
}

func TestVisibilityBlockSkipsScopelessBlocks(t *testing.T) {
	fn := ir.NewFnSymbol("f")
	outer := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	fn.SetBody(outer)

	inner := ir.NewBlockStmt(ir.Pos{}, ir.BlockScopeless)
	outer.Append(inner)

	x := ir.NewVarSymbol("x", nil)
	def := ir.NewDefExpr(ir.Pos{}, x, nil, nil)
	inner.Append(def)

	if got := VisibilityBlock(def); got != outer {
		t.Fatalf("VisibilityBlock(def) = %v, want outer (scopeless skipped)", got)
	}
}

func TestLookupResultsAreStableSet(t *testing.T) {
	prog := ir.NewProgram()
	c := NewCache(prog)
	names := []string{"a", "b", "c"}
	for _, n := range names {
		fn := ir.NewFnSymbol(n)
		fn.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))
		declareFn(prog.Main.Block, fn)
		c.AddFunction(fn)
	}

	var got []string
	for _, n := range names {
		for range c.Lookup(prog.Main.Block, n) {
			got = append(got, n)
		}
	}
	sort.Strings(got)
	if len(got) != 3 {
		t.Fatalf("got %v, want 3 matches", got)
	}
}
