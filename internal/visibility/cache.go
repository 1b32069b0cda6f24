// Package visibility implements the per-block name-to-candidate-set
// cache that backs unqualified call lookup (spec §4.3, component C4):
// an incrementally built map from (block, name) to the FnSymbols
// visible there, a use-chain traversal that coalesces every standard
// module into the program's top-level block, and a visibility-block
// cache of skippable intermediate blocks.
package visibility

import (
	"github.com/pgasc/midc/internal/intern"
	"github.com/pgasc/midc/internal/ir"
)

// Cache is the incremental visible-function index for one Program. It
// is safe to keep across passes: AddFunction only appends, and Lookup
// rebuilds just the newly added suffix (the "high-water mark") before
// answering, mirroring the append-only function table the rest of the
// pipeline maintains.
type Cache struct {
	program   *ir.Program
	functions []*ir.FnSymbol
	built     int // high-water mark into functions

	byBlock map[*ir.BlockStmt]map[intern.Name][]*ir.FnSymbol

	standardModuleBlocks map[*ir.BlockStmt]bool
	skipCache            map[*ir.BlockStmt]*ir.BlockStmt
}

// NewCache returns an empty cache bound to p. Standard-module blocks
// must be registered with MarkStandardModule before the first Lookup
// that should coalesce them.
func NewCache(p *ir.Program) *Cache {
	return &Cache{
		program:              p,
		byBlock:              make(map[*ir.BlockStmt]map[intern.Name][]*ir.FnSymbol),
		standardModuleBlocks: make(map[*ir.BlockStmt]bool),
		skipCache:            make(map[*ir.BlockStmt]*ir.BlockStmt),
	}
}

// AddFunction registers fn for inclusion on the next rebuild. Passes
// call this once per FnSymbol they introduce (source functions at
// ingestion time, generic instantiations and wrappers as they are
// synthesized).
func (c *Cache) AddFunction(fn *ir.FnSymbol) {
	c.functions = append(c.functions, fn)
}

// MarkStandardModule records that block belongs to an internal
// (standard-library) module; functions defined there are folded into
// the program's top-level block so ordinary user code sees them
// without an explicit use.
func (c *Cache) MarkStandardModule(block *ir.BlockStmt) {
	c.standardModuleBlocks[block] = true
}

// Invalidate forces a full rebuild on the next Lookup, needed after a
// pass mutates a function's definition point (and hence its
// visibility block) in place rather than only adding new functions.
func (c *Cache) Invalidate() {
	c.built = 0
	c.byBlock = make(map[*ir.BlockStmt]map[intern.Name][]*ir.FnSymbol)
	c.skipCache = make(map[*ir.BlockStmt]*ir.BlockStmt)
}

func (c *Cache) programBlock() *ir.BlockStmt {
	if c.program == nil || c.program.Main == nil {
		return nil
	}
	return c.program.Main.Block
}

func (c *Cache) rootBlock() *ir.BlockStmt {
	if c.program == nil || c.program.Root == nil {
		return nil
	}
	return c.program.Root.Block
}

// build processes every function added since the last build, filing
// it under its visibility block.
func (c *Cache) build() {
	for i := c.built; i < len(c.functions); i++ {
		fn := c.functions[i]
		if fn.HasFlag(ir.FnFlagInvisible) {
			continue
		}
		def := fn.DefPoint()
		if def == nil || def.ParentSymbol() == nil {
			continue
		}
		if _, isArg := def.ParentSymbol().(*ir.ArgSymbol); isArg {
			continue
		}

		var block *ir.BlockStmt
		if fn.HasFlag(ir.FnFlagAutoII) {
			block = c.programBlock()
		} else {
			block = VisibilityBlock(def)
			if block != nil && c.standardModuleBlocks[block] {
				block = c.programBlock()
			}
		}
		if block == nil {
			continue
		}

		m := c.byBlock[block]
		if m == nil {
			m = make(map[intern.Name][]*ir.FnSymbol)
			c.byBlock[block] = m
		}
		iname := intern.Intern(fn.Name())
		m[iname] = append(m[iname], fn)
	}
	c.built = len(c.functions)
}

// VisibilityBlock returns the innermost block to search for functions
// visible at e: e's enclosing non-scopeless block, recursing past
// scopeless blocks and non-block ancestors, or (once e's own
// parentExpr runs out) the owning symbol's instantiation point if it
// is a generic function instantiated elsewhere, else the block that
// encloses that symbol's own definition.
func VisibilityBlock(e ir.Expr) *ir.BlockStmt {
	if parent := e.ParentExpr(); parent != nil {
		if block, ok := parent.(*ir.BlockStmt); ok {
			if block.BlockInfo == ir.BlockScopeless {
				return VisibilityBlock(block)
			}
			return block
		}
		return VisibilityBlock(parent)
	}
	sym := e.ParentSymbol()
	if sym == nil {
		return nil
	}
	if fn, ok := sym.(*ir.FnSymbol); ok && fn.InstantiationPoint != nil {
		return fn.InstantiationPoint
	}
	if sym.DefPoint() == nil {
		return nil
	}
	return VisibilityBlock(sym.DefPoint())
}

// Lookup returns every FnSymbol named name visible from block,
// following the block's own use clauses and its chain of enclosing
// visibility blocks, coalescing standard-module blocks into the
// program's top-level block and stopping at blocks already visited
// (guarding against mutually-using modules).
func (c *Cache) Lookup(block *ir.BlockStmt, name string) []*ir.FnSymbol {
	c.build()
	var out []*ir.FnSymbol
	visited := make(map[*ir.BlockStmt]bool)
	c.collect(block, intern.Intern(name), &out, visited)
	return out
}

// collect is getVisibleFunctions: it appends block's own matches,
// recurses into every module block's use clauses, and then either
// follows a cached skip-chain or climbs to the next visibility block,
// caching the result so later lookups from the same block skip
// straight to it.
func (c *Cache) collect(block *ir.BlockStmt, name intern.Name, out *[]*ir.FnSymbol, visited map[*ir.BlockStmt]bool) *ir.BlockStmt {
	if block == nil {
		return nil
	}
	if c.standardModuleBlocks[block] {
		block = c.programBlock()
		if block == nil {
			return nil
		}
	}

	if visited[block] {
		return nil
	}
	if block.ParentSymbol() != nil {
		if _, isModule := block.ParentSymbol().(*ir.ModuleSymbol); isModule {
			visited[block] = true
		}
	}

	canSkip := true

	if m := c.byBlock[block]; m != nil {
		canSkip = false
		if fns := m[name]; fns != nil {
			*out = append(*out, fns...)
		}
	}

	for _, mod := range block.Uses {
		canSkip = false
		if mod.Block != nil {
			c.collect(mod.Block, name, out, visited)
		}
	}

	if next, ok := c.skipCache[block]; ok {
		c.collect(next, name, out, visited)
		if canSkip {
			return next
		}
		return block
	}

	if block != c.rootBlock() {
		next := VisibilityBlock(block)
		cache := c.collect(next, name, out, visited)
		if cache != nil {
			c.skipCache[block] = cache
		}
		if canSkip {
			return cache
		}
		return block
	}

	return nil
}
