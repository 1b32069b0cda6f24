package ir

// Program is the root of a resolved or in-resolution IR: a `_root`
// module wrapping `_Program` and the modules of each translation
// unit, matching the normalized-AST shape the front end hands to the
// core (spec §6).
type Program struct {
	Root    *ModuleSymbol // "_root", the outermost scope
	Main    *ModuleSymbol // "_Program", _root's only child in source order
	Modules []*ModuleSymbol
}

// NewProgram builds an (initially empty) _root/_Program pair.
func NewProgram() *Program {
	root := NewModuleSymbol("_root", true)
	root.SetBlock(NewBlockStmt(Pos{}, BlockPlain))
	main := NewModuleSymbol("_Program", false)
	main.SetBlock(NewBlockStmt(Pos{}, BlockPlain))
	root.Block.Append(NewDefExpr(Pos{}, main, nil, nil))
	return &Program{Root: root, Main: main, Modules: []*ModuleSymbol{main}}
}

// AddModule registers mod as a child of _root and records it for
// whole-program traversal.
func (p *Program) AddModule(mod *ModuleSymbol) {
	p.Root.Block.Append(NewDefExpr(mod.Pos(), mod, nil, nil))
	p.Modules = append(p.Modules, mod)
}

// Walk visits every module's block with VisitDeep (descending into
// nested function bodies), in module order.
func (p *Program) Walk(fn func(Expr) bool) {
	for _, mod := range p.Modules {
		if mod.Block != nil {
			VisitDeep(mod.Block, fn)
		}
	}
}

// Functions returns every FnSymbol reachable from any module's block,
// via the DefExpr nodes that define them.
func (p *Program) Functions() []*FnSymbol {
	var out []*FnSymbol
	p.Walk(func(e Expr) bool {
		if d, ok := e.(*DefExpr); ok {
			if fn, ok := d.Sym.(*FnSymbol); ok {
				out = append(out, fn)
			}
		}
		return true
	})
	return out
}
