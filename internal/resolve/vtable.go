package resolve

import "github.com/pgasc/midc/internal/ir"

// methodsOf returns the methods fn's class declares directly: every
// FnSymbol flagged FLAG_METHOD whose receiver (by convention, its
// first formal) is typeSym.
func methodsOf(typeSym *ir.TypeSymbol, all []*ir.FnSymbol) []*ir.FnSymbol {
	var out []*ir.FnSymbol
	for _, fn := range all {
		if !fn.HasFlag(ir.FnFlagMethod) || len(fn.Formals) == 0 {
			continue
		}
		if fn.Formals[0].Type == typeSym {
			out = append(out, fn)
		}
	}
	return out
}

// signatureMatches reports whether two methods override one another:
// same name and same formal count once the receiver is excluded,
// matching up to type-parameter substitution (spec §4.7 step 1) --
// approximated here by ignoring formal types entirely, since a
// concrete override is always arity- and name-compatible with its
// root by construction.
func signatureMatches(a, b *ir.FnSymbol) bool {
	return a.Name() == b.Name() && len(a.Formals) == len(b.Formals)
}

// findOverriddenRoot walks typeSym's dispatch parents looking for a
// method that fn overrides, returning the nearest ancestor method with
// a matching signature (the override chain climbs one level at a
// time, so the nearest match is the correct direct parent, and
// BuildVTables' trueRoot resolves on up from there to the true root).
func findOverriddenRoot(typeSym *ir.TypeSymbol, fn *ir.FnSymbol, all []*ir.FnSymbol) *ir.FnSymbol {
	cl, ok := typeSym.Type.(*ir.ClassLikeType)
	if !ok {
		return nil
	}
	for _, parentSym := range cl.DispatchParents {
		for _, pm := range methodsOf(parentSym, all) {
			if signatureMatches(fn, pm) {
				return pm
			}
		}
		if root := findOverriddenRoot(parentSym, fn, all); root != nil {
			return root
		}
	}
	return nil
}

// VTable is the per-root set of class -> most-specific-override
// entries spanning the root's entire dispatch subtree (spec §4.7
// step 2, invariant P8).
type VTable struct {
	Root    *ir.FnSymbol
	Entries map[*ir.TypeSymbol]*ir.FnSymbol
}

// VTableSet is the complete set of virtual method tables built for a
// program, one VTable per root virtual method, plus the per-root
// dispatch decision (spec §4.7 step 3).
type VTableSet struct {
	tables map[*ir.FnSymbol]*VTable
	kind   map[*ir.FnSymbol]ir.DispatchKind
}

// TableFor returns the VTable for root, or nil if root is not a
// virtual root (it has no overriders anywhere in the program).
func (s *VTableSet) TableFor(root *ir.FnSymbol) *VTable { return s.tables[root] }

// DispatchKindFor reports how a call through root should be compiled:
// DispatchClassIDChain when the override count is within the
// configured limit, DispatchVTable otherwise (spec §4.7 step 3).
func (s *VTableSet) DispatchKindFor(root *ir.FnSymbol) ir.DispatchKind {
	if k, ok := s.kind[root]; ok {
		return k
	}
	return ir.DispatchStatic
}

// Resolve looks up the method actually reached when a virtual call
// through root is made on a value of dynamic type dynType: the
// VTable's entry for dynType if dynType overrides or inherits one,
// else root itself (a class that declares no override of its own, and
// has no ancestor override either, still dispatches to the root).
func (s *VTable) Resolve(dynType *ir.TypeSymbol) *ir.FnSymbol {
	if fn, ok := s.Entries[dynType]; ok {
		return fn
	}
	return s.Root
}

// BuildVTables constructs the virtual-dispatch tables for every class
// in classes given all of the program's methods (spec §4.7). A method
// is a root if no ancestor class declares a matching signature; every
// other method overrides the root found by climbing its dispatch
// parents. overrideLimit is config.ConditionalDynamicDispatchLimit:
// a root whose override count meets or exceeds it is compiled as a
// true virtual-method-table call, and stays a class-id-chain
// otherwise.
func BuildVTables(classes []*ir.TypeSymbol, allMethods []*ir.FnSymbol, overrideLimit int) *VTableSet {
	set := &VTableSet{tables: make(map[*ir.FnSymbol]*VTable), kind: make(map[*ir.FnSymbol]ir.DispatchKind)}

	rootOf := make(map[*ir.FnSymbol]*ir.FnSymbol)
	declaringClass := make(map[*ir.FnSymbol]*ir.TypeSymbol)
	for _, typeSym := range classes {
		for _, fn := range methodsOf(typeSym, allMethods) {
			declaringClass[fn] = typeSym
			if root := findOverriddenRoot(typeSym, fn, allMethods); root != nil {
				rootOf[fn] = root
			}
		}
	}
	// Resolve multi-level override chains: an override's root may
	// itself be recorded as overriding something further up.
	trueRoot := func(fn *ir.FnSymbol) *ir.FnSymbol {
		cur := fn
		for {
			parent, ok := rootOf[cur]
			if !ok {
				return cur
			}
			cur = parent
		}
	}

	// Group each root's own overriders by the class that declares them,
	// so the subtree walk below can look up "does this class declare
	// its own override of this root" in constant time.
	ownOverrideByClass := make(map[*ir.FnSymbol]map[*ir.TypeSymbol]*ir.FnSymbol)
	for fn, cls := range declaringClass {
		root := trueRoot(fn)
		if root == fn {
			continue // fn is the root itself, not an override of anything
		}
		byClass := ownOverrideByClass[root]
		if byClass == nil {
			byClass = make(map[*ir.TypeSymbol]*ir.FnSymbol)
			ownOverrideByClass[root] = byClass
		}
		byClass[cls] = fn
	}

	// Walk each root's dispatch subtree top-down, carrying forward the
	// nearest ancestor's override and replacing it whenever a class
	// declares its own (the most-specific-override invariant, P8).
	for root, byClass := range ownOverrideByClass {
		rootClass, ok := declaringClass[root]
		if !ok {
			continue
		}
		table := &VTable{Root: root, Entries: make(map[*ir.TypeSymbol]*ir.FnSymbol)}
		set.tables[root] = table
		assignSubtree(table, rootClass, root, byClass)
	}
	for root := range set.tables {
		// The override count is the number of classes that declare
		// their own override, not the number of classes in the whole
		// subtree (a long chain of classes inheriting one override
		// unchanged should not itself push a root over the limit).
		if len(ownOverrideByClass[root]) >= overrideLimit {
			set.kind[root] = ir.DispatchVTable
		} else {
			set.kind[root] = ir.DispatchClassIDChain
		}
	}
	return set
}

// assignSubtree recursively assigns cls's table entry to the nearest
// enclosing override (inherited, unless cls declares its own) and
// recurses into cls's dispatch children carrying that choice forward.
func assignSubtree(table *VTable, cls *ir.TypeSymbol, inherited *ir.FnSymbol, byClass map[*ir.TypeSymbol]*ir.FnSymbol) {
	effective := inherited
	if own, ok := byClass[cls]; ok {
		effective = own
	}
	table.Entries[cls] = effective
	clType, ok := cls.Type.(*ir.ClassLikeType)
	if !ok {
		return
	}
	for _, child := range clType.DispatchChildren {
		assignSubtree(table, child, effective, byClass)
	}
}
