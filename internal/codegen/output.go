// Package codegen implements C12, the IR→target emitter: a single,
// non-mutating walk over a fully resolved and lowered ir.Program that
// prints the target file set of spec.md §6.3. Every decision the
// emitter would otherwise have to make — which candidate a call
// resolved to, whether a virtual call is direct or table-indexed, how
// a parallel block got bundled — was already recorded on the IR by an
// earlier component (C4-C11); codegen only reads those annotations.
package codegen

import "sort"

// File is one emitted target file.
type File struct {
	Name     string
	Contents string
}

// Output is the full file set Emit produces.
type Output struct {
	Files []*File
}

// file finds or creates the named file, matching the teacher's
// append-as-you-go builder style used across its own compiler passes.
func (o *Output) file(name string) *File {
	for _, f := range o.Files {
		if f.Name == name {
			return f
		}
	}
	f := &File{Name: name}
	o.Files = append(o.Files, f)
	return f
}

func (f *File) append(s string) { f.Contents += s }

// Sorted returns the file set ordered by name, for deterministic
// output.
func (o *Output) Sorted() []*File {
	out := make([]*File, len(o.Files))
	copy(out, o.Files)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
