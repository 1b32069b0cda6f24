// Package pipeline wires the fixpoint call-resolution loop
// (ResolveProgram) and the fixed-order lowering/emission passes (C9-C12) into the one
// entry point cmd/midc drives: resolve every call to a fixpoint, fold
// constants, lower parallel constructs, insert wide references, then
// emit.
package pipeline

import (
	"fmt"

	"github.com/pgasc/midc/internal/codegen"
	"github.com/pgasc/midc/internal/config"
	"github.com/pgasc/midc/internal/fold"
	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/logging"
	"github.com/pgasc/midc/internal/lower"
)

// Result is what Run hands back: the emitted output plus a summary of
// what each pass did, for --explain-call-style reporting.
type Result struct {
	ResolvedCalls int
	Folded        fold.Result
	Lowered       []*lower.Lowered
	Wide          *lower.WideSet
	Output        *codegen.Output
}

// Run executes the full pass pipeline over p in place and returns the
// emitted output. Errors from call resolution are not fatal by
// themselves (an ambiguous or unresolved call is reported but
// resolution continues for everything else); Run only fails outright
// when emission errors, since folding and lowering report no errors.
func Run(p *ir.Program, cfg *config.Config, log *logging.PassLogger) (*Result, error) {
	if log == nil {
		log = logging.Default()
	}
	res := &Result{}

	rlog := log.ForPass("resolve")
	rlog.Start("fixpoint call resolution")
	n, resolveErrs := ResolveProgram(p)
	res.ResolvedCalls = n
	rlog.Done(res.ResolvedCalls)
	for _, e := range resolveErrs {
		rlog.Errorf("%v", e)
	}

	flog := log.ForPass("fold")
	flog.Start("constant folding and param-for unrolling")
	res.Folded = fold.FoldProgram(p)
	flog.Done(res.Folded.Folded + res.Folded.Unrolled)

	plog := log.ForPass("lower-parallel")
	plog.Start("parallel-construct lowering")
	res.Lowered = lower.LowerParallelProgram(p)
	plog.Done(len(res.Lowered))

	wlog := log.ForPass("lower-wide")
	wlog.Start("wide-reference insertion")
	res.Wide = lower.LowerWideProgram(p)
	wlog.Done(len(res.Wide.WideOf))

	elog := log.ForPass("emit")
	elog.Start("IR to C emission")
	out, err := codegen.Emit(p, cfg)
	if err != nil {
		return res, fmt.Errorf("emit: %w", err)
	}
	res.Output = out
	elog.Done(len(out.Files))

	return res, nil
}
