package cmd

import (
	"fmt"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/pipeline"
	"github.com/pgasc/midc/internal/resolve"
	"github.com/pgasc/midc/internal/visibility"
	"github.com/spf13/cobra"
)

var (
	explainLine   int
	explainModule string
)

var explainCmd = &cobra.Command{
	Use:   "explain <ast.json>",
	Short: "Explain why a call site resolved the way it did",
	Long: `Implements explainCallLine/explainCallModule: locates the call at
--line in --module, lists every visible candidate as viable or
rejected (arity or dispatch test failed), notes each formal matched
via scalar promotion, and prints the candidate overload resolution
selected (or that the call is ambiguous or has no viable candidate).
Other match routes (exact, coercion, dispatch-parent) are not
distinguished.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().IntVar(&explainLine, "line", 0, "source line of the call to explain")
	explainCmd.Flags().StringVar(&explainModule, "module", "", "module containing the call to explain")
	explainCmd.MarkFlagRequired("line")
}

func runExplain(_ *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}

	call := findCallAt(p, explainModule, explainLine)
	if call == nil {
		return fmt.Errorf("no call found at %s:%d", explainModule, explainLine)
	}
	unresolved, ok := call.Base.(*ir.UnresolvedSymExpr)
	if !ok {
		fmt.Printf("call at %s already resolved to a concrete callee\n", call.Pos())
		return nil
	}

	cache := visibility.NewCache(p)
	for _, fn := range p.Functions() {
		cache.AddFunction(fn)
	}
	scope := visibility.VisibilityBlock(call)
	visible := cache.Lookup(scope, unresolved.Name)
	fmt.Printf("call to %q at %s: %d visible function(s) named %q\n", unresolved.Name, call.Pos(), len(visible), unresolved.Name)

	actuals := pipeline.BuildActuals(call)
	for _, fn := range visible {
		if c, ok := resolve.AddCandidate(fn, actuals); ok {
			fmt.Printf("  CANDIDATE %s: viable\n", fn.String())
			for i, promoted := range c.Promotes {
				if promoted {
					fmt.Printf("    formal %d matched via scalar promotion\n", i)
				}
			}
		} else {
			fmt.Printf("  REJECTED %s: arity or dispatch test failed\n", fn.String())
		}
	}

	cands := resolve.CollectCandidates(visible, actuals)
	winner, ok := resolve.Disambiguate(cands, actuals, call)
	switch {
	case len(cands) == 0:
		fmt.Println("result: no viable candidate")
	case !ok:
		fmt.Printf("result: ambiguous among %d candidate(s)\n", len(cands))
	default:
		fmt.Printf("result: selected %s\n", winner.Aligned.Fn.String())
	}
	return nil
}

func findCallAt(p *ir.Program, module string, line int) *ir.CallExpr {
	var found *ir.CallExpr
	for _, mod := range p.Modules {
		if module != "" && mod.Name() != module {
			continue
		}
		if mod.Block == nil {
			continue
		}
		ir.VisitDeep(mod.Block, func(e ir.Expr) bool {
			if call, ok := e.(*ir.CallExpr); ok && call.Pos().Line == line {
				found = call
			}
			return true
		})
	}
	return found
}

