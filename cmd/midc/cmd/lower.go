package cmd

import (
	"fmt"

	"github.com/pgasc/midc/internal/fold"
	"github.com/pgasc/midc/internal/lower"
	"github.com/pgasc/midc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	lowerJSON    bool
	lowerDumpAST bool
)

var lowerCmd = &cobra.Command{
	Use:   "lower <ast.json>",
	Short: "Resolve, fold, and lower an AST (C4-C11)",
	Long: `Runs the same fixpoint resolution as "midc resolve", then constant
folding and param-for unrolling (C9), parallel-construct lowering
(C10), and wide-reference insertion (C11), stopping short of C emission.`,
	Args: cobra.ExactArgs(1),
	RunE: runLower,
}

func init() {
	rootCmd.AddCommand(lowerCmd)
	lowerCmd.Flags().BoolVar(&lowerJSON, "json", false, "dump the lowered IR as JSON")
	lowerCmd.Flags().BoolVar(&lowerDumpAST, "dump-ast", false, "dump the lowered IR as a kr/pretty tree")
}

func runLower(_ *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}

	n, errs := pipeline.ResolveProgram(p)
	fmt.Printf("resolved %d call site(s)\n", n)
	for _, e := range errs {
		fmt.Printf("  %v\n", e)
	}

	foldResult := fold.FoldProgram(p)
	fmt.Printf("folded %d expression(s), unrolled %d loop(s)\n", foldResult.Folded, foldResult.Unrolled)

	loweredBlocks := lower.LowerParallelProgram(p)
	fmt.Printf("lowered %d parallel construct(s)\n", len(loweredBlocks))

	wideSet := lower.LowerWideProgram(p)
	fmt.Printf("synthesized %d wide type(s)\n", len(wideSet.WideOf))

	if lowerJSON {
		if err := dumpJSON(p); err != nil {
			return fmt.Errorf("dump-json: %w", err)
		}
	}
	if lowerDumpAST {
		dumpAST(p)
	}
	return nil
}
