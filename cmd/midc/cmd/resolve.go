package cmd

import (
	"fmt"

	"github.com/pgasc/midc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	resolveJSON    bool
	resolveDumpAST bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <ast.json>",
	Short: "Resolve every call in an AST to a fixpoint",
	Long: `Loads a normalized AST, runs candidate selection, disambiguation,
generic instantiation and promotion-wrapper synthesis to a fixpoint,
and reports how many call sites resolved and any left ambiguous or
undeclared. Default, order and coercion wrappers and virtual-method
tables are not built.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "dump the resolved IR as JSON")
	resolveCmd.Flags().BoolVar(&resolveDumpAST, "dump-ast", false, "dump the resolved IR as a kr/pretty tree")
}

func runResolve(_ *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}

	n, errs := pipeline.ResolveProgram(p)
	fmt.Printf("resolved %d call site(s)\n", n)
	for _, e := range errs {
		fmt.Printf("  %v\n", e)
	}

	if resolveJSON {
		if err := dumpJSON(p); err != nil {
			return fmt.Errorf("dump-json: %w", err)
		}
	}
	if resolveDumpAST {
		dumpAST(p)
	}
	return nil
}
