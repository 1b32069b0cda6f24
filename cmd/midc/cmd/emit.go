package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pgasc/midc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	emitOutDir   string
	emitYAMLPath string
	emitJSONLog  bool
)

var emitCmd = &cobra.Command{
	Use:   "emit <ast.json>",
	Short: "Run the full pipeline and write the target C file set",
	Long: `Runs resolution, folding, lowering, and C emission (C4-C12) over a
normalized AST and writes the resulting file set (chpl__header.h, one
.c file per module, _main.c, _config.c, and _type_structure.c when
heterogeneous is set in the --config file) to --outdir.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
	emitCmd.Flags().StringVar(&emitOutDir, "outdir", ".", "directory to write the emitted file set to")
	emitCmd.Flags().StringVar(&emitYAMLPath, "config", "", "path to a midc.yaml config file")
	emitCmd.Flags().BoolVar(&emitJSONLog, "json", false, "emit pass logs as JSON instead of text")
}

func runEmit(_ *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(emitYAMLPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if emitOutDir != "" {
		cfg.OutDir = emitOutDir
	}

	log := newLogger()
	if emitJSONLog {
		log = newJSONLogger()
	}

	res, err := pipeline.Run(p, cfg, log)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutDir, err)
	}
	for _, f := range res.Output.Sorted() {
		path := filepath.Join(cfg.OutDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Contents), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
