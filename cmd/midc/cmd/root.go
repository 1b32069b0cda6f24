package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "midc",
	Short: "Middle-end compiler for a PGAS parallel language",
	Long: `midc is the resolution, lowering, and C emission stage of a
parallel-language compiler: it reads a normalized AST produced by a
front end, resolves every call to a concrete function, folds constants,
lowers parallel constructs and wide references, and emits one C file
per module plus the supporting runtime tables.

midc does not parse source text itself; it consumes the JSON AST
interchange format a front end produces (see "midc explain --help" for
how to inspect a single resolution decision without running the whole
pipeline).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose pass logging")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
