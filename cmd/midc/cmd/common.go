package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/pgasc/midc/internal/astimport"
	"github.com/pgasc/midc/internal/config"
	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/logging"
	"github.com/tidwall/gjson"
)

func loadProgram(filename string) (*ir.Program, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read AST file %s: %w", filename, err)
	}
	defer f.Close()
	p, err := astimport.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AST from %s: %w", filename, err)
	}
	return p, nil
}

func loadConfig(yamlPath string) (*config.Config, error) {
	if yamlPath == "" {
		return config.Default(), nil
	}
	return config.Load(yamlPath)
}

func newLogger() *logging.PassLogger {
	if verbose {
		return logging.Default()
	}
	return logging.New(nullWriter{}, false)
}

func newJSONLogger() *logging.PassLogger {
	return logging.New(os.Stderr, true)
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

// dumpAST prints the resolved-IR tree via kr/pretty. It goes through
// astimport's JSON shape rather than handing p straight to the
// reflection-based printer: Expr/Symbol nodes carry parent back-pointers
// (SetParentExpr/SetParentSymbol) that make the live struct graph
// cyclic, and gjson's decoded Value() tree is plain maps/slices with
// no back-edges for pretty to walk into.
func dumpAST(p *ir.Program) {
	var buf bytes.Buffer
	if err := astimport.Dump(&buf, p); err != nil {
		fmt.Fprintf(os.Stderr, "warning: dump-ast failed: %v\n", err)
		return
	}
	tree := gjson.ParseBytes(buf.Bytes()).Value()
	if _, err := pretty.Println(tree); err != nil {
		fmt.Fprintf(os.Stderr, "warning: dump-ast failed: %v\n", err)
	}
}

func dumpJSON(p *ir.Program) error {
	return astimport.Dump(os.Stdout, p)
}
