package astimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

const sampleDoc = `{
  "modules": [
    {
      "name": "_Program",
      "internal": false,
      "body": [
        {
          "tag": "def",
          "sym": {
            "tag": "fn",
            "name": "main",
            "rettype": "void",
            "formals": [],
            "body": {
              "tag": "block",
              "kind": "plain",
              "children": [
                {
                  "tag": "def",
                  "sym": {"tag": "var", "name": "x", "type": "int(64)"}
                },
                {
                  "tag": "call",
                  "primitive": "move",
                  "actuals": [
                    {"tag": "sym", "name": "x"},
                    {"tag": "int", "value": 14}
                  ]
                }
              ]
            }
          }
        }
      ]
    }
  ]
}`

func TestLoadBuildsFunctionAndBody(t *testing.T) {
	p, err := Load(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fns := p.Functions()
	if len(fns) != 1 || fns[0].Name() != "main" {
		t.Fatalf("expected one function named main, got %+v", fns)
	}
	main := fns[0]
	if main.Body == nil || main.Body.Body.Len() != 2 {
		t.Fatalf("expected main's body to hold 2 statements, got %+v", main.Body)
	}
	assign, ok := main.Body.Body.Head().Next().(*ir.CallExpr)
	if !ok || !assign.IsPrimitive() {
		t.Fatalf("expected the second statement to be a primitive call, got %+v", main.Body.Body.Head().Next())
	}
}

func TestDumpRoundTripsFunctionName(t *testing.T) {
	p, err := Load(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var buf bytes.Buffer
	if err := Dump(&buf, p); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"main"`) {
		t.Errorf("expected the dumped JSON to mention the function name, got %s", out)
	}
	if !strings.Contains(out, `"var"`) {
		t.Errorf("expected the dumped JSON to mention the var def, got %s", out)
	}
}
