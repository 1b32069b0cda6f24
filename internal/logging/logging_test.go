package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestForPassAddsPassField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true).ForPass("fold")
	log.Start("folding constants")
	log.Done(3)

	out := buf.String()
	if !strings.Contains(out, `"pass":"fold"`) {
		t.Errorf("expected a pass field in every record, got %s", out)
	}
	if !strings.Contains(out, `"changed":3`) {
		t.Errorf("expected the changed count recorded, got %s", out)
	}
}

func TestDefaultUsesTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).ForPass("wide")
	log.Start("inserting wide references")
	if strings.Contains(buf.String(), "{") {
		t.Errorf("expected text formatting, not JSON, got %s", buf.String())
	}
}
