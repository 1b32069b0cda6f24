// Package diag implements the three error categories of spec.md §7:
// Error (a user-facing resolution/lowering failure, caret-annotated
// against its source line), TryFailure (a deferred failure recorded on
// a try-frame and only surfaced if unrecovered), and Internal (an
// invariant violation — always fatal, always carries the offending
// ir.Expr).
package diag

import (
	"fmt"
	"strings"

	"github.com/pgasc/midc/internal/ir"
	"github.com/sirupsen/logrus"
)

// Error is a user-facing compiler error: a position, a message, and
// the source text it was found in, formatted with a caret the same
// way the teacher's CompilerError.Format does.
type Error struct {
	Pos     ir.Pos
	Message string
	Source  string
	Fields  logrus.Fields
}

func NewError(pos ir.Pos, message string, source string) *Error {
	return &Error{Pos: pos, Message: message, Source: source}
}

func (e *Error) Error() string { return e.Format() }

// Format renders the error as "<file>:<line>:<col>" plus the source
// line plus a caret under the offending column.
func (e *Error) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s\n", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		sb.WriteString("^")
	}
	return sb.String()
}

// LogFields returns a structured view of the same error, for the
// logrus-backed --json diagnostics output (spec.md §7's "machine
// parseable via --json" extension).
func (e *Error) LogFields() logrus.Fields {
	f := logrus.Fields{
		"file":    e.Pos.File,
		"line":    e.Pos.Line,
		"column":  e.Pos.Column,
		"message": e.Message,
	}
	for k, v := range e.Fields {
		f[k] = v
	}
	return f
}

func sourceLine(source string, n int) string {
	if source == "" || n < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Internal is a defect in the compiler itself: an ir.CheckInvariants
// failure or any other broken internal expectation. Always fatal;
// always names the offending node.
type Internal struct {
	Message string
	Node    ir.Expr
}

func NewInternal(message string, node ir.Expr) *Internal {
	return &Internal{Message: message, Node: node}
}

func (e *Internal) Error() string {
	if e.Node == nil {
		return "internal error: " + e.Message
	}
	return fmt.Sprintf("internal error at %s: %s (%T)", e.Node.Pos(), e.Message, e.Node)
}

// TryFailure is a resolution failure that occurred underneath a
// try-scope: rather than surfacing immediately, it is recorded on the
// enclosing TryFrame and only reported if the try-scope itself is
// never recovered (spec.md §7's "Try-frame unwinding" redesign flag —
// an explicit stack of try-contexts, not language-level exceptions,
// since resolution is not re-entrant across a failure boundary).
type TryFailure struct {
	*Error
}

func NewTryFailure(pos ir.Pos, message, source string) *TryFailure {
	return &TryFailure{Error: NewError(pos, message, source)}
}

// TryFrame is one entry in the resolution machinery's explicit
// try-context stack. Failed is checked at each resolution step in
// place of a caught exception; Failure holds the first deferred error
// once Failed is set, for callers that choose not to recover.
type TryFrame struct {
	Failed  bool
	Failure *TryFailure
}

// Fail marks the frame failed, recording only the first failure
// (later ones during the same failed attempt are presumed
// consequences of the first, not independent causes).
func (f *TryFrame) Fail(failure *TryFailure) {
	if f.Failed {
		return
	}
	f.Failed = true
	f.Failure = failure
}

// TryStack is the explicit stack of in-flight try-contexts.
type TryStack struct {
	frames []*TryFrame
}

func (s *TryStack) Push() *TryFrame {
	f := &TryFrame{}
	s.frames = append(s.frames, f)
	return f
}

// Pop removes and returns the innermost frame.
func (s *TryStack) Pop() *TryFrame {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Current returns the innermost frame without removing it, or nil if
// the stack is empty (resolution is not inside any try-scope).
func (s *TryStack) Current() *TryFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}
