package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// ContextError prefixes an error with the operation it interrupted.
// Debug runs additionally carry the capture-time call stack.
type ContextError struct {
	Message string
	Cause   error
	Stack   []StackFrame
}

// StackFrame is one captured call site.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
}

func (e *ContextError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ContextError) Unwrap() error { return e.Cause }

// StackTrace renders the captured frames, one per line pair.
func (e *ContextError) StackTrace() string {
	var sb strings.Builder
	for _, frame := range e.Stack {
		sb.WriteString(frame.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WithContext prefixes err with message. Nil in, nil out.
func WithContext(err error, message string) error {
	if err == nil {
		return nil
	}
	return &ContextError{Message: message, Cause: err}
}

// WithStack is WithContext plus a captured call stack, for debug runs.
func WithStack(err error, message string) error {
	if err == nil {
		return nil
	}
	return &ContextError{Message: message, Cause: err, Stack: callers(2)}
}

// callers captures up to 16 frames above skip, dropping runtime internals.
func callers(skip int) []StackFrame {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var stack []StackFrame
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			stack = append(stack, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			return stack
		}
	}
}
