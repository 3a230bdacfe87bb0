package internal

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

// Debug enables the internal invariant assertions. The assertions guard
// protocol invariants such as the strict monotonicity of exchanged
// boundary stacks; a failure indicates a bug in this module, never bad
// user input.
const Debug = true

// Assert panics with a formatted message when cond is false and Debug
// is enabled.
func Assert(cond bool, format string, args ...interface{}) {
	if Debug && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a panic recovered in a
// worker goroutine, so that the trace survives being rethrown on the
// goroutine that joins the group.
func WrapPanic(p interface{}) interface{} {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
