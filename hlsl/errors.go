package hlsl

import "errors"

// ErrInvalidExecutionContext matches every guard failure via errors.Is.
var ErrInvalidExecutionContext = errors.New("hlsl: intrinsic executed outside a translated kernel")

// InvalidExecutionContextError is the panic value raised when an intrinsic
// runs on the host. Its message is the overload signature and nothing else,
// so tools can match on it.
type InvalidExecutionContextError struct {
	Intrinsic Intrinsic
}

// Error implements the error interface.
func (e *InvalidExecutionContextError) Error() string {
	return e.Intrinsic.Signature()
}

// Is reports whether target is ErrInvalidExecutionContext.
func (e *InvalidExecutionContextError) Is(target error) bool {
	return target == ErrInvalidExecutionContext
}

// fail is the single failure path shared by every intrinsic body.
func fail(i Intrinsic) {
	panic(&InvalidExecutionContextError{Intrinsic: i})
}

// Catch runs fn and returns the guard error if fn reached an intrinsic on
// the host. Any other panic propagates unchanged.
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if guardErr, ok := r.(*InvalidExecutionContextError); ok {
			err = guardErr
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
