package opt

// Result represents either a successful value (Ok) or an error (Err).
// Batch operations that must keep going after individual failures, such as
// parsing every chapter of a book, collect one Result per input.
type Result[T any] struct {
	v   T
	err error
}

// Ok constructs a successful Result.
func Ok[T any](v T) Result[T] { return Result[T]{v: v} }

// Err constructs a failed Result.
func Err[T any](e error) Result[T] {
	return Result[T]{err: e}
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether the result holds an error.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Unwrap returns the value and the error.
func (r Result[T]) Unwrap() (T, error) { return r.v, r.err }

// MapResult applies f to the contained value when Ok.
func MapResult[T any, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(f(r.v))
}
