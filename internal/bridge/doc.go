// Package bridge turns plain Go functions into request handlers for chailab pages.
//
// # Function shapes
//
// Inspect examines a function once and picks a calling strategy:
//
//   - value: func(...) T, func(...) (T, error), func(...) (T1, ..., Tn, error)
//   - seq: func(...) iter.Seq[T]
//   - seq2: func(...) iter.Seq2[T, error]
//   - chan: func(...) <-chan T, optionally with a trailing error
//
// A leading context.Context parameter receives the request context. Each
// call runs on its own goroutine and the caller waits on the result or on
// context cancellation; cancellation does not interrupt the function.
// Iterators and channels are drained completely and their chunks are joined
// with fmt.Sprint. Nothing is delivered incrementally.
//
// Request values are decoded positionally with weakly typed mapstructure
// decoding. Missing values become zero values and extra values are dropped
// unless the function is variadic.
//
// # Interfaces
//
// NewInterface resolves input and output specs through a registry and
// renders the page config up front. Execute wraps a single result into a
// one-element list, uses slice results as is, and lists multiple return
// values in order.
//
// NewChatInterface calls fn(message, history) with a private copy of the
// history and returns the transcript with the user and assistant turns
// appended.
//
// # Errors
//
// Setup problems are *component.ConfigurationError. Per-request failures are
// *RequestValidationError (the function was not called) or *HandlerError
// (the function returned an error or panicked).
package bridge
