// Package errors provides the classified error type used across the
// reformatter: every failure that reaches the CLI carries a category, a
// severity and a small context map.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryInput, "open input CV").
//		Fatal().
//		WithContext("path", path).
//		Build()
package errors
