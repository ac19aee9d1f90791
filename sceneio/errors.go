package sceneio

import "errors"

var (
	// ErrSyntax indicates malformed input: unbalanced parentheses, an
	// unknown form head, or a non-numeric atom where a number was expected.
	ErrSyntax = errors.New("sceneio: syntax error")

	// ErrTriangleCount indicates a raw triangle list whose float count is
	// not a multiple of nine.
	ErrTriangleCount = errors.New("sceneio: raw triangle list needs 9 floats per triangle")
)
