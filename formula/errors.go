package formula

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownPtg indicates a token id with no known layout. The size of an
	// unknown token cannot be determined, so decoding stops.
	ErrUnknownPtg = errors.New("formula: unknown token")

	// ErrTokenSizeMismatch indicates the decoded tokens do not end exactly at
	// the declared token length.
	ErrTokenSizeMismatch = errors.New("formula: token data does not match declared length")

	// ErrTruncated indicates token or constant data ends early.
	ErrTruncated = errors.New("formula: truncated token data")

	// ErrInvalidConstant indicates an array constant of an unknown type.
	ErrInvalidConstant = errors.New("formula: invalid array constant")

	// ErrInvalidReference indicates text that is not a cell reference.
	ErrInvalidReference = errors.New("formula: invalid cell reference")

	// ErrRender indicates a token sequence that does not form an expression.
	ErrRender = errors.New("formula: cannot render tokens")
)

// TokenError locates a decoding failure in a token stream.
type TokenError struct {
	Offset int  // Offset of the token within the token data
	ID     byte // Token id
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("formula: token 0x%02X at offset %d: %v", e.ID, e.Offset, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}
