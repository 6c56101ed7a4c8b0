package models

import "errors"

// CodeLength is the exact number of characters a submitted code must have.
const CodeLength = 38

// Validation errors returned by ValidateCode. Callers branch on these to
// pick the user-facing rejection message.
var (
	ErrWrongLength       = errors.New("wrong length")
	ErrInvalidCharacters = errors.New("invalid characters")
)

// ValidateCode checks a submitted code against the format contract:
// exactly 38 characters, all within printable ASCII (0x20–0x7E).
// No further semantic check is performed; any 38-character printable
// string is a valid code.
func ValidateCode(text string) error {
	if len(text) != CodeLength {
		return ErrWrongLength
	}
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] > 0x7E {
			return ErrInvalidCharacters
		}
	}
	return nil
}
