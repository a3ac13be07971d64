package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every error returned for a malformed seed.
var ErrSyntax = errors.New("invalid seed")

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("%w: empty input, a seed must be: Name=Value", ErrSyntax)
	}

	switch {
	case !strings.ContainsAny(input, "=:"):
		return fmt.Errorf("%w: %q has no value, a seed must be: Name=Value", ErrSyntax, input)
	case strings.Contains(input, "[") && !strings.HasSuffix(input, "]"):
		return fmt.Errorf("%w: %q, a list must be: Name=[a, b, \"c d\"]", ErrSyntax, input)
	}
	return fmt.Errorf("%w: %q (%v)", ErrSyntax, input, err)
}
