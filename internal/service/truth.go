package service

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTruthValue = errors.New("invalid truth value")

// ParseTruth converts a truth value string. Accepted true values are y, yes,
// t, true, on and 1; false values are n, no, f, false, off and 0. Case is
// ignored.
func ParseTruth(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w %q", ErrInvalidTruthValue, s)
}
