// Package validation holds the field-level rules shared by every entity
// constructor and by form-style callers that want to check a single value
// before building anything.
//
// The rules are deliberately strict and deliberately small:
//
//   - names are single-token, letters only
//   - ages are integers in [1, 120]
//   - emails must match a full local@domain.tld pattern
//
// Struct-tag checks are delegated to go-playground/validator; the email
// pattern is registered as a custom "schoolmail" tag because validator's
// built-in "email" rule accepts host-only addresses (e.g. "a@b") that
// this model rejects.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors for each rule. Callers match with errors.Is; the
// wrapped message carries the human-readable detail.
var (
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidAge   = errors.New("invalid age")
	ErrInvalidEmail = errors.New("invalid email")
	ErrRequired     = errors.New("required value missing")
)

// emailPattern requires a local part, an @, a domain, and a TLD of at
// least two letters. "a@b.co" passes, "a@b.c" and "a@b" do not.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// validate is the shared validator instance. Building one per call is
// wasteful; the instance is safe for reuse.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Never fails: the pattern is a compile-time constant and the
	// closure only reads the field.
	_ = v.RegisterValidation("schoolmail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// Name checks that a name is non-empty and purely alphabetic after
// trimming surrounding whitespace, and returns the trimmed name.
// Letters from any alphabet are accepted; digits, spaces and
// punctuation are all rejected, so this model stores single-token
// names only.
func Name(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required"); err != nil {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if err := validate.Var(name, "alphaunicode"); err != nil {
		return "", fmt.Errorf("%w: name must be alphabetic", ErrInvalidName)
	}
	return name, nil
}

// Age coerces its argument to an integer and checks the [1, 120] range.
// Values arrive as int from constructors, as float64 from decoded JSON,
// and as string from form input, so Age accepts all three.
func Age(value any) (int, error) {
	age, err := coerceInt(value)
	if err != nil {
		return 0, fmt.Errorf("%w: age must be a number", ErrInvalidAge)
	}
	if err := validate.Var(age, "min=1,max=120"); err != nil {
		return 0, fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidAge)
	}
	return age, nil
}

func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// Email checks an address against the full local@domain.tld pattern.
func Email(email string) (string, error) {
	if err := validate.Var(email, "required"); err != nil {
		return "", fmt.Errorf("%w: email cannot be empty", ErrInvalidEmail)
	}
	if err := validate.Var(email, "schoolmail"); err != nil {
		return "", fmt.Errorf("%w: invalid email format", ErrInvalidEmail)
	}
	return email, nil
}

// Require reports a missing value with its field label, e.g.
// "Student ID cannot be empty". It is a form-level check, not an
// entity invariant.
func Require(value, label string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrRequired, label)
	}
	return nil
}

// UniqueID reports whether candidate collides with the identifier of
// any element in items other than exclude. Comparison is case-sensitive
// after trimming both sides. Pass the zero value (nil for pointer
// slices) as exclude when nothing should be skipped.
func UniqueID[T comparable](candidate string, items []T, id func(T) string, exclude T) bool {
	candidate = strings.TrimSpace(candidate)
	for _, item := range items {
		if item == exclude {
			continue
		}
		if strings.TrimSpace(id(item)) == candidate {
			return false
		}
	}
	return true
}
