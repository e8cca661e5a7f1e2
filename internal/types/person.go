// Package types holds the entity model shared across the application:
// Person (the common people fields), Student, Instructor, and Course.
// Keeping them in one place prevents import cycles: storage, the
// registry, and the CLI can all import types without depending on each
// other.
//
// Every constructor runs the field validators from internal/validation,
// so a successfully built entity always satisfies its invariants. The
// FromMap factories do the same and PROPAGATE the specific failure:
// loading a malformed record surfaces a typed error to the loader,
// never a half-built entity.
package types

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/school-records/internal/validation"
)

// ErrNilEntity is returned when a nil student or instructor is passed
// into an association operation. Wrong-kind arguments are a compile
// error in Go; a nil of the right kind is the remaining precondition
// violation worth guarding.
var ErrNilEntity = errors.New("nil entity")

// Person carries the fields common to students and instructors. It is
// embedded, never stored on its own.
//
// The email field is unexported so that every write goes through
// SetEmail and therefore through validation.
type Person struct {
	Name  string
	Age   int
	email string
}

func newPerson(name string, age any, email string) (Person, error) {
	n, err := validation.Name(name)
	if err != nil {
		return Person{}, err
	}
	a, err := validation.Age(age)
	if err != nil {
		return Person{}, err
	}
	e, err := validation.Email(email)
	if err != nil {
		return Person{}, err
	}
	return Person{Name: n, Age: a, email: e}, nil
}

// Email returns the validated email address.
func (p *Person) Email() string { return p.email }

// SetEmail replaces the email address after validating the new value.
// On failure the stored address is left unchanged.
func (p *Person) SetEmail(email string) error {
	e, err := validation.Email(email)
	if err != nil {
		return err
	}
	p.email = e
	return nil
}

// Introduce returns a short self-description, e.g.
// "Hey, I'm Ann, and I'm 20 years old.".
func (p *Person) Introduce() string {
	return fmt.Sprintf("Hey, I'm %s, and I'm %d years old.", p.Name, p.Age)
}

func (p *Person) toMap() map[string]any {
	return map[string]any{
		"name":  p.Name,
		"age":   p.Age,
		"email": p.email,
	}
}

// stringField fetches a map value as a string, tolerating absent keys
// and non-string scalars (identifiers read back from JSON are strings,
// but callers may hand in whatever they parsed).
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// stringList converts a decoded JSON array into a []string, skipping
// nil elements.
func stringList(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}
