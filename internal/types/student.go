package types

import (
	"fmt"

	"github.com/aanand-mishra/school-records/internal/validation"
)

// Student is a Person with an externally assigned identifier and the
// ordered list of course ids they are registered for.
type Student struct {
	Person
	StudentID         string
	RegisteredCourses []string
}

// NewStudent builds a Student, validating name, age, and email. The
// identifier is assigned by the caller; uniqueness within a collection
// is the owning collection's concern (see registry.AddStudent).
func NewStudent(name string, age any, email, studentID string) (*Student, error) {
	p, err := newPerson(name, age, email)
	if err != nil {
		return nil, err
	}
	return &Student{
		Person:            p,
		StudentID:         studentID,
		RegisteredCourses: []string{},
	}, nil
}

// RegisterCourse appends the course's id to RegisteredCourses.
// Registering twice is a no-op, never an error.
func (s *Student) RegisterCourse(c *Course) {
	if c == nil {
		return
	}
	for _, id := range s.RegisteredCourses {
		if id == c.CourseID {
			return
		}
	}
	s.RegisteredCourses = append(s.RegisteredCourses, c.CourseID)
}

// ToMap serializes the student to a flat mapping of primitive fields.
func (s *Student) ToMap() map[string]any {
	m := s.toMap()
	m["student_id"] = s.StudentID
	m["registered_courses"] = s.RegisteredCourses
	return m
}

// StudentFromMap rebuilds a Student from a mapping produced by ToMap
// (or decoded from a students.json record). Field validation runs
// exactly as in NewStudent and any failure is returned to the caller;
// a malformed record never yields a partially built student.
func StudentFromMap(m map[string]any) (*Student, error) {
	id := stringField(m, "student_id")
	if err := validation.Require(id, "Student ID"); err != nil {
		return nil, err
	}
	s, err := NewStudent(stringField(m, "name"), m["age"], stringField(m, "email"), id)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", id, err)
	}
	s.RegisteredCourses = stringList(m, "registered_courses")
	return s, nil
}

// Label returns the short display string used by selection UIs,
// e.g. "S1 - Ann".
func (s *Student) Label() string {
	return fmt.Sprintf("%s - %s", s.StudentID, s.Name)
}
