package types

import (
	"fmt"

	"github.com/aanand-mishra/school-records/internal/validation"
)

// Instructor is a Person with an externally assigned identifier and the
// ordered list of course ids assigned to them.
type Instructor struct {
	Person
	InstructorID    string
	AssignedCourses []string
}

// NewInstructor builds an Instructor, validating name, age, and email.
func NewInstructor(name string, age any, email, instructorID string) (*Instructor, error) {
	p, err := newPerson(name, age, email)
	if err != nil {
		return nil, err
	}
	return &Instructor{
		Person:          p,
		InstructorID:    instructorID,
		AssignedCourses: []string{},
	}, nil
}

// AssignCourse appends the course's id to AssignedCourses. Assigning
// the same course twice is a no-op.
func (i *Instructor) AssignCourse(c *Course) {
	if c == nil {
		return
	}
	for _, id := range i.AssignedCourses {
		if id == c.CourseID {
			return
		}
	}
	i.AssignedCourses = append(i.AssignedCourses, c.CourseID)
}

// ToMap serializes the instructor to a flat mapping of primitive fields.
func (i *Instructor) ToMap() map[string]any {
	m := i.toMap()
	m["instructor_id"] = i.InstructorID
	m["assigned_courses"] = i.AssignedCourses
	return m
}

// InstructorFromMap rebuilds an Instructor from a mapping produced by
// ToMap. Validation failures propagate, exactly as in StudentFromMap.
func InstructorFromMap(m map[string]any) (*Instructor, error) {
	id := stringField(m, "instructor_id")
	if err := validation.Require(id, "Instructor ID"); err != nil {
		return nil, err
	}
	ins, err := NewInstructor(stringField(m, "name"), m["age"], stringField(m, "email"), id)
	if err != nil {
		return nil, fmt.Errorf("instructor %s: %w", id, err)
	}
	ins.AssignedCourses = stringList(m, "assigned_courses")
	return ins, nil
}

// Label returns the short display string used by selection UIs,
// e.g. "I1 - Maria".
func (i *Instructor) Label() string {
	return fmt.Sprintf("%s - %s", i.InstructorID, i.Name)
}
