package types

import (
	"fmt"

	"github.com/aanand-mishra/school-records/internal/validation"
)

// Course ties an identifier and name to the people attached to it: at
// most one instructor (a direct back-reference, not just an id) and a
// set-like, insertion-ordered list of enrolled students.
type Course struct {
	CourseID         string
	CourseName       string
	Instructor       *Instructor
	EnrolledStudents []*Student
}

// NewCourse builds a Course. Both fields must be non-empty; the course
// starts with no instructor and no students.
func NewCourse(courseID, courseName string) (*Course, error) {
	if err := validation.Require(courseID, "Course ID"); err != nil {
		return nil, err
	}
	if err := validation.Require(courseName, "Course Name"); err != nil {
		return nil, err
	}
	return &Course{
		CourseID:         courseID,
		CourseName:       courseName,
		EnrolledStudents: []*Student{},
	}, nil
}

// SetInstructor assigns an instructor to the course, unconditionally
// replacing any current one (last write wins, no merge). A nil
// instructor is a precondition violation.
func (c *Course) SetInstructor(ins *Instructor) error {
	if ins == nil {
		return fmt.Errorf("%w: only an instructor can be assigned to a course", ErrNilEntity)
	}
	c.Instructor = ins
	return nil
}

// AddStudent enrolls a student. Enrolling a student whose id is
// already present is a no-op; order of first enrollment is preserved.
func (c *Course) AddStudent(st *Student) error {
	if st == nil {
		return fmt.Errorf("%w: only a student can be enrolled in a course", ErrNilEntity)
	}
	for _, s := range c.EnrolledStudents {
		if s.StudentID == st.StudentID {
			return nil
		}
	}
	c.EnrolledStudents = append(c.EnrolledStudents, st)
	return nil
}

// RemoveStudent drops the student with the given id from the
// enrollment list. Unknown ids are ignored.
func (c *Course) RemoveStudent(studentID string) {
	kept := c.EnrolledStudents[:0]
	for _, s := range c.EnrolledStudents {
		if s.StudentID != studentID {
			kept = append(kept, s)
		}
	}
	c.EnrolledStudents = kept
}

// ToMap serializes the course. The instructor nests as their own
// mapping (or nil), and each enrolled student nests as a mapping.
func (c *Course) ToMap() map[string]any {
	var instructor any
	if c.Instructor != nil {
		instructor = c.Instructor.ToMap()
	}
	students := make([]any, 0, len(c.EnrolledStudents))
	for _, s := range c.EnrolledStudents {
		students = append(students, s.ToMap())
	}
	return map[string]any{
		"course_id":         c.CourseID,
		"course_name":       c.CourseName,
		"instructor":        instructor,
		"enrolled_students": students,
	}
}

// CourseFromMap rebuilds a Course from a mapping produced by ToMap.
// Nested instructor and student records are rebuilt through their own
// factories, so a validation failure anywhere in the record surfaces
// as a typed error rather than a silently truncated course.
func CourseFromMap(m map[string]any) (*Course, error) {
	c, err := NewCourse(stringField(m, "course_id"), stringField(m, "course_name"))
	if err != nil {
		return nil, err
	}
	if raw, ok := m["instructor"].(map[string]any); ok {
		ins, err := InstructorFromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", c.CourseID, err)
		}
		c.Instructor = ins
	}
	if raw, ok := m["enrolled_students"].([]any); ok {
		for _, entry := range raw {
			sm, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			st, err := StudentFromMap(sm)
			if err != nil {
				return nil, fmt.Errorf("course %s: %w", c.CourseID, err)
			}
			if err := c.AddStudent(st); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Label returns the short display string used by selection UIs,
// e.g. "C1 - Algebra".
func (c *Course) Label() string {
	return fmt.Sprintf("%s - %s", c.CourseID, c.CourseName)
}
