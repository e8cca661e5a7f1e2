// Package registry owns the in-memory collections of students,
// instructors, and courses that the forms share: one explicit object
// passed by reference to whatever consumes it, instead of global
// mutable lists.
//
// The registry is where cross-entity consistency lives: unique ids on
// add, both sides of a registration updated together, and cascade
// removal of dangling references on delete.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/school-records/internal/storage"
	"github.com/aanand-mishra/school-records/internal/types"
	"github.com/aanand-mishra/school-records/internal/validation"
)

// Registry holds the three collections. Not safe for concurrent use;
// the intended deployment is single-user, single-process.
type Registry struct {
	log *slog.Logger

	students    []*types.Student
	instructors []*types.Instructor
	courses     []*types.Course
}

// New returns an empty registry logging through log, or through
// slog.Default() when log is nil.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:         log,
		students:    []*types.Student{},
		instructors: []*types.Instructor{},
		courses:     []*types.Course{},
	}
}

// Students returns the student collection in insertion order. The
// slice is shared, not copied: the forms rely on seeing each other's
// mutations.
func (r *Registry) Students() []*types.Student { return r.students }

// Instructors returns the instructor collection in insertion order.
func (r *Registry) Instructors() []*types.Instructor { return r.instructors }

// Courses returns the course collection in insertion order.
func (r *Registry) Courses() []*types.Course { return r.courses }

// ─────────────────────────────────────────────────────────────────────────────
// Add / Find / Delete
// ─────────────────────────────────────────────────────────────────────────────

// AddStudent appends a student, enforcing id uniqueness within the
// collection (case-sensitive, after trimming).
func (r *Registry) AddStudent(st *types.Student) error {
	if st == nil {
		return types.ErrNilEntity
	}
	if !validation.UniqueID(st.StudentID, r.students,
		func(s *types.Student) string { return s.StudentID }, nil) {
		return fmt.Errorf("%w: student id must be unique: %s",
			storage.ErrDuplicateKey, st.StudentID)
	}
	r.students = append(r.students, st)
	return nil
}

// AddInstructor appends an instructor, enforcing id uniqueness.
func (r *Registry) AddInstructor(ins *types.Instructor) error {
	if ins == nil {
		return types.ErrNilEntity
	}
	if !validation.UniqueID(ins.InstructorID, r.instructors,
		func(i *types.Instructor) string { return i.InstructorID }, nil) {
		return fmt.Errorf("%w: instructor id must be unique: %s",
			storage.ErrDuplicateKey, ins.InstructorID)
	}
	r.instructors = append(r.instructors, ins)
	return nil
}

// AddCourse appends a course, enforcing id uniqueness.
func (r *Registry) AddCourse(c *types.Course) error {
	if c == nil {
		return types.ErrNilEntity
	}
	if !validation.UniqueID(c.CourseID, r.courses,
		func(c *types.Course) string { return c.CourseID }, nil) {
		return fmt.Errorf("%w: course id must be unique: %s",
			storage.ErrDuplicateKey, c.CourseID)
	}
	r.courses = append(r.courses, c)
	return nil
}

// FindStudent returns the student with the given id, or nil.
func (r *Registry) FindStudent(studentID string) *types.Student {
	for _, s := range r.students {
		if s.StudentID == studentID {
			return s
		}
	}
	return nil
}

// FindInstructor returns the instructor with the given id, or nil.
func (r *Registry) FindInstructor(instructorID string) *types.Instructor {
	for _, i := range r.instructors {
		if i.InstructorID == instructorID {
			return i
		}
	}
	return nil
}

// FindCourse returns the course with the given id, or nil.
func (r *Registry) FindCourse(courseID string) *types.Course {
	for _, c := range r.courses {
		if c.CourseID == courseID {
			return c
		}
	}
	return nil
}

// DeleteStudent removes the student and every reference to them: the
// student disappears from each course's enrollment list.
func (r *Registry) DeleteStudent(studentID string) error {
	if r.FindStudent(studentID) == nil {
		return fmt.Errorf("%w: student %s", storage.ErrNotFound, studentID)
	}
	kept := r.students[:0]
	for _, s := range r.students {
		if s.StudentID != studentID {
			kept = append(kept, s)
		}
	}
	r.students = kept
	for _, c := range r.courses {
		c.RemoveStudent(studentID)
	}
	return nil
}

// DeleteInstructor removes the instructor and clears them from any
// course that references them.
func (r *Registry) DeleteInstructor(instructorID string) error {
	if r.FindInstructor(instructorID) == nil {
		return fmt.Errorf("%w: instructor %s", storage.ErrNotFound, instructorID)
	}
	kept := r.instructors[:0]
	for _, i := range r.instructors {
		if i.InstructorID != instructorID {
			kept = append(kept, i)
		}
	}
	r.instructors = kept
	for _, c := range r.courses {
		if c.Instructor != nil && c.Instructor.InstructorID == instructorID {
			c.Instructor = nil
		}
	}
	return nil
}

// DeleteCourse removes the course and strips its id from every
// student's registered list and every instructor's assigned list.
func (r *Registry) DeleteCourse(courseID string) error {
	if r.FindCourse(courseID) == nil {
		return fmt.Errorf("%w: course %s", storage.ErrNotFound, courseID)
	}
	kept := r.courses[:0]
	for _, c := range r.courses {
		if c.CourseID != courseID {
			kept = append(kept, c)
		}
	}
	r.courses = kept
	for _, s := range r.students {
		s.RegisteredCourses = without(s.RegisteredCourses, courseID)
	}
	for _, i := range r.instructors {
		i.AssignedCourses = without(i.AssignedCourses, courseID)
	}
	return nil
}

func without(ids []string, drop string) []string {
	kept := ids[:0]
	for _, id := range ids {
		if id != drop {
			kept = append(kept, id)
		}
	}
	return kept
}

// ─────────────────────────────────────────────────────────────────────────────
// Relationships
// ─────────────────────────────────────────────────────────────────────────────

// RegisterStudent wires both sides of a registration: the course id
// joins the student's registered list, and the student joins the
// course's enrollment. Both operations are idempotent, so registering
// twice changes nothing.
func (r *Registry) RegisterStudent(studentID, courseID string) error {
	st := r.FindStudent(studentID)
	if st == nil {
		return fmt.Errorf("%w: student %s", storage.ErrNotFound, studentID)
	}
	c := r.FindCourse(courseID)
	if c == nil {
		return fmt.Errorf("%w: course %s", storage.ErrNotFound, courseID)
	}
	st.RegisterCourse(c)
	return c.AddStudent(st)
}

// AssignInstructor wires both sides of an assignment. The course keeps
// at most one instructor: assigning over an existing one replaces them
// (last write wins), which is where single-instructor semantics are
// enforced. The relational join table deliberately does not.
func (r *Registry) AssignInstructor(instructorID, courseID string) error {
	ins := r.FindInstructor(instructorID)
	if ins == nil {
		return fmt.Errorf("%w: instructor %s", storage.ErrNotFound, instructorID)
	}
	c := r.FindCourse(courseID)
	if c == nil {
		return fmt.Errorf("%w: course %s", storage.ErrNotFound, courseID)
	}
	ins.AssignCourse(c)
	return c.SetInstructor(ins)
}
