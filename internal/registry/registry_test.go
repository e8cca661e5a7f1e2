package registry

import (
	"errors"
	"testing"

	"github.com/aanand-mishra/school-records/internal/storage"
	"github.com/aanand-mishra/school-records/internal/types"
)

func seeded(t *testing.T) *Registry {
	t.Helper()
	r := New(nil)
	st, err := types.NewStudent("Ann", 20, "ann@x.com", "S1")
	if err != nil {
		t.Fatalf("NewStudent: %v", err)
	}
	ins, err := types.NewInstructor("Maria", 40, "maria@x.com", "I1")
	if err != nil {
		t.Fatalf("NewInstructor: %v", err)
	}
	c, err := types.NewCourse("C1", "Algebra")
	if err != nil {
		t.Fatalf("NewCourse: %v", err)
	}
	if err := r.AddStudent(st); err != nil {
		t.Fatalf("AddStudent: %v", err)
	}
	if err := r.AddInstructor(ins); err != nil {
		t.Fatalf("AddInstructor: %v", err)
	}
	if err := r.AddCourse(c); err != nil {
		t.Fatalf("AddCourse: %v", err)
	}
	return r
}

func TestAdd_RejectsDuplicateIDs(t *testing.T) {
	r := seeded(t)

	st, err := types.NewStudent("Bob", 30, "bob@x.com", "S1")
	if err != nil {
		t.Fatalf("NewStudent: %v", err)
	}
	if err := r.AddStudent(st); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for student, got %v", err)
	}

	c, err := types.NewCourse("C1", "Geometry")
	if err != nil {
		t.Fatalf("NewCourse: %v", err)
	}
	if err := r.AddCourse(c); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for course, got %v", err)
	}

	if len(r.Students()) != 1 || len(r.Courses()) != 1 {
		t.Fatalf("collections changed on rejected add")
	}
}

func TestRegisterStudent_WiresBothSides(t *testing.T) {
	r := seeded(t)

	if err := r.RegisterStudent("S1", "C1"); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}

	st := r.FindStudent("S1")
	if len(st.RegisteredCourses) != 1 || st.RegisteredCourses[0] != "C1" {
		t.Fatalf("expected C1 in registered courses, got %v", st.RegisteredCourses)
	}
	c := r.FindCourse("C1")
	if len(c.EnrolledStudents) != 1 || c.EnrolledStudents[0].StudentID != "S1" {
		t.Fatalf("expected S1 enrolled, got %+v", c.EnrolledStudents)
	}

	// Registering again changes neither side.
	if err := r.RegisterStudent("S1", "C1"); err != nil {
		t.Fatalf("second RegisterStudent: %v", err)
	}
	if len(st.RegisteredCourses) != 1 || len(c.EnrolledStudents) != 1 {
		t.Fatalf("expected registration to stay idempotent")
	}
}

func TestRegisterStudent_UnknownIDs(t *testing.T) {
	r := seeded(t)
	if err := r.RegisterStudent("S9", "C1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for student, got %v", err)
	}
	if err := r.RegisterStudent("S1", "C9"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for course, got %v", err)
	}
}

func TestAssignInstructor_ReplacesExisting(t *testing.T) {
	r := seeded(t)
	i2, err := types.NewInstructor("Bob", 50, "bob@x.com", "I2")
	if err != nil {
		t.Fatalf("NewInstructor: %v", err)
	}
	if err := r.AddInstructor(i2); err != nil {
		t.Fatalf("AddInstructor: %v", err)
	}

	if err := r.AssignInstructor("I2", "C1"); err != nil {
		t.Fatalf("assign I2: %v", err)
	}
	if err := r.AssignInstructor("I1", "C1"); err != nil {
		t.Fatalf("assign I1: %v", err)
	}

	c := r.FindCourse("C1")
	if c.Instructor == nil || c.Instructor.InstructorID != "I1" {
		t.Fatalf("expected I1 as the sole instructor, got %+v", c.Instructor)
	}
}

func TestDeleteCourse_CascadesReferences(t *testing.T) {
	r := seeded(t)
	if err := r.RegisterStudent("S1", "C1"); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	if err := r.AssignInstructor("I1", "C1"); err != nil {
		t.Fatalf("AssignInstructor: %v", err)
	}

	if err := r.DeleteCourse("C1"); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}

	if r.FindCourse("C1") != nil {
		t.Fatalf("expected course removed")
	}
	if got := r.FindStudent("S1").RegisteredCourses; len(got) != 0 {
		t.Fatalf("expected C1 stripped from student, got %v", got)
	}
	if got := r.FindInstructor("I1").AssignedCourses; len(got) != 0 {
		t.Fatalf("expected C1 stripped from instructor, got %v", got)
	}
}

func TestDeleteStudent_CascadesEnrollment(t *testing.T) {
	r := seeded(t)
	if err := r.RegisterStudent("S1", "C1"); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}

	if err := r.DeleteStudent("S1"); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if r.FindStudent("S1") != nil {
		t.Fatalf("expected student removed")
	}
	if got := r.FindCourse("C1").EnrolledStudents; len(got) != 0 {
		t.Fatalf("expected enrollment cleared, got %+v", got)
	}
}

func TestDeleteInstructor_ClearsCourseReference(t *testing.T) {
	r := seeded(t)
	if err := r.AssignInstructor("I1", "C1"); err != nil {
		t.Fatalf("AssignInstructor: %v", err)
	}

	if err := r.DeleteInstructor("I1"); err != nil {
		t.Fatalf("DeleteInstructor: %v", err)
	}
	if r.FindInstructor("I1") != nil {
		t.Fatalf("expected instructor removed")
	}
	if c := r.FindCourse("C1"); c.Instructor != nil {
		t.Fatalf("expected course instructor cleared, got %+v", c.Instructor)
	}
}

func TestDelete_UnknownID(t *testing.T) {
	r := seeded(t)
	if err := r.DeleteStudent("S9"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := r.DeleteCourse("C9"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
