package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/school-records/internal/config"
	"github.com/aanand-mishra/school-records/internal/storage"
	"github.com/aanand-mishra/school-records/internal/types"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "school.db")}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func addStudent(t *testing.T, db *SQLite, name string, age int, email, id string) {
	t.Helper()
	st, err := types.NewStudent(name, age, email, id)
	if err != nil {
		t.Fatalf("NewStudent(%q): %v", id, err)
	}
	if err := db.AddStudent(st); err != nil {
		t.Fatalf("AddStudent(%q): %v", id, err)
	}
}

func addCourse(t *testing.T, db *SQLite, id, name string) {
	t.Helper()
	c, err := types.NewCourse(id, name)
	if err != nil {
		t.Fatalf("NewCourse(%q): %v", id, err)
	}
	if err := db.AddCourse(c); err != nil {
		t.Fatalf("AddCourse(%q): %v", id, err)
	}
}

func countRows(t *testing.T, db *SQLite, table string) int {
	t.Helper()
	var n int
	if err := db.Db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestAddStudent_DuplicateID(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")

	dup, err := types.NewStudent("Bob", 30, "bob@x.com", "S1")
	if err != nil {
		t.Fatalf("NewStudent: %v", err)
	}
	if err := db.AddStudent(dup); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if n := countRows(t, db, "students"); n != 1 {
		t.Fatalf("expected row count unchanged at 1, got %d", n)
	}
}

func TestAddStudent_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")

	dup, err := types.NewStudent("Bob", 30, "ann@x.com", "S2")
	if err != nil {
		t.Fatalf("NewStudent: %v", err)
	}
	if err := db.AddStudent(dup); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for duplicate email, got %v", err)
	}
	if n := countRows(t, db, "students"); n != 1 {
		t.Fatalf("expected row count unchanged at 1, got %d", n)
	}
}

func TestGetAllStudents_EmptyAssociations(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")
	addCourse(t, db, "C1", "Algebra")
	if err := db.RegisterStudentCourse("S1", "C1"); err != nil {
		t.Fatalf("RegisterStudentCourse: %v", err)
	}

	students, err := db.GetAllStudents()
	if err != nil {
		t.Fatalf("GetAllStudents: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(students))
	}
	st := students[0]
	if st.StudentID != "S1" || st.Name != "Ann" || st.Age != 20 || st.Email() != "ann@x.com" {
		t.Fatalf("unexpected student: %+v", st)
	}
	// The loader does not join associations; callers resolve those
	// separately.
	if len(st.RegisteredCourses) != 0 {
		t.Fatalf("expected empty association list, got %v", st.RegisteredCourses)
	}
}

func TestGetAllStudents_EmptyTable(t *testing.T) {
	db := newTestDB(t)
	students, err := db.GetAllStudents()
	if err != nil {
		t.Fatalf("GetAllStudents: %v", err)
	}
	if students == nil || len(students) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", students)
	}
}

func TestRegisterStudentCourse_Duplicate(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")
	addCourse(t, db, "C1", "Algebra")

	if err := db.RegisterStudentCourse("S1", "C1"); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := db.RegisterStudentCourse("S1", "C1"); !errors.Is(err, storage.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
	if n := countRows(t, db, "student_courses"); n != 1 {
		t.Fatalf("expected 1 association row, got %d", n)
	}
}

func TestAssignInstructorCourse_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ins, err := types.NewInstructor("Maria", 40, "maria@x.com", "I1")
	if err != nil {
		t.Fatalf("NewInstructor: %v", err)
	}
	if err := db.AddInstructor(ins); err != nil {
		t.Fatalf("AddInstructor: %v", err)
	}
	addCourse(t, db, "C1", "Algebra")

	if err := db.AssignInstructorCourse("I1", "C1"); err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if err := db.AssignInstructorCourse("I1", "C1"); !errors.Is(err, storage.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
}

func TestDeleteStudent_CascadesIntoRegistrations(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")
	addCourse(t, db, "C1", "Algebra")
	if err := db.RegisterStudentCourse("S1", "C1"); err != nil {
		t.Fatalf("RegisterStudentCourse: %v", err)
	}

	if err := db.DeleteStudent("S1"); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if n := countRows(t, db, "students"); n != 0 {
		t.Fatalf("expected students empty, got %d rows", n)
	}
	if n := countRows(t, db, "student_courses"); n != 0 {
		t.Fatalf("expected registrations cascaded away, got %d rows", n)
	}
}

func TestDeleteCourse_CascadesIntoBothAssociationTables(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")
	ins, err := types.NewInstructor("Maria", 40, "maria@x.com", "I1")
	if err != nil {
		t.Fatalf("NewInstructor: %v", err)
	}
	if err := db.AddInstructor(ins); err != nil {
		t.Fatalf("AddInstructor: %v", err)
	}
	addCourse(t, db, "C1", "Algebra")
	if err := db.RegisterStudentCourse("S1", "C1"); err != nil {
		t.Fatalf("RegisterStudentCourse: %v", err)
	}
	if err := db.AssignInstructorCourse("I1", "C1"); err != nil {
		t.Fatalf("AssignInstructorCourse: %v", err)
	}

	if err := db.DeleteCourse("C1"); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}
	if n := countRows(t, db, "courses"); n != 0 {
		t.Fatalf("expected courses empty, got %d rows", n)
	}
	if n := countRows(t, db, "student_courses"); n != 0 {
		t.Fatalf("expected student_courses cascaded away, got %d rows", n)
	}
	if n := countRows(t, db, "instructor_courses"); n != 0 {
		t.Fatalf("expected instructor_courses cascaded away, got %d rows", n)
	}
	// The people themselves survive.
	if n := countRows(t, db, "students"); n != 1 {
		t.Fatalf("expected student untouched, got %d rows", n)
	}
	if n := countRows(t, db, "instructors"); n != 1 {
		t.Fatalf("expected instructor untouched, got %d rows", n)
	}
}

func TestDeleteInstructor_CascadesIntoAssignments(t *testing.T) {
	db := newTestDB(t)
	ins, err := types.NewInstructor("Maria", 40, "maria@x.com", "I1")
	if err != nil {
		t.Fatalf("NewInstructor: %v", err)
	}
	if err := db.AddInstructor(ins); err != nil {
		t.Fatalf("AddInstructor: %v", err)
	}
	addCourse(t, db, "C1", "Algebra")
	if err := db.AssignInstructorCourse("I1", "C1"); err != nil {
		t.Fatalf("AssignInstructorCourse: %v", err)
	}

	if err := db.DeleteInstructor("I1"); err != nil {
		t.Fatalf("DeleteInstructor: %v", err)
	}
	if n := countRows(t, db, "instructors"); n != 0 {
		t.Fatalf("expected instructors empty, got %d rows", n)
	}
	if n := countRows(t, db, "instructor_courses"); n != 0 {
		t.Fatalf("expected assignments cascaded away, got %d rows", n)
	}
}

func TestBackup_CopiesDatabaseFile(t *testing.T) {
	db := newTestDB(t)
	addStudent(t, db, "Ann", 20, "ann@x.com", "S1")

	target := filepath.Join(t.TempDir(), "copy.db")
	msg, err := db.Backup(target)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected a status message")
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("expected backup file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected a non-empty backup file")
	}
}

func TestBackup_MissingSourceReportsFailure(t *testing.T) {
	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "school.db")}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()
	if err := os.Remove(cfg.StoragePath); err != nil {
		t.Fatalf("remove: %v", err)
	}

	msg, err := db.Backup(filepath.Join(t.TempDir(), "copy.db"))
	if err == nil {
		t.Fatalf("expected an error for a missing source file")
	}
	if msg == "" {
		t.Fatalf("expected a failure message alongside the error")
	}
}
