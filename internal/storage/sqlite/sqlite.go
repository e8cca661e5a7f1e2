// Package sqlite provides the SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver. That
// matches the intended deployment: single user, single process.
//
// Importing mattn/go-sqlite3 registers the driver with database/sql
// via its init(); the package is also imported by name here so
// constraint failures can be recognized through sqlite3.Error.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aanand-mishra/school-records/internal/config"
	"github.com/aanand-mishra/school-records/internal/storage"
	"github.com/aanand-mishra/school-records/internal/types"

	"github.com/mattn/go-sqlite3"
)

// schema creates the three entity tables and the two association
// tables. CREATE TABLE IF NOT EXISTS is idempotent and safe on every
// startup.
//
// The association tables carry composite primary keys and nothing
// more: in particular, instructor_courses does not stop a course from
// having several instructors at the storage layer. Single-instructor
// semantics live in the in-memory model (Course.SetInstructor), which
// is the boundary the UI talks to.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	student_id TEXT PRIMARY KEY,
	name       TEXT    NOT NULL,
	age        INTEGER NOT NULL,
	email      TEXT    UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS instructors (
	instructor_id TEXT PRIMARY KEY,
	name          TEXT    NOT NULL,
	age           INTEGER NOT NULL,
	email         TEXT    UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	course_id   TEXT PRIMARY KEY,
	course_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS student_courses (
	student_id TEXT,
	course_id  TEXT,
	FOREIGN KEY (student_id) REFERENCES students (student_id),
	FOREIGN KEY (course_id)  REFERENCES courses (course_id),
	PRIMARY KEY (student_id, course_id)
);

CREATE TABLE IF NOT EXISTS instructor_courses (
	instructor_id TEXT,
	course_id     TEXT,
	FOREIGN KEY (instructor_id) REFERENCES instructors (instructor_id),
	FOREIGN KEY (course_id)     REFERENCES courses (course_id),
	PRIMARY KEY (instructor_id, course_id)
);
`

// SQLite is the concrete implementation of storage.Storage. It holds a
// *sql.DB (a managed connection pool, safe for concurrent use) and the
// file path, which Backup needs.
type SQLite struct {
	Db   *sql.DB
	path string
}

// New opens the SQLite database at cfg.StoragePath, creates the tables
// if they do not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db, path: cfg.StoragePath}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// isConstraint reports whether err is a sqlite3 integrity violation
// (duplicate primary key, duplicate unique column, ...). Used to
// translate driver errors into the storage sentinels so callers never
// see a raw sqlite3 error for a uniqueness failure.
func isConstraint(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// AddStudent inserts one student row. A primary-key or unique-email
// collision comes back as storage.ErrDuplicateKey.
func (s *SQLite) AddStudent(st *types.Student) error {
	if st == nil {
		return types.ErrNilEntity
	}

	stmt, err := s.Db.Prepare(
		"INSERT INTO students (student_id, name, age, email) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("AddStudent: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(st.StudentID, st.Name, st.Age, st.Email()); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: student id or email already in use: %s",
				storage.ErrDuplicateKey, st.StudentID)
		}
		return fmt.Errorf("AddStudent: exec: %w", err)
	}

	return nil
}

// GetAllStudents returns every student row mapped through the entity
// constructor, so each returned student satisfies the model's
// invariants. Association lists are empty; see the interface doc.
func (s *SQLite) GetAllStudents() ([]*types.Student, error) {
	rows, err := s.Db.Query("SELECT student_id, name, age, email FROM students")
	if err != nil {
		return nil, fmt.Errorf("GetAllStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty table serializes as [], not null.
	students := make([]*types.Student, 0)

	for rows.Next() {
		var id, name, email string
		var age int
		if err := rows.Scan(&id, &name, &age, &email); err != nil {
			return nil, fmt.Errorf("GetAllStudents: scan row: %w", err)
		}
		st, err := types.NewStudent(name, age, email, id)
		if err != nil {
			return nil, fmt.Errorf("GetAllStudents: row %s: %w", id, err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAllStudents: rows iteration: %w", err)
	}

	return students, nil
}

// DeleteStudent removes the student row and cascades into
// student_courses, inside one transaction so a crash cannot leave a
// dangling association row.
func (s *SQLite) DeleteStudent(studentID string) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("DeleteStudent: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM students WHERE student_id = ?", studentID); err != nil {
		return fmt.Errorf("DeleteStudent: delete row: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM student_courses WHERE student_id = ?", studentID); err != nil {
		return fmt.Errorf("DeleteStudent: delete registrations: %w", err)
	}

	return tx.Commit()
}

// ─────────────────────────────────────────────────────────────────────────────
// Instructors
// ─────────────────────────────────────────────────────────────────────────────

// AddInstructor inserts one instructor row; duplicate id or email
// comes back as storage.ErrDuplicateKey.
func (s *SQLite) AddInstructor(ins *types.Instructor) error {
	if ins == nil {
		return types.ErrNilEntity
	}

	stmt, err := s.Db.Prepare(
		"INSERT INTO instructors (instructor_id, name, age, email) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("AddInstructor: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(ins.InstructorID, ins.Name, ins.Age, ins.Email()); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: instructor id or email already in use: %s",
				storage.ErrDuplicateKey, ins.InstructorID)
		}
		return fmt.Errorf("AddInstructor: exec: %w", err)
	}

	return nil
}

// GetAllInstructors returns every instructor row, associations empty.
func (s *SQLite) GetAllInstructors() ([]*types.Instructor, error) {
	rows, err := s.Db.Query("SELECT instructor_id, name, age, email FROM instructors")
	if err != nil {
		return nil, fmt.Errorf("GetAllInstructors: query: %w", err)
	}
	defer rows.Close()

	instructors := make([]*types.Instructor, 0)

	for rows.Next() {
		var id, name, email string
		var age int
		if err := rows.Scan(&id, &name, &age, &email); err != nil {
			return nil, fmt.Errorf("GetAllInstructors: scan row: %w", err)
		}
		ins, err := types.NewInstructor(name, age, email, id)
		if err != nil {
			return nil, fmt.Errorf("GetAllInstructors: row %s: %w", id, err)
		}
		instructors = append(instructors, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAllInstructors: rows iteration: %w", err)
	}

	return instructors, nil
}

// DeleteInstructor removes the instructor row and cascades into
// instructor_courses.
func (s *SQLite) DeleteInstructor(instructorID string) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("DeleteInstructor: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM instructors WHERE instructor_id = ?", instructorID); err != nil {
		return fmt.Errorf("DeleteInstructor: delete row: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM instructor_courses WHERE instructor_id = ?", instructorID); err != nil {
		return fmt.Errorf("DeleteInstructor: delete assignments: %w", err)
	}

	return tx.Commit()
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// AddCourse inserts one course row; a duplicate course_id comes back
// as storage.ErrDuplicateKey.
func (s *SQLite) AddCourse(c *types.Course) error {
	if c == nil {
		return types.ErrNilEntity
	}

	stmt, err := s.Db.Prepare(
		"INSERT INTO courses (course_id, course_name) VALUES (?, ?)",
	)
	if err != nil {
		return fmt.Errorf("AddCourse: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(c.CourseID, c.CourseName); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: course already exists: %s",
				storage.ErrDuplicateKey, c.CourseID)
		}
		return fmt.Errorf("AddCourse: exec: %w", err)
	}

	return nil
}

// GetAllCourses returns every course row with no instructor and no
// enrolled students attached.
func (s *SQLite) GetAllCourses() ([]*types.Course, error) {
	rows, err := s.Db.Query("SELECT course_id, course_name FROM courses")
	if err != nil {
		return nil, fmt.Errorf("GetAllCourses: query: %w", err)
	}
	defer rows.Close()

	courses := make([]*types.Course, 0)

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("GetAllCourses: scan row: %w", err)
		}
		c, err := types.NewCourse(id, name)
		if err != nil {
			return nil, fmt.Errorf("GetAllCourses: row %s: %w", id, err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAllCourses: rows iteration: %w", err)
	}

	return courses, nil
}

// DeleteCourse removes the course row and cascades into BOTH
// association tables.
func (s *SQLite) DeleteCourse(courseID string) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("DeleteCourse: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM courses WHERE course_id = ?", courseID); err != nil {
		return fmt.Errorf("DeleteCourse: delete row: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM student_courses WHERE course_id = ?", courseID); err != nil {
		return fmt.Errorf("DeleteCourse: delete registrations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM instructor_courses WHERE course_id = ?", courseID); err != nil {
		return fmt.Errorf("DeleteCourse: delete assignments: %w", err)
	}

	return tx.Commit()
}

// ─────────────────────────────────────────────────────────────────────────────
// Associations
// ─────────────────────────────────────────────────────────────────────────────

// RegisterStudentCourse inserts one student-course pair. Inserting the
// same pair twice violates the composite primary key and comes back as
// storage.ErrDuplicateAssignment.
func (s *SQLite) RegisterStudentCourse(studentID, courseID string) error {
	stmt, err := s.Db.Prepare(
		"INSERT INTO student_courses (student_id, course_id) VALUES (?, ?)",
	)
	if err != nil {
		return fmt.Errorf("RegisterStudentCourse: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(studentID, courseID); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: registration already exists: %s/%s",
				storage.ErrDuplicateAssignment, studentID, courseID)
		}
		return fmt.Errorf("RegisterStudentCourse: exec: %w", err)
	}

	return nil
}

// AssignInstructorCourse inserts one instructor-course pair; a repeat
// of the same pair comes back as storage.ErrDuplicateAssignment.
func (s *SQLite) AssignInstructorCourse(instructorID, courseID string) error {
	stmt, err := s.Db.Prepare(
		"INSERT INTO instructor_courses (instructor_id, course_id) VALUES (?, ?)",
	)
	if err != nil {
		return fmt.Errorf("AssignInstructorCourse: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(instructorID, courseID); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: assignment already exists: %s/%s",
				storage.ErrDuplicateAssignment, instructorID, courseID)
		}
		return fmt.Errorf("AssignInstructorCourse: exec: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Backup
// ─────────────────────────────────────────────────────────────────────────────

// Backup copies the database file to path, or to
// backup_<YYYYMMDD_HHMMSS>.db in the current directory when path is
// empty. The returned message is suitable for showing to a user as-is.
func (s *SQLite) Backup(path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	}

	src, err := os.Open(s.path)
	if err != nil {
		return fmt.Sprintf("Backup failed: %v", err), fmt.Errorf("Backup: open source: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Sprintf("Backup failed: %v", err), fmt.Errorf("Backup: create target: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Sprintf("Backup failed: %v", err), fmt.Errorf("Backup: copy: %w", err)
	}

	return fmt.Sprintf("Database backed up successfully to %s", path), nil
}
