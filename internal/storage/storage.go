// Package storage defines the Storage interface, the contract any
// relational backend must satisfy, plus the error taxonomy shared by
// every persistence layer in the application.
//
// The registry and the CLI depend only on this interface. Swapping the
// SQLite backend for anything else means implementing these methods and
// changing one line at startup.
package storage

import (
	"errors"

	"github.com/aanand-mishra/school-records/internal/types"
)

// Persistence errors. Backends translate their driver's failures into
// these sentinels (wrapped with context) and never leak a raw driver
// error for a constraint violation.
var (
	// ErrDuplicateKey means an insert collided with an existing
	// primary key or unique email. The attempted write is rejected
	// wholesale; no partial row is left behind.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDuplicateAssignment means a student-course or
	// instructor-course pair already exists.
	ErrDuplicateAssignment = errors.New("duplicate assignment")

	// ErrNotFound means the requested file or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformed means stored content could not be parsed.
	ErrMalformed = errors.New("malformed data")
)

// Storage is the relational persistence contract.
//
// The GetAll* methods return freshly constructed entities with EMPTY
// association lists: the loader intentionally does not join
// student_courses / instructor_courses into the objects it returns.
// Callers that need associations resolve them separately.
type Storage interface {
	// AddStudent inserts one student row. Fails with ErrDuplicateKey
	// when the student_id or email is already taken.
	AddStudent(st *types.Student) error

	// GetAllStudents returns every student row, associations empty.
	// Returns an empty slice (not nil) when the table is empty.
	GetAllStudents() ([]*types.Student, error)

	// DeleteStudent removes the student row and every
	// student_courses row referencing it.
	DeleteStudent(studentID string) error

	// AddInstructor inserts one instructor row; ErrDuplicateKey on
	// an id or email collision.
	AddInstructor(ins *types.Instructor) error

	// GetAllInstructors returns every instructor row, associations
	// empty.
	GetAllInstructors() ([]*types.Instructor, error)

	// DeleteInstructor removes the instructor row and every
	// instructor_courses row referencing it.
	DeleteInstructor(instructorID string) error

	// AddCourse inserts one course row; ErrDuplicateKey on collision.
	AddCourse(c *types.Course) error

	// GetAllCourses returns every course row with no instructor and
	// no enrolled students attached.
	GetAllCourses() ([]*types.Course, error)

	// DeleteCourse removes the course row and cascades into BOTH
	// association tables.
	DeleteCourse(courseID string) error

	// RegisterStudentCourse inserts one student-course pair; fails
	// with ErrDuplicateAssignment if the pair already exists.
	RegisterStudentCourse(studentID, courseID string) error

	// AssignInstructorCourse inserts one instructor-course pair;
	// fails with ErrDuplicateAssignment if the pair already exists.
	AssignInstructorCourse(instructorID, courseID string) error

	// Backup copies the underlying storage file to path, or to a
	// timestamped default name when path is empty. It returns a
	// human-readable status message alongside any error.
	Backup(path string) (string, error)
}
