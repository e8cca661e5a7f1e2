package registry

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aanand-mishra/school-records/internal/storage/jsonfile"
	"github.com/aanand-mishra/school-records/internal/types"
)

// Default file names, one array-of-objects file per entity kind.
const (
	StudentsFile    = "students.json"
	InstructorsFile = "instructors.json"
	CoursesFile     = "courses.json"
)

// SaveStudents upserts the student collection into filename keyed by
// student_id. Records already in the file but absent from the
// collection survive untouched.
func (r *Registry) SaveStudents(filename string) error {
	return jsonfile.Save(filename, r.students, "student_id")
}

// SaveInstructors upserts the instructor collection keyed by
// instructor_id.
func (r *Registry) SaveInstructors(filename string) error {
	return jsonfile.Save(filename, r.instructors, "instructor_id")
}

// SaveCourses upserts the course collection keyed by course_id.
func (r *Registry) SaveCourses(filename string) error {
	return jsonfile.Save(filename, r.courses, "course_id")
}

// SaveAll writes all three files into dir.
func (r *Registry) SaveAll(dir string) error {
	if err := r.SaveStudents(filepath.Join(dir, StudentsFile)); err != nil {
		return fmt.Errorf("SaveAll: students: %w", err)
	}
	if err := r.SaveInstructors(filepath.Join(dir, InstructorsFile)); err != nil {
		return fmt.Errorf("SaveAll: instructors: %w", err)
	}
	if err := r.SaveCourses(filepath.Join(dir, CoursesFile)); err != nil {
		return fmt.Errorf("SaveAll: courses: %w", err)
	}
	return nil
}

// LoadStudents merges students from filename into the collection.
//
// Merge policy: a loaded record whose id already exists in memory is
// dropped (first-loaded-wins across repeated loads); everything else
// appends in file order. A record that fails validation is skipped and
// logged; one bad row never aborts the batch, and it never produces a
// half-built entity either.
func (r *Registry) LoadStudents(filename string) error {
	records, err := loadRecords(filename)
	if err != nil {
		return err
	}
	for _, m := range records {
		st, err := types.StudentFromMap(m)
		if err != nil {
			r.log.Warn("skipping invalid student record",
				slog.String("file", filename), slog.String("error", err.Error()))
			continue
		}
		if r.FindStudent(st.StudentID) != nil {
			continue
		}
		r.students = append(r.students, st)
	}
	return nil
}

// LoadInstructors merges instructors from filename; same policy as
// LoadStudents.
func (r *Registry) LoadInstructors(filename string) error {
	records, err := loadRecords(filename)
	if err != nil {
		return err
	}
	for _, m := range records {
		ins, err := types.InstructorFromMap(m)
		if err != nil {
			r.log.Warn("skipping invalid instructor record",
				slog.String("file", filename), slog.String("error", err.Error()))
			continue
		}
		if r.FindInstructor(ins.InstructorID) != nil {
			continue
		}
		r.instructors = append(r.instructors, ins)
	}
	return nil
}

// LoadCourses merges courses from filename; same policy as
// LoadStudents.
func (r *Registry) LoadCourses(filename string) error {
	records, err := loadRecords(filename)
	if err != nil {
		return err
	}
	for _, m := range records {
		c, err := types.CourseFromMap(m)
		if err != nil {
			r.log.Warn("skipping invalid course record",
				slog.String("file", filename), slog.String("error", err.Error()))
			continue
		}
		if r.FindCourse(c.CourseID) != nil {
			continue
		}
		r.courses = append(r.courses, c)
	}
	return nil
}

// LoadAll loads all three files from dir. Load failures (missing or
// malformed files) propagate; the caller decides whether a missing
// file is fatal.
func (r *Registry) LoadAll(dir string) error {
	if err := r.LoadStudents(filepath.Join(dir, StudentsFile)); err != nil {
		return fmt.Errorf("LoadAll: students: %w", err)
	}
	if err := r.LoadInstructors(filepath.Join(dir, InstructorsFile)); err != nil {
		return fmt.Errorf("LoadAll: instructors: %w", err)
	}
	if err := r.LoadCourses(filepath.Join(dir, CoursesFile)); err != nil {
		return fmt.Errorf("LoadAll: courses: %w", err)
	}
	return nil
}

// loadRecords parses a JSON array file into object records. Non-object
// elements are ignored, and a non-array document yields no records:
// jsonfile.Load accepts any JSON value, but only arrays of objects
// mean anything to the registry.
func loadRecords(filename string) ([]map[string]any, error) {
	data, err := jsonfile.Load(filename)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([]any)
	if !ok {
		return nil, nil
	}
	records := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records, nil
}
