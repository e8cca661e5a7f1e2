package registry

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportCSV writes the current collections as CSV: a Type,ID,Name,Email
// header, then one row per student, instructor, and course, in that
// order. Courses have no email; their Email column is "-".
func (r *Registry) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Type", "ID", "Name", "Email"}); err != nil {
		return fmt.Errorf("ExportCSV: header: %w", err)
	}
	for _, s := range r.students {
		if err := cw.Write([]string{"Student", s.StudentID, s.Name, s.Email()}); err != nil {
			return fmt.Errorf("ExportCSV: student %s: %w", s.StudentID, err)
		}
	}
	for _, i := range r.instructors {
		if err := cw.Write([]string{"Instructor", i.InstructorID, i.Name, i.Email()}); err != nil {
			return fmt.Errorf("ExportCSV: instructor %s: %w", i.InstructorID, err)
		}
	}
	for _, c := range r.courses {
		if err := cw.Write([]string{"Course", c.CourseID, c.CourseName, "-"}); err != nil {
			return fmt.Errorf("ExportCSV: course %s: %w", c.CourseID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
