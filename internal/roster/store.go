// Package roster loads the course roster from a CSV file.
package roster

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type rosterRow struct {
	StudentID string `csv:"Student ID"`
	FirstName string `csv:"First Name"`
	LastName  string `csv:"Last Name"`
	Email     string `csv:"Email"`
}

// Roster is an immutable, ordered set of students.
type Roster struct {
	students []domain.Student
	byID     map[string]int
}

func Load(path, emailDomain string) (*Roster, error) {
	data, err := os.ReadFile(path) //nolint:gosec // configured path
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	r, err := Parse(bytes.NewReader(data), emailDomain)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Parse reads a roster with a header row. Students without an Email
// column value get <id>@<emailDomain>.
func Parse(r io.Reader, emailDomain string) (*Roster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var rows []rosterRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid roster csv: %v: %w", err, errdefs.ErrMalformed)
	}

	return New(toStudents(rows, emailDomain))
}

func toStudents(rows []rosterRow, emailDomain string) []domain.Student {
	students := make([]domain.Student, 0, len(rows))
	for _, row := range rows {
		s := domain.Student{
			ID:        strings.TrimSpace(row.StudentID),
			FirstName: strings.TrimSpace(row.FirstName),
			LastName:  strings.TrimSpace(row.LastName),
			Email:     strings.TrimSpace(row.Email),
		}
		if s.Email == "" && emailDomain != "" && s.ID != "" {
			s.Email = s.ID + "@" + emailDomain
		}
		students = append(students, s)
	}
	return students
}

// New builds a roster from already parsed students, keeping their order.
func New(students []domain.Student) (*Roster, error) {
	r := &Roster{
		students: make([]domain.Student, 0, len(students)),
		byID:     make(map[string]int, len(students)),
	}
	for i, s := range students {
		if s.ID == "" {
			return nil, fmt.Errorf("row %d: empty student id: %w", i+1, errdefs.ErrMalformed)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate student id %q: %w", s.ID, errdefs.ErrMalformed)
		}
		r.byID[s.ID] = len(r.students)
		r.students = append(r.students, s)
	}
	return r, nil
}

// Students returns a copy in file order.
func (r *Roster) Students() []domain.Student {
	out := make([]domain.Student, len(r.students))
	copy(out, r.students)
	return out
}

func (r *Roster) Student(id string) (domain.Student, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Student{}, fmt.Errorf("student %q: %w", id, errdefs.ErrNotFound)
	}
	return r.students[i], nil
}
