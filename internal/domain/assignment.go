package domain

import "time"

// DueDateLayout is the catalog's due date format, interpreted in UTC.
const DueDateLayout = "2006-01-02 15:04:05"

type Assignment struct {
	Label    string
	DueDate  time.Time
	Category string
	Points   float64
	GraderID string
}

// PostDue reports whether now is at or after the due date.
func (a Assignment) PostDue(now time.Time) bool {
	return !now.Before(a.DueDate)
}

func (a Assignment) FormattedDueDate() string {
	return a.DueDate.UTC().Format(DueDateLayout)
}
