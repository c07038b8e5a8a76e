package domain

import "time"

const (
	GradeStatusMissing    = "missing"
	GradeStatusNotGraded  = "not-graded"
	GradeStatusUnreadable = "unreadable"
)

type GradeRecord struct {
	Label        string
	Category     string
	Points       float64
	DueDate      time.Time
	Path         string
	Submitted    bool
	Technical    *float64
	Presentation *float64
	Overall      *float64
	Err          error
}

// StatusString is the grade column of a grade table: the formatted
// overall score, or a status word when there is no score.
func (r GradeRecord) StatusString() string {
	switch {
	case r.Err != nil:
		return GradeStatusUnreadable
	case !r.Submitted:
		return GradeStatusMissing
	case r.Overall == nil:
		return GradeStatusNotGraded
	default:
		return formatScore(*r.Overall)
	}
}

// Credit is the grade used in the weighted sum; null counts as zero.
func (r GradeRecord) Credit() float64 {
	if r.Overall == nil {
		return 0.0
	}
	return *r.Overall
}
