package httpapi

import (
	"time"

	"coursework_service/internal/domain"
	"coursework_service/internal/service"
)

type assignmentDTO struct {
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Points   float64 `json:"points"`
	DueDate  string  `json:"due_date"`
}

type overviewDTO struct {
	assignmentDTO
	Status  string `json:"status"`
	Urgency string `json:"urgency"`
}

type collectionRecordDTO struct {
	StudentID string   `json:"student_id"`
	Name      string   `json:"name"`
	Path      string   `json:"path,omitempty"`
	State     string   `json:"state"`
	Overall   *float64 `json:"overall"`
	TurnedIn  *string  `json:"turned_in"`
	Returned  *string  `json:"returned"`
	Archived  bool     `json:"archived"`
	Error     string   `json:"error,omitempty"`
}

type distributionDTO struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Bins  []int    `json:"bins"`
}

type collectionDTO struct {
	Assignment   assignmentDTO         `json:"assignment"`
	PostDue      bool                  `json:"post_due"`
	Status       string                `json:"status"`
	Records      []collectionRecordDTO `json:"records"`
	Distribution distributionDTO       `json:"distribution"`
}

type ungradedDTO struct {
	StudentID string `json:"student_id"`
	Path      string `json:"path"`
}

type receiptDTO struct {
	StudentID  string   `json:"student_id"`
	Label      string   `json:"label"`
	Recipient  string   `json:"recipient"`
	Overall    *float64 `json:"overall"`
	ReturnedAt string   `json:"returned_at"`
}

type skippedDTO struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

type returnSummaryDTO struct {
	Label    string       `json:"label"`
	Returned []receiptDTO `json:"returned"`
	Skipped  []skippedDTO `json:"skipped"`
	Error    string       `json:"error,omitempty"`
}

type deliveryDTO struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Label      string    `json:"label"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Overall    *float64  `json:"overall"`
	ReturnedAt string    `json:"returned_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type turnInDTO struct {
	StudentID string `json:"student_id"`
	Label     string `json:"label"`
	Path      string `json:"path"`
	TurnedIn  string `json:"turned_in"`
}

type gradeRecordDTO struct {
	Label        string   `json:"label"`
	Category     string   `json:"category"`
	Points       float64  `json:"points"`
	DueDate      string   `json:"due_date"`
	Submitted    bool     `json:"submitted"`
	Technical    *float64 `json:"technical"`
	Presentation *float64 `json:"presentation"`
	Overall      *float64 `json:"overall"`
	Status       string   `json:"status"`
}

type studentGradesDTO struct {
	StudentID string           `json:"student_id"`
	Name      string           `json:"name"`
	Records   []gradeRecordDTO `json:"records"`
	Overall   float64          `json:"overall"`
}

type gradebookRowDTO struct {
	StudentID string              `json:"student_id"`
	Name      string              `json:"name"`
	Overall   *float64            `json:"overall"`
	Grades    map[string]*float64 `json:"grades"`
}

type gradebookDTO struct {
	Labels []string          `json:"labels"`
	Rows   []gradebookRowDTO `json:"rows"`
}

func toAssignmentDTO(a domain.Assignment) assignmentDTO {
	return assignmentDTO{
		Label:    a.Label,
		Category: a.Category,
		Points:   a.Points,
		DueDate:  a.FormattedDueDate(),
	}
}

func toOverviewDTOs(items []service.AssignmentOverview) []overviewDTO {
	out := make([]overviewDTO, 0, len(items))
	for _, it := range items {
		out = append(out, overviewDTO{
			assignmentDTO: toAssignmentDTO(it.Assignment),
			Status:        string(it.Status),
			Urgency:       string(it.Urgency),
		})
	}
	return out
}

func toCollectionDTO(res *service.CollectionResult) collectionDTO {
	dto := collectionDTO{
		Assignment: toAssignmentDTO(res.Assignment),
		PostDue:    res.PostDue,
		Status:     string(res.Status),
		Records:    make([]collectionRecordDTO, 0, len(res.Records)),
		Distribution: distributionDTO{
			Count: res.Distribution.Count,
			Mean:  res.Distribution.Mean,
			Min:   res.Distribution.Min,
			Max:   res.Distribution.Max,
			Bins:  res.Distribution.Bins,
		},
	}
	for _, rec := range res.Records {
		r := collectionRecordDTO{
			StudentID: rec.Student.ID,
			Name:      rec.Student.Name(),
			Path:      rec.Path,
			State:     string(rec.State),
			Overall:   rec.Overall,
			TurnedIn:  rec.TurnedIn,
			Returned:  rec.Returned,
			Archived:  rec.Archived,
		}
		if rec.Err != nil {
			r.Error = rec.Err.Error()
		}
		dto.Records = append(dto.Records, r)
	}
	return dto
}

func toReceiptDTO(r service.ReturnReceipt) receiptDTO {
	return receiptDTO{
		StudentID:  r.StudentID,
		Label:      r.Label,
		Recipient:  r.Recipient,
		Overall:    r.Overall,
		ReturnedAt: r.ReturnedAt,
	}
}

func toReturnSummaryDTO(s *service.ReturnSummary) returnSummaryDTO {
	dto := returnSummaryDTO{
		Label:    s.Label,
		Returned: make([]receiptDTO, 0, len(s.Returned)),
		Skipped:  make([]skippedDTO, 0, len(s.Skipped)),
	}
	for _, r := range s.Returned {
		dto.Returned = append(dto.Returned, toReceiptDTO(r))
	}
	for _, sk := range s.Skipped {
		dto.Skipped = append(dto.Skipped, skippedDTO{StudentID: sk.StudentID, Reason: sk.Reason})
	}
	return dto
}

func toDeliveryDTOs(ds []*domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, deliveryDTO{
			ID:         d.ID.String(),
			StudentID:  d.StudentID,
			Label:      d.Label,
			Recipient:  d.Recipient,
			Subject:    d.Subject,
			Overall:    d.Overall,
			ReturnedAt: d.ReturnedAt,
			CreatedAt:  d.CreatedAt,
		})
	}
	return out
}

func toStudentGradesDTO(g *service.StudentGrades) studentGradesDTO {
	dto := studentGradesDTO{
		StudentID: g.Student.ID,
		Name:      g.Student.Name(),
		Records:   make([]gradeRecordDTO, 0, len(g.Records)),
		Overall:   g.Overall,
	}
	for _, r := range g.Records {
		dto.Records = append(dto.Records, gradeRecordDTO{
			Label:        r.Label,
			Category:     r.Category,
			Points:       r.Points,
			DueDate:      r.DueDate.UTC().Format(domain.DueDateLayout),
			Submitted:    r.Submitted,
			Technical:    r.Technical,
			Presentation: r.Presentation,
			Overall:      r.Overall,
			Status:       r.StatusString(),
		})
	}
	return dto
}

func toGradebookDTO(gb *service.Gradebook) gradebookDTO {
	dto := gradebookDTO{
		Labels: gb.Labels,
		Rows:   make([]gradebookRowDTO, 0, len(gb.Rows)),
	}
	for _, row := range gb.Rows {
		dto.Rows = append(dto.Rows, gradebookRowDTO{
			StudentID: row.Student.ID,
			Name:      row.Student.Name(),
			Overall:   row.Overall,
			Grades:    row.Grades,
		})
	}
	return dto
}
