package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/pkg/logger"
)

// dueSoonWindow covers anything due in under three days.
const dueSoonWindow = 72 * time.Hour

type AssignmentOverview struct {
	Assignment domain.Assignment
	Status     domain.StatusMarker
	Urgency    domain.Urgency
}

// Overview reports collection status and urgency per catalog assignment.
func (s *CollectionService) Overview(ctx context.Context, course Course) []AssignmentOverview {
	now := s.now()
	assignments := course.Catalog.Assignments()
	out := make([]AssignmentOverview, 0, len(assignments))
	for _, a := range assignments {
		status, err := s.status.Get(a.Label)
		if err != nil {
			logger.FromContext(ctx, s.log).Warn("unreadable status marker",
				zap.String("label", a.Label),
				zap.Error(err),
			)
		}
		out = append(out, AssignmentOverview{
			Assignment: a,
			Status:     status,
			Urgency:    urgency(a, status, now),
		})
	}
	return out
}

func urgency(a domain.Assignment, status domain.StatusMarker, now time.Time) domain.Urgency {
	switch {
	case status == domain.StatusReturned:
		return domain.UrgencyReturned
	case a.DueDate.Sub(now) < dueSoonWindow:
		return domain.UrgencyDueSoon
	default:
		return domain.UrgencyOpen
	}
}
