package service

import (
	"context"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/pkg/logger"
)

type UngradedItem struct {
	StudentID string
	Path      string
}

// Ungraded returns up to n collected files without a grade in random
// order. n <= 0 returns all of them.
func (s *CollectionService) Ungraded(ctx context.Context, course Course, label string, n int) ([]UngradedItem, error) {
	if _, err := course.Catalog.Assignment(label); err != nil {
		return nil, err
	}
	ids, err := s.store.List(label, domain.LocationActive)
	if err != nil {
		return nil, err
	}

	items := make([]UngradedItem, 0, len(ids))
	for _, id := range ids {
		meta, err := s.activeMetadata(id, label)
		if err != nil {
			logger.FromContext(ctx, s.log).Warn("skipping unreadable submission",
				zap.String("student_id", id),
				zap.String("label", label),
				zap.Error(err),
			)
			continue
		}
		if meta.Graded() {
			continue
		}
		path, err := s.store.Path(domain.LocationActive, id, label)
		if err != nil {
			return nil, err
		}
		items = append(items, UngradedItem{StudentID: id, Path: path})
	}

	s.shuffler.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items, nil
}
