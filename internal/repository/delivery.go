package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursework_service/internal/domain"
)

// DeliveryRepository journals returned reports in Postgres.
type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	query := `
		INSERT INTO deliveries (id, student_id, label, recipient, subject, overall, returned_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	createdAt := time.Now().UTC()

	var overall sql.NullFloat64
	if delivery.Overall != nil {
		overall = sql.NullFloat64{Float64: *delivery.Overall, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, query,
		id,
		delivery.StudentID,
		delivery.Label,
		delivery.Recipient,
		delivery.Subject,
		overall,
		delivery.ReturnedAt,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery: %w", err)
	}

	delivery.ID = id
	delivery.CreatedAt = createdAt
	return nil
}

func (r *DeliveryRepository) ListByLabel(ctx context.Context, label string) ([]*domain.Delivery, error) {
	query := `
		SELECT id, student_id, label, recipient, subject, overall, returned_at, created_at
		FROM deliveries
		WHERE label = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, label)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var deliveries []*domain.Delivery
	for rows.Next() {
		var (
			d       domain.Delivery
			overall sql.NullFloat64
		)
		err := rows.Scan(
			&d.ID,
			&d.StudentID,
			&d.Label,
			&d.Recipient,
			&d.Subject,
			&overall,
			&d.ReturnedAt,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if overall.Valid {
			v := overall.Float64
			d.Overall = &v
		}
		deliveries = append(deliveries, &d)
	}

	return deliveries, rows.Err()
}
