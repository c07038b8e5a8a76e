package domain

import (
	"time"

	"github.com/google/uuid"
)

type Delivery struct {
	ID         uuid.UUID
	StudentID  string
	Label      string
	Recipient  string
	Subject    string
	Overall    *float64
	ReturnedAt string
	CreatedAt  time.Time
}
