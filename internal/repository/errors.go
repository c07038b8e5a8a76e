package repository

import "coursework_service/internal/errdefs"

var (
	ErrNotFound   = errdefs.ErrNotFound
	ErrValidation = errdefs.ErrValidation
)
