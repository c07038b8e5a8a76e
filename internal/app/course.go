package app

import (
	"context"

	"coursework_service/internal/catalog"
	"coursework_service/internal/roster"
	"coursework_service/internal/service"
)

// CourseFiles reads the roster and catalog from disk on every Load so
// edits take effect without a restart.
type CourseFiles struct {
	rosterPath  string
	catalogPath string
	emailDomain string
}

func NewCourseFiles(rosterPath, catalogPath, emailDomain string) *CourseFiles {
	return &CourseFiles{
		rosterPath:  rosterPath,
		catalogPath: catalogPath,
		emailDomain: emailDomain,
	}
}

func (c *CourseFiles) Load(_ context.Context) (service.Course, error) {
	r, err := roster.Load(c.rosterPath, c.emailDomain)
	if err != nil {
		return service.Course{}, err
	}
	cat, err := catalog.Load(c.catalogPath)
	if err != nil {
		return service.Course{}, err
	}
	return service.Course{Roster: r, Catalog: cat}, nil
}
