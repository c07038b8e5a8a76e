package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	configs "coursework_service/config"
	"coursework_service/internal/repository"
	"coursework_service/internal/server/httpapi"
	"coursework_service/internal/service"
	"coursework_service/internal/storage"
	"coursework_service/pkg/db"
	"coursework_service/pkg/logger"
)

// App holds every wired service of one coursework deployment.
type App struct {
	Config     *configs.Config
	Log        *logger.Logger
	Courses    *CourseFiles
	Collection *service.CollectionService
	Grades     *service.GradeService
	Returns    *service.ReturnService
	Submit     *service.SubmitService

	closers []func() error
}

// New wires the application from cfg. The delivery journal and archive
// mirror are only connected when enabled.
func New(ctx context.Context, cfg *configs.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	submissions := repository.NewSubmissionRepository(
		cfg.Storage.InboxDir,
		cfg.Storage.ActiveDir,
		cfg.Storage.ArchiveDir,
		cfg.Course.FileExtension,
	)
	status := repository.NewStatusRepository(cfg.Storage.ActiveDir)

	sink, closeSink, err := NewNotificationSink(cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeSink)

	var journal service.DeliveryJournal
	if cfg.DB.Enabled {
		pg, err := db.NewPostgres(db.Config{
			Host:           cfg.DB.Host,
			Port:           cfg.DB.Port,
			User:           cfg.DB.User,
			Password:       cfg.DB.Password,
			DBName:         cfg.DB.DBName,
			SSLMode:        cfg.DB.SSLMode,
			MigrationsPath: cfg.DB.MigrationsPath,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		journal = repository.NewDeliveryRepository(pg.DB())
	}

	var mirror service.ArchiveMirror
	if cfg.ArchiveMirror.Enabled {
		client, err := storage.NewClient(ctx, storage.Config{
			Endpoint:        cfg.ArchiveMirror.Endpoint,
			Region:          cfg.ArchiveMirror.Region,
			AccessKeyID:     cfg.ArchiveMirror.AccessKeyID,
			SecretAccessKey: cfg.ArchiveMirror.SecretAccessKey,
			Bucket:          cfg.ArchiveMirror.Bucket,
			Prefix:          cfg.ArchiveMirror.Prefix,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		mirror = storage.NewArchiveMirror(client, cfg.ArchiveMirror.Bucket, cfg.ArchiveMirror.Prefix)
	}

	now := service.SystemClock
	shuffler := service.NewShuffler(uint64(time.Now().UnixNano()))

	a.Courses = NewCourseFiles(cfg.Course.RosterPath, cfg.Course.CatalogPath, cfg.Course.EmailDomain)
	a.Grades = service.NewGradeService(submissions, log, now)
	a.Collection = service.NewCollectionService(submissions, status, mirror, shuffler, log, now)
	a.Returns = service.NewReturnService(
		submissions,
		status,
		sink,
		journal,
		a.Grades,
		log,
		now,
		cfg.Returns.Pacing,
		cfg.Course.Name,
	)
	a.Submit = service.NewSubmitService(
		submissions,
		sink,
		log,
		now,
		cfg.Course.Name,
		cfg.Course.SubmissionAddress,
	)

	log.Info("application wired",
		zap.String("course", cfg.Course.Name),
		zap.String("mail_backend", cfg.Mail.Backend),
		zap.Bool("delivery_journal", journal != nil),
		zap.Bool("archive_mirror", mirror != nil),
	)
	return a, nil
}

func (a *App) Handler() http.Handler {
	return httpapi.NewHandler(
		a.Courses,
		a.Collection,
		a.Grades,
		a.Returns,
		a.Submit,
		a.Log,
		a.Config.Course.Name,
	).Router()
}

// Course loads the current roster and catalog.
func (a *App) Course(ctx context.Context) (service.Course, error) {
	return a.Courses.Load(ctx)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
