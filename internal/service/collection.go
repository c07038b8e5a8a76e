package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/internal/notebook"
	"coursework_service/pkg/logger"
)

const distributionBins = 20

type CollectOptions struct {
	// Shuffle randomizes the order students are processed and reported in.
	Shuffle bool
	// ArchiveEarly copies inbox files to the archive even before the due date.
	ArchiveEarly bool
}

type CollectionRecord struct {
	Student  domain.Student
	Path     string
	State    domain.State
	Overall  *float64
	TurnedIn *string
	Returned *string
	Archived bool
	Err      error
}

type Distribution struct {
	Count int
	Mean  *float64
	Min   *float64
	Max   *float64
	// Bins splits [0,1] into equal-width buckets; 1.0 lands in the last one.
	Bins []int
}

type CollectionResult struct {
	Assignment   domain.Assignment
	PostDue      bool
	Status       domain.StatusMarker
	Records      []CollectionRecord
	Distribution Distribution
}

type CollectionService struct {
	store    SubmissionStore
	status   StatusStore
	mirror   ArchiveMirror
	shuffler *Shuffler
	log      *logger.Logger
	now      Clock
}

// NewCollectionService wires the collection engine. mirror may be nil.
func NewCollectionService(
	store SubmissionStore,
	status StatusStore,
	mirror ArchiveMirror,
	shuffler *Shuffler,
	log *logger.Logger,
	now Clock,
) *CollectionService {
	if now == nil {
		now = SystemClock
	}
	if shuffler == nil {
		shuffler = NewShuffler(0)
	}
	return &CollectionService{
		store:    store,
		status:   status,
		mirror:   mirror,
		shuffler: shuffler,
		log:      log,
		now:      now,
	}
}

// Collect runs one collection pass over the roster for label.
func (s *CollectionService) Collect(ctx context.Context, course Course, label string, opts CollectOptions) (*CollectionResult, error) {
	a, err := course.Catalog.Assignment(label)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx, s.log).With(zap.String("label", label))

	students := course.Roster.Students()
	if opts.Shuffle {
		s.shuffler.Shuffle(len(students), func(i, j int) {
			students[i], students[j] = students[j], students[i]
		})
	}

	postDue := a.PostDue(s.now())
	result := &CollectionResult{
		Assignment: a,
		PostDue:    postDue,
		Records:    make([]CollectionRecord, 0, len(students)),
	}

	for _, student := range students {
		rec := s.collectOne(ctx, a, student, postDue, opts)
		if rec.Err != nil {
			log.Warn("collect failed for student",
				zap.String("student_id", student.ID),
				zap.Error(rec.Err),
			)
		}
		result.Records = append(result.Records, rec)
	}

	if _, err := s.status.MarkCollected(label); err != nil {
		return nil, fmt.Errorf("failed to mark %s collected: %w", label, err)
	}
	if result.Status, err = s.status.Get(label); err != nil {
		return nil, err
	}

	result.Distribution = distribution(result.Records)
	log.Info("collection pass complete",
		zap.Bool("post_due", postDue),
		zap.Int("students", len(result.Records)),
		zap.Int("graded", result.Distribution.Count),
	)
	return result, nil
}

func (s *CollectionService) collectOne(ctx context.Context, a domain.Assignment, student domain.Student, postDue bool, opts CollectOptions) CollectionRecord {
	rec := CollectionRecord{Student: student, State: domain.StateNoSubmission}
	label := a.Label

	p, err := s.store.Locate(student.ID, label)
	if err != nil {
		rec.Err = err
		return rec
	}

	if p.Inbox && ((!postDue && opts.ArchiveEarly) || (postDue && !p.Archive)) {
		if err := s.store.Copy(domain.LocationInbox, domain.LocationArchive, student.ID, label); err != nil {
			rec.Err = err
			return rec
		}
		p.Archive = true
		rec.Archived = true
		s.mirrorArchive(ctx, student.ID, label)
	}

	if p.Inbox {
		supersede := !p.Active
		if p.Active {
			meta, err := s.activeMetadata(student.ID, label)
			if err != nil {
				rec.Err = err
				return s.describe(rec, p, nil, student.ID, label)
			}
			// graded work is frozen against late resubmission
			supersede = !meta.Graded()
		}
		if supersede {
			if err := s.store.Move(domain.LocationInbox, domain.LocationActive, student.ID, label); err != nil {
				rec.Err = err
				return rec
			}
			p.Inbox = false
			p.Active = true
		}
	}

	if !p.Active {
		return s.describe(rec, p, nil, student.ID, label)
	}
	meta, err := s.activeMetadata(student.ID, label)
	if err != nil {
		rec.Err = err
		return s.describe(rec, p, nil, student.ID, label)
	}
	return s.describe(rec, p, &meta, student.ID, label)
}

func (s *CollectionService) describe(rec CollectionRecord, p domain.Presence, meta *domain.Metadata, studentID, label string) CollectionRecord {
	rec.State = domain.StateOf(p, meta)
	if loc := p.Primary(); loc != domain.LocationNone {
		rec.Path, _ = s.store.Path(loc, studentID, label)
	}
	if meta != nil {
		rec.Overall = meta.OverallGrade()
		rec.TurnedIn = meta.TurnedIn
		rec.Returned = meta.Returned
	}
	return rec
}

func (s *CollectionService) activeMetadata(studentID, label string) (domain.Metadata, error) {
	data, err := s.store.Read(domain.LocationActive, studentID, label)
	if err != nil {
		return domain.Metadata{}, err
	}
	doc, err := notebook.Parse(data)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("%s: %w", s.store.FileName(studentID, label), err)
	}
	return doc.Metadata(), nil
}

func (s *CollectionService) mirrorArchive(ctx context.Context, studentID, label string) {
	if s.mirror == nil {
		return
	}
	log := logger.FromContext(ctx, s.log)
	data, err := s.store.Read(domain.LocationArchive, studentID, label)
	if err != nil {
		log.Warn("failed to read archive copy for mirroring", zap.String("student_id", studentID), zap.Error(err))
		return
	}
	if err := s.mirror.Put(ctx, label, s.store.FileName(studentID, label), data); err != nil {
		log.Warn("archive mirror upload failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

func distribution(records []CollectionRecord) Distribution {
	d := Distribution{Bins: make([]int, distributionBins)}
	var sum float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		if r.Overall == nil {
			continue
		}
		v := *r.Overall
		d.Count++
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)

		bin := int(v * distributionBins)
		if bin >= distributionBins {
			bin = distributionBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		d.Bins[bin]++
	}
	if d.Count > 0 {
		mean := sum / float64(d.Count)
		d.Mean, d.Min, d.Max = &mean, &lo, &hi
	}
	return d
}
