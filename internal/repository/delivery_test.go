package repository_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"

	"coursework_service/internal/domain"
	"coursework_service/internal/repository"
	"coursework_service/pkg/db"
)

type DeliverySuite struct {
	suite.Suite
	pg    *db.Postgres
	repo  *repository.DeliveryRepository
	label string
}

func (s *DeliverySuite) SetupSuite() {
	port, _ := strconv.Atoi(os.Getenv("TEST_DB_PORT"))
	if port == 0 {
		port = 5432
	}

	pg, err := db.NewPostgres(db.Config{
		Host:           os.Getenv("TEST_DB_HOST"),
		Port:           port,
		User:           os.Getenv("TEST_DB_USER"),
		Password:       os.Getenv("TEST_DB_PASSWORD"),
		DBName:         os.Getenv("TEST_DB_NAME"),
		SSLMode:        "disable",
		MigrationsPath: "file://../../migrations",
	})
	s.Require().NoError(err)

	s.pg = pg
	s.repo = repository.NewDeliveryRepository(pg.DB())
	s.label = "itest-" + strconv.Itoa(os.Getpid())
}

func (s *DeliverySuite) SetupTest() {
	_, err := s.pg.DB().ExecContext(context.Background(), "DELETE FROM deliveries WHERE label = $1", s.label)
	s.Require().NoError(err)
}

func (s *DeliverySuite) TearDownSuite() {
	if s.pg != nil {
		_ = s.pg.Close()
	}
}

func (s *DeliverySuite) TestCreateAndList() {
	ctx := context.Background()
	overall := 0.75

	first := &domain.Delivery{StudentID: "jdoe", Label: s.label, Recipient: "jdoe@uni.edu",
		Subject: "graded", Overall: &overall, ReturnedAt: "2026-10-17 10:00:00.000000"}
	second := &domain.Delivery{StudentID: "bkim", Label: s.label, Recipient: "bkim@uni.edu",
		Subject: "graded", ReturnedAt: "2026-10-17 10:00:01.000000"}
	s.Require().NoError(s.repo.Create(ctx, first))
	s.Require().NoError(s.repo.Create(ctx, second))
	s.NotEqual(first.ID, second.ID)

	got, err := s.repo.ListByLabel(ctx, s.label)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("jdoe", got[0].StudentID)
	s.Require().NotNil(got[0].Overall)
	s.InDelta(0.75, *got[0].Overall, 1e-9)
	s.Nil(got[1].Overall)
}

func (s *DeliverySuite) TestListUnknownLabel() {
	got, err := s.repo.ListByLabel(context.Background(), s.label+"-none")
	s.Require().NoError(err)
	s.Empty(got)
}

func TestDeliverySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	suite.Run(t, new(DeliverySuite))
}
