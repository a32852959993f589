package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"

	"github.com/stretchr/testify/suite"

	"github.com/reqsift/reqsift"
	"github.com/reqsift/reqsift/reqsifttest"
)

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

type StoreTestSuite struct {
	suite.Suite
	db      *sql.DB
	adapter *Adapter
	gen     *reqsifttest.DataGen
}

func (s *StoreTestSuite) SetupSuite() {
	var err error
	s.db, err = sql.Open("sqlite3", filepath.Join(s.T().TempDir(), "reqsift.db"))
	s.Require().NoError(err)

	s.gen = reqsifttest.New(123, time.Now())
}

func (s *StoreTestSuite) TearDownSuite() {
	s.Require().NoError(s.db.Close())
}

func (s *StoreTestSuite) SetupTest() {
	// Migrate down and migrate up to have a clean schema
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	s.Require().NoError(err)

	migrationsPath, err := filepath.Abs("../../db/migrations")
	s.Require().NoError(err)

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"sqlite3", driver)
	s.Require().NoError(err)
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.Require().NoError(err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.Require().NoError(err)
	}
	s.adapter = New(s.db)
}

func testContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}

func (s *StoreTestSuite) TestSaveAndFindRun() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := s.gen.Run()
	s.Require().NoError(s.adapter.SaveRuns(ctx, aRun))

	found, err := s.adapter.FindRun(ctx, aRun.ID)
	s.Require().NoError(err)
	s.Equal(aRun.ID, found.ID)
	s.Equal(aRun.Source, found.Source)
	s.Equal(aRun.Output, found.Output)
	s.Equal(reqsift.RunStatusRunning, found.Status)
	s.Empty(found.StatusMessage)
}

func (s *StoreTestSuite) TestFindRunNotFound() {
	ctx, cancel := testContext()
	defer cancel()

	_, err := s.adapter.FindRun(ctx, reqsift.NewRunID())
	s.Require().ErrorIs(err, reqsift.ErrNotFound)
}

func (s *StoreTestSuite) TestRunStatusTransition() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := s.gen.Run()
	s.Require().NoError(s.adapter.SaveRuns(ctx, aRun))

	aRun.PagesTotal = 10
	aRun.PagesDone = 10
	s.Require().NoError(aRun.CompleteWithStatus(reqsift.RunStatusFailed, "document corrupt", time.Now().UTC()))
	s.Require().NoError(s.adapter.SaveRuns(ctx, aRun))

	found, err := s.adapter.FindRun(ctx, aRun.ID)
	s.Require().NoError(err)
	s.Equal(reqsift.RunStatusFailed, found.Status)
	s.Equal("document corrupt", found.StatusMessage)
	s.Equal(10, found.PagesTotal)
	s.Equal(10, found.PagesDone)
}

func (s *StoreTestSuite) TestListRunsFilterAndOrder() {
	ctx, cancel := testContext()
	defer cancel()

	first := s.gen.Run()
	s.Require().NoError(s.adapter.SaveRuns(ctx, first))
	s.Require().NoError(first.CompleteWithStatus(reqsift.RunStatusCompleted, "", time.Now().UTC()))
	s.Require().NoError(s.adapter.SaveRuns(ctx, first))

	second := s.gen.Run()
	second.Created = second.Created.Add(time.Second)
	second.Updated = second.Created
	s.Require().NoError(s.adapter.SaveRuns(ctx, second))

	all, err := s.adapter.ListRuns(ctx, reqsift.RunFilter{}, reqsift.SortParams{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	// Newest first by default
	s.Equal(second.ID, all[0].ID)

	running, err := s.adapter.ListRuns(ctx, reqsift.RunFilter{Status: reqsift.RunStatusRunning}, reqsift.SortParams{})
	s.Require().NoError(err)
	s.Require().Len(running, 1)
	s.Equal(second.ID, running[0].ID)
}

func (s *StoreTestSuite) TestListRunsInvalidSortParams() {
	ctx, cancel := testContext()
	defer cancel()

	_, err := s.adapter.ListRuns(ctx, reqsift.RunFilter{}, reqsift.SortParams{By: `r."source"; drop table "run"`})
	s.Require().Error(err)
}

func (s *StoreTestSuite) TestSaveAndListRequirements() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := s.gen.Run()
	s.Require().NoError(s.adapter.SaveRuns(ctx, aRun))

	now := time.Now().UTC().Truncate(time.Second)
	requirements := []*reqsift.Requirement{
		s.gen.Requirement(
			reqsifttest.WithRequirementRunID(aRun.ID),
			reqsifttest.WithRequirementPage(0),
			reqsifttest.WithRequirementKeywords("shall"),
			reqsifttest.WithRequirementCreated(now),
		),
		s.gen.Requirement(
			reqsifttest.WithRequirementRunID(aRun.ID),
			reqsifttest.WithRequirementPage(2),
			reqsifttest.WithRequirementContent("The vendor shall submit reports which must include totals."),
			reqsifttest.WithRequirementKeywords("shall", "must"),
			reqsifttest.WithRequirementCreated(now.Add(time.Second)),
		),
	}
	s.Require().NoError(s.adapter.SaveRequirements(ctx, requirements...))

	listed, err := s.adapter.ListRequirements(ctx, aRun.ID, reqsift.SortParams{})
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(requirements[0].Content, listed[0].Content)
	s.Equal([]string{"shall"}, listed[0].Keywords)
	s.Equal([]string{"shall", "must"}, listed[1].Keywords)
	s.Equal(2, listed[1].Page)

	other, err := s.adapter.ListRequirements(ctx, reqsift.NewRunID(), reqsift.SortParams{})
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *StoreTestSuite) TestSaveAndListEvents() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := s.gen.Run()
	s.Require().NoError(s.adapter.SaveRuns(ctx, aRun))

	now := time.Now().UTC().Truncate(time.Second)
	events := []reqsift.Event{
		s.gen.Event(
			reqsifttest.WithEventRunID(aRun.ID),
			reqsifttest.WithEventPage(1),
			reqsifttest.WithEventReason(reqsift.ReasonTooLong),
			reqsifttest.WithEventCreated(now),
		),
		s.gen.Event(
			reqsifttest.WithEventRunID(aRun.ID),
			reqsifttest.WithEventPage(3),
			reqsifttest.WithEventReason(reqsift.ReasonOversizedHighlight),
			reqsifttest.WithEventCreated(now.Add(time.Second)),
		),
	}
	s.Require().NoError(s.adapter.SaveEvents(ctx, events...))

	listed, err := s.adapter.ListEvents(ctx, aRun.ID, reqsift.SortParams{})
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(reqsift.ReasonTooLong, listed[0].Reason)
	s.Equal(reqsift.ReasonOversizedHighlight, listed[1].Reason)
	s.Equal(3, listed[1].Page)
}

func (s *StoreTestSuite) TestTransactionalRollsBack() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := s.gen.Run()
	boom := errors.New("boom")
	err := s.adapter.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		if err := s.adapter.SaveRuns(ctx, aRun); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	_, err = s.adapter.FindRun(ctx, aRun.ID)
	s.Require().ErrorIs(err, reqsift.ErrNotFound)
}

func (s *StoreTestSuite) TestNestedTransactionalJoins() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := s.gen.Run()
	err := s.adapter.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		return s.adapter.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
			return s.adapter.SaveRuns(ctx, aRun)
		})
	})
	s.Require().NoError(err)

	found, err := s.adapter.FindRun(ctx, aRun.ID)
	s.Require().NoError(err)
	s.Equal(aRun.ID, found.ID)
}
