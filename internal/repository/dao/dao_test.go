package dao

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB starts a throwaway Postgres container and returns a migrated
// connection. Tests using it are skipped in short mode.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping dockertest-backed test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=symposium_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			log.Printf("failed to purge resource: %v", err)
		}
	})

	hostAndPort := resource.GetHostPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:secret@%v/symposium_test?sslmode=disable", hostAndPort)

	_ = resource.Expire(120)

	var db *gorm.DB
	pool.MaxWait = 120 * time.Second
	err = pool.Retry(func() error {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func TestSubmissionDAO_StatusTransitions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	eventDAO := NewEventDAO(db)
	submissionDAO := NewSubmissionDAO(db)

	event, err := eventDAO.InsertEvent(ctx, Event{Name: "Spring Expo", IsActive: true})
	require.NoError(t, err)

	instance, err := eventDAO.InsertEventInstance(ctx, EventInstance{
		EventID: event.ID,
		Name:    "Spring Expo 2026",
		Status:  "closed",
	})
	require.NoError(t, err)

	track, err := eventDAO.InsertTrack(ctx, Track{
		EventInstanceID: instance.ID,
		Name:            "Robotics",
	})
	require.NoError(t, err)

	first, err := submissionDAO.Insert(ctx, Submission{
		TrackID:         track.ID,
		Title:           "Autonomous Rover",
		Status:          "submitted",
		CreatorPersonID: 1,
	})
	require.NoError(t, err)

	second, err := submissionDAO.Insert(ctx, Submission{
		TrackID:         track.ID,
		Title:           "Solar Tracker",
		Status:          "pre_scored",
		CreatorPersonID: 2,
	})
	require.NoError(t, err)

	// The bulk move only touches rows whose status is in the from set.
	err = submissionDAO.UpdateStatusByTrackIDs(ctx, []string{track.ID}, []string{"submitted", "pre_scoring"}, "pre_scoring")
	require.NoError(t, err)

	moved, err := submissionDAO.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "pre_scoring", moved.Status)

	untouched, err := submissionDAO.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "pre_scored", untouched.Status)

	// The conditional per-id move reports how many rows actually changed.
	affected, err := submissionDAO.UpdateStatusBySubmissionIDs(ctx, []string{first.ID, second.ID}, "pre_scoring", "pre_scored")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestPersonDAO_EmailUniqueness(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	personDAO := NewPersonDAO(db)

	_, err := personDAO.Insert(ctx, Person{
		Email:    "judge@uni.edu",
		Password: "hashed",
		Name:     "Judge",
		Role:     "judge",
	})
	require.NoError(t, err)

	_, err = personDAO.Insert(ctx, Person{
		Email:    "judge@uni.edu",
		Password: "hashed",
		Name:     "Duplicate",
		Role:     "judge",
	})
	assert.ErrorIs(t, err, ErrPersonEmailExists)
}

func TestScoreDAO_ReplaceItems(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	eventDAO := NewEventDAO(db)
	submissionDAO := NewSubmissionDAO(db)
	scoreDAO := NewScoreDAO(db)

	event, err := eventDAO.InsertEvent(ctx, Event{Name: "Expo", IsActive: true})
	require.NoError(t, err)
	instance, err := eventDAO.InsertEventInstance(ctx, EventInstance{EventID: event.ID, Name: "Expo 2026", Status: "pre-scoring"})
	require.NoError(t, err)
	track, err := eventDAO.InsertTrack(ctx, Track{EventInstanceID: instance.ID, Name: "AI"})
	require.NoError(t, err)
	submission, err := submissionDAO.Insert(ctx, Submission{TrackID: track.ID, Title: "Paper", Status: "pre_scoring", CreatorPersonID: 1})
	require.NoError(t, err)

	rubricDAO := NewRubricDAO(db)
	rubric, err := rubricDAO.InsertRubric(ctx, Rubric{Name: "Default", Version: 1, IsActive: true})
	require.NoError(t, err)

	criteria, err := rubricDAO.InsertCriteria(ctx, []Criterion{
		{RubricID: rubric.ID, Name: "Clarity", Category: "presentation", AnswerType: "numeric_scale", Weight: 1, ScoreMax: 5, DisplayOrder: 1},
		{RubricID: rubric.ID, Name: "Rigor", Category: "methodology", AnswerType: "numeric_scale", Weight: 1, ScoreMax: 5, DisplayOrder: 2},
	})
	require.NoError(t, err)
	require.Len(t, criteria, 2)

	sheet, err := scoreDAO.InsertSheet(ctx, ScoreSheet{
		SubmissionID:  submission.ID,
		JudgePersonID: 9,
		RubricID:      rubric.ID,
		Status:        "submitted",
	})
	require.NoError(t, err)

	err = scoreDAO.InsertItems(ctx, []ScoreItem{
		{ScoreSheetID: sheet.ID, CriterionID: criteria[0].ID, ScoreValue: 4},
	})
	require.NoError(t, err)

	// Resubmission replaces the prior items rather than appending.
	err = scoreDAO.DeleteItemsBySheetID(ctx, sheet.ID)
	require.NoError(t, err)
	err = scoreDAO.InsertItems(ctx, []ScoreItem{
		{ScoreSheetID: sheet.ID, CriterionID: criteria[0].ID, ScoreValue: 5},
		{ScoreSheetID: sheet.ID, CriterionID: criteria[1].ID, ScoreValue: 2},
	})
	require.NoError(t, err)

	items, err := scoreDAO.FindItemsBySheetID(ctx, sheet.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	valuesByCriterion := make(map[string]float64, len(items))
	for _, item := range items {
		valuesByCriterion[item.CriterionID] = item.ScoreValue
	}
	assert.Equal(t, 5.0, valuesByCriterion[criteria[0].ID])
	assert.Equal(t, 2.0, valuesByCriterion[criteria[1].ID])
}

func TestRubricDAO_UpsertTrackRubric(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	eventDAO := NewEventDAO(db)
	rubricDAO := NewRubricDAO(db)

	event, err := eventDAO.InsertEvent(ctx, Event{Name: "Expo", IsActive: true})
	require.NoError(t, err)
	instance, err := eventDAO.InsertEventInstance(ctx, EventInstance{EventID: event.ID, Name: "Expo 2026", Status: "closed"})
	require.NoError(t, err)
	track, err := eventDAO.InsertTrack(ctx, Track{EventInstanceID: instance.ID, Name: "AI"})
	require.NoError(t, err)
	rubric, err := rubricDAO.InsertRubric(ctx, Rubric{Name: "Default", Version: 1, IsActive: true})
	require.NoError(t, err)

	created, err := rubricDAO.UpsertTrackRubric(ctx, TrackRubric{TrackID: track.ID, RubricID: rubric.ID, IsDefault: true})
	require.NoError(t, err)

	// Linking the same pair again updates the existing row in place.
	updated, err := rubricDAO.UpsertTrackRubric(ctx, TrackRubric{TrackID: track.ID, RubricID: rubric.ID, IsDefault: false})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.False(t, updated.IsDefault)

	_, err = rubricDAO.UpsertTrackRubric(ctx, TrackRubric{TrackID: track.ID, RubricID: rubric.ID, IsDefault: true})
	require.NoError(t, err)

	links, err := rubricDAO.FindTrackRubricsByTrackID(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, created.ID, links[0].ID)
	assert.True(t, links[0].IsDefault)
}
