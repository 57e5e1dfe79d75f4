package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var storeNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func TestProgressRepo_UpsertRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	sp := progress.NewSkillProgress("add-to-20", storeNow)
	sp.ApplyAttempt(progress.ExerciseAttempt{
		SkillID:          "add-to-20",
		Correct:          true,
		TimeSpentSeconds: 18,
		CreatedAt:        storeNow,
	}, 0.8, storeNow)
	sp.MasteryLevel = 34

	require.NoError(t, repo.Upsert(ctx, FromSkillProgress("learner-1", sp)))

	got, err := repo.Get(ctx, "learner-1", "add-to-20")
	require.NoError(t, err)
	require.NotNil(t, got)

	restored := got.ToSkillProgress()
	assert.Equal(t, sp.MasteryLevel, restored.MasteryLevel)
	assert.Equal(t, sp.Attempts, restored.Attempts)
	assert.Equal(t, sp.SRS, restored.SRS)
	assert.True(t, restored.NextReview.Equal(sp.NextReview))
	assert.True(t, restored.LastPracticed.Equal(sp.LastPracticed))

	// Second upsert replaces rather than duplicates.
	sp.MasteryLevel = 55
	require.NoError(t, repo.Upsert(ctx, FromSkillProgress("learner-1", sp)))
	all, err := repo.All(ctx, "learner-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 55, all[0].MasteryLevel)
}

func TestProgressRepo_GetMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.ProgressRepo().Get(context.Background(), "learner-1", "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEventRepo_RecentAttemptsWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.AppendAttempt(ctx, AttemptData{
			UserID:           "learner-1",
			SkillID:          "add-to-20",
			TemplateID:       "add-to-20-a",
			CompetencyAreaID: taxonomy.CompetencyArithmetic,
			Difficulty:       taxonomy.DifficultyA,
			Correct:          i%2 == 0,
			TimeSpentSeconds: float64(10 + i),
			CreatedAt:        storeNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	window, err := repo.RecentAttempts(ctx, "learner-1", "add-to-20", progress.AttemptWindow)
	require.NoError(t, err)
	require.Len(t, window, progress.AttemptWindow)

	// Oldest-to-newest: the window starts at attempt 5 of 25.
	assert.Equal(t, 15.0, window[0].TimeSpentSeconds)
	assert.Equal(t, 34.0, window[len(window)-1].TimeSpentSeconds)
	for i := 1; i < len(window); i++ {
		assert.True(t, window[i].CreatedAt.After(window[i-1].CreatedAt))
	}
}

func TestEventRepo_Sessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	data := SessionData{
		SessionID:       "11111111-2222-3333-4444-555555555555",
		UserID:          "learner-1",
		GradeRange:      taxonomy.Grade4To6,
		PlannedNew:      5,
		PlannedReview:   6,
		PlannedWeakArea: 3,
		PlannedRandom:   1,
		TotalExercises:  15,
		ComposedAt:      storeNow,
	}
	require.NoError(t, repo.AppendSession(ctx, data))
	require.NoError(t, repo.SetSessionCompleted(ctx, data.SessionID, 12))
	assert.Error(t, repo.SetSessionCompleted(ctx, "missing", 1))
}

func TestCompetencyRollups(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	achieved := storeNow
	require.NoError(t, repo.UpsertCompetency(ctx, CompetencyData{
		UserID:           "learner-1",
		CompetencyAreaID: taxonomy.CompetencyArithmetic,
		GradeRange:       taxonomy.Grade4To6,
		MasteryLevel:     82,
		TotalAttempts:    120,
		SuccessRate:      0.8,
		AchievedAt:       &achieved,
	}))

	// A later dip below 80 must not clear achieved_at.
	require.NoError(t, repo.UpsertCompetency(ctx, CompetencyData{
		UserID:           "learner-1",
		CompetencyAreaID: taxonomy.CompetencyArithmetic,
		GradeRange:       taxonomy.Grade4To6,
		MasteryLevel:     74,
		TotalAttempts:    130,
		SuccessRate:      0.75,
	}))

	all, err := repo.AllCompetencies(ctx, "learner-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 74, all[0].MasteryLevel)
	require.NotNil(t, all[0].AchievedAt)
	assert.True(t, all[0].AchievedAt.Equal(achieved))
}
