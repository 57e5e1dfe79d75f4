package store

import (
	"context"
	"fmt"

	"github.com/edbpede/math-sub000/ent"
	"github.com/edbpede/math-sub000/ent/competencyrecord"
	"github.com/edbpede/math-sub000/ent/progressrecord"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

type progressRepo struct {
	client *ent.Client
}

func (r *progressRepo) Upsert(ctx context.Context, data ProgressData) error {
	existing, err := r.client.ProgressRecord.Query().
		Where(
			progressrecord.UserID(data.UserID),
			progressrecord.SkillID(data.SkillID),
		).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return fmt.Errorf("query progress: %w", err)
	}

	if existing == nil {
		builder := r.client.ProgressRecord.Create().
			SetUserID(data.UserID).
			SetSkillID(data.SkillID).
			SetMasteryLevel(data.MasteryLevel).
			SetAttempts(data.Attempts).
			SetSuccesses(data.Successes).
			SetAvgResponseTimeMs(data.AvgResponseTimeMs).
			SetEaseFactor(data.EaseFactor).
			SetIntervalDays(data.IntervalDays).
			SetRepetitionCount(data.RepetitionCount).
			SetNextReviewAt(data.NextReviewAt)
		if data.LastPracticedAt != nil {
			builder = builder.SetLastPracticedAt(*data.LastPracticedAt)
		}
		if _, err := builder.Save(ctx); err != nil {
			return fmt.Errorf("create progress: %w", err)
		}
		return nil
	}

	builder := existing.Update().
		SetMasteryLevel(data.MasteryLevel).
		SetAttempts(data.Attempts).
		SetSuccesses(data.Successes).
		SetAvgResponseTimeMs(data.AvgResponseTimeMs).
		SetEaseFactor(data.EaseFactor).
		SetIntervalDays(data.IntervalDays).
		SetRepetitionCount(data.RepetitionCount).
		SetNextReviewAt(data.NextReviewAt)
	if data.LastPracticedAt != nil {
		builder = builder.SetLastPracticedAt(*data.LastPracticedAt)
	}
	if _, err := builder.Save(ctx); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

func (r *progressRepo) Get(ctx context.Context, userID, skillID string) (*ProgressData, error) {
	rec, err := r.client.ProgressRecord.Query().
		Where(
			progressrecord.UserID(userID),
			progressrecord.SkillID(skillID),
		).
		Only(ctx)
	if ent.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	data := progressFromRecord(rec)
	return &data, nil
}

func (r *progressRepo) All(ctx context.Context, userID string) ([]ProgressData, error) {
	recs, err := r.client.ProgressRecord.Query().
		Where(progressrecord.UserID(userID)).
		Order(ent.Asc(progressrecord.FieldSkillID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query all progress: %w", err)
	}

	out := make([]ProgressData, len(recs))
	for i, rec := range recs {
		out[i] = progressFromRecord(rec)
	}
	return out, nil
}

func (r *progressRepo) UpsertCompetency(ctx context.Context, data CompetencyData) error {
	existing, err := r.client.CompetencyRecord.Query().
		Where(
			competencyrecord.UserID(data.UserID),
			competencyrecord.CompetencyAreaID(string(data.CompetencyAreaID)),
			competencyrecord.GradeRange(string(data.GradeRange)),
		).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return fmt.Errorf("query competency: %w", err)
	}

	if existing == nil {
		builder := r.client.CompetencyRecord.Create().
			SetUserID(data.UserID).
			SetCompetencyAreaID(string(data.CompetencyAreaID)).
			SetGradeRange(string(data.GradeRange)).
			SetMasteryLevel(data.MasteryLevel).
			SetTotalAttempts(data.TotalAttempts).
			SetSuccessRate(data.SuccessRate)
		if data.LastPracticedAt != nil {
			builder = builder.SetLastPracticedAt(*data.LastPracticedAt)
		}
		if data.AchievedAt != nil {
			builder = builder.SetAchievedAt(*data.AchievedAt)
		}
		if _, err := builder.Save(ctx); err != nil {
			return fmt.Errorf("create competency: %w", err)
		}
		return nil
	}

	builder := existing.Update().
		SetMasteryLevel(data.MasteryLevel).
		SetTotalAttempts(data.TotalAttempts).
		SetSuccessRate(data.SuccessRate)
	if data.LastPracticedAt != nil {
		builder = builder.SetLastPracticedAt(*data.LastPracticedAt)
	}
	// achieved_at is written once and never cleared.
	if data.AchievedAt != nil && existing.AchievedAt == nil {
		builder = builder.SetAchievedAt(*data.AchievedAt)
	}
	if _, err := builder.Save(ctx); err != nil {
		return fmt.Errorf("update competency: %w", err)
	}
	return nil
}

func (r *progressRepo) AllCompetencies(ctx context.Context, userID string) ([]CompetencyData, error) {
	recs, err := r.client.CompetencyRecord.Query().
		Where(competencyrecord.UserID(userID)).
		Order(ent.Asc(competencyrecord.FieldCompetencyAreaID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query competencies: %w", err)
	}

	out := make([]CompetencyData, len(recs))
	for i, rec := range recs {
		out[i] = CompetencyData{
			UserID:           rec.UserID,
			CompetencyAreaID: taxonomy.CompetencyArea(rec.CompetencyAreaID),
			GradeRange:       taxonomy.GradeRange(rec.GradeRange),
			MasteryLevel:     rec.MasteryLevel,
			TotalAttempts:    rec.TotalAttempts,
			SuccessRate:      rec.SuccessRate,
			LastPracticedAt:  rec.LastPracticedAt,
			AchievedAt:       rec.AchievedAt,
		}
	}
	return out, nil
}

func progressFromRecord(rec *ent.ProgressRecord) ProgressData {
	return ProgressData{
		UserID:            rec.UserID,
		SkillID:           rec.SkillID,
		MasteryLevel:      rec.MasteryLevel,
		Attempts:          rec.Attempts,
		Successes:         rec.Successes,
		AvgResponseTimeMs: rec.AvgResponseTimeMs,
		EaseFactor:        rec.EaseFactor,
		IntervalDays:      rec.IntervalDays,
		RepetitionCount:   rec.RepetitionCount,
		LastPracticedAt:   rec.LastPracticedAt,
		NextReviewAt:      rec.NextReviewAt,
	}
}
