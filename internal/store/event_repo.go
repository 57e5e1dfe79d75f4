package store

import (
	"context"
	"fmt"

	"github.com/edbpede/math-sub000/ent"
	"github.com/edbpede/math-sub000/ent/attemptevent"
	"github.com/edbpede/math-sub000/ent/sessionevent"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

type eventRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.AttemptEvent.Create().
		SetSequence(seqNum).
		SetUserID(data.UserID).
		SetSkillID(data.SkillID).
		SetTemplateID(data.TemplateID).
		SetCompetencyAreaID(string(data.CompetencyAreaID)).
		SetDifficulty(string(data.Difficulty)).
		SetIsBinding(data.IsBinding).
		SetCorrect(data.Correct).
		SetTimeSpentSeconds(data.TimeSpentSeconds).
		SetHintsUsed(data.HintsUsed).
		SetCreatedAt(data.CreatedAt).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentAttempts(ctx context.Context, userID, skillID string, limit int) ([]AttemptData, error) {
	events, err := r.client.AttemptEvent.Query().
		Where(
			attemptevent.UserID(userID),
			attemptevent.SkillID(skillID),
		).
		Order(ent.Desc(attemptevent.FieldSequence)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}

	// Reverse into oldest-to-newest, the order the mastery window expects.
	out := make([]AttemptData, len(events))
	for i, e := range events {
		out[len(events)-1-i] = AttemptData{
			UserID:           e.UserID,
			SkillID:          e.SkillID,
			TemplateID:       e.TemplateID,
			CompetencyAreaID: taxonomy.CompetencyArea(e.CompetencyAreaID),
			Difficulty:       taxonomy.Difficulty(e.Difficulty),
			IsBinding:        e.IsBinding,
			Correct:          e.Correct,
			TimeSpentSeconds: e.TimeSpentSeconds,
			HintsUsed:        e.HintsUsed,
			CreatedAt:        e.CreatedAt,
		}
	}
	return out, nil
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	builder := r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetUserID(data.UserID).
		SetGradeRange(string(data.GradeRange)).
		SetPlannedNew(data.PlannedNew).
		SetPlannedReview(data.PlannedReview).
		SetPlannedWeakArea(data.PlannedWeakArea).
		SetPlannedRandom(data.PlannedRandom).
		SetTotalExercises(data.TotalExercises).
		SetCompleted(data.Completed).
		SetComposedAt(data.ComposedAt)

	if data.CompetencyAreaID != "" {
		builder = builder.SetCompetencyAreaID(string(data.CompetencyAreaID))
	}

	if _, err := builder.Save(ctx); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) SetSessionCompleted(ctx context.Context, sessionID string, completed int) error {
	n, err := r.client.SessionEvent.Update().
		Where(sessionevent.SessionID(sessionID)).
		SetCompleted(completed).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %q not found", sessionID)
	}
	return nil
}
