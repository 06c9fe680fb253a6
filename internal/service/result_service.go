package service

import (
	"context"
	"fmt"
	"time"

	"attempt-service/internal/analytics"
	"attempt-service/internal/models"
	"attempt-service/internal/normalize"
	"attempt-service/internal/repository"
	"attempt-service/internal/scoring"

	"github.com/google/uuid"
)

// ResultService assembles and serves the post-attempt report: scored
// performance plus the derived analytics snapshot, in the wire shape the
// results screen consumes.
type ResultService struct {
	Repo            *repository.ResultRepository
	ExamRepo        *repository.ExamRepository
	InteractionRepo *repository.InteractionRepository

	aggregator *analytics.Aggregator
	normCfg    normalize.Config
}

func NewResultService(
	repo *repository.ResultRepository,
	examRepo *repository.ExamRepository,
	interactionRepo *repository.InteractionRepository,
) *ResultService {
	return &ResultService{
		Repo:            repo,
		ExamRepo:        examRepo,
		InteractionRepo: interactionRepo,
		aggregator:      analytics.NewAggregator(nil),
		normCfg:         normalize.DefaultConfig(),
	}
}

// BuildReport derives and stores the report for a completed attempt. Safe
// to call again for the same attempt: the stored report wins, matching the
// submit-once semantics of the score itself.
func (s *ResultService) BuildReport(ctx context.Context, a *models.Attempt) (*models.AttemptReport, error) {
	if a.Status != models.AttemptCompleted || a.Score == nil {
		return nil, fmt.Errorf("attempt %s is not completed", a.ID)
	}
	if existing, err := s.Repo.FindByAttempt(ctx, a.ID); err == nil {
		normalize.Report(existing, s.normCfg)
		return existing, nil
	}

	events, err := s.InteractionRepo.FindByAttempt(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction log: %w", err)
	}

	report := s.assemble(ctx, a, events)
	if err := s.Repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Snapshot recomputes the analytics view without persisting anything.
// Recomputation is pure, so concurrent callers need no synchronization.
func (s *ResultService) Snapshot(ctx context.Context, a *models.Attempt) (models.AnalyticsSnapshot, error) {
	events, err := s.InteractionRepo.FindByAttempt(ctx, a.ID)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	return s.aggregator.Snapshot(*a, events), nil
}

func (s *ResultService) GetReportByAttempt(ctx context.Context, attemptID string) (*models.AttemptReport, error) {
	report, err := s.Repo.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	normalize.Report(report, s.normCfg)
	return report, nil
}

func (s *ResultService) GetReportsByUser(ctx context.Context, userID string) ([]models.AttemptReport, error) {
	reports, err := s.Repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		normalize.Report(&reports[i], s.normCfg)
	}
	return reports, nil
}

func (s *ResultService) assemble(ctx context.Context, a *models.Attempt, events []models.InteractionEvent) *models.AttemptReport {
	snap := s.aggregator.Snapshot(*a, events)

	testInfo := models.TestInfo{
		ExamID:               a.ExamID,
		TotalQuestions:       len(a.Questions),
		TotalDurationSeconds: a.TotalDurationSeconds,
		MarkingScheme:        a.MarkingScheme,
	}
	if exam, err := s.ExamRepo.FindByID(ctx, a.ExamID); err == nil {
		testInfo.Title = exam.Title
		testInfo.ExamType = exam.ExamType
	}

	answers := make([]models.AnswerRecord, 0, len(a.Questions))
	for _, aq := range a.Questions {
		outcome := scoring.Classify(aq.Question, aq.State)
		answers = append(answers, models.AnswerRecord{
			QuestionID:       aq.Question.ID,
			Subject:          aq.Question.Subject,
			SelectedValue:    aq.State.SelectedValue,
			SelectedOptions:  aq.State.SelectedOptions,
			Outcome:          string(outcome),
			PointsEarned:     scoring.PointsFor(outcome, a.MarkingScheme),
			TimeTakenSeconds: aq.State.TimeTakenSeconds,
			WasMarked:        aq.State.IsMarked,
			WasVisited:       aq.State.IsVisited,
		})
	}

	score := *a.Score
	performance := models.Performance{
		RawScore:         score.RawScore,
		MaxScore:         scoring.MaxScore(len(a.Questions), a.MarkingScheme),
		CorrectCount:     score.CorrectCount,
		IncorrectCount:   score.IncorrectCount,
		UnattemptedCount: score.UnattemptedCount,
		AttemptedCount:   score.CorrectCount + score.IncorrectCount,
		AccuracyPercent:  score.AccuracyPercent,
		TimeTakenSeconds: score.TimeTakenSeconds,
	}

	return &models.AttemptReport{
		ID:                  uuid.NewString(),
		AttemptID:           a.ID,
		UserID:              a.UserID,
		TestInfo:            testInfo,
		Performance:         performance,
		Answers:             answers,
		SubjectWise:         snap.SubjectWise,
		TimeAnalytics:       snap.TimeAnalytics,
		StrategyMetrics:     snap.StrategyMetrics,
		CompletionMetrics:   snap.CompletionMetrics,
		ErrorAnalytics:      snap.ErrorAnalytics,
		BehavioralAnalytics: snap.BehavioralAnalytics,
		NavigationHistory:   snap.NavigationHistory,
		CreatedAt:           time.Now(),
	}
}
