package analytics

import (
	"github.com/montanaflynn/stats"

	"attempt-service/internal/models"
)

// questionTimeline is what the visit log tells us about one question.
type questionTimeline struct {
	visits        int
	firstVisitMs  int64
	firstAnswerMs int64
	answerEvents  int
}

// behavioral derives revisit counts, hesitation, and confidence buckets
// from the visit log. Events must already be in arrival order.
func (g *Aggregator) behavioral(a models.Attempt, events []models.InteractionEvent) models.BehavioralAnalytics {
	timelines := make(map[string]*questionTimeline)
	timeline := func(qid string) *questionTimeline {
		tl, ok := timelines[qid]
		if !ok {
			tl = &questionTimeline{firstVisitMs: -1, firstAnswerMs: -1}
			timelines[qid] = tl
		}
		return tl
	}

	for _, ev := range events {
		tl := timeline(ev.QuestionID)
		switch ev.Action {
		case models.ActionVisit:
			tl.visits++
			if tl.firstVisitMs < 0 {
				tl.firstVisitMs = ev.TimestampEnter
			}
		case models.ActionAnswer:
			tl.answerEvents++
			if tl.firstAnswerMs < 0 {
				tl.firstAnswerMs = ev.TimestampEnter
			}
		}
	}

	out := models.BehavioralAnalytics{
		RevisitCounts:      map[string]int{},
		HesitationSeconds:  map[string]float64{},
		AnswerChangeCounts: map[string]int{},
		Confidence: models.ConfidenceBuckets{
			QuickAnswers:     []string{},
			LongDeliberation: []string{},
			MultipleRevision: []string{},
		},
	}

	// Time-to-answer per question, used as the deliberation baseline.
	hesitations := map[string]float64{}
	var hesitationValues []float64
	for qid, tl := range timelines {
		if tl.firstVisitMs >= 0 && tl.firstAnswerMs >= tl.firstVisitMs {
			h := float64(tl.firstAnswerMs-tl.firstVisitMs) / 1000
			hesitations[qid] = h
			hesitationValues = append(hesitationValues, h)
		}
	}
	meanHesitation := 0.0
	if len(hesitationValues) > 0 {
		meanHesitation, _ = stats.Mean(hesitationValues)
	}

	// Walk questions in paper order so bucket slices are deterministic.
	for _, aq := range a.Questions {
		qid := aq.Question.ID
		tl, ok := timelines[qid]
		if !ok {
			continue
		}

		if tl.visits > 1 {
			out.RevisitCounts[qid] = tl.visits - 1
		} else if tl.visits == 1 {
			out.RevisitCounts[qid] = 0
		}

		changes := tl.answerEvents - 1
		if changes < 0 {
			changes = 0
		}
		if tl.answerEvents > 0 {
			out.AnswerChangeCounts[qid] = changes
		}

		h, hasHesitation := hesitations[qid]
		if hasHesitation {
			out.HesitationSeconds[qid] = h
		}

		if changes >= g.cfg.RevisionThreshold {
			out.Confidence.MultipleRevision = append(out.Confidence.MultipleRevision, qid)
		}
		if !hasHesitation || !aq.State.Answered() {
			continue
		}
		switch {
		case h <= g.cfg.QuickAnswerWindowSeconds && changes == 0:
			out.Confidence.QuickAnswers = append(out.Confidence.QuickAnswers, qid)
		case meanHesitation > 0 && h > g.cfg.DeliberationMultiple*meanHesitation:
			out.Confidence.LongDeliberation = append(out.Confidence.LongDeliberation, qid)
		}
	}
	return out
}
