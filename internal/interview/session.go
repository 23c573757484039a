// Package interview runs a single mock-interview attempt as a small state
// machine over the generated question set.
package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"github.com/shaharshita/PathWay-Ai/internal/profile"
	"go.uber.org/zap"
)

// State is the lifecycle phase of one interview attempt.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateEvaluating
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateEvaluating:
		return "evaluating"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ScoreRecorder receives the final score of a completed attempt.
// Implemented by profile.Store.
type ScoreRecorder interface {
	RecordInterviewScore(score float64) error
}

// Session is one mock-interview attempt. It is not safe for concurrent use;
// a session belongs to a single interactive flow and is discarded on
// completion or abandonment.
type Session struct {
	questions []ai.InterviewQuestion
	evaluator ai.Advisor
	recorder  ScoreRecorder
	logger    *zap.Logger

	state   State
	index   int
	answers []string
	result  *ai.InterviewResult
}

// NewSession prepares an attempt over the given question set. The set may be
// any length >= 1; emptiness is only rejected at Start so a session can be
// constructed eagerly.
func NewSession(questions []ai.InterviewQuestion, evaluator ai.Advisor, recorder ScoreRecorder, logger *zap.Logger) *Session {
	qs := make([]ai.InterviewQuestion, len(questions))
	copy(qs, questions)
	return &Session{
		questions: qs,
		evaluator: evaluator,
		recorder:  recorder,
		logger:    logger,
		state:     StateNotStarted,
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// QuestionCount returns the number of questions in this attempt.
func (s *Session) QuestionCount() int { return len(s.questions) }

// AnswerCount returns how many answers have been collected so far.
func (s *Session) AnswerCount() int { return len(s.answers) }

// Result returns the evaluation outcome, or nil unless Completed.
func (s *Session) Result() *ai.InterviewResult {
	if s.result == nil {
		return nil
	}
	cp := *s.result
	return &cp
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (ai.InterviewQuestion, error) {
	if s.state != StateInProgress {
		return ai.InterviewQuestion{}, fmt.Errorf("no current question in state %s", s.state)
	}
	return s.questions[s.index], nil
}

// Start begins the attempt at the first question.
func (s *Session) Start() error {
	if s.state != StateNotStarted {
		return fmt.Errorf("cannot start from state %s", s.state)
	}
	if len(s.questions) == 0 {
		return &profile.PreconditionError{Op: "start interview", Missing: "a generated question set"}
	}

	s.state = StateInProgress
	s.index = 0
	s.answers = s.answers[:0]
	s.result = nil
	return nil
}

// SubmitAnswer records the answer to the current question. Empty or
// whitespace-only answers are rejected without advancing. Answering the last
// question triggers one evaluation call: on success the attempt completes
// and the score is recorded; on failure the session rolls back to the last
// question with the failed answer dropped, so the earlier answers survive a
// retry.
func (s *Session) SubmitAnswer(ctx context.Context, text string) error {
	if s.state != StateInProgress {
		return fmt.Errorf("cannot submit an answer in state %s", s.state)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("answer must not be empty")
	}

	s.answers = append(s.answers, text)

	if s.index < len(s.questions)-1 {
		s.index++
		return nil
	}

	s.state = StateEvaluating

	pairs := make([]ai.QAPair, len(s.questions))
	for i, q := range s.questions {
		pairs[i] = ai.QAPair{Question: q.Question, Answer: s.answers[i]}
	}

	result, err := s.evaluator.EvaluateAnswers(ctx, pairs)
	if err != nil {
		// Keep the earlier answers; only the failed final answer is dropped
		// so the user can resubmit it.
		s.answers = s.answers[:len(s.answers)-1]
		s.state = StateInProgress
		s.logger.Warn("interview evaluation failed", zap.Error(err))
		return err
	}

	s.state = StateCompleted
	s.result = result

	if err := s.recorder.RecordInterviewScore(result.Score); err != nil {
		s.logger.Warn("recording interview score failed", zap.Error(err))
	}

	s.logger.Info("interview completed",
		zap.Float64("score", result.Score),
		zap.Int("questions", len(s.questions)),
	)
	return nil
}

// Restart abandons the attempt and returns to the beginning, discarding
// answers and result but not the underlying question set.
func (s *Session) Restart() {
	s.state = StateNotStarted
	s.index = 0
	s.answers = nil
	s.result = nil
}
