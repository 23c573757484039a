// Package pipeline drives the role-selection workflow: invalidate stale
// derived state, fan out the generation calls, and merge the result as a
// single unit.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"github.com/shaharshita/PathWay-Ai/internal/match"
	"github.com/shaharshita/PathWay-Ai/internal/profile"
	"github.com/shaharshita/PathWay-Ai/internal/roles"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded reports that a newer role selection or resume analysis
// started before this generation finished; its result was discarded.
var ErrSuperseded = errors.New("role selection superseded by newer input")

const defaultQuestionCount = 5

// Orchestrator sequences career-path generation for role selections. At most
// one generation is current at a time; a fresh SelectRole supersedes an
// in-flight one and late results are dropped by token comparison.
type Orchestrator struct {
	store         *profile.Store
	advisor       ai.Advisor
	logger        *zap.Logger
	questionCount int

	mu         sync.Mutex
	token      uint64
	generating bool
}

func New(store *profile.Store, advisor ai.Advisor, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:         store,
		advisor:       advisor,
		logger:        logger,
		questionCount: defaultQuestionCount,
	}
}

// Generating reports whether a career-path generation is in flight.
func (o *Orchestrator) Generating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

// SelectRole records the role choice, synchronously invalidating the old
// career path and interview score, then generates the new career path in the
// background. Precondition failures (no analyzed resume) are returned
// immediately; the channel delivers exactly one value: nil once the career
// path is merged, ErrSuperseded when a newer selection or resume analysis
// took over, or the generation error otherwise. On any error the stored career path stays
// absent and the caller may retry with the same role.
func (o *Orchestrator) SelectRole(ctx context.Context, role string) (<-chan error, error) {
	if err := o.store.SelectRole(role); err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.token++
	token := o.token
	o.generating = true
	o.mu.Unlock()

	o.logger.Info("starting career path generation",
		zap.String("role", role),
		zap.Uint64("generation", token),
	)

	result := make(chan error, 1)
	go func() {
		result <- o.generate(ctx, token, role)
	}()
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, token uint64, role string) error {
	defer func() {
		o.mu.Lock()
		if token == o.token {
			o.generating = false
		}
		o.mu.Unlock()
	}()

	snapshot, analysisRev := o.store.Snapshot()
	if snapshot.Analysis == nil {
		return &profile.PreconditionError{Op: "generate career path", Missing: "an analyzed resume"}
	}
	analysis := snapshot.Analysis.ResumeAnalysis

	// The two calls are independent; neither consumes the other's output.
	var (
		advice    *ai.CareerAdvice
		questions []ai.InterviewQuestion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		advice, err = o.advisor.CareerAdvice(gctx, &analysis, role)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = o.advisor.InterviewQuestions(gctx, &analysis, role, o.questionCount)
		return err
	})
	if err := g.Wait(); err != nil {
		o.logger.Warn("career path generation failed",
			zap.String("role", role),
			zap.Uint64("generation", token),
			zap.Error(err),
		)
		return err
	}

	readiness := match.Readiness(analysis.Skills, roles.RequiredSkills(role))

	// Accept the merge only while this generation is still the current one.
	// Holding the lock across the store write keeps a later SelectRole from
	// slipping between the token check and the merge.
	o.mu.Lock()
	defer o.mu.Unlock()
	if token != o.token {
		o.logger.Debug("discarding superseded generation result",
			zap.String("role", role),
			zap.Uint64("generation", token),
			zap.Uint64("current", o.token),
		)
		return ErrSuperseded
	}

	path := profile.CareerPath{
		Role:               role,
		ReadinessScore:     readiness,
		Recommendation:     advice.Recommendation,
		Roadmap:            advice.Roadmap,
		InterviewQuestions: questions,
	}
	// The store re-checks the analysis revision: a resume analyzed while
	// this generation was in flight supersedes it the same way a newer
	// role selection does.
	if err := o.store.SetCareerPath(path, analysisRev); err != nil {
		if errors.Is(err, profile.ErrStaleAnalysis) {
			o.logger.Debug("discarding generation computed against a replaced analysis",
				zap.String("role", role),
				zap.Uint64("generation", token),
			)
			return ErrSuperseded
		}
		return err
	}

	o.logger.Info("career path ready",
		zap.String("role", role),
		zap.Int("readiness", readiness),
		zap.Int("roadmap_steps", len(path.Roadmap)),
		zap.Int("questions", len(path.InterviewQuestions)),
	)
	return nil
}
