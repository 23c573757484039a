// Package profile owns the user progress record and enforces its invariants
// on every mutation.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"go.uber.org/zap"
)

// Persister mirrors the profile to durable storage as a single named
// JSON snapshot. Implemented by storage.Store.
type Persister interface {
	SaveSession(snapshot []byte) error
	LoadSession() ([]byte, error)
	ClearSession() error
}

// PreconditionError reports an operation invoked before its required prior
// artifact exists. It marks a caller logic error, not a transient failure.
type PreconditionError struct {
	Op      string
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s is required first", e.Op, e.Missing)
}

// ErrStaleAnalysis reports a career-path merge derived from a resume
// analysis that has since been replaced.
var ErrStaleAnalysis = errors.New("career path was derived from a superseded resume analysis")

// Store holds one UserProfile and serializes all mutations. Every successful
// mutation is mirrored to durable storage before the next one is accepted.
// analysisRev counts analysis replacements so derived data computed against
// an older analysis can be rejected at merge time.
type Store struct {
	mu          sync.Mutex
	profile     UserProfile
	analysisRev uint64
	persist     Persister
	advisor     ai.Advisor
	logger      *zap.Logger
}

func NewStore(persist Persister, advisor ai.Advisor, logger *zap.Logger) *Store {
	return &Store{
		persist: persist,
		advisor: advisor,
		logger:  logger,
	}
}

// Restore loads the last persisted snapshot, if any. A missing or empty
// snapshot means no prior session and is not an error. The snapshot is only
// adopted when it carries an identity.
func (s *Store) Restore() error {
	snapshot, err := s.persist.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if snapshot == nil {
		return nil
	}

	var restored UserProfile
	if err := json.Unmarshal(snapshot, &restored); err != nil {
		s.logger.Warn("discarding malformed session snapshot", zap.Error(err))
		return nil
	}
	if restored.User == nil {
		return nil
	}

	// Derived state in the snapshot must still satisfy the aggregate
	// invariants; a career path for a different role than the selected one,
	// or one without a backing analysis, is dropped rather than adopted.
	if restored.CareerPath != nil && (restored.Analysis == nil || restored.CareerPath.Role != restored.SelectedRole) {
		s.logger.Warn("dropping inconsistent career path from session snapshot",
			zap.String("path_role", restored.CareerPath.Role),
			zap.String("selected_role", restored.SelectedRole),
		)
		restored.CareerPath = nil
		restored.InterviewScore = nil
	}

	s.mu.Lock()
	s.profile = restored
	s.mu.Unlock()

	s.logger.Debug("restored previous session",
		zap.String("email", restored.User.Email),
		zap.String("selected_role", restored.SelectedRole),
	)
	return nil
}

// Login starts a fresh session for the given email. Any previous progress is
// discarded. The display name is derived from the email local part.
func (s *Store) Login(email string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, &PreconditionError{Op: "login", Missing: "an email address"}
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	user := User{
		ID:    uuid.New().String(),
		Email: email,
		Name:  name,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = UserProfile{User: &user}
	s.analysisRev++
	s.save()
	return user, nil
}

// LoggedIn reports whether the profile carries an identity.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.User != nil
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(&s.profile)
}

// Snapshot returns a copy of the current profile together with the analysis
// revision it was taken at. The revision is handed back to SetCareerPath so
// results computed against a replaced analysis are rejected.
func (s *Store) Snapshot() (UserProfile, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(&s.profile), s.analysisRev
}

// AnalyzeResume runs the resume-analysis generation call on the extracted
// text and atomically replaces the stored analysis. A new analysis
// invalidates the career path and interview score; the selected role is
// retained but its career path must be regenerated before reuse. On failure
// the profile is unchanged.
func (s *Store) AnalyzeResume(ctx context.Context, text string) (*ResumeAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.User == nil {
		return nil, &PreconditionError{Op: "analyze resume", Missing: "a logged-in user"}
	}

	result, err := s.advisor.AnalyzeResume(ctx, text)
	if err != nil {
		return nil, err
	}

	analysis := &ResumeAnalysis{ResumeAnalysis: *result, SourceText: text}
	s.profile.Analysis = analysis
	s.profile.CareerPath = nil
	s.profile.InterviewScore = nil
	s.analysisRev++
	s.save()

	s.logger.Info("resume analyzed",
		zap.Int("skills", len(analysis.Skills)),
		zap.Int("missing_skills", len(analysis.MissingSkills)),
	)

	return copyAnalysis(analysis), nil
}

// SelectRole records the role choice and invalidates derived state before
// any generation starts, so an observer never sees a career path for a
// different role than the selected one.
func (s *Store) SelectRole(role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.Analysis == nil {
		return &PreconditionError{Op: "select role", Missing: "an analyzed resume"}
	}

	s.profile.SelectedRole = role
	s.profile.CareerPath = nil
	s.profile.InterviewScore = nil
	s.save()
	return nil
}

// SetCareerPath merges a fully generated career path. The path is rejected
// when its role no longer matches the selected role, or when analysisRev
// shows the analysis it was computed against has been replaced. Both keep a
// superseded generation from landing next to newer data.
func (s *Store) SetCareerPath(path CareerPath, analysisRev uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.Analysis == nil {
		return &PreconditionError{Op: "set career path", Missing: "an analyzed resume"}
	}
	if analysisRev != s.analysisRev {
		return ErrStaleAnalysis
	}
	if path.Role != s.profile.SelectedRole {
		return fmt.Errorf("career path role %q does not match selected role %q", path.Role, s.profile.SelectedRole)
	}

	s.profile.CareerPath = copyCareerPath(&path)
	s.save()
	return nil
}

// RecordInterviewScore stores the most recent completed mock-interview
// result.
func (s *Store) RecordInterviewScore(score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.CareerPath == nil || len(s.profile.CareerPath.InterviewQuestions) == 0 {
		return &PreconditionError{Op: "record interview score", Missing: "a career path with interview questions"}
	}
	if score < 0 || score > 10 {
		return fmt.Errorf("interview score %v is outside 0-10", score)
	}

	s.profile.InterviewScore = &score
	s.save()
	return nil
}

// Reset clears the whole profile and the stored snapshot (logout).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = UserProfile{}
	s.analysisRev++
	if err := s.persist.ClearSession(); err != nil {
		s.logger.Warn("clearing session snapshot failed", zap.Error(err))
	}
}

// save mirrors the in-memory profile to durable storage. Persistence is
// best-effort: a failed write is logged but does not undo the in-memory
// mutation. Callers hold s.mu, so the write completes before the next
// mutation is accepted.
func (s *Store) save() {
	snapshot, err := json.Marshal(s.profile)
	if err != nil {
		s.logger.Warn("marshalling session snapshot failed", zap.Error(err))
		return
	}
	if err := s.persist.SaveSession(snapshot); err != nil {
		s.logger.Warn("saving session snapshot failed", zap.Error(err))
	}
}
