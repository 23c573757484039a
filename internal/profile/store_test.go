package profile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"go.uber.org/zap"
)

type memPersister struct {
	snapshot []byte
	saves    int
	saveErr  error
}

func (m *memPersister) SaveSession(snapshot []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshot = append([]byte(nil), snapshot...)
	m.saves++
	return nil
}

func (m *memPersister) LoadSession() ([]byte, error) { return m.snapshot, nil }

func (m *memPersister) ClearSession() error {
	m.snapshot = nil
	return nil
}

type stubAdvisor struct {
	analysis   *ai.ResumeAnalysis
	analyzeErr error
}

func (s *stubAdvisor) AnalyzeResume(context.Context, string) (*ai.ResumeAnalysis, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	cp := *s.analysis
	return &cp, nil
}

func (s *stubAdvisor) CareerAdvice(context.Context, *ai.ResumeAnalysis, string) (*ai.CareerAdvice, error) {
	return nil, errors.New("not used")
}

func (s *stubAdvisor) InterviewQuestions(context.Context, *ai.ResumeAnalysis, string, int) ([]ai.InterviewQuestion, error) {
	return nil, errors.New("not used")
}

func (s *stubAdvisor) EvaluateAnswers(context.Context, []ai.QAPair) (*ai.InterviewResult, error) {
	return nil, errors.New("not used")
}

func testAnalysis() *ai.ResumeAnalysis {
	return &ai.ResumeAnalysis{
		Skills:        []string{"React", "Node.js", "SQL"},
		Strengths:     []string{"shipped production systems"},
		Weaknesses:    []string{"little infra experience"},
		MissingSkills: []string{"Docker"},
	}
}

func loggedInStore(t *testing.T, advisor ai.Advisor) (*Store, *memPersister) {
	t.Helper()
	persist := &memPersister{}
	store := NewStore(persist, advisor, zap.NewNop())
	if _, err := store.Login("dev@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return store, persist
}

func TestLoginDerivesName(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	p := store.Profile()
	if p.User == nil {
		t.Fatal("expected identity after login")
	}
	if p.User.Name != "dev" {
		t.Fatalf("expected name %q, got %q", "dev", p.User.Name)
	}
	if p.User.ID == "" {
		t.Fatal("expected a minted user id")
	}
}

func TestLoginRequiresEmail(t *testing.T) {
	store := NewStore(&memPersister{}, &stubAdvisor{}, zap.NewNop())
	_, err := store.Login("   ")
	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
}

func TestAnalyzeResumeStoresAtomically(t *testing.T) {
	store, persist := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	analysis, err := store.AnalyzeResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.SourceText != "resume text" {
		t.Fatalf("source text not retained: %q", analysis.SourceText)
	}

	p := store.Profile()
	if p.Analysis == nil || len(p.Analysis.Skills) != 3 {
		t.Fatalf("analysis not stored: %+v", p.Analysis)
	}
	if persist.saves < 2 {
		t.Fatalf("expected persistence after mutation, saves=%d", persist.saves)
	}
}

func TestAnalyzeResumeIdempotent(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	first, err := store.AnalyzeResume(context.Background(), "same text")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SelectRole("Backend Engineer"); err != nil {
		t.Fatal(err)
	}

	second, err := store.AnalyzeResume(context.Background(), "same text")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same text produced different analyses: %+v vs %+v", first, second)
	}

	p := store.Profile()
	if p.CareerPath != nil {
		t.Fatal("new analysis must clear career path")
	}
	if p.SelectedRole != "Backend Engineer" {
		t.Fatalf("selected role should be retained, got %q", p.SelectedRole)
	}
}

func TestAnalyzeResumeFailureLeavesProfileUntouched(t *testing.T) {
	advisor := &stubAdvisor{analysis: testAnalysis()}
	store, _ := loggedInStore(t, advisor)

	if _, err := store.AnalyzeResume(context.Background(), "good resume"); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectRole("Data Scientist"); err != nil {
		t.Fatal(err)
	}
	before := store.Profile()

	advisor.analyzeErr = &ai.GenerationError{Op: "resume analysis", Err: errors.New("quota exceeded")}
	if _, err := store.AnalyzeResume(context.Background(), "new resume"); err == nil {
		t.Fatal("expected analysis failure")
	}

	after := store.Profile()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("profile changed after failed analysis:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSelectRoleRequiresAnalysis(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	err := store.SelectRole("Backend Engineer")
	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
}

func TestSetCareerPathRejectsRoleMismatch(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	if _, err := store.AnalyzeResume(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectRole("Backend Engineer"); err != nil {
		t.Fatal(err)
	}

	_, rev := store.Snapshot()
	err := store.SetCareerPath(CareerPath{Role: "Data Scientist", ReadinessScore: 50}, rev)
	if err == nil {
		t.Fatal("expected mismatched role to be rejected")
	}
	if store.Profile().CareerPath != nil {
		t.Fatal("rejected path must not be stored")
	}
}

func TestSetCareerPathRejectsReplacedAnalysis(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	if _, err := store.AnalyzeResume(context.Background(), "first resume"); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectRole("Backend Engineer"); err != nil {
		t.Fatal(err)
	}
	_, rev := store.Snapshot()

	// A fresh analysis lands before the derived path does. The role is
	// retained, so only the revision check can reject the stale merge.
	if _, err := store.AnalyzeResume(context.Background(), "second resume"); err != nil {
		t.Fatal(err)
	}

	err := store.SetCareerPath(CareerPath{Role: "Backend Engineer", ReadinessScore: 40}, rev)
	if !errors.Is(err, ErrStaleAnalysis) {
		t.Fatalf("expected ErrStaleAnalysis, got %v", err)
	}
	if store.Profile().CareerPath != nil {
		t.Fatal("stale path must not be stored")
	}

	// A merge taken at the current revision still lands.
	_, rev = store.Snapshot()
	if err := store.SetCareerPath(CareerPath{Role: "Backend Engineer", ReadinessScore: 40}, rev); err != nil {
		t.Fatalf("current-revision merge failed: %v", err)
	}
}

func TestRecordInterviewScorePreconditions(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	err := store.RecordInterviewScore(8)
	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Fatalf("expected PreconditionError without career path, got %v", err)
	}

	if _, err := store.AnalyzeResume(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectRole("Backend Engineer"); err != nil {
		t.Fatal(err)
	}
	path := CareerPath{
		Role:               "Backend Engineer",
		ReadinessScore:     50,
		Recommendation:     "keep going",
		InterviewQuestions: []ai.InterviewQuestion{{ID: 1, Question: "q"}},
	}
	_, rev := store.Snapshot()
	if err := store.SetCareerPath(path, rev); err != nil {
		t.Fatal(err)
	}

	if err := store.RecordInterviewScore(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := store.Profile()
	if p.InterviewScore == nil || *p.InterviewScore != 8 {
		t.Fatalf("score not recorded: %+v", p.InterviewScore)
	}

	if err := store.RecordInterviewScore(11); err == nil {
		t.Fatal("expected out-of-range score to be rejected")
	}
}

func TestSelectRoleClearsInterviewScore(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})

	if _, err := store.AnalyzeResume(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectRole("Backend Engineer"); err != nil {
		t.Fatal(err)
	}
	_, rev := store.Snapshot()
	if err := store.SetCareerPath(CareerPath{
		Role:               "Backend Engineer",
		InterviewQuestions: []ai.InterviewQuestion{{ID: 1, Question: "q"}},
	}, rev); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordInterviewScore(7); err != nil {
		t.Fatal(err)
	}

	if err := store.SelectRole("Data Scientist"); err != nil {
		t.Fatal(err)
	}

	p := store.Profile()
	if p.CareerPath != nil || p.InterviewScore != nil {
		t.Fatalf("derived state not invalidated: %+v", p)
	}
	if p.SelectedRole != "Data Scientist" {
		t.Fatalf("unexpected selected role %q", p.SelectedRole)
	}
}

func TestResetAndRestore(t *testing.T) {
	persist := &memPersister{}
	store := NewStore(persist, &stubAdvisor{analysis: testAnalysis()}, zap.NewNop())
	if _, err := store.Login("dev@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AnalyzeResume(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}

	// A second store over the same persister picks the session back up.
	revived := NewStore(persist, &stubAdvisor{analysis: testAnalysis()}, zap.NewNop())
	if err := revived.Restore(); err != nil {
		t.Fatal(err)
	}
	p := revived.Profile()
	if p.User == nil || p.Analysis == nil {
		t.Fatalf("restore lost state: %+v", p)
	}

	store.Reset()
	if store.LoggedIn() {
		t.Fatal("reset must clear identity")
	}

	fresh := NewStore(persist, &stubAdvisor{analysis: testAnalysis()}, zap.NewNop())
	if err := fresh.Restore(); err != nil {
		t.Fatal(err)
	}
	if fresh.LoggedIn() {
		t.Fatal("cleared snapshot must not restore a session")
	}
}

func TestRestoreDropsInconsistentCareerPath(t *testing.T) {
	persist := &memPersister{
		snapshot: []byte(`{
			"user": {"id": "u1", "email": "dev@example.com", "name": "dev"},
			"analysis": {"skills": ["Go"], "strengths": [], "weaknesses": [], "missingSkills": [], "resumeText": "text"},
			"selectedRole": "Backend Engineer",
			"careerPath": {"role": "Data Scientist", "readinessScore": 80},
			"interviewScore": 7
		}`),
	}

	store := NewStore(persist, &stubAdvisor{analysis: testAnalysis()}, zap.NewNop())
	if err := store.Restore(); err != nil {
		t.Fatal(err)
	}

	p := store.Profile()
	if p.User == nil || p.Analysis == nil {
		t.Fatalf("identity and analysis must survive restore: %+v", p)
	}
	if p.SelectedRole != "Backend Engineer" {
		t.Fatalf("unexpected selected role %q", p.SelectedRole)
	}
	if p.CareerPath != nil || p.InterviewScore != nil {
		t.Fatalf("career path for another role must be dropped on restore: %+v", p)
	}
}

func TestRestoreDropsCareerPathWithoutAnalysis(t *testing.T) {
	persist := &memPersister{
		snapshot: []byte(`{
			"user": {"id": "u1", "email": "dev@example.com", "name": "dev"},
			"selectedRole": "Backend Engineer",
			"careerPath": {"role": "Backend Engineer", "readinessScore": 80}
		}`),
	}

	store := NewStore(persist, &stubAdvisor{analysis: testAnalysis()}, zap.NewNop())
	if err := store.Restore(); err != nil {
		t.Fatal(err)
	}

	if p := store.Profile(); p.CareerPath != nil {
		t.Fatalf("career path without a backing analysis must be dropped: %+v", p.CareerPath)
	}
}

func TestProfileReturnsCopy(t *testing.T) {
	store, _ := loggedInStore(t, &stubAdvisor{analysis: testAnalysis()})
	if _, err := store.AnalyzeResume(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}

	p := store.Profile()
	p.Analysis.Skills[0] = "mutated"

	if store.Profile().Analysis.Skills[0] == "mutated" {
		t.Fatal("Profile must return a defensive copy")
	}
}
