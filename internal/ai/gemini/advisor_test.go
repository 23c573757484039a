package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastSchema *genai.Schema
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string, schema *genai.Schema) (string, error) {
	s.lastPrompt = prompt
	s.lastSchema = schema
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzeResume(t *testing.T) {
	stub := &stubGenerator{response: `{"skills":["Go","SQL"],"strengths":["backend"],"weaknesses":["frontend"],"missingSkills":["Kubernetes"]}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	analysis, err := advisor.AnalyzeResume(context.Background(), "worked on Go services")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analysis.Skills) != 2 || analysis.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", analysis.Skills)
	}
	if !strings.Contains(stub.lastPrompt, "worked on Go services") {
		t.Fatalf("resume text missing from prompt: %s", stub.lastPrompt)
	}
	if stub.lastSchema == nil || stub.lastSchema.Type != genai.TypeObject {
		t.Fatal("expected object response schema")
	}
}

func TestAnalyzeResumeNoSkillsIsNonconforming(t *testing.T) {
	stub := &stubGenerator{response: `{"skills":[],"strengths":[],"weaknesses":[],"missingSkills":[]}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	_, err := advisor.AnalyzeResume(context.Background(), "text")
	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestCareerAdvice(t *testing.T) {
	stub := &stubGenerator{response: `{"recommendation":"Lean into Go","roadmap":[{"title":"Learn Kubernetes","description":"operators","resources":["docs"],"duration":"4 weeks"}]}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	analysis := &ai.ResumeAnalysis{Skills: []string{"Go"}, Weaknesses: []string{"k8s"}, MissingSkills: []string{"Kubernetes"}}
	advice, err := advisor.CareerAdvice(context.Background(), analysis, "Backend Engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if advice.Recommendation != "Lean into Go" {
		t.Fatalf("unexpected recommendation: %s", advice.Recommendation)
	}
	if len(advice.Roadmap) != 1 || advice.Roadmap[0].Title != "Learn Kubernetes" {
		t.Fatalf("unexpected roadmap: %+v", advice.Roadmap)
	}
	if !strings.Contains(stub.lastPrompt, "Backend Engineer") {
		t.Fatal("target role missing from prompt")
	}
	if !strings.Contains(stub.lastPrompt, "Kubernetes") {
		t.Fatal("missing skills not in prompt")
	}
}

func TestCareerAdviceRejectsUntitledStep(t *testing.T) {
	stub := &stubGenerator{response: `{"recommendation":"ok","roadmap":[{"title":"  ","description":"","resources":[],"duration":""}]}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	_, err := advisor.CareerAdvice(context.Background(), &ai.ResumeAnalysis{Skills: []string{"Go"}}, "Backend Engineer")
	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestInterviewQuestions(t *testing.T) {
	stub := &stubGenerator{response: `[{"id":1,"question":"What is a goroutine?"},{"id":2,"question":"Explain interfaces."}]`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	questions, err := advisor.InterviewQuestions(context.Background(), &ai.ResumeAnalysis{Skills: []string{"Go"}}, "Backend Engineer", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if !strings.Contains(stub.lastPrompt, "Generate 2 professional interview questions") {
		t.Fatalf("count not substituted: %s", stub.lastPrompt)
	}
}

func TestInterviewQuestionsCountMismatch(t *testing.T) {
	stub := &stubGenerator{response: `[{"id":1,"question":"Only one."}]`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	_, err := advisor.InterviewQuestions(context.Background(), &ai.ResumeAnalysis{Skills: []string{"Go"}}, "Backend Engineer", 5)
	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestInterviewQuestionsDuplicateIDs(t *testing.T) {
	stub := &stubGenerator{response: `[{"id":1,"question":"a"},{"id":1,"question":"b"}]`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	_, err := advisor.InterviewQuestions(context.Background(), &ai.ResumeAnalysis{Skills: []string{"Go"}}, "Backend Engineer", 2)
	if err == nil {
		t.Fatal("expected error for duplicate ids")
	}
}

func TestEvaluateAnswers(t *testing.T) {
	stub := &stubGenerator{response: `{"score":7.5,"feedback":"Solid fundamentals."}`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	pairs := []ai.QAPair{
		{Question: "What is a goroutine?", Answer: "A lightweight thread."},
		{Question: "Explain channels.", Answer: "Typed conduits."},
	}

	result, err := advisor.EvaluateAnswers(context.Background(), pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 7.5 {
		t.Fatalf("expected score 7.5, got %v", result.Score)
	}
	if !strings.Contains(stub.lastPrompt, "Q2: Explain channels.") {
		t.Fatalf("pairs not numbered in prompt: %s", stub.lastPrompt)
	}
}

func TestEvaluateAnswersFailuresAreEvaluationErrors(t *testing.T) {
	cases := []struct {
		name string
		stub *stubGenerator
	}{
		{name: "transport failure", stub: &stubGenerator{err: errors.New("boom")}},
		{name: "score out of range", stub: &stubGenerator{response: `{"score":42,"feedback":"nope"}`}},
		{name: "malformed json", stub: &stubGenerator{response: `score high`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			advisor := NewAdvisor(tc.stub, zap.NewNop(), 0)
			_, err := advisor.EvaluateAnswers(context.Background(), []ai.QAPair{{Question: "q", Answer: "a"}})
			var evalErr *ai.EvaluationError
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected EvaluationError, got %v", err)
			}
		})
	}
}

func TestExtractJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"score\": 5, \"feedback\": \"ok\"}\n```"
	cleaned := extractJSON(raw)
	if cleaned != `{"score": 5, "feedback": "ok"}` {
		t.Fatalf("unexpected cleaned output: %q", cleaned)
	}
}
