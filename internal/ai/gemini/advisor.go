package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"github.com/shaharshita/PathWay-Ai/internal/util"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type contentGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// Advisor implements ai.Advisor on top of a schema-constrained Gemini
// generator.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed analyze_prompt.md
var analyzePromptTemplate string

//go:embed advice_prompt.md
var advicePromptTemplate string

//go:embed questions_prompt.md
var questionsPromptTemplate string

//go:embed evaluate_prompt.md
var evaluatePromptTemplate string

const defaultMaxLogLength = 200

func NewAdvisor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Advisor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"skills":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"strengths":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"weaknesses":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"missingSkills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"skills", "strengths", "weaknesses", "missingSkills"},
}

var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendation": {Type: genai.TypeString},
		"roadmap": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"resources":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"duration":    {Type: genai.TypeString},
				},
				Required: []string{"title", "description", "resources", "duration"},
			},
		},
	},
	Required: []string{"recommendation", "roadmap"},
}

var questionsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":       {Type: genai.TypeInteger},
			"question": {Type: genai.TypeString},
		},
		Required: []string{"id", "question"},
	},
}

var evaluationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":    {Type: genai.TypeNumber},
		"feedback": {Type: genai.TypeString},
	},
	Required: []string{"score", "feedback"},
}

// AnalyzeResume extracts skills, strengths, weaknesses, and missing skills
// from raw resume text.
func (a *Advisor) AnalyzeResume(ctx context.Context, resumeText string) (*ai.ResumeAnalysis, error) {
	const op = "resume analysis"

	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("resume text is empty")}
	}

	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{RESUME_TEXT}}", resumeText)

	raw, err := a.generate(ctx, op, prompt, analysisSchema)
	if err != nil {
		return nil, err
	}

	var analysis ai.ResumeAnalysis
	if err := json.Unmarshal([]byte(extractJSON(raw)), &analysis); err != nil {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}

	if len(analysis.Skills) == 0 {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("response contains no skills")}
	}

	return &analysis, nil
}

// CareerAdvice generates a recommendation and learning roadmap for the
// target role.
func (a *Advisor) CareerAdvice(ctx context.Context, analysis *ai.ResumeAnalysis, targetRole string) (*ai.CareerAdvice, error) {
	const op = "career advice"

	if analysis == nil {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("resume analysis is required")}
	}

	prompt := strings.ReplaceAll(advicePromptTemplate, "{{TARGET_ROLE}}", targetRole)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", strings.Join(analysis.Skills, ", "))
	prompt = strings.ReplaceAll(prompt, "{{WEAKNESSES}}", strings.Join(analysis.Weaknesses, ", "))
	prompt = strings.ReplaceAll(prompt, "{{MISSING_SKILLS}}", strings.Join(analysis.MissingSkills, ", "))

	raw, err := a.generate(ctx, op, prompt, adviceSchema)
	if err != nil {
		return nil, err
	}

	var advice ai.CareerAdvice
	if err := json.Unmarshal([]byte(extractJSON(raw)), &advice); err != nil {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}

	if strings.TrimSpace(advice.Recommendation) == "" {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("response is missing a recommendation")}
	}
	for i, step := range advice.Roadmap {
		if strings.TrimSpace(step.Title) == "" {
			return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("roadmap step %d has no title", i)}
		}
	}

	return &advice, nil
}

// InterviewQuestions generates exactly count questions tailored to the
// target role and the candidate's skills.
func (a *Advisor) InterviewQuestions(ctx context.Context, analysis *ai.ResumeAnalysis, targetRole string, count int) ([]ai.InterviewQuestion, error) {
	const op = "interview questions"

	if analysis == nil {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("resume analysis is required")}
	}
	if count < 1 {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("question count must be at least 1, got %d", count)}
	}

	prompt := strings.ReplaceAll(questionsPromptTemplate, "{{COUNT}}", strconv.Itoa(count))
	prompt = strings.ReplaceAll(prompt, "{{TARGET_ROLE}}", targetRole)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", strings.Join(analysis.Skills, ", "))

	raw, err := a.generate(ctx, op, prompt, questionsSchema)
	if err != nil {
		return nil, err
	}

	var questions []ai.InterviewQuestion
	if err := json.Unmarshal([]byte(extractJSON(raw)), &questions); err != nil {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}

	if len(questions) != count {
		return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("expected %d questions, got %d", count, len(questions))}
	}

	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("question %d is empty", q.ID)}
		}
		if seen[q.ID] {
			return nil, &ai.GenerationError{Op: op, Err: fmt.Errorf("duplicate question id %d", q.ID)}
		}
		seen[q.ID] = true
	}

	return questions, nil
}

// EvaluateAnswers scores a completed set of question/answer pairs out of 10.
func (a *Advisor) EvaluateAnswers(ctx context.Context, pairs []ai.QAPair) (*ai.InterviewResult, error) {
	if len(pairs) == 0 {
		return nil, &ai.EvaluationError{Err: fmt.Errorf("no answers to evaluate")}
	}

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Q%d: %s\nA%d: %s", i+1, p.Question, i+1, p.Answer)
	}

	prompt := strings.ReplaceAll(evaluatePromptTemplate, "{{QA_PAIRS}}", sb.String())

	a.logger.Debug("gemini evaluation request",
		zap.Int("pairs", len(pairs)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt, evaluationSchema)
	if err != nil {
		return nil, &ai.EvaluationError{Err: err}
	}

	a.logger.Debug("gemini evaluation response",
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	var result ai.InterviewResult
	if err := json.Unmarshal([]byte(extractJSON(raw)), &result); err != nil {
		return nil, &ai.EvaluationError{Err: fmt.Errorf("parse response: %w", err)}
	}

	if result.Score < 0 || result.Score > 10 {
		return nil, &ai.EvaluationError{Err: fmt.Errorf("score %v is outside 0-10", result.Score)}
	}

	return &result, nil
}

func (a *Advisor) generate(ctx context.Context, op, prompt string, schema *genai.Schema) (string, error) {
	a.logger.Debug("gemini generate content request",
		zap.String("op", op),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		return "", &ai.GenerationError{Op: op, Err: err}
	}

	a.logger.Debug("gemini generate content response",
		zap.String("op", op),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}

// extractJSON strips markdown fences some models wrap around JSON output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
