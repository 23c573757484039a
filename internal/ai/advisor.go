// Package ai declares the content-generation collaborator used across the
// career pipeline and the typed payloads it must conform to.
package ai

import (
	"context"
	"fmt"
)

// ResumeAnalysis is the structured result of analyzing raw resume text.
type ResumeAnalysis struct {
	Skills        []string `json:"skills"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	MissingSkills []string `json:"missingSkills"`
}

// RoadmapStep is one step of a generated learning roadmap. Title is the only
// field with an invariant (non-empty); the rest is display payload.
type RoadmapStep struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
	Duration    string   `json:"duration"`
}

// CareerAdvice bundles the recommendation text and roadmap for one role.
type CareerAdvice struct {
	Recommendation string        `json:"recommendation"`
	Roadmap        []RoadmapStep `json:"roadmap"`
}

// InterviewQuestion is a single generated question. IDs are unique within
// one generated set.
type InterviewQuestion struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
}

// QAPair pairs an interview question with the user's answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// InterviewResult is the outcome of evaluating a full set of answers.
type InterviewResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Advisor is the external content-generation collaborator. Every method
// either returns a response conforming to its declared schema or fails; a
// schema-nonconforming response is reported as a failure, never passed on.
type Advisor interface {
	AnalyzeResume(ctx context.Context, resumeText string) (*ResumeAnalysis, error)
	CareerAdvice(ctx context.Context, analysis *ResumeAnalysis, targetRole string) (*CareerAdvice, error)
	InterviewQuestions(ctx context.Context, analysis *ResumeAnalysis, targetRole string, count int) ([]InterviewQuestion, error)
	EvaluateAnswers(ctx context.Context, pairs []QAPair) (*InterviewResult, error)
}

// GenerationError reports a failed or schema-nonconforming content
// generation call. Op names the call that failed.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EvaluationError reports a failed interview-scoring call. It is kept
// distinct from GenerationError so the interview engine can roll back to the
// last question instead of discarding the session.
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("interview evaluation: %v", e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
