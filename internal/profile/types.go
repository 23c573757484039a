package profile

import "github.com/shaharshita/PathWay-Ai/internal/ai"

// User is the opaque authenticated identity for the session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ResumeAnalysis is the stored analysis of one resume, always written as a
// whole. SourceText keeps the extracted text the analysis was produced from.
type ResumeAnalysis struct {
	ai.ResumeAnalysis
	SourceText string `json:"resumeText"`
}

// CareerPath bundles everything generated for exactly one selected role.
type CareerPath struct {
	Role               string                 `json:"role"`
	ReadinessScore     int                    `json:"readinessScore"`
	Recommendation     string                 `json:"recommendation"`
	Roadmap            []ai.RoadmapStep       `json:"roadmap"`
	InterviewQuestions []ai.InterviewQuestion `json:"interviewQuestions"`
}

// UserProfile is the root aggregate for one user session. It is owned
// exclusively by Store; callers only ever see copies.
type UserProfile struct {
	User           *User           `json:"user,omitempty"`
	Analysis       *ResumeAnalysis `json:"analysis,omitempty"`
	SelectedRole   string          `json:"selectedRole,omitempty"`
	CareerPath     *CareerPath     `json:"careerPath,omitempty"`
	InterviewScore *float64        `json:"interviewScore,omitempty"`
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyAnalysis(a *ResumeAnalysis) *ResumeAnalysis {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Skills = copyStrings(a.Skills)
	cp.Strengths = copyStrings(a.Strengths)
	cp.Weaknesses = copyStrings(a.Weaknesses)
	cp.MissingSkills = copyStrings(a.MissingSkills)
	return &cp
}

func copyCareerPath(p *CareerPath) *CareerPath {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Roadmap != nil {
		cp.Roadmap = make([]ai.RoadmapStep, len(p.Roadmap))
		for i, step := range p.Roadmap {
			step.Resources = copyStrings(step.Resources)
			cp.Roadmap[i] = step
		}
	}
	if p.InterviewQuestions != nil {
		cp.InterviewQuestions = make([]ai.InterviewQuestion, len(p.InterviewQuestions))
		copy(cp.InterviewQuestions, p.InterviewQuestions)
	}
	return &cp
}

func copyProfile(p *UserProfile) UserProfile {
	cp := UserProfile{SelectedRole: p.SelectedRole}
	if p.User != nil {
		u := *p.User
		cp.User = &u
	}
	cp.Analysis = copyAnalysis(p.Analysis)
	cp.CareerPath = copyCareerPath(p.CareerPath)
	if p.InterviewScore != nil {
		score := *p.InterviewScore
		cp.InterviewScore = &score
	}
	return cp
}
