package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shaharshita/PathWay-Ai/internal/ai"
	"github.com/shaharshita/PathWay-Ai/internal/ai/gemini"
	"github.com/shaharshita/PathWay-Ai/internal/extract"
	"github.com/shaharshita/PathWay-Ai/internal/interview"
	"github.com/shaharshita/PathWay-Ai/internal/logger"
	"github.com/shaharshita/PathWay-Ai/internal/pipeline"
	"github.com/shaharshita/PathWay-Ai/internal/profile"
	"github.com/shaharshita/PathWay-Ai/internal/roles"
	"github.com/shaharshita/PathWay-Ai/internal/secrets"
	"github.com/shaharshita/PathWay-Ai/internal/storage"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptAnalyzeResume = "Analyze a resume (PDF)"
	PromptSelectRole    = "Choose a target role"
	PromptShowPlan      = "Show career plan"
	PromptInterview     = "Start a mock interview"
	PromptLogout        = "Log out"
	PromptExit          = "Exit"
)

var errExit = errors.New("exit requested")

var menuPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptAnalyzeResume, PromptSelectRole, PromptShowPlan, PromptInterview, PromptLogout, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive pathway session",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the main command for the cli.
func run() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	logger.Info("starting pathway", zap.String("version", version))

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = viper.GetString("data-dir")
	}

	db, err := storage.Open(dataDir)
	if err != nil {
		logger.Fatal("opening session storage", zap.Error(err), zap.String("data_dir", dataDir))
	}
	defer db.Close()

	advisor, err := newAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the content generator",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	store := profile.NewStore(db, advisor, logger)
	if err := store.Restore(); err != nil {
		logger.Warn("restoring previous session failed, starting fresh", zap.Error(err))
	}

	if err := ensureLogin(store); err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}

	orch := pipeline.New(store, advisor, logger)

	for {
		_, action, err := menuPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, store, orch, advisor, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			var precond *profile.PreconditionError
			if errors.As(err, &precond) {
				fmt.Printf("Not yet: %s.\n", precond)
				continue
			}
			logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, store *profile.Store, orch *pipeline.Orchestrator, advisor ai.Advisor, logger *zap.Logger) error {
	switch action {
	case PromptAnalyzeResume:
		return analyzeResume(ctx, store)
	case PromptSelectRole:
		return selectRole(ctx, store, orch)
	case PromptShowPlan:
		return showPlan(store)
	case PromptInterview:
		return runInterview(ctx, store, advisor, logger)
	case PromptLogout:
		store.Reset()
		fmt.Println("Logged out.")
		return ensureLogin(store)
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func ensureLogin(store *profile.Store) error {
	if store.LoggedIn() {
		user := store.Profile().User
		fmt.Printf("Welcome back, %s.\n", user.Name)
		return nil
	}

	emailPrompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("email must not be empty")
			}
			return nil
		},
	}

	email, err := emailPrompt.Run()
	if err != nil {
		return err
	}

	user, err := store.Login(email)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s.\n", user.Name)
	return nil
}

func analyzeResume(ctx context.Context, store *profile.Store) error {
	pathPrompt := promptui.Prompt{Label: "Path to resume PDF"}
	path, err := pathPrompt.Run()
	if err != nil {
		return err
	}

	text, err := extract.FromPDF(strings.TrimSpace(path))
	if err != nil {
		return err
	}

	fmt.Println("Analyzing resume...")
	analysis, err := store.AnalyzeResume(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("\nSkills: %s\n", strings.Join(analysis.Skills, ", "))
	fmt.Printf("Strengths:\n%s", bulleted(analysis.Strengths))
	fmt.Printf("Improvement areas:\n%s", bulleted(analysis.Weaknesses))
	fmt.Printf("Missing skills: %s\n\n", strings.Join(analysis.MissingSkills, ", "))
	return nil
}

func selectRole(ctx context.Context, store *profile.Store, orch *pipeline.Orchestrator) error {
	rolePrompt := promptui.Select{
		Label: "Target role",
		Items: roles.Catalog,
	}

	_, role, err := rolePrompt.Run()
	if err != nil {
		return err
	}

	done, err := orch.SelectRole(ctx, role)
	if err != nil {
		return err
	}

	fmt.Printf("Generating your %s career path...\n", role)
	if err := <-done; err != nil {
		if errors.Is(err, pipeline.ErrSuperseded) {
			return nil
		}
		return err
	}

	path := store.Profile().CareerPath
	if path == nil {
		return errors.New("career path missing after generation")
	}

	fmt.Printf("\nReadiness for %s: %d%%\n\n", path.Role, path.ReadinessScore)
	return nil
}

func showPlan(store *profile.Store) error {
	p := store.Profile()
	if p.CareerPath == nil {
		return &profile.PreconditionError{Op: "show career plan", Missing: "a generated career path"}
	}

	path := p.CareerPath
	fmt.Printf("\n%s — readiness %d%%\n\n%s\n\nRoadmap:\n", path.Role, path.ReadinessScore, path.Recommendation)
	for i, step := range path.Roadmap {
		fmt.Printf("%d. %s (%s)\n   %s\n", i+1, step.Title, step.Duration, step.Description)
		for _, res := range step.Resources {
			fmt.Printf("   - %s\n", res)
		}
	}
	if p.InterviewScore != nil {
		fmt.Printf("\nLast mock interview score: %.1f/10\n", *p.InterviewScore)
	}
	fmt.Println()
	return nil
}

func runInterview(ctx context.Context, store *profile.Store, advisor ai.Advisor, logger *zap.Logger) error {
	p := store.Profile()
	if p.CareerPath == nil || len(p.CareerPath.InterviewQuestions) == 0 {
		return &profile.PreconditionError{Op: "start interview", Missing: "a career path with interview questions"}
	}

	session := interview.NewSession(p.CareerPath.InterviewQuestions, advisor, store, logger)
	if err := session.Start(); err != nil {
		return err
	}

	fmt.Printf("\nMock interview for %s: %d questions. Empty answers are not accepted.\n\n", p.CareerPath.Role, session.QuestionCount())

	for session.State() == interview.StateInProgress {
		question, err := session.Current()
		if err != nil {
			return err
		}

		fmt.Printf("Question %d of %d: %s\n", session.AnswerCount()+1, session.QuestionCount(), question.Question)

		answerPrompt := promptui.Prompt{
			Label: "Your answer",
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("answer must not be empty")
				}
				return nil
			},
		}

		answer, err := answerPrompt.Run()
		if err != nil {
			return err
		}

		if err := session.SubmitAnswer(ctx, answer); err != nil {
			var evalErr *ai.EvaluationError
			if errors.As(err, &evalErr) {
				// Collected answers survive; the user resubmits only the
				// last one.
				fmt.Println("Evaluation failed, your answers are kept. Try the last question again.")
				continue
			}
			return err
		}
	}

	result := session.Result()
	if result == nil {
		return errors.New("interview finished without a result")
	}

	fmt.Printf("\nInterview complete! Score: %.1f/10\n\nFeedback: %s\n\n", result.Score, result.Feedback)
	return nil
}

func newAdvisor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Advisor, error) {
	var geminiCfg *GeminiConfig
	if cfg != nil {
		provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
		if provider != "" && provider != "gemini" {
			return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
		}
		geminiCfg = cfg.Gemini
	}
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	keyFile := geminiCfg.APIKeyFile
	if keyFile == "" {
		keyFile = viper.GetString("ai.gemini.api-key-file")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model)
	if err != nil {
		return nil, err
	}

	advisorLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewAdvisor(generator, advisorLogger, geminiCfg.MaxLogLength), nil
}

func bulleted(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("  - ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}
