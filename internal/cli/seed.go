package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/auth"
	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/infra/postgres"
)

// NewSeedCmd loads the demo user and sample quizzes into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	quizzes := postgres.NewQuizRepository(pool)
	results := postgres.NewResultRepository(pool)

	authService := auth.NewService(users, cfg.Auth.Secret, 0)
	service := app.NewQuizService(users, quizzes, results, app.NewStatsLeaderboard(users, results, 0), nil)

	return seedDemoData(ctx, authService, service)
}

// seedDemoData registers the demo account and loads the sample quizzes,
// skipping whatever already exists.
func seedDemoData(ctx context.Context, authService *auth.Service, service *app.QuizService) error {
	if _, _, err := authService.Register(ctx, "Demo User", "demo@example.com", "demo123"); err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			return err
		}
	} else {
		slog.Info("demo user created")
	}

	existing, err := service.ListQuizzes(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, in := range sampleQuizzes() {
		if _, err := service.CreateQuiz(ctx, in); err != nil {
			return err
		}
	}
	slog.Info("sample quizzes created")
	return nil
}

func sampleQuizzes() []app.CreateQuizInput {
	generalTime := 300
	scienceTime := 120
	return []app.CreateQuizInput{
		{
			Title:       "General Knowledge Quiz",
			Description: "Test your knowledge on various topics",
			Difficulty:  domain.DifficultyMedium,
			Category:    "General Knowledge",
			TimeLimit:   &generalTime,
			Questions: []domain.Question{
				{
					Prompt:        "What is the capital of France?",
					Options:       []string{"London", "Paris", "Berlin", "Madrid"},
					CorrectAnswer: 1,
				},
				{
					Prompt:        "Which planet is closest to the sun?",
					Options:       []string{"Venus", "Earth", "Mercury", "Mars"},
					CorrectAnswer: 2,
				},
				{
					Prompt:        "What is the largest ocean on Earth?",
					Options:       []string{"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"},
					CorrectAnswer: 3,
				},
				{
					Prompt:        "Who wrote 'Romeo and Juliet'?",
					Options:       []string{"Jane Austen", "William Shakespeare", "Charles Dickens", "Mark Twain"},
					CorrectAnswer: 1,
				},
				{
					Prompt:        "What is the chemical symbol for Gold?",
					Options:       []string{"Go", "Gd", "Au", "Ag"},
					CorrectAnswer: 2,
				},
			},
		},
		{
			Title:       "Science Quiz",
			Description: "Test your science knowledge",
			Difficulty:  domain.DifficultyMedium,
			Category:    "Science",
			TimeLimit:   &scienceTime,
			Questions: []domain.Question{
				{
					Prompt:        "What is the chemical formula for water?",
					Options:       []string{"H2O", "CO2", "O2", "H2"},
					CorrectAnswer: 0,
				},
				{
					Prompt:        "How many bones are in the human body?",
					Options:       []string{"186", "206", "226", "246"},
					CorrectAnswer: 1,
				},
			},
		},
	}
}
