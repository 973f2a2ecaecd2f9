package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/repository"
	"quizforge/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo creator account with one sample quiz so a fresh
// environment has something to poke at.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	l := logger.Get()

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		l.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	quizRepo := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	ctx := context.Background()

	existing, err := userRepo.GetUserByEmail(ctx, "demo@quizforge.dev")
	if err != nil {
		l.Fatal("failed to check for demo user", zap.Error(err))
	}
	if existing != nil {
		l.Info("demo data already present, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		l.Fatal("failed to hash demo password", zap.Error(err))
	}

	now := time.Now()
	creator := &domain.User{
		ID:           util.NewULID(),
		Email:        "demo@quizforge.dev",
		Username:     "demo",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := userRepo.CreateUser(txCtx, creator); err != nil {
			return err
		}

		quiz := &domain.Quiz{
			ID:        util.NewULID(),
			Name:      "Go Basics",
			CreatorID: creator.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := quizRepo.CreateQuiz(txCtx, quiz); err != nil {
			return err
		}

		question := &domain.Question{
			ID:        util.NewULID(),
			QuizID:    quiz.ID,
			Text:      "Which keyword starts a goroutine?",
			Score:     10,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := quizRepo.CreateQuestion(txCtx, question); err != nil {
			return err
		}

		answers := []*domain.Answer{
			{ID: util.NewULID(), QuestionID: question.ID, Text: "go", Correct: true, CreatedAt: now, UpdatedAt: now},
			{ID: util.NewULID(), QuestionID: question.ID, Text: "run", Correct: false, CreatedAt: now, UpdatedAt: now},
			{ID: util.NewULID(), QuestionID: question.ID, Text: "spawn", Correct: false, CreatedAt: now, UpdatedAt: now},
		}
		return quizRepo.CreateAnswers(txCtx, answers)
	})
	if err != nil {
		l.Fatal("seeding failed", zap.Error(err))
	}
	l.Info("seeded demo data", zap.String("creator_id", creator.ID))
}
