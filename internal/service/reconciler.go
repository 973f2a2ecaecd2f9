package service

import (
	"context"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/util"
)

// reconciler drives a persisted quiz tree toward a client-submitted
// target tree with selective writes. Entries carrying a persisted ID
// are updated in place; entries without one (or with an ID that does
// not belong to this quiz) become new rows with fresh IDs; persisted
// rows the target does not mention are deleted. The caller runs it
// inside one transaction.
type reconciler struct {
	repo domain.QuizRepository
}

func newReconciler(repo domain.QuizRepository) *reconciler {
	return &reconciler{repo: repo}
}

// reconcile applies the target tree on top of the loaded quiz tree.
// The quiz's identity, creator and creation time are never touched.
func (r *reconciler) reconcile(ctx context.Context, quiz *domain.Quiz, target *domain.QuizTarget) error {
	now := time.Now()

	quiz.Name = target.Name
	quiz.UpdatedAt = now
	if err := r.repo.UpdateQuiz(ctx, quiz); err != nil {
		return err
	}

	persisted := make(map[string]*domain.Question, len(quiz.Questions))
	for _, question := range quiz.Questions {
		persisted[question.ID] = question
	}
	mentioned := make(map[string]bool, len(target.Questions))
	for _, qt := range target.Questions {
		if _, ok := persisted[qt.ID]; ok {
			mentioned[qt.ID] = true
		}
	}

	// Deletions run before creations so the target fully determines the
	// surviving set.
	var questionsToDelete []string
	for id := range persisted {
		if !mentioned[id] {
			questionsToDelete = append(questionsToDelete, id)
		}
	}
	if len(questionsToDelete) > 0 {
		if err := r.repo.DeleteQuestions(ctx, questionsToDelete); err != nil {
			return err
		}
	}

	for _, qt := range target.Questions {
		if existing, ok := persisted[qt.ID]; ok {
			if err := r.updateQuestion(ctx, existing, qt, now); err != nil {
				return err
			}
			continue
		}
		if err := r.createQuestion(ctx, quiz.ID, qt, now); err != nil {
			return err
		}
	}
	return nil
}

// updateQuestion rewrites the question's scalars unconditionally and
// reconciles its template answers.
func (r *reconciler) updateQuestion(ctx context.Context, existing *domain.Question, target domain.QuestionTarget, now time.Time) error {
	existing.Text = target.Text
	existing.Score = target.Score
	existing.UpdatedAt = now
	if err := r.repo.UpdateQuestion(ctx, existing); err != nil {
		return err
	}

	persisted := make(map[string]*domain.Answer, len(existing.Answers))
	for _, answer := range existing.Answers {
		persisted[answer.ID] = answer
	}
	mentioned := make(map[string]bool, len(target.Answers))
	for _, at := range target.Answers {
		if _, ok := persisted[at.ID]; ok {
			mentioned[at.ID] = true
		}
	}

	var answersToDelete []string
	for id := range persisted {
		if !mentioned[id] {
			answersToDelete = append(answersToDelete, id)
		}
	}
	if len(answersToDelete) > 0 {
		if err := r.repo.DeleteAnswers(ctx, answersToDelete); err != nil {
			return err
		}
	}

	var newAnswers []*domain.Answer
	for _, at := range target.Answers {
		if existingAnswer, ok := persisted[at.ID]; ok {
			existingAnswer.Text = at.Text
			existingAnswer.Correct = at.Correct
			existingAnswer.UpdatedAt = now
			if err := r.repo.UpdateAnswer(ctx, existingAnswer); err != nil {
				return err
			}
			continue
		}
		newAnswers = append(newAnswers, &domain.Answer{
			ID:         util.NewULID(),
			QuestionID: existing.ID,
			Text:       at.Text,
			Correct:    at.Correct,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(newAnswers) > 0 {
		return r.repo.CreateAnswers(ctx, newAnswers)
	}
	return nil
}

// createQuestion inserts a target question as a fresh row. Any client-
// supplied ID that did not match a persisted question is discarded, so
// forged IDs cannot graft rows onto other quizzes.
func (r *reconciler) createQuestion(ctx context.Context, quizID string, target domain.QuestionTarget, now time.Time) error {
	question := &domain.Question{
		ID:        util.NewULID(),
		QuizID:    quizID,
		Text:      target.Text,
		Score:     target.Score,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.repo.CreateQuestion(ctx, question); err != nil {
		return err
	}

	if len(target.Answers) == 0 {
		return nil
	}
	answers := make([]*domain.Answer, 0, len(target.Answers))
	for _, at := range target.Answers {
		answers = append(answers, &domain.Answer{
			ID:         util.NewULID(),
			QuestionID: question.ID,
			Text:       at.Text,
			Correct:    at.Correct,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return r.repo.CreateAnswers(ctx, answers)
}
