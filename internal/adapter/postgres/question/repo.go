// Package question implements persistence for generated practice questions.
package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mittord/mittord-backend/internal/adapter/postgres"
	"github.com/mittord/mittord-backend/internal/domain"
)

// Repo provides question persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new question repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createYesNoSQL = `
INSERT INTO yes_no_questions (user_id, word, language, question, answer)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

const createClozeSQL = `
INSERT INTO cloze_questions (user_id, word, language, sentence, options, correct_index)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

const listYesNoSQL = `
SELECT id, user_id, word, language, question, answer, created_at
FROM yes_no_questions
WHERE user_id = $1 AND language = $2 AND word = $3
ORDER BY created_at DESC`

// CreateYesNo stores a yes/no question and returns it with its assigned ID.
func (r *Repo) CreateYesNo(ctx context.Context, q *domain.YesNoQuestion) (*domain.YesNoQuestion, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	out := *q
	err := querier.QueryRow(ctx, createYesNoSQL,
		q.UserID, q.Word, q.Language.String(), q.Question, q.Answer,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, mapError(err, "yes/no question", q.UserID)
	}
	return &out, nil
}

// CreateCloze stores a fill-in-the-blank question and returns it with its
// assigned ID.
func (r *Repo) CreateCloze(ctx context.Context, q *domain.ClozeQuestion) (*domain.ClozeQuestion, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	out := *q
	err := querier.QueryRow(ctx, createClozeSQL,
		q.UserID, q.Word, q.Language.String(), q.Sentence, q.Options, q.CorrectIndex,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, mapError(err, "cloze question", q.UserID)
	}
	return &out, nil
}

// ListYesNoByWord returns the learner's yes/no questions for one word,
// newest first.
func (r *Repo) ListYesNoByWord(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) ([]domain.YesNoQuestion, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listYesNoSQL, userID, lang.String(), word)
	if err != nil {
		return nil, fmt.Errorf("list yes/no questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.YesNoQuestion
	for rows.Next() {
		var q domain.YesNoQuestion
		var l string
		if err := rows.Scan(&q.ID, &q.UserID, &q.Word, &l, &q.Question, &q.Answer, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("list yes/no questions: %w", err)
		}
		q.Language = domain.Language(l)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
