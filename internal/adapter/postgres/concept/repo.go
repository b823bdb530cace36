// Package concept implements the Concept repository using PostgreSQL.
// Fixed-shape queries use raw SQL; the filtered listing is built with
// squirrel.
package concept

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mittord/mittord-backend/internal/adapter/postgres"
	"github.com/mittord/mittord-backend/internal/domain"
)

// Repo provides concept persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new concept repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const conceptColumns = `id, user_id, word, language, meaning, part_of_speech,
	explanations, explanation_quality, desired_words, pinyin, created_at, updated_at`

const knownWordsSQL = `
SELECT word FROM concepts
WHERE user_id = $1 AND language = $2
ORDER BY word`

const getByWordSQL = `
SELECT ` + conceptColumns + `
FROM concepts
WHERE user_id = $1 AND language = $2 AND word = $3`

const upsertSQL = `
INSERT INTO concepts (user_id, word, language, meaning, part_of_speech,
	explanations, explanation_quality, desired_words, pinyin)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, language, word) DO UPDATE SET
	meaning = EXCLUDED.meaning,
	part_of_speech = EXCLUDED.part_of_speech,
	explanations = EXCLUDED.explanations,
	explanation_quality = EXCLUDED.explanation_quality,
	desired_words = EXCLUDED.desired_words,
	pinyin = EXCLUDED.pinyin,
	updated_at = now()
RETURNING ` + conceptColumns

const updateExplanationsSQL = `
UPDATE concepts SET explanations = $2, updated_at = now()
WHERE id = $1`

// KnownWords returns every word in the learner's collection for one
// language, sorted. This feeds the vocabulary snapshot at request start.
func (r *Repo) KnownWords(ctx context.Context, userID uuid.UUID, lang domain.Language) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, knownWordsSQL, userID, lang.String())
	if err != nil {
		return nil, fmt.Errorf("known words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("known words: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// GetByWord returns the learner's concept for one word.
func (r *Repo) GetByWord(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByWordSQL, userID, lang.String(), word)
	c, err := scanConcept(row)
	if err != nil {
		return nil, mapError(err, "concept", userID)
	}
	return c, nil
}

// Upsert inserts a concept or, when the learner already has this word,
// replaces its generated fields. Returns the stored row.
func (r *Repo) Upsert(ctx context.Context, c *domain.Concept) (*domain.Concept, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, upsertSQL,
		c.UserID, c.Word, c.Language.String(), c.Meaning, c.PartOfSpeech.String(),
		c.Explanations, c.ExplanationQuality, c.DesiredWords, c.Pinyin,
	)
	stored, err := scanConcept(row)
	if err != nil {
		return nil, mapError(err, "concept", c.UserID)
	}
	return stored, nil
}

// UpdateExplanations replaces the explanation list of one concept.
func (r *Repo) UpdateExplanations(ctx context.Context, conceptID uuid.UUID, explanations []string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateExplanationsSQL, conceptID, explanations)
	if err != nil {
		return mapError(err, "concept", conceptID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "concept", conceptID)
	}
	return nil
}

// ListFilter narrows a concept listing.
type ListFilter struct {
	Language domain.Language
	Search   string
	Limit    uint64
	Offset   uint64
}

// List returns the learner's concepts, newest first, with optional filters.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]domain.Concept, error) {
	q := psql.Select("id", "user_id", "word", "language", "meaning", "part_of_speech",
		"explanations", "explanation_quality", "desired_words", "pinyin", "created_at", "updated_at").
		From("concepts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC, word ASC")

	if filter.Language != "" {
		q = q.Where(squirrel.Eq{"language": filter.Language.String()})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.Like{"word": filter.Search + "%"})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	defer rows.Close()

	var concepts []domain.Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("list concepts: %w", err)
		}
		concepts = append(concepts, *c)
	}
	return concepts, rows.Err()
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
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}

func scanConcept(row pgx.Row) (*domain.Concept, error) {
	var c domain.Concept
	var lang, pos string
	err := row.Scan(
		&c.ID, &c.UserID, &c.Word, &lang, &c.Meaning, &pos,
		&c.Explanations, &c.ExplanationQuality, &c.DesiredWords, &c.Pinyin,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Language = domain.Language(lang)
	c.PartOfSpeech = domain.PartOfSpeech(pos)
	return &c, nil
}
