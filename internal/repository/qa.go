package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shulman33/careerchat/internal/domain"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type QARepository struct {
	db dbtx
}

func NewQARepository(pool *pgxpool.Pool) *QARepository {
	return &QARepository{db: pool}
}

func NewQARepositoryWithTx(tx pgx.Tx) *QARepository {
	return &QARepository{db: tx}
}

// FetchAll returns every entry, newest first. The dataset stays in the
// tens-to-hundreds range, so no pagination.
func (r *QARepository) FetchAll(ctx context.Context) ([]*domain.QAEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, question, answer, created_at
		 FROM qa ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQARows(rows)
}

// Insert always appends a new row, even when the question duplicates an
// existing one. Corrections supersede rather than mutate.
func (r *QARepository) Insert(ctx context.Context, question, answer string) error {
	e := &domain.QAEntry{Question: question, Answer: answer}
	if err := domain.ValidateQAEntry(e); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO qa (question, answer) VALUES ($1, $2)`,
		question, answer,
	)
	return err
}

// UpdateAnswer replaces the answer on the most recently created row whose
// question matches exactly. Older duplicate rows are left untouched.
// Returns false when no row matched.
func (r *QARepository) UpdateAnswer(ctx context.Context, question, newAnswer string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE qa SET answer = $1
		 WHERE id = (
		     SELECT id FROM qa WHERE question = $2
		     ORDER BY created_at DESC, id DESC LIMIT 1
		 )`,
		newAnswer, question,
	)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Count returns the number of stored entries. Seeding is guarded on a
// zero count; that check is not atomic against a concurrent seeder, which
// is accepted for a single-instance deployment.
func (r *QARepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM qa`).Scan(&n)
	return n, err
}

func scanQARows(rows pgx.Rows) ([]*domain.QAEntry, error) {
	var results []*domain.QAEntry
	for rows.Next() {
		var e domain.QAEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &e)
	}
	return results, rows.Err()
}
