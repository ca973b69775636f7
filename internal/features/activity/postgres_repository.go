package activity

import (
	"context"

	"go-ojs/internal/database"
)

type PostgresActivityRepository struct {
	db *database.PostgresDB
}

func NewPostgresActivityRepository(db *database.PostgresDB) ActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// InsertEntrySQL is shared with the submission store, which appends inside its transaction.
const InsertEntrySQL = `INSERT INTO ` + CollectionName + ` (id, submission_id, message, category, actor_id, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// InsertArgs returns the positional arguments for InsertEntrySQL.
func (e Entry) InsertArgs() []any {
	return []any{e.ID, e.SubmissionID, e.Message, string(e.Category), e.ActorID, e.Metadata, e.CreatedAt}
}

func (r *PostgresActivityRepository) Append(ctx context.Context, entry Entry) error {
	_, err := r.db.DB.ExecContext(ctx, InsertEntrySQL, entry.InsertArgs()...)
	return err
}

func (r *PostgresActivityRepository) ListBySubmission(ctx context.Context, submissionID string, limit, offset int64) ([]Entry, error) {
	query := `SELECT id, submission_id, message, category, actor_id, metadata, created_at
FROM ` + CollectionName + ` WHERE submission_id = $1 ORDER BY created_at DESC, id DESC OFFSET $2`
	args := []any{submissionID, offset}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var category string
		if err := rows.Scan(&e.ID, &e.SubmissionID, &e.Message, &category, &e.ActorID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Category = Category(category)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EnsureIndexes is a no-op; the schema creates the index.
func (r *PostgresActivityRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
