package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-ojs/internal/database"
	"go-ojs/internal/features/activity"
)

type PostgresSubmissionRepository struct {
	db *database.PostgresDB
}

func NewPostgresSubmissionRepository(db *database.PostgresDB) SubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

const submissionColumns = `id, journal_id, current_stage, status, is_archived, version, scheduled_publish_at, submitted_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var s Submission
	var stage, status string
	var publishAt sql.NullTime
	if err := row.Scan(&s.ID, &s.JournalID, &stage, &status, &s.IsArchived, &s.Version, &publishAt, &s.SubmittedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.CurrentStage = Stage(stage)
	s.Status = Status(status)
	if publishAt.Valid {
		t := publishAt.Time
		s.ScheduledPublishAt = &t
	}
	return &s, nil
}

func (r *PostgresSubmissionRepository) Create(ctx context.Context, s Submission) error {
	_, err := r.db.DB.ExecContext(ctx,
		`INSERT INTO `+CollectionName+` (`+submissionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.JournalID, string(s.CurrentStage), string(s.Status), s.IsArchived, s.Version, s.ScheduledPublishAt, s.SubmittedAt, s.UpdatedAt)
	return err
}

func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id string) (*Submission, error) {
	row := r.db.DB.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM `+CollectionName+` WHERE id = $1`, id)
	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *PostgresSubmissionRepository) FindJournalID(ctx context.Context, id string) (string, error) {
	var journalID string
	err := r.db.DB.QueryRowContext(ctx, `SELECT journal_id FROM `+CollectionName+` WHERE id = $1`, id).Scan(&journalID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return journalID, err
}

func (r *PostgresSubmissionRepository) ListDueForPublication(ctx context.Context, now time.Time, limit int64) ([]Submission, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT `+submissionColumns+` FROM `+CollectionName+`
WHERE status = $1 AND is_archived = FALSE AND scheduled_publish_at <= $2
ORDER BY scheduled_publish_at ASC LIMIT $3`, string(StatusScheduled), now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

// buildUpdateSQL renders the conditional UPDATE for a transition. Columns come
// from Update.Fields and are never user supplied.
func buildUpdateSQL(id string, update Update, now time.Time) (string, []any) {
	fields := update.Fields()
	columns := make([]string, 0, len(fields))
	for col := range fields {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := []string{"updated_at = $1", "version = version + 1"}
	args := []any{now}
	for _, col := range columns {
		args = append(args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", CollectionName, strings.Join(sets, ", "), len(args))
	if update.ExpectedVersion != nil {
		args = append(args, *update.ExpectedVersion)
		query += fmt.Sprintf(" AND version = $%d", len(args))
	}
	return query, args
}

func (r *PostgresSubmissionRepository) ApplyTransition(ctx context.Context, id string, update Update, entry activity.Entry) error {
	query, args := buildUpdateSQL(id, update, entry.CreatedAt)

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			if update.ExpectedVersion == nil {
				return ErrNotFound
			}
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+CollectionName+` WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			return ErrVersionConflict
		}

		_, err = tx.ExecContext(ctx, activity.InsertEntrySQL, entry.InsertArgs()...)
		return err
	})
}

// EnsureIndexes is a no-op; the schema creates the indexes.
func (r *PostgresSubmissionRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
