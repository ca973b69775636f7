package role

import (
	"context"

	"go-ojs/internal/database"

	"github.com/lib/pq"
)

type PostgresRoleRepository struct {
	db *database.PostgresDB
}

func NewPostgresRoleRepository(db *database.PostgresDB) RoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) Assign(ctx context.Context, role JournalRole) error {
	_, err := r.db.DB.ExecContext(ctx,
		`INSERT INTO `+CollectionName+` (user_id, journal_id, role) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		role.UserID, role.JournalID, role.Role)
	return err
}

func (r *PostgresRoleRepository) FindRoles(ctx context.Context, userID, journalID string) ([]string, error) {
	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT role FROM `+CollectionName+` WHERE user_id = $1 AND journal_id = $2`, userID, journalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *PostgresRoleRepository) FindJournals(ctx context.Context, userID string, roles []string) ([]string, error) {
	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT DISTINCT journal_id FROM `+CollectionName+` WHERE user_id = $1 AND role = ANY($2) ORDER BY journal_id`,
		userID, pq.Array(roles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		journals = append(journals, id)
	}
	return journals, rows.Err()
}

func (r *PostgresRoleRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
