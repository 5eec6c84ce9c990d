package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
	"github.com/lib/pq"
)

// userRepository implements domain.UserRepository
type userRepository struct {
	db Querier
}

// NewUserRepository creates a new user repository
func NewUserRepository(db Querier) domain.UserRepository {
	return &userRepository{db: db}
}

// FindByIDs returns the users that exist among ids. Unknown ids are skipped.
func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `
		SELECT id, COALESCE(name, ''), email
		FROM users
		WHERE id = ANY($1::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(strIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var user domain.UserSummary
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
