package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// groupRepository implements domain.GroupRepository
type groupRepository struct {
	db Querier
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db Querier) domain.GroupRepository {
	return &groupRepository{db: db}
}

// GetByID retrieves a group by its ID
func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `
		SELECT id, name, owner_id
		FROM groups
		WHERE id = $1
	`
	return r.scanGroup(ctx, query, id)
}

// LockByID retrieves a group and takes an exclusive lock on its row. The lock
// is held until the surrounding transaction commits or rolls back, so it must
// be called on a repository bound to a transaction.
func (r *groupRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `
		SELECT id, name, owner_id
		FROM groups
		WHERE id = $1
		FOR UPDATE
	`
	group, err := r.scanGroup(ctx, query, id)
	if err != nil && isLockTimeout(err) {
		return nil, fmt.Errorf("%w: group %s: %v", domain.ErrLockTimeout, id, err)
	}
	return group, err
}

func (r *groupRepository) scanGroup(ctx context.Context, query string, id uuid.UUID) (*domain.Group, error) {
	var group domain.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.Name, &group.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGroupNotFound, id)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// IsMember reports whether the user has a membership row or owns the group
func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		) OR EXISTS (
			SELECT 1 FROM groups WHERE id = $1 AND owner_id = $2
		)
	`

	var member bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return member, nil
}
