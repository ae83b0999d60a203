package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type directoryStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
	FindPRLForStream(ctx context.Context, exec sqlx.ExtContext, streamID string) (string, error)
	FindFirstPL(ctx context.Context, exec sqlx.ExtContext) (string, error)
}

// RecipientResolver computes who receives a workflow notification.
type RecipientResolver struct {
	users directoryStore
}

// NewRecipientResolver constructs a resolver over the user directory.
func NewRecipientResolver(users directoryStore) *RecipientResolver {
	return &RecipientResolver{users: users}
}

// PRLForStream returns the PRL of the stream, or nil when the stream has none.
func (r *RecipientResolver) PRLForStream(ctx context.Context, exec sqlx.ExtContext, streamID string) (*string, error) {
	if streamID == "" {
		return nil, nil
	}
	id, err := r.users.FindPRLForStream(ctx, exec, streamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Internal(err, "failed to resolve stream PRL")
	}
	return &id, nil
}

// FirstPL returns the programme leader, or nil when none is registered.
// With several PLs the earliest registered one is chosen.
func (r *RecipientResolver) FirstPL(ctx context.Context, exec sqlx.ExtContext) (*string, error) {
	id, err := r.users.FindFirstPL(ctx, exec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Internal(err, "failed to resolve programme leader")
	}
	return &id, nil
}

// User loads a user needed to compose a notification message.
func (r *RecipientResolver) User(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	user, err := r.users.FindByID(ctx, exec, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	return user, nil
}
