package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest int
	assert.ErrorIs(t, repo.Get(ctx, "notifications:unread:u1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "notifications:unread:u1", 3, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "notifications:unread:u1"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "notifications:*"))
}
