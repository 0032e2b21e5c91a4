package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

func newTestCacheRepo(t *testing.T) (*CacheRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo, err := NewCacheRepo(client)
	require.NoError(t, err)
	return repo, mr
}

func TestCacheRepo_SetGetJSON_RoundTrip(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	type payload struct {
		SessionID string `json:"session_id"`
		Points    int    `json:"points"`
	}
	original := payload{SessionID: "session-1", Points: 30}

	require.NoError(t, repo.SetJSON("scoreboard:session-1", original, time.Minute))

	var got payload
	require.NoError(t, repo.GetJSON("scoreboard:session-1", &got))
	assert.Equal(t, original, got)
}

func TestCacheRepo_GetJSON_MissReturnsNotFound(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	var dest map[string]interface{}
	err := repo.GetJSON("scoreboard:unknown", &dest)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCacheRepo_Delete_Invalidates(t *testing.T) {
	repo, mr := newTestCacheRepo(t)

	require.NoError(t, repo.SetJSON("scoreboard:session-1", map[string]int{"x": 1}, time.Minute))
	require.True(t, mr.Exists("scoreboard:session-1"))

	require.NoError(t, repo.Delete("scoreboard:session-1"))
	assert.False(t, mr.Exists("scoreboard:session-1"))

	var dest map[string]int
	assert.ErrorIs(t, repo.GetJSON("scoreboard:session-1", &dest), apperrors.ErrNotFound)
}

func TestCacheRepo_TTLExpiry(t *testing.T) {
	repo, mr := newTestCacheRepo(t)

	require.NoError(t, repo.SetJSON("scoreboard:session-1", map[string]int{"x": 1}, 500*time.Millisecond))

	// miniredis позволяет прокрутить время без ожидания
	mr.FastForward(time.Second)

	var dest map[string]int
	assert.ErrorIs(t, repo.GetJSON("scoreboard:session-1", &dest), apperrors.ErrNotFound)
}

func TestNewCacheRepo_NilClient(t *testing.T) {
	_, err := NewCacheRepo(nil)
	assert.Error(t, err)
}
