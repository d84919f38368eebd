package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practicelog/internal/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestPageCache_HitThenFlush(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewPageCache(client, 10*time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, "day1.html")
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache should miss")

	page := &models.QuestionPage{
		File: "day1.html",
		Questions: []models.QuestionDetail{
			{Number: "1", Title: "Two Sum", Difficulty: models.DifficultyEasy, URL: "https://leetcode.cn/problems/two-sum/"},
		},
	}
	require.NoError(t, cache.Set(ctx, page))
	assert.True(t, mr.Exists("question_page:day1.html"))
	assert.Equal(t, 10*time.Minute, mr.TTL("question_page:day1.html"))

	got, err = cache.Get(ctx, "day1.html")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "day1.html", got.File)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "Two Sum", got.Questions[0].Title)
	assert.Equal(t, models.DifficultyEasy, got.Questions[0].Difficulty)
	assert.Equal(t, "https://leetcode.cn/problems/two-sum/", got.Questions[0].URL)

	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, cache.Flush(ctx))

	assert.False(t, mr.Exists("question_page:day1.html"))
	assert.True(t, mr.Exists("unrelated"), "flush only drops cached pages")

	got, err = cache.Get(ctx, "day1.html")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPageCache_FlushEmptyIsNoop(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewPageCache(client, time.Minute)
	assert.NoError(t, cache.Flush(context.Background()))
}

func TestPageCache_CorruptEntryIsAnError(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewPageCache(client, time.Minute)
	require.NoError(t, mr.Set("question_page:bad.html", "{not json"))

	got, err := cache.Get(context.Background(), "bad.html")
	assert.Error(t, err)
	assert.Nil(t, got)
}
