package command

import (
	"context"
	"testing"
	"time"

	"cmdbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userContext(userID string) *Context {
	return NewContext(context.Background(), nil, &domain.Message{
		Author:  domain.User{ID: userID},
		Channel: domain.Channel{ID: "c-1"},
		Guild:   domain.Guild{ID: "g-1"},
	})
}

func TestCooldownAllowsUpToRate(t *testing.T) {
	cd := NewCooldown(3, time.Minute, BucketUser)
	ctx := userContext("u-1")

	for i := 0; i < 3; i++ {
		retryAfter, ok := cd.Reserve(ctx)
		require.True(t, ok, "call %d within rate must pass", i+1)
		assert.Zero(t, retryAfter)
	}
}

func TestCooldownRejectsBeyondRate(t *testing.T) {
	cd := NewCooldown(2, time.Minute, BucketUser)
	ctx := userContext("u-1")

	_, ok := cd.Reserve(ctx)
	require.True(t, ok)
	_, ok = cd.Reserve(ctx)
	require.True(t, ok)

	retryAfter, ok := cd.Reserve(ctx)

	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestCooldownRejectionConsumesNothing(t *testing.T) {
	cd := NewCooldown(1, time.Hour, BucketUser)
	ctx := userContext("u-1")

	_, ok := cd.Reserve(ctx)
	require.True(t, ok)

	first, ok := cd.Reserve(ctx)
	require.False(t, ok)

	// a rejected reservation must not push the next token further out
	second, ok := cd.Reserve(ctx)
	require.False(t, ok)
	assert.LessOrEqual(t, second, first+time.Second)
}

func TestCooldownUserBucketsAreIndependent(t *testing.T) {
	cd := NewCooldown(1, time.Minute, BucketUser)

	_, ok := cd.Reserve(userContext("u-1"))
	require.True(t, ok)

	_, ok = cd.Reserve(userContext("u-1"))
	require.False(t, ok)

	_, ok = cd.Reserve(userContext("u-2"))
	assert.True(t, ok, "a different user keeps a full bucket")
}

func TestCooldownGlobalBucketShared(t *testing.T) {
	cd := NewCooldown(1, time.Minute, BucketGlobal)

	_, ok := cd.Reserve(userContext("u-1"))
	require.True(t, ok)

	_, ok = cd.Reserve(userContext("u-2"))
	assert.False(t, ok, "global bucket is shared across users")
}

func TestCooldownWindowRefills(t *testing.T) {
	cd := NewCooldown(1, 20*time.Millisecond, BucketUser)
	ctx := userContext("u-1")

	_, ok := cd.Reserve(ctx)
	require.True(t, ok)
	_, ok = cd.Reserve(ctx)
	require.False(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, ok = cd.Reserve(ctx)
	assert.True(t, ok, "bucket refills after the window elapses")
}

func TestCooldownReset(t *testing.T) {
	cd := NewCooldown(1, time.Hour, BucketUser)
	ctx := userContext("u-1")

	_, ok := cd.Reserve(ctx)
	require.True(t, ok)
	_, ok = cd.Reserve(ctx)
	require.False(t, ok)

	cd.Reset()

	_, ok = cd.Reserve(ctx)
	assert.True(t, ok)
}

func TestCooldownCustomKey(t *testing.T) {
	cd := NewCustomCooldown(1, time.Minute, func(c *Context) string {
		return c.Message.Channel.ID + ":" + c.Message.Author.ID
	})

	ctx := userContext("u-1")
	_, ok := cd.Reserve(ctx)
	require.True(t, ok)
	_, ok = cd.Reserve(ctx)
	assert.False(t, ok)

	other := userContext("u-2")
	_, ok = cd.Reserve(other)
	assert.True(t, ok)
}

func TestBucketTypeKey(t *testing.T) {
	ctx := userContext("u-1")

	assert.Equal(t, "u-1", BucketUser.Key(ctx))
	assert.Equal(t, "c-1", BucketChannel.Key(ctx))
	assert.Equal(t, "g-1", BucketGuild.Key(ctx))
	assert.Equal(t, "", BucketGlobal.Key(ctx))
}
