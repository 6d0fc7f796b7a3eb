package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPer(t *testing.T) {
	assert.Equal(t, rate.Every(500*time.Millisecond), Per(2, time.Second))
}

func TestFromConfig(t *testing.T) {
	assert.Nil(t, FromConfig(nil))
	assert.Nil(t, FromConfig([]Config{{EventCount: 0, EventDur: 1000}}))

	l := FromConfig([]Config{
		{EventCount: 10, EventDur: 1000, Bucket: 10},
		{EventCount: 1, EventDur: 60000, Bucket: 1},
	})
	require.NotNil(t, l)
	assert.Equal(t, Per(1, time.Minute), l.Limit(), "strictest limiter comes first")
}

func TestMultiLimiterWait(t *testing.T) {
	l := FromConfig([]Config{{EventCount: 1, EventDur: 60000, Bucket: 1}})
	require.NotNil(t, l)

	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx), "bucket is drained for a minute")
}

func TestEmptyMulti(t *testing.T) {
	m := Multi()
	assert.Equal(t, rate.Inf, m.Limit())
	assert.NoError(t, m.Wait(context.Background()))
}
