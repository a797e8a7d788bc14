package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Open(context.Background(), "redis://"+mr.Addr()+"/0")

	require.NoError(t, err)
	defer c.Close()
	assert.NoError(t, c.Ping(context.Background()).Err())
}

func TestOpen_EmptyURLDisablesRedis(t *testing.T) {
	c, err := Open(context.Background(), "")

	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "http://nope")

	assert.Error(t, err)
}
