package cache

import (
	"testing"

	"postboard/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(&config.Config{RedisHost: mr.Host(), RedisPort: mr.Port()})
	require.NoError(t, err)
	defer client.Close()

	assert.NotNil(t, client)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewRedisClient(&config.Config{RedisHost: host, RedisPort: port})
	assert.Error(t, err)
}
