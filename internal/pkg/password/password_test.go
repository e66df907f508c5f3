package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("station-secret-1")
	require.NoError(t, err)
	assert.NotEqual(t, "station-secret-1", hash)

	assert.True(t, Verify("station-secret-1", hash))
	assert.False(t, Verify("wrong-secret", hash))
}

func TestHashTokenIsDeterministic(t *testing.T) {
	first := HashToken("refresh-token-abc")
	second := HashToken("refresh-token-abc")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, HashToken("refresh-token-xyz"))
}

func TestAcceptable(t *testing.T) {
	assert.True(t, Acceptable("eightchr"))
	assert.False(t, Acceptable("short"))
	assert.False(t, Acceptable(""))
}
