package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	SetCost(MinCost)
	defer SetCost(DefaultCost)

	hash, err := Hash("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, Verify("123456", hash))
	assert.False(t, Verify("654321", hash))
	assert.False(t, Verify("123456", "not-a-hash"))
}

func TestIsPin(t *testing.T) {
	tests := []struct {
		pin    string
		length int
		want   bool
	}{
		{"123456", 6, true},
		{"9370", 4, true},
		{"12345", 6, false},
		{"1234567", 6, false},
		{"12a456", 6, false},
		{"١٢٣٤", 4, false},
		{"", 4, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPin(tt.pin, tt.length), "pin=%q", tt.pin)
	}
}
