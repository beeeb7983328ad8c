package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestAllowWithinBurst(t *testing.T) {
	p := NewPerKey(rate.Limit(1), 3)

	assert.True(t, p.Allow("user-1"))
	assert.True(t, p.Allow("user-1"))
	assert.True(t, p.Allow("user-1"))
	assert.False(t, p.Allow("user-1"))
}

func TestKeysAreIndependent(t *testing.T) {
	p := NewPerKey(rate.Limit(1), 1)

	assert.True(t, p.Allow("user-1"))
	assert.False(t, p.Allow("user-1"))

	// A different key has its own bucket.
	assert.True(t, p.Allow("user-2"))
}

func TestBurstFloorIsOne(t *testing.T) {
	p := NewPerKey(rate.Limit(1), 0)
	assert.True(t, p.Allow("user-1"))
}
