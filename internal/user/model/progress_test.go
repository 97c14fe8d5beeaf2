package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_AddIdempotent(t *testing.T) {
	p := Progress{}

	assert.True(t, p.Add("Ballet", "Beginner", "v1"))
	assert.Equal(t, 1, p.CompletedCount("Ballet", "Beginner"))

	assert.False(t, p.Add("Ballet", "Beginner", "v1"))
	assert.Equal(t, 1, p.CompletedCount("Ballet", "Beginner"))

	assert.True(t, p.Add("Ballet", "Beginner", "v2"))
	assert.Equal(t, 2, p.CompletedCount("Ballet", "Beginner"))
}

func TestProgress_LazyPaths(t *testing.T) {
	p := Progress{}

	assert.Equal(t, 0, p.CompletedCount("Jazz", "Advanced"))
	assert.True(t, p.Add("Jazz", "Advanced", "v9"))
	assert.Equal(t, 1, p.CompletedCount("Jazz", "Advanced"))

	// Sibling paths are independent.
	assert.True(t, p.Add("Jazz", "Beginner", "v1"))
	assert.Equal(t, 1, p.CompletedCount("Jazz", "Advanced"))
	assert.Equal(t, 1, p.CompletedCount("Jazz", "Beginner"))
}

func TestProgress_CloneIsIndependent(t *testing.T) {
	p := Progress{}
	p.Add("Ballet", "Beginner", "v1")

	clone := p.Clone()
	clone.Add("Ballet", "Beginner", "v2")
	clone.Add("Tap", "Beginner", "v1")

	assert.Equal(t, 1, p.CompletedCount("Ballet", "Beginner"))
	assert.Equal(t, 0, p.CompletedCount("Tap", "Beginner"))
	assert.Equal(t, 2, clone.CompletedCount("Ballet", "Beginner"))
}

func TestProgress_ScanValue(t *testing.T) {
	p := Progress{}
	p.Add("Ballet", "Beginner", "v1")

	value, err := p.Value()
	require.NoError(t, err)

	var scanned Progress
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, p, scanned)

	var fromNil Progress
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, Progress{}, fromNil)

	var fromBytes Progress
	require.NoError(t, fromBytes.Scan([]byte(`{"Jazz":{"Advanced":["v2"]}}`)))
	assert.Equal(t, 1, fromBytes.CompletedCount("Jazz", "Advanced"))

	assert.Error(t, new(Progress).Scan(42))
}
