package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStoreLifecycle(t *testing.T) {
	store := NewJobStore()

	store.Create("j1", normalizedRequest{Animal: "fox"})

	job, ok := store.Get("j1")
	require.True(t, ok)
	assert.Equal(t, StatusPending, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Nil(t, job.CompletedAt)

	store.SetStage("j1", "torso")
	job, _ = store.Get("j1")
	assert.Equal(t, StatusProcessing, job.Status)
	assert.Equal(t, "torso", job.Stage)

	store.Complete("j1", "/rhythmojis/a.png", "/tmp/a.png")
	job, _ = store.Get("j1")
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Empty(t, job.Stage)
	assert.Equal(t, "/rhythmojis/a.png", job.ImageURL)
	require.NotNil(t, job.CompletedAt)
}

func TestJobStoreFail(t *testing.T) {
	store := NewJobStore()
	store.Create("j2", normalizedRequest{})

	store.Fail("j2", "pipeline exploded")

	job, ok := store.Get("j2")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "pipeline exploded", job.Error)
	require.NotNil(t, job.CompletedAt)
}

func TestJobStoreGetUnknown(t *testing.T) {
	store := NewJobStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestJobStoreGetReturnsCopy(t *testing.T) {
	store := NewJobStore()
	store.Create("j3", normalizedRequest{})

	job, _ := store.Get("j3")
	job.Status = "mutated"

	fresh, _ := store.Get("j3")
	assert.Equal(t, StatusPending, fresh.Status)
}
