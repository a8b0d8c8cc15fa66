package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeEditClient struct {
	result    []byte
	err       error
	lastMask  []byte
	lastModel string
}

func (f *fakeEditClient) EditImage(ctx context.Context, prompt string, image, mask []byte, model string) ([]byte, error) {
	f.lastMask = mask
	f.lastModel = model
	return f.result, f.err
}

func newTestService(client *fakeEditClient) *Service {
	return &Service{
		client:  client,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestApplyEditWritesResultToTempFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	client := &fakeEditClient{result: []byte("edited-bytes")}
	svc := newTestService(client)

	out := svc.ApplyEdit(context.Background(), input, "add a hat", "", "")
	require.NotEmpty(t, out)
	t.Cleanup(func() { os.Remove(out) })

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "edited-bytes", string(data))
	assert.Nil(t, client.lastMask)
}

func TestApplyEditPassesMaskWhenPresent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	mask := filepath.Join(dir, "head.png")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))
	require.NoError(t, os.WriteFile(mask, []byte("mask-bytes"), 0o644))

	client := &fakeEditClient{result: []byte("edited")}
	svc := newTestService(client)

	out := svc.ApplyEdit(context.Background(), input, "swap the head", mask, "")
	require.NotEmpty(t, out)
	t.Cleanup(func() { os.Remove(out) })

	assert.Equal(t, []byte("mask-bytes"), client.lastMask)
}

func TestApplyEditMissingMaskDegradesToWholeImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	client := &fakeEditClient{result: []byte("edited")}
	svc := newTestService(client)

	out := svc.ApplyEdit(context.Background(), input, "swap the head", filepath.Join(dir, "missing.png"), "")
	require.NotEmpty(t, out)
	t.Cleanup(func() { os.Remove(out) })

	assert.Nil(t, client.lastMask)
}

func TestApplyEditReturnsEmptyOnClientError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	svc := newTestService(&fakeEditClient{err: fmt.Errorf("model unavailable")})

	assert.Empty(t, svc.ApplyEdit(context.Background(), input, "p", "", ""))
}

func TestApplyEditReturnsEmptyOnEmptyResult(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	svc := newTestService(&fakeEditClient{result: nil})

	assert.Empty(t, svc.ApplyEdit(context.Background(), input, "p", "", ""))
}

func TestApplyEditReturnsEmptyOnMissingInput(t *testing.T) {
	svc := newTestService(&fakeEditClient{result: []byte("edited")})

	assert.Empty(t, svc.ApplyEdit(context.Background(), "/nowhere/in.png", "p", "", ""))
}

func TestApplyEditForwardsModelOverride(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	client := &fakeEditClient{result: []byte("edited")}
	svc := newTestService(client)

	out := svc.ApplyEdit(context.Background(), input, "p", "", "gemini-exp-image")
	require.NotEmpty(t, out)
	t.Cleanup(func() { os.Remove(out) })

	assert.Equal(t, "gemini-exp-image", client.lastModel)
}
