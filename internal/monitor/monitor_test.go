package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
	"github.com/mtuomin/moodwatch-go/internal/observability"
)

type fakeDetector struct {
	mu       sync.Mutex
	response string
	err      error
	detects  int
	stopped  bool
}

func (f *fakeDetector) Detect() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detects++
	return f.response, f.err
}

func (f *fakeDetector) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved []*datastore.Observation
	err   error
}

func (f *fakeStore) Save(obs *datastore.Observation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, obs)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func TestTickStoresValidResponse(t *testing.T) {
	det := &fakeDetector{response: `{"emotions":[{"emotion":"happy","confidence":0.9}],"has_face":true}`}
	store := &fakeStore{}
	m := New(det, store, observability.NewMetrics(), time.Hour)

	m.tick()

	require.Equal(t, 1, store.count())
	assert.Equal(t, "happy", store.saved[0].MappedEmotion)
}

func TestTickSkipsUnparsableResponse(t *testing.T) {
	det := &fakeDetector{response: "CAMERA_ERROR"}
	store := &fakeStore{}
	m := New(det, store, observability.NewMetrics(), time.Hour)

	m.tick()

	assert.Zero(t, store.count())
}

func TestTickSurvivesDetectError(t *testing.T) {
	det := &fakeDetector{err: errors.New("broken pipe")}
	store := &fakeStore{}
	m := New(det, store, observability.NewMetrics(), time.Hour)

	m.tick()
	m.tick()

	assert.Equal(t, 2, det.detects)
	assert.Zero(t, store.count())
}

func TestTickSurvivesStoreError(t *testing.T) {
	det := &fakeDetector{response: `{"emotions":[{"emotion":"calm","confidence":0.5}],"has_face":true}`}
	store := &fakeStore{err: errors.New("disk full")}
	m := New(det, store, observability.NewMetrics(), time.Hour)

	m.tick()

	assert.Zero(t, store.count())
}

func TestRunStopsDetectorOnCancel(t *testing.T) {
	det := &fakeDetector{response: `{"emotions":[{"emotion":"calm","confidence":0.5}],"has_face":true}`}
	store := &fakeStore{}
	m := New(det, store, observability.NewMetrics(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// let a few ticks happen, then shut down
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}

	assert.True(t, det.stopped)
	assert.Positive(t, store.count())
}
