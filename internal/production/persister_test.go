package production

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calmweave/statechart/internal/core"
	"github.com/calmweave/statechart/internal/primitives"
)

func sampleSnapshot() core.Snapshot {
	return core.Snapshot{
		InterpreterID: "itp-123",
		Statechart:    "lamp",
		Status:        core.StatusRunning,
		Configuration: []string{"root", "on"},
		Memory:        map[string][]string{"memory": {"on"}},
		Context:       map[string]any{"brightness": 0.5},
		QueuedEvents:  []primitives.Event{primitives.NewEvent("toggle", nil).WithDelay(time.Second)},
		Timestamp:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestJSONPersister_RoundTrip(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	require.NoError(t, err)

	want := sampleSnapshot()
	require.NoError(t, p.Save(want))

	got, err := p.Load(want.InterpreterID)
	require.NoError(t, err)
	require.Equal(t, want.InterpreterID, got.InterpreterID)
	require.Equal(t, want.Statechart, got.Statechart)
	require.Equal(t, want.Status, got.Status)
	require.Equal(t, want.Configuration, got.Configuration)
	require.Equal(t, want.Memory, got.Memory)
	require.Len(t, got.QueuedEvents, 1)
	require.Equal(t, "toggle", got.QueuedEvents[0].Name)
	require.Equal(t, time.Second, got.QueuedEvents[0].Delay)
	require.True(t, want.Timestamp.Equal(got.Timestamp))
}

func TestJSONPersister_LoadMissing(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	require.NoError(t, err)

	_, err = p.Load("does-not-exist")
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestYAMLPersister_RoundTrip(t *testing.T) {
	p, err := NewYAMLPersister(t.TempDir())
	require.NoError(t, err)

	want := sampleSnapshot()
	require.NoError(t, p.Save(want))

	got, err := p.Load(want.InterpreterID)
	require.NoError(t, err)
	require.Equal(t, want.InterpreterID, got.InterpreterID)
	require.Equal(t, want.Configuration, got.Configuration)
	require.Equal(t, want.Memory, got.Memory)
	require.Equal(t, want.Status, got.Status)
}

func TestYAMLPersister_LoadMissing(t *testing.T) {
	p, err := NewYAMLPersister(t.TempDir())
	require.NoError(t, err)

	_, err = p.Load("does-not-exist")
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPersisters_InterfaceCompliance(t *testing.T) {
	dir := t.TempDir()
	jp, err := NewJSONPersister(dir)
	require.NoError(t, err)
	yp, err := NewYAMLPersister(dir)
	require.NoError(t, err)

	var _ Persister = jp
	var _ Persister = yp
}
