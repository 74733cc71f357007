package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSink_WritesOneFlushedLinePerRecord(t *testing.T) {
	// GIVEN a text sink over a buffer
	var buf bytes.Buffer
	seq := NewSequencer(NewTextSink(&buf))

	// WHEN two events are emitted
	_, err := seq.Emit("APP 1", "starts", nil)
	require.NoError(t, err)
	_, err = seq.Emit("APP 1", "enters", &Stats{Unresolved: 1, Registered: 0, Occupancy: 1})
	require.NoError(t, err)

	// THEN both lines are visible without closing the sink
	assert.Equal(t, "1 : APP 1 : starts\n2 : APP 1 : enters : 1 : 0 : 1\n", buf.String())
}

func TestCreateTextFile_TruncatesAndCloses(t *testing.T) {
	// GIVEN an existing file with stale content
	path := filepath.Join(t.TempDir(), "hall.out")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o600))

	// WHEN a sink is created over it and one record written
	sink, err := CreateTextFile(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(Record{Seq: 1, Actor: "OFFICIAL", Action: "finishes"}))
	require.NoError(t, sink.Close())

	// THEN only the new record remains
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 : OFFICIAL : finishes\n", string(data))
}

func TestCreateTextFile_MissingDirectory_Fails(t *testing.T) {
	_, err := CreateTextFile(filepath.Join(t.TempDir(), "missing", "hall.out"))
	assert.Error(t, err)
}
