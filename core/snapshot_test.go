package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestICSSnapshot_Write(t *testing.T) {
	t.Parallel()

	store, _ := newSeededStore(t, standup, review)
	path := filepath.Join(t.TempDir(), "calendar.ics")

	snapshot := NewICSSnapshot(store, NewFilePersistence(path))
	require.NoError(t, snapshot.Write(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "BEGIN:VEVENT"))
	assert.Contains(t, string(data), "SUMMARY:Standup")
}

func TestICSSnapshot_RunFailure(t *testing.T) {
	t.Parallel()

	store, _ := newSeededStore(t, standup)

	target := new(MockPersistence)
	target.On("Save", mock.Anything, mock.Anything).Return(errors.New("read-only file system"))

	snapshot := NewICSSnapshot(store, target)

	require.Error(t, snapshot.Write(context.Background()))
	assert.NotPanics(t, snapshot.Run)
	target.AssertNumberOfCalls(t, "Save", 2)
}
