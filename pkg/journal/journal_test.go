package journal

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Seq int    `json:"seq"`
	Tx  uint32 `json:"tx"`
}

func readEntries(t *testing.T, j *Journal) []entry {
	t.Helper()
	var out []entry
	err := j.ReadAll(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestJournal_WriteReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, j.Write(entry{Seq: 1, Tx: 10}))
	require.NoError(t, j.Write(entry{Seq: 2, Tx: 11}))

	assert.Equal(t, []entry{{1, 10}, {2, 11}}, readEntries(t, j))
	require.NoError(t, j.Close())
}

func TestJournal_AppendsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j, err := Open(path, WithSyncEachWrite())
	require.NoError(t, err)
	require.NoError(t, j.Write(entry{Seq: 1, Tx: 1}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Write(entry{Seq: 2, Tx: 2}))

	assert.Equal(t, []entry{{1, 1}, {2, 2}}, readEntries(t, j))
}

func TestJournal_ReadAllStopsOnCallbackError(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Write(entry{Seq: 1}))
	require.NoError(t, j.Write(entry{Seq: 2}))

	stop := errors.New("stop")
	calls := 0
	err = j.ReadAll(func([]byte) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
