package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chordex/catalog"
	"github.com/jsphweid/chordex/config"
	"github.com/jsphweid/chordex/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCatalog(t *testing.T) {
	rows, err := catalog.Rows("C", quality.Major7)
	require.NoError(t, err)
	rows[1].Notes = []string{"C", "E", "G", "B"}
	dup := rows[0]
	dup.ID = "copy"
	rows = append(rows, dup)

	r := analyzeCatalog(rows)

	assert := assert.New(t)
	assert.Equal(5, r.total)
	assert.Equal(5, r.byType["major7"])
	assert.Equal(2, r.byInversion[0])
	assert.Equal(1, r.needsRepair)
	assert.Equal(0, r.broken)
	assert.Equal(1, r.duplicates)
	assert.Contains(report(rows), "major7")
}

func TestDescribeKeys(t *testing.T) {
	desc := describeKeys([]uint8{64, 67, 72})
	assert.Contains(t, desc, "E4 G4 C5")
	assert.Contains(t, desc, "C/firstinversion")
}

func TestDescribeSamples(t *testing.T) {
	assert.Equal(t, "60→C4.mp3+0 62→Ds4.mp3-1", describeSamples([]uint8{60, 62}))
}

func TestReadExportRequest(t *testing.T) {
	fileCfg = config.DefaultFile()
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"chords": [
			{"startTime": 0, "endTime": 2, "chord": "C"},
			{"startTime": 2, "endTime": 4, "chord": "nonsense"}
		],
		"tempo": 0,
		"timeSignature": "3/4"
	}`), 0o644))

	exportReq.Title = "Waltz"
	t.Cleanup(func() { exportReq.Title = "" })

	req, err := readExportRequest(path)
	require.NoError(t, err)
	assert.Equal(t, "Waltz", req.Title)
	assert.Len(t, req.Chords, 1)
	assert.Equal(t, 120.0, req.Tempo)
	assert.Equal(t, "3/4", req.TimeSignature)

	_, err = readExportRequest(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
