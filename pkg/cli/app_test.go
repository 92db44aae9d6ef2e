package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepworks/evtl/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.SetDefault("error")
	os.Exit(m.Run())
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)
	assert.Equal(t, "evtl", app.Name)
	assert.NotEmpty(t, app.Commands)
}

func TestQuerySamples(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"evtl", "--db", testDBPath(t), "query", "samples"})
	assert.NoError(t, err)
}

func TestImportAndHist(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "dy.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"run,evt,weight,met,mll\n"+
			"1,1,1.0,45,91.1\n"+
			"1,2,1.0,120,70.2\n"), 0600))
	dbPath := testDBPath(t)

	app := newApp()
	err := app.Run([]string{"evtl", "--db", dbPath,
		"import", "--sample", "dy", "--group", "DY", "--file", csv})
	require.NoError(t, err)

	app = newApp()
	err = app.Run([]string{"evtl", "--db", dbPath,
		"hist", "--sample", "dy", "--column", "mll",
		"--bins", "3", "--min", "60", "--max", "120",
		"--cut", "met:0:100"})
	assert.NoError(t, err)
}

func TestImportWithoutFiles(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"evtl", "--db", testDBPath(t),
		"import", "--sample", "dy"})
	assert.NoError(t, err) // shows help, not an error
}

func TestParseCut(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		col     string
		lo, hi  float64
		wantErr bool
	}{
		{name: "valid", arg: "met:0:100", col: "met", lo: 0, hi: 100},
		{name: "negative bounds", arg: "eta:-2.4:2.4", col: "eta", lo: -2.4, hi: 2.4},
		{name: "missing part", arg: "met:0", wantErr: true},
		{name: "empty column", arg: ":0:100", wantErr: true},
		{name: "bad number", arg: "met:low:100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, lo, hi, err := parseCut(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.col, col)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}
