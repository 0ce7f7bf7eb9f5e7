package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/cart/dataset/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const trainingCSV = `x0,x1,y
1,10,0
2,10,0
3,10,1
4,10,1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLocationOf(t *testing.T) {
	cases := map[string]location{
		"":                             csvLocation,
		"data.csv":                     csvLocation,
		"data.npy":                     npyLocation,
		"data.db":                      sqlite3Location,
		"postgresql://localhost/cart":  postgresLocation,
		"postgres://localhost/cart":    postgresLocation,
		"mongodb://localhost:27017/db": mongoLocation,
	}
	for path, expected := range cases {
		assert.Equal(t, expected, locationOf(path), path)
	}
}

func TestGrowAndPredict(t *testing.T) {
	dir := t.TempDir()
	rcc := &rootCmdConfig{logger: zaptest.NewLogger(t)}
	input := writeFile(t, dir, "training.csv", trainingCSV)
	treePath := filepath.Join(dir, "tree.json")

	gcc := &growCmdConfig{
		dataConfig:  dataConfig{rootCmdConfig: rcc, dataInput: input, label: "y"},
		output:      treePath,
		maxDepth:    -1,
		minSamples:  -1,
		concurrency: -1,
	}
	require.NoError(t, gcc.run(gcc.Context()))

	ts := treeSource{treeInput: treePath}
	loaded, err := ts.Load(gcc.Context())
	require.NoError(t, err)
	assert.Equal(t, "y", loaded.Label)
	assert.Equal(t, []string{"x0", "x1"}, loaded.Columns)

	predictions := filepath.Join(dir, "predictions.csv")
	pcc := &predictCmdConfig{
		dataConfig: dataConfig{rootCmdConfig: rcc, dataInput: input},
		treeSource: ts,
		output:     predictions,
	}
	require.NoError(t, pcc.run(pcc.Context()))
	d, err := csv.ReadDatasetFromFilePath(predictions, []string{}, "y")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, d.Targets)

	tcc := &testCmdConfig{
		dataConfig: dataConfig{rootCmdConfig: rcc, dataInput: input},
		treeSource: ts,
		metricName: "accuracy",
	}
	require.NoError(t, tcc.run(tcc.Context()))

	tcc.metricName = "f1"
	assert.Error(t, tcc.run(tcc.Context()))
}

func TestGrowRequiresLabel(t *testing.T) {
	dir := t.TempDir()
	gcc := &growCmdConfig{
		dataConfig:  dataConfig{rootCmdConfig: &rootCmdConfig{}, dataInput: writeFile(t, dir, "training.csv", trainingCSV)},
		output:      filepath.Join(dir, "tree.json"),
		maxDepth:    -1,
		minSamples:  -1,
		concurrency: -1,
	}
	assert.Error(t, gcc.run(gcc.Context()))
}

func TestTargetsRequireNumPyInput(t *testing.T) {
	dc := &dataConfig{rootCmdConfig: &rootCmdConfig{}, dataInput: "data.csv", targetsInput: "targets.npy"}
	assert.Error(t, dc.Validate())
	dc.dataInput = "data.npy"
	assert.NoError(t, dc.Validate())
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	rcc := &rootCmdConfig{logger: zaptest.NewLogger(t)}
	scc := &setCmdConfig{dataConfig: dataConfig{rootCmdConfig: rcc, dataInput: writeFile(t, dir, "all.csv", trainingCSV), label: "y"}}
	splitConfig := &splitCmdConfig{
		setCmdConfig: scc,
		setOutput:    filepath.Join(dir, "training.csv"),
		splitOutput:  filepath.Join(dir, "testing.csv"),
		splitRatio:   0.25,
		seed:         42,
	}
	require.NoError(t, splitConfig.run(splitConfig.Context()))

	training, err := csv.ReadDatasetFromFilePath(splitConfig.setOutput, nil, "y")
	require.NoError(t, err)
	held, err := csv.ReadDatasetFromFilePath(splitConfig.splitOutput, nil, "y")
	require.NoError(t, err)
	assert.Equal(t, 3, training.Len())
	assert.Equal(t, 1, held.Len())
	assert.Equal(t, []string{"x0", "x1"}, held.Columns)
}

func TestSetCopiesToSQLite3(t *testing.T) {
	dir := t.TempDir()
	rcc := &rootCmdConfig{logger: zaptest.NewLogger(t)}
	db := filepath.Join(dir, "data.db")
	scc := &setCmdConfig{
		dataConfig: dataConfig{rootCmdConfig: rcc, dataInput: writeFile(t, dir, "all.csv", trainingCSV), label: "y"},
		setOutput:  db,
	}
	require.NoError(t, scc.run(scc.Context()))

	d, err := readDataset(scc.Context(), db, "", "", nil, "y")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, d.Targets)
	assert.Equal(t, [][]float64{{1, 10}, {2, 10}, {3, 10}, {4, 10}}, d.Rows)
}
