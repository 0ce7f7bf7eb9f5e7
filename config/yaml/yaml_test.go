package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadataYML = `
tree:
  max_depth: 4
  min_samples_per_node: 2
  exclude_last_column: true
  candidates: per-node
  concurrency: 3
data:
  label: species
  columns: [sepal_length, petal_length]
`

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata([]byte(metadataYML))
	require.NoError(t, err)
	assert.Equal(t, cart.Config{
		Loss:              cart.GiniLoss,
		MaxDepth:          4,
		MinSamplesPerNode: 2,
		ExcludeLastColumn: true,
		Candidates:        cart.PerNodeCandidates,
		Concurrency:       3,
	}, md.Tree)
	assert.Equal(t, "species", md.Data.Label)
	assert.Equal(t, []string{"sepal_length", "petal_length"}, md.Data.Columns)
}

func TestReadMetadataErrors(t *testing.T) {
	_, err := ReadMetadata([]byte("tree:\n  loss: entropy\n"))
	assert.ErrorIs(t, err, cart.ErrUnsupportedVariant)
	_, err = ReadMetadata([]byte("tree:\n  depth: 3\n"))
	assert.Error(t, err)
	_, err = ReadMetadata([]byte("tree: ["))
	assert.Error(t, err)
}

func TestMetadataFileRoundTrip(t *testing.T) {
	md := &Metadata{Tree: cart.DefaultConfig(), Data: Data{Label: "y", Table: "iris"}}
	content, err := WriteMetadata(md)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cart.yml")
	require.NoError(t, os.WriteFile(path, content, 0644))

	read, err := ReadMetadataFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, md, read)

	_, err = ReadMetadataFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
