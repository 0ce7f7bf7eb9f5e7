/*
Package yaml parses the configuration of the cart tool, also known as
metadata, from YAML documents.

A document holds a tree section with the hyperparameters of the
classifier and a data section describing the dataset:

	tree:
	  loss: gini
	  max_depth: 8
	  min_samples_per_node: 2
	  exclude_last_column: false
	  candidates: global
	  concurrency: 4
	data:
	  label: species
	  columns:
	    - sepal_length
	    - petal_length
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/cart"
	yaml "gopkg.in/yaml.v2"
)

// Data describes the columns of a dataset.
type Data struct {
	// Label is the name of the column with the class of each row
	Label string `yaml:"label,omitempty"`
	// Columns are the names of the feature columns, nil meaning
	// all columns but the label
	Columns []string `yaml:"columns,omitempty"`
	// Table is the SQL table or MongoDB collection of the dataset
	Table string `yaml:"table,omitempty"`
}

// Metadata is the content of a configuration document.
type Metadata struct {
	Tree cart.Config `yaml:"tree"`
	Data Data        `yaml:"data"`
}

/*
ReadMetadata takes a slice of bytes with a configuration in YAML and
returns the Metadata parsed from it or an error. Unset tree fields
take their default values, and an error is returned if the resulting
tree config is not valid.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	metadata := &Metadata{}
	err := yaml.UnmarshalStrict(md, metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	metadata.Tree = metadata.Tree.WithDefaults()
	if err = metadata.Tree.Validate(); err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %w", err)
	}
	return metadata, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %w", filepath, err)
	}
	return metadata, err
}

// WriteMetadata returns the YAML document for the given metadata.
func WriteMetadata(metadata *Metadata) ([]byte, error) {
	return yaml.Marshal(metadata)
}
