package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/cart"
	"github.com/pbanos/cart/config/yaml"
	"github.com/pbanos/cart/dataset"
	"github.com/pbanos/cart/dataset/csv"
	"github.com/pbanos/cart/dataset/mongodataset"
	"github.com/pbanos/cart/dataset/npy"
	"github.com/pbanos/cart/dataset/sqldataset"
	"github.com/pbanos/cart/dataset/sqldataset/pgadapter"
	"github.com/pbanos/cart/dataset/sqldataset/sqlite3adapter"
	mgo "gopkg.in/mgo.v2"
)

type location int

const (
	csvLocation location = iota
	npyLocation
	sqlite3Location
	postgresLocation
	mongoLocation
)

// locationOf tells where a dataset is stored from its path or URL.
// An empty path stands for STDIN or STDOUT in CSV.
func locationOf(path string) location {
	switch {
	case strings.HasPrefix(path, "postgresql://"), strings.HasPrefix(path, "postgres://"):
		return postgresLocation
	case strings.HasPrefix(path, "mongodb://"):
		return mongoLocation
	case strings.HasSuffix(path, ".db"):
		return sqlite3Location
	case strings.HasSuffix(path, ".npy"):
		return npyLocation
	}
	return csvLocation
}

/*
dataConfig holds the flags shared by the commands that read a dataset:
the input location, the .npy file with its labels when the input is a
.npy file of feature values, the metadata file and the label name.
*/
type dataConfig struct {
	*rootCmdConfig
	dataInput     string
	targetsInput  string
	metadataInput string
	label         string
	metadata      *yaml.Metadata
}

func (dc *dataConfig) Validate() error {
	if dc.targetsInput != "" && locationOf(dc.dataInput) != npyLocation {
		return fmt.Errorf("targets flag is only valid with a NumPy (.npy) input")
	}
	return nil
}

func (dc *dataConfig) Metadata() (*yaml.Metadata, error) {
	if dc.metadata != nil {
		return dc.metadata, nil
	}
	if dc.metadataInput == "" {
		dc.metadata = &yaml.Metadata{Tree: cart.DefaultConfig()}
	} else {
		dc.Logf("Reading metadata from %s...", dc.metadataInput)
		md, err := yaml.ReadMetadataFromFile(dc.metadataInput)
		if err != nil {
			return nil, err
		}
		dc.metadata = md
	}
	if dc.label != "" {
		dc.metadata.Data.Label = dc.label
	}
	return dc.metadata, nil
}

// Dataset reads the dataset at the input location. The label is only
// read when labeled is true, and columns overrides the ones in the
// metadata when not nil.
func (dc *dataConfig) Dataset(ctx context.Context, columns []string, labeled bool) (*dataset.Dataset, error) {
	md, err := dc.Metadata()
	if err != nil {
		return nil, err
	}
	if columns == nil {
		columns = md.Data.Columns
	}
	label := md.Data.Label
	if !labeled {
		label = ""
	} else if label == "" {
		return nil, fmt.Errorf("required label flag was not set and the metadata defines no label")
	}
	if dc.dataInput == "" {
		dc.Logf("Reading dataset from STDIN...")
	} else {
		dc.Logf("Reading dataset from %s...", dc.dataInput)
	}
	d, err := readDataset(ctx, dc.dataInput, dc.targetsInput, md.Data.Table, columns, label)
	if err != nil {
		return nil, err
	}
	dc.Logf("Read dataset with %d rows and %d columns", d.Len(), len(d.Columns))
	return d, nil
}

func readDataset(ctx context.Context, input, targets, table string, columns []string, label string) (*dataset.Dataset, error) {
	switch locationOf(input) {
	case postgresLocation:
		a, err := pgadapter.New(input)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.Read(ctx, a, tableOrDefault(table), columns, label)
	case sqlite3Location:
		a, err := sqlite3adapter.New(input)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.Read(ctx, a, tableOrDefault(table), columns, label)
	case mongoLocation:
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %v", input, err)
		}
		defer session.Close()
		return mongodataset.Open(session, table).Read(ctx, columns, label)
	case npyLocation:
		if label == "" {
			targets = ""
		} else if targets == "" {
			return nil, fmt.Errorf("required targets flag was not set for labeled npy input %s", input)
		}
		return npy.ReadDataset(input, targets, columns, label)
	}
	return csv.ReadDatasetFromFilePath(input, columns, label)
}

// writeDataset dumps the dataset onto the output location. Labels of
// datasets written onto a .npy file go to the targets file.
func writeDataset(ctx context.Context, output, targets, table string, d *dataset.Dataset) (int, error) {
	switch locationOf(output) {
	case postgresLocation:
		a, err := pgadapter.New(output)
		if err != nil {
			return 0, err
		}
		defer a.Close()
		return sqldataset.Write(ctx, a, tableOrDefault(table), d)
	case sqlite3Location:
		a, err := sqlite3adapter.New(output)
		if err != nil {
			return 0, err
		}
		defer a.Close()
		return sqldataset.Write(ctx, a, tableOrDefault(table), d)
	case mongoLocation:
		session, err := mgo.Dial(output)
		if err != nil {
			return 0, fmt.Errorf("connecting to %s: %v", output, err)
		}
		defer session.Close()
		return mongodataset.Open(session, table).Write(ctx, d)
	case npyLocation:
		err := createAnd(output, func(f *os.File) error { return npy.WriteFeatures(f, d) })
		if err != nil {
			return 0, err
		}
		if d.Labeled() {
			if targets == "" {
				return 0, fmt.Errorf("required targets flag was not set for labeled npy output %s", output)
			}
			err = createAnd(targets, func(f *os.File) error { return npy.WritePredictions(f, d.Targets) })
			if err != nil {
				return 0, err
			}
		}
		return d.Len(), nil
	}
	err := createAnd(output, func(f *os.File) error { return csv.WriteDataset(f, d) })
	if err != nil {
		return 0, err
	}
	return d.Len(), nil
}

// writePredictions dumps predictions onto a .npy file, or a CSV file
// or STDOUT otherwise.
func writePredictions(output, label string, predictions []int) error {
	if locationOf(output) == npyLocation {
		return createAnd(output, func(f *os.File) error { return npy.WritePredictions(f, predictions) })
	}
	return createAnd(output, func(f *os.File) error { return csv.WritePredictions(f, label, predictions) })
}

// createAnd creates the file at path, or takes STDOUT if path is
// empty, and calls f with it.
func createAnd(path string, f func(*os.File) error) error {
	if path == "" {
		return f(os.Stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = f(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}

func tableOrDefault(table string) string {
	if table == "" {
		return sqldataset.DefaultTable
	}
	return table
}
