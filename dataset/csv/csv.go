/*
Package csv reads and writes datasets in CSV format.

The first row of a CSV dataset is a header with the names of the
columns. Every other row holds a numeric value per feature column and
an integer value for the label column, if present.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/cart/dataset"
)

/*
ReadDataset takes an io.Reader for a CSV stream, a slice with the
names of the feature columns to read and the name of the label
column and returns the dataset parsed from the reader or an error.

A nil slice of columns reads every column in the header other than
the label. An empty label reads an unlabeled dataset; otherwise the
header must include the label column.
*/
func ReadDataset(reader io.Reader, columns []string, label string) (*dataset.Dataset, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	positions, labelPosition, columns, err := parseHeader(header, columns, label)
	if err != nil {
		return nil, err
	}
	d := &dataset.Dataset{Columns: columns, Label: label}
	if labelPosition >= 0 {
		d.Targets = []int{}
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		row := make([]float64, len(positions))
		for i, p := range positions {
			row[i], err = strconv.ParseFloat(record[p], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: column %s: %v", l, columns[i], err)
			}
		}
		d.Rows = append(d.Rows, row)
		if labelPosition >= 0 {
			target, err := parseLabel(record[labelPosition])
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: label %s: %v", l, label, err)
			}
			d.Targets = append(d.Targets, target)
		}
	}
	return d, nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of column
names and a label name, opens the file the filepath points to (or
os.Stdin if it is "") and uses ReadDataset to return the dataset
read from it or an error.
*/
func ReadDatasetFromFilePath(filepath string, columns []string, label string) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
	}
	defer f.Close()
	d, err := ReadDataset(f, columns, label)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return d, err
}

/*
WriteDataset takes an io.Writer and a dataset and dumps the dataset
onto the writer in CSV format, with the label as last column when
the dataset is labeled.
*/
func WriteDataset(writer io.Writer, d *dataset.Dataset) error {
	w := csv.NewWriter(writer)
	header := append([]string{}, d.Columns...)
	if d.Labeled() {
		header = append(header, d.Label)
	}
	err := w.Write(header)
	if err != nil {
		return fmt.Errorf("writing CSV header: %v", err)
	}
	for i, row := range d.Rows {
		record := make([]string, 0, len(header))
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if d.Labeled() {
			record = append(record, strconv.Itoa(d.Targets[i]))
		}
		err = w.Write(record)
		if err != nil {
			return fmt.Errorf("writing CSV row %d: %v", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WritePredictions writes the predictions onto the writer as a CSV
// with a single column named after the label.
func WritePredictions(writer io.Writer, label string, predictions []int) error {
	if label == "" {
		label = "prediction"
	}
	w := csv.NewWriter(writer)
	err := w.Write([]string{label})
	if err != nil {
		return fmt.Errorf("writing CSV header: %v", err)
	}
	for i, p := range predictions {
		err = w.Write([]string{strconv.Itoa(p)})
		if err != nil {
			return fmt.Errorf("writing CSV row %d: %v", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

func parseHeader(header, columns []string, label string) ([]int, int, []string, error) {
	byName := make(map[string]int)
	for i, name := range header {
		byName[name] = i
	}
	labelPosition := -1
	if label != "" {
		p, ok := byName[label]
		if !ok {
			return nil, 0, nil, fmt.Errorf("parsing header: label column %s not found", label)
		}
		labelPosition = p
	}
	if columns == nil {
		for _, name := range header {
			if name != label {
				columns = append(columns, name)
			}
		}
	}
	positions := make([]int, 0, len(columns))
	for _, name := range columns {
		p, ok := byName[name]
		if !ok {
			return nil, 0, nil, fmt.Errorf("parsing header: column %s not found", name)
		}
		positions = append(positions, p)
	}
	return positions, labelPosition, columns, nil
}

func parseLabel(v string) (int, error) {
	if i, err := strconv.Atoi(v); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return dataset.LabelOf(f)
}
