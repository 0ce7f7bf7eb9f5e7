/*
Package mongodataset reads and writes datasets from and to MongoDB
collections, with a document per row holding a field per feature
column and a field for the label.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/cart/dataset"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollection is the name of the collection datasets are
// stored on when no other is given.
const DefaultCollection = "samples"

/*
Collection reads and writes datasets on a MongoDB collection of the
default database of a session.
*/
type Collection struct {
	session *mgo.Session
	name    string
}

/*
Open takes a MongoDB database session and the name of a collection
and returns a Collection that works on the collection of the default
database for that session.
*/
func Open(session *mgo.Session, name string) *Collection {
	if name == "" {
		name = DefaultCollection
	}
	return &Collection{session, name}
}

/*
Write takes a context and a dataset and inserts a document per row
of the dataset on the collection. It returns the number of inserted
documents or an error.
*/
func (c *Collection) Write(ctx context.Context, d *dataset.Dataset) (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	names := append([]string{}, d.Columns...)
	if d.Labeled() {
		names = append(names, d.Label)
	}
	if err := validateFieldNames(names); err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(d.Rows))
	for i, row := range d.Rows {
		doc := make(bson.M, len(names))
		for j, v := range row {
			doc[d.Columns[j]] = v
		}
		if d.Labeled() {
			doc[d.Label] = d.Targets[i]
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := c.collection().Insert(docs...); err != nil {
		return 0, fmt.Errorf("inserting %d documents on %s: %v", len(docs), c.name, err)
	}
	return len(docs), nil
}

/*
Read takes a context, the names of the feature fields and the name
of the label field and returns the dataset stored on the collection,
in insertion order. A nil slice of columns reads every field of the
first document other than the label and _id. An empty label reads an
unlabeled dataset.
*/
func (c *Collection) Read(ctx context.Context, columns []string, label string) (*dataset.Dataset, error) {
	d := &dataset.Dataset{Columns: columns, Label: label}
	if label != "" {
		d.Targets = []int{}
	}
	iter := c.collection().Find(nil).Sort("_id").Iter()
	defer iter.Close()
	var doc bson.D
	for n := 1; iter.Next(&doc); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := doc.Map()
		if d.Columns == nil {
			for _, e := range doc {
				if e.Name != "_id" && e.Name != label {
					d.Columns = append(d.Columns, e.Name)
				}
			}
		}
		row := make([]float64, len(d.Columns))
		for i, col := range d.Columns {
			v, err := toFloat(m[col])
			if err != nil {
				return nil, fmt.Errorf("document %d: field %s: %v", n, col, err)
			}
			row[i] = v
		}
		d.Rows = append(d.Rows, row)
		if label != "" {
			v, err := toFloat(m[label])
			if err != nil {
				return nil, fmt.Errorf("document %d: label %s: %v", n, label, err)
			}
			l, err := dataset.LabelOf(v)
			if err != nil {
				return nil, fmt.Errorf("document %d: label %s: %v", n, label, err)
			}
			d.Targets = append(d.Targets, l)
		}
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %v", c.name, err)
	}
	return d, nil
}

// Drop removes the collection with all its documents.
func (c *Collection) Drop() error {
	return c.collection().DropCollection()
}

func (c *Collection) collection() *mgo.Collection {
	return c.session.DB("").C(c.name)
}

func validateFieldNames(names []string) error {
	for _, name := range names {
		if name == "_id" {
			return fmt.Errorf("invalid field name %q: reserved collection field", "_id")
		}
		if name == "" || strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid field name %q: empty or contains reserved characters %q or %q", name, ".", "$")
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case nil:
		return 0, fmt.Errorf("missing value")
	}
	return 0, fmt.Errorf("non numeric value %v of type %T", v, v)
}
