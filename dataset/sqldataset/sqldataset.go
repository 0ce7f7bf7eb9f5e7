/*
Package sqldataset reads and writes datasets from and to tables on
SQL databases.

A dataset is stored on a table with a REAL column per feature, an
INTEGER column for the label when the dataset is labeled and an
auto-incremented "id" column that keeps the order of the rows.
Specifics of each database engine are provided by an Adapter.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/pbanos/cart/dataset"
)

const (
	// DefaultTable is the name of the table datasets are stored
	// on when no other is given.
	DefaultTable = "samples"

	// MaxRowInsertionsPerStatement is the maximum number of rows
	// inserted with a single insert command by Write. Writing more
	// will result in more insertion commands.
	MaxRowInsertionsPerStatement = 10

	idColumn = "id"
)

/*
Adapter is an interface providing the database specific details
needed to store datasets on a database.
*/
type Adapter interface {
	// DB returns the database handle
	DB() *sql.DB
	// ColumnName takes the name of a column and returns it quoted
	// as an identifier or an error if it cannot be used
	ColumnName(string) (string, error)
	// Placeholder returns the placeholder for the nth (from 1)
	// parameter of a statement
	Placeholder(n int) string
	// IDColumnType returns the type definition of an
	// auto-incremented primary key column
	IDColumnType() string
	// RealColumnType returns the type of float64 columns
	RealColumnType() string
	// Close closes the database handle
	Close() error
}

/*
Write takes a context, an Adapter, the name of a table and a dataset
and stores the rows of the dataset on the table, creating it if it
does not exist. Rows are inserted within a single transaction, so
either all or none are stored. It returns the number of stored rows
or an error.
*/
func Write(ctx context.Context, a Adapter, table string, d *dataset.Dataset) (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	tableName, err := a.ColumnName(table)
	if err != nil {
		return 0, fmt.Errorf("table name: %v", err)
	}
	columns, err := columnNames(a, d.Columns, d.Label, d.Labeled())
	if err != nil {
		return 0, err
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(", tableName))
	for i, c := range columns {
		if i < len(d.Columns) {
			createStmtBuf.WriteString(fmt.Sprintf("%s %s NOT NULL, ", c, a.RealColumnType()))
		} else {
			createStmtBuf.WriteString(fmt.Sprintf("%s INTEGER NOT NULL, ", c))
		}
	}
	createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s)`, idColumn, a.IDColumnType()))
	_, err = a.DB().ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return 0, fmt.Errorf("ensuring table %s exists: %v", table, err)
	}
	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	defer tx.Rollback()
	for chunkStart := 0; chunkStart < len(d.Rows); chunkStart += MaxRowInsertionsPerStatement {
		chunkEnd := chunkStart + MaxRowInsertionsPerStatement
		if chunkEnd > len(d.Rows) {
			chunkEnd = len(d.Rows)
		}
		stmt, args := insertStmt(a, tableName, columns, d, chunkStart, chunkEnd)
		_, err = tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting rows %d to %d: %v", chunkStart+1, chunkEnd, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("committing rows: %v", err)
	}
	return len(d.Rows), nil
}

/*
Read takes a context, an Adapter, the name of a table, the names of
the feature columns and the name of the label and returns the dataset
stored on the table, in insertion order. A nil slice of columns reads
every column other than the label and the id. An empty label reads an
unlabeled dataset.
*/
func Read(ctx context.Context, a Adapter, table string, columns []string, label string) (*dataset.Dataset, error) {
	tableName, err := a.ColumnName(table)
	if err != nil {
		return nil, fmt.Errorf("table name: %v", err)
	}
	if columns == nil {
		columns, err = tableColumns(ctx, a, tableName, label)
		if err != nil {
			return nil, err
		}
	}
	quoted, err := columnNames(a, columns, label, label != "")
	if err != nil {
		return nil, err
	}
	var queryBuf bytes.Buffer
	queryBuf.WriteString("SELECT ")
	for i, c := range quoted {
		if i > 0 {
			queryBuf.WriteString(", ")
		}
		queryBuf.WriteString(c)
	}
	queryBuf.WriteString(fmt.Sprintf(` FROM %s ORDER BY "%s"`, tableName, idColumn))
	rows, err := a.DB().QueryContext(ctx, queryBuf.String())
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %v", table, err)
	}
	defer rows.Close()
	d := &dataset.Dataset{Columns: columns, Label: label}
	if label != "" {
		d.Targets = []int{}
	}
	values := make([]sql.NullFloat64, len(quoted))
	dest := make([]interface{}, len(quoted))
	for i := range values {
		dest[i] = &values[i]
	}
	for n := 1; rows.Next(); n++ {
		err = rows.Scan(dest...)
		if err != nil {
			return nil, fmt.Errorf("scanning row %d: %v", n, err)
		}
		row := make([]float64, len(columns))
		for i := range row {
			if !values[i].Valid {
				return nil, fmt.Errorf("row %d has no value for column %s", n, columns[i])
			}
			row[i] = values[i].Float64
		}
		d.Rows = append(d.Rows, row)
		if label != "" {
			v := values[len(columns)]
			if !v.Valid {
				return nil, fmt.Errorf("row %d has no value for label %s", n, label)
			}
			l, err := dataset.LabelOf(v.Float64)
			if err != nil {
				return nil, fmt.Errorf("row %d: label %s: %v", n, label, err)
			}
			d.Targets = append(d.Targets, l)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table %s: %v", table, err)
	}
	return d, nil
}

func tableColumns(ctx context.Context, a Adapter, tableName, label string) ([]string, error) {
	rows, err := a.DB().QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1=0", tableName))
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %v", tableName, err)
	}
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %v", tableName, err)
	}
	var columns []string
	for _, n := range names {
		if n != idColumn && n != label {
			columns = append(columns, n)
		}
	}
	return columns, nil
}

func columnNames(a Adapter, columns []string, label string, labeled bool) ([]string, error) {
	names := append([]string{}, columns...)
	if labeled {
		names = append(names, label)
	}
	result := make([]string, 0, len(names))
	for _, n := range names {
		if n == idColumn {
			return nil, fmt.Errorf(`'%s' is reserved and cannot be used as column name`, n)
		}
		c, err := a.ColumnName(n)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

func insertStmt(a Adapter, tableName string, columns []string, d *dataset.Dataset, start, end int) (string, []interface{}) {
	var stmtBuf bytes.Buffer
	stmtBuf.WriteString(fmt.Sprintf("INSERT INTO %s (", tableName))
	for i, c := range columns {
		if i > 0 {
			stmtBuf.WriteString(", ")
		}
		stmtBuf.WriteString(c)
	}
	stmtBuf.WriteString(") VALUES ")
	args := make([]interface{}, 0, (end-start)*len(columns))
	for r := start; r < end; r++ {
		if r > start {
			stmtBuf.WriteString(", ")
		}
		stmtBuf.WriteString("(")
		for i := range columns {
			if i > 0 {
				stmtBuf.WriteString(", ")
			}
			stmtBuf.WriteString(a.Placeholder(len(args) + 1))
			if i < len(d.Columns) {
				args = append(args, d.Rows[r][i])
			} else {
				args = append(args, d.Targets[r])
			}
		}
		stmtBuf.WriteString(")")
	}
	return stmtBuf.String(), args
}
