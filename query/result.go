package query

import (
	"github.com/snapquery/snapquery/core"
)

type ResultType int

const (
	RowsResultType ResultType = iota
	AckResultType
	FailureResultType
)

// Result is the normalized outcome of one query request. Exactly one
// Result is produced per request and never mutated afterward.
type Result interface {
	Type() ResultType
}

// Rows is a projection result: column names plus row tuples.
type Rows struct {
	Columns []string
	Data    [][]interface{}
}

// Ack acknowledges a statement that produced no rows.
type Ack struct {
	Message string
}

// Failure is a recovered error. Nothing from the console propagates to
// the host UI as a panic or uncaught error; it all lands here.
type Failure struct {
	Kind    core.ErrorKind
	Message string
}

func (Rows) Type() ResultType    { return RowsResultType }
func (Ack) Type() ResultType     { return AckResultType }
func (Failure) Type() ResultType { return FailureResultType }

// Table projects a result into a column/row table. It is the identity
// for Rows; Ack and Failure render as an empty table.
func Table(result Result) (columns []string, rows [][]interface{}) {
	if r, ok := result.(Rows); ok {
		return r.Columns, r.Data
	}
	return []string{}, [][]interface{}{}
}

// Records zips columns with each row positionally into one key-value
// record per row, for structured display. Duplicate column names
// overwrite earlier keys; that is documented behavior, not defended
// against. Non-Rows results and zero rows both yield an empty sequence.
func Records(result Result) []map[string]interface{} {
	r, ok := result.(Rows)
	if !ok {
		return []map[string]interface{}{}
	}

	records := make([]map[string]interface{}, 0, len(r.Data))
	for _, row := range r.Data {
		record := make(map[string]interface{}, len(r.Columns))
		for i, column := range r.Columns {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}
