package query

import (
	"reflect"
	"testing"

	"github.com/snapquery/snapquery/core"
)

func TestTable(t *testing.T) {
	rows := Rows{
		Columns: []string{"a", "b"},
		Data:    [][]interface{}{{1, 2}, {3, 4}},
	}
	columns, data := Table(rows)
	if !reflect.DeepEqual(columns, rows.Columns) {
		t.Errorf("Table should preserve columns, got %v", columns)
	}
	if !reflect.DeepEqual(data, rows.Data) {
		t.Errorf("Table should preserve data, got %v", data)
	}

	for _, result := range []Result{
		Ack{Message: "Query executed successfully"},
		Failure{Kind: core.KindEngine, Message: "table not found"},
	} {
		columns, data = Table(result)
		if len(columns) != 0 || len(data) != 0 {
			t.Errorf("Table(%T) should be empty, got %v %v", result, columns, data)
		}
	}
}

func TestRecords(t *testing.T) {
	rows := Rows{
		Columns: []string{"a", "b"},
		Data:    [][]interface{}{{1, 2}, {3, 4}},
	}
	records := Records(rows)
	want := []map[string]interface{}{
		{"a": 1, "b": 2},
		{"a": 3, "b": 4},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Records mismatch: got %v, want %v", records, want)
	}
}

func TestRecordsDuplicateColumns(t *testing.T) {
	rows := Rows{
		Columns: []string{"a", "a"},
		Data:    [][]interface{}{{1, 2}},
	}
	records := Records(rows)
	if len(records) != 1 {
		t.Fatalf("Expected one record, got %d", len(records))
	}
	if records[0]["a"] != 2 {
		t.Errorf("Later column should win for duplicate names, got %v", records[0]["a"])
	}
}

func TestRecordsEmpty(t *testing.T) {
	records := Records(Rows{Columns: []string{"a"}})
	if len(records) != 0 {
		t.Errorf("Expected no records for zero rows, got %v", records)
	}

	records = Records(Ack{})
	if len(records) != 0 {
		t.Errorf("Expected no records for an ack, got %v", records)
	}
}
