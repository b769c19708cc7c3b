package dataset

import (
	"reflect"
	"testing"
	"time"
)

func sampleRows() []Transaction {
	day := func(m time.Month, d int) time.Time { return time.Date(2023, m, d, 0, 0, 0, 0, time.UTC) }
	return []Transaction{
		{OrderID: "1", OrderDate: day(1, 5), Region: "East", Customer: "Alice", Sales: 100, Profit: 20},
		{OrderID: "2", OrderDate: day(1, 20), Region: "West", Customer: "Bob", Sales: 50, Profit: -5},
		{OrderID: "3", OrderDate: day(2, 1), Region: "East", Customer: "Alice", Sales: 200, Profit: 40},
		{OrderID: "4", OrderDate: day(2, 3), Region: "Central", Customer: "Carol", Sales: 10, Profit: 1},
	}
}

func TestTableRegionsFirstAppearance(t *testing.T) {
	table := NewTable("test", sampleRows(), 0)
	want := []string{"East", "West", "Central"}
	if got := table.Regions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Regions() = %v, want %v", got, want)
	}
}

func TestTableRowsIsCopy(t *testing.T) {
	table := NewTable("test", sampleRows(), 0)
	rows := table.Rows()
	rows[0].Sales = 999

	if table.At(0).Sales != 100 {
		t.Error("Modifying Rows() result changed the table")
	}
}

func TestTableRange(t *testing.T) {
	table := NewTable("test", sampleRows(), 0)
	visited := 0
	table.Range(func(i int, tx Transaction) bool {
		visited++
		return i < 1
	})
	if visited != 2 {
		t.Errorf("Range should stop when fn returns false, visited %d", visited)
	}
}

func TestNewTableNilRows(t *testing.T) {
	table := NewTable("empty", nil, 0)
	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %d rows", table.Len())
	}
	if regions := table.Regions(); len(regions) != 0 {
		t.Errorf("Expected no regions, got %v", regions)
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Source: "sales.csv", Reason: ReasonBadDate, Line: 7, Column: "Order Date", Value: "31/31/2020"}
	want := `load sales.csv: bad date at line 7 in column "Order Date" (value "31/31/2020")`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
