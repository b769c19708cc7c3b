package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

const sample = `Row ID,Order ID,Order Date,Region,Customer Name,Sales,Profit
1,CA-1,2023-01-05,East,Alice,100,20
2,CA-2,1/20/2023,East,Bob,50,-5
3,CA-3,2023-02-01,West,Carol,"1,200.50",300
`

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func load(t *testing.T, path string, opts sources.Options) (*dataset.Table, error) {
	t.Helper()
	opts.Path = path
	if opts.Parse.Layouts == nil {
		opts.Parse = dataset.DefaultParseOptions()
	}
	return (&Source{}).Load(context.Background(), opts)
}

func TestRegistered(t *testing.T) {
	src, err := sources.Get(Name)
	if err != nil {
		t.Fatalf("Source not registered: %v", err)
	}
	if src.Description() == "" {
		t.Error("Description should not be empty")
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte(sample))

	table, err := load(t, path, sources.Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}

	first := table.At(0)
	if first.OrderID != "CA-1" || first.Region != "East" || first.Customer != "Alice" {
		t.Errorf("Unexpected first row: %+v", first)
	}
	if !first.OrderDate.Equal(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected first date: %v", first.OrderDate)
	}
	if got := table.At(1).OrderDate; !got.Equal(time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected US month-first date, got %v", got)
	}
	if got := table.At(1).Profit; got != -5 {
		t.Errorf("Expected profit -5, got %f", got)
	}
	if got := table.At(2).Sales; got != 1200.50 {
		t.Errorf("Expected sales 1200.50, got %f", got)
	}
	if table.Source() != "sales.csv" {
		t.Errorf("Expected source sales.csv, got %s", table.Source())
	}
}

func TestLoadByteOrderMark(t *testing.T) {
	path := writeFile(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte(sample)...))

	table, err := load(t, path, sources.Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}
}

func TestLoadLatin1(t *testing.T) {
	content := []byte("Order Date,Region,Customer Name,Sales,Profit\n2023-01-05,South,Jos\xe9,10,1\n")
	path := writeFile(t, "latin1.csv", content)

	table, err := load(t, path, sources.Options{Encoding: "latin1"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := table.At(0).Customer; got != "José" {
		t.Errorf("Expected customer José, got %q", got)
	}
	// Without an order column the line number is used.
	if got := table.At(0).OrderID; got != "2" {
		t.Errorf("Expected order id 2, got %q", got)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", []byte("Order Date,Region,Customer Name,Sales,Profit\n"))

	table, err := load(t, path, sources.Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %d rows", table.Len())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		reason  dataset.Reason
		line    int
	}{
		{
			name:    "missing file",
			missing: true,
			reason:  dataset.ReasonNotFound,
		},
		{
			name:    "missing column",
			content: "Order Date,Region,Sales,Profit\n2023-01-05,East,1,1\n",
			reason:  dataset.ReasonMissingColumn,
		},
		{
			name:    "day first date",
			content: "Order Date,Region,Customer Name,Sales,Profit\n2023-01-05,East,A,1,1\n31/01/2023,East,B,1,1\n",
			reason:  dataset.ReasonBadDate,
			line:    3,
		},
		{
			name:    "bad sales",
			content: "Order Date,Region,Customer Name,Sales,Profit\n2023-01-05,East,A,lots,1\n",
			reason:  dataset.ReasonBadNumber,
			line:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.csv")
			if !tt.missing {
				path = writeFile(t, "bad.csv", []byte(tt.content))
			}

			_, err := load(t, path, sources.Options{})
			var lerr *dataset.LoadError
			if !errors.As(err, &lerr) {
				t.Fatalf("Expected LoadError, got %v", err)
			}
			if lerr.Reason != tt.reason {
				t.Errorf("Expected reason %s, got %s", tt.reason, lerr.Reason)
			}
			if lerr.Line != tt.line {
				t.Errorf("Expected line %d, got %d", tt.line, lerr.Line)
			}
		})
	}
}

func TestLoadDropPolicy(t *testing.T) {
	content := "Order Date,Region,Customer Name,Sales,Profit\n" +
		"2023-01-05,East,A,1,1\n" +
		"31/01/2023,East,B,1,1\n" +
		"2023-01-07,West,C,2,2\n"
	path := writeFile(t, "drop.csv", []byte(content))

	opts := sources.Options{Parse: dataset.DefaultParseOptions()}
	opts.Parse.Policy = dataset.PolicyDrop

	table, err := load(t, path, opts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Len() != 2 || table.Rejected() != 1 {
		t.Errorf("Expected 2 rows and 1 rejected, got %d and %d", table.Len(), table.Rejected())
	}
}

func TestUnsupportedEncoding(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte(sample))

	_, err := load(t, path, sources.Options{Encoding: "utf-16"})
	var lerr *dataset.LoadError
	if !errors.As(err, &lerr) || lerr.Reason != dataset.ReasonUnreadable {
		t.Fatalf("Expected unreadable LoadError, got %v", err)
	}
	if !strings.Contains(err.Error(), "utf-16") {
		t.Errorf("Expected encoding in message, got %v", err)
	}
}

func TestIdentityTracksModification(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte(sample))
	src := &Source{}
	opts := sources.Options{Path: path}

	k1, err := src.Identity(context.Background(), opts)
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	k2, err := src.Identity(context.Background(), opts)
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}

	if k1.Locator != k2.Locator {
		t.Errorf("Locator changed: %s vs %s", k1.Locator, k2.Locator)
	}
	if k1.Version == k2.Version {
		t.Error("Expected version to change after modification")
	}
}

func TestOpenUsesCache(t *testing.T) {
	path := writeFile(t, "sales.csv", []byte(sample))
	cache := dataset.NewCache()
	opts := sources.Options{Path: path, Parse: dataset.DefaultParseOptions()}

	first, hit, err := sources.Open(context.Background(), cache, &Source{}, opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if hit {
		t.Error("First open should miss the cache")
	}

	second, hit, err := sources.Open(context.Background(), cache, &Source{}, opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !hit || first != second {
		t.Error("Second open should return the cached table")
	}
}
