package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/smileynet/contacts/internal/addressbook"
	"github.com/smileynet/contacts/internal/contact"
)

func sampleBook() *addressbook.Book {
	b := addressbook.New()
	b.Add(contact.MustRecord("Alice", []string{"1234567890", "0987654321"}, "2000-01-01"))
	b.Add(contact.MustRecord("Bob", nil, ""))
	b.Add(contact.MustRecord("Carol", []string{"5555555555"}, "June"))
	return b
}

func readRows(t *testing.T, f *excelize.File) [][]string {
	t.Helper()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	return rows
}

func TestXLSXFile_WritesRowsInKeyOrder(t *testing.T) {
	// Given a book with three contacts
	path := filepath.Join(t.TempDir(), "contacts.xlsx")

	// When exported with a batch size smaller than the book
	if err := XLSXFile(sampleBook(), path, 2); err != nil {
		t.Fatalf("XLSXFile() error = %v", err)
	}

	// Then the workbook has a header plus one row per record in order
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	rows := readRows(t, f)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4: %v", len(rows), rows)
	}
	if fmt.Sprint(rows[0]) != "[Name Phones Birthday]" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Alice" || rows[1][1] != "1234567890; 0987654321" || rows[1][2] != "2000-01-01" {
		t.Errorf("Alice row = %v", rows[1])
	}
	if rows[2][0] != "Bob" {
		t.Errorf("row 2 = %v, want Bob", rows[2])
	}
	if rows[3][0] != "Carol" || rows[3][2] != "June" {
		t.Errorf("Carol row = %v", rows[3])
	}
}

func TestXLSX_EmptyBook(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(addressbook.New(), &buf, 0); err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows := readRows(t, f)
	if len(rows) != 1 {
		t.Errorf("rows = %v, want header only", rows)
	}
}

func TestXLSXFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "contacts.xlsx")
	if err := XLSXFile(sampleBook(), path, 10); err == nil {
		t.Error("XLSXFile() to missing directory should return error")
	}
}
