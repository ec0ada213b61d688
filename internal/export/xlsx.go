// Package export writes an address book to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/smileynet/contacts/internal/addressbook"
)

// SheetName is the name of the worksheet holding the contacts.
const SheetName = "Contacts"

var header = []any{"Name", "Phones", "Birthday"}

// XLSX writes book as a workbook to w. Records are read batch by batch in
// key order; batchSize <= 0 uses the book's default.
func XLSX(book *addressbook.Book, w io.Writer, batchSize int) error {
	f, err := build(book, batchSize)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: writing workbook: %w", err)
	}
	return nil
}

// XLSXFile writes book as a workbook to path.
func XLSXFile(book *addressbook.Book, path string, batchSize int) error {
	f, err := build(book, batchSize)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: saving %s: %w", path, err)
	}
	return nil
}

func build(book *addressbook.Book, batchSize int) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("export: creating header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: styling header: %w", err)
	}

	row := 2
	it := book.Iterator(batchSize)
	for {
		batch, ok := it.Next()
		if !ok {
			break
		}
		for _, r := range batch {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("export: row %d: %w", row, err)
			}
			values := []any{r.Name().Value(), strings.Join(r.PhoneValues(), "; "), r.Birthday()}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("export: row %d: %w", row, err)
			}
			row++
		}
	}
	return f, nil
}
