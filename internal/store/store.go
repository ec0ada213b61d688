// Package store implements address book persistence to a JSON file.
//
// The file is a JSON object keyed by contact name. Each value mirrors the
// record's field layout, with every field nested as {"value": ...}:
//
//	{"Alice": {"name": {"value": "Alice"}, "phones": [{"value": "1234567890"}], "birthday": "2000-01-01"}}
//
// Member order is preserved in both directions and defines the book's key order.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smileynet/contacts/internal/addressbook"
	"github.com/smileynet/contacts/internal/contact"
)

var (
	// ErrMissing indicates the address book file does not exist.
	ErrMissing = errors.New("store: file not found")
	// ErrCorrupt indicates the address book file is not valid JSON.
	ErrCorrupt = errors.New("store: invalid JSON")
)

// FileStore persists an address book as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

type wireField struct {
	Value string `json:"value"`
}

type wireRecord struct {
	Name     wireField   `json:"name"`
	Phones   []wireField `json:"phones"`
	Birthday *string     `json:"birthday"`
}

func toWire(r contact.Record) wireRecord {
	birthday := r.Birthday()
	w := wireRecord{
		Name:     wireField{Value: r.Name().Value()},
		Phones:   []wireField{},
		Birthday: &birthday,
	}
	for _, p := range r.PhoneValues() {
		w.Phones = append(w.Phones, wireField{Value: p})
	}
	return w
}

func (w wireRecord) record() (contact.Record, error) {
	phones := make([]string, len(w.Phones))
	for i, p := range w.Phones {
		phones[i] = p.Value
	}
	var birthday string
	if w.Birthday != nil {
		birthday = *w.Birthday
	}
	return contact.NewRecord(w.Name.Value, phones, birthday)
}

// Save writes every record in book to the file, replacing its contents.
func (s *FileStore) Save(book *addressbook.Book) error {
	data, err := Encode(book)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: creating directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}
	return nil
}

// Encode renders book in the nested file format, preserving key order.
func Encode(book *addressbook.Book) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range book.Names() {
		r, _ := book.Get(name)
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("store: marshaling key %q: %w", name, err)
		}
		val, err := json.Marshal(toWire(r))
		if err != nil {
			return nil, fmt.Errorf("store: marshaling %q: %w", name, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("store: formatting: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Load reads the file into a new Book.
//
// A missing file returns ErrMissing and a file that is not JSON returns
// ErrCorrupt. A JSON document that does not describe records returns an
// error wrapping contact.ErrValidation. Top-level members whose value is not
// an object are skipped.
func (s *FileStore) Load() (*addressbook.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrMissing, s.path, err)
		}
		return nil, fmt.Errorf("store: reading %s: %w", s.path, err)
	}

	book, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, s.path)
	}
	return book, nil
}

// LoadOrEmpty is Load with the missing and corrupt cases recovered: a warning
// is logged and an empty Book returned. Every other error is returned.
func (s *FileStore) LoadOrEmpty(logger *slog.Logger) (*addressbook.Book, error) {
	book, err := s.Load()
	switch {
	case err == nil:
		logger.Debug("address book loaded", "path", s.path, "records", book.Len())
		return book, nil
	case errors.Is(err, ErrMissing):
		logger.Warn("File not found. Starting with an empty AddressBook.", "path", s.path)
		return addressbook.New(), nil
	case errors.Is(err, ErrCorrupt):
		logger.Warn("Error decoding JSON. Starting with an empty AddressBook.", "path", s.path, "error", err)
		return addressbook.New(), nil
	default:
		return nil, err
	}
}

// Decode parses a document in the nested file format.
func Decode(data []byte) (*addressbook.Book, error) {
	if !json.Valid(data) {
		return nil, ErrCorrupt
	}
	if err := Check(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	book := addressbook.New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if !isObject(raw) {
			continue
		}

		var w wireRecord
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("%w: member %q: %v", contact.ErrValidation, key, err)
		}
		r, err := w.record()
		if err != nil {
			return nil, fmt.Errorf("store: member %q: %w", key, err)
		}
		book.Add(r)
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return book, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
