// Package shell implements the interactive address book menu.
//
// Two front ends share the same operations: a line-mode prompt loop used
// when output is not a terminal, and a Bubble Tea UI used when it is.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"

	"github.com/smileynet/contacts/internal/contact"
)

// Messages shared by both front ends.
const (
	msgInvalidChoice = "Invalid choice. Please enter a valid option."
	msgNoMatches     = "No matching contacts found."
	msgMatches       = "Matching Contacts:"
	msgGoodbye       = "Exiting. Goodbye!"
)

// Book is the subset of the address book the shell drives.
type Book interface {
	Add(r contact.Record)
	Find(query string) []contact.Record
}

// SaveFunc persists the book. It is called once when the shell exits.
type SaveFunc func() error

// Shell runs an interactive session until the user exits.
type Shell interface {
	Run(ctx context.Context) error
}

// Options configures shell creation.
type Options struct {
	In         io.Reader // Input source (default: os.Stdin).
	Out        io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force the line-mode loop even if Out is a TTY.
	Book       Book
	Save       SaveFunc
}

// New returns a TUI shell when Out is a TTY, or a line-mode shell otherwise.
// ForcePlain overrides TTY detection.
func New(opts Options) Shell {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Out) {
		return NewPlain(opts.In, opts.Out, opts.Book, opts.Save)
	}
	return &TUIShell{in: opts.In, out: opts.Out, book: opts.Book, save: opts.Save}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ParsePhones splits free-form input on commas, semicolons, and whitespace.
func ParsePhones(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}

// AddContact validates the collected fields and adds the record to book.
// Nothing is added when validation fails.
func AddContact(book Book, name, phones, birthday string) (contact.Record, error) {
	r, err := contact.NewRecord(name, ParsePhones(phones), birthday)
	if err != nil {
		return contact.Record{}, err
	}
	book.Add(r)
	return r, nil
}

func save(fn SaveFunc) error {
	if fn == nil {
		return nil
	}
	if err := fn(); err != nil {
		return fmt.Errorf("shell: saving: %w", err)
	}
	return nil
}
