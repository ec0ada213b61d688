package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smileynet/contacts/internal/addressbook"
	"github.com/smileynet/contacts/internal/contact"
)

func TestParsePhones(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "", want: nil},
		{input: "   ", want: nil},
		{input: "1234567890", want: []string{"1234567890"}},
		{input: "1111111111, 2222222222", want: []string{"1111111111", "2222222222"}},
		{input: "1111111111;2222222222 3333333333", want: []string{"1111111111", "2222222222", "3333333333"}},
	}
	for _, tt := range tests {
		got := ParsePhones(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("ParsePhones(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAddContact(t *testing.T) {
	book := addressbook.New()

	// Valid input is added
	r, err := AddContact(book, "Alice", "1234567890", "2000-01-01")
	if err != nil {
		t.Fatalf("AddContact() error = %v", err)
	}
	if r.String() != "Contact name: Alice, phones: 1234567890, birthday: 2000-01-01" {
		t.Errorf("record = %q", r.String())
	}

	// Invalid phone rejects only this contact
	if _, err := AddContact(book, "Bob", "12", ""); !errors.Is(err, contact.ErrValidation) {
		t.Errorf("AddContact(bad phone) error = %v, want ErrValidation", err)
	}

	// Blank name is rejected
	if _, err := AddContact(book, "  ", "", ""); !errors.Is(err, contact.ErrEmptyName) {
		t.Errorf("AddContact(blank) error = %v, want ErrEmptyName", err)
	}

	if book.Len() != 1 {
		t.Errorf("Len() = %d, want 1", book.Len())
	}
}

// runPlain drives a Plain shell over scripted input and returns its output
// and the number of saves performed.
func runPlain(t *testing.T, book *addressbook.Book, input string) (string, int, error) {
	t.Helper()
	var out bytes.Buffer
	saves := 0
	p := NewPlain(strings.NewReader(input), &out, book, func() error {
		saves++
		return nil
	})
	err := p.Run(context.Background())
	return out.String(), saves, err
}

func TestPlain_AddSearchExit(t *testing.T) {
	// Given an empty book and a scripted session
	book := addressbook.New()
	input := strings.Join([]string{
		"1", "Alice", "1234567890", "2000-01-01",
		"2", "ALI",
		"3",
	}, "\n") + "\n"

	// When the shell runs
	out, saves, err := runPlain(t, book, input)

	// Then the contact is added, found, and the book saved once
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if book.Len() != 1 {
		t.Errorf("Len() = %d, want 1", book.Len())
	}
	for _, want := range []string{
		"1. Add Contact",
		"2. Search Contacts",
		"3. Exit",
		"Contact Alice added.",
		"Matching Contacts:",
		"Contact name: Alice, phones: 1234567890, birthday: 2000-01-01",
		"Exiting. Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
}

func TestPlain_InvalidChoiceReprintsMenu(t *testing.T) {
	out, _, err := runPlain(t, addressbook.New(), "9\n3\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, msgInvalidChoice) {
		t.Errorf("output missing invalid choice message:\n%s", out)
	}
	if n := strings.Count(out, "1. Add Contact"); n != 2 {
		t.Errorf("menu printed %d times, want 2", n)
	}
}

func TestPlain_SearchNoMatches(t *testing.T) {
	out, _, _ := runPlain(t, addressbook.New(), "2\nnobody\n3\n")
	if !strings.Contains(out, msgNoMatches) {
		t.Errorf("output missing %q:\n%s", msgNoMatches, out)
	}
}

func TestPlain_ValidationErrorKeepsSession(t *testing.T) {
	// Given an existing contact
	book := addressbook.New()
	book.Add(contact.MustRecord("Bob", nil, ""))

	// When an add fails validation
	out, saves, err := runPlain(t, book, "1\nAlice\nnot-a-phone\n\n3\n")

	// Then the error is shown, the store is unchanged, and the session continues to exit
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "error: ") {
		t.Errorf("output missing validation error:\n%s", out)
	}
	if book.Len() != 1 {
		t.Errorf("Len() = %d, want 1", book.Len())
	}
	if saves != 1 || !strings.Contains(out, msgGoodbye) {
		t.Errorf("saves = %d, want clean exit:\n%s", saves, out)
	}
}

func TestPlain_EOFSavesOnce(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "at menu", input: ""},
		{name: "mid add", input: "1\nAlice\n"},
		{name: "mid search", input: "2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, saves, err := runPlain(t, addressbook.New(), tt.input)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if saves != 1 {
				t.Errorf("saves = %d, want 1", saves)
			}
		})
	}
}

func TestPlain_ReadErrorSavesAndReports(t *testing.T) {
	// Given a session whose phone line overflows the scanner buffer
	book := addressbook.New()
	input := "1\nAlice\n" + strings.Repeat("1", bufio.MaxScanTokenSize+1) + "\n"

	// When the shell runs
	out, saves, err := runPlain(t, book, input)

	// Then the read error is shown and returned, and the book is still saved once
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("Run() error = %v, want bufio.ErrTooLong", err)
	}
	if !strings.Contains(out, "error: reading input") {
		t.Errorf("output missing read error:\n%s", out)
	}
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
	if book.Len() != 0 {
		t.Errorf("Len() = %d, want 0", book.Len())
	}
}

func TestPlain_SaveErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	p := NewPlain(strings.NewReader("3\n"), &bytes.Buffer{}, addressbook.New(), func() error { return boom })

	if err := p.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestPlain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPlain(strings.NewReader("3\n"), &bytes.Buffer{}, addressbook.New(), nil)
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestNew_NonTTYIsPlain(t *testing.T) {
	s := New(Options{In: strings.NewReader(""), Out: &bytes.Buffer{}, Book: addressbook.New()})
	if _, ok := s.(*Plain); !ok {
		t.Errorf("New(non-TTY) = %T, want *Plain", s)
	}
}

func TestNew_ForcePlain(t *testing.T) {
	s := New(Options{ForcePlain: true, Book: addressbook.New()})
	if _, ok := s.(*Plain); !ok {
		t.Errorf("New(ForcePlain) = %T, want *Plain", s)
	}
}
