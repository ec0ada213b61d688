package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Plain is the line-mode shell: a numbered menu read from a line-oriented input.
type Plain struct {
	in   *bufio.Scanner
	out  io.Writer
	book Book
	save SaveFunc
}

// NewPlain creates a line-mode shell reading from in and writing to out.
func NewPlain(in io.Reader, out io.Writer, book Book, saveFn SaveFunc) *Plain {
	return &Plain{in: bufio.NewScanner(in), out: out, book: book, save: saveFn}
}

// Run loops over menu choices until the user exits or input ends. Both save
// the book before returning.
func (p *Plain) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.printMenu()
		choice, ok := p.prompt("Enter your choice: ")
		if !ok {
			return p.endOfInput()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if !p.add() {
				return p.endOfInput()
			}
		case "2":
			p.search()
		case "3":
			return p.exit()
		default:
			p.println(msgInvalidChoice)
		}
	}
}

func (p *Plain) printMenu() {
	p.println("")
	for i, item := range menuItems {
		p.println(fmt.Sprintf("%d. %s", i+1, item))
	}
}

// prompt writes label and reads one line. It returns false at end of input.
func (p *Plain) prompt(label string) (string, bool) {
	_, _ = fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		_, _ = fmt.Fprintln(p.out)
		return "", false
	}
	return p.in.Text(), true
}

// add collects one contact. It returns false if input ended mid-flow.
// Validation failures reject only this contact.
func (p *Plain) add() bool {
	name, ok := p.prompt("Enter contact name: ")
	if !ok {
		return false
	}
	phones, ok := p.prompt("Enter phones (optional, 10 digits each, comma separated): ")
	if !ok {
		return false
	}
	birthday, ok := p.prompt("Enter birthday (optional, format: YYYY-MM-DD): ")
	if !ok {
		return false
	}

	r, err := AddContact(p.book, name, phones, birthday)
	if err != nil {
		p.println("error: " + err.Error())
		return true
	}
	p.println("Contact " + r.Name().Value() + " added.")
	return true
}

func (p *Plain) search() {
	query, ok := p.prompt("Enter search query (name or phone number): ")
	if !ok {
		return
	}
	matches := p.book.Find(query)
	if len(matches) == 0 {
		p.println(msgNoMatches)
		return
	}
	p.println("\n" + msgMatches)
	for _, r := range matches {
		p.println(r.String())
	}
}

// endOfInput exits when input stops. A read failure is reported after the
// book is saved so the session's changes are kept.
func (p *Plain) endOfInput() error {
	readErr := p.in.Err()
	if readErr != nil {
		p.println("error: reading input: " + readErr.Error())
	}
	if err := p.exit(); err != nil {
		return err
	}
	if readErr != nil {
		return fmt.Errorf("shell: reading input: %w", readErr)
	}
	return nil
}

func (p *Plain) exit() error {
	if err := save(p.save); err != nil {
		return err
	}
	p.println(msgGoodbye)
	return nil
}

func (p *Plain) println(s string) {
	_, _ = fmt.Fprintln(p.out, s)
}
