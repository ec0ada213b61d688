package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/smileynet/contacts/internal/addressbook"
	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/export"
	"github.com/smileynet/contacts/internal/logging"
	"github.com/smileynet/contacts/internal/shell"
	"github.com/smileynet/contacts/internal/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	Config   string `help:"Config file to use instead of the user and project files." short:"c" type:"path"`
	File     string `help:"Address book file (overrides config)." short:"f" type:"path"`
	LogLevel string `help:"Diagnostic log level: debug, info, warn, error." name:"log-level"`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"1" help:"Open the interactive menu (default)."`
	Add     AddCmd           `cmd:"" help:"Add or replace a contact."`
	Find    FindCmd          `cmd:"" help:"Search contacts by name or phone."`
	Delete  DeleteCmd        `cmd:"" help:"Delete a contact by exact name."`
	List    ListCmd          `cmd:"" help:"List all contacts page by page."`
	Export  ExportCmd        `cmd:"" help:"Export contacts to an xlsx spreadsheet."`
	Check   CheckCmd         `cmd:"" help:"Validate the address book file."`
}

// env holds the dependencies every command builds from config.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.FileStore
}

// loadConfig loads layered config from user and project paths with env
// overrides. A non-empty path replaces the layered files and must exist.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("config: %w", statErr)
		}
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadLayered(
			os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
			".contacts.yaml",
		)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves config, applies flag overrides, and builds the logger and store.
func (g *Globals) setup() (*env, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if g.File != "" {
		cfg.Book.File = g.File
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.Setup(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, store: store.NewFileStore(cfg.Book.File)}, nil
}

// load reads the address book, starting empty if the file is missing or corrupt.
func (e *env) load() (*addressbook.Book, error) {
	return e.store.LoadOrEmpty(e.logger)
}

// loadExisting reads the book for one-shot edits. A missing file starts an
// empty book, but a corrupt file is an error so the edit cannot overwrite it.
func loadExisting(s *store.FileStore) (*addressbook.Book, error) {
	book, err := s.Load()
	if errors.Is(err, store.ErrMissing) {
		return addressbook.New(), nil
	}
	return book, err
}

// batchSize returns the flag value when set, else the configured size.
func (e *env) batchSize(flag int) int {
	if flag > 0 {
		return flag
	}
	return e.cfg.Book.BatchSize
}

// bookSaver abstracts store.FileStore for testing.
type bookSaver interface {
	Save(book *addressbook.Book) error
}

// --- Shell command ---

// ShellCmd opens the interactive menu.
type ShellCmd struct {
	NoTUI bool `help:"Force the line-mode menu even if stdout is a TTY." default:"false"`
}

// Run loads the book and hands it to the interactive shell, which saves on exit.
func (c *ShellCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	book, err := e.load()
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := shell.New(shell.Options{
		ForcePlain: c.NoTUI || !e.cfg.UI.TUI,
		Book:       book,
		Save:       func() error { return e.store.Save(book) },
	})
	return sh.Run(ctx)
}

// --- Add command ---

// AddCmd adds a contact, replacing any contact with the same name.
type AddCmd struct {
	Name     string   `arg:"" help:"Contact name."`
	Phone    []string `help:"Phone number, exactly 10 digits (repeatable)." short:"p"`
	Birthday string   `help:"Birthday, free-form (e.g. 2000-01-31)." short:"b"`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	book, err := loadExisting(e.store)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return c.run(os.Stdout, book, e.store)
}

// run validates and stores the contact, enabling testable wiring.
func (c *AddCmd) run(w io.Writer, book *addressbook.Book, s bookSaver) error {
	r, err := contact.NewRecord(c.Name, c.Phone, c.Birthday)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	_, replaced := book.Get(c.Name)
	book.Add(r)
	if err := s.Save(book); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	verb := "Added"
	if replaced {
		verb = "Replaced"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", verb, r)
	return nil
}

// --- Find command ---

// FindCmd searches contacts by name (case-insensitive) or phone substring.
type FindCmd struct {
	Query string `arg:"" help:"Text to search for in names and phone numbers."`
}

// Run executes the find command.
func (c *FindCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	book, err := e.load()
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	return c.run(os.Stdout, book)
}

// run prints the matches, enabling testable wiring.
func (c *FindCmd) run(w io.Writer, book *addressbook.Book) error {
	matches := book.Find(c.Query)
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(w, "No matching contacts found.")
		return nil
	}
	_, _ = fmt.Fprintln(w, "Matching Contacts:")
	for _, r := range matches {
		_, _ = fmt.Fprintln(w, r)
	}
	return nil
}

// --- Delete command ---

// DeleteCmd removes a contact by exact name.
type DeleteCmd struct {
	Name string `arg:"" help:"Exact contact name."`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	book, err := loadExisting(e.store)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return c.run(os.Stdout, book, e.store)
}

// run deletes the contact and saves only when something changed.
// A missing contact is reported, not treated as an error.
func (c *DeleteCmd) run(w io.Writer, book *addressbook.Book, s bookSaver) error {
	status := book.Delete(c.Name)
	if status == addressbook.Deleted {
		if err := s.Save(book); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
	}
	_, _ = fmt.Fprintln(w, status.Message(c.Name))
	return nil
}

// --- List command ---

// ListCmd prints every contact in pages of a fixed size.
type ListCmd struct {
	BatchSize int `help:"Contacts per page (default from config)." short:"n"`
}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	book, err := e.load()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return c.run(os.Stdout, book, e.batchSize(c.BatchSize))
}

// run prints the book page by page, enabling testable wiring.
func (c *ListCmd) run(w io.Writer, book *addressbook.Book, batchSize int) error {
	total := book.Len()
	if total == 0 {
		_, _ = fmt.Fprintln(w, "Address book is empty.")
		return nil
	}

	page, shown := 0, 0
	for batch := range book.Batches(batchSize) {
		page++
		header := fmt.Sprintf("Page %d (%d-%d of %d)", page, shown+1, shown+len(batch), total)
		_, _ = fmt.Fprintln(w, shell.PageHeader(header))
		for _, r := range batch {
			_, _ = fmt.Fprintln(w, r)
		}
		shown += len(batch)
	}
	return nil
}

// --- Export command ---

// ExportCmd writes the address book to a spreadsheet.
type ExportCmd struct {
	Output    string `arg:"" help:"Destination .xlsx file, or - for stdout."`
	BatchSize int    `help:"Contacts read per batch (default from config)." short:"n"`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	book, err := e.load()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return c.run(os.Stdout, book, e.batchSize(c.BatchSize))
}

// run writes the spreadsheet, enabling testable wiring. An output of "-"
// streams the workbook to w with no summary line.
func (c *ExportCmd) run(w io.Writer, book *addressbook.Book, batchSize int) error {
	if c.Output == "-" {
		if err := export.XLSX(book, w, batchSize); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	}
	if err := export.XLSXFile(book, c.Output, batchSize); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d contacts to %s\n", book.Len(), c.Output)
	return nil
}

// --- Check command ---

// CheckCmd validates the address book file without recovering from errors.
type CheckCmd struct{}

// Run executes the check command.
func (c *CheckCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	return c.run(os.Stdout, e.store)
}

// run strictly loads the file, reporting the first problem found.
func (c *CheckCmd) run(w io.Writer, s *store.FileStore) error {
	book, err := s.Load()
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s: ok (%d contacts)\n", s.Path(), book.Len())
	return nil
}

// Exit codes.
const (
	exitSuccess    = 0
	exitValidation = 1
	exitSetup      = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, contact.ErrValidation) {
		return exitValidation
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("Personal address book with name and phone search."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
