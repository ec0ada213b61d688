package contact

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrEmptyName indicates a record was given a blank name.
var ErrEmptyName = fmt.Errorf("%w: name cannot be empty", ErrValidation)

// Record is one contact: a name, zero or more phones, and a free-form birthday.
// The name is the record's identity key within an address book.
type Record struct {
	name     Name
	phones   []Phone
	birthday string
}

// NewRecord builds a Record. The name must be non-blank, name and birthday
// must be valid UTF-8, and every phone must be valid. On any failure no
// record is produced and the returned error wraps ErrValidation.
func NewRecord(name string, phones []string, birthday string) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return Record{}, ErrEmptyName
	}
	if !utf8.ValidString(name) {
		return Record{}, fmt.Errorf("%w: name %q is not valid UTF-8", ErrValidation, name)
	}
	if !utf8.ValidString(birthday) {
		return Record{}, fmt.Errorf("record %q: %w: birthday %q is not valid UTF-8", name, ErrValidation, birthday)
	}

	r := Record{
		name:     NewName(name),
		birthday: birthday,
	}
	if len(phones) > 0 {
		r.phones = make([]Phone, 0, len(phones))
	}
	for _, p := range phones {
		phone, err := NewPhone(p)
		if err != nil {
			return Record{}, fmt.Errorf("record %q: %w", name, err)
		}
		r.phones = append(r.phones, phone)
	}
	return r, nil
}

// MustRecord is like NewRecord but panics on error. Intended for tests and
// literals known to be valid.
func MustRecord(name string, phones []string, birthday string) Record {
	r, err := NewRecord(name, phones, birthday)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the record's name.
func (r Record) Name() Name { return r.name }

// Phones returns a copy of the record's phones in insertion order.
func (r Record) Phones() []Phone {
	if len(r.phones) == 0 {
		return nil
	}
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// PhoneValues returns the raw phone strings in insertion order.
func (r Record) PhoneValues() []string {
	if len(r.phones) == 0 {
		return nil
	}
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.value
	}
	return out
}

// Birthday returns the birthday exactly as given, or "" when unset.
func (r Record) Birthday() string { return r.birthday }

// String renders the record as
// "Contact name: <name>, phones: <p1>; <p2>, birthday: <birthday>".
func (r Record) String() string {
	return fmt.Sprintf("Contact name: %s, phones: %s, birthday: %s",
		r.name.value, strings.Join(r.PhoneValues(), "; "), r.birthday)
}

// Matches reports whether the name contains query case-insensitively or any
// phone contains it as-is.
func (r Record) Matches(query string) bool {
	if strings.Contains(strings.ToLower(r.name.value), strings.ToLower(query)) {
		return true
	}
	for _, p := range r.phones {
		if strings.Contains(p.value, query) {
			return true
		}
	}
	return false
}
