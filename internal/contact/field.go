// Package contact defines the validated value types stored in an address book.
package contact

import (
	"errors"
	"fmt"
)

// PhoneLength is the exact number of digits a phone number must have.
const PhoneLength = 10

// ErrValidation indicates a field or record failed validation.
var ErrValidation = errors.New("contact: validation failed")

// Field is a single validated scalar value.
type Field interface {
	Value() string
	String() string
}

// Verify at compile time that field types implement Field.
var (
	_ Field = Name{}
	_ Field = Phone{}
)

// Name is a contact name. Records require it to be non-blank UTF-8.
type Name struct {
	value string
}

// NewName wraps value as a Name.
func NewName(value string) Name {
	return Name{value: value}
}

// Value returns the raw name.
func (n Name) Value() string { return n.value }

func (n Name) String() string { return n.value }

// Phone is a phone number of exactly PhoneLength decimal digits.
type Phone struct {
	value string
}

// NewPhone validates value and wraps it as a Phone. The value is kept as-is;
// no stripping or country-code handling is done.
func NewPhone(value string) (Phone, error) {
	if err := validatePhone(value); err != nil {
		return Phone{}, err
	}
	return Phone{value: value}, nil
}

// Value returns the raw phone number.
func (p Phone) Value() string { return p.value }

func (p Phone) String() string { return p.value }

func validatePhone(value string) error {
	if len(value) != PhoneLength {
		return fmt.Errorf("%w: phone %q should be %d digits", ErrValidation, value, PhoneLength)
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return fmt.Errorf("%w: phone %q should be %d digits", ErrValidation, value, PhoneLength)
		}
	}
	return nil
}
