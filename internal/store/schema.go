package store

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/smileynet/contacts/internal/contact"
)

//go:embed schema.json
var schemaJSON []byte

// maxReportedErrors caps how many schema violations are listed in one error.
const maxReportedErrors = 3

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Check validates an address book document against the nested record schema.
// Violations are reported as contact.ErrValidation. Check assumes data is
// well-formed JSON; syntax errors are reported as ErrCorrupt.
func Check(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("store: compiling schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	msgs := make([]string, 0, min(len(errs), maxReportedErrors))
	for _, e := range errs[:min(len(errs), maxReportedErrors)] {
		msgs = append(msgs, e.String())
	}
	if len(errs) > maxReportedErrors {
		msgs = append(msgs, fmt.Sprintf("... and %d more", len(errs)-maxReportedErrors))
	}
	return fmt.Errorf("%w: %s", contact.ErrValidation, strings.Join(msgs, "; "))
}
