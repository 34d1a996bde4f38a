// Package importer normalizes raw exchange export files into canonical
// transactions. Each supported export format registers a Normalizer under a
// stable name; the upload boundary selects one by that name.
package importer

import (
	"fmt"
	"io"
	"sort"

	"github.com/cryptobud/cryptobud/internal/domain"
)

// Normalizer converts one exchange's export format into canonical
// transactions, in file order. Implementations are pure: same input, same
// output, no side effects.
//
// Rows the normalizer does not positively recognize are skipped; an empty
// result is a valid outcome, not an error. A wholly unexpected column layout
// fails with domain.ErrUnrecognizedFormat.
type Normalizer interface {
	Venue() string
	Normalize(r io.Reader) ([]domain.Transaction, error)
}

var registry = map[string]func() Normalizer{}

// Register makes a normalizer constructor available under the given format
// name. Called from init.
func Register(format string, constructor func() Normalizer) {
	registry[format] = constructor
}

// New returns a normalizer for the given format name.
func New(format string) (Normalizer, error) {
	constructor, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrUnrecognizedFormat, format)
	}
	return constructor(), nil
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
