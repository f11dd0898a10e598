package fixture

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/langdrill/internal/exercise"
)

// Sample fixtures, laid out as data/<section>/<slug>.json.
//
//go:embed data
var sampleData embed.FS

// Catalog holds the parsed records for every registered kind.
type Catalog struct {
	registry *exercise.Registry
	records  map[string][]*exercise.Record
}

// LoadEmbedded loads the sample fixtures compiled into the binary.
func LoadEmbedded(reg *exercise.Registry) (*Catalog, error) {
	sub, err := fs.Sub(sampleData, "data")
	if err != nil {
		return nil, err
	}
	return Load(reg, sub)
}

// LoadDir loads fixtures from dir using the same layout as the embedded data.
func LoadDir(reg *exercise.Registry, dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures dir: %s is not a directory", dir)
	}
	return Load(reg, os.DirFS(dir))
}

// Load reads <kind id>.json for every kind in reg. A kind without a file
// simply has no records. The returned catalog is always usable; the error,
// when non-nil, joins every ParseError encountered.
func Load(reg *exercise.Registry, fsys fs.FS) (*Catalog, error) {
	c := &Catalog{registry: reg, records: make(map[string][]*exercise.Record)}

	var errs []error
	for _, kind := range reg.All() {
		data, err := fs.ReadFile(fsys, kind.ID+".json")
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", kind.ID, err))
			continue
		}
		recs, err := ParseAll(kind, data)
		if err != nil {
			errs = append(errs, err)
		}
		c.records[kind.ID] = recs
	}
	return c, errors.Join(errs...)
}

// Registry returns the kind registry the catalog was loaded against.
func (c *Catalog) Registry() *exercise.Registry {
	return c.registry
}

// Records returns the records for a kind in file order.
func (c *Catalog) Records(kindID string) []*exercise.Record {
	return c.records[kindID]
}

// Record looks up one record by kind and ID.
func (c *Catalog) Record(kindID string, id int) (*exercise.Record, bool) {
	for _, r := range c.records[kindID] {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Count returns the number of records loaded for a kind.
func (c *Catalog) Count(kindID string) int {
	return len(c.records[kindID])
}

// ParseErrors flattens a joined load error into its ParseErrors.
func ParseErrors(err error) []*ParseError {
	switch e := err.(type) {
	case *ParseError:
		return []*ParseError{e}
	case interface{ Unwrap() []error }:
		var out []*ParseError
		for _, inner := range e.Unwrap() {
			out = append(out, ParseErrors(inner)...)
		}
		return out
	}
	return nil
}
