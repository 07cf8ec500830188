package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// LoadSpeciesCSV reads species rows from a spreadsheet export.
// Columns follow the csv tags on Species; list columns use '|' separators.
func LoadSpeciesCSV(r io.Reader) ([]*Species, error) {
	var rows []*Species
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing species csv: %w", err)
	}
	return rows, nil
}

// LoadSpeciesCSVFile opens path and reads species rows from it.
func LoadSpeciesCSVFile(path string) ([]*Species, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening species csv: %w", err)
	}
	defer f.Close()

	rows, err := LoadSpeciesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// WriteSpeciesCSV writes every species in declaration order with a header row.
func (c *Catalog) WriteSpeciesCSV(w io.Writer) error {
	if err := gocsv.Marshal(c.AllSpecies(), w); err != nil {
		return fmt.Errorf("writing species csv: %w", err)
	}
	return nil
}
