package indexer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CatalogEntry is one row of the source CSV, formatted as an embeddable
// document. Entries are immutable once loaded; their lifecycle is bound
// to the offline build, not the serving path.
type CatalogEntry struct {
	Title    string
	Document string
}

// titleColumns are the header names recognized as the entry title.
var titleColumns = []string{"name", "title", "anime_name"}

// LoadCatalog reads the catalog CSV and formats one document per row as
// "column: value" lines, the layout the embeddings are built from.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog CSV %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	titleIdx := -1
	for i, column := range header {
		for _, candidate := range titleColumns {
			if strings.EqualFold(column, candidate) {
				titleIdx = i
				break
			}
		}
		if titleIdx >= 0 {
			break
		}
	}

	entries := []CatalogEntry{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV record")
		}

		var doc strings.Builder
		for i, value := range record {
			if i >= len(header) {
				break
			}
			fmt.Fprintf(&doc, "%s: %s\n", header[i], strings.TrimSpace(value))
		}

		entry := CatalogEntry{Document: strings.TrimRight(doc.String(), "\n")}
		if titleIdx >= 0 && titleIdx < len(record) {
			entry.Title = strings.TrimSpace(record[titleIdx])
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
