// Package etl loads the raw disaster message and category CSV files, joins
// them on message id and expands the encoded category string into one binary
// label per category.
package etl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrBadCategory is returned for a category string that cannot be expanded.
	ErrBadCategory = errors.New("malformed category string")
)

// MessageRow is one line of the messages file. Fields are aligned with
// MessageSet.Columns.
type MessageRow struct {
	ID     int64
	Fields []string
}

// MessageSet holds the parsed messages file. Columns lists every header
// column except id, in file order.
type MessageSet struct {
	Columns []string
	Rows    []MessageRow
}

// CategoryRow is one line of the categories file.
type CategoryRow struct {
	ID  int64
	Raw string
}

// ReadMessages parses a messages CSV. The header must contain an id column;
// all other columns are carried through as text.
func ReadMessages(r io.Reader) (*MessageSet, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read messages header: %w", err)
	}
	idIdx := indexOf(header, "id")
	if idIdx < 0 {
		return nil, fmt.Errorf("messages: %w: id", ErrMissingColumn)
	}

	ms := &MessageSet{}
	for i, h := range header {
		if i != idIdx {
			ms.Columns = append(ms.Columns, cleanHeader(h))
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read messages line %d: %w", line, err)
		}
		id, err := parseID(rec[idIdx])
		if err != nil {
			return nil, fmt.Errorf("messages line %d: %w", line, err)
		}
		row := MessageRow{ID: id, Fields: make([]string, 0, len(rec)-1)}
		for i, v := range rec {
			if i != idIdx {
				row.Fields = append(row.Fields, v)
			}
		}
		ms.Rows = append(ms.Rows, row)
	}
	return ms, nil
}

// ReadCategories parses a categories CSV with id and categories columns.
func ReadCategories(r io.Reader) ([]CategoryRow, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read categories header: %w", err)
	}
	idIdx := indexOf(header, "id")
	if idIdx < 0 {
		return nil, fmt.Errorf("categories: %w: id", ErrMissingColumn)
	}
	catIdx := indexOf(header, "categories")
	if catIdx < 0 {
		return nil, fmt.Errorf("categories: %w: categories", ErrMissingColumn)
	}

	var rows []CategoryRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read categories line %d: %w", line, err)
		}
		id, err := parseID(rec[idIdx])
		if err != nil {
			return nil, fmt.Errorf("categories line %d: %w", line, err)
		}
		rows = append(rows, CategoryRow{ID: id, Raw: rec[catIdx]})
	}
	return rows, nil
}

// LoadFiles reads both CSV files and joins them on id.
func LoadFiles(messagesPath, categoriesPath string) (*Merged, error) {
	mf, err := os.Open(messagesPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	ms, err := ReadMessages(mf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", messagesPath, err)
	}

	cf, err := os.Open(categoriesPath)
	if err != nil {
		return nil, err
	}
	defer cf.Close()
	cats, err := ReadCategories(cf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", categoriesPath, err)
	}

	return Merge(ms, cats), nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	return cr
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if cleanHeader(h) == name {
			return i
		}
	}
	return -1
}

// cleanHeader strips whitespace and the UTF-8 BOM left by spreadsheet exports.
func cleanHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}
