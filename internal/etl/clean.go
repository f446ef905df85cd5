package etl

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// RelatedCategory is the category whose out-of-range value 2 marks a row
// for removal.
const RelatedCategory = "related"

// CleanRow is one row of the cleaned dataset. Labels is aligned with
// Dataset.Categories and holds only 0 or 1.
type CleanRow struct {
	ID     int64
	Fields []sql.NullString
	Labels []int
}

// Dataset is the cleaned, label-expanded table persisted by the ETL stage
// and read back by training.
type Dataset struct {
	MessageColumns []string
	Categories     []string
	Rows           []CleanRow
}

// CleanStats counts what Clean removed.
type CleanStats struct {
	Input             int
	MissingCategories int
	DroppedRelated    int
	Duplicates        int
	Output            int
}

// Clean expands each record's category string into integer labels, drops
// records whose related label is 2, and removes exact duplicates keeping
// the first occurrence.
//
// Category names come from the first record carrying a category string.
// Records without one are dropped because they have no labels to train on.
func Clean(m *Merged) (*Dataset, CleanStats, error) {
	stats := CleanStats{Input: len(m.Records)}
	ds := &Dataset{MessageColumns: append([]string(nil), m.MessageColumns...)}

	var names []string
	for _, r := range m.Records {
		if hasCategories(r) {
			n, _, err := splitCategories(r.Categories.String)
			if err != nil {
				return nil, stats, fmt.Errorf("id %d: %w", r.ID, err)
			}
			names = n
			break
		}
	}
	ds.Categories = names
	relatedIdx := -1
	for i, n := range names {
		if n == RelatedCategory {
			relatedIdx = i
			break
		}
	}

	seen := make(map[string]struct{}, len(m.Records))
	for _, r := range m.Records {
		if !hasCategories(r) {
			stats.MissingCategories++
			continue
		}
		rowNames, values, err := splitCategories(r.Categories.String)
		if err != nil {
			return nil, stats, fmt.Errorf("id %d: %w", r.ID, err)
		}
		if err := sameNames(names, rowNames); err != nil {
			return nil, stats, fmt.Errorf("id %d: %w", r.ID, err)
		}

		if relatedIdx >= 0 && values[relatedIdx] == 2 {
			stats.DroppedRelated++
			continue
		}

		key := recordKey(r)
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		for i, v := range values {
			if v != 0 && v != 1 {
				return nil, stats, fmt.Errorf("id %d: %w: %s=%d", r.ID, ErrBadCategory, names[i], v)
			}
		}

		ds.Rows = append(ds.Rows, CleanRow{
			ID:     r.ID,
			Fields: append([]sql.NullString(nil), r.Fields...),
			Labels: values,
		})
	}

	stats.Output = len(ds.Rows)
	return ds, stats, nil
}

func hasCategories(r Record) bool {
	return r.Categories.Valid && strings.TrimSpace(r.Categories.String) != ""
}

// splitCategories expands "related-1;request-0;..." into names and values.
// The name is the text before the first '-', the value the final character.
func splitCategories(raw string) ([]string, []int, error) {
	items := strings.Split(strings.TrimSpace(raw), ";")
	names := make([]string, len(items))
	values := make([]int, len(items))
	for i, item := range items {
		name, _, ok := strings.Cut(item, "-")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("%w: item %q", ErrBadCategory, item)
		}
		v, err := strconv.Atoi(item[len(item)-1:])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: item %q", ErrBadCategory, item)
		}
		names[i] = name
		values[i] = v
	}
	return names, values, nil
}

func sameNames(want, got []string) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d categories, expected %d", ErrBadCategory, len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("%w: category %d is %q, expected %q", ErrBadCategory, i, got[i], want[i])
		}
	}
	return nil
}

// recordKey identifies a record for duplicate detection. NULL and empty
// fields are kept distinct.
func recordKey(r Record) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(r.ID, 10))
	for _, f := range r.Fields {
		b.WriteByte(0)
		if f.Valid {
			b.WriteString(strconv.Itoa(len(f.String)))
			b.WriteByte(':')
			b.WriteString(f.String)
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteByte(0)
	b.WriteString(r.Categories.String)
	return b.String()
}
