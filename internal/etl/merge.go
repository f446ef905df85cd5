package etl

import (
	"database/sql"
	"sort"
)

// Record is one row of the joined dataset. Fields is NULL throughout when the
// id appears only in the categories file; Categories is NULL when it appears
// only in the messages file.
type Record struct {
	ID         int64
	Fields     []sql.NullString
	Categories sql.NullString
}

// Merged is the outer join of a MessageSet and its category rows.
type Merged struct {
	MessageColumns []string
	Records        []Record
}

// Merge performs a full outer join on id. Ids matching several rows on either
// side produce every combination. Records are ordered by id, then by message
// order, then by category order.
func Merge(ms *MessageSet, cats []CategoryRow) *Merged {
	byIDMsg := make(map[int64][]MessageRow)
	byIDCat := make(map[int64][]CategoryRow)
	var ids []int64
	seen := make(map[int64]bool)

	for _, r := range ms.Rows {
		byIDMsg[r.ID] = append(byIDMsg[r.ID], r)
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	for _, c := range cats {
		byIDCat[c.ID] = append(byIDCat[c.ID], c)
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := &Merged{MessageColumns: append([]string(nil), ms.Columns...)}
	width := len(ms.Columns)

	for _, id := range ids {
		msgs := byIDMsg[id]
		cs := byIDCat[id]

		switch {
		case len(msgs) == 0:
			for _, c := range cs {
				out.Records = append(out.Records, Record{
					ID:         id,
					Fields:     make([]sql.NullString, width),
					Categories: sql.NullString{String: c.Raw, Valid: true},
				})
			}
		case len(cs) == 0:
			for _, m := range msgs {
				out.Records = append(out.Records, Record{ID: id, Fields: toNullStrings(m.Fields, width)})
			}
		default:
			for _, m := range msgs {
				for _, c := range cs {
					out.Records = append(out.Records, Record{
						ID:         id,
						Fields:     toNullStrings(m.Fields, width),
						Categories: sql.NullString{String: c.Raw, Valid: true},
					})
				}
			}
		}
	}
	return out
}

// toNullStrings maps empty CSV cells to NULL.
func toNullStrings(fields []string, width int) []sql.NullString {
	out := make([]sql.NullString, width)
	for i := 0; i < width && i < len(fields); i++ {
		out[i] = sql.NullString{String: fields[i], Valid: fields[i] != ""}
	}
	return out
}
