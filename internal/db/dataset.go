package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/banshee-data/disaster-response/internal/etl"
	"github.com/banshee-data/disaster-response/internal/monitoring"
)

// DefaultTable is the table the ETL stage writes and training reads.
const DefaultTable = "messages"

const insertBatchLog = 10000

// ReplaceTable drops table (if present) and recreates it from ds inside a
// single transaction, so a failed run leaves the previous contents intact.
// The schema is id INTEGER, one TEXT column per message column and one
// INTEGER column per category.
func (db *DB) ReplaceTable(ctx context.Context, table string, ds *etl.Dataset) error {
	if table == "" {
		return fmt.Errorf("table name is empty")
	}

	cols := make([]string, 0, 1+len(ds.MessageColumns)+len(ds.Categories))
	defs := make([]string, 0, cap(cols))
	cols = append(cols, quoteIdent("id"))
	defs = append(defs, quoteIdent("id")+" INTEGER")
	for _, c := range ds.MessageColumns {
		cols = append(cols, quoteIdent(c))
		defs = append(defs, quoteIdent(c)+" TEXT")
	}
	for _, c := range ds.Categories {
		cols = append(cols, quoteIdent(c))
		defs = append(defs, quoteIdent(c)+" INTEGER")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(table), strings.Join(defs, ",\n\t"))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(cols, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(cols))
	for i, r := range ds.Rows {
		args[0] = r.ID
		for j, f := range r.Fields {
			args[1+j] = f
		}
		off := 1 + len(ds.MessageColumns)
		for j, v := range r.Labels {
			args[off+j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d (id %d): %w", i, r.ID, err)
		}
		if (i+1)%insertBatchLog == 0 {
			monitoring.Debugf("inserted %d/%d rows into %s", i+1, len(ds.Rows), table)
		}
	}

	return tx.Commit()
}

type columnInfo struct {
	name    string
	integer bool
}

func (db *DB) tableColumns(ctx context.Context, table string) ([]columnInfo, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, columnInfo{
			name:    name,
			integer: strings.Contains(strings.ToUpper(ctype), "INT"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return cols, nil
}

// LoadDataset reads a table written by ReplaceTable (or any table of the
// same shape). Integer columns other than id are categories; the rest
// are message columns. A related value of 2 is read as 1.
func (db *DB) LoadDataset(ctx context.Context, table string) (*etl.Dataset, error) {
	cols, err := db.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	ds := &etl.Dataset{}
	idIdx := -1
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.name)
		switch {
		case c.name == "id":
			idIdx = i
		case c.integer:
			ds.Categories = append(ds.Categories, c.name)
		default:
			ds.MessageColumns = append(ds.MessageColumns, c.name)
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("table %s: %w: id", table, etl.ErrMissingColumn)
	}
	if _, err := ds.Texts(etl.MessageColumn); err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     sql.NullInt64
			fields = make([]sql.NullString, len(ds.MessageColumns))
			labels = make([]sql.NullInt64, len(ds.Categories))
			dest   = make([]interface{}, len(cols))
		)
		fi, li := 0, 0
		for i, c := range cols {
			switch {
			case i == idIdx:
				dest[i] = &id
			case c.integer:
				dest[i] = &labels[li]
				li++
			default:
				dest[i] = &fields[fi]
				fi++
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := etl.CleanRow{ID: id.Int64, Fields: fields, Labels: make([]int, len(labels))}
		for j, l := range labels {
			v := int(l.Int64)
			if ds.Categories[j] == etl.RelatedCategory && v == 2 {
				v = 1
			}
			row.Labels[j] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

// CountRows returns the number of rows in table.
func (db *DB) CountRows(ctx context.Context, table string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n)
	return n, err
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
