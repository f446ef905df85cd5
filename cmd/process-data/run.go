package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/banshee-data/disaster-response/internal/db"
	"github.com/banshee-data/disaster-response/internal/etl"
	"github.com/banshee-data/disaster-response/internal/monitoring"
	"github.com/banshee-data/disaster-response/internal/timeutil"
)

type options struct {
	messagesPath   string
	categoriesPath string
	databasePath   string
	table          string
	clock          timeutil.Clock
}

func run(ctx context.Context, out io.Writer, o options) error {
	clock := timeutil.OrReal(o.clock)
	started := clock.Now()

	fmt.Fprintf(out, "Loading data...\n    MESSAGES: %s\n    CATEGORIES: %s\n", o.messagesPath, o.categoriesPath)
	merged, err := etl.LoadFiles(o.messagesPath, o.categoriesPath)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	monitoring.Debugf("merged %d records with message columns %v", len(merged.Records), merged.MessageColumns)

	fmt.Fprintln(out, "Cleaning data...")
	ds, stats, err := etl.Clean(merged)
	if err != nil {
		return fmt.Errorf("clean data: %w", err)
	}
	monitoring.Logf("cleaned %d rows: dropped %d without categories, %d with related=2, %d duplicates; kept %d",
		stats.Input, stats.MissingCategories, stats.DroppedRelated, stats.Duplicates, stats.Output)

	fmt.Fprintf(out, "Saving data...\n    DATABASE: %s\n", o.databasePath)
	database, err := db.NewDB(o.databasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := database.ReplaceTable(ctx, o.table, ds); err != nil {
		return fmt.Errorf("save data: %w", err)
	}
	id, err := database.RecordETLRun(ctx, db.ETLRun{
		MessagesPath:   o.messagesPath,
		CategoriesPath: o.categoriesPath,
		Table:          o.table,
		Stats:          stats,
		Categories:     len(ds.Categories),
		Started:        started,
		Finished:       clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	monitoring.Logf("etl run %s finished in %s", id, clock.Since(started).Round(time.Millisecond))

	fmt.Fprintln(out, "Cleaned data saved to database!")
	return nil
}
