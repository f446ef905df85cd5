package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/disaster-response/internal/etl"
)

// ETLRun is one row of etl_runs.
type ETLRun struct {
	RunID          string
	MessagesPath   string
	CategoriesPath string
	Table          string
	Stats          etl.CleanStats
	Categories     int
	Started        time.Time
	Finished       time.Time
}

// TrainingRun is one row of training_runs.
type TrainingRun struct {
	RunID          string
	Table          string
	ModelPath      string
	TrainRows      int
	TestRows       int
	Candidates     int
	Folds          int
	BestParamsJSON string
	BestCVScore    float64
	MeanF1         float64
	Started        time.Time
	Finished       time.Time
}

// RecordETLRun stores run, assigning a RunID when it has none. The assigned
// id is returned.
func (db *DB) RecordETLRun(ctx context.Context, run ETLRun) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO etl_runs (
			run_id, messages_path, categories_path, table_name,
			input_rows, missing_categories, dropped_related, duplicates, output_rows,
			categories, started_unix_nanos, finished_unix_nanos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.MessagesPath, run.CategoriesPath, run.Table,
		run.Stats.Input, run.Stats.MissingCategories, run.Stats.DroppedRelated, run.Stats.Duplicates, run.Stats.Output,
		run.Categories, run.Started.UnixNano(), run.Finished.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("record etl run: %w", err)
	}
	return run.RunID, nil
}

// RecordTrainingRun stores run, assigning a RunID when it has none.
func (db *DB) RecordTrainingRun(ctx context.Context, run TrainingRun) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO training_runs (
			run_id, table_name, model_path, train_rows, test_rows,
			candidates, folds, best_params_json, best_cv_score, mean_f1,
			started_unix_nanos, finished_unix_nanos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Table, run.ModelPath, run.TrainRows, run.TestRows,
		run.Candidates, run.Folds, run.BestParamsJSON, run.BestCVScore, run.MeanF1,
		run.Started.UnixNano(), run.Finished.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("record training run: %w", err)
	}
	return run.RunID, nil
}

// ListTrainingRuns returns up to limit runs, newest first. limit <= 0 means
// no limit.
func (db *DB) ListTrainingRuns(ctx context.Context, limit int) ([]TrainingRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, table_name, model_path, train_rows, test_rows,
			candidates, folds, best_params_json, best_cv_score, mean_f1,
			started_unix_nanos, finished_unix_nanos
		FROM training_runs
		ORDER BY started_unix_nanos DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var (
			r                 TrainingRun
			started, finished int64
		)
		if err := rows.Scan(&r.RunID, &r.Table, &r.ModelPath, &r.TrainRows, &r.TestRows,
			&r.Candidates, &r.Folds, &r.BestParamsJSON, &r.BestCVScore, &r.MeanF1,
			&started, &finished); err != nil {
			return nil, err
		}
		r.Started = time.Unix(0, started)
		r.Finished = time.Unix(0, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
