package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/banshee-data/disaster-response/internal/classifier"
	"github.com/banshee-data/disaster-response/internal/config"
	"github.com/banshee-data/disaster-response/internal/db"
	"github.com/banshee-data/disaster-response/internal/etl"
	"github.com/banshee-data/disaster-response/internal/fsutil"
	"github.com/banshee-data/disaster-response/internal/gridsearch"
	"github.com/banshee-data/disaster-response/internal/model"
	"github.com/banshee-data/disaster-response/internal/monitoring"
	"github.com/banshee-data/disaster-response/internal/report"
	"github.com/banshee-data/disaster-response/internal/timeutil"
)

type options struct {
	databasePath string
	modelPath    string
	configPath   string
	reportPNG    string
	reportHTML   string

	ngramMax string
	maxDF    string
	useIDF   string
	seed     int64
	seedSet  bool

	clock timeutil.Clock
}

// grid applies the command line overrides to the configured grid.
func (o options) grid(cfg *config.TrainingConfig) (gridsearch.Grid, error) {
	g, err := cfg.GetGrid()
	if err != nil {
		return g, err
	}
	ngrams, err := gridsearch.ParseIntParamList(o.ngramMax)
	if err != nil {
		return g, fmt.Errorf("--ngram-max: %w", err)
	}
	if ngrams != nil {
		g.NGramMax = ngrams
	}
	maxDF, err := gridsearch.ParseParamList(o.maxDF)
	if err != nil {
		return g, fmt.Errorf("--max-df: %w", err)
	}
	if maxDF != nil {
		g.MaxDF = maxDF
	}
	useIDF, err := gridsearch.ParseBoolList(o.useIDF)
	if err != nil {
		return g, fmt.Errorf("--use-idf: %w", err)
	}
	if useIDF != nil {
		g.UseIDF = useIDF
	}
	return g, g.Validate()
}

func run(ctx context.Context, out io.Writer, o options) error {
	clock := timeutil.OrReal(o.clock)
	started := clock.Now()

	cfg := config.EmptyTrainingConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadTrainingConfig(o.configPath); err != nil {
			return err
		}
	}
	if o.seedSet {
		cfg.Seed = &o.seed
	}
	grid, err := o.grid(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Loading data...\n    DATABASE: %s\n", o.databasePath)
	database, err := db.OpenExistingDB(o.databasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	ds, err := database.LoadDataset(ctx, cfg.GetTable())
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	texts, err := ds.Texts(etl.MessageColumn)
	if err != nil {
		return err
	}
	y := ds.LabelMatrix()
	if y == nil {
		return fmt.Errorf("table %s has no labelled rows", cfg.GetTable())
	}

	// Without a seed the split changes on every run and CV folds stay in
	// table order.
	var cvRng *rand.Rand
	splitRng := rand.New(rand.NewSource(clock.Now().UnixNano()))
	if seed, ok := cfg.GetSeed(); ok {
		splitRng = rand.New(rand.NewSource(seed))
		cvRng = rand.New(rand.NewSource(seed + 1))
	}
	split, err := gridsearch.TrainTestSplit(len(texts), cfg.GetTestSize(), splitRng)
	if err != nil {
		return err
	}
	docs := classifier.TokenizeAll(texts)
	trainDocs, testDocs := gridsearch.SelectDocs(docs, split.Train), gridsearch.SelectDocs(docs, split.Test)
	yTrain, yTest := gridsearch.SelectRows(y, split.Train), gridsearch.SelectRows(y, split.Test)
	monitoring.Logf("loaded %d messages with %d categories: %d train, %d test",
		len(texts), len(ds.Categories), len(split.Train), len(split.Test))

	fmt.Fprintln(out, "Building model...")
	candidates, err := grid.Expand()
	if err != nil {
		return err
	}
	folds, err := gridsearch.KFold(len(trainDocs), cfg.GetCVFolds(), cvRng)
	if err != nil {
		return err
	}
	boost := cfg.GetBoosting()
	search := &gridsearch.Search{
		Folds:   folds,
		Workers: cfg.GetWorkers(),
		Fit:     gridsearch.PipelineFit(trainDocs, yTrain, boost),
		Clock:   clock,
	}

	fmt.Fprintln(out, "Training model...")
	results, err := search.Run(ctx, candidates)
	if err != nil {
		return fmt.Errorf("grid search: %w", err)
	}
	best, err := gridsearch.Best(results)
	if err != nil {
		return err
	}
	monitoring.Logf("best params %s (mean subset accuracy %.4f, std %.4f)", best.Params, best.MeanScore, best.StdScore)

	pipeline := classifier.NewPipeline(best.Params, boost)
	if err := pipeline.FitTokens(trainDocs, yTrain); err != nil {
		return fmt.Errorf("refit best params: %w", err)
	}

	fmt.Fprintln(out, "Evaluating model...")
	pred, err := pipeline.PredictTokens(testDocs)
	if err != nil {
		return err
	}
	ev, err := report.Evaluate(yTest, pred, ds.Categories)
	if err != nil {
		return err
	}
	if err := report.WriteTable(out, ev); err != nil {
		return err
	}
	if o.reportPNG != "" {
		if err := report.WritePNG(o.reportPNG, ev); err != nil {
			return fmt.Errorf("write %s: %w", o.reportPNG, err)
		}
	}
	if o.reportHTML != "" {
		if err := writeHTML(o.reportHTML, ev, clock.Now()); err != nil {
			return fmt.Errorf("write %s: %w", o.reportHTML, err)
		}
	}

	fmt.Fprintf(out, "Saving model...\n    MODEL: %s\n", o.modelPath)
	artifact := model.New(pipeline, ds.Categories, results, clock.Now())
	artifact.MeanF1 = ev.MeanF1()
	if err := model.Save(fsutil.OSFileSystem{}, o.modelPath, artifact); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	params, err := json.Marshal(best.Params)
	if err != nil {
		return err
	}
	id, err := database.RecordTrainingRun(ctx, db.TrainingRun{
		Table:          cfg.GetTable(),
		ModelPath:      o.modelPath,
		TrainRows:      len(split.Train),
		TestRows:       len(split.Test),
		Candidates:     len(candidates),
		Folds:          len(folds),
		BestParamsJSON: string(params),
		BestCVScore:    best.MeanScore,
		MeanF1:         artifact.MeanF1,
		Started:        started,
		Finished:       clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	monitoring.Logf("training run %s finished in %s", id, clock.Since(started).Round(time.Millisecond))

	fmt.Fprintln(out, "Trained model saved!")
	return nil
}

func writeHTML(path string, ev *report.Evaluation, generated time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteHTML(f, ev, generated); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
