package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/disaster-response/internal/classifier"
	"github.com/banshee-data/disaster-response/internal/fsutil"
	"github.com/banshee-data/disaster-response/internal/gridsearch"
)

// DefaultConfigPath is the checked-in copy of the training defaults.
const DefaultConfigPath = "config/training.defaults.yaml"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// GridConfig lists the hyperparameter values to search. Each list may be
// omitted to keep its default.
type GridConfig struct {
	NGramRange []string  `json:"ngram_range,omitempty" yaml:"ngram_range,omitempty"` // "1,1", "1,2"
	MaxDF      []float64 `json:"max_df,omitempty" yaml:"max_df,omitempty"`
	UseIDF     []bool    `json:"use_idf,omitempty" yaml:"use_idf,omitempty"`
}

// TrainingConfig controls the training stage. A nil field means "use the
// default"; the Get* methods apply it.
type TrainingConfig struct {
	Table        *string     `json:"table,omitempty" yaml:"table,omitempty"`
	TestSize     *float64    `json:"test_size,omitempty" yaml:"test_size,omitempty"`
	CVFolds      *int        `json:"cv_folds,omitempty" yaml:"cv_folds,omitempty"`
	NEstimators  *int        `json:"n_estimators,omitempty" yaml:"n_estimators,omitempty"`
	LearningRate *float64    `json:"learning_rate,omitempty" yaml:"learning_rate,omitempty"`
	Workers      *int        `json:"workers,omitempty" yaml:"workers,omitempty"`
	Seed         *int64      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Grid         *GridConfig `json:"grid,omitempty" yaml:"grid,omitempty"`
}

// EmptyTrainingConfig returns a config with every field at its default.
func EmptyTrainingConfig() *TrainingConfig {
	return &TrainingConfig{}
}

// LoadTrainingConfig reads a .json, .yaml or .yml file from the OS filesystem.
func LoadTrainingConfig(path string) (*TrainingConfig, error) {
	return LoadTrainingConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadTrainingConfigFS reads and validates a config file from fsys. Fields
// omitted from the file keep their defaults.
func LoadTrainingConfigFS(fsys fsutil.FileSystem, path string) (*TrainingConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}
	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTrainingConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(cleanPath), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *TrainingConfig) Validate() error {
	if c.Table != nil && strings.TrimSpace(*c.Table) == "" {
		return fmt.Errorf("table must not be empty")
	}
	if c.TestSize != nil && (*c.TestSize <= 0 || *c.TestSize >= 1) {
		return fmt.Errorf("test_size must be between 0 and 1 (exclusive), got %g", *c.TestSize)
	}
	if c.CVFolds != nil && *c.CVFolds < 2 {
		return fmt.Errorf("cv_folds must be at least 2, got %d", *c.CVFolds)
	}
	if c.NEstimators != nil && *c.NEstimators < 1 {
		return fmt.Errorf("n_estimators must be positive, got %d", *c.NEstimators)
	}
	if c.LearningRate != nil && *c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %g", *c.LearningRate)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if _, err := c.GetGrid(); err != nil {
		return err
	}
	return nil
}

// GetTable returns the dataset table name (default "messages").
func (c *TrainingConfig) GetTable() string {
	if c.Table == nil {
		return "messages"
	}
	return *c.Table
}

// GetTestSize returns the held-out fraction (default 0.2).
func (c *TrainingConfig) GetTestSize() float64 {
	if c.TestSize == nil {
		return 0.2
	}
	return *c.TestSize
}

// GetCVFolds returns the number of cross-validation folds (default 5).
func (c *TrainingConfig) GetCVFolds() int {
	if c.CVFolds == nil {
		return 5
	}
	return *c.CVFolds
}

// GetBoosting returns the per-label ensemble settings.
func (c *TrainingConfig) GetBoosting() classifier.Boosting {
	b := classifier.Boosting{NEstimators: classifier.DefaultNEstimators, LearningRate: classifier.DefaultLearningRate}
	if c.NEstimators != nil {
		b.NEstimators = *c.NEstimators
	}
	if c.LearningRate != nil {
		b.LearningRate = *c.LearningRate
	}
	return b
}

// GetWorkers returns the grid search concurrency; 0 means every CPU.
func (c *TrainingConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// GetSeed returns the configured seed and whether one was set. Without a
// seed the split differs on every run.
func (c *TrainingConfig) GetSeed() (int64, bool) {
	if c.Seed == nil {
		return 0, false
	}
	return *c.Seed, true
}

// GetGrid merges the configured lists over gridsearch.DefaultGrid.
func (c *TrainingConfig) GetGrid() (gridsearch.Grid, error) {
	g := gridsearch.DefaultGrid()
	if c.Grid == nil {
		return g, nil
	}
	if len(c.Grid.NGramRange) > 0 {
		g.NGramMax = g.NGramMax[:0:0]
		for _, r := range c.Grid.NGramRange {
			n, err := gridsearch.ParseNGramRange(r)
			if err != nil {
				return g, err
			}
			g.NGramMax = append(g.NGramMax, n)
		}
	}
	if len(c.Grid.MaxDF) > 0 {
		g.MaxDF = c.Grid.MaxDF
	}
	if len(c.Grid.UseIDF) > 0 {
		g.UseIDF = c.Grid.UseIDF
	}
	return g, g.Validate()
}
