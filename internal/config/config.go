// Package config loads run configuration from a YAML file with environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/larose/qryeval/search/parser"
	"github.com/larose/qryeval/search/query"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration of a batch run.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Run       RunConfig       `yaml:"run"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type IndexConfig struct {
	Path string `yaml:"path"`
}

// RetrievalConfig selects the retrieval model and its parameters. Only the
// parameters of the selected model are used.
type RetrievalConfig struct {
	Model           string      `yaml:"model"`
	DefaultOperator string      `yaml:"defaultOperator"`
	BM25            BM25Config  `yaml:"bm25"`
	Indri           IndriConfig `yaml:"indri"`
}

type BM25Config struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
	K3 float64 `yaml:"k3"`
}

type IndriConfig struct {
	Mu     float64 `yaml:"mu"`
	Lambda float64 `yaml:"lambda"`
}

// RunConfig controls the batch driver. A zero QueryTimeout disables the
// per-query deadline.
type RunConfig struct {
	QueryFile    string        `yaml:"queryFile"`
	OutputFile   string        `yaml:"outputFile"`
	RunId        string        `yaml:"runId"`
	OutputLength int           `yaml:"outputLength"`
	Workers      int           `yaml:"workers"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig names the Prometheus textfile written at the end of a run.
// An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment
// variable overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, query.Errorf(query.ErrConfiguration, "parsing config file %s: %v", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Path: "index",
		},
		Retrieval: RetrievalConfig{
			Model:           "bm25",
			DefaultOperator: parser.DefaultOperator,
			BM25: BM25Config{
				K1: query.DefaultBM25K1,
				B:  query.DefaultBM25B,
				K3: query.DefaultBM25K3,
			},
			Indri: IndriConfig{
				Mu:     query.DefaultIndriMu,
				Lambda: query.DefaultIndriLambda,
			},
		},
		Run: RunConfig{
			QueryFile:    "queries.txt",
			OutputFile:   "results.teIn",
			RunId:        "run-1",
			OutputLength: 100,
			Workers:      4,
			QueryTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnvOverrides reads QE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("QE_INDEX_PATH"); v != "" {
		cfg.Index.Path = v
	}
	if v := os.Getenv("QE_RETRIEVAL_MODEL"); v != "" {
		cfg.Retrieval.Model = v
	}
	if v := os.Getenv("QE_RETRIEVAL_DEFAULT_OPERATOR"); v != "" {
		cfg.Retrieval.DefaultOperator = v
	}
	if err := floatEnv("QE_BM25_K1", &cfg.Retrieval.BM25.K1); err != nil {
		return err
	}
	if err := floatEnv("QE_BM25_B", &cfg.Retrieval.BM25.B); err != nil {
		return err
	}
	if err := floatEnv("QE_BM25_K3", &cfg.Retrieval.BM25.K3); err != nil {
		return err
	}
	if err := floatEnv("QE_INDRI_MU", &cfg.Retrieval.Indri.Mu); err != nil {
		return err
	}
	if err := floatEnv("QE_INDRI_LAMBDA", &cfg.Retrieval.Indri.Lambda); err != nil {
		return err
	}
	if v := os.Getenv("QE_RUN_QUERY_FILE"); v != "" {
		cfg.Run.QueryFile = v
	}
	if v := os.Getenv("QE_RUN_OUTPUT_FILE"); v != "" {
		cfg.Run.OutputFile = v
	}
	if v := os.Getenv("QE_RUN_ID"); v != "" {
		cfg.Run.RunId = v
	}
	if err := intEnv("QE_RUN_OUTPUT_LENGTH", &cfg.Run.OutputLength); err != nil {
		return err
	}
	if err := intEnv("QE_RUN_WORKERS", &cfg.Run.Workers); err != nil {
		return err
	}
	if v := os.Getenv("QE_RUN_QUERY_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return query.Errorf(query.ErrConfiguration, "QE_RUN_QUERY_TIMEOUT: %v", err)
		}
		cfg.Run.QueryTimeout = timeout
	}
	if v := os.Getenv("QE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("QE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("QE_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	return nil
}

func floatEnv(name string, target *float64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return query.Errorf(query.ErrConfiguration, "%s: %v", name, err)
	}
	*target = f
	return nil
}

func intEnv(name string, target *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return query.Errorf(query.ErrConfiguration, "%s: %v", name, err)
	}
	*target = i
	return nil
}

// Validate reports every invalid setting, joined. Each error wraps
// query.ErrInvalidParameter.
func (c *Config) Validate() error {
	var errs []error

	if c.Index.Path == "" {
		errs = append(errs, query.NewError(query.ErrInvalidParameter, "index.path is required"))
	}
	if _, err := c.Retrieval.RetrievalModel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := parser.New(nil, c.Retrieval.DefaultOperator); err != nil {
		errs = append(errs, err)
	}
	if c.Run.QueryFile == "" {
		errs = append(errs, query.NewError(query.ErrInvalidParameter, "run.queryFile is required"))
	}
	if c.Run.OutputFile == "" {
		errs = append(errs, query.NewError(query.ErrInvalidParameter, "run.outputFile is required"))
	}
	if c.Run.RunId == "" || strings.ContainsFunc(c.Run.RunId, isSpace) {
		errs = append(errs, query.Errorf(query.ErrInvalidParameter, "run.runId must be a single non-empty word, got %q", c.Run.RunId))
	}
	if c.Run.OutputLength <= 0 {
		errs = append(errs, query.Errorf(query.ErrInvalidParameter, "run.outputLength must be > 0, got %d", c.Run.OutputLength))
	}
	if c.Run.Workers <= 0 {
		errs = append(errs, query.Errorf(query.ErrInvalidParameter, "run.workers must be > 0, got %d", c.Run.Workers))
	}
	if c.Run.QueryTimeout < 0 {
		errs = append(errs, query.Errorf(query.ErrInvalidParameter, "run.queryTimeout must be >= 0, got %s", c.Run.QueryTimeout))
	}

	return errors.Join(errs...)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// RetrievalModel builds the configured retrieval model.
func (r RetrievalConfig) RetrievalModel() (query.Model, error) {
	switch strings.ToLower(strings.TrimSpace(r.Model)) {
	case "bm25":
		return query.NewBM25(r.BM25.K1, r.BM25.B, r.BM25.K3)
	case "indri":
		return query.NewIndri(r.Indri.Mu, r.Indri.Lambda)
	default:
		return query.ParseModel(r.Model)
	}
}
