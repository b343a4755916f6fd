// Package config defines the JSON-serializable configuration of a cleaning
// run. A pipeline file is optional: Default returns a complete Pipeline, a
// file decoded by Load overrides it field by field, and ApplyEnv applies
// environment overrides on top.
//
// Example:
//
//	{
//	  "job":     "movies_clean",
//	  "source":  { "kind": "file", "file": { "path": "n_movies.csv" } },
//	  "parser":  { "kind": "csv", "options": { "comma": ",", "header_map": {} } },
//	  "output":  { "path": "n_movies_clean.csv", "format": "csv" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "movies.db", "table": "movies_clean", "auto_create_table": true } },
//	  "runtime": { "transform_workers": 1 },
//	  "report":  { "examples": 5, "top_genres": 10 }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvIn          = "MOVIESCLEAN_IN"
	EnvOut         = "MOVIESCLEAN_OUT"
	EnvStorageKind = "MOVIESCLEAN_STORAGE_KIND"
	EnvDSN         = "MOVIESCLEAN_DSN"
)

// Pipeline describes a full cleaning run.
type Pipeline struct {
	// Job labels metrics and log lines.
	Job string `json:"job"`

	Source  Source        `json:"source"`
	Parser  Parser        `json:"parser"`
	Output  Output        `json:"output"`
	Storage Storage       `json:"storage"`
	Runtime RuntimeConfig `json:"runtime"`
	Report  ReportConfig  `json:"report"`
}

// Source identifies the input. Kinds: "file" and "http".
type Source struct {
	Kind string     `json:"kind"`
	File SourceFile `json:"file"`
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL                string            `json:"url"`
	TimeoutSeconds     int               `json:"timeout_seconds"`
	MaxRetries         int               `json:"max_retries"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify"`
	Headers            map[string]string `json:"headers"`
}

// Location returns the path or URL the source reads from.
func (s Source) Location() string {
	if s.Kind == "http" {
		return s.HTTP.URL
	}
	return s.File.Path
}

// Parser selects how the raw input is read. The only kind is "csv"; its
// options are comma (string), trim_space (bool), encoding (string) and
// header_map (object).
type Parser struct {
	Kind    string  `json:"kind"`
	Options Options `json:"options"`
}

// Output configures the cleaned table file. Format is "csv" or "parquet";
// empty selects by the path's extension.
type Output struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// Storage configures the optional database sink. An empty Kind disables it.
type Storage struct {
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is passed to the backend driver unchanged.
	DSN string `json:"dsn"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table"`

	// AutoCreateTable creates the table from the output columns when it
	// does not exist.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize is the number of rows per CopyFrom call.
	BatchSize int `json:"batch_size"`
}

// RuntimeConfig controls concurrency.
type RuntimeConfig struct {
	TransformWorkers int `json:"transform_workers"`
}

// ReportConfig controls the summary printed after a run.
type ReportConfig struct {
	Examples  int `json:"examples"`
	TopGenres int `json:"top_genres"`
}

// Default returns the configuration used when no pipeline file is given.
func Default() Pipeline {
	return Pipeline{
		Job:     "movies_clean",
		Source:  Source{Kind: "file", File: SourceFile{Path: "n_movies.csv"}},
		Parser:  Parser{Kind: "csv", Options: Options{"comma": ","}},
		Output:  Output{Path: "n_movies_clean.csv", Format: "csv"},
		Storage: Storage{DB: DBConfig{Table: "movies_clean", AutoCreateTable: true, BatchSize: 1000}},
		Runtime: RuntimeConfig{TransformWorkers: 1},
		Report:  ReportConfig{Examples: 5, TopGenres: 10},
	}
}

// Load decodes the pipeline file at path over Default. Unknown fields are
// rejected so typos surface early.
func Load(path string) (Pipeline, error) {
	p := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return p, nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides p from the environment. An input starting with http://
// or https:// switches the source to the "http" kind; an output path resets
// the format so the extension decides.
func ApplyEnv(p *Pipeline, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvIn)); v != "" {
		SetInput(p, v)
	}
	if v := strings.TrimSpace(getenv(EnvOut)); v != "" {
		p.Output.Path = v
		p.Output.Format = ""
	}
	if v := strings.TrimSpace(getenv(EnvStorageKind)); v != "" {
		p.Storage.Kind = v
	}
	if v := strings.TrimSpace(getenv(EnvDSN)); v != "" {
		p.Storage.DB.DSN = v
	}
}

// SetInput points the source at loc, choosing the kind from its scheme.
func SetInput(p *Pipeline, loc string) {
	if IsURL(loc) {
		p.Source.Kind = "http"
		p.Source.HTTP.URL = loc
		return
	}
	p.Source.Kind = "file"
	p.Source.File.Path = loc
}

// IsURL reports whether loc is an http(s) URL.
func IsURL(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Options fetches typed values from a free-form JSON object, returning the
// default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Rune returns the first rune of the string value for key, or def when the
// key is missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if s, ok := o[key].(string); ok && s != "" {
		return []rune(s)[0]
	}
	return def
}

// StringMap returns the string-valued entries of the object at key. It
// returns an empty map when the key is missing or not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	switch m := o[key].(type) {
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				res[k] = s
			}
		}
	case map[string]string:
		for k, v := range m {
			res[k] = v
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null object to an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
