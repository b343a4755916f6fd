package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config, e.g. "storage.db.dsn".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var (
	knownEncodings = []string{"", "utf-8", "utf8", "latin1", "latin-1", "iso-8859-1", "windows-1252", "cp1252"}
	knownStorage   = []string{"sqlite", "postgres", "postgresql", "mysql", "mssql", "sqlserver"}
)

// ValidatePipeline lints p without mutating it.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels metrics and log lines"})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateOutput(p.Output)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime, p.Report)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{SeverityError, "source.file.path", "file source requires a non-empty path"})
		}
	case "http":
		if !IsURL(s.HTTP.URL) {
			issues = append(issues, Issue{SeverityError, "source.http.url", fmt.Sprintf("http source requires an http(s) URL, got %q", s.HTTP.URL)})
		}
		if s.HTTP.TimeoutSeconds < 0 || s.HTTP.MaxRetries < 0 {
			issues = append(issues, Issue{SeverityError, "source.http", "timeout_seconds and max_retries must not be negative"})
		}
		if s.HTTP.InsecureSkipVerify {
			issues = append(issues, Issue{SeverityWarning, "source.http.insecure_skip_verify", "TLS verification is disabled"})
		}
	case "":
		issues = append(issues, Issue{SeverityError, "source.kind", "source.kind must not be empty"})
	default:
		issues = append(issues, Issue{SeverityError, "source.kind", fmt.Sprintf("unknown source kind %q; want file or http", s.Kind)})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	if p.Kind != "csv" {
		return append(issues, Issue{SeverityError, "parser.kind", fmt.Sprintf("unsupported parser kind %q; want csv", p.Kind)})
	}
	if c, ok := p.Options["comma"]; ok {
		s, isString := c.(string)
		if !isString || utf8.RuneCountInString(s) != 1 {
			issues = append(issues, Issue{SeverityError, "parser.options.comma", "comma must be a single character"})
		} else if s == "\"" || s == "\n" || s == "\r" {
			issues = append(issues, Issue{SeverityError, "parser.options.comma", fmt.Sprintf("%q cannot be used as a delimiter", s)})
		}
	}
	enc := strings.ToLower(strings.TrimSpace(p.Options.String("encoding", "")))
	if !contains(knownEncodings, enc) {
		issues = append(issues, Issue{SeverityError, "parser.options.encoding", fmt.Sprintf("unsupported encoding %q", enc)})
	}
	return issues
}

func validateOutput(o Output) []Issue {
	var issues []Issue
	if strings.TrimSpace(o.Path) == "" {
		issues = append(issues, Issue{SeverityError, "output.path", "output.path must not be empty"})
	}
	switch strings.ToLower(o.Format) {
	case "", "csv", "parquet":
	default:
		issues = append(issues, Issue{SeverityError, "output.format", fmt.Sprintf("unknown output format %q; want csv or parquet", o.Format)})
	}
	if o.Format != "" && strings.EqualFold(filepath.Ext(o.Path), ".parquet") != strings.EqualFold(o.Format, "parquet") {
		issues = append(issues, Issue{SeverityWarning, "output.format",
			fmt.Sprintf("format %q does not match the extension of %s", o.Format, o.Path)})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}
	if !contains(knownStorage, strings.ToLower(s.Kind)) {
		issues = append(issues, Issue{SeverityError, "storage.kind", fmt.Sprintf("unknown storage kind %q", s.Kind)})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.dsn", "storage.db.dsn must not be empty"})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.table", "storage.db.table must not be empty"})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, "storage.db.batch_size", "batch_size must not be negative"})
	} else if s.DB.BatchSize == 0 {
		issues = append(issues, Issue{SeverityWarning, "storage.db.batch_size", "batch_size is 0; the default is used"})
	}
	return issues
}

func validateRuntime(r RuntimeConfig, rep ReportConfig) []Issue {
	var issues []Issue
	if r.TransformWorkers < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.transform_workers", "transform_workers must not be negative"})
	}
	if rep.Examples < 0 {
		issues = append(issues, Issue{SeverityError, "report.examples", "examples must not be negative"})
	}
	if rep.TopGenres < 0 {
		issues = append(issues, Issue{SeverityError, "report.top_genres", "top_genres must not be negative"})
	}
	return issues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
