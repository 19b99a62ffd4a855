// Package csvspec loads job descriptors from a CSV file with the columns
// relevance_language, audio_num and search_keywords.
package csvspec

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/logging"
)

// Column names.
const (
	ColumnLanguage = "relevance_language"
	ColumnCount    = "audio_num"
	ColumnQuery    = "search_keywords"
)

// RowError describes a row that was skipped.
type RowError struct {
	Line int
	Row  []string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d %v: %v", e.Line, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Source implements ports.JobSpecSource for a CSV file on disk.
type Source struct {
	Path   string
	logger *logging.Sink
}

// NewSource creates a Source reading path.
func NewSource(path string, logger *logging.Sink) *Source {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Source{Path: path, logger: logger}
}

// Load reads the job specs. It never fails: a missing or unreadable file, or
// a file without a single valid row, yields the single fallback job.
func (s *Source) Load(ctx context.Context) []domain.JobDescriptor {
	file, err := os.Open(s.Path)
	if err != nil {
		s.logger.Printf("WARN: failed to read job spec %s: %v", s.Path, err)
		return s.fallback()
	}
	defer file.Close()

	jobs, skipped, err := Parse(file)
	for _, rowErr := range skipped {
		s.logger.Printf("WARN: skipping invalid job spec row %s", rowErr.Error())
	}
	if err != nil {
		s.logger.Printf("WARN: failed to parse job spec %s: %v", s.Path, err)
		return s.fallback()
	}
	if len(jobs) == 0 {
		s.logger.Printf("WARN: no valid job spec rows in %s", s.Path)
		return s.fallback()
	}
	return jobs
}

func (s *Source) fallback() []domain.JobDescriptor {
	job := domain.FallbackJob()
	s.logger.Printf("WARN: %v, using language=%s count=%d", domain.ErrConfigDegraded, job.Language, job.TargetCount)
	return []domain.JobDescriptor{job}
}

// Parse decodes CSV rows into job descriptors. Rows whose count is not a
// positive integer, and records the CSV reader rejects, are returned in
// skipped rather than failing the parse. Stray quotes inside unquoted cells
// are kept as literal text. Only a read error or an unreadable header
// returns an error.
func Parse(r io.Reader) (jobs []domain.JobDescriptor, skipped []*RowError, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index := columnIndex(header)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped = append(skipped, &RowError{Line: parseErr.StartLine, Row: record, Err: err})
			continue
		}
		if err != nil {
			return nil, skipped, err
		}
		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		job, err := parseRow(record, index)
		if err != nil {
			skipped = append(skipped, &RowError{Line: line, Row: record, Err: err})
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, skipped, nil
}

func parseRow(record []string, index map[string]int) (domain.JobDescriptor, error) {
	job := domain.JobDescriptor{
		Language:    domain.DefaultLanguage,
		TargetCount: domain.DefaultTargetCount,
	}

	if v, ok := field(record, index, ColumnLanguage); ok {
		job.Language = strings.ToUpper(v)
	}
	if v, ok := field(record, index, ColumnCount); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return job, fmt.Errorf("%s: %w", ColumnCount, err)
		}
		if n <= 0 {
			return job, fmt.Errorf("%s: must be positive, got %d", ColumnCount, n)
		}
		job.TargetCount = n
	}
	if v, ok := field(record, index, ColumnQuery); ok {
		job.Query = v
	}
	return job, nil
}

// field returns the trimmed value of column name, reporting false when the
// column is absent from the header or blank in this row.
func field(record []string, index map[string]int, name string) (string, bool) {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return "", false
	}
	v := strings.TrimSpace(record[i])
	return v, v != ""
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
