package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jgoulah/usageledger/internal/metrics"
	"github.com/jgoulah/usageledger/pkg/models"
)

// Store is where parsed usage records are written
type Store interface {
	InsertUsageBatch(ctx context.Context, records []models.UsageRecord) (int64, error)
}

// Ingestor loads usage export files into the usage table
type Ingestor struct {
	store   Store
	columns Columns
	layouts []string
	logger  *zap.Logger
}

// Option configures an Ingestor
type Option func(*Ingestor)

// WithColumns overrides the expected header names
func WithColumns(c Columns) Option {
	return func(in *Ingestor) {
		in.columns = c
	}
}

// WithLayouts overrides the timestamp layouts
func WithLayouts(layouts []string) Option {
	return func(in *Ingestor) {
		if len(layouts) > 0 {
			in.layouts = layouts
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(in *Ingestor) {
		in.logger = l
	}
}

// New creates an Ingestor writing to store
func New(store Store, opts ...Option) *Ingestor {
	in := &Ingestor{
		store:   store,
		columns: DefaultColumns(),
		layouts: DefaultLayouts(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger = in.logger.Named("ingest")
	return in
}

// Result describes a completed ingestion
type Result struct {
	Path string
	Rows int64
}

// IngestFile parses every row of the file at path and inserts them in one
// batch. A single bad row aborts the whole file.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening usage file: %w", err)
	}
	defer f.Close()

	records, err := in.Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	in.logger.Debug("parsed usage file", zap.String("path", path), zap.Int("rows", len(records)))

	inserted, err := in.store.InsertUsageBatch(ctx, records)
	if err != nil {
		return Result{}, fmt.Errorf("storing usage records: %w", err)
	}

	metrics.RowsIngestedTotal.Add(float64(inserted))
	metrics.FilesIngestedTotal.Inc()
	in.logger.Info("ingested usage file", zap.String("path", path), zap.Int64("rows", inserted))

	return Result{Path: path, Rows: inserted}, nil
}

// Parse reads a usage export. The header row is checked against the column
// mapping before any data row is looked at.
func (in *Ingestor) Parse(r io.Reader) ([]models.UsageRecord, error) {
	br := bufio.NewReader(r)

	// UTF-8 BOM, as written by spreadsheet exports
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index, err := in.mapHeader(header)
	if err != nil {
		return nil, err
	}

	var records []models.UsageRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		record, err := in.parseRow(row, index, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// columnIndex holds the position of each required column in a row
type columnIndex struct {
	timepoint, cost, kwh, temp int
}

func (in *Ingestor) mapHeader(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		if _, dup := positions[names[i]]; !dup {
			positions[names[i]] = i
		}
	}

	var missing []string
	for _, required := range in.columns.Required() {
		if _, ok := positions[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, &MissingColumnsError{Missing: missing, Headers: names}
	}

	return columnIndex{
		timepoint: positions[in.columns.Timepoint],
		cost:      positions[in.columns.Cost],
		kwh:       positions[in.columns.KWh],
		temp:      positions[in.columns.Temp],
	}, nil
}

func (in *Ingestor) parseRow(row []string, idx columnIndex, line int) (models.UsageRecord, error) {
	var record models.UsageRecord

	field := func(pos int, column string) (string, error) {
		if pos >= len(row) || strings.TrimSpace(row[pos]) == "" {
			return "", &RowError{Line: line, Column: column, Err: ErrMissingValue}
		}
		return strings.TrimSpace(row[pos]), nil
	}

	raw, err := field(idx.timepoint, in.columns.Timepoint)
	if err != nil {
		return record, err
	}
	if record.Timepoint, err = parseTimepoint(raw, in.layouts); err != nil {
		return record, &RowError{Line: line, Column: in.columns.Timepoint, Value: raw, Err: err}
	}

	if raw, err = field(idx.cost, in.columns.Cost); err != nil {
		return record, err
	}
	if record.Cost, err = parseDecimal(raw); err != nil {
		return record, &RowError{Line: line, Column: in.columns.Cost, Value: raw, Err: err}
	}

	if raw, err = field(idx.kwh, in.columns.KWh); err != nil {
		return record, err
	}
	if record.KWh, err = parseDecimal(raw); err != nil {
		return record, &RowError{Line: line, Column: in.columns.KWh, Value: raw, Err: err}
	}

	if raw, err = field(idx.temp, in.columns.Temp); err != nil {
		return record, err
	}
	if record.Temp, err = parseTemp(raw); err != nil {
		return record, &RowError{Line: line, Column: in.columns.Temp, Value: raw, Err: err}
	}

	return record, nil
}

// parseTimepoint tries each layout in turn. Timestamps carrying a zone are
// converted to UTC; naive ones are kept as wall-clock time.
func parseTimepoint(s string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp format")
}

var decimalLimit = decimal.NewFromInt(100)

// parseDecimal reads a DECIMAL(4,2) value, rounding to cents
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	d = d.Round(2)
	if d.Abs().GreaterThanOrEqual(decimalLimit) {
		return decimal.Decimal{}, ErrOutOfRange
	}
	return d, nil
}

var (
	tempMax = decimal.NewFromInt(math.MaxInt)
	tempMin = decimal.NewFromInt(math.MinInt)
)

// parseTemp reads an integer temperature. Whole-number decimals such as
// "41.0" are accepted.
func parseTemp(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrOutOfRange
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, errors.New("invalid integer")
	}
	if d.GreaterThan(tempMax) || d.LessThan(tempMin) {
		return 0, ErrOutOfRange
	}
	return int(d.IntPart()), nil
}
