package csvsink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// Extension is the output format expected by pulseview's csv importer.
const Extension = ".csv"

// NormalizePath appends Extension unless the path already carries it
// (matched case-insensitively, so "trace.CSV" is left alone). An existing
// different extension is kept and the csv one added after it. Idempotent.
func NormalizePath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// CSVSink writes decoded captures as comma-separated bit rows, one line per
// sample, no header. Column order is ascending channel index.
type CSVSink struct{}

func New() *CSVSink {
	return &CSVSink{}
}

func (s *CSVSink) Encode(samples []domain.RawSample, channels int, path string) error {
	if channels < 1 || channels > domain.MaxChannels {
		return fmt.Errorf("csv sink: invalid channel count %d", channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv sink: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, channels)
	for _, sample := range samples {
		bits := domain.DecodeBits(sample)
		for i := 0; i < channels; i++ {
			row[i] = strconv.Itoa(int(bits[i]))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv sink: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv sink: close %s: %w", path, err)
	}
	return nil
}

var _ ports.Encoder = (*CSVSink)(nil)
