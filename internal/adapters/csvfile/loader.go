package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

// Loader reads the raw campaign export. Anything wrong at this level
// (missing file, unreadable content, missing columns) is fatal.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new CSV loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Required header columns. The export also carries an id column, which
// is ignored along with anything else we do not recognize.
var requiredColumns = []string{"email", "time", "message", "details"}

// columnAliases maps alternate header spellings seen in the wild onto
// the canonical column names.
var columnAliases = map[string]string{
	"timestamp": "time",
	"event":     "message",
}

// Load reads every row of the export in file order. Line numbers are
// 1-based file lines (the header is line 1).
func (l *Loader) Load(path string) ([]core.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.InputError{Msg: fmt.Sprintf("cannot open CSV export %q", path), Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &core.InputError{Msg: "cannot read CSV header", Err: err}
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []core.RawRow
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &core.InputError{Msg: fmt.Sprintf("cannot read CSV row at line %d", line), Err: err}
		}

		rows = append(rows, core.RawRow{
			Line:      line,
			Email:     field(record, index["email"]),
			Timestamp: field(record, index["time"]),
			Event:     field(record, index["message"]),
			Details:   field(record, index["details"]),
		})
	}

	l.logger.Debug("CSV export loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)))

	return rows, nil
}

// mapColumns resolves the header into column indexes, failing with a
// message that names the first missing column.
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &core.InputError{Msg: fmt.Sprintf("CSV export is missing required column %q", col)}
		}
	}

	return index, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
