package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"namestat/internal/config"
	"namestat/internal/model/naming"

	"go.uber.org/zap"
)

// TimestampLayout names the files written by the csv and json modes
const TimestampLayout = "2006-01-02_15:04:05"

// Reporter renders a naming report to a writer and, for csv and json, to a file
type Reporter struct {
	mode   string
	dir    string
	out    io.Writer
	now    func() time.Time
	logger *zap.Logger
}

func NewReporter(mode, dir string, out io.Writer, logger *zap.Logger) (*Reporter, error) {
	switch mode {
	case config.OutputConsole, config.OutputCSV, config.OutputJSON:
	default:
		return nil, fmt.Errorf("%w: unknown output %q", naming.ErrConfiguration, mode)
	}
	if dir == "" {
		dir = "."
	}
	return &Reporter{mode: mode, dir: dir, out: out, now: time.Now, logger: logger}, nil
}

// Write prints the listing and returns the path of the file written, if any
func (r *Reporter) Write(report *naming.Report) (string, error) {
	if err := WriteSummary(r.out, report); err != nil {
		return "", err
	}

	switch r.mode {
	case config.OutputConsole:
		return "", WriteEntries(r.out, report.Entries)
	case config.OutputCSV:
		if err := WriteEntries(r.out, report.Entries); err != nil {
			return "", err
		}
		return r.writeFile("csv", func(w io.Writer) error { return WriteCSV(w, report.Entries) })
	default:
		return r.writeFile("json", func(w io.Writer) error { return WriteJSON(w, report.Entries) })
	}
}

func (r *Reporter) writeFile(ext string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", r.dir, err)
	}
	path := filepath.Join(r.dir, FileName(ext, r.now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	r.logger.Info("Report written", zap.String("path", path), zap.String("format", ext))
	return path, nil
}

// FileName is output<timestamp>.<ext>
func FileName(ext string, t time.Time) string {
	return "output" + t.Format(TimestampLayout) + "." + ext
}

func WriteSummary(w io.Writer, report *naming.Report) error {
	_, err := fmt.Fprintf(w, "total %d words, %d is unique\n", report.TotalEntries(), report.DistinctWords)
	return err
}

func WriteEntries(w io.Writer, entries []naming.FrequencyEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "'%s': %d time(s)\n", e.Word, e.Count); err != nil {
			return err
		}
	}
	return nil
}

// WriteListing is the summary line followed by one line per entry
func WriteListing(w io.Writer, report *naming.Report) error {
	if err := WriteSummary(w, report); err != nil {
		return err
	}
	return WriteEntries(w, report.Entries)
}

func WriteCSV(w io.Writer, entries []naming.FrequencyEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"word", "count"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Word, strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes a word -> count object whose keys keep the display order
func WriteJSON(w io.Writer, entries []naming.FrequencyEntry) error {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := json.Marshal(e.Word)
		if err != nil {
			return err
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.WriteString(strconv.Itoa(e.Count))
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}
