package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/codegrapher/graphers/internal/candidate"
	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/metrics"
	"github.com/google/uuid"
)

// ErrWrite marks failures of the output file, as opposed to the source.
var ErrWrite = errors.New("write report")

// Header is the first row of every report.
var Header = []string{"ID", "Full Name", "Email", "Address", "Education", "Phone Number", "Experience Years", "Skills"}

const (
	DefaultBatchSize = 1000
	DefaultFileName  = "report.csv"
	ContentType      = "text/csv"
)

// Source streams candidates in batches of at most batchSize.
type Source interface {
	Stream(ctx context.Context, batchSize int, fn func([]candidate.Candidate) error) error
}

// Uploader stores a finished report in object storage.
type Uploader interface {
	UploadReport(ctx context.Context, key, path string) error
}

// Exporter writes the whole candidate collection to a CSV file. The zero
// values of BatchSize and FileName fall back to the defaults.
type Exporter struct {
	Source    Source
	BatchSize int
	Dir       string
	FileName  string
	// UniqueNames gives every run its own report-<runID>.csv instead of
	// overwriting FileName.
	UniqueNames bool
	Uploader    Uploader
	History     History
}

// Result describes a completed export.
type Result struct {
	RunID     string
	Path      string
	Rows      int
	ObjectKey string
}

// Row renders one candidate. Missing values become empty strings.
func Row(c *candidate.Candidate) []string {
	years := ""
	if c.ExperienceYears != nil {
		years = strconv.FormatFloat(*c.ExperienceYears, 'f', -1, 64)
	}
	return []string{
		c.ID,
		c.FullName,
		c.Email,
		c.Address,
		c.Education,
		c.PhoneNumber,
		years,
		strings.Join(c.Skills, ", "),
	}
}

func (e *Exporter) batchSize() int {
	if e.BatchSize < 1 {
		return DefaultBatchSize
	}
	return e.BatchSize
}

func (e *Exporter) finalName(runID string) string {
	if e.UniqueNames {
		return "report-" + runID + ".csv"
	}
	if e.FileName == "" {
		return DefaultFileName
	}
	return e.FileName
}

func writeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrWrite, err)
}

// Export streams every candidate into a temporary file next to the final
// path and renames it into place once complete. On failure or cancellation
// the temporary file is closed and removed, so a partial report is never
// visible under the final name.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	run := &Run{RunID: res.RunID, Status: StatusRunning, StartedAt: start.UTC()}
	if e.History != nil {
		if err := e.History.Save(ctx, run); err != nil {
			logger.Warnf("export %s: record start: %v", res.RunID, err)
		}
	}

	err := e.write(ctx, res)

	outcome := StatusSuccess
	if err != nil {
		outcome = StatusError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = StatusCanceled
		}
	}
	metrics.ExportRuns.WithLabelValues(outcome).Inc()
	metrics.ExportDuration.Observe(time.Since(start).Seconds())

	if e.History != nil {
		run.Status = outcome
		run.Rows = res.Rows
		run.Path = res.Path
		run.ObjectKey = res.ObjectKey
		run.FinishedAt = time.Now().UTC()
		if err != nil {
			run.Error = err.Error()
		}
		// the request context may already be done
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if herr := e.History.Save(hctx, run); herr != nil {
			logger.Warnf("export %s: record finish: %v", res.RunID, herr)
		}
		cancel()
	}

	if err != nil {
		logger.Errorf("export %s failed after %d rows: %v", res.RunID, res.Rows, err)
		return nil, err
	}
	logger.Infof("export %s wrote %d rows to %s in %s", res.RunID, res.Rows, res.Path, time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (e *Exporter) write(ctx context.Context, res *Result) (err error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	final := filepath.Join(dir, e.finalName(res.RunID))

	tmp, err := os.CreateTemp(dir, ".report-*.csv.tmp")
	if err != nil {
		return writeErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		return writeErr(err)
	}

	err = e.Source.Stream(ctx, e.batchSize(), func(batch []candidate.Candidate) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range batch {
			if err := w.Write(Row(&batch[i])); err != nil {
				return writeErr(err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return writeErr(err)
		}
		res.Rows += len(batch)
		metrics.ExportRows.Add(float64(len(batch)))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWrite) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("read candidates: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return writeErr(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return writeErr(err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return writeErr(err)
	}
	committed = true
	res.Path = final

	if e.Uploader != nil {
		key := filepath.Base(final)
		if !e.UniqueNames {
			key = res.RunID + "/" + key
		}
		if err := e.Uploader.UploadReport(ctx, key, final); err != nil {
			logger.Warnf("export %s: upload to object storage failed: %v", res.RunID, err)
		} else {
			res.ObjectKey = key
		}
	}
	return nil
}
