package feed

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
)

const (
	progressEvery = 100

	// problem and organization payloads can embed long statements
	maxLineBytes = 32 * 1024 * 1024
)

// Progress is a snapshot of ingestion. TotalLines is the caller's hint.
type Progress struct {
	LinesRead  int
	TotalLines int
}

func (p Progress) Ratio() float64 {
	if p.TotalLines <= 0 {
		return 0
	}
	r := float64(p.LinesRead) / float64(p.TotalLines)
	return min(r, 1)
}

type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

type Result struct {
	State     *contest.State
	LinesRead int
	Errors    []LineError
}

func (r *Result) ErrorCount() int {
	return len(r.Errors)
}

// Ready reports whether the store may be handed to scoring.
func (r *Result) Ready() bool {
	return len(r.Errors) == 0
}

// Job is one ingestion running in its own goroutine.
type Job struct {
	progress chan Progress
	done     chan struct{}

	res *Result
	err error
}

// Start begins ingesting r. totalLines is only used for progress ratios
// and for sizing the progress buffer. Progress is newest-wins: when the
// consumer falls behind, the oldest buffered snapshot is dropped, so
// intermediate snapshots may be skipped but the final one always arrives.
// The progress channel is closed after the final snapshot; a cancelled ctx
// makes Wait return ctx.Err() and no store.
func Start(ctx context.Context, r io.Reader, totalLines int) *Job {
	j := &Job{
		progress: make(chan Progress, totalLines/progressEvery+2),
		done:     make(chan struct{}),
	}
	go func() {
		defer close(j.done)
		defer close(j.progress)
		j.res, j.err = ingest(ctx, r, totalLines, j.progress)
	}()
	return j
}

func (j *Job) Progress() <-chan Progress {
	return j.progress
}

func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) Wait() (*Result, error) {
	<-j.done
	return j.res, j.err
}

// Ingest runs a Job to completion, discarding progress.
func Ingest(ctx context.Context, r io.Reader, totalLines int) (*Result, error) {
	j := Start(ctx, r, totalLines)
	for range j.Progress() {
	}
	return j.Wait()
}

func ingest(ctx context.Context, r io.Reader, totalLines int, progress chan Progress) (*Result, error) {
	log := logger.FromContext(ctx)

	lr := newLineReader(r)
	st := contest.NewState()
	res := &Result{}

	for {
		if err := ctx.Err(); err != nil {
			log.Info("event feed ingestion cancelled", "lines_read", res.LinesRead)
			return nil, err
		}
		raw, tooLong, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed while reading event feed: %w", err)
		}
		res.LinesRead++
		lineNo := res.LinesRead

		var lineErr error
		if tooLong {
			lineErr = ErrLineTooLong(lr.max)
		} else if line := bytes.TrimSpace(raw); len(line) > 0 {
			lineErr = ingestLine(ctx, st, line)
		}
		if lineErr != nil {
			log.Warn("rejected event line", "line", lineNo, "error", lineErr)
			res.Errors = append(res.Errors, LineError{Line: lineNo, Err: lineErr})
		}

		if lineNo%progressEvery == 0 {
			publish(progress, Progress{LinesRead: lineNo, TotalLines: totalLines})
		}
	}

	if res.LinesRead == 0 || res.LinesRead%progressEvery != 0 {
		publish(progress, Progress{LinesRead: res.LinesRead, TotalLines: totalLines})
	}

	res.State = st
	log.Info("event feed parsed",
		"lines_read", res.LinesRead,
		"errors", len(res.Errors))
	return res, nil
}

// publish sends p, dropping the oldest buffered snapshot if the consumer
// fell behind. ingest is the only sender, so the retry cannot block.
func publish(progress chan Progress, p Progress) {
	select {
	case progress <- p:
		return
	default:
	}
	select {
	case <-progress:
	default:
	}
	progress <- p
}

func ingestLine(ctx context.Context, st *contest.State, line []byte) error {
	ev, err := Decode(line)
	if err != nil {
		return err
	}
	return Apply(ctx, st, ev)
}

// CountLines is the pre-scan that sizes progress reporting. Over-long lines
// count as one line each, as they do during ingestion.
func CountLines(r io.Reader) (int, error) {
	lr := newLineReader(r)
	n := 0
	for {
		_, _, err := lr.next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count event feed lines: %w", err)
		}
		n++
	}
}

// lineReader splits a feed into lines of at most max bytes. The remainder
// of a longer line is read and discarded so the next line starts clean.
type lineReader struct {
	br  *bufio.Reader
	max int
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024), max: maxLineBytes}
}

// next returns the next line without its terminator. The returned slice is
// only valid until the following call. io.EOF means no bytes were left.
func (lr *lineReader) next() (line []byte, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	read := false
	for {
		chunk, err := lr.br.ReadSlice('\n')
		read = read || len(chunk) > 0
		if err == nil {
			chunk = chunk[:len(chunk)-1]
		}
		if !tooLong {
			if len(lr.buf)+len(chunk) > lr.max {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		}

		switch {
		case err == nil:
			return lr.buf, tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return nil, false, io.EOF
			}
			return lr.buf, tooLong, nil
		default:
			return nil, false, err
		}
	}
}
