// Package fs stores extracted job postings as files in a directory.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/jobtext"
	"gopkg.in/yaml.v3"
)

// TimestampLayout names files the way the native host always has.
const TimestampLayout = "2006-01-02_15-04-05"

var (
	_ jobtext.Transport     = (*Writer)(nil)
	_ jobtext.PostingWriter = (*Writer)(nil)
)

// Writer saves each payload as job_<timestamp>_raw.txt and each structured
// analysis as job_<timestamp>_structured.json next to it. The Ack ID is the
// shared job_<timestamp> stem.
type Writer struct {
	dir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a Writer saving into dir. The directory is created on
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, Now: time.Now}
}

// Frontmatter is the YAML header of a raw posting file.
type Frontmatter struct {
	Source    string    `yaml:"source"`
	Title     string    `yaml:"title"`
	Kind      string    `yaml:"kind"`
	Extracted time.Time `yaml:"extracted"`
}

// FormatPayload renders p with a YAML frontmatter header holding its source
// and title.
func FormatPayload(p jobtext.Payload, at time.Time) (string, error) {
	header, err := yaml.Marshal(Frontmatter{
		Source:    p.SourceURL(),
		Title:     p.Metadata[jobtext.MetaTitle],
		Kind:      p.Metadata[jobtext.MetaSourceKind],
		Extracted: at.UTC().Truncate(time.Second),
	})
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(p.Text)
	b.WriteString("\n")
	return b.String(), nil
}

// Send writes p to a new raw file.
func (w *Writer) Send(ctx context.Context, p jobtext.Payload) (*jobtext.Ack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "payload text required")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, err
	}

	at := w.Now()
	content, err := FormatPayload(p, at)
	if err != nil {
		return nil, err
	}
	stem, f, err := w.create(at)
	if err != nil {
		return nil, err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &jobtext.Ack{
		Status:   jobtext.AckSuccess,
		ID:       stem,
		Filename: f.Name(),
	}, nil
}

// WritePosting writes posting as indented JSON beside the raw file of ref and
// returns its path.
func (w *Writer) WritePosting(ctx context.Context, ref string, posting *jobtext.JobPosting) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ref == "" || ref != filepath.Base(ref) || !strings.HasPrefix(ref, "job_") {
		return "", jobtext.Errorf(jobtext.EINVALID, "invalid posting reference %q", ref)
	}
	if posting == nil {
		return "", jobtext.Errorf(jobtext.EINVALID, "posting required")
	}
	if _, err := os.Stat(filepath.Join(w.dir, ref+"_raw.txt")); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", jobtext.Errorf(jobtext.ENOTFOUND, "no raw posting %q", ref)
		}
		return "", err
	}

	data, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, ref+"_structured.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// create opens a raw file that does not exist yet. Payloads saved within
// the same second get a numeric suffix.
func (w *Writer) create(at time.Time) (string, *os.File, error) {
	base := "job_" + at.Format(TimestampLayout)
	for i := 1; i < 1000; i++ {
		stem := base
		if i > 1 {
			stem = fmt.Sprintf("%s-%d", base, i)
		}
		f, err := os.OpenFile(filepath.Join(w.dir, stem+"_raw.txt"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return stem, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, err
		}
	}
	return "", nil, jobtext.Errorf(jobtext.ECONFLICT, "too many postings saved at %s", base)
}
