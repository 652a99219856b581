package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/jobtext"
	"github.com/google/uuid"
)

var (
	_ jobtext.Transport     = (*ExtractionService)(nil)
	_ jobtext.PostingWriter = (*ExtractionService)(nil)
)

// ExtractionService saves extracted payloads and their analyses.
//
// A payload whose text was already saved for the same source URL is not
// stored twice; its earlier ID is acknowledged instead.
type ExtractionService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractionService creates an ExtractionService.
func NewExtractionService(db *DB) *ExtractionService {
	return &ExtractionService{db: db, Now: time.Now}
}

// contentHash returns the hash stamped on p by the extractor or, for payloads
// that arrive without one, the xxhash of its text in the same hex form.
func contentHash(p jobtext.Payload) string {
	if h := p.Metadata[jobtext.MetaContentHash]; h != "" {
		return h
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(p.Text))
}

// Send stores p.
func (s *ExtractionService) Send(ctx context.Context, p jobtext.Payload) (*jobtext.Ack, error) {
	if p.Text == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "payload text required")
	}
	hash := contentHash(p)

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (id, request_id, source_url, title, source_kind, site, content_hash, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_url, content_hash) DO NOTHING
	`, id, p.Metadata[jobtext.MetaRequestID], p.SourceURL(), p.Metadata[jobtext.MetaTitle],
		p.Metadata[jobtext.MetaSourceKind], p.Metadata[jobtext.MetaSite], hash, p.Text,
		s.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	// The stored row is either the one just inserted or an earlier duplicate.
	var stored string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM extractions WHERE source_url = ? AND content_hash = ?
	`, p.SourceURL(), hash).Scan(&stored)
	if err != nil {
		return nil, err
	}
	return &jobtext.Ack{Status: jobtext.AckSuccess, ID: stored}, nil
}

// WritePosting stores posting against the extraction with ID ref and returns
// the posting's ID.
func (s *ExtractionService) WritePosting(ctx context.Context, ref string, posting *jobtext.JobPosting) (string, error) {
	if posting == nil {
		return "", jobtext.Errorf(jobtext.EINVALID, "posting required")
	}
	if err := posting.Validate(); err != nil {
		return "", err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM extractions WHERE id = ?`, ref).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", jobtext.Errorf(jobtext.ENOTFOUND, "extraction not found")
	}
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(posting)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO postings (id, extraction_id, job_title, company_name, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, ref, posting.Title, posting.Company, string(data), s.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return id, nil
}
