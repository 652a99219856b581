package jobtext

import "context"

// Payload is the unit handed to a Transport.
type Payload struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SourceURL returns the source URL recorded in the payload metadata.
func (p Payload) SourceURL() string {
	return p.Metadata[MetaSourceURL]
}

// Ack acknowledges a delivered payload.
type Ack struct {
	Status string `json:"status"`

	// ID identifies the stored payload within the receiving sink.
	ID string `json:"id,omitempty"`

	// Filename is set by sinks that write files.
	Filename string `json:"filename,omitempty"`

	// JSONFile names the structured analysis output, when one was produced.
	JSONFile string `json:"json_file,omitempty"`
}

// Ack statuses.
const (
	AckSuccess = "success"
	AckError   = "error"
)

// Transport delivers an extracted payload to a persistence or analysis service.
type Transport interface {
	Send(ctx context.Context, p Payload) (*Ack, error)
}

// PostingWriter stores the structured analysis of a payload that was
// previously acknowledged with ref as its Ack ID.
type PostingWriter interface {
	WritePosting(ctx context.Context, ref string, posting *JobPosting) (string, error)
}
