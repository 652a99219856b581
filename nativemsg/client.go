package nativemsg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/jobtext"
)

var _ jobtext.Transport = (*Client)(nil)

// Client delivers payloads to a native host process. Every Send starts the
// host, writes one message to its stdin and reads one reply from its stdout,
// the way a browser talks to a native messaging host.
type Client struct {
	// Command and Args start the host.
	Command string
	Args    []string

	// Settings are sent with every message.
	Settings jobtext.Settings
}

// NewClient creates a Client for the host started by command.
func NewClient(command string, args ...string) *Client {
	return &Client{Command: command, Args: args}
}

// Send runs the host for p. A host that exits without replying, or replies
// with an error status, fails with ETRANSPORT.
func (c *Client) Send(ctx context.Context, p jobtext.Payload) (*jobtext.Ack, error) {
	msg := Message{
		Text:     p.Text,
		Metadata: p.Metadata,
		Settings: NewSettings(c.Settings),
	}
	msg.Settings.SourceURL = p.SourceURL()

	var stdin, stdout, stderr bytes.Buffer
	if err := WriteMessage(&stdin, msg); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp Response
	if err := ReadMessage(&stdout, &resp); err != nil {
		if runErr != nil {
			return nil, jobtext.Errorf(jobtext.ETRANSPORT, "native host %s: %v: %s", c.Command, runErr, strings.TrimSpace(stderr.String()))
		}
		return nil, jobtext.Errorf(jobtext.ETRANSPORT, "native host %s sent no reply: %v", c.Command, err)
	}
	if resp.Status != jobtext.AckSuccess {
		msg := resp.Error
		if msg == "" {
			msg = fmt.Sprintf("status %q", resp.Status)
		}
		return nil, jobtext.Errorf(jobtext.ETRANSPORT, "native host: %s", msg)
	}
	return &jobtext.Ack{
		Status:   resp.Status,
		ID:       resp.Filename,
		Filename: resp.Filename,
		JSONFile: resp.JSONFile,
	}, nil
}
