// Package nativemsg speaks the browser native messaging protocol: each
// message is a JSON document preceded by its length as a 32-bit unsigned
// integer in little-endian byte order.
package nativemsg

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/jobtext"
)

// MaxMessageSize bounds an incoming message.
const MaxMessageSize = 64 << 20

// ReadMessage reads one framed message from r into v.
func ReadMessage(r io.Reader, v any) error {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("reading message length: %w", err)
	}
	if size == 0 {
		return jobtext.Errorf(jobtext.EINVALID, "empty message")
	}
	if size > MaxMessageSize {
		return jobtext.Errorf(jobtext.EINVALID, "message of %d bytes exceeds limit", size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("reading message body: %w", err)
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return jobtext.Errorf(jobtext.EINVALID, "decoding message: %v", err)
	}
	return nil
}

// WriteMessage writes v to w as one framed message.
func WriteMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(data) > MaxMessageSize {
		return jobtext.Errorf(jobtext.EINVALID, "message of %d bytes exceeds limit", len(data))
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
