// Package sse parses the Server-Sent-Events stream produced by the model
// gateway: `data: <json>` lines, `:` comments, a `data: [DONE]` sentinel.
// Frames may arrive split at arbitrary byte offsets, so lines are only
// parsed once newline-terminated, and a line whose JSON fails to parse is
// pushed back and retried once before being dropped.
package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

const doneSentinel = "[DONE]"

var dataPrefix = []byte("data:")

type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Reader yields incremental assistant-text fragments from an SSE byte
// stream. Next returns io.EOF after the [DONE] sentinel or the underlying
// stream's end.
type Reader struct {
	src io.Reader

	buf  []byte
	read [4096]byte

	// retried marks that the current head of the buffer is a line that
	// already failed one JSON parse; a second failure drops it.
	retried bool

	done    bool
	srcDone bool
}

func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Next returns the next non-empty delta.content fragment.
func (r *Reader) Next() (string, error) {
	for {
		if r.done {
			return "", io.EOF
		}

		line, ok := r.takeLine()
		if !ok {
			if r.srcDone {
				return "", io.EOF
			}
			if err := r.fill(); err != nil {
				return "", err
			}
			continue
		}

		fragment, ok := r.handleLine(line)
		if ok {
			return fragment, nil
		}
	}
}

// takeLine pops one newline-terminated line off the buffer.
func (r *Reader) takeLine() ([]byte, bool) {
	i := bytes.IndexByte(r.buf, '\n')
	if i < 0 {
		return nil, false
	}
	line := r.buf[:i]
	r.buf = r.buf[i+1:]
	return bytes.TrimSuffix(line, []byte("\r")), true
}

func (r *Reader) fill() error {
	n, err := r.src.Read(r.read[:])
	if n > 0 {
		r.buf = append(r.buf, r.read[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.srcDone = true
			return nil
		}
		return err
	}
	return nil
}

// handleLine interprets one SSE line. The bool reports whether a fragment
// was produced.
func (r *Reader) handleLine(line []byte) (string, bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return "", false
	}
	if trimmed[0] == ':' {
		// Comment line.
		return "", false
	}
	if !bytes.HasPrefix(trimmed, dataPrefix) {
		return "", false
	}

	payload := bytes.TrimSpace(trimmed[len(dataPrefix):])
	if string(payload) == doneSentinel {
		r.done = true
		return "", false
	}

	var ch chunk
	if err := json.Unmarshal(payload, &ch); err != nil {
		if r.retried {
			// Still unparseable after one retry: drop the line.
			r.retried = false
			return "", false
		}
		// Push the line back so it rejoins whatever arrives next. This
		// guards against a chunk boundary falling inside a JSON object.
		r.retried = true
		r.buf = append(append([]byte(nil), line...), r.buf...)
		return "", false
	}
	r.retried = false

	if len(ch.Choices) == 0 || ch.Choices[0].Delta.Content == "" {
		return "", false
	}
	return ch.Choices[0].Delta.Content, true
}

// Collect drains the reader and concatenates every fragment.
func Collect(src io.Reader) (string, error) {
	r := NewReader(src)
	var out bytes.Buffer
	for {
		fragment, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out.String(), nil
			}
			return out.String(), err
		}
		out.WriteString(fragment)
	}
}
