package sse

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func deltaLine(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n\n"
}

func samplePayload() string {
	var b strings.Builder
	b.WriteString(": keep-alive comment\n\n")
	b.WriteString(deltaLine("Hel"))
	b.WriteString(deltaLine("lo"))
	b.WriteString(`data: {"choices":[{"delta":{}}]}` + "\n\n")
	b.WriteString(deltaLine(", world"))
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func collectAll(t *testing.T, src io.Reader) []string {
	t.Helper()
	r := NewReader(src)
	var got []string
	for {
		fragment, err := r.Next()
		if errors.Is(err, io.EOF) {
			return got
		}
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}
		got = append(got, fragment)
	}
}

func TestReaderSingleChunk(t *testing.T) {
	got := collectAll(t, strings.NewReader(samplePayload()))

	want := []string{"Hel", "lo", ", world"}
	if len(got) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// chunkedReader returns at most size bytes per Read call.
type chunkedReader struct {
	data []byte
	pos  int
	size int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if c.pos+n > len(c.data) {
		n = len(c.data) - c.pos
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}

// The parser must reconstruct the identical fragment sequence no matter
// where the chunk boundaries fall.
func TestReaderArbitraryChunkBoundaries(t *testing.T) {
	payload := []byte(samplePayload())
	want := collectAll(t, bytes.NewReader(payload))

	for size := 1; size <= len(payload); size++ {
		got := collectAll(t, &chunkedReader{data: payload, size: size})
		if len(got) != len(want) {
			t.Fatalf("chunk size %d: expected %d fragments, got %d", size, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("chunk size %d, fragment %d: expected %q, got %q", size, i, want[i], got[i])
			}
		}
	}
}

func TestReaderStopsAtDone(t *testing.T) {
	payload := samplePayload() + deltaLine("ignored after done")
	got := collectAll(t, strings.NewReader(payload))

	for _, fragment := range got {
		if fragment == "ignored after done" {
			t.Fatal("fragment after [DONE] should not be emitted")
		}
	}
}

func TestReaderDropsUnparseableLineAfterRetry(t *testing.T) {
	payload := "data: {not json at all\n\n" + deltaLine("ok") + "data: [DONE]\n\n"
	got := collectAll(t, strings.NewReader(payload))

	if len(got) != 1 || got[0] != "ok" {
		t.Fatalf("expected only %q, got %v", "ok", got)
	}
}

func TestReaderEOFWithoutDone(t *testing.T) {
	got := collectAll(t, strings.NewReader(deltaLine("partial stream")))

	if len(got) != 1 || got[0] != "partial stream" {
		t.Fatalf("expected %q, got %v", "partial stream", got)
	}
}

func TestCollect(t *testing.T) {
	text, err := Collect(strings.NewReader(samplePayload()))
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if text != "Hello, world" {
		t.Errorf("expected %q, got %q", "Hello, world", text)
	}
}
