package checkls

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/myleshyson/lsprotocol-go/protocol"
)

// Document is the live buffer state of one open file. It is replaced as a
// whole on every change, so a snapshot taken by a check run stays
// consistent while newer edits arrive.
type Document struct {
	URI     protocol.DocumentUri
	Version int32
	lines   []string
}

// Line returns the 0-based line i of the document.
func (d *Document) Line(i int) (string, bool) {
	if d == nil || i < 0 || i >= len(d.lines) {
		return "", false
	}
	return d.lines[i], true
}

// SpanForLine maps a 1-based line number from tool output onto the column
// span of that line's non-whitespace content. A line number outside the
// current buffer (stale tool output) or a missing buffer degrades to a
// line-start span instead of dropping the finding.
func (d *Document) SpanForLine(n int) (start, end int) {
	text, ok := d.Line(n - 1)
	if !ok {
		return 0, 1
	}
	return contentSpan(text)
}

// contentSpan returns the column range covering the line's content with
// leading and trailing whitespace trimmed. A blank line yields a zero
// width span at column 0.
func contentSpan(line string) (start, end int) {
	end = len(strings.TrimRight(line, " \t"))
	start = len(line) - len(strings.TrimLeft(line, " \t"))
	if start > end {
		start = end
	}
	return start, end
}

// DocumentStore tracks the editor's open buffers. The range mapper reads
// from here so diagnostics reflect unsaved buffer state, not what is on
// disk.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[protocol.DocumentUri]*Document)}
}

func (s *DocumentStore) Open(uri protocol.DocumentUri, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = newDocument(uri, version, text)
}

// Update replaces the document's content. With full sync the text is always
// the complete document.
func (s *DocumentStore) Update(uri protocol.DocumentUri, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = newDocument(uri, version, text)
}

func (s *DocumentStore) Close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns the current document for uri, or nil if it is not open.
func (s *DocumentStore) Get(uri protocol.DocumentUri) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

func newDocument(uri protocol.DocumentUri, version int32, text string) *Document {
	return &Document{URI: uri, Version: version, lines: strings.Split(text, "\n")}
}

func uriToPath(uri protocol.DocumentUri) string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return string(uri)
	}
	return filepath.FromSlash(u.Path)
}

func pathToURI(path string) protocol.DocumentUri {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return protocol.DocumentUri("file://" + filepath.ToSlash(abs))
}
