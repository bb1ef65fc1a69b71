package checkls

import (
	"context"
	"log/slog"
	"sync"

	"github.com/myleshyson/lsprotocol-go/protocol"
)

const diagnosticSource = "checkls"

// DiagnosticRegistry holds the current diagnostic set and the latest run id
// per document. A set is always replaced whole, never patched, so readers
// never observe a stale-plus-new mix.
type DiagnosticRegistry struct {
	mu sync.Mutex
	// document uri -> latest run id issued for it
	runs map[protocol.DocumentUri]uint64
	// document uri -> current diagnostic set
	diags map[protocol.DocumentUri][]protocol.Diagnostic
}

func NewDiagnosticRegistry() *DiagnosticRegistry {
	return &DiagnosticRegistry{
		runs:  make(map[protocol.DocumentUri]uint64),
		diags: make(map[protocol.DocumentUri][]protocol.Diagnostic),
	}
}

// Begin allocates the next run id for uri. Ids increase in the order saves
// arrive, so a completing run can tell whether it has been superseded by a
// later save.
func (r *DiagnosticRegistry) Begin(uri protocol.DocumentUri) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[uri]++
	return r.runs[uri]
}

// Commit installs diags as the complete current set for uri, but only when
// run is still the latest begun for that uri. It reports whether the set
// was installed.
func (r *DiagnosticRegistry) Commit(uri protocol.DocumentUri, run uint64, diags []protocol.Diagnostic) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run != r.runs[uri] {
		return false
	}
	r.diags[uri] = diags
	return true
}

// Get returns the current diagnostic set for uri.
func (r *DiagnosticRegistry) Get(uri protocol.DocumentUri) []protocol.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.diags[uri]
}

// Drop forgets all state for uri. Called when the editor closes the file
// so the registry does not grow without bound.
func (r *DiagnosticRegistry) Drop(uri protocol.DocumentUri) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, uri)
	delete(r.diags, uri)
}

// Publisher converts findings into protocol diagnostics and pushes each
// file's replacement set to the editor.
type Publisher struct {
	registry *DiagnosticRegistry
	client   Notifier
	docs     *DocumentStore
	// mu spans the latest-run check and the notification send, so the
	// editor receives replacement sets in commit order and a stalled send
	// from a superseded run can never land after a newer run's.
	mu sync.Mutex
}

func NewPublisher(client Notifier, docs *DocumentStore) *Publisher {
	return &Publisher{
		registry: NewDiagnosticRegistry(),
		client:   client,
		docs:     docs,
	}
}

// Begin reserves a run id for a save of uri. See DiagnosticRegistry.Begin.
func (p *Publisher) Begin(uri protocol.DocumentUri) uint64 {
	return p.registry.Begin(uri)
}

// Publish maps findings against the live buffer and replaces the current
// diagnostic set for uri, unless run has been superseded by a later save.
// It reports whether the set was installed.
func (p *Publisher) Publish(ctx context.Context, uri protocol.DocumentUri, run uint64, findings []Finding) bool {
	doc := p.docs.Get(uri)
	diags := make([]protocol.Diagnostic, 0, len(findings))
	for _, f := range findings {
		diags = append(diags, toDiagnostic(f, doc))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.registry.Commit(uri, run, diags) {
		slog.InfoContext(ctx, "run superseded, discarding result", "findings", len(findings))
		return false
	}
	p.notifyDiagnostics(ctx, uri, diags)
	return true
}

// PublishFailure clears the diagnostic set for uri and reports err once
// through the window/showMessage channel. Stale diagnostics must not stay
// visible just because the tools could not run.
func (p *Publisher) PublishFailure(ctx context.Context, uri protocol.DocumentUri, run uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.registry.Commit(uri, run, nil) {
		slog.InfoContext(ctx, "run superseded, discarding failure", "error", err)
		return
	}
	p.notifyDiagnostics(ctx, uri, nil)
	p.ShowMessage(ctx, protocol.MessageTypeError, "checkls: "+err.Error())
}

// Clear drops all diagnostic state for uri and retracts the published set.
func (p *Publisher) Clear(ctx context.Context, uri protocol.DocumentUri) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registry.Drop(uri)
	p.notifyDiagnostics(ctx, uri, nil)
}

// ShowMessage sends a user visible message to the editor.
func (p *Publisher) ShowMessage(ctx context.Context, typ protocol.MessageType, message string) {
	params := protocol.ShowMessageParams{Type: typ, Message: message}
	if err := p.client.Notify(ctx, string(protocol.WindowShowMessageMethod), params); err != nil {
		slog.ErrorContext(ctx, "failed to send message", "error", err)
	}
}

func (p *Publisher) notifyDiagnostics(ctx context.Context, uri protocol.DocumentUri, diags []protocol.Diagnostic) {
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	params := protocol.PublishDiagnosticsParams{Uri: uri, Diagnostics: diags}
	if err := p.client.Notify(ctx, string(protocol.TextDocumentPublishDiagnosticsMethod), params); err != nil {
		slog.ErrorContext(ctx, "failed to publish diagnostics", "error", err)
	}
}

// toDiagnostic maps a finding onto the live document. Unknown severity
// tokens publish as errors rather than being dropped or downgraded.
func toDiagnostic(f Finding, doc *Document) protocol.Diagnostic {
	start, end := doc.SpanForLine(f.Line)
	line := uint32(f.Line - 1)

	sev := protocol.DiagnosticSeverityError
	if f.Severity == SeverityWarning {
		sev = protocol.DiagnosticSeverityWarning
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: uint32(start)},
			End:   protocol.Position{Line: line, Character: uint32(end)},
		},
		Severity: Ptr(sev),
		Source:   diagnosticSource,
		Message:  f.Message,
	}
}
