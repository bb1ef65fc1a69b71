package checkls

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/myleshyson/lsprotocol-go/protocol"
	"golang.org/x/exp/jsonrpc2"
)

// Handler dispatches editor requests and turns save notifications into
// check runs.
type Handler struct {
	cfg     *Config
	docs    *DocumentStore
	pub     *Publisher
	checker *Checker
	conn    *jsonrpc2.Connection
}

func NewHandler(cfg *Config) *Handler {
	return &Handler{cfg: cfg, docs: NewDocumentStore()}
}

// BindConnection wires the editor connection once dialing completes. The
// publisher needs it for outbound notifications.
func (h *Handler) BindConnection(conn *jsonrpc2.Connection) {
	h.conn = conn
	h.pub = NewPublisher(conn, h.docs)
	h.checker = NewChecker(h.cfg, h.pub)
}

func (h *Handler) Handle(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	switch protocol.MethodKind(r.Method) {
	case protocol.InitializeMethod:
		return h.handleInitialize(ctx, r)
	case protocol.InitializedMethod:
		return nil, nil
	case protocol.ShutdownMethod:
		return nil, nil
	case protocol.ExitMethod:
		return nil, h.conn.Close()
	case protocol.TextDocumentDidOpenMethod:
		return nil, h.handleDidOpen(ctx, r)
	case protocol.TextDocumentDidChangeMethod:
		return nil, h.handleDidChange(ctx, r)
	case protocol.TextDocumentDidSaveMethod:
		return nil, h.handleDidSave(ctx, r)
	case protocol.TextDocumentDidCloseMethod:
		return nil, h.handleDidClose(ctx, r)
	}

	if !r.IsCall() {
		slog.DebugContext(ctx, "ignoring notification")
		return nil, nil
	}
	return nil, ErrMethodNotFound
}

func (h *Handler) handleInitialize(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	var params struct {
		InitializationOptions map[string]any `json:"initializationOptions"`
	}
	if len(r.Params) > 0 {
		if err := json.Unmarshal(r.Params, &params); err != nil {
			return nil, err
		}
	}
	if err := h.cfg.ApplyOptions(params.InitializationOptions); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "initialized",
		"build", OrZeroValue(h.cfg.Check.BuildOnSave),
		"vet", OrZeroValue(h.cfg.Check.VetOnSave),
		"lint", h.cfg.Check.LintOnSave)

	return map[string]any{
		"serverInfo": map[string]any{
			"name": "checkls",
		},
		"capabilities": map[string]any{
			"textDocumentSync": map[string]any{
				"openClose": true,
				"change":    1, // full
				"save":      map[string]any{"includeText": true},
			},
		},
	}, nil
}

func (h *Handler) handleDidOpen(ctx context.Context, r *jsonrpc2.Request) error {
	var params struct {
		TextDocument struct {
			Uri     protocol.DocumentUri `json:"uri"`
			Version int32                `json:"version"`
			Text    string               `json:"text"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return err
	}
	h.docs.Open(params.TextDocument.Uri, params.TextDocument.Version, params.TextDocument.Text)
	return nil
}

func (h *Handler) handleDidChange(ctx context.Context, r *jsonrpc2.Request) error {
	var params struct {
		TextDocument struct {
			Uri     protocol.DocumentUri `json:"uri"`
			Version int32                `json:"version"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Text string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return err
	}
	// Full sync: the last content change carries the whole document.
	if n := len(params.ContentChanges); n > 0 {
		h.docs.Update(params.TextDocument.Uri, params.TextDocument.Version, params.ContentChanges[n-1].Text)
	}
	return nil
}

func (h *Handler) handleDidSave(ctx context.Context, r *jsonrpc2.Request) error {
	var params struct {
		TextDocument struct {
			Uri protocol.DocumentUri `json:"uri"`
		} `json:"textDocument"`
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.Uri
	if params.Text != nil {
		if doc := h.docs.Get(uri); doc != nil {
			h.docs.Update(uri, doc.Version, *params.Text)
		} else {
			h.docs.Open(uri, 0, *params.Text)
		}
	}

	// Begin synchronously so run ids follow save arrival order; the check
	// itself runs off the handler goroutine.
	run := h.pub.Begin(uri)
	go h.checker.CheckFile(context.WithoutCancel(ctx), uri, run)
	return nil
}

func (h *Handler) handleDidClose(ctx context.Context, r *jsonrpc2.Request) error {
	var params struct {
		TextDocument struct {
			Uri protocol.DocumentUri `json:"uri"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return err
	}
	h.docs.Close(params.TextDocument.Uri)
	h.pub.Clear(ctx, params.TextDocument.Uri)
	return nil
}
