package checkls

import (
	"context"
	"io"

	"golang.org/x/exp/jsonrpc2"
)

// NewIOPipeListener bridges a reader/writer pair, normally stdin/stdout,
// to a jsonrpc2 listener.
func NewIOPipeListener(ctx context.Context, r io.Reader, w io.Writer) (jsonrpc2.Listener, error) {
	pipe, err := jsonrpc2.NetPipe(ctx)
	if err != nil {
		return nil, err
	}

	go bindIOToListener(ctx, pipe, r, w)
	return pipe, nil
}

func bindIOToListener(ctx context.Context, l jsonrpc2.Listener, r io.Reader, w io.Writer) error {
	rwc, err := l.Accept(ctx)
	if err != nil {
		return err
	}
	go io.Copy(rwc, r)
	go io.Copy(w, rwc)
	return nil
}
