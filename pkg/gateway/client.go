package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/toyz/rsbind/pkg/invoke"
	"github.com/toyz/rsbind/pkg/payload"
	"github.com/toyz/rsbind/pkg/rx/flux"
	"github.com/toyz/rsbind/pkg/rx/mono"
)

// Client calls operations served by a remote Gateway. It implements
// invoke.Caller, so generated import proxies can use it directly.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ invoke.Caller = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the gateway mounted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestResponse calls a single-value operation.
func (c *Client) RequestResponse(ctx context.Context, target invoke.Target, p payload.Payload) mono.Mono[payload.Payload] {
	return mono.FromFlux(c.call(target, func() io.Reader {
		return bytes.NewReader(p.Data())
	}))
}

// RequestStream calls a streaming operation.
func (c *Client) RequestStream(ctx context.Context, target invoke.Target, p payload.Payload) flux.Flux[payload.Payload] {
	return c.call(target, func() io.Reader {
		return bytes.NewReader(p.Data())
	})
}

// RequestChannel calls a bidirectional operation. The inbound stream is
// subscribed to once the request is sent.
func (c *Client) RequestChannel(ctx context.Context, target invoke.Target, p payload.Payload, in flux.Flux[payload.Payload]) flux.Flux[payload.Payload] {
	return flux.Create(func(ctx context.Context, emit func(payload.Payload) error) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(writeChannel(ctx, pw, p, in))
		}()

		return c.call(target, func() io.Reader {
			return pr
		}).Subscribe(ctx, emit)
	})
}

func writeChannel(ctx context.Context, w io.Writer, first payload.Payload, in flux.Flux[payload.Payload]) error {
	if err := WriteFrame(w, Frame{Type: FrameNext, Data: first.Data()}); err != nil {
		return err
	}
	err := in.Subscribe(ctx, func(item payload.Payload) error {
		return WriteFrame(w, Frame{Type: FrameNext, Data: item.Data()})
	})
	if err != nil {
		return WriteFrame(w, Frame{Type: FrameError, Data: []byte(err.Error())})
	}
	return WriteFrame(w, Frame{Type: FrameComplete})
}

func (c *Client) call(target invoke.Target, body func() io.Reader) flux.Flux[payload.Payload] {
	return flux.Create(func(ctx context.Context, emit func(payload.Payload) error) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathFor(target), body())
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", ContentType)
		req.Header.Set(RequestIDHeader, uuid.NewString())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", invoke.ErrHandlerNotFound, target)
		case resp.StatusCode != http.StatusOK:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("gateway: %s: %s: %s", target, resp.Status, strings.TrimSpace(string(msg)))
		}

		for {
			f, err := ReadFrame(resp.Body)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return fmt.Errorf("gateway: %s: stream ended without completion", target)
				}
				return err
			}
			switch f.Type {
			case FrameNext:
				if err := emit(payload.New(f.Data)); err != nil {
					return err
				}
			case FrameError:
				return &RemoteError{Message: string(f.Data)}
			case FrameComplete:
				return nil
			}
		}
	})
}
