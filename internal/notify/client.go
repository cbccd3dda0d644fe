package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const connectTimeout = 15 * time.Second

// Client is a connected socket.io client.
type Client struct {
	io *socket.Socket
}

// Dial connects to the server named by cfg and waits for the handshake.
func Dial(ctx context.Context, cfg *config.Notify) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("notify_url", cfg.URL)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.Insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Notify client connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(args ...any) {
		connectChan <- connectError(args...)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}

// connectError turns the arguments of a connect_error event into an error.
// The event may carry no arguments at all.
func connectError(args ...any) error {
	if len(args) == 0 || args[0] == nil {
		return errors.New("connect_error without details")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", args[0])
}

// Emit sends payload as JSON-compatible data.
func (c *Client) Emit(event string, payload any) {
	data, err := toWire(payload)
	if err != nil {
		data = payload
	}
	c.io.Emit(event, data)
}

// Close disconnects the client.
func (c *Client) Close() {
	c.io.Disconnect()
}

// toWire round-trips payload through JSON so struct tags decide field names.
func toWire(payload any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
