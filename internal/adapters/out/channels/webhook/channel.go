// Package webhook POSTs lifecycle events as JSON to the kitchen's webhook URL.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"backoffice/internal/adapters/out/channels"
	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/ports"
)

const Name = "webhook"

var ErrKitchenDirectoryIsRequired = errors.New("kitchen directory is required")

var _ ports.Channel = (*Channel)(nil)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Channel treats any 2xx response as delivered. Kitchens without a
// webhook URL have nothing to deliver.
type Channel struct {
	client   Doer
	kitchens ports.KitchenDirectory
}

func NewChannel(client Doer, kitchens ports.KitchenDirectory) (*Channel, error) {
	if kitchens == nil {
		return nil, ErrKitchenDirectoryIsRequired
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Channel{client: client, kitchens: kitchens}, nil
}

func (c *Channel) Name() string {
	return Name
}

func (c *Channel) Send(ctx context.Context, ev event.Event) error {
	url := c.kitchens.Settings(ev.KitchenID()).WebhookURL
	if url == "" {
		return nil
	}

	body, err := channels.Encode(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", ev.ID().String())
	req.Header.Set("X-Event-Type", ev.Type().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook responded %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
