package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// Watch subscribes to change events for the client's user. The returned
// channel is closed when ctx is cancelled or the connection drops.
func (c *Client) Watch(ctx context.Context) (<-chan models.ChangeEvent, error) {
	url := websocketURL(c.baseURL) + models.EventsPath
	header := http.Header{}
	header.Set(models.UserHeader, c.user)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %s", url, resp.Status)
		}
		return nil, fmt.Errorf("failed to subscribe to %s: %w", url, err)
	}

	events := make(chan models.ChangeEvent, 16)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(done)
		for {
			var ev models.ChangeEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil {
					c.log.WithError(err).Debugln("remote: event stream closed")
				}
				return
			}
			if ev.Type != models.ChangeEventType {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func websocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}
