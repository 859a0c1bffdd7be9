// Package web streams the room status board to browsers as server-sent events
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/r3labs/sse/v2"

	"github.com/navikt/zbook/internal/utils"
)

// StreamRooms is the SSE stream carrying room status updates
const StreamRooms = "rooms"

// StatusBroadcaster publishes the status board on every change and on a ticker
// so that time-driven transitions such as Busy to Available reach clients
type StatusBroadcaster struct {
	server   *sse.Server
	source   StatusSource
	interval time.Duration
}

// NewStatusBroadcaster creates a broadcaster pushing every interval
func NewStatusBroadcaster(source StatusSource, interval time.Duration) *StatusBroadcaster {
	server := sse.New()
	// Only the latest board matters to a newly connected client
	server.AutoReplay = false
	server.Headers = map[string]string{
		"Access-Control-Allow-Origin": "*",
	}
	server.CreateStream(StreamRooms)

	return &StatusBroadcaster{
		server:   server,
		source:   source,
		interval: interval,
	}
}

// ServeHTTP subscribes the client to the rooms stream
func (b *StatusBroadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("stream") == "" {
		r = r.Clone(r.Context())
		q := r.URL.Query()
		q.Set("stream", StreamRooms)
		r.URL.RawQuery = q.Encode()
	}

	log.Printf("SSE client connected from %s", utils.SanitizeLogString(r.RemoteAddr))
	b.server.ServeHTTP(w, r)
}

// NotifyRoomUpdate is registered as a service update callback
func (b *StatusBroadcaster) NotifyRoomUpdate(roomID string) {
	log.Printf("Publishing SSE update event for room %s", utils.SanitizeLogString(roomID))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Publish(ctx); err != nil {
		log.Printf("Error publishing room update: %v", err)
	}
}

// Publish sends the current status board to every subscriber
func (b *StatusBroadcaster) Publish(ctx context.Context) error {
	statuses, err := b.source.RoomStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load room statuses: %w", err)
	}

	data, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("failed to marshal room statuses: %w", err)
	}

	b.server.Publish(StreamRooms, &sse.Event{
		ID:    []byte(fmt.Sprintf("%d", time.Now().UnixNano())),
		Event: []byte("status"),
		Data:  data,
	})
	return nil
}

// Run publishes the board immediately and then every interval until ctx is done
func (b *StatusBroadcaster) Run(ctx context.Context) {
	if b.interval <= 0 {
		return
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if err := b.Publish(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Error publishing scheduled status: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close disconnects all subscribers
func (b *StatusBroadcaster) Close() {
	b.server.Close()
}
