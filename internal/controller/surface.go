package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/moovidex/engine/internal/player"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// connWriter serializes writes to a websocket connection; the render sink,
// element ops and search sink all write concurrently.
type connWriter struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *slog.Logger
}

func newConnWriter(conn *websocket.Conn, logger *slog.Logger) *connWriter {
	return &connWriter{conn: conn, logger: logger}
}

func (w *connWriter) write(messageType string, payload any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.conn.WriteJSON(&Output{Type: messageType, Payload: payload}); err != nil {
		w.logger.Debug("failed to write to conn", "type", messageType, "error", err)
	}
}

type elementOp struct {
	Op    string  `json:"op"`
	Value float64 `json:"value,omitempty"`
	Flag  bool    `json:"flag,omitempty"`
	URL   string  `json:"url,omitempty"`
}

// surfaceElement is the engine-side view of the surface's native media
// element. Readable fields are samples delivered with MEDIA_EVENT
// messages; mutating calls travel back to the surface as ELEMENT_OP
// messages.
type surfaceElement struct {
	writer *connWriter

	mu           sync.RWMutex
	currentTime  float64
	duration     float64
	bufferedEnd  float64
	volume       float64
	playbackRate float64
	readyState   player.ReadyState
	fullscreen   bool

	events chan player.Event
	closed chan struct{}
}

func newSurfaceElement(writer *connWriter) *surfaceElement {
	return &surfaceElement{
		writer:       writer,
		volume:       1,
		playbackRate: 1,
		events:       make(chan player.Event, 64),
		closed:       make(chan struct{}),
	}
}

// Deliver records the sampled fields of a native event and forwards it to
// the adapter's consumer in delivery order.
func (e *surfaceElement) Deliver(event player.Event) {
	e.mu.Lock()
	e.currentTime = event.CurrentTime
	e.duration = event.Duration
	e.bufferedEnd = event.BufferedEnd
	e.readyState = event.ReadyState
	if event.Volume > 0 || event.Type == player.EventLoadedMetadata {
		e.volume = event.Volume
	}
	if event.PlaybackRate > 0 {
		e.playbackRate = event.PlaybackRate
	}
	e.fullscreen = event.IsFullscreen
	e.mu.Unlock()

	select {
	case e.events <- event:
	case <-e.closed:
	}
}

// Close stops event delivery. Must be called after the read loop that
// feeds Deliver has exited.
func (e *surfaceElement) Close() {
	close(e.closed)
	close(e.events)
}

func (e *surfaceElement) Play(_ context.Context) error {
	e.writer.write("ELEMENT_OP", elementOp{Op: "play"})
	return nil
}

func (e *surfaceElement) Pause() {
	e.writer.write("ELEMENT_OP", elementOp{Op: "pause"})
}

func (e *surfaceElement) SetSource(url string) {
	e.writer.write("ELEMENT_OP", elementOp{Op: "set_source", URL: url})
}

func (e *surfaceElement) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	e.currentTime = seconds
	e.mu.Unlock()
	e.writer.write("ELEMENT_OP", elementOp{Op: "set_current_time", Value: seconds})
}

func (e *surfaceElement) SetVolume(volume float64) {
	e.mu.Lock()
	e.volume = volume
	e.mu.Unlock()
	e.writer.write("ELEMENT_OP", elementOp{Op: "set_volume", Value: volume})
}

func (e *surfaceElement) SetMuted(muted bool) {
	e.writer.write("ELEMENT_OP", elementOp{Op: "set_muted", Flag: muted})
}

func (e *surfaceElement) SetPlaybackRate(rate float64) {
	e.mu.Lock()
	e.playbackRate = rate
	e.mu.Unlock()
	e.writer.write("ELEMENT_OP", elementOp{Op: "set_playback_rate", Value: rate})
}

func (e *surfaceElement) CurrentTime() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentTime
}

func (e *surfaceElement) Duration() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.duration
}

func (e *surfaceElement) ReadyState() player.ReadyState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readyState
}

func (e *surfaceElement) BufferedEnd() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bufferedEnd
}

func (e *surfaceElement) RequestFullscreen() error {
	e.writer.write("ELEMENT_OP", elementOp{Op: "request_fullscreen"})
	return nil
}

func (e *surfaceElement) ExitFullscreen() {
	e.writer.write("ELEMENT_OP", elementOp{Op: "exit_fullscreen"})
}

func (e *surfaceElement) IsFullscreen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fullscreen
}

func (e *surfaceElement) Events() <-chan player.Event {
	return e.events
}
