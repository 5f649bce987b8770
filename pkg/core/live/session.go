// Package live implements the realtime voice session: microphone frames
// stream to the model over a websocket and synthesized reply audio is
// scheduled gaplessly on the output device.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/techadvisor/techadvisor/pkg/core"
	"github.com/techadvisor/techadvisor/pkg/core/audio"
)

// MicSource produces capture frames from an input device. Start returns
// a channel of mono float32 frames at CaptureSampleRate; the channel is
// closed when the source stops. Close must be safe to call before Start
// and more than once.
type MicSource interface {
	Start() (<-chan []float32, error)
	Close() error
}

// Conn is the websocket surface the session needs. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}

// DialFunc opens the streaming connection. The default implementation
// dials the Gemini endpoint with the API key as a query parameter.
type DialFunc func(ctx context.Context, endpoint string) (Conn, error)

// Session is one voice conversation. Create it with NewSession, start it
// with Connect and always Close it. A session is single-use: once it
// reaches StateError or is closed it cannot be reconnected.
type Session struct {
	cfg    SessionConfig
	mic    MicSource
	player Player
	dial   DialFunc
	log    *slog.Logger

	mu     sync.Mutex
	state  State
	muted  bool
	volume float64
	conn   Conn
	sched  *scheduler
	cancel context.CancelFunc
	closed bool

	wg sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDialer overrides the connection dialer.
func WithDialer(dial DialFunc) SessionOption {
	return func(s *Session) { s.dial = dial }
}

// WithLogger overrides the session logger.
func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// NewSession wires a session from its devices. apiKey is used by the
// default dialer only.
func NewSession(apiKey string, cfg SessionConfig, mic MicSource, player Player, opts ...SessionOption) *Session {
	s := &Session{
		cfg:    cfg.withDefaults(),
		mic:    mic,
		player: player,
		dial:   defaultDialer(apiKey),
		log:    slog.Default(),
		state:  StateDisconnected,
		sched:  newScheduler(player),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultDialer(apiKey string) DialFunc {
	return func(ctx context.Context, endpoint string) (Conn, error) {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("key", apiKey)
		u.RawQuery = q.Encode()

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Volume is the level of the most recent microphone frame, as RMS in
// [0, 1]. It keeps updating while muted.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Muted reports whether capture frames are being discarded.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// SetMuted enables or disables sending of capture frames.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Session) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	return s.muted
}

// Connect acquires the microphone, dials the endpoint, performs the
// setup handshake and starts the streaming loops. On any failure the
// session lands in StateError with everything it acquired released.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.transition(StateDisconnected, StateConnecting); err != nil {
		return err
	}

	frames, err := s.mic.Start()
	if err != nil {
		s.fail()
		return core.NewPermissionError("microphone unavailable", err)
	}

	conn, err := s.dial(ctx, s.cfg.Endpoint)
	if err != nil {
		s.mic.Close()
		s.fail()
		return core.NewTransportError("live connection failed", err)
	}

	if err := s.handshake(conn); err != nil {
		conn.Close()
		s.mic.Close()
		s.fail()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	// Close may have run while the dial and handshake were in flight; a
	// closed session must never come up connected.
	if s.closed || s.state != StateConnecting {
		s.mu.Unlock()
		cancel()
		conn.Close()
		s.mic.Close()
		return core.NewTransportError("session closed during connect", nil)
	}
	s.conn = conn
	s.cancel = cancel
	s.state = StateConnected
	s.mu.Unlock()

	s.wg.Add(2)
	go s.captureLoop(loopCtx, frames)
	go s.readLoop(loopCtx, conn)

	s.log.Info("voice session connected", "model", s.cfg.Model, "voice", s.cfg.Voice)
	return nil
}

func (s *Session) handshake(conn Conn) error {
	if err := conn.WriteJSON(newSetupMessage(s.cfg)); err != nil {
		return core.NewTransportError("setup send failed", err)
	}

	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return core.NewTransportError("setup reply failed", err)
	}
	if msg.SetupComplete == nil {
		return core.NewTransportError("unexpected setup reply", nil)
	}
	return nil
}

func (s *Session) captureLoop(ctx context.Context, frames <-chan []float32) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}

			level := audio.RMS(frame)
			s.mu.Lock()
			s.volume = level
			muted := s.muted
			conn := s.conn
			s.mu.Unlock()

			if muted || conn == nil {
				continue
			}

			if err := conn.WriteJSON(newAudioMessage(audio.EncodePCM16(frame))); err != nil {
				s.streamBroken(fmt.Errorf("audio send: %w", err))
				return
			}
		}
	}
}

func (s *Session) readLoop(ctx context.Context, conn Conn) {
	defer s.wg.Done()

	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				s.streamBroken(fmt.Errorf("server read: %w", err))
			}
			return
		}

		if msg.ServerContent == nil {
			continue
		}
		s.handleContent(msg.ServerContent)
	}
}

func (s *Session) handleContent(content *serverContent) {
	if content.Interrupted {
		if err := s.sched.Interrupt(); err != nil {
			s.log.Warn("playback interrupt failed", "error", err)
		}
		return
	}

	if content.ModelTurn != nil {
		for _, part := range content.ModelTurn.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			if err := s.playChunk(part.InlineData.Data); err != nil {
				// A corrupt frame is a glitch, not a session failure.
				s.log.Warn("reply frame dropped", "error", err)
			}
		}
	}

	if content.TurnComplete {
		s.log.Debug("model turn complete")
	}
}

func (s *Session) playChunk(data string) error {
	raw, err := audio.DecodeBase64(data)
	if err != nil {
		return err
	}
	pcm, err := audio.DecodeFrame(raw)
	if err != nil {
		return err
	}
	_, err = s.sched.Enqueue(pcm)
	return err
}

// streamBroken tears the session down after a mid-stream failure.
func (s *Session) streamBroken(err error) {
	s.mu.Lock()
	if s.closed || s.state != StateConnected {
		s.mu.Unlock()
		return
	}
	s.state = StateError
	cancel := s.cancel
	conn := s.conn
	s.mu.Unlock()

	s.log.Error("voice session lost", "error", err)

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	s.mic.Close()
	s.player.Close()
}

// Close releases the microphone, the connection, the output device and
// anything queued for playback. It is safe to call multiple times and
// from any state.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	wasConnected := s.state == StateConnected
	s.state = StateDisconnected
	cancel := s.cancel
	conn := s.conn
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	s.mic.Close()

	if wasConnected {
		s.wg.Wait()
		if err := s.sched.Interrupt(); err != nil {
			s.log.Warn("playback teardown failed", "error", err)
		}
	}
	s.player.Close()

	s.mu.Lock()
	s.volume = 0
	s.mu.Unlock()

	s.log.Info("voice session closed")
	return nil
}

func (s *Session) transition(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.NewTransportError("session is closed", nil)
	}
	if s.state != from || !validTransition(from, to) {
		return core.NewTransportError(fmt.Sprintf("cannot %s from %s", to, s.state), nil)
	}
	s.state = to
	return nil
}

func (s *Session) fail() {
	s.mu.Lock()
	s.state = StateError
	s.mu.Unlock()
}
