package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/techadvisor/techadvisor/pkg/core"
	"github.com/techadvisor/techadvisor/pkg/core/audio"
)

type fakeMic struct {
	mu       sync.Mutex
	frames   chan []float32
	startErr error
	started  bool
	closes   int
}

func newFakeMic() *fakeMic {
	return &fakeMic{frames: make(chan []float32, 16)}
}

func (m *fakeMic) Start() (<-chan []float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return nil, m.startErr
	}
	m.started = true
	return m.frames, nil
}

func (m *fakeMic) Close() error {
	m.mu.Lock()
	m.closes++
	m.mu.Unlock()
	return nil
}

func (m *fakeMic) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

type fakeConn struct {
	mu     sync.Mutex
	writes []any
	reads  chan serverMessage
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads: make(chan serverMessage, 16),
		done:  make(chan struct{}),
	}
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	c.writes = append(c.writes, v)
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) ReadJSON(v any) error {
	select {
	case msg := <-c.reads:
		*v.(*serverMessage) = msg
		return nil
	case <-c.done:
		return errors.New("connection closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *fakeConn) Writes() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.writes))
	copy(out, c.writes)
	return out
}

func dialTo(conn *fakeConn) DialFunc {
	return func(context.Context, string) (Conn, error) {
		return conn, nil
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestSession(mic *fakeMic, conn *fakeConn, player *fakePlayer) *Session {
	return NewSession("test-key", SessionConfig{}, mic, player, WithDialer(dialTo(conn)))
}

func TestConnectLifecycle(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	player := &fakePlayer{}
	session := newTestSession(mic, conn, player)

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got := session.State(); got != StateConnected {
		t.Fatalf("state = %v", got)
	}

	writes := conn.Writes()
	if len(writes) == 0 {
		t.Fatal("no setup write")
	}
	setup, ok := writes[0].(setupMessage)
	if !ok {
		t.Fatalf("first write is %T", writes[0])
	}
	if setup.Setup.Model != "models/"+DefaultModel {
		t.Errorf("setup model = %q", setup.Setup.Model)
	}
	if setup.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != DefaultVoice {
		t.Errorf("setup voice = %+v", setup.Setup.GenerationConfig)
	}

	mic.frames <- make([]float32, 4096)
	waitFor(t, "audio frame write", func() bool {
		for _, w := range conn.Writes() {
			if _, ok := w.(realtimeInputMessage); ok {
				return true
			}
		}
		return false
	})

	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := session.State(); got != StateDisconnected {
		t.Errorf("state after close = %v", got)
	}
	if mic.Closes() == 0 {
		t.Error("mic not released")
	}
	if player.Closes() == 0 {
		t.Error("player not released")
	}
}

func TestConnectMicrophoneDenied(t *testing.T) {
	mic := newFakeMic()
	mic.startErr = errors.New("device busy")
	dialed := false
	session := NewSession("test-key", SessionConfig{}, mic, &fakePlayer{},
		WithDialer(func(context.Context, string) (Conn, error) {
			dialed = true
			return newFakeConn(), nil
		}))

	err := session.Connect(context.Background())
	if !errors.Is(err, &core.Error{Type: core.ErrPermission}) {
		t.Errorf("error = %v, want permission error", err)
	}
	if session.State() != StateError {
		t.Errorf("state = %v, want error", session.State())
	}
	if dialed {
		t.Error("dialed despite microphone failure")
	}
}

func TestConnectDialFailure(t *testing.T) {
	mic := newFakeMic()
	session := NewSession("test-key", SessionConfig{}, mic, &fakePlayer{},
		WithDialer(func(context.Context, string) (Conn, error) {
			return nil, errors.New("no route")
		}))

	err := session.Connect(context.Background())
	if !errors.Is(err, &core.Error{Type: core.ErrTransport}) {
		t.Errorf("error = %v, want transport error", err)
	}
	if session.State() != StateError {
		t.Errorf("state = %v", session.State())
	}
	if mic.Closes() == 0 {
		t.Error("mic not released after dial failure")
	}
}

func TestConnectHandshakeRejected(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{} // not a setupComplete
	session := newTestSession(mic, conn, &fakePlayer{})

	if err := session.Connect(context.Background()); err == nil {
		t.Fatal("expected handshake error")
	}
	if session.State() != StateError {
		t.Errorf("state = %v", session.State())
	}
	if mic.Closes() == 0 {
		t.Error("mic not released after handshake failure")
	}
}

func TestSessionIsSingleUse(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	session := newTestSession(mic, conn, &fakePlayer{})

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	session.Close()
	session.Close() // idempotent

	if err := session.Connect(context.Background()); err == nil {
		t.Error("reconnect should be rejected")
	}
}

func TestMuteDropsFramesButTracksVolume(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	session := newTestSession(mic, conn, &fakePlayer{})

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Close()

	session.SetMuted(true)

	frame := make([]float32, 4096)
	for i := range frame {
		frame[i] = 0.5
	}
	mic.frames <- frame

	waitFor(t, "volume update", func() bool { return session.Volume() > 0.49 })

	for _, w := range conn.Writes() {
		if _, ok := w.(realtimeInputMessage); ok {
			t.Fatal("muted frame was sent")
		}
	}

	if session.ToggleMute() {
		t.Error("ToggleMute should report unmuted")
	}
	mic.frames <- frame
	waitFor(t, "unmuted frame write", func() bool {
		for _, w := range conn.Writes() {
			if _, ok := w.(realtimeInputMessage); ok {
				return true
			}
		}
		return false
	})
}

func TestInterruptionStopsPendingAudio(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	player := &fakePlayer{}
	session := newTestSession(mic, conn, player)

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Close()

	chunk := audio.EncodePCM16(make([]float32, 2400))
	conn.reads <- serverMessage{ServerContent: &serverContent{
		ModelTurn: &modelTurn{Parts: []contentPart{
			{InlineData: &inlineData{MIMEType: "audio/pcm;rate=24000", Data: chunk.Data}},
		}},
	}}

	waitFor(t, "reply frame scheduled", func() bool { return len(player.Frames()) == 1 })

	conn.reads <- serverMessage{ServerContent: &serverContent{Interrupted: true}}

	waitFor(t, "playback interrupted", func() bool {
		frames := player.Frames()
		return frames[0].handle.Stopped() && player.Resets() == 1
	})
}

func TestCorruptReplyFrameIsNonFatal(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	player := &fakePlayer{}
	session := newTestSession(mic, conn, player)

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Close()

	good := audio.EncodePCM16(make([]float32, 2400))
	conn.reads <- serverMessage{ServerContent: &serverContent{
		ModelTurn: &modelTurn{Parts: []contentPart{
			{InlineData: &inlineData{Data: "not base64 %%%"}},
			{InlineData: &inlineData{Data: good.Data}},
		}},
	}}

	waitFor(t, "good frame after corrupt one", func() bool { return len(player.Frames()) == 1 })
	if session.State() != StateConnected {
		t.Errorf("state = %v, corrupt frame must not end the session", session.State())
	}
}

func TestCloseDuringConnect(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	player := &fakePlayer{}

	var session *Session
	session = NewSession("test-key", SessionConfig{}, mic, player,
		WithDialer(func(context.Context, string) (Conn, error) {
			session.Close()
			return conn, nil
		}))

	if err := session.Connect(context.Background()); err == nil {
		t.Fatal("Connect must fail when the session was closed under it")
	}
	if got := session.State(); got != StateDisconnected {
		t.Errorf("state = %v, want disconnected", got)
	}
	if !conn.Closed() {
		t.Error("connection left open")
	}
	if mic.Closes() == 0 {
		t.Error("mic not released")
	}
	if player.Closes() == 0 {
		t.Error("player not released")
	}
}

func TestStreamFailureReleasesDevices(t *testing.T) {
	mic := newFakeMic()
	conn := newFakeConn()
	conn.reads <- serverMessage{SetupComplete: &struct{}{}}
	player := &fakePlayer{}
	session := newTestSession(mic, conn, player)

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Kill the socket out from under the read loop.
	conn.Close()

	waitFor(t, "session failure", func() bool { return session.State() == StateError })
	waitFor(t, "devices released", func() bool {
		return mic.Closes() > 0 && player.Closes() > 0
	})
}

func TestCloseBeforeConnect(t *testing.T) {
	player := &fakePlayer{}
	session := newTestSession(newFakeMic(), newFakeConn(), player)
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if session.State() != StateDisconnected {
		t.Errorf("state = %v", session.State())
	}
	if player.Closes() == 0 {
		t.Error("player not released")
	}
}
