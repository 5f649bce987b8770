package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/techadvisor/techadvisor/pkg/core/audio"
	"github.com/techadvisor/techadvisor/pkg/core/live"
)

// ffplaySpeaker renders reply audio by piping s16le PCM into ffplay.
// The pipe itself provides the jitter buffer, so PlayAt writes frames
// immediately and the clock tracks wall time since the process started.
type ffplaySpeaker struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	started time.Time
}

func newFFplaySpeaker() (*ffplaySpeaker, error) {
	if _, err := exec.LookPath("ffplay"); err != nil {
		return nil, errors.New("ffplay is required for voice playback (install ffmpeg/ffplay and ensure it is in PATH)")
	}
	s := &ffplaySpeaker{}
	if err := s.startLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ffplaySpeaker) startLocked() error {
	s.cmd = exec.Command("ffplay",
		"-nodisp",
		"-autoexit",
		"-loglevel", "error",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", audio.PlaybackSampleRate),
		"-ac", "1",
		"-i", "pipe:0",
	)
	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open ffplay stdin: %w", err)
	}
	s.cmd.Stdout = io.Discard
	s.cmd.Stderr = io.Discard
	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start ffplay: %w", err)
	}
	s.stdin = stdin
	s.started = time.Now()
	return nil
}

func (s *ffplaySpeaker) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started).Seconds()
}

func (s *ffplaySpeaker) PlayAt(pcm []float32, _ float64) (live.PlaybackHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stdin == nil {
		return nil, errors.New("ffplay stdin is not initialized")
	}
	if _, err := s.stdin.Write(audio.EncodeFrame(pcm)); err != nil {
		return nil, err
	}
	return noopHandle{}, nil
}

// Reset kills and restarts ffplay, discarding whatever is buffered in
// the pipe. The clock restarts from zero with the new process.
func (s *ffplaySpeaker) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return s.startLocked()
}

func (s *ffplaySpeaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

func (s *ffplaySpeaker) stopLocked() {
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	s.cmd = nil
	s.stdin = nil
	s.started = time.Time{}
}

// noopHandle: bytes already flushed into the pipe cannot be recalled
// individually; barge-in is handled by Reset.
type noopHandle struct{}

func (noopHandle) Stop() {}

// recordingPlayer tees every scheduled frame into a buffer and writes it
// out as a WAV file on Close.
type recordingPlayer struct {
	inner live.Player
	path  string

	mu      sync.Mutex
	samples []float32
}

func newRecordingPlayer(inner *ffplaySpeaker, path string) *recordingPlayer {
	return &recordingPlayer{inner: inner, path: path}
}

func (r *recordingPlayer) Now() float64 { return r.inner.Now() }

func (r *recordingPlayer) PlayAt(pcm []float32, start float64) (live.PlaybackHandle, error) {
	r.mu.Lock()
	r.samples = append(r.samples, pcm...)
	r.mu.Unlock()
	return r.inner.PlayAt(pcm, start)
}

func (r *recordingPlayer) Reset() error { return r.inner.Reset() }

func (r *recordingPlayer) Close() error {
	err := r.inner.Close()

	r.mu.Lock()
	samples := r.samples
	r.samples = nil
	r.mu.Unlock()
	if len(samples) == 0 {
		return err
	}

	wav := audio.PlaybackToWAV(audio.EncodeFrame(samples))
	if writeErr := os.WriteFile(r.path, wav, 0o644); writeErr != nil {
		return writeErr
	}
	return err
}
