package main

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/techadvisor/techadvisor/pkg/core/audio"
	"github.com/techadvisor/techadvisor/pkg/core/live"
)

// ffmpegMicSource captures the default input device through ffmpeg as
// 16kHz mono s16le and delivers fixed-size float32 frames.
type ffmpegMicSource struct {
	frameSize int

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	frames chan []float32
	quit   chan struct{}
	closed bool
}

func newFFmpegMicSource(frameSize int) *ffmpegMicSource {
	if frameSize <= 0 {
		frameSize = live.DefaultFrameSize
	}
	return &ffmpegMicSource{frameSize: frameSize}
}

func (m *ffmpegMicSource) Start() (<-chan []float32, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.New("ffmpeg is required for voice capture (install ffmpeg and ensure it is in PATH)")
	}
	args, err := micCaptureArgs(runtime.GOOS)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New("microphone source already closed")
	}

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open ffmpeg stdout: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg mic capture: %w", err)
	}

	m.cmd = cmd
	m.stdout = stdout
	m.frames = make(chan []float32, 4)
	m.quit = make(chan struct{})
	go m.readLoop(stdout, m.frames, m.quit)

	return m.frames, nil
}

func micCaptureArgs(goos string) ([]string, error) {
	rate := fmt.Sprintf("%d", audio.CaptureSampleRate)
	switch goos {
	case "darwin":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-i", ":0",
			"-ac", "1", "-ar", rate,
			"-f", "s16le", "-",
		}, nil
	case "linux":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "pulse", "-i", "default",
			"-ac", "1", "-ar", rate,
			"-f", "s16le", "-",
		}, nil
	default:
		return nil, fmt.Errorf("voice capture is not implemented for %s; supported platforms: darwin, linux", goos)
	}
}

func (m *ffmpegMicSource) readLoop(r io.Reader, out chan<- []float32, quit <-chan struct{}) {
	defer close(out)

	buf := make([]byte, m.frameSize*2)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return
		}
		frame, err := audio.DecodeFrame(buf)
		if err != nil {
			return
		}
		select {
		case out <- frame:
		case <-quit:
			return
		}
	}
}

func (m *ffmpegMicSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.quit != nil {
		close(m.quit)
	}
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Kill()
		m.cmd.Wait()
		m.cmd = nil
	}
	return nil
}
