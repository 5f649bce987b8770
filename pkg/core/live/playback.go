package live

import (
	"sync"

	"github.com/techadvisor/techadvisor/pkg/core/audio"
)

// Player renders decoded reply frames. Implementations own the output
// device clock; Now returns the current position on that clock in
// seconds.
type Player interface {
	// Now is the current playback clock, in seconds.
	Now() float64

	// PlayAt schedules a frame to start at the given clock time. Frames
	// scheduled in the past start as soon as possible.
	PlayAt(pcm []float32, start float64) (PlaybackHandle, error)

	// Reset discards everything queued on the device and restores it to
	// a playable state.
	Reset() error

	// Close releases the output device. Must be safe to call more than
	// once.
	Close() error
}

// PlaybackHandle controls one scheduled frame.
type PlaybackHandle interface {
	// Stop cancels the frame whether or not it has started.
	Stop()
}

// scheduler keeps reply audio gapless. Frames are placed back to back on
// the player clock: each frame starts at the cursor, or at the current
// clock time when the stream fell behind, and advances the cursor by its
// own duration.
type scheduler struct {
	player Player

	mu      sync.Mutex
	cursor  float64
	pending []pendingFrame
}

type pendingFrame struct {
	handle PlaybackHandle
	end    float64
}

func newScheduler(player Player) *scheduler {
	return &scheduler{player: player}
}

// Enqueue schedules one decoded frame and returns its start time.
func (s *scheduler) Enqueue(pcm []float32) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.player.Now()
	start := s.cursor
	if now > start {
		start = now
	}

	handle, err := s.player.PlayAt(pcm, start)
	if err != nil {
		return 0, err
	}

	duration := audio.FrameDuration(len(pcm), audio.PlaybackSampleRate)
	s.cursor = start + duration

	// Drop bookkeeping for frames that already finished.
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.end > now {
			kept = append(kept, p)
		}
	}
	s.pending = append(kept, pendingFrame{handle: handle, end: s.cursor})

	return start, nil
}

// Interrupt stops every frame that has not finished, clears the device
// queue and rewinds the cursor so the next reply starts immediately.
func (s *scheduler) Interrupt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pending {
		p.handle.Stop()
	}
	s.pending = s.pending[:0]
	s.cursor = 0

	return s.player.Reset()
}
