// Package audio converts between float sample frames and the wire format
// of the live voice endpoint: base64-encoded 16-bit little-endian PCM.
package audio

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/techadvisor/techadvisor/pkg/core"
)

const (
	// CaptureSampleRate is the microphone capture rate in Hz.
	CaptureSampleRate = 16000
	// PlaybackSampleRate is the rate of inbound model audio in Hz.
	PlaybackSampleRate = 24000
	// CaptureMIMEType tags outbound media chunks.
	CaptureMIMEType = "audio/pcm;rate=16000"

	bytesPerSample = 2
)

// Blob is a base64 payload tagged with its mime type, ready to enqueue
// on the live socket.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// EncodeFrame scales float samples in [-1,1] to signed 16-bit
// little-endian PCM bytes. Samples outside the valid range are clamped.
func EncodeFrame(samples []float32) []byte {
	pcm := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		pcm[i*2] = byte(v)
		pcm[i*2+1] = byte(v >> 8)
	}
	return pcm
}

// EncodePCM16 encodes a sample frame and base64-encodes the result,
// tagged for the live socket. Pure function, no I/O.
func EncodePCM16(samples []float32) Blob {
	return Blob{
		MIMEType: CaptureMIMEType,
		Data:     base64.StdEncoding.EncodeToString(EncodeFrame(samples)),
	}
}

// DecodeFrame interprets data as 16-bit little-endian PCM and returns
// mono float samples normalized to [-1,1]. Returns a decode error when
// the byte length is not a multiple of 2.
func DecodeFrame(data []byte) ([]float32, error) {
	if len(data)%bytesPerSample != 0 {
		return nil, core.NewDecodeError(fmt.Sprintf("pcm frame length %d is not a multiple of 2", len(data)))
	}
	samples := make([]float32, len(data)/bytesPerSample)
	for i := range samples {
		v := int16(data[i*2]) | int16(data[i*2+1])<<8
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

// DecodeBase64 decodes a standard base64 payload.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, core.NewFormatError("malformed base64 payload", err)
	}
	return data, nil
}

// RMS computes the root-mean-square amplitude of a sample frame. This is
// the visualizer signal; it is computed for every captured frame, muted
// or not.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// FrameDuration returns the playback duration in seconds of a sample
// frame at the given rate.
func FrameDuration(sampleCount, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(sampleCount) / float64(sampleRate)
}
