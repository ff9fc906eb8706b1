// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     audio
// Description: Streaming 16-bit PCM WAV writer and reader
// Author:      rdittrich
// License:     MIT
// ============================================================================

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const wavHeaderSize = 44

// WavWriter writes 16-bit PCM samples to a WAV file incrementally. The
// header is written with zero sizes up front and patched on Close, so a
// recording that captured nothing still ends up as a valid (silent) file.
type WavWriter struct {
	f          *os.File
	sampleRate int
	channels   int
	dataBytes  uint32
	closed     bool
}

// NewWavWriter creates the output file and writes the provisional header.
func NewWavWriter(path string, sampleRate, channels int) (*WavWriter, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid WAV format: rate=%d channels=%d", sampleRate, channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &WavWriter{f: f, sampleRate: sampleRate, channels: channels}
	if err := w.writeHeader(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return w, nil
}

func (w *WavWriter) writeHeader() error {
	numChannels := uint16(w.channels)
	bitsPerSample := uint16(16)
	byteRate := uint32(w.sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8
	blockAlign := numChannels * bitsPerSample / 8

	if _, err := w.f.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(w.f, binary.LittleEndian, uint32(36+w.dataBytes)); err != nil {
		return err
	}
	if _, err := w.f.Write([]byte("WAVE")); err != nil {
		return err
	}

	// fmt chunk
	if _, err := w.f.Write([]byte("fmt ")); err != nil {
		return err
	}
	for _, v := range []interface{}{
		uint32(16),          // chunk size
		uint16(1),           // PCM
		numChannels,
		uint32(w.sampleRate),
		byteRate,
		blockAlign,
		bitsPerSample,
	} {
		if err := binary.Write(w.f, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	// data chunk
	if _, err := w.f.Write([]byte("data")); err != nil {
		return err
	}
	return binary.Write(w.f, binary.LittleEndian, w.dataBytes)
}

// WriteSamples appends interleaved int16 samples.
func (w *WavWriter) WriteSamples(samples []int16) error {
	if w.closed {
		return fmt.Errorf("write to closed WAV writer")
	}
	if len(samples) == 0 {
		return nil
	}
	if err := binary.Write(w.f, binary.LittleEndian, samples); err != nil {
		return err
	}
	w.dataBytes += uint32(len(samples) * 2)
	return nil
}

// Frames returns the number of sample frames written so far.
func (w *WavWriter) Frames() int {
	return int(w.dataBytes) / 2 / w.channels
}

// Close patches the header sizes and closes the file. Safe to call twice.
func (w *WavWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		w.f.Close()
		return err
	}
	if err := w.writeHeader(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Clip holds decoded 16-bit PCM audio.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []int16 // interleaved
}

// Frames returns the number of sample frames.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// ReadWavFile decodes a 16-bit PCM WAV file. Chunks other than fmt and
// data are skipped.
func ReadWavFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, fmt.Errorf("reading RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%s: not a WAV file", path)
	}

	clip := &Clip{}
	haveFmt := false

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			var fmtData [16]byte
			if _, err := io.ReadFull(f, fmtData[:]); err != nil {
				return nil, fmt.Errorf("reading fmt chunk: %w", err)
			}
			format := binary.LittleEndian.Uint16(fmtData[0:2])
			clip.Channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			clip.SampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bits := binary.LittleEndian.Uint16(fmtData[14:16])
			if format != 1 || bits != 16 {
				return nil, fmt.Errorf("%s: unsupported WAV format (pcm=%d bits=%d)", path, format, bits)
			}
			haveFmt = true
			if size > 16 {
				if _, err := f.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return nil, err
				}
			}
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%s: data chunk before fmt chunk", path)
			}
			clip.Samples = make([]int16, size/2)
			if err := binary.Read(f, binary.LittleEndian, clip.Samples); err != nil {
				return nil, fmt.Errorf("reading samples: %w", err)
			}
		default:
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("%s: missing fmt chunk", path)
	}
	return clip, nil
}
