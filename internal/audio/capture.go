// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     audio
// Description: PortAudio capture with live level metering
// Author:      rdittrich
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/rdittrich/recap/pkg/core/apperr"
	"github.com/rdittrich/recap/pkg/core/logging"
)

const (
	// DefaultSampleRate is the microphone capture rate
	DefaultSampleRate = 44100

	// DefaultFramesPerBuffer is the capture buffer size in frames
	DefaultFramesPerBuffer = 1024

	// micChannels is stereo capture for the microphone path
	micChannels = 2
)

// CaptureConfig holds recorder configuration.
type CaptureConfig struct {
	SampleRate      int
	FramesPerBuffer int
	InputDevice     string // microphone device name (empty = default)
	LoopbackDevice  string // system monitor device name (empty = default)
	ScratchDir      string // where in-flight WAV files are written

	// OnStatus receives every recorder state transition.
	OnStatus func(StatusEvent)

	// OnLevel receives the peak normalized amplitude of each delivered
	// buffer, in [0,1].
	OnLevel func(float64)
}

// Recorder owns one or two PortAudio input streams and writes their samples
// to WAV files. On Stop with both sources active the two files are mixed
// into a third, which becomes the canonical recording.
type Recorder struct {
	mu     sync.Mutex
	cfg    CaptureConfig
	log    *logging.Logger
	status Status
	source Source
	mic    *captureStream
	system *captureStream
	stamp  string
	paUp   bool
}

// NewRecorder creates a recorder. No audio resources are acquired until
// Start.
func NewRecorder(cfg CaptureConfig) *Recorder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = DefaultFramesPerBuffer
	}
	return &Recorder{
		cfg:    cfg,
		log:    logging.New("audio"),
		status: StatusIdle,
	}
}

// Status returns the current recorder state.
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Start begins capturing from the given source. It fails if a recording is
// already active. Any resource acquired before a failure is released again
// before Start returns.
func (r *Recorder) Start(source Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusRecording || r.status == StatusStopping {
		return apperr.New(apperr.CodeAlreadyRecording, "a recording is already active")
	}

	if err := os.MkdirAll(r.cfg.ScratchDir, 0o755); err != nil {
		return apperr.Wrap(err, apperr.CodeDevice, "creating scratch directory")
	}

	if err := portaudio.Initialize(); err != nil {
		r.setStatusLocked(StatusError, "", err)
		return apperr.Wrap(err, apperr.CodeDevice, "initializing audio subsystem")
	}
	r.paUp = true

	r.stamp = time.Now().Format("20060102_150405")
	fail := func(err error) error {
		r.teardownStreamsLocked()
		r.setStatusLocked(StatusError, "", err)
		return err
	}

	if source == SourceMicrophone || source == SourceBoth {
		path := filepath.Join(r.cfg.ScratchDir, fmt.Sprintf("mic_%s.wav", r.stamp))
		cs, err := openCaptureStream("mic", r.cfg.InputDevice, r.cfg.SampleRate, micChannels, r.cfg.FramesPerBuffer, path, r.cfg.OnLevel)
		if err != nil {
			return fail(apperr.Wrap(err, apperr.CodeDevice, "opening microphone stream"))
		}
		r.mic = cs
	}

	if source == SourceSystem || source == SourceBoth {
		path := filepath.Join(r.cfg.ScratchDir, fmt.Sprintf("system_%s.wav", r.stamp))
		cs, err := openCaptureStream("system", r.cfg.LoopbackDevice, 0, 0, r.cfg.FramesPerBuffer, path, r.cfg.OnLevel)
		if err != nil {
			if source == SourceBoth && r.mic != nil {
				// Keep recording from the surviving source rather than
				// aborting the whole session.
				r.log.Warn("system capture unavailable, continuing with microphone only", "error", err)
			} else {
				return fail(apperr.Wrap(err, apperr.CodeDevice, "opening system loopback stream"))
			}
		} else {
			r.system = cs
		}
	}

	for _, cs := range []*captureStream{r.mic, r.system} {
		if cs == nil {
			continue
		}
		if err := cs.start(); err != nil {
			return fail(apperr.Wrap(err, apperr.CodeDevice, "starting "+cs.name+" stream"))
		}
	}

	r.source = source
	r.setStatusLocked(StatusRecording, r.primaryPathLocked(), nil)
	r.log.Info("recording started", "source", source.String(), "path", r.primaryPathLocked())
	return nil
}

// Stop halts capture, finalizes the WAV files and returns the canonical
// recording path. Stopping an idle recorder is a no-op. Device handles are
// released on every path, including a failed mix.
func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	if r.status != StatusRecording {
		r.mu.Unlock()
		return "", nil
	}
	r.status = StatusStopping
	r.emit(StatusEvent{Status: StatusStopping, Path: r.primaryPathLocked()})

	mic, system := r.mic, r.system
	source, stamp := r.source, r.stamp
	r.mu.Unlock()

	// Teardown outside the lock: stream shutdown waits for the capture
	// goroutines, which must never be blocked by the recorder mutex.
	if mic != nil {
		mic.shutdown()
	}
	if system != nil {
		system.shutdown()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardownStreamsLocked()

	result, err := r.finalize(mic, system, source, stamp)
	if err != nil {
		r.setStatusLocked(StatusError, result, err)
		return result, err
	}

	r.setStatusLocked(StatusIdle, result, nil)
	r.log.Info("recording stopped", "path", result)
	return result, nil
}

// finalize picks (or produces) the canonical output file.
func (r *Recorder) finalize(mic, system *captureStream, source Source, stamp string) (string, error) {
	micOK := mic != nil && mic.frames() > 0
	systemOK := system != nil && system.frames() > 0

	switch {
	case source == SourceMicrophone:
		return mic.path, nil
	case source == SourceSystem:
		return system.path, nil
	case micOK && systemOK:
		mixed := filepath.Join(r.cfg.ScratchDir, fmt.Sprintf("meeting_%s.wav", stamp))
		if err := Mix(mixed, mic.path, system.path); err != nil {
			return mic.path, apperr.Wrap(err, apperr.CodeDevice, "mixing recorded sources")
		}
		return mixed, nil
	case systemOK:
		r.log.Warn("microphone captured nothing, using system audio only")
		return system.path, nil
	case mic != nil:
		// Covers both "system failed" and "nothing captured at all";
		// an empty microphone file is still a valid silent recording.
		if system != nil {
			r.log.Warn("system audio captured nothing, using microphone only")
		}
		return mic.path, nil
	default:
		return "", apperr.New(apperr.CodeDevice, "no audio was captured")
	}
}

func (r *Recorder) primaryPathLocked() string {
	if r.mic != nil {
		return r.mic.path
	}
	if r.system != nil {
		return r.system.path
	}
	return ""
}

func (r *Recorder) setStatusLocked(s Status, path string, err error) {
	r.status = s
	r.emit(StatusEvent{Status: s, Path: path, Err: err})
}

func (r *Recorder) emit(ev StatusEvent) {
	if r.cfg.OnStatus != nil {
		r.cfg.OnStatus(ev)
	}
}

// teardownStreamsLocked releases stream handles and the PortAudio context.
// Safe to call with partially opened streams after a failed Start.
func (r *Recorder) teardownStreamsLocked() {
	if r.mic != nil {
		r.mic.shutdown()
		r.mic = nil
	}
	if r.system != nil {
		r.system.shutdown()
		r.system = nil
	}
	if r.paUp {
		if err := portaudio.Terminate(); err != nil {
			r.log.Warn("terminating audio subsystem", "error", err)
		}
		r.paUp = false
	}
}

// captureStream is one PortAudio input stream writing to one WAV file.
type captureStream struct {
	name   string
	path   string
	stream *portaudio.Stream
	writer *WavWriter
	buf    []int16

	mu      sync.RWMutex
	running bool
	onLevel func(float64)
	done    chan struct{}
	downed  bool
}

// openCaptureStream opens the device and creates the output file. A zero
// sampleRate/channels means "use the device's native format", which is how
// the system loopback device is opened.
func openCaptureStream(name, deviceName string, sampleRate, channels, framesPerBuffer int, path string, onLevel func(float64)) (*captureStream, error) {
	device, err := findInputDevice(deviceName)
	if err != nil {
		return nil, err
	}

	if sampleRate <= 0 {
		sampleRate = int(device.DefaultSampleRate)
	}
	if channels <= 0 {
		channels = device.MaxInputChannels
		if channels > 2 {
			channels = 2
		}
	}
	if channels > device.MaxInputChannels {
		channels = device.MaxInputChannels
	}
	if channels <= 0 {
		return nil, fmt.Errorf("device %q has no input channels", device.Name)
	}

	writer, err := NewWavWriter(path, sampleRate, channels)
	if err != nil {
		return nil, err
	}

	cs := &captureStream{
		name:    name,
		path:    path,
		writer:  writer,
		buf:     make([]int16, framesPerBuffer*channels),
		onLevel: onLevel,
		done:    make(chan struct{}),
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}
	stream, err := portaudio.OpenStream(params, cs.buf)
	if err != nil {
		writer.Close()
		os.Remove(path)
		return nil, fmt.Errorf("opening stream on %q: %w", device.Name, err)
	}
	cs.stream = stream
	return cs, nil
}

// findInputDevice resolves a device by name, falling back to the default
// input device for an empty name.
func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" || name == "default" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if dev.Name == name && dev.MaxInputChannels > 0 {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("input device not found: %s", name)
}

func (cs *captureStream) start() error {
	if err := cs.stream.Start(); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.running = true
	cs.mu.Unlock()

	go cs.captureLoop()
	return nil
}

// captureLoop reads buffers from the stream until the stream is stopped.
// The level callback is read under the lock so shutdown can unsubscribe it
// before releasing the underlying stream.
func (cs *captureStream) captureLoop() {
	defer close(cs.done)

	for {
		cs.mu.RLock()
		running := cs.running
		onLevel := cs.onLevel
		cs.mu.RUnlock()
		if !running {
			return
		}

		if err := cs.stream.Read(); err != nil {
			cs.mu.RLock()
			running = cs.running
			cs.mu.RUnlock()
			if !running {
				return
			}
			// Transient overflow: keep reading
			continue
		}

		if err := cs.writer.WriteSamples(cs.buf); err != nil {
			return
		}
		if onLevel != nil {
			onLevel(peakLevel(cs.buf))
		}
	}
}

// shutdown unsubscribes callbacks, stops the stream, waits for the capture
// goroutine and finalizes the WAV file. Safe to call more than once.
func (cs *captureStream) shutdown() {
	cs.mu.Lock()
	if cs.downed {
		cs.mu.Unlock()
		return
	}
	cs.downed = true
	wasRunning := cs.running
	cs.running = false
	cs.onLevel = nil
	cs.mu.Unlock()

	if cs.stream != nil {
		cs.stream.Stop()
		cs.stream.Close()
	}
	if wasRunning {
		<-cs.done
	}
	cs.writer.Close()
}

func (cs *captureStream) frames() int {
	return cs.writer.Frames()
}

// peakLevel returns the peak normalized absolute amplitude of a buffer.
func peakLevel(samples []int16) float64 {
	var peak int32
	for _, s := range samples {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return float64(peak) / 32768.0
}
