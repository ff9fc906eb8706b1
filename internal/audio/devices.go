// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     audio
// Description: Input device enumeration
// Author:      rdittrich
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// DeviceInfo describes an audio input device.
type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListInputDevices returns all devices with input channels. Loopback and
// monitor devices show up here too, which is how system audio capture is
// configured.
func ListInputDevices() ([]DeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing audio subsystem: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}

	var defaultName string
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultName = def.Name
	}

	var inputs []DeviceInfo
	for _, dev := range devices {
		if dev.MaxInputChannels > 0 {
			inputs = append(inputs, DeviceInfo{
				Name:              dev.Name,
				MaxInputChannels:  dev.MaxInputChannels,
				DefaultSampleRate: dev.DefaultSampleRate,
				IsDefault:         dev.Name == defaultName,
			})
		}
	}
	return inputs, nil
}
