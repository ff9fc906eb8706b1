// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     audio
// Description: Additive mix of two recorded WAV files
// Author:      rdittrich
// License:     MIT
// ============================================================================

package audio

// Mix combines two 16-bit PCM WAV files by sample-wise addition and writes
// the result to outPath. The output takes the sample rate and channel count
// of the first input; the second input is aligned by nearest-frame
// resampling and channel duplication/averaging. The shorter input is
// zero-padded, so the mix is as long as the longer of the two.
func Mix(outPath, pathA, pathB string) error {
	a, err := ReadWavFile(pathA)
	if err != nil {
		return err
	}
	b, err := ReadWavFile(pathB)
	if err != nil {
		return err
	}

	out, err := NewWavWriter(outPath, a.SampleRate, a.Channels)
	if err != nil {
		return err
	}

	framesA := a.Frames()
	framesB := b.Frames()
	// b's frame count expressed in output frames
	framesBOut := framesB
	if b.SampleRate != a.SampleRate && b.SampleRate > 0 {
		framesBOut = int(int64(framesB) * int64(a.SampleRate) / int64(b.SampleRate))
	}
	totalFrames := framesA
	if framesBOut > totalFrames {
		totalFrames = framesBOut
	}

	const chunkFrames = 4096
	buf := make([]int16, 0, chunkFrames*a.Channels)

	for frame := 0; frame < totalFrames; frame++ {
		for ch := 0; ch < a.Channels; ch++ {
			var sum int32
			if frame < framesA {
				sum += int32(a.Samples[frame*a.Channels+ch])
			}
			sum += int32(sampleAt(b, frame, ch, a.SampleRate))
			buf = append(buf, clipSample(sum))
		}

		if len(buf) >= chunkFrames*a.Channels {
			if err := out.WriteSamples(buf); err != nil {
				out.Close()
				return err
			}
			buf = buf[:0]
		}
	}

	if err := out.WriteSamples(buf); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// sampleAt returns the clip's sample for an output frame and channel,
// aligning rate and channel layout to the output format. Out-of-range
// frames read as silence.
func sampleAt(c *Clip, outFrame, outCh, outRate int) int16 {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}

	frame := outFrame
	if c.SampleRate != outRate {
		frame = int(int64(outFrame) * int64(c.SampleRate) / int64(outRate))
	}
	if frame >= c.Frames() {
		return 0
	}

	if outCh < c.Channels {
		return c.Samples[frame*c.Channels+outCh]
	}

	// Fewer source channels than the output: reuse the last one (mono
	// sources play on every output channel).
	return c.Samples[frame*c.Channels+c.Channels-1]
}

func clipSample(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
