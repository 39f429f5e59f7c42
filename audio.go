package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"github.com/vibesync/sigprint/fingerprint"
)

// loadPCM16kHzMono decodes a WAV file and resamples it to 16 kHz mono
// 16-bit signed PCM, the format the fingerprint engine consumes.
// Compressed containers (mp3, vorbis) are a non-goal here; any input
// not sniffed as WAV is rejected with an error.
func loadPCM16kHzMono(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mimeBuf := make([]byte, 512)
	if _, err := f.ReadAt(mimeBuf, 0); err != nil {
		return nil, fmt.Errorf("detecting audio format: %w", err)
	}
	if mime := http.DetectContentType(mimeBuf); mime != "audio/wave" {
		return nil, fmt.Errorf("unsupported audio format %q (only WAV is supported)", mime)
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	defer stream.Close()

	resampled := beep.Resample(6, format.SampleRate, beep.SampleRate(16000), toMono(stream))

	var out []int16
	buf := make([][2]float64, 512)
	for {
		n, ok := resampled.Stream(buf)
		for i := 0; i < n; i++ {
			v := buf[i][0]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			out = append(out, int16(v*32767))
		}
		if !ok {
			break
		}
	}
	return out, nil
}

// toMono collapses a stereo streamer to mono by averaging channels;
// it passes mono streamers through unchanged.
func toMono(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			avg := (samples[i][0] + samples[i][1]) / 2
			samples[i][0], samples[i][1] = avg, avg
		}
		return n, ok
	})
}

// generateSignatures feeds every sample through a fingerprint
// Generator configured by opts and returns every signature it emits,
// reporting progress as it goes via progress (which may be nil).
func generateSignatures(samples []int16, progress func(fed, total int), opts ...fingerprint.GeneratorOption) []fingerprint.Signature {
	g := fingerprint.NewGenerator(opts...)

	const chunk = 16000 // feed in ~1-second slices so progress reports stay granular
	var sigs []fingerprint.Signature
	for fed := 0; fed < len(samples); fed += chunk {
		end := fed + chunk
		if end > len(samples) {
			end = len(samples)
		}
		g.FeedInput(samples[fed:end])
		if progress != nil {
			progress(end, len(samples))
		}
		for {
			sig, ok := g.GetNextSignature()
			if !ok {
				break
			}
			sigs = append(sigs, sig)
		}
	}
	return sigs
}
