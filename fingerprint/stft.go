package fingerprint

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const fftBins = 1025

// frame is a single STFT output: 1025 magnitude bins (or, after
// spreading, 1025 smeared magnitude bins).
type frame [fftBins]float64

// stftStage owns the sample ring and the real-FFT primitive, and turns
// batches of 128 new samples into magnitude frames, which it returns to
// the caller (the caller appends them to its FFT ring).
type stftStage struct {
	samples *ring[float64]
	fft     *fourier.FFT
	excerpt [frameSize]float64
}

func newSTFTStage() *stftStage {
	return &stftStage{
		samples: newRing[float64](frameSize),
		fft:     fourier.NewFFT(frameSize),
	}
}

func (s *stftStage) reset() {
	s.samples.reset()
}

// process appends 128 new samples to the sample ring, forms the
// oldest-first excerpt starting at the cursor, applies the Hann
// window, and returns the 1025-bin magnitude frame of the real FFT.
func (s *stftStage) process(batch []float64) frame {
	for _, v := range batch {
		s.samples.append(v)
	}

	// excerpt = ring[position:] ++ ring[:position], i.e. oldest-first.
	n := s.samples.cap()
	pos := s.samples.position
	for i := 0; i < n; i++ {
		s.excerpt[i] = s.samples.index(pos+i) * hannWindow[i]
	}

	coeffs := s.fft.Coefficients(nil, s.excerpt[:])
	var out frame
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		out[i] = math.Max((re*re+im*im)/(1<<17), 1e-10)
	}
	return out
}
