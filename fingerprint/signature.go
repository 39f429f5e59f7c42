// Package fingerprint implements an audio fingerprint signature
// engine: a sliding short-time Fourier transform pipeline that turns
// 16-bit signed mono PCM at 16 kHz into a compact set of salient
// spectral peaks, and a bit-exact binary codec for that signature.
package fingerprint

import "math"

// FrequencyBand tags the four frequency ranges peaks are partitioned
// into on the wire. The numeric value is the on-wire band tag.
type FrequencyBand int

const (
	Band250To520   FrequencyBand = 0
	Band520To1450  FrequencyBand = 1
	Band1450To3500 FrequencyBand = 2
	Band3500To5500 FrequencyBand = 3
)

func (b FrequencyBand) String() string {
	switch b {
	case Band250To520:
		return "250-520"
	case Band520To1450:
		return "520-1450"
	case Band1450To3500:
		return "1450-3500"
	case Band3500To5500:
		return "3500-5500"
	default:
		return "unknown"
	}
}

// bandCount is the number of storable bands (B_0_250 is conceptual
// only and is never stored or emitted).
const bandCount = 4

// bandFor resolves a corrected frequency in Hz to a storable band, or
// reports false if the frequency falls outside [250, 5500].
func bandFor(hz float64) (FrequencyBand, bool) {
	switch {
	case hz < 250:
		return 0, false
	case hz < 520:
		return Band250To520, true
	case hz < 1450:
		return Band520To1450, true
	case hz < 3500:
		return Band1450To3500, true
	case hz <= 5500:
		return Band3500To5500, true
	default:
		return 0, false
	}
}

// FrequencyPeak is an immutable record of one detected spectral peak.
type FrequencyPeak struct {
	FFTPassNumber             int
	PeakMagnitude             int
	CorrectedPeakFrequencyBin int
	SampleRateHz              int
}

// FrequencyHz converts the sub-bin-resolution corrected bin back to a
// frequency in Hz, undoing the x64 scaling applied during parabolic
// interpolation.
func (p FrequencyPeak) FrequencyHz() float64 {
	return float64(p.CorrectedPeakFrequencyBin) * float64(p.SampleRateHz) / (2 * 1024 * 64)
}

// Seconds is the time offset, in seconds, of the FFT pass this peak
// was detected in.
func (p FrequencyPeak) Seconds() float64 {
	return float64(p.FFTPassNumber*128) / float64(p.SampleRateHz)
}

// AmplitudePCM recovers an approximate PCM amplitude from the
// log-compressed peak magnitude.
func (p FrequencyPeak) AmplitudePCM() float64 {
	return math.Sqrt(math.Exp(float64(p.PeakMagnitude-6144)/1477.3)*(1<<17)/2) / 1024
}

// SampleRate enumerates the sample rates the wire format supports.
type SampleRate int

const (
	SampleRate8000  SampleRate = 8000
	SampleRate11025 SampleRate = 11025
	SampleRate16000 SampleRate = 16000
	SampleRate32000 SampleRate = 32000
	SampleRate44100 SampleRate = 44100
	SampleRate48000 SampleRate = 48000
)

var sampleRateToID = map[int]uint32{
	8000: 1, 11025: 2, 16000: 3, 32000: 4, 44100: 5, 48000: 6,
}

var idToSampleRate = map[uint32]int{
	1: 8000, 2: 11025, 3: 16000, 4: 32000, 5: 44100, 6: 48000,
}

// Signature is the complete aggregate: a sample rate, a total sample
// count, and an ordered set of peaks per band. The zero value is an
// empty signature with no sample rate set (sample rate 0).
type Signature struct {
	sampleRateHz  int
	numberSamples int
	peaks         [bandCount][]FrequencyPeak
}

// SampleRateHz is the sample rate this signature's peaks were
// extracted at.
func (s Signature) SampleRateHz() int { return s.sampleRateHz }

// NumberSamples is the total number of PCM samples folded into this
// signature.
func (s Signature) NumberSamples() int { return s.numberSamples }

// Peaks returns the ordered peak list for a band, or nil if the band
// is empty. The slice must not be mutated by the caller.
func (s Signature) Peaks(band FrequencyBand) []FrequencyPeak {
	if band < 0 || int(band) >= bandCount {
		return nil
	}
	return s.peaks[band]
}

// Seconds is number_samples / sample_rate_hz.
func (s Signature) Seconds() float64 {
	return float64(s.numberSamples) / float64(s.sampleRateHz)
}

// TotalPeaks sums the peak count across every band.
func (s Signature) TotalPeaks() int {
	n := 0
	for _, ps := range s.peaks {
		n += len(ps)
	}
	return n
}

func (s *Signature) appendPeak(band FrequencyBand, peak FrequencyPeak) {
	s.peaks[band] = append(s.peaks[band], peak)
}
