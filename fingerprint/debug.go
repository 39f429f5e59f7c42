package fingerprint

import "encoding/json"

// debugPeak is the JSON shape of one peak in DebugJSON's output.
type debugPeak struct {
	FFTPassNumber int     `json:"fft_pass_number"`
	PeakMagnitude int     `json:"peak_magnitude"`
	FrequencyBin  int     `json:"corrected_peak_frequency_bin"`
	FrequencyHz   float64 `json:"frequency_hz"`
	Seconds       float64 `json:"seconds"`
	AmplitudePCM  float64 `json:"amplitude_pcm"`
}

// debugSignature is the JSON shape of DebugJSON's top-level object.
type debugSignature struct {
	SampleRateHz  int                    `json:"sample_rate_hz"`
	NumberSamples int                    `json:"number_samples"`
	Seconds       float64                `json:"seconds"`
	Bands         map[string][]debugPeak `json:"bands"`
}

// DebugJSON renders a human-readable JSON dump of the signature. It is
// purely diagnostic: the layout is not part of the wire format and
// carries no compatibility guarantee, unlike Encode/Decode.
func (s Signature) DebugJSON() ([]byte, error) {
	out := debugSignature{
		SampleRateHz:  s.sampleRateHz,
		NumberSamples: s.numberSamples,
		Seconds:       s.Seconds(),
		Bands:         make(map[string][]debugPeak, bandCount),
	}
	for band := 0; band < bandCount; band++ {
		peaks := s.peaks[band]
		if len(peaks) == 0 {
			continue
		}
		list := make([]debugPeak, len(peaks))
		for i, p := range peaks {
			list[i] = debugPeak{
				FFTPassNumber: p.FFTPassNumber,
				PeakMagnitude: p.PeakMagnitude,
				FrequencyBin:  p.CorrectedPeakFrequencyBin,
				FrequencyHz:   p.FrequencyHz(),
				Seconds:       p.Seconds(),
				AmplitudePCM:  p.AmplitudePCM(),
			}
		}
		out.Bands[FrequencyBand(band).String()] = list
	}
	return json.MarshalIndent(out, "", "  ")
}
