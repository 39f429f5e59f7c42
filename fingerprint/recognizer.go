package fingerprint

import "math"

// freqNeighborOffsets are the bin offsets (relative to the candidate
// bin) checked against s49 to establish a frequency-domain local
// maximum.
var freqNeighborOffsets = [8]int{-10, -7, -4, -3, 1, 2, 5, 8}

// timeNeighborOffsets are the spread-ring offsets (relative to the
// ring's write cursor) checked to establish a time-domain local
// maximum, on top of the -49 frame already covered by the
// freqNeighborOffsets check against s49.
var timeNeighborOffsets = []int{
	-53, -45,
	165, 172, 179, 186, 193, 200,
	214, 221, 228, 235, 242, 249,
}

const (
	minFreqBin  = 10
	maxFreqBin  = 1015 // exclusive
	magnitudeLn = 1477.3
	magnitudeDC = 6144.0
	magFloor    = 1.0 / 64.0
)

// detectedPeak is a peak found by recognize, not yet assigned a band.
type detectedPeak struct {
	pass      int
	magnitude float64
	bin       float64
}

// recognize runs the peak-detection pass over the 46th-most-recent FFT
// frame, once the spread ring holds enough history. It returns every
// detected peak along with its resolved frequency band; peaks outside
// [250, 5500] Hz (see bandFor) are omitted entirely, matching the
// source's silent rejection.
func recognize(fftRing, spreadRing *ring[frame], sampleRateHz int) []struct {
	peak FrequencyPeak
	band FrequencyBand
} {
	fft46 := fftRing.at(-46)
	s49 := spreadRing.at(-49)

	var results []struct {
		peak FrequencyPeak
		band FrequencyBand
	}

	for p := minFreqBin; p < maxFreqBin; p++ {
		if fft46[p] < magFloor || fft46[p] < s49[p-1] {
			continue
		}

		maxFreqNeighbor := 0.0
		for _, off := range freqNeighborOffsets {
			if v := s49[p+off]; v > maxFreqNeighbor {
				maxFreqNeighbor = v
			}
		}
		if fft46[p] <= maxFreqNeighbor {
			continue
		}

		maxTimeNeighbor := maxFreqNeighbor
		for _, off := range timeNeighborOffsets {
			other := spreadRing.at(off)
			if v := other[p-1]; v > maxTimeNeighbor {
				maxTimeNeighbor = v
			}
		}
		if fft46[p] <= maxTimeNeighbor {
			continue
		}

		m0 := compress(fft46[p])
		mMinus := compress(fft46[p-1])
		mPlus := compress(fft46[p+1])

		v1 := 2*m0 - mMinus - mPlus
		if v1 <= 0 {
			continue
		}
		v2 := (mPlus - mMinus) * 32 / v1
		correctedBin := float64(p*64) + v2

		freqHz := correctedBin * (float64(sampleRateHz) / 2 / 1024 / 64)
		band, ok := bandFor(freqHz)
		if !ok {
			continue
		}

		passNumber := spreadRing.written - 46
		results = append(results, struct {
			peak FrequencyPeak
			band FrequencyBand
		}{
			peak: FrequencyPeak{
				FFTPassNumber:             passNumber,
				PeakMagnitude:             int(math.Floor(m0)),
				CorrectedPeakFrequencyBin: int(math.Floor(correctedBin)),
				SampleRateHz:              sampleRateHz,
			},
			band: band,
		})
	}
	return results
}

// compress applies the log-magnitude compression shared by the peak
// and its two frequency-adjacent bins during parabolic interpolation.
func compress(magnitude float64) float64 {
	return math.Log(math.Max(magnitude, magFloor))*magnitudeLn + magnitudeDC
}
