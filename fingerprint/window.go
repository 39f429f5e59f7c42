package fingerprint

import "math"

const frameSize = 2048

// hannWindow is Hann(2050) with the leading and trailing zero-valued
// samples clipped, yielding 2048 coefficients. This is deliberately
// *not* Hann(2048) — the off-by-two length changes every coefficient
// slightly, and bit-exact parity with reference signatures depends on
// using the 2050-point window.
var hannWindow = makeHannWindow()

func makeHannWindow() [frameSize]float64 {
	const n = frameSize + 2
	var w [frameSize]float64
	for i := 0; i < frameSize; i++ {
		// hann(N)[k] = 0.5 - 0.5*cos(2*pi*k/(N-1)), k offset by 1 to
		// skip the clipped leading zero.
		k := i + 1
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(k)/float64(n-1))
	}
	return w
}
