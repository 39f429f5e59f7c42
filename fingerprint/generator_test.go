package fingerprint

import (
	"math"
	"testing"
)

func TestGeneratorSilenceEmitsEmptySignatureAtTimeCap(t *testing.T) {
	g := NewGenerator(WithCaps(1.0, 0)) // 1-second time cap, peak cap disabled

	silence := make([]int16, 16000) // exactly 1 second at the default 16 kHz
	g.FeedInput(silence)

	sig, ok := g.GetNextSignature()
	if !ok {
		t.Fatal("GetNextSignature() returned false, want a signature once the time cap is reached")
	}
	if sig.TotalPeaks() != 0 {
		t.Fatalf("TotalPeaks() = %d, want 0 for silence", sig.TotalPeaks())
	}
	if sig.NumberSamples() != 16000 {
		t.Fatalf("NumberSamples() = %d, want 16000", sig.NumberSamples())
	}
	if sig.SampleRateHz() != 16000 {
		t.Fatalf("SampleRateHz() = %d, want 16000", sig.SampleRateHz())
	}
}

func TestGeneratorSilenceUnderDefaultCapsStillFlushes(t *testing.T) {
	// Default caps (30s / 255 peaks) are both far out of reach for 3
	// seconds of silence (0 peaks), so the generator must still
	// unconditionally flush what it has once its pending queue is
	// exhausted, rather than waiting forever for caps it can never hit.
	g := NewGenerator()

	const total = 48000 // 3 seconds at the default 16 kHz
	g.FeedInput(make([]int16, total))

	sig, ok := g.GetNextSignature()
	if !ok {
		t.Fatal("GetNextSignature() returned false, want a flushed signature once pending samples ran out")
	}
	if sig.NumberSamples() != total {
		t.Fatalf("NumberSamples() = %d, want %d", sig.NumberSamples(), total)
	}
	if sig.TotalPeaks() != 0 {
		t.Fatalf("TotalPeaks() = %d, want 0 for silence", sig.TotalPeaks())
	}
}

func TestGeneratorNotReadyWithoutEnoughSamples(t *testing.T) {
	g := NewGenerator(WithCaps(1.0, 0))
	g.FeedInput(make([]int16, 100)) // far short of one 128-sample pass

	if _, ok := g.GetNextSignature(); ok {
		t.Fatal("GetNextSignature() = true, want false with fewer than samplesPerPass pending samples")
	}
}

func TestGeneratorResetsAfterEmission(t *testing.T) {
	g := NewGenerator(WithCaps(0.5, 0))

	const half = 63 * samplesPerPass // 8064 samples, just over 0.5s at 16 kHz
	batch := make([]int16, half)
	g.FeedInput(batch)
	first, ok := g.GetNextSignature()
	if !ok {
		t.Fatal("expected first signature after 0.5s of silence")
	}
	if first.NumberSamples() != half {
		t.Fatalf("first.NumberSamples() = %d, want %d", first.NumberSamples(), half)
	}

	g.FeedInput(batch)
	second, ok := g.GetNextSignature()
	if !ok {
		t.Fatal("expected second signature after another 0.5s of silence")
	}
	if second.NumberSamples() != half {
		t.Fatalf("second.NumberSamples() = %d, want %d (generator should reset between signatures)", second.NumberSamples(), half)
	}
}

func TestGeneratorLoopModeDifference(t *testing.T) {
	// With the peak cap set far out of reach, silence (0 peaks) never
	// satisfies it, so the two loop modes diverge: StopAtFirstCap can
	// stop as soon as the time cap alone is met, leaving samples
	// unconsumed, while SourceOr must keep draining until pending runs
	// dry since it requires both caps before it may stop early.
	const total = 160000 // 10 seconds of silence, far past the time cap

	stopEarly := NewGenerator(WithCaps(0.1, 1_000_000), WithLoopMode(LoopModeStopAtFirstCap))
	stopEarly.FeedInput(make([]int16, total))

	sig, ok := stopEarly.GetNextSignature()
	if !ok {
		t.Fatal("LoopModeStopAtFirstCap: expected emission once the time cap alone was satisfied")
	}
	if sig.NumberSamples() >= total {
		t.Fatalf("LoopModeStopAtFirstCap: NumberSamples() = %d, want well under %d (an early stop)", sig.NumberSamples(), total)
	}
	if len(stopEarly.pending) == 0 {
		t.Fatal("LoopModeStopAtFirstCap: expected leftover pending samples after stopping early")
	}

	sourceOr := NewGenerator(WithCaps(0.1, 1_000_000))
	sourceOr.FeedInput(make([]int16, total))

	sig2, ok := sourceOr.GetNextSignature()
	if !ok {
		t.Fatal("LoopModeSourceOr: expected emission once pending samples were exhausted")
	}
	if sig2.NumberSamples() != total {
		t.Fatalf("LoopModeSourceOr: NumberSamples() = %d, want %d (it never stops early since the peak cap is unreachable)", sig2.NumberSamples(), total)
	}
	if len(sourceOr.pending) != 0 {
		t.Fatalf("LoopModeSourceOr: %d samples left pending, want 0", len(sourceOr.pending))
	}
}

// TestGeneratorToneLandsInBand520To1450 drives a pure 1 kHz tone, with
// leading and trailing silence, through the real FeedInput/
// GetNextSignature pipeline (the real stftStage and its FFT, not a
// synthetic frame) and checks a peak surfaces in Band520To1450, the
// band 1 kHz falls in at 16 kHz.
func TestGeneratorToneLandsInBand520To1450(t *testing.T) {
	const (
		sampleRateHz = 16000
		toneHz       = 1000
		leadPasses   = 50
		tonePasses   = 20
		tailPasses   = 80
	)

	samples := make([]int16, 0, (leadPasses+tonePasses+tailPasses)*samplesPerPass)
	samples = append(samples, make([]int16, leadPasses*samplesPerPass)...)

	tone := make([]int16, tonePasses*samplesPerPass)
	for i := range tone {
		tone[i] = int16(8000 * math.Sin(2*math.Pi*toneHz*float64(i)/sampleRateHz))
	}
	samples = append(samples, tone...)
	samples = append(samples, make([]int16, tailPasses*samplesPerPass)...)

	g := NewGenerator()
	g.FeedInput(samples)

	sig, ok := g.GetNextSignature()
	if !ok {
		t.Fatal("GetNextSignature() returned false, want a flushed signature once pending samples ran out")
	}
	if sig.NumberSamples() != len(samples) {
		t.Fatalf("NumberSamples() = %d, want %d", sig.NumberSamples(), len(samples))
	}

	peaks := sig.Peaks(Band520To1450)
	if len(peaks) == 0 {
		t.Fatalf("no peaks detected in Band520To1450 for a %d Hz tone (total peaks across all bands: %d)", toneHz, sig.TotalPeaks())
	}
	for _, p := range peaks {
		if hz := p.FrequencyHz(); hz < 520 || hz >= 1450 {
			t.Fatalf("peak.FrequencyHz() = %v, want within [520, 1450)", hz)
		}
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	samples := make([]int16, 16000)
	for i := range samples {
		// a simple non-silent, non-periodic-in-a-trivial-way signal
		samples[i] = int16((i * 37) % 2000)
	}

	run := func() []byte {
		g := NewGenerator(WithCaps(1.0, 0))
		g.FeedInput(samples)
		sig, ok := g.GetNextSignature()
		if !ok {
			t.Fatal("expected a signature")
		}
		return Encode(sig)
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("len(a)=%d != len(b)=%d: generator is not deterministic", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d differs between identical runs: %d vs %d", i, a[i], b[i])
		}
	}
}
