package fingerprint

const samplesPerPass = 128

// LoopMode selects how GetNextSignature decides a signature has
// accumulated enough material to emit.
type LoopMode int

const (
	// LoopModeSourceOr keeps accumulating while EITHER the time cap or
	// the peak cap is still unmet, i.e. it stops only once both caps
	// are satisfied. This is the literal "or" condition in
	// get_next_signature's continue-loop test.
	LoopModeSourceOr LoopMode = iota
	// LoopModeStopAtFirstCap stops as soon as EITHER cap is reached.
	LoopModeStopAtFirstCap
)

// GeneratorOption configures a Generator at construction time.
type GeneratorOption func(*Generator)

// WithCaps sets the time and peak caps GetNextSignature uses to decide
// a signature is ready. maxTimeSeconds <= 0 disables the time cap;
// maxPeaks <= 0 disables the peak cap.
func WithCaps(maxTimeSeconds float64, maxPeaks int) GeneratorOption {
	return func(g *Generator) {
		g.maxTimeSeconds = maxTimeSeconds
		g.maxPeaks = maxPeaks
	}
}

// WithLoopMode selects the cap-combination semantics. Default is
// LoopModeSourceOr.
func WithLoopMode(mode LoopMode) GeneratorOption {
	return func(g *Generator) { g.loopMode = mode }
}

// WithSampleRate sets the sample rate samples are assumed to be at.
// Default is 16000 Hz.
func WithSampleRate(hz int) GeneratorOption {
	return func(g *Generator) { g.sampleRateHz = hz }
}

// Generator drives the full pipeline — ring buffer, STFT stage, peak
// spreader, and peak recognizer — across a stream of fed-in samples,
// accumulating recognized peaks into a Signature until the configured
// caps are met.
type Generator struct {
	sampleRateHz   int
	maxTimeSeconds float64
	maxPeaks       int
	loopMode       LoopMode

	stft    *stftStage
	fftRing *ring[frame]
	spread  *ring[frame]

	pending []int16
	sig     Signature
}

// fftRingCapacity is the size of both frame rings. It must exceed the
// deepest backward lookup (the recognizer's -53 time neighbour), and the
// recognizer's positive time-neighbour offsets (165..249) reach earlier
// frames only by wrapping around at exactly this capacity (249 ≡ -7).
const fftRingCapacity = 256

// NewGenerator builds a Generator ready to accept samples via
// FeedInput. Defaults: 16000 Hz, 30-second time cap, 255-peak cap,
// LoopModeSourceOr.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		sampleRateHz:   16000,
		maxTimeSeconds: 30,
		maxPeaks:       255,
		loopMode:       LoopModeSourceOr,
		stft:           newSTFTStage(),
		fftRing:        newRing[frame](fftRingCapacity),
		spread:         newRing[frame](fftRingCapacity),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.sig = Signature{sampleRateHz: g.sampleRateHz}
	return g
}

// FeedInput appends newly available PCM samples to the generator's
// pending queue. It does not itself run the pipeline; GetNextSignature
// drains samplesPerPass at a time as it accumulates a signature.
func (g *Generator) FeedInput(samples []int16) {
	g.pending = append(g.pending, samples...)
}

// GetNextSignature drains pending samples through the pipeline,
// running the FFT/spread/recognize stages one 128-sample pass at a
// time. It returns (Signature{}, false) only if there are not enough
// pending samples to make any progress at all. Otherwise it processes
// passes until either the configured caps are satisfied or pending
// samples run out, then unconditionally flushes and resets whatever
// signature has accumulated so far — matching the source driver, which
// resets and returns once its processing loop exits regardless of
// which of the two stop conditions ended it.
func (g *Generator) GetNextSignature() (Signature, bool) {
	if len(g.pending) < samplesPerPass {
		return Signature{}, false
	}

	for len(g.pending) >= samplesPerPass && !g.ready() {
		batch := g.pending[:samplesPerPass]
		g.pending = g.pending[samplesPerPass:]

		floatBatch := make([]float64, samplesPerPass)
		for i, v := range batch {
			floatBatch[i] = float64(v)
		}

		fft := g.stft.process(floatBatch)
		g.fftRing.append(fft)
		spreadFrame(g.fftRing, g.spread)
		g.sig.numberSamples += samplesPerPass

		if g.spread.written < 46 {
			continue
		}
		for _, found := range recognize(g.fftRing, g.spread, g.sampleRateHz) {
			g.sig.appendPeak(found.band, found.peak)
		}
	}

	out := g.sig
	g.reset()
	return out, true
}

func (g *Generator) ready() bool {
	timeOn := g.maxTimeSeconds > 0
	peaksOn := g.maxPeaks > 0
	timeDone := timeOn && g.sig.Seconds() >= g.maxTimeSeconds
	peaksDone := peaksOn && g.sig.TotalPeaks() >= g.maxPeaks

	switch g.loopMode {
	case LoopModeStopAtFirstCap:
		return timeDone || peaksDone
	default: // LoopModeSourceOr
		return (timeOn || peaksOn) && (timeDone || !timeOn) && (peaksDone || !peaksOn)
	}
}

func (g *Generator) reset() {
	g.stft.reset()
	g.fftRing.reset()
	g.spread.reset()
	g.sig = Signature{sampleRateHz: g.sampleRateHz}
}
