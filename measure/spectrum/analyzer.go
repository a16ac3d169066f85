package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrInvalidSize is returned for FFT sizes that are not a power of two >= 2.
var ErrInvalidSize = errors.New("spectrum: fft size must be a power of two >= 2")

// Analyzer computes windowed magnitude spectra of fixed-size frames.
type Analyzer struct {
	size       int
	sampleRate float64
	norm       float64

	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
}

// Peak is the strongest bin of a spectrum.
type Peak struct {
	Bin       int
	Frequency float64 // Hz, refined by parabolic interpolation
	Magnitude float64 // linear amplitude of a sine at Frequency
}

// NewAnalyzer returns an Analyzer for frames of size samples.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	window := Hann(size)
	bins := size/2 + 1

	return &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		// A full-scale sine reads as magnitude 1.
		norm:   2 / (float64(size) * coherentGain(window)),
		plan:   plan,
		window: window,
		frame:  make([]float64, size),
		in:     make([]complex128, size),
		out:    make([]complex128, size),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of magnitude bins (DC to Nyquist).
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// BinFrequency returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int) float64 {
	return float64(k) * a.sampleRate / float64(a.size)
}

// Magnitude writes the normalised magnitude spectrum of samples into dst
// and returns it. dst is grown to Bins() if needed. Shorter input is zero
// padded; longer input is truncated to its last Size() samples.
func (a *Analyzer) Magnitude(dst, samples []float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, errors.New("spectrum: empty input")
	}

	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	n := copy(a.frame, samples)
	clear(a.frame[n:])
	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	bins := a.Bins()
	for k := range bins {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	if cap(dst) < bins {
		dst = make([]float64, bins)
	}
	dst = dst[:bins]
	vecmath.Magnitude(dst, a.re, a.im)
	vecmath.ScaleBlockInPlace(dst, a.norm)
	dst[0] /= 2
	dst[bins-1] /= 2

	return dst, nil
}

// Peak returns the strongest non-DC bin of samples.
func (a *Analyzer) Peak(samples []float64) (Peak, error) {
	mag, err := a.Magnitude(nil, samples)
	if err != nil {
		return Peak{}, err
	}
	return a.peakOf(mag), nil
}

func (a *Analyzer) peakOf(mag []float64) Peak {
	best := 1
	for k := 2; k < len(mag); k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}

	p := Peak{Bin: best, Frequency: a.BinFrequency(best), Magnitude: mag[best]}
	if best <= 0 || best >= len(mag)-1 {
		return p
	}

	// Parabolic interpolation on log magnitudes.
	l, c, r := logMag(mag[best-1]), logMag(mag[best]), logMag(mag[best+1])
	den := l - 2*c + r
	if den == 0 {
		return p
	}
	delta := 0.5 * (l - r) / den
	p.Frequency = a.BinFrequency(best) + delta*a.sampleRate/float64(a.size)
	p.Magnitude = math.Exp(c - 0.25*(l-r)*delta)

	return p
}

// BandRatio returns the energy of samples above splitHz divided by the
// total energy, DC excluded. It returns 0 for silence.
func (a *Analyzer) BandRatio(samples []float64, splitHz float64) (float64, error) {
	mag, err := a.Magnitude(nil, samples)
	if err != nil {
		return 0, err
	}

	var total, high float64
	for k := 1; k < len(mag); k++ {
		e := mag[k] * mag[k]
		total += e
		if a.BinFrequency(k) >= splitHz {
			high += e
		}
	}
	if total == 0 {
		return 0, nil
	}
	return high / total, nil
}

func logMag(v float64) float64 {
	return math.Log(math.Max(v, 1e-300))
}
