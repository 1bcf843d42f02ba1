package config

import "strconv"

// FFT threshold estimates, in operand bits. Wider words make the schoolbook
// and Karatsuba paths cheaper, so the crossover sits higher.
const (
	fftThreshold64 = 500_000
	fftThreshold32 = 250_000
)

// ApplyAdaptiveThresholds replaces a zero FFTThreshold with the hardware
// estimate. A value from --fft-threshold or QUICKFIB_FFT_THRESHOLD is kept.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.FFTThreshold == 0 {
		cfg.FFTThreshold = EstimateOptimalFFTThreshold()
	}
	return cfg
}

// EstimateOptimalFFTThreshold guesses the FFT crossover from the word size
// without benchmarking.
func EstimateOptimalFFTThreshold() int {
	if strconv.IntSize == 64 {
		return fftThreshold64
	}
	return fftThreshold32
}
