package indicators

import (
	"fmt"
	"math"
)

// Default periods follow common technical analysis convention
const (
	DefaultSMAPeriod    = 10
	DefaultRSIPeriod    = 14
	DefaultMACDFast     = 12
	DefaultMACDSlow     = 26
	DefaultMACDSignal   = 9
	DefaultBandPeriod   = 20
	DefaultBandStdDev   = 2.0
	DefaultATRPeriod    = 14
	neutralRSI          = 50.0
)

// MACDResult holds the three MACD series
type MACDResult struct {
	MACD      []float64 `json:"macd"`
	Signal    []float64 `json:"signal"`
	Histogram []float64 `json:"histogram"`
}

// BollingerResult holds the three band series
type BollingerResult struct {
	Middle []float64 `json:"middle"`
	Upper  []float64 `json:"upper"`
	Lower  []float64 `json:"lower"`
}

// SMA computes a simple moving average. Values before the warmup window are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid SMA period: %d", period)
	}

	out := nanSeries(len(values))
	if len(values) < period {
		return out, nil
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// MovingAverages computes SMAs for multiple periods keyed "ma_<period>"
func MovingAverages(values []float64, periods []int) (map[string][]float64, error) {
	if len(periods) == 0 {
		periods = []int{20, 50, 200}
	}

	out := make(map[string][]float64, len(periods))
	for _, p := range periods {
		ma, err := SMA(values, p)
		if err != nil {
			return nil, err
		}
		out[fmt.Sprintf("ma_%d", p)] = ma
	}
	return out, nil
}

// EMA computes an exponential moving average seeded with the first value
func EMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid EMA period: %d", period)
	}

	out := nanSeries(len(values))
	if len(values) == 0 {
		return out, nil
	}

	alpha := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[i] = ema
	}
	return out, nil
}

// RSI computes the Relative Strength Index with Wilder smoothing.
// Series shorter than period+1 return all-NaN; flat streaks read as neutral.
func RSI(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid RSI period: %d", period)
	}

	out := nanSeries(len(values))
	if len(values) < period+1 {
		return out, nil
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return neutralRSI
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD computes the MACD line, signal line, and histogram
func MACD(values []float64, fast, slow, signal int) (*MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, fmt.Errorf("invalid MACD periods: %d/%d/%d", fast, slow, signal)
	}
	if fast >= slow {
		return nil, fmt.Errorf("MACD fast period %d must be below slow period %d", fast, slow)
	}

	fastEMA, err := EMA(values, fast)
	if err != nil {
		return nil, err
	}
	slowEMA, err := EMA(values, slow)
	if err != nil {
		return nil, err
	}

	macd := make([]float64, len(values))
	for i := range values {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine, err := EMA(macd, signal)
	if err != nil {
		return nil, err
	}

	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = macd[i] - signalLine[i]
	}

	return &MACDResult{MACD: macd, Signal: signalLine, Histogram: hist}, nil
}

// Bollinger computes Bollinger bands around an SMA
func Bollinger(values []float64, period int, stdDev float64) (*BollingerResult, error) {
	if period <= 1 {
		return nil, fmt.Errorf("invalid Bollinger period: %d", period)
	}

	middle, err := SMA(values, period)
	if err != nil {
		return nil, err
	}

	upper := nanSeries(len(values))
	lower := nanSeries(len(values))

	for i := period - 1; i < len(values); i++ {
		mean := middle[i]
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period-1))
		upper[i] = mean + sd*stdDev
		lower[i] = mean - sd*stdDev
	}

	return &BollingerResult{Middle: middle, Upper: upper, Lower: lower}, nil
}

// ATR computes the Average True Range over high/low/close series
func ATR(high, low, close []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid ATR period: %d", period)
	}
	if len(high) != len(low) || len(low) != len(close) {
		return nil, fmt.Errorf("ATR series length mismatch: %d/%d/%d", len(high), len(low), len(close))
	}

	out := nanSeries(len(close))
	if len(close) < period+1 {
		return out, nil
	}

	trSum := 0.0
	for i := 1; i <= period; i++ {
		trSum += trueRange(high[i], low[i], close[i-1])
	}
	atr := trSum / float64(period)
	out[period] = atr

	for i := period + 1; i < len(close); i++ {
		tr := trueRange(high[i], low[i], close[i-1])
		atr = (atr*float64(period-1) + tr) / float64(period)
		out[i] = atr
	}

	return out, nil
}

func trueRange(high, low, prevClose float64) float64 {
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
