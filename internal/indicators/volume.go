package indicators

import (
	"fmt"
	"math"
)

const (
	DefaultVolumePeriod     = 20
	DefaultVolatilityPeriod = 20
	tradingDaysPerYear      = 252
)

// VolumeResult holds volume-derived indicator series
type VolumeResult struct {
	VolumeMA  []float64 `json:"volume_ma"`
	VolumeROC []float64 `json:"volume_roc"`
	OBV       []float64 `json:"obv"`
}

// VolumeIndicators computes volume MA, volume rate-of-change, and On-Balance
// Volume. OBV accumulates volume signed by the close-to-close direction.
func VolumeIndicators(close, volume []float64, period int) (*VolumeResult, error) {
	if len(close) != len(volume) {
		return nil, fmt.Errorf("close/volume length mismatch: %d/%d", len(close), len(volume))
	}
	if period <= 0 {
		period = DefaultVolumePeriod
	}

	ma, err := SMA(volume, period)
	if err != nil {
		return nil, err
	}

	roc := nanSeries(len(volume))
	for i := 1; i < len(volume); i++ {
		if volume[i-1] != 0 {
			roc[i] = (volume[i] - volume[i-1]) / volume[i-1]
		}
	}

	obv := make([]float64, len(volume))
	for i := 1; i < len(volume); i++ {
		switch {
		case close[i] > close[i-1]:
			obv[i] = obv[i-1] + volume[i]
		case close[i] < close[i-1]:
			obv[i] = obv[i-1] - volume[i]
		default:
			obv[i] = obv[i-1]
		}
	}

	return &VolumeResult{VolumeMA: ma, VolumeROC: roc, OBV: obv}, nil
}

// Volatility computes annualized rolling volatility of close-to-close returns
func Volatility(close []float64, period int) ([]float64, error) {
	if period <= 1 {
		return nil, fmt.Errorf("invalid volatility period: %d", period)
	}

	returns := nanSeries(len(close))
	for i := 1; i < len(close); i++ {
		if close[i-1] != 0 {
			returns[i] = (close[i] - close[i-1]) / close[i-1]
		}
	}

	out := nanSeries(len(close))
	for i := period; i < len(close); i++ {
		mean := 0.0
		for j := i - period + 1; j <= i; j++ {
			mean += returns[j]
		}
		mean /= float64(period)

		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := returns[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period-1))
		out[i] = std * math.Sqrt(tradingDaysPerYear)
	}

	return out, nil
}
