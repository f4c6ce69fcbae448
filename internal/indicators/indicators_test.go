package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sma, err := SMA(values, 3)
	require.NoError(t, err)
	require.Len(t, sma, 5)

	assert.True(t, math.IsNaN(sma[0]))
	assert.True(t, math.IsNaN(sma[1]))
	assert.Equal(t, 2.0, sma[2])
	assert.Equal(t, 3.0, sma[3])
	assert.Equal(t, 4.0, sma[4])
}

func TestSMA_ShortSeries(t *testing.T) {
	sma, err := SMA([]float64{1, 2}, 5)
	require.NoError(t, err)
	for _, v := range sma {
		assert.True(t, math.IsNaN(v))
	}
}

func TestSMA_InvalidPeriod(t *testing.T) {
	_, err := SMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestMovingAverages_DefaultPeriods(t *testing.T) {
	values := make([]float64, 250)
	for i := range values {
		values[i] = float64(i + 1)
	}

	mas, err := MovingAverages(values, nil)
	require.NoError(t, err)

	require.Contains(t, mas, "ma_20")
	require.Contains(t, mas, "ma_50")
	require.Contains(t, mas, "ma_200")
	assert.False(t, math.IsNaN(mas["ma_200"][249]))
	assert.True(t, math.IsNaN(mas["ma_200"][198]))
}

func TestEMA_ConvergesTowardConstant(t *testing.T) {
	values := make([]float64, 50)
	values[0] = 0
	for i := 1; i < len(values); i++ {
		values[i] = 10
	}

	ema, err := EMA(values, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ema[0])
	assert.InDelta(t, 10.0, ema[49], 0.01)
}

func TestRSI_AllGainsNearHundred(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(100 + i)
	}

	rsi, err := RSI(values, 14)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(rsi[13]), "no RSI before period+1 samples")
	assert.Equal(t, 100.0, rsi[14])
	assert.Equal(t, 100.0, rsi[29])
}

func TestRSI_AllLossesNearZero(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(200 - i)
	}

	rsi, err := RSI(values, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, rsi[29], 0.001)
}

func TestRSI_FlatSeriesNeutral(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 100.0
	}

	rsi, err := RSI(values, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi[19])
}

func TestRSI_InsufficientData(t *testing.T) {
	rsi, err := RSI([]float64{1, 2, 3}, 14)
	require.NoError(t, err)
	for _, v := range rsi {
		assert.True(t, math.IsNaN(v))
	}
}

func TestMACD(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i)*0.5
	}

	res, err := MACD(values, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.NoError(t, err)

	require.Len(t, res.MACD, 60)
	require.Len(t, res.Signal, 60)
	require.Len(t, res.Histogram, 60)

	// In a steady uptrend the fast EMA leads the slow EMA
	assert.Greater(t, res.MACD[59], 0.0)
	assert.InDelta(t, res.MACD[59]-res.Signal[59], res.Histogram[59], 1e-9)
}

func TestMACD_InvalidPeriods(t *testing.T) {
	_, err := MACD([]float64{1, 2, 3}, 26, 12, 9)
	assert.Error(t, err, "fast period must be below slow period")

	_, err = MACD([]float64{1, 2, 3}, 0, 26, 9)
	assert.Error(t, err)
}

func TestBollinger(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		if i%2 == 0 {
			values[i] = 99
		} else {
			values[i] = 101
		}
	}

	res, err := Bollinger(values, 20, 2.0)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(res.Middle[18]))
	assert.InDelta(t, 100.0, res.Middle[29], 0.01)
	assert.Greater(t, res.Upper[29], res.Middle[29])
	assert.Less(t, res.Lower[29], res.Middle[29])
	assert.InDelta(t, res.Middle[29]-res.Lower[29], res.Upper[29]-res.Middle[29], 1e-9, "bands are symmetric")
}

func TestBollinger_SampleStd(t *testing.T) {
	res, err := Bollinger([]float64{1, 3, 1, 3}, 2, 2.0)
	require.NoError(t, err)

	// Window {1,3}: mean 2, sample std sqrt(2)
	assert.InDelta(t, 2+2*math.Sqrt2, res.Upper[1], 1e-9)
	assert.InDelta(t, 2-2*math.Sqrt2, res.Lower[1], 1e-9)
}

func TestATR(t *testing.T) {
	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 102
		low[i] = 98
		close[i] = 100
	}

	atr, err := ATR(high, low, close, 14)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(atr[13]))
	assert.InDelta(t, 4.0, atr[14], 1e-9, "constant 4-point range yields ATR of 4")
}

func TestATR_LengthMismatch(t *testing.T) {
	_, err := ATR([]float64{1, 2}, []float64{1}, []float64{1, 2}, 14)
	assert.Error(t, err)
}

func TestVolumeIndicators(t *testing.T) {
	close := []float64{100, 101, 100, 102, 102}
	volume := []float64{1000, 2000, 1500, 3000, 500}

	res, err := VolumeIndicators(close, volume, 2)
	require.NoError(t, err)

	// OBV: +2000, -1500, +3000, flat
	assert.Equal(t, 0.0, res.OBV[0])
	assert.Equal(t, 2000.0, res.OBV[1])
	assert.Equal(t, 500.0, res.OBV[2])
	assert.Equal(t, 3500.0, res.OBV[3])
	assert.Equal(t, 3500.0, res.OBV[4])

	assert.InDelta(t, 1.0, res.VolumeROC[1], 1e-9)
	assert.InDelta(t, -0.25, res.VolumeROC[2], 1e-9)

	assert.True(t, math.IsNaN(res.VolumeMA[0]))
	assert.Equal(t, 1500.0, res.VolumeMA[1])
}

func TestVolatility(t *testing.T) {
	// Alternating ±1% returns give a stable rolling std
	close := make([]float64, 40)
	close[0] = 100
	for i := 1; i < len(close); i++ {
		if i%2 == 0 {
			close[i] = close[i-1] * 0.99
		} else {
			close[i] = close[i-1] * 1.01
		}
	}

	vol, err := Volatility(close, 20)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(vol[19]))
	assert.False(t, math.IsNaN(vol[39]))
	assert.Greater(t, vol[39], 0.0)
	assert.Less(t, vol[39], 1.0, "1% daily swings annualize below 100%")
}

func TestVolatility_ConstantSeriesIsZero(t *testing.T) {
	close := make([]float64, 30)
	for i := range close {
		close[i] = 100
	}

	vol, err := Volatility(close, 20)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol[29])
}
