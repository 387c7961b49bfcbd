// Package indicators derives technical metrics from daily bar history. It
// is used to backfill sparse snapshots before normalization.
package indicators

import (
	"github.com/markcheno/go-talib"

	"github.com/bobmcallan/arkrank/internal/models"
)

// seriesOf extracts parallel OHLCV slices from bars, oldest first.
func seriesOf(bars []models.DailyBar) (high, low, close, volume []float64) {
	high = make([]float64, len(bars))
	low = make([]float64, len(bars))
	close = make([]float64, len(bars))
	volume = make([]float64, len(bars))
	for i, b := range bars {
		high[i] = b.High
		low[i] = b.Low
		close[i] = b.Close
		volume[i] = b.Volume
	}
	return high, low, close, volume
}

func last(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	if v == 0 {
		return nil
	}
	return &v
}

// SMA returns the latest simple moving average over the period, or nil when
// there is not enough history.
func SMA(bars []models.DailyBar, period int) *float64 {
	if len(bars) < period || period < 1 {
		return nil
	}
	_, _, close, _ := seriesOf(bars)
	return last(talib.Sma(close, period))
}

// RSI returns the latest 14-style relative strength index, or nil when
// there is not enough history.
func RSI(bars []models.DailyBar, period int) *float64 {
	if len(bars) <= period || period < 2 {
		return nil
	}
	_, _, close, _ := seriesOf(bars)
	return last(talib.Rsi(close, period))
}

// MACD returns the latest MACD line and histogram using the standard
// 12/26/9 parameters. Either value is nil when history is too short.
func MACD(bars []models.DailyBar) (macd, hist *float64) {
	if len(bars) < 35 {
		return nil, nil
	}
	_, _, close, _ := seriesOf(bars)
	line, _, histogram := talib.Macd(close, 12, 26, 9)
	return lastNonZero(line), lastNonZero(histogram)
}

// lastNonZero differs from last in keeping legitimate small values but
// dropping the zero padding talib leaves before the warmup completes.
func lastNonZero(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	return &v
}

// ATR returns the latest average true range over the period.
func ATR(bars []models.DailyBar, period int) *float64 {
	if len(bars) <= period || period < 1 {
		return nil
	}
	high, low, close, _ := seriesOf(bars)
	return last(talib.Atr(high, low, close, period))
}

// VolumeTrend returns the ratio of the recent average volume to the
// trailing average before it: recent window over the prior window. A value
// above 1 means expanding interest.
func VolumeTrend(bars []models.DailyBar, recent, trailing int) *float64 {
	if recent < 1 || trailing < 1 || len(bars) < recent+trailing {
		return nil
	}
	_, _, _, volume := seriesOf(bars)

	n := len(volume)
	recentAvg := mean(volume[n-recent:])
	trailingAvg := mean(volume[n-recent-trailing : n-recent])
	if trailingAvg == 0 {
		return nil
	}
	ratio := recentAvg / trailingAvg
	return &ratio
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Enrich fills any missing technical fields on a snapshot from bar history.
// Existing values are never overwritten; the upstream snapshot wins.
func Enrich(snap *models.TickerSnapshot, bars []models.DailyBar) {
	if len(bars) == 0 {
		return
	}

	if snap.Close == nil {
		c := bars[len(bars)-1].Close
		if c != 0 {
			snap.Close = &c
		}
	}
	if snap.Volume == nil {
		v := bars[len(bars)-1].Volume
		if v != 0 {
			snap.Volume = &v
		}
	}
	if snap.SMA20 == nil {
		snap.SMA20 = SMA(bars, 20)
	}
	if snap.SMA50 == nil {
		snap.SMA50 = SMA(bars, 50)
	}
	if snap.SMA200 == nil {
		snap.SMA200 = SMA(bars, 200)
	}
	if snap.RSI14 == nil {
		snap.RSI14 = RSI(bars, 14)
	}
	if snap.MACD == nil && snap.MACDHist == nil {
		snap.MACD, snap.MACDHist = MACD(bars)
	}
	if snap.ATR14 == nil {
		snap.ATR14 = ATR(bars, 14)
	}
	if snap.VolumeTrend == nil {
		snap.VolumeTrend = VolumeTrend(bars, 7, 14)
	}
}
