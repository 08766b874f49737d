package obs

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalFieldOrder(t *testing.T) {
	r := Record{
		WindGustX10:  152,
		WindGustDir:  270,
		TempX10:      1234, // 23.4 degC
		HumidX10:     655,
		PressX10:     10132,
		RainflX10:    240,
		WindspX10:    87,
		WindDir:      80, // -10 degrees reconciled, +90 offset
		DailyRainX10: 42,
		CaseTempX10:  1350,
	}

	frame := r.Marshal()
	require.Len(t, frame, FrameSize)

	expected := []uint16{152, 270, 1234, 655, 10132, 240, 87, 80, 42, 1350}
	for i, want := range expected {
		assert.Equal(t, want, binary.LittleEndian.Uint16(frame[i*2:]), "field %d", i)
	}
}

func TestFixedPointRoundTrip(t *testing.T) {
	// every stored field divided by 10 (and for temperatures minus 100)
	// must reproduce the physical reading within sensor resolution (0.1)
	r := Record{
		WindGustX10:  Scaled(15.23),
		TempX10:      ScaledTemp(-12.34),
		HumidX10:     Scaled(65.5),
		PressX10:     Scaled(1013.25),
		RainflX10:    Scaled(24.0),
		WindspX10:    Scaled(8.7),
		DailyRainX10: Scaled(4.2),
		CaseTempX10:  ScaledTemp(35.0),
	}

	assert.InDelta(t, 15.23, r.GustKmh(), 0.1)
	assert.InDelta(t, -12.34, r.AirTempC(), 0.1)
	assert.InDelta(t, 65.5, r.Humidity(), 0.1)
	assert.InDelta(t, 1013.25, r.PressureHpa(), 0.1)
	assert.InDelta(t, 24.0, r.RainRateMMHr(), 0.1)
	assert.InDelta(t, 8.7, r.WindKmh(), 0.1)
	assert.InDelta(t, 4.2, r.DailyRainMM(), 0.1)
	assert.InDelta(t, 35.0, r.CaseTempC(), 0.1)
}

func TestWindDirectionOffset(t *testing.T) {
	r := Record{WindDir: 0}
	assert.Equal(t, -90.0, r.WindDirection())
	r.WindDir = 540
	assert.Equal(t, 450.0, r.WindDirection())
}

func TestDoubleBufferSwap(t *testing.T) {
	d := NewDoubleBuffer()

	d.Current().WindspX10 = 11
	d.Swap()

	// the completed record is now the report, a fresh slot is current
	assert.Equal(t, uint16(11), d.Report().WindspX10)
	assert.NotSame(t, d.Current(), &d.records[1-d.current])

	// writes to the new current buffer never disturb the report
	d.Current().WindspX10 = 22
	assert.Equal(t, uint16(11), d.Report().WindspX10)

	d.Swap()
	assert.Equal(t, uint16(22), d.Report().WindspX10)
}

func TestDoubleBufferNonInterference(t *testing.T) {
	d := NewDoubleBuffer()

	// after N closes the report always equals the record completed at
	// close N, never a partial one
	for n := uint16(1); n <= 50; n++ {
		cur := d.Current()
		cur.WindspX10 = n
		cur.RainflX10 = n * 2
		d.Swap()

		rep := d.Report()
		assert.Equal(t, n, rep.WindspX10)
		assert.Equal(t, n*2, rep.RainflX10)
	}
}
