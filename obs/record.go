package obs

import "encoding/binary"

/*
 * Record is one completed observation cycle. Every physical quantity is
 * carried as value x10 in an unsigned 16-bit field so the over-the-air
 * frame needs no floating point; temperatures carry a +100 degree offset so
 * sub-zero readings stay non-negative. The mean wind direction carries a
 * +90 offset because the direction averager works in an extended -90..450
 * range (see the vane package).
 */

type Record struct {
	WindGustX10  uint16 // gust speed (km/h) x10           ~range 0 -> 1200
	WindGustDir  uint16 // gust direction (compass degrees) 0 -> 359
	TempX10      uint16 // air temperature (degC +100) x10 ~range 0 -> 1600
	HumidX10     uint16 // relative humidity (%) x10        range 0 -> 1000
	PressX10     uint16 // station pressure (hPa) x10      ~range 8700 -> 11000
	RainflX10    uint16 // report rainfall rate (mm/hr) x10
	WindspX10    uint16 // wind speed (km/h) x10           ~range 0 -> 1200
	WindDir      uint16 // mean direction +90 (extended -90..450)
	DailyRainX10 uint16 // daily rainfall so far (mm) x10
	CaseTempX10  uint16 // enclosure temperature (degC +100) x10
}

// FrameSize is the serialized record length: ten uint16 fields.
const FrameSize = 20

// Marshal serializes the record as ten little-endian 16-bit values in the
// fixed field order above. This is the uplink wire contract; field order
// and byte order must not change.
func (r *Record) Marshal() []byte {
	frame := make([]byte, FrameSize)
	fields := [...]uint16{
		r.WindGustX10,
		r.WindGustDir,
		r.TempX10,
		r.HumidX10,
		r.PressX10,
		r.RainflX10,
		r.WindspX10,
		r.WindDir,
		r.DailyRainX10,
		r.CaseTempX10,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint16(frame[i*2:], f)
	}
	return frame
}

// Scaled converts a physical reading to its x10 wire representation.
func Scaled(v float64) uint16 {
	return uint16(v * 10.0)
}

// ScaledTemp converts a temperature to its offset (+100) x10 representation.
func ScaledTemp(c float64) uint16 {
	return uint16((c + 100.0) * 10.0)
}

// Physical accessors, the inverse of the x10 scaling. Used by the local
// consumers (status page, archive, WOW upload) so they report exactly what
// went over the air.

func (r *Record) GustKmh() float64 {
	return float64(r.WindGustX10) / 10.0
}

func (r *Record) GustDirection() float64 {
	return float64(r.WindGustDir)
}

func (r *Record) AirTempC() float64 {
	return float64(r.TempX10)/10.0 - 100.0
}

func (r *Record) Humidity() float64 {
	return float64(r.HumidX10) / 10.0
}

func (r *Record) PressureHpa() float64 {
	return float64(r.PressX10) / 10.0
}

func (r *Record) RainRateMMHr() float64 {
	return float64(r.RainflX10) / 10.0
}

func (r *Record) WindKmh() float64 {
	return float64(r.WindspX10) / 10.0
}

// WindDirection removes the extended-range offset; result is -90..450.
func (r *Record) WindDirection() float64 {
	return float64(r.WindDir) - 90.0
}

func (r *Record) DailyRainMM() float64 {
	return float64(r.DailyRainX10) / 10.0
}

func (r *Record) CaseTempC() float64 {
	return float64(r.CaseTempX10)/10.0 - 100.0
}
