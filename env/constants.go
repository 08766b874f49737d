package env

import "time"

const (
	GPIO01 = "GPIO01"
	GPIO02 = "GPIO02" // SDA
	GPIO03 = "GPIO03" // SDC
	GPIO12 = "GPIO12" // rain pin
	GPIO19 = "GPIO19" // rain tip LED
	GPIO20 = "GPIO20" // heartbeat LED
	GPIO21 = "GPIO21" // TX indicator LED
	GPIO27 = "GPIO27" // wind pin

	RainSensorIn = GPIO12
	WindSensorIn = GPIO27

	HeartbeatLed = GPIO20
	RainTipLed   = GPIO19
	TxLed        = GPIO21

	// The sampling timer fires every TimingClock. Every SampleInterval
	// fires make one sample (2.5s); every ReportInterval samples close one
	// observation report (5 min).
	TimingClock    = 500 * time.Millisecond
	SampleInterval = 5
	ReportInterval = 120

	// ReportPeriod is the wall-clock length of one reporting cycle.
	ReportPeriod = TimingClock * SampleInterval * ReportInterval

	// Davis anemometer: V = P(2.25/T) * 1.609 km/h where T is the sample
	// interval in seconds, so with T = 2.5s one rotation is 1.4481 km/h.
	KmhPerRotation = 1.4481

	// Minimum gap between accepted contact closures on the reed switches.
	// Anything quicker is contact bounce, not weather.
	BounceInterval = 15 * time.Millisecond

	// Wind vane calibration: raw full-scale ADC range, offset from
	// magnetic north, and the depth of the direction boxcar.
	VaneScale         = 1023
	VaneOffset        = 0
	DirectionAvgDepth = 4

	// Tipping bucket capacity per tip event.
	BucketSizeMM = 0.2

	// Daily rain totals run 24 hours to 9am local.
	EndOfDayHour = 9

	HPaToInHg = 0.02953
	MmToInch  = 25.4

	LEDFlashDuration = time.Millisecond * 50
)
