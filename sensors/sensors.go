package sensors

import (
	"flag"
	"math"

	"github.com/gr-butler/lorastation/counter"
	"github.com/gr-butler/lorastation/env"
	"github.com/gr-butler/lorastation/led"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/devices/v3/mcp9808"
	"periph.io/x/host/v3"
)

/*
 * Sensors is the hardware layer: it owns the I2C devices and the GPIO edge
 * pins and converts raw sensor output to calibrated physical values. The
 * edge monitor goroutines are this design's interrupt handlers - they do
 * nothing but feed the debounced event counters.
 */

const (
	MCP9808_AIR_I2C  = 0x18
	MCP9808_CASE_I2C = 0x19
	BME280_I2C       = 0x76
)

type Sensors struct {
	IIC    IIC
	Port   GPIOPort
	args   env.Args
	tipLed *led.LED
}

type IIC struct {
	Atm      *bmxx80.Dev  // BME280 pressure & humidity
	AirTemp  *mcp9808.Dev // MCP9808 air temperature
	CaseTemp *mcp9808.Dev // MCP9808 enclosure temperature
	WindDir  *ads1x15.PinADC
	Bus      *i2c.BusCloser
}

type GPIOPort struct {
	windPin gpio.PinIO
	rainPin gpio.PinIO
}

// InitSensors brings up every sensor. Any failure is returned to the
// caller, which halts: a station with a known-bad primary sensor must not
// silently report garbage.
func (s *Sensors) InitSensors(args env.Args, wind *counter.Debounced, rain *counter.Debounced) error {
	s.args = args

	if _, err := host.Init(); err != nil {
		logger.Errorf("Failed to init periph host [%v]", err)
		return err
	}
	i2cbus := flag.String("bus", "", "I²C bus (/dev/i2c-1)")

	bus, err := i2creg.Open(*i2cbus)
	if err != nil {
		logger.Errorf("Failed to open I²C [%v]", err)
		return err
	}
	s.IIC.Bus = &bus

	logger.Infof("Starting MCP9808 air temperature sensor [%x]", MCP9808_AIR_I2C)
	airTemp, err := mcp9808.New(bus, &mcp9808.Opts{Addr: MCP9808_AIR_I2C, Res: mcp9808.High})
	if err != nil {
		logger.Errorf("Failed to open MCP9808 sensor: %v", err)
		_ = bus.Close()
		return err
	}
	s.IIC.AirTemp = airTemp

	logger.Infof("Starting MCP9808 case temperature sensor [%x]", MCP9808_CASE_I2C)
	caseTemp, err := mcp9808.New(bus, &mcp9808.Opts{Addr: MCP9808_CASE_I2C, Res: mcp9808.Medium})
	if err != nil {
		logger.Errorf("Failed to open case MCP9808 sensor: %v", err)
		_ = bus.Close()
		return err
	}
	s.IIC.CaseTemp = caseTemp

	logger.Infof("Starting BME280 reader [%x]", BME280_I2C)
	bme, err := bmxx80.NewI2C(bus, BME280_I2C, &bmxx80.DefaultOpts)
	if err != nil {
		logger.Errorf("Failed to initialize bme280: %v", err)
		_ = bus.Close()
		return err
	}
	s.IIC.Atm = bme

	logger.Info("Starting wind direction ADC")
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		logger.Error(err)
		_ = bus.Close()
		return err
	}
	dirPin, err := adc.PinForChannel(ads1x15.Channel0, 5*physic.Volt, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		logger.Error(err)
		_ = bus.Close()
		return err
	}
	s.IIC.WindDir = &dirPin

	// edge pins for the rotation and tip counters
	windpin := gpioreg.ByName(env.WindSensorIn)
	if windpin == nil {
		logger.Errorf("Failed to find %v - wind pin", env.WindSensorIn)
		_ = bus.Close()
		return errPinNotFound(env.WindSensorIn)
	}
	if err = windpin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		logger.Error(err)
		_ = bus.Close()
		return err
	}
	s.Port.windPin = windpin

	rainpin := gpioreg.ByName(env.RainSensorIn)
	if rainpin == nil {
		logger.Errorf("Failed to find %v - rain pin", env.RainSensorIn)
		_ = bus.Close()
		return errPinNotFound(env.RainSensorIn)
	}
	if err = rainpin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		logger.Error(err)
		_ = bus.Close()
		return err
	}
	s.Port.rainPin = rainpin

	s.tipLed = led.NewLED("RainTip", env.RainTipLed)

	logger.Info("Sensors initialized.")
	go s.monitorWindGPIO(wind)
	go s.monitorRainGPIO(rain)
	return nil
}

// monitorWindGPIO counts anemometer rotations. One falling edge per cup
// rotation; debounce lives in the counter.
func (s *Sensors) monitorWindGPIO(c *counter.Debounced) {
	logger.Infof("Starting [%v] edge monitor", c.Name())
	defer func() { _ = s.Port.windPin.Halt() }()
	for {
		s.Port.windPin.WaitForEdge(-1)
		c.Hit()
	}
}

// monitorRainGPIO counts bucket tips.
func (s *Sensors) monitorRainGPIO(c *counter.Debounced) {
	logger.Infof("Starting [%v] edge monitor", c.Name())
	defer func() { _ = s.Port.rainPin.Halt() }()
	for {
		s.Port.rainPin.WaitForEdge(-1)
		if s.Port.rainPin.Read() == gpio.Low {
			if c.Hit() {
				logger.Infof("Bucket tip [%v]", c.Count())
				go s.tipLed.Flash(env.LEDFlashDuration)
			}
		}
	}
}

// AirTemperature returns the outside air temperature in degC.
func (s *Sensors) AirTemperature() float64 {
	return s.readTemp(s.IIC.AirTemp, "MCP9808 air")
}

// CaseTemperature returns the enclosure temperature in degC.
func (s *Sensors) CaseTemperature() float64 {
	return s.readTemp(s.IIC.CaseTemp, "MCP9808 case")
}

func (s *Sensors) readTemp(dev *mcp9808.Dev, name string) float64 {
	t := physic.Env{}
	if dev == nil {
		return 0
	}
	if err := dev.Sense(&t); err != nil {
		logger.Errorf("%v read failed [%v]", name, err)
		return 0
	}
	return t.Temperature.Celsius()
}

// HumidityAndPressure returns relative humidity (%) and station pressure (hPa).
func (s *Sensors) HumidityAndPressure() (float64, float64) {
	em := physic.Env{}
	if s.IIC.Atm == nil {
		return 0, 0
	}
	if err := s.IIC.Atm.Sense(&em); err != nil {
		logger.Errorf("BME280 read failed [%v]", err)
		return 0, 0
	}
	humidity := math.Round(float64(em.Humidity) / float64(physic.PercentRH))
	pressure := math.Round(float64(em.Pressure)/float64(100*physic.Pascal)*100) / 100
	return humidity, pressure
}

// VaneReading returns the raw wind vane value on the 0..VaneScale range the
// direction averager calibrates from.
func (s *Sensors) VaneReading() int {
	sample, err := (*s.IIC.WindDir).Read()
	if err != nil {
		logger.Debugf("Error reading wind direction value [%v]", err)
		return 0
	}
	volts := float64(sample.V) / float64(physic.Volt)
	raw := int(volts / 5.0 * float64(env.VaneScale))
	if raw < 0 {
		raw = 0
	}
	if raw > env.VaneScale {
		raw = env.VaneScale
	}
	if *s.args.Diron {
		logger.Infof("Vane volts [%v] raw [%v]", volts, raw)
	}
	return raw
}

type errPinNotFound string

func (e errPinNotFound) Error() string {
	return "pin not found: " + string(e)
}
