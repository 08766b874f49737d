package led

import (
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type LED struct {
	Name    string
	lock    *sync.Mutex
	on      bool
	gpioPin gpio.PinIO
}

func NewLED(name string, GPIOPin string) *LED {
	logger.Infof("Creating new LED on pin [%v] called [%v]", GPIOPin, name)
	l := &LED{
		Name: name,
		lock: &sync.Mutex{},
		on:   false,
	}
	l.gpioPin = gpioreg.ByName(GPIOPin)
	if l.gpioPin == nil {
		logger.Errorf("Failed to find %v pin", GPIOPin)
		// a missing indicator LED is not critical
		return l
	}
	_ = l.gpioPin.Out(gpio.Low)
	return l
}

func (l *LED) On() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = true
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.High)
	}
}

func (l *LED) Off() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = false
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.Low)
	}
}

// Flash gives one short blink. If a flash is already in progress the
// request is discarded rather than queued on the mutex.
func (l *LED) Flash(duration time.Duration) {
	if l.gpioPin == nil {
		return
	}
	if !l.lock.TryLock() {
		return
	}
	defer l.lock.Unlock()
	if !l.on {
		_ = l.gpioPin.Out(gpio.High)
		time.Sleep(duration)
		_ = l.gpioPin.Out(gpio.Low)
	} else {
		// 'off' flash for an LED currently lit
		_ = l.gpioPin.Out(gpio.Low)
		time.Sleep(duration)
		_ = l.gpioPin.Out(gpio.High)
	}
}
