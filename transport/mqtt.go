package transport

import (
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gr-butler/lorastation/led"
	logger "github.com/sirupsen/logrus"
)

/*
 * MQTTUplink hands observation frames to the station-side radio forwarder
 * over MQTT. The forwarder owns the radio duty cycle and retry schedule; on
 * this side the contract is small: send the frame at the next opportunity,
 * and if the previous transmission is still pending, drop this one. The
 * report buffer holds the only record ever in flight - there is no queue.
 */

const publishTimeout = 30 * time.Second

type MQTTUplink struct {
	client   mqtt.Client
	topic    string
	session  Session
	txLed    *led.LED
	inflight atomic.Bool
}

func NewMQTTUplink(broker string, session Session, txLed *led.LED) (*MQTTUplink, error) {
	u := &MQTTUplink{
		session: session,
		topic:   uplinkTopic(session.DevAddr),
		txLed:   txLed,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("lorastation-%08x", session.DevAddr))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Infof("Uplink connected [%v]", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Errorf("Uplink connection lost [%v]", err)
	})

	u.client = mqtt.NewClient(opts)
	token := u.client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("timed out connecting to %v", broker)
	}
	if err := token.Error(); err != nil {
		return nil, err
	}
	logger.Infof("Uplink session [%v] topic [%v]", session.Fingerprint(), u.topic)
	return u, nil
}

func uplinkTopic(devAddr uint32) string {
	return fmt.Sprintf("lora/up/%08X", devAddr)
}

// Send queues one frame for transmission at the next opportunity. If the
// previous transmission has not completed the frame is dropped for this
// cycle; the next report will carry fresher data anyway.
func (u *MQTTUplink) Send(frame []byte) {
	if !u.inflight.CompareAndSwap(false, true) {
		logger.Info("Transmission pending, not sending")
		return
	}
	go func() {
		defer u.inflight.Store(false)
		if u.txLed != nil {
			u.txLed.On()
			defer u.txLed.Off()
		}
		token := u.client.Publish(u.topic, 1, false, frame)
		if !token.WaitTimeout(publishTimeout) {
			logger.Error("Transmission timed out")
			return
		}
		if err := token.Error(); err != nil {
			logger.Errorf("Transmission failed [%v]", err)
			return
		}
		logger.Infof("Packet sent [%v bytes]", len(frame))
	}()
}
