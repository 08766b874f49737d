package transport

import (
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubToken completes when the test closes done.
type stubToken struct {
	done chan struct{}
}

func (t *stubToken) Wait() bool {
	<-t.done
	return true
}

func (t *stubToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *stubToken) Done() <-chan struct{} { return t.done }
func (t *stubToken) Error() error          { return nil }

// stubClient records published frames; every publish token stays pending
// until release is closed.
type stubClient struct {
	mqtt.Client
	release   chan struct{}
	published chan []byte
}

func (c *stubClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published <- payload.([]byte)
	return &stubToken{done: c.release}
}

func TestSendDropsWhileTransmissionPending(t *testing.T) {
	c := &stubClient{release: make(chan struct{}), published: make(chan []byte, 4)}
	u := &MQTTUplink{client: c, topic: uplinkTopic(0x26002FB5)}

	u.Send([]byte{0x01, 0x02})
	assert.Equal(t, []byte{0x01, 0x02}, <-c.published)

	// the first transmission has not completed: these reports are dropped
	// for their cycle, nothing else reaches the client
	u.Send([]byte{0x03, 0x04})
	u.Send([]byte{0x05, 0x06})
	assert.Empty(t, c.published)
	assert.True(t, u.inflight.Load())

	// completion frees the slot for the next cycle
	close(c.release)
	require.Eventually(t, func() bool { return !u.inflight.Load() }, time.Second, time.Millisecond)

	u.Send([]byte{0x07, 0x08})
	select {
	case frame := <-c.published:
		assert.Equal(t, []byte{0x07, 0x08}, frame)
	case <-time.After(time.Second):
		t.Fatal("frame was not sent after the previous transmission completed")
	}
}
