package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidSession(t *testing.T) {
	t.Helper()
	t.Setenv("DEVADDR", "0x26002FB5")
	t.Setenv("NWKSKEY", "1A71FD1CFC995384E2CD7BEEBB7FE3F9")
	t.Setenv("APPSKEY", "14EE5DE645DE42A1A7AAF9AF3694906E")
}

func TestLoadSession(t *testing.T) {
	setValidSession(t)

	s, err := LoadSession()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x26002FB5), s.DevAddr)
	assert.Equal(t, byte(0x1A), s.NwkSKey[0])
	assert.Equal(t, byte(0xF9), s.NwkSKey[15])
	assert.Equal(t, byte(0x14), s.AppSKey[0])
	assert.Equal(t, byte(0x6E), s.AppSKey[15])
}

func TestLoadSessionBareHexDevAddr(t *testing.T) {
	setValidSession(t)
	t.Setenv("DEVADDR", "26002FB5")

	s, err := LoadSession()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x26002FB5), s.DevAddr)
}

func TestLoadSessionRejectsBadKeys(t *testing.T) {
	setValidSession(t)
	t.Setenv("NWKSKEY", "1A71FD") // too short

	_, err := LoadSession()
	assert.Error(t, err)

	setValidSession(t)
	t.Setenv("APPSKEY", "not hex at all not hex at all!!!")
	_, err = LoadSession()
	assert.Error(t, err)
}

func TestLoadSessionRequiresAllCredentials(t *testing.T) {
	for _, name := range []string{"DEVADDR", "NWKSKEY", "APPSKEY"} {
		setValidSession(t)
		t.Setenv(name, "")
		_, err := LoadSession()
		assert.Error(t, err, name)
	}
}

func TestFingerprintMasksKeys(t *testing.T) {
	setValidSession(t)
	s, err := LoadSession()
	require.NoError(t, err)

	fp := s.Fingerprint()
	assert.Contains(t, fp, "26002FB5")
	assert.NotContains(t, fp, "1A71FD1C")
	assert.NotContains(t, fp, "14EE5DE6")
}

func TestUplinkTopic(t *testing.T) {
	assert.Equal(t, "lora/up/26002FB5", uplinkTopic(0x26002FB5))
}
