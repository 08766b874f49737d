package transport

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Session holds the pre-shared link credentials. There is no dynamic
// network join: the device address and session keys are provisioned once
// and loaded at startup, and a station that can't load them doesn't start.
type Session struct {
	DevAddr uint32
	NwkSKey [16]byte
	AppSKey [16]byte
}

// LoadSession reads DEVADDR, NWKSKEY and APPSKEY from the environment.
// DEVADDR is hex (with or without 0x); the keys are 32 hex characters.
func LoadSession() (Session, error) {
	s := Session{}

	addr, ok := os.LookupEnv("DEVADDR")
	if !ok {
		return s, fmt.Errorf("DEVADDR not set")
	}
	devAddr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(addr), "0x"), 16, 32)
	if err != nil {
		return s, fmt.Errorf("invalid DEVADDR [%v]", err)
	}
	s.DevAddr = uint32(devAddr)

	if s.NwkSKey, err = loadKey("NWKSKEY"); err != nil {
		return s, err
	}
	if s.AppSKey, err = loadKey("APPSKEY"); err != nil {
		return s, err
	}
	return s, nil
}

func loadKey(name string) ([16]byte, error) {
	var key [16]byte
	val, ok := os.LookupEnv(name)
	if !ok {
		return key, fmt.Errorf("%v not set", name)
	}
	raw, err := hex.DecodeString(val)
	if err != nil {
		return key, fmt.Errorf("invalid %v [%v]", name, err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("invalid %v: want %v bytes, got %v", name, len(key), len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

// Fingerprint identifies the session in logs without leaking key material.
func (s Session) Fingerprint() string {
	return fmt.Sprintf("%08X/%02x..%02x/%02x..%02x",
		s.DevAddr, s.NwkSKey[0], s.NwkSKey[15], s.AppSKey[0], s.AppSKey[15])
}
