//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/sousvide/pkg/relay"
)

var _ relay.Relay = (*relayPin)(nil)

// relayPin drives the heater relay output.
type relayPin struct {
	pin machine.Pin
	on  bool
}

func (r *relayPin) On() error {
	r.pin.High()
	r.on = true
	return nil
}

func (r *relayPin) Off() error {
	r.pin.Low()
	r.on = false
	return nil
}

func (r *relayPin) IsOn() bool {
	return r.on
}
