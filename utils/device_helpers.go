package utils

import (
	"fmt"
	"github.com/notargets/gocca"
)

// Backends lists the OCCA device properties tried by CreateTestDevice, most
// parallel first
var Backends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// CreateDevice opens the device described by props, or the first backend in
// Backends that is available when props is empty
func CreateDevice(props string) (*gocca.OCCADevice, error) {
	if props != "" {
		device, err := gocca.NewDevice(props)
		if err != nil {
			return nil, fmt.Errorf("create device %s: %w", props, err)
		}
		return device, nil
	}

	var lastErr error
	for _, p := range Backends {
		device, err := gocca.NewDevice(p)
		if err == nil {
			return device, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no OCCA backend available: %w", lastErr)
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	device, err := CreateDevice("")
	if err != nil {
		// Serial is always compiled into OCCA
		panic("Failed to create any Device: " + err.Error())
	}
	fmt.Printf("Created %s Device\n", device.Mode())
	return device
}
