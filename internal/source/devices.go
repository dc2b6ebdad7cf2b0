// SPDX-License-Identifier: MIT
package source

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.bug.st/serial"
)

// Initialize sets up the PortAudio subsystem. It must be called before
// opening an AudioSource and paired with a Terminate call.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("source: initialize portaudio: %w", err)
	}
	return nil
}

// Terminate shuts the PortAudio subsystem down. Defer it right after
// Initialize.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("source: terminate portaudio: %w", err)
	}
	return nil
}

// Device describes an audio capture device usable as a sample source.
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
}

// AudioDevices returns all available audio devices.
func AudioDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("source: enumerate audio devices: %w", err)
	}

	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{
			ID:                i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		}
	}
	return devices, nil
}

// SerialPorts returns the names of the serial ports present on the
// system, candidates for the RAM bus bridge.
func SerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("source: enumerate serial ports: %w", err)
	}
	return ports, nil
}

// ListSources prints every usable sample source: audio capture devices
// first, then serial ports.
func ListSources() error {
	devices, err := AudioDevices()
	if err != nil {
		return err
	}

	fmt.Printf("\nAudio capture devices\n\n")
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}
		fmt.Printf("[%d] %s\n", d.ID, d.Name)
		fmt.Printf("    Input channels: %d, default sample rate: %.0f Hz\n\n",
			d.MaxInputChannels, d.DefaultSampleRate)
	}

	ports, err := SerialPorts()
	if err != nil {
		return err
	}

	fmt.Printf("Serial ports\n\n")
	if len(ports) == 0 {
		fmt.Println("    (none found)")
	}
	for _, p := range ports {
		fmt.Printf("    %s\n", p)
	}
	fmt.Println()

	return nil
}

// inputDevice resolves a device ID to a PortAudio device, with -1
// selecting the system default input.
func inputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID < 0 {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("source: default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("source: enumerate audio devices: %w", err)
	}
	if deviceID >= len(devices) {
		return nil, fmt.Errorf("source: invalid device ID: %d", deviceID)
	}
	return devices[deviceID], nil
}
