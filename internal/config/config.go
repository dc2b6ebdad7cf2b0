// SPDX-License-Identifier: MIT
// Package config defines the runtime configuration of the scope
// application: capture source selection, trigger and display settings,
// transports and recording. Values come from built-in defaults, an
// optional YAML file, environment overrides and command line flags, in
// that order.
package config

import "time"

// Core configuration constants that bound and default the capture and
// processing pipeline.
const (
	// Source defaults.
	DefaultSourceKind = "synth"     // synthetic generator needs no hardware
	DefaultDeviceID   = MinDeviceID // system default audio input
	DefaultSampleRate = 44100       // CD-quality capture for audio sources
	DefaultBaudRate   = 115200      // RAM bus bridge UART speed
	DefaultRAMSize    = 64 * 1024   // vendor-defined capture RAM size
	DefaultSynthWave  = "sine"      // synthetic waveform shape
	DefaultSynthCycle = 200.0       // samples per synthetic cycle

	// Capture defaults.
	DefaultBlockSize     = 4096                  // samples read per frame
	DefaultAddress       = 0                     // start address in capture RAM
	DefaultFrameInterval = 33 * time.Millisecond // ~30 frames/s
	DefaultDisplayMode   = "wave"                // wave or spectrum

	// Processing defaults (mirrors the dsp package power-on state).
	DefaultTriggerMode     = "off"
	DefaultTriggerLevel    = 128
	DefaultAmplitudeScale  = 1.0
	DefaultSamplesPerPixel = 1

	// Transport defaults.
	DefaultWSPort      = "8080"
	DefaultUDPTarget   = "127.0.0.1:9090"
	DefaultUDPInterval = 33 * time.Millisecond

	// Limits.
	MinDeviceID  = -1      // -1 selects the system default device
	MaxBlockSize = 1 << 20 // upper bound on a single capture read
)

// Config holds all runtime options for the scope application.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	Command  string `yaml:"-"` // one-off command (list, capture); flags only
	TUIMode  bool   `yaml:"-"` // interactive source picker; flags only

	Source    SourceConfig    `yaml:"source"`
	Capture   CaptureConfig   `yaml:"capture"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Display   DisplayConfig   `yaml:"display"`
	Transport TransportConfig `yaml:"transport"`
	Record    RecordConfig    `yaml:"record"`
}

// SourceConfig selects and parameterizes the sample source.
type SourceConfig struct {
	Kind       string  `yaml:"kind"`        // serial, audio, wav or synth
	SerialPort string  `yaml:"serial_port"` // bus bridge port, e.g. /dev/ttyUSB0
	BaudRate   int     `yaml:"baud_rate"`
	RAMSize    uint32  `yaml:"ram_size"` // capture RAM address space in bytes
	DeviceID   int     `yaml:"device_id"`
	SampleRate float64 `yaml:"sample_rate"`
	WAVPath    string  `yaml:"wav_path"`
	SynthWave  string  `yaml:"synth_wave"`  // sine, ramp or square
	SynthCycle float64 `yaml:"synth_cycle"` // samples per cycle
}

// CaptureConfig controls the per-frame capture read.
type CaptureConfig struct {
	BlockSize     int           `yaml:"block_size"`
	Address       uint32        `yaml:"address"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	Mode          string        `yaml:"mode"` // wave or spectrum
}

// TriggerConfig holds the initial trigger settings.
type TriggerConfig struct {
	Mode  string `yaml:"mode"` // off, rising, falling or level
	Level int    `yaml:"level"`
}

// DisplayConfig holds the initial vertical and horizontal scaling.
type DisplayConfig struct {
	AmplitudeScale  float64 `yaml:"amplitude_scale"`
	SamplesPerPixel int     `yaml:"samples_per_pixel"`
	PNGPath         string  `yaml:"png_path"` // output of the capture command
}

// TransportConfig controls frame publication to display clients.
type TransportConfig struct {
	WSEnabled   bool          `yaml:"ws_enabled"`
	WSPort      string        `yaml:"ws_port"`
	UDPEnabled  bool          `yaml:"udp_enabled"`
	UDPTarget   string        `yaml:"udp_target"`
	UDPInterval time.Duration `yaml:"udp_interval"`
}

// RecordConfig controls WAV recording of captured blocks.
type RecordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"`
}

// NewConfig returns a Config populated with the built-in defaults. It
// is the base that YAML files, env overrides and flags layer onto.
func NewConfig() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Source: SourceConfig{
			Kind:       DefaultSourceKind,
			BaudRate:   DefaultBaudRate,
			RAMSize:    DefaultRAMSize,
			DeviceID:   DefaultDeviceID,
			SampleRate: DefaultSampleRate,
			SynthWave:  DefaultSynthWave,
			SynthCycle: DefaultSynthCycle,
		},
		Capture: CaptureConfig{
			BlockSize:     DefaultBlockSize,
			Address:       DefaultAddress,
			FrameInterval: DefaultFrameInterval,
			Mode:          DefaultDisplayMode,
		},
		Trigger: TriggerConfig{
			Mode:  DefaultTriggerMode,
			Level: DefaultTriggerLevel,
		},
		Display: DisplayConfig{
			AmplitudeScale:  DefaultAmplitudeScale,
			SamplesPerPixel: DefaultSamplesPerPixel,
		},
		Transport: TransportConfig{
			WSEnabled:   false,
			WSPort:      DefaultWSPort,
			UDPEnabled:  false,
			UDPTarget:   DefaultUDPTarget,
			UDPInterval: DefaultUDPInterval,
		},
	}
}
