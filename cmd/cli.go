// SPDX-License-Identifier: MIT
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"scope/internal/config"
	"scope/pkg/build"
)

// ParseArgs parses the command line into a Config. Precedence is
// defaults < YAML file < environment < explicit flags.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()

	var configPath string
	options := config.NewConfig()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Digital storage oscilloscope front end",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default invocation runs the continuous capture loop.
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available sample sources (audio devices and serial ports)",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	captureCmd := &cobra.Command{
		Use:   "capture [output.png]",
		Short: "Capture one frame and write it as a grayscale PNG",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "capture"
			if len(args) == 1 {
				options.Display.PNGPath = args[0]
			}
		},
	}
	rootCmd.AddCommand(captureCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (default searches scope.yaml)")

	// Source selection.
	rootCmd.PersistentFlags().StringVarP(&options.Source.Kind, "source", "S", config.DefaultSourceKind,
		"Sample source: serial, audio, wav or synth")
	rootCmd.PersistentFlags().StringVarP(&options.Source.SerialPort, "port", "p", "",
		"Serial port of the RAM bus bridge (serial source)")
	rootCmd.PersistentFlags().IntVar(&options.Source.BaudRate, "baud", config.DefaultBaudRate,
		"Serial baud rate")
	rootCmd.PersistentFlags().IntVarP(&options.Source.DeviceID, "device", "d", config.DefaultDeviceID,
		"Audio input device ID, -1 for the system default (audio source)")
	rootCmd.PersistentFlags().Float64VarP(&options.Source.SampleRate, "sample-rate", "r", config.DefaultSampleRate,
		"Capture sample rate in Hz (audio source)")
	rootCmd.PersistentFlags().StringVarP(&options.Source.WAVPath, "wav", "w", "",
		"WAV file to use as the sample source (wav source)")
	rootCmd.PersistentFlags().StringVar(&options.Source.SynthWave, "synth-wave", config.DefaultSynthWave,
		"Synthetic waveform: sine, ramp or square (synth source)")

	// Capture geometry.
	rootCmd.PersistentFlags().IntVarP(&options.Capture.BlockSize, "samples", "n", config.DefaultBlockSize,
		"Samples captured per frame")
	rootCmd.PersistentFlags().Uint32VarP(&options.Capture.Address, "address", "a", config.DefaultAddress,
		"Capture start address in the source address space")
	rootCmd.PersistentFlags().DurationVar(&options.Capture.FrameInterval, "interval", config.DefaultFrameInterval,
		"Interval between capture frames")
	rootCmd.PersistentFlags().StringVarP(&options.Capture.Mode, "mode", "m", config.DefaultDisplayMode,
		"Display mode: wave or spectrum")

	// Trigger and scaling.
	rootCmd.PersistentFlags().StringVarP(&options.Trigger.Mode, "trigger", "t", config.DefaultTriggerMode,
		"Trigger mode: off, rising, falling or level")
	rootCmd.PersistentFlags().IntVarP(&options.Trigger.Level, "trigger-level", "l", config.DefaultTriggerLevel,
		"Trigger level (0-255)")
	rootCmd.PersistentFlags().Float64VarP(&options.Display.AmplitudeScale, "scale", "s", config.DefaultAmplitudeScale,
		"Vertical amplitude scale factor")
	rootCmd.PersistentFlags().IntVarP(&options.Display.SamplesPerPixel, "samples-per-pixel", "x", config.DefaultSamplesPerPixel,
		"Samples averaged into each horizontal pixel")

	// Transports and recording.
	rootCmd.PersistentFlags().BoolVar(&options.Transport.WSEnabled, "ws", false,
		"Broadcast frames to WebSocket display clients")
	rootCmd.PersistentFlags().StringVar(&options.Transport.WSPort, "ws-port", config.DefaultWSPort,
		"WebSocket server port")
	rootCmd.PersistentFlags().BoolVar(&options.Transport.UDPEnabled, "udp", false,
		"Publish binary trace packets over UDP")
	rootCmd.PersistentFlags().StringVar(&options.Transport.UDPTarget, "udp-target", config.DefaultUDPTarget,
		"UDP target address for trace packets")
	rootCmd.PersistentFlags().BoolVar(&options.Record.Enabled, "record", false,
		"Record captured blocks to a WAV file")
	rootCmd.PersistentFlags().StringVarP(&options.Record.OutputFile, "output", "o", "",
		"Recording file name. Default is capture-DD-MM-YYYY-HHMMSS.wav")

	// Debug.
	rootCmd.PersistentFlags().BoolVarP(&options.Debug, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().BoolVar(&options.TUIMode, "tui", false,
		"Open the interactive source picker")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	// Layer the file and environment under the flags.
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	mergeFlagOverrides(rootCmd, options, cfg)

	if cfg.Record.OutputFile == "" {
		cfg.Record.OutputFile = "capture-" +
			time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlagOverrides copies every explicitly set flag value from the
// flag-bound config into dst, plus the command selection which only
// ever comes from the command line.
func mergeFlagOverrides(rootCmd *cobra.Command, flagValues, dst *config.Config) {
	set := func(name string) bool {
		f := rootCmd.PersistentFlags().Lookup(name)
		return f != nil && f.Changed
	}

	if set("source") {
		dst.Source.Kind = flagValues.Source.Kind
	}
	if set("port") {
		dst.Source.SerialPort = flagValues.Source.SerialPort
	}
	if set("baud") {
		dst.Source.BaudRate = flagValues.Source.BaudRate
	}
	if set("device") {
		dst.Source.DeviceID = flagValues.Source.DeviceID
	}
	if set("sample-rate") {
		dst.Source.SampleRate = flagValues.Source.SampleRate
	}
	if set("wav") {
		dst.Source.WAVPath = flagValues.Source.WAVPath
	}
	if set("synth-wave") {
		dst.Source.SynthWave = flagValues.Source.SynthWave
	}
	if set("samples") {
		dst.Capture.BlockSize = flagValues.Capture.BlockSize
	}
	if set("address") {
		dst.Capture.Address = flagValues.Capture.Address
	}
	if set("interval") {
		dst.Capture.FrameInterval = flagValues.Capture.FrameInterval
	}
	if set("mode") {
		dst.Capture.Mode = flagValues.Capture.Mode
	}
	if set("trigger") {
		dst.Trigger.Mode = flagValues.Trigger.Mode
	}
	if set("trigger-level") {
		dst.Trigger.Level = flagValues.Trigger.Level
	}
	if set("scale") {
		dst.Display.AmplitudeScale = flagValues.Display.AmplitudeScale
	}
	if set("samples-per-pixel") {
		dst.Display.SamplesPerPixel = flagValues.Display.SamplesPerPixel
	}
	if set("ws") {
		dst.Transport.WSEnabled = flagValues.Transport.WSEnabled
	}
	if set("ws-port") {
		dst.Transport.WSPort = flagValues.Transport.WSPort
	}
	if set("udp") {
		dst.Transport.UDPEnabled = flagValues.Transport.UDPEnabled
	}
	if set("udp-target") {
		dst.Transport.UDPTarget = flagValues.Transport.UDPTarget
	}
	if set("record") {
		dst.Record.Enabled = flagValues.Record.Enabled
	}
	if set("output") {
		dst.Record.OutputFile = flagValues.Record.OutputFile
	}
	if set("verbose") {
		dst.Debug = flagValues.Debug
	}

	dst.Command = flagValues.Command
	dst.TUIMode = flagValues.TUIMode
	if flagValues.Display.PNGPath != "" {
		dst.Display.PNGPath = flagValues.Display.PNGPath
	}
}
