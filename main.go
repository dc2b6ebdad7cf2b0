// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scope/cmd"
	"scope/internal/config"
	applog "scope/internal/log"
	"scope/internal/scope"
	"scope/internal/source"
	"scope/internal/transport"
	"scope/internal/transport/udp"
	"scope/internal/tui"
	"scope/pkg/build"
)

// main is the entry point for the scope application. The program flow
// has three phases:
//
// 1. Startup:
//   - Initialize build information
//   - Parse command line arguments and config file
//   - Initialize the audio subsystem
//   - Execute one-off commands (list, capture) if requested
//
// 2. Capture loop:
//   - Open the configured sample source
//   - Start the engine's periodic capture/process/publish loop
//   - Start recording and transports if enabled
//
// 3. Shutdown:
//   - Handle termination signals
//   - Stop the loop, finalize recordings, close transports
func main() {
	if err := build.Initialize(); err != nil {
		log.Fatal(err)
	}

	cfg, err := cmd.ParseArgs()
	if err != nil {
		log.Fatal(err)
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if cfg.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	if err := source.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer source.Terminate()

	switch cfg.Command {
	case "list":
		if err := source.ListSources(); err != nil {
			log.Fatal(err)
		}
		return
	case "capture":
		if err := captureOnce(cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	if cfg.TUIMode {
		if err := tui.RunSourcePicker(); err != nil {
			log.Fatal(err)
		}
		return
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	src, err := scope.OpenSource(cfg)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := scope.NewEngine(cfg, src)
	if err != nil {
		src.Close()
		log.Fatal(err)
	}

	if cfg.Transport.WSEnabled {
		engine.AddTransport(transport.NewWebSocketTransport(cfg.Transport.WSPort))
	}

	var publisher *udp.Publisher
	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewSender(cfg.Transport.UDPTarget)
		if err != nil {
			log.Fatal(err)
		}
		publisher, err = udp.NewPublisher(cfg.Transport.UDPInterval, sender, engine)
		if err != nil {
			log.Fatal(err)
		}
		publisher.Start()
		defer sender.Close()
	}

	if cfg.Record.Enabled {
		if err := engine.StartRecording(cfg.Record.OutputFile); err != nil {
			log.Fatal(err)
		}
	}

	engine.Run()
	fmt.Printf("%s running, ctrl-c to stop\n", build.GetBuildFlags().Name)

	<-done

	if publisher != nil {
		if err := publisher.Stop(); err != nil {
			applog.Errorf("main: stopping UDP publisher: %v", err)
		}
	}
	if cfg.Record.Enabled {
		fmt.Printf("\nRecording saved to: %s\n", cfg.Record.OutputFile)
	}
	if err := engine.Close(); err != nil {
		applog.Errorf("main: closing engine: %v", err)
	}
}

// captureOnce performs a single capture frame and writes the rendered
// matrix to a PNG file.
func captureOnce(cfg *config.Config) error {
	src, err := scope.OpenSource(cfg)
	if err != nil {
		return err
	}

	engine, err := scope.NewEngine(cfg, src)
	if err != nil {
		src.Close()
		return err
	}
	defer engine.Close()

	if err := engine.CaptureFrame(); err != nil {
		return err
	}

	path := cfg.Display.PNGPath
	if path == "" {
		path = "capture.png"
	}
	if err := engine.SavePNG(path); err != nil {
		return err
	}

	trig := engine.LastTrigger()
	if trig.Detected {
		fmt.Printf("Captured frame to %s (trigger at sample %d)\n", path, trig.Position)
	} else {
		fmt.Printf("Captured frame to %s (no trigger)\n", path)
	}
	return nil
}
