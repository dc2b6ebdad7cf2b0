// SPDX-License-Identifier: MIT
/*
Package dsp implements the signal-processing core of the scope: trigger
synchronization, amplitude scaling, time-axis decimation and the
processor that drives them into the output matrix.

The hot path (Processor.Process) performs no allocations; every call
works on the caller's sample buffer and matrix only.
*/
package dsp

import "strings"

// TriggerMode selects how the capture start offset is located in the
// sample buffer.
type TriggerMode uint8

const (
	TriggerOff     TriggerMode = iota // no synchronization, start at 0
	TriggerRising                     // first rising crossing of the level
	TriggerFalling                    // first falling crossing of the level
	TriggerLevel                      // first crossing in either direction
)

// String returns the lowercase name used in flags and config files.
func (m TriggerMode) String() string {
	switch m {
	case TriggerOff:
		return "off"
	case TriggerRising:
		return "rising"
	case TriggerFalling:
		return "falling"
	case TriggerLevel:
		return "level"
	default:
		return "unknown"
	}
}

// ParseTriggerMode converts a mode name (case-insensitive) to a TriggerMode.
// Returns TriggerOff and false for unrecognized names.
func ParseTriggerMode(s string) (TriggerMode, bool) {
	switch strings.ToLower(s) {
	case "off":
		return TriggerOff, true
	case "rising", "rise":
		return TriggerRising, true
	case "falling", "fall":
		return TriggerFalling, true
	case "level":
		return TriggerLevel, true
	default:
		return TriggerOff, false
	}
}

// Next returns the following mode in the cycle off -> rising -> falling
// -> level -> off, matching the front-panel trigger button.
func (m TriggerMode) Next() TriggerMode {
	switch m {
	case TriggerOff:
		return TriggerRising
	case TriggerRising:
		return TriggerFalling
	case TriggerFalling:
		return TriggerLevel
	default:
		return TriggerOff
	}
}

// FindTrigger locates the synchronization offset in data for the given
// mode and level. It reports the first index satisfying the mode's
// crossing condition and whether one was found. Buffers shorter than
// two samples never trigger, and TriggerOff never triggers.
//
// TriggerLevel matches the device firmware's search: the i=0 test is
// satisfied for any sample value, so a non-empty buffer always reports
// position 0.
func FindTrigger(data []byte, mode TriggerMode, level byte) (int, bool) {
	if len(data) < 2 {
		return 0, false
	}

	switch mode {
	case TriggerRising:
		for i := 1; i < len(data); i++ {
			if data[i-1] < level && data[i] >= level {
				return i, true
			}
		}

	case TriggerFalling:
		for i := 1; i < len(data); i++ {
			if data[i-1] >= level && data[i] < level {
				return i, true
			}
		}

	case TriggerLevel:
		for i := 0; i < len(data); i++ {
			if (data[i] >= level && (i == 0 || data[i-1] < level)) ||
				(data[i] < level && (i == 0 || data[i-1] >= level)) {
				return i, true
			}
		}
	}

	return 0, false
}
