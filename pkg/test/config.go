/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package test

// scenarioConfig is the structure mirroring a scenario's TOML file: a
// fixture to run plus the host-side script to drive it -- a breakpoint,
// stepping, or terminate narrative played out end-to-end.
type scenarioConfig struct {
	// Fixture names one of the programs built in fixtures.go.
	Fixture string `toml:"fixture"`

	// Steps is the host-side script: each one sends a command and,
	// optionally, waits for matching events before the next step runs.
	Steps []scenarioStep `toml:"step"`

	// ExpectOutput, if non-empty, is compared against the program's full
	// printed output once the run finishes.
	ExpectOutput string `toml:"expect_output"`

	// ExpectInterrupted marks a scenario whose fixture is expected to end
	// with a runtime error because the host terminated it mid-run, rather
	// than by running to completion.
	ExpectInterrupted bool `toml:"expect_interrupted"`
}

// scenarioStep is a single entry in a scenario's host-side script.
type scenarioStep struct {
	// Send is the command to issue: one of start, continue, pause,
	// step_into, step_over, step_out, terminate, set_breakpoints. May be
	// empty, for a step that just waits on the next event -- e.g. the
	// implicit stop-at-entry that follows "start" without any further
	// command from the host.
	Send string `toml:"send"`

	// File and Lines are used by a set_breakpoints step.
	File  string   `toml:"file"`
	Lines []uint32 `toml:"lines"`

	// ExpectReason, used by a step that is expected to block until the
	// target stops, is the stop reason (e.g. "BREAKPT", "STARTNG", "SOVR";
	// the wire tag's leading colon and underscore padding are stripped
	// before comparing) the next DBG_STOP event must carry.
	ExpectReason string `toml:"expect_reason"`

	// ExpectDone, if true, means this step waits for DBG_DONE instead of a
	// stop event.
	ExpectDone bool `toml:"expect_done"`
}
