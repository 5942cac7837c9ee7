/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package test

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/stackedboxes/tinydbg/pkg/config"
	"github.com/stackedboxes/tinydbg/pkg/errs"
	"github.com/stackedboxes/tinydbg/pkg/proto"
	"github.com/stackedboxes/tinydbg/pkg/romutil"
	"github.com/stackedboxes/tinydbg/pkg/transport"
)

// ExecuteSuite runs every scenario.toml found under suitePath, recursively.
func ExecuteSuite(suitePath string) errs.Error {
	return romutil.ForEachMatchingFileRecursive(suitePath, regexp.MustCompile(`^scenario\.toml$`),
		func(configPath string) errs.Error {
			return runCase(configPath)
		},
	)
}

// readScenarioConfig reads a scenario configuration from a TOML file.
func readScenarioConfig(configPath string) (*scenarioConfig, errs.Error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errs.NewTestSuite(configPath, "%v", err)
	}
	cfg := &scenarioConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.NewTestSuite(configPath, "%v", err)
	}
	return cfg, nil
}

// runCase runs the scenario defined at configPath.
func runCase(configPath string) errs.Error {
	testCase := path.Dir(configPath)

	cfg, err := readScenarioConfig(configPath)
	if err != nil {
		return err
	}

	build, ok := fixtures[cfg.Fixture]
	if !ok {
		return errs.NewTestSuite(testCase, "unknown fixture %q", cfg.Fixture)
	}

	h := newHarness(config.Default(), build())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.run(ctx)

	for i, step := range cfg.Steps {
		if err := runStep(testCase, i, h, step); err != nil {
			return err
		}
	}

	runErr := h.wait()
	if cfg.ExpectInterrupted {
		if runErr == nil {
			return errs.NewTestSuite(testCase, "expected the fixture to be interrupted, but it ran to completion")
		}
	} else if runErr != nil {
		return errs.NewTestSuite(testCase, "interpreting the fixture: %v", runErr)
	}

	if cfg.ExpectOutput != "" {
		got := strings.Join(h.mouth.Outputs, "")
		if got != cfg.ExpectOutput {
			return errs.NewTestSuite(testCase, "expected output %q, got %q", cfg.ExpectOutput, got)
		}
	}

	fmt.Printf("Scenario passed: %v.\n", testCase)
	return nil
}

// runStep optionally sends a step's command -- a step with no Send just
// waits for the next event, which is how a scenario observes the implicit
// stop-at-entry that follows "start" without the host issuing a command for
// it -- then, if the step names an expected stop reason or DBG_DONE, blocks
// until that event arrives.
func runStep(testCase string, i int, h *harness, step scenarioStep) errs.Error {
	if step.Send != "" {
		msg, err := buildCommand(testCase, step)
		if err != nil {
			return err
		}
		if sendErr := h.send(msg); sendErr != nil {
			return errs.NewTestSuite(testCase, "step %d: sending %v: %v", i, step.Send, sendErr)
		}
	}

	if step.ExpectDone {
		evt, ok := h.next()
		if !ok {
			return errs.NewTestSuite(testCase, "step %d: bus closed waiting for DBG_DONE", i)
		}
		if evt.Tag != proto.EvtDone {
			return errs.NewTestSuite(testCase, "step %d: expected DBG_DONE, got %v", i, evt.Tag)
		}
		return nil
	}

	if step.ExpectReason != "" {
		evt, ok := h.next()
		if !ok {
			return errs.NewTestSuite(testCase, "step %d: bus closed waiting for DBG_STOP", i)
		}
		if evt.Tag != proto.EvtStopped {
			return errs.NewTestSuite(testCase, "step %d: expected DBG_STOP, got %v", i, evt.Tag)
		}
		got := strings.TrimRight(strings.TrimPrefix(string(evt.Payload), ":"), "_")
		if got != step.ExpectReason {
			return errs.NewTestSuite(testCase, "step %d: expected stop reason %q, got %q", i, step.ExpectReason, got)
		}
	}

	return nil
}

// buildCommand translates a scenario step's Send name into a wire message.
func buildCommand(testCase string, step scenarioStep) (transport.Message, errs.Error) {
	switch step.Send {
	case "start":
		return transport.Message{Tag: proto.CmdStart}, nil
	case "continue":
		return transport.Message{Tag: proto.CmdContinue}, nil
	case "pause":
		return transport.Message{Tag: proto.CmdPause}, nil
	case "step_into":
		return transport.Message{Tag: proto.CmdStepInto}, nil
	case "step_over":
		return transport.Message{Tag: proto.CmdStepOver}, nil
	case "step_out":
		return transport.Message{Tag: proto.CmdStepOut}, nil
	case "terminate":
		return transport.Message{Tag: proto.CmdTerminate}, nil
	case "set_breakpoints":
		payload := []byte(step.File + "\x00")
		for _, line := range step.Lines {
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, line)
			payload = append(payload, b...)
		}
		return transport.Message{Tag: proto.CmdSetBreakpoints, Payload: payload}, nil
	default:
		return transport.Message{}, errs.NewTestSuite(testCase, "unknown step command %q", step.Send)
	}
}
