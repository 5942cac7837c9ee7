/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package config loads the tunables that size and pace the debugger core:
// breakpoint table capacity, response payload budgets, and mutex timeouts.
// Loaded from TOML with github.com/pelletier/go-toml/v2 (the same library
// tinydbg's own scenario suite, pkg/test, reads its scenarios with), with
// defaults applied first and the file overriding them.
package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/stackedboxes/tinydbg/pkg/errs"
)

// Config holds every tunable the debugger core needs at attach time.
type Config struct {
	// MaxBreakpoints is the capacity of the breakpoint table. Must be >= 100.
	MaxBreakpoints int `toml:"max_breakpoints"`

	// StackPayloadBudget bounds a single stack-response chunk, in bytes. Must
	// be in [64, MaxPayload].
	StackPayloadBudget int `toml:"stack_payload_budget"`

	// VarsPayloadBudget bounds a single variables-response chunk, in bytes.
	// Must be in [64, MaxPayload].
	VarsPayloadBudget int `toml:"vars_payload_budget"`

	// MaxPayload is the transport's hard per-message payload ceiling.
	MaxPayload int `toml:"max_payload"`

	// ObjReprMax caps the length of a single printed (repr'd) value.
	ObjReprMax int `toml:"obj_repr_max"`

	// MutexTimeout bounds how long a core will wait to acquire the core
	// mutex before treating the attempt as a miss.
	MutexTimeout time.Duration `toml:"mutex_timeout"`

	// StopLoopPollInterval bounds a single receive poll inside the stop-loop.
	// Each empty poll lets the interpreter core cooperatively yield before
	// trying again.
	StopLoopPollInterval time.Duration `toml:"stop_loop_poll_interval"`
}

// Default returns the stock tunables: a 200-byte stack/variables budget, a
// 100ms mutex timeout.
func Default() *Config {
	return &Config{
		MaxBreakpoints:       100,
		StackPayloadBudget:   200,
		VarsPayloadBudget:    200,
		MaxPayload:           1024,
		ObjReprMax:           50,
		MutexTimeout:         100 * time.Millisecond,
		StopLoopPollInterval: 20 * time.Millisecond,
	}
}

// Load reads a Config from a TOML file at path, applying it on top of
// Default() so an omitted field keeps its default rather than zeroing out.
func Load(path string) (*Config, errs.Error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewTool("reading config file %v: %v", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.NewTool("parsing config file %v: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that cfg's tunables are internally consistent.
func (cfg *Config) Validate() errs.Error {
	if cfg.MaxBreakpoints < 100 {
		return errs.NewTool("max_breakpoints must be >= 100, got %v", cfg.MaxBreakpoints)
	}
	if cfg.StackPayloadBudget < 64 || cfg.StackPayloadBudget > cfg.MaxPayload {
		return errs.NewTool("stack_payload_budget must be in [64, %v], got %v", cfg.MaxPayload, cfg.StackPayloadBudget)
	}
	if cfg.VarsPayloadBudget < 64 || cfg.VarsPayloadBudget > cfg.MaxPayload {
		return errs.NewTool("vars_payload_budget must be in [64, %v], got %v", cfg.MaxPayload, cfg.VarsPayloadBudget)
	}
	if cfg.MutexTimeout <= 0 {
		return errs.NewTool("mutex_timeout must be positive, got %v", cfg.MutexTimeout)
	}
	if cfg.StopLoopPollInterval <= 0 {
		return errs.NewTool("stop_loop_poll_interval must be positive, got %v", cfg.StopLoopPollInterval)
	}
	return nil
}
