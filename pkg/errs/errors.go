/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

import (
	"fmt"
)

//
// The Error interface
//
// Error is reserved for conditions that end the tinydbg process: a bad
// invocation, a broken target image, an internal inconsistency. Conditions
// the debugger core can recover from on its own -- a response that didn't fit
// the payload budget, a malformed or unexpected command byte, a timed-out
// mutex acquisition -- are never represented as an Error. Those live as plain
// Go error values (or bare result codes) local to pkg/dbgr, precisely so that
// a caller can't accidentally funnel them into a report-and-exit path.
//

// Error is a tinydbg error.
type Error interface {
	error
	ExitCode() int
}

//
// Tool
//

// Tool is an error that happened while running the tinydbg tool that doesn't
// fit any of the other error types. Could be, e.g., an error opening some
// file, or loading a malformed target image.
type Tool struct {
	// Message contains a message explaining what went wrong.
	Message string
}

// NewTool is a handy way to create a Tool error.
func NewTool(format string, a ...any) *Tool {
	return &Tool{
		Message: fmt.Sprintf(format, a...),
	}
}

// Error converts the Tool to a string. Fulfills the error interface.
func (e *Tool) Error() string {
	return e.Message
}

// ExitCode fulfills the Error interface.
func (e *Tool) ExitCode() int {
	return StatusCodeToolError
}

//
// Target
//

// Target is an error reported by, or about, the debug target itself: it
// failed to attach, its image has no debug information when some was
// required, or it reported a status the host never expects to see. Distinct
// from Tool, which is about the tinydbg process's own housekeeping.
type Target struct {
	// Message contains a message explaining what went wrong.
	Message string
}

// NewTarget is a handy way to create a Target error.
func NewTarget(format string, a ...any) *Target {
	return &Target{
		Message: fmt.Sprintf(format, a...),
	}
}

// Error converts the Target to a string. Fulfills the error interface.
func (e *Target) Error() string {
	return "target error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *Target) ExitCode() int {
	return StatusCodeTargetError
}

//
// TestSuite
//

// TestSuite is an error that happened when running tinydbg's own scenario
// test suite.
type TestSuite struct {
	// TestCase contains the name of the test case that failed.
	TestCase string

	// Message contains a message explaining how the test failed.
	Message string
}

// NewTestSuite is a handy way to create a TestSuite error.
func NewTestSuite(testCase, format string, a ...any) *TestSuite {
	return &TestSuite{
		TestCase: testCase,
		Message:  fmt.Sprintf(format, a...),
	}
}

// Error converts the TestSuite to a string. Fulfills the error interface.
func (e *TestSuite) Error() string {
	return fmt.Sprintf("%v: %v", e.TestCase, e.Message)
}

// ExitCode fulfills the Error interface.
func (e *TestSuite) ExitCode() int {
	return StatusCodeTestSuiteError
}

//
// BadUsage
//

// BadUsage is an error that happened because the tinydbg tool was called in
// the wrong way (like incorrect command-line arguments).
type BadUsage struct {
	// Message contains a message explaining what happened.
	Message string
}

// NewBadUsage is a handy way to create a BadUsage error.
func NewBadUsage(format string, a ...any) *BadUsage {
	return &BadUsage{
		Message: fmt.Sprintf(format, a...),
	}
}

// Error converts the BadUsage to a string. Fulfills the error interface.
func (e *BadUsage) Error() string {
	return "Usage error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *BadUsage) ExitCode() int {
	return StatusCodeBadUsage
}

//
// Runtime
//

// Runtime is an error that happened while running the target program: either
// an interpreter bug, or the host terminating the run mid-flight.
type Runtime struct {
	// Message contains a message explaining what happened.
	Message string
}

// NewRuntime is a handy way to create a Runtime error.
func NewRuntime(format string, a ...any) *Runtime {
	return &Runtime{
		Message: fmt.Sprintf(format, a...),
	}
}

// Error converts the Runtime to a string. Fulfills the error interface.
func (e *Runtime) Error() string {
	return "Runtime error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *Runtime) ExitCode() int {
	return StatusCodeRuntimeError
}

//
// ICE
//

// ICE is an Internal (Consistency) Error. Used to report some unexpected
// issue with tinydbg itself -- like when we find it is on a state it wasn't
// expected to be. It's always a bug.
type ICE struct {
	// Message contains some message to contextualize the situation in which
	// the error happened. Hopefully will be good enough to help fixing the
	// bug.
	Message string
}

// NewICE is a handy way to create an ICE.
func NewICE(format string, a ...any) *ICE {
	return &ICE{
		Message: fmt.Sprintf(format, a...),
	}
}

// Error converts the ICE to a string. Fulfills the error interface.
func (e *ICE) Error() string {
	return "Internal error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *ICE) ExitCode() int {
	return StatusCodeICE
}
