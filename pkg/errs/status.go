/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

const (
	// StatusCodeSuccess indicates a successful execution.
	StatusCodeSuccess = 0

	// StatusCodeRuntimeError indicates the target program hit an interpreter
	// bug while running, or was terminated mid-run by the host.
	StatusCodeRuntimeError = 1

	// StatusCodeTestSuiteError indicates a failure while running tinydbg's own
	// scenario test suite.
	StatusCodeTestSuiteError = 2

	// StatusCodeTargetError indicates a problem attaching to, or reported by,
	// the debug target.
	StatusCodeTargetError = 3

	// StatusCodeToolError indicates some other tool-level failure (bad file,
	// bad image, I/O error).
	StatusCodeToolError = 4

	// StatusCodeBadUsage indicates some user error in the usage of the
	// tinydbg tool (e.g., passing the wrong number of arguments, or passing a
	// nonexisting command-line flag).
	StatusCodeBadUsage = 50

	// StatusCodeICE indicates an internal error in tinydbg itself.
	StatusCodeICE = 125
)
