/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2025 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package test

import (
	"testing"
)

// TestRunSuite runs every scenario under testdata/. This is not a proper unit
// test, but instead a simple way to run our end-to-end tests and, more
// importantly, to get code coverage reports for them.
func TestRunSuite(t *testing.T) {
	if err := ExecuteSuite("testdata"); err != nil {
		t.Fatalf("Error running scenario suite: %v", err)
	}
}
