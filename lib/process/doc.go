// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides exit-code plumbing shared by the script
// lifecycle and the scriptkit binary.
//
// Scripts never call os.Exit. A script, or the lifecycle on its behalf,
// returns an [ExitError] carrying the status code; the binary's main()
// turns the returned value into the process exit status with [Code]
// when [Handled] reports it already printed its output.
// [Fatal] is the one raw stderr writer for errors that happen before a
// console exists.
package process
