// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Scriptkit lists and runs the bundled administrative scripts.
//
//	scriptkit list [--json]
//	scriptkit run <script> [options] [arguments]
//	scriptkit version
package main
