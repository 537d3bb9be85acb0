// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

// Phase is a step of the script lifecycle. Phases only move forward.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseSetup
	PhaseArgsLoaded
	PhaseHelpChecked
	PhaseLimitsAdjusted
	PhaseConfigLoaded
	PhaseFinalSetup
	PhaseExecuting
	PhaseDone
)

var phaseNames = [...]string{
	PhaseCreated:        "created",
	PhaseSetup:          "setup",
	PhaseArgsLoaded:     "args-loaded",
	PhaseHelpChecked:    "help-checked",
	PhaseLimitsAdjusted: "limits-adjusted",
	PhaseConfigLoaded:   "config-loaded",
	PhaseFinalSetup:     "final-setup",
	PhaseExecuting:      "executing",
	PhaseDone:           "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}
