/*
 * === This file is part of washctl ===
 *
 * Copyright 2025 The washctl Authors.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package cycle

import (
	"github.com/laundrylab/washctl/core/sm"
)

// EntryAction is what the orchestrator does when a state is entered.
type EntryAction int

const (
	ENTRY_NONE EntryAction = iota
	ENTRY_SETTLE
	ENTRY_FILL
	ENTRY_WASH
	ENTRY_RINSE
	ENTRY_SPIN
	ENTRY_DRAIN
	ENTRY_COMPLETE
	ENTRY_PAUSE
	ENTRY_EMERGENCY
	ENTRY_FAULT
)

var _entryNames = []string{
	"NONE",
	"SETTLE",
	"FILL",
	"WASH",
	"RINSE",
	"SPIN",
	"DRAIN",
	"COMPLETE",
	"PAUSE",
	"EMERGENCY",
	"FAULT",
}

func (a EntryAction) String() string {
	if a < ENTRY_NONE || a > ENTRY_FAULT {
		return "UNKNOWN"
	}
	return _entryNames[a]
}

func EntryActionFor(s sm.State) EntryAction {
	switch s {
	case sm.IDLE:
		return ENTRY_SETTLE
	case sm.FILLING:
		return ENTRY_FILL
	case sm.WASHING:
		return ENTRY_WASH
	case sm.RINSING:
		return ENTRY_RINSE
	case sm.SPINNING:
		return ENTRY_SPIN
	case sm.DRAINING:
		return ENTRY_DRAIN
	case sm.COMPLETED:
		return ENTRY_COMPLETE
	case sm.PAUSED:
		return ENTRY_PAUSE
	case sm.EMERGENCY_STOP:
		return ENTRY_EMERGENCY
	case sm.FAULT:
		return ENTRY_FAULT
	}
	return ENTRY_NONE
}
