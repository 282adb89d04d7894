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

package sm

import "strings"

type State int

const (
	IDLE State = iota
	DOOR_OPEN
	READY
	FILLING
	WASHING
	RINSING
	SPINNING
	DRAINING
	COMPLETED
	PAUSED
	EMERGENCY_STOP
	FAULT
)

var _names = []string{
	"IDLE",
	"DOOR_OPEN",
	"READY",
	"FILLING",
	"WASHING",
	"RINSING",
	"SPINNING",
	"DRAINING",
	"COMPLETED",
	"PAUSED",
	"EMERGENCY_STOP",
	"FAULT",
}

var _labels = []string{
	"Idle",
	"Door Open",
	"Ready",
	"Filling",
	"Washing",
	"Rinsing",
	"Spinning",
	"Draining",
	"Completed",
	"Paused",
	"Emergency Stop",
	"Fault",
}

func (s State) String() string {
	if s < IDLE || s > FAULT {
		return "UNKNOWN"
	}
	return _names[s]
}

// Label is the human readable form shown on the console.
func (s State) Label() string {
	if s < IDLE || s > FAULT {
		return "Unknown"
	}
	return _labels[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func StateFromString(s string) (State, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, v := range _names {
		if s == v {
			return State(i), true
		}
	}
	return IDLE, false
}

func States() []State {
	states := make([]State, len(_names))
	for i := range _names {
		states[i] = State(i)
	}
	return states
}

// IsActive is true for the states in which water or the drum is being driven
// as part of a wash cycle.
func IsActive(s State) bool {
	switch s {
	case FILLING, WASHING, RINSING, SPINNING, DRAINING:
		return true
	}
	return false
}

// IsSafeToOpen is true for the states in which the door may be opened.
func IsSafeToOpen(s State) bool {
	switch s {
	case IDLE, DOOR_OPEN, READY, COMPLETED:
		return true
	}
	return false
}
