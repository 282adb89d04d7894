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

// Package event defines the events that drive the washer state machine and
// the FIFO channel that serializes them.
package event

import "strings"

type Type int

const (
	NONE Type = iota // no triggering event, used for forced transitions

	// operator commands
	OPEN_DOOR
	CLOSE_DOOR
	SELECT_MODE
	START
	PAUSE
	RESUME
	STOP
	EMERGENCY
	SET_LOAD

	// subsystem notifications
	WATER_LEVEL_REACHED
	WASH_COMPLETE
	RINSE_COMPLETE
	SPIN_COMPLETE
	DRAIN_COMPLETE
	CYCLE_COMPLETE

	// timer
	TIMER_TICK
	TIMER_TIMEOUT

	// faults
	FAULT_WATER_UNAVAILABLE
	FAULT_OVERLOAD
	FAULT_DOOR
	FAULT_MOTOR
	FAULT_CLEARED
)

var _names = []string{
	"NONE",
	"OPEN_DOOR",
	"CLOSE_DOOR",
	"SELECT_MODE",
	"START",
	"PAUSE",
	"RESUME",
	"STOP",
	"EMERGENCY",
	"SET_LOAD",
	"WATER_LEVEL_REACHED",
	"WASH_COMPLETE",
	"RINSE_COMPLETE",
	"SPIN_COMPLETE",
	"DRAIN_COMPLETE",
	"CYCLE_COMPLETE",
	"TIMER_TICK",
	"TIMER_TIMEOUT",
	"FAULT_WATER_UNAVAILABLE",
	"FAULT_OVERLOAD",
	"FAULT_DOOR",
	"FAULT_MOTOR",
	"FAULT_CLEARED",
}

func (t Type) String() string {
	if t < NONE || t > FAULT_CLEARED {
		return "UNKNOWN"
	}
	return _names[t]
}

func TypeFromString(s string) (Type, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, v := range _names {
		if s == v {
			return Type(i), true
		}
	}
	return NONE, false
}

// Types returns every event type except NONE, in declaration order.
func Types() []Type {
	types := make([]Type, 0, len(_names)-1)
	for t := OPEN_DOOR; t <= FAULT_CLEARED; t++ {
		types = append(types, t)
	}
	return types
}

func (t Type) IsCommand() bool {
	return t >= OPEN_DOOR && t <= SET_LOAD
}

func (t Type) IsNotification() bool {
	return t >= WATER_LEVEL_REACHED && t <= CYCLE_COMPLETE
}

func (t Type) IsTimer() bool {
	return t == TIMER_TICK || t == TIMER_TIMEOUT
}

func (t Type) IsFault() bool {
	return t >= FAULT_WATER_UNAVAILABLE && t <= FAULT_MOTOR
}
