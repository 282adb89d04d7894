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
	"github.com/laundrylab/washctl/common/event"
)

type FaultCode int

const (
	FAULT_NONE FaultCode = iota
	FAULT_WATER_UNAVAILABLE
	FAULT_OVERLOAD
	FAULT_DOOR
	FAULT_MOTOR
	FAULT_TIMEOUT
)

var _faultNames = []string{
	"NONE",
	"WATER_UNAVAILABLE",
	"OVERLOAD",
	"DOOR_FAULT",
	"MOTOR_FAULT",
	"TIMEOUT",
}

var _faultLabels = []string{
	"None",
	"Water Unavailable",
	"Overload",
	"Door Fault",
	"Motor Fault",
	"Timeout",
}

func (f FaultCode) String() string {
	if f < FAULT_NONE || f > FAULT_TIMEOUT {
		return "UNKNOWN"
	}
	return _faultNames[f]
}

func (f FaultCode) Label() string {
	if f < FAULT_NONE || f > FAULT_TIMEOUT {
		return "Unknown"
	}
	return _faultLabels[f]
}

func (f FaultCode) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// faultFromEvent maps the event that drove the machine into FAULT to the code
// it stands for.
func faultFromEvent(t event.Type) (FaultCode, bool) {
	switch t {
	case event.FAULT_WATER_UNAVAILABLE:
		return FAULT_WATER_UNAVAILABLE, true
	case event.FAULT_OVERLOAD:
		return FAULT_OVERLOAD, true
	case event.FAULT_DOOR:
		return FAULT_DOOR, true
	case event.FAULT_MOTOR:
		return FAULT_MOTOR, true
	case event.TIMER_TIMEOUT:
		return FAULT_TIMEOUT, true
	}
	return FAULT_NONE, false
}
