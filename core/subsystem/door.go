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

// Package subsystem simulates the physical parts of the washer. Commands and
// the per-tick Advance step return outbound events instead of calling back
// into the owner, which re-injects them into its event channel.
package subsystem

import (
	"github.com/laundrylab/washctl/common/logger"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "subsystem")

type DoorStatus int

const (
	DOOR_STATUS_OPEN DoorStatus = iota
	DOOR_STATUS_CLOSED_UNLOCKED
	DOOR_STATUS_CLOSED_LOCKED
)

var _doorStatusNames = []string{
	"OPEN",
	"CLOSED_UNLOCKED",
	"CLOSED_LOCKED",
}

var _doorStatusLabels = []string{
	"Open",
	"Closed (Unlocked)",
	"Closed (Locked)",
}

func (s DoorStatus) String() string {
	if s < DOOR_STATUS_OPEN || s > DOOR_STATUS_CLOSED_LOCKED {
		return "UNKNOWN"
	}
	return _doorStatusNames[s]
}

func (s DoorStatus) Label() string {
	if s < DOOR_STATUS_OPEN || s > DOOR_STATUS_CLOSED_LOCKED {
		return "Unknown"
	}
	return _doorStatusLabels[s]
}

func (s DoorStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Door starts open and unlocked. The lock can only engage while the door is
// closed and an engaged lock keeps the door from opening.
type Door struct {
	open   bool
	locked bool
}

func NewDoor() *Door {
	return &Door{open: true}
}

// Open reports false if the door is locked.
func (d *Door) Open() bool {
	if d.locked {
		log.Debug("door is locked, cannot open")
		return false
	}
	d.open = true
	return true
}

func (d *Door) Close() {
	d.open = false
}

// Lock reports false if the door is open.
func (d *Door) Lock() bool {
	if d.open {
		log.Debug("door is open, cannot lock")
		return false
	}
	d.locked = true
	return true
}

func (d *Door) Unlock() {
	d.locked = false
}

func (d *Door) IsOpen() bool {
	return d.open
}

func (d *Door) IsLocked() bool {
	return d.locked
}

func (d *Door) CanOpen() bool {
	return !d.locked
}

func (d *Door) Status() DoorStatus {
	switch {
	case d.open:
		return DOOR_STATUS_OPEN
	case d.locked:
		return DOOR_STATUS_CLOSED_LOCKED
	}
	return DOOR_STATUS_CLOSED_UNLOCKED
}

func (d *Door) Reset() {
	d.open = true
	d.locked = false
}
