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

import "errors"

var (
	ErrInvalidMode    = errors.New("invalid wash mode")
	ErrCycleActive    = errors.New("a wash cycle is in progress")
	ErrNegativeLoad   = errors.New("load cannot be negative")
	ErrDoorOpen       = errors.New("door is open")
	ErrDoorLocked     = errors.New("door is locked while the machine is operating")
	ErrNoLoad         = errors.New("no load set")
	ErrOverload       = errors.New("load exceeds maximum capacity")
	ErrReservoirLow   = errors.New("water reservoir is low")
	ErrNotReady       = errors.New("no wash mode selected")
	ErrNotActive      = errors.New("no active cycle")
	ErrCannotPause    = errors.New("cycle cannot be paused in this phase")
	ErrNotPaused      = errors.New("no paused cycle")
	ErrNotFaulted     = errors.New("no fault to clear")
	ErrAlreadyStopped = errors.New("machine is already stopped")
	ErrAlreadyRunning = errors.New("simulation loop is already running")
)
