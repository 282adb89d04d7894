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

package subsystem

import (
	"time"
)

// MotorRampRate is how fast the drum speed follows its target, in RPM per second.
const MotorRampRate = 200

type Direction int

const (
	STOPPED Direction = iota
	CLOCKWISE
	COUNTER_CLOCKWISE
)

var _directionNames = []string{
	"STOPPED",
	"CLOCKWISE",
	"COUNTER_CLOCKWISE",
}

func (d Direction) String() string {
	if d < STOPPED || d > COUNTER_CLOCKWISE {
		return "UNKNOWN"
	}
	return _directionNames[d]
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Motor struct {
	currentRPM int
	targetRPM  int
	running    bool
	direction  Direction
	rampRate   int
}

func NewMotor() *Motor {
	return &Motor{
		direction: STOPPED,
		rampRate:  MotorRampRate,
	}
}

// Start sets the target speed and direction. The drum ramps towards the
// target on subsequent Advance calls.
func (m *Motor) Start(rpm int, dir Direction) {
	m.targetRPM = rpm
	m.direction = dir
	m.running = true
	log.WithField("rpm", rpm).
		WithField("direction", dir.String()).
		Debug("motor started")
}

// Stop ramps the drum down to a standstill.
func (m *Motor) Stop() {
	m.targetRPM = 0
	m.running = false
}

func (m *Motor) SetSpeed(rpm int) {
	m.targetRPM = rpm
	if rpm > 0 && !m.running {
		m.running = true
	}
}

func (m *Motor) SetDirection(dir Direction) {
	m.direction = dir
}

// EmergencyStop halts the drum at once, without ramping.
func (m *Motor) EmergencyStop() {
	m.running = false
	m.targetRPM = 0
	m.currentRPM = 0
	m.direction = STOPPED
}

// Advance ramps the current speed towards the target by the ramp rate,
// truncated to whole RPM.
func (m *Motor) Advance(dt time.Duration) {
	if !m.running && m.currentRPM == 0 {
		m.direction = STOPPED
		return
	}

	step := int(float64(m.rampRate) * dt.Seconds())
	if m.currentRPM < m.targetRPM {
		m.currentRPM += step
		if m.currentRPM > m.targetRPM {
			m.currentRPM = m.targetRPM
		}
	} else if m.currentRPM > m.targetRPM {
		m.currentRPM -= step
		if m.currentRPM < m.targetRPM {
			m.currentRPM = m.targetRPM
		}
	}

	if !m.running && m.currentRPM == 0 {
		m.direction = STOPPED
	}
}

func (m *Motor) CurrentRPM() int {
	return m.currentRPM
}

func (m *Motor) TargetRPM() int {
	return m.targetRPM
}

// IsRunning is true while the motor is driven or the drum is still turning.
func (m *Motor) IsRunning() bool {
	return m.running || m.currentRPM > 0
}

func (m *Motor) Direction() Direction {
	return m.direction
}

func (m *Motor) Reset() {
	m.currentRPM = 0
	m.targetRPM = 0
	m.running = false
	m.direction = STOPPED
}
