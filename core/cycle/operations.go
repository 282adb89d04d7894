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
	"fmt"

	"github.com/google/uuid"
	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/metrics"
	"github.com/laundrylab/washctl/core/sm"
)

// Operator commands. Each one first applies the events already queued, so
// that it decides on the state every earlier command has produced. A non-nil
// error means the command was refused and nothing changed.

func (o *Orchestrator) SelectMode(index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if !o.programs.IsValid(index) {
		return o.reject("select-mode", fmt.Errorf("%w: %d, valid modes are 0-%d", ErrInvalidMode, index, o.programs.Count()-1))
	}
	if o.cycleInProgress() {
		return o.reject("select-mode", fmt.Errorf("cannot change mode: %w", ErrCycleActive))
	}

	o.modeIndex = index
	o.push(event.NewWithInt(event.SELECT_MODE, index))
	o.logger().WithField("mode", o.programs.Get(index).Name).Info("mode selected")
	return nil
}

// SetLoad accepts loads above the rated maximum with a warning; Start refuses
// them.
func (o *Orchestrator) SetLoad(kg float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if kg < 0 {
		return o.reject("set-load", fmt.Errorf("%w: %g kg", ErrNegativeLoad, kg))
	}
	if o.cycleInProgress() {
		return o.reject("set-load", fmt.Errorf("cannot change load: %w", ErrCycleActive))
	}
	if kg > o.cfg.MaxLoadKg {
		o.logger().WithField("loadKg", kg).
			WithField("maxLoadKg", o.cfg.MaxLoadKg).
			Warn("load exceeds maximum capacity")
	}

	o.loadKg = kg
	o.push(event.NewWithFloat(event.SET_LOAD, kg))
	o.logger().WithField("loadKg", kg).Info("load set")
	return nil
}

func (o *Orchestrator) validateStart() error {
	switch {
	case o.door.IsOpen():
		return fmt.Errorf("%w, close the door first", ErrDoorOpen)
	case o.loadKg <= 0:
		return ErrNoLoad
	case o.loadKg > o.cfg.MaxLoadKg:
		return fmt.Errorf("%w (%g kg)", ErrOverload, o.cfg.MaxLoadKg)
	case !o.water.CheckReservoir():
		return ErrReservoirLow
	case !o.sm.Can(event.START):
		return fmt.Errorf("cannot start in state %s: %w", o.sm.Current().Label(), ErrNotReady)
	}
	return nil
}

// Start validates the preconditions and queues START. The transition into
// FILLING happens on the next tick.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if err := o.validateStart(); err != nil {
		return o.reject("start", err)
	}

	plan := NewPhasePlan(o.currentProgram(), o.loadKg)
	o.totalCycleTime = plan.Total()
	o.cycleElapsed = 0
	o.progress = 0
	o.fault = FAULT_NONE
	o.cycleID = uuid.New().String()
	metrics.CyclesStarted.Inc()

	o.push(event.New(event.START))
	o.logger().WithField("program", plan.Program.Name).
		WithField("loadKg", o.loadKg).
		WithField("estimatedSeconds", int(plan.Total())).
		Info("starting wash cycle")
	return nil
}

func (o *Orchestrator) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if !o.sm.IsActive() {
		return o.reject("pause", ErrNotActive)
	}
	if !o.sm.Can(event.PAUSE) {
		return o.reject("pause", fmt.Errorf("%w: %s", ErrCannotPause, o.sm.Current().Label()))
	}
	o.push(event.New(event.PAUSE))
	return nil
}

// Resume returns to the phase the cycle was paused in and restarts that
// phase's timing from zero.
func (o *Orchestrator) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if o.sm.Current() != sm.PAUSED {
		return o.reject("resume", ErrNotPaused)
	}
	resumeTo := o.sm.PausedFrom()
	o.sm.Force(resumeTo)
	o.logger().Info("cycle resumed")
	return nil
}

// Stop ends a running or paused cycle at once, draining any water in the
// tub. In the other states it queues STOP for the transition table.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	state := o.sm.Current()
	switch {
	case state == sm.IDLE || state == sm.DOOR_OPEN:
		return o.reject("stop", ErrAlreadyStopped)

	case o.cycleInProgress():
		o.motor.Stop()
		o.water.StopFilling()
		if o.water.Level() > 0 {
			o.logger().Info("stopping, draining water")
			o.sm.Force(sm.DRAINING)
		} else {
			o.logger().Info("machine stopped")
			o.sm.Force(sm.IDLE)
		}

	default:
		o.push(event.New(event.STOP))
	}
	return nil
}

func (o *Orchestrator) EmergencyStop() error {
	o.push(event.New(event.EMERGENCY))
	return nil
}

// OpenDoor is a no-op on an open door.
func (o *Orchestrator) OpenDoor() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if o.door.IsOpen() {
		return nil
	}
	if !o.door.CanOpen() || !o.door.Open() {
		return o.reject("open-door", ErrDoorLocked)
	}
	if !o.sm.Apply(event.OPEN_DOOR) {
		o.logger().WithField("state", o.sm.Current().String()).
			Debug("door moved without a state change")
	}
	return nil
}

// CloseDoor is a no-op on a closed door.
func (o *Orchestrator) CloseDoor() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if !o.door.IsOpen() {
		return nil
	}
	o.door.Close()
	if !o.sm.Apply(event.CLOSE_DOOR) {
		o.logger().WithField("state", o.sm.Current().String()).
			Debug("door moved without a state change")
	}
	return nil
}

func (o *Orchestrator) ClearFault() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processEvents()

	if o.sm.Current() != sm.FAULT {
		return o.reject("clear-fault", ErrNotFaulted)
	}
	o.logger().WithField("fault", o.fault.String()).Info("fault cleared")
	o.fault = FAULT_NONE
	o.push(event.New(event.FAULT_CLEARED))
	return nil
}

// SetReservoirLevel overrides the simulated reservoir, clamped to its
// capacity.
func (o *Orchestrator) SetReservoirLevel(liters float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.water.SetReservoirLevel(liters)
}

func (o *Orchestrator) Programs() *configuration.Catalog {
	return o.programs
}

// Plan estimates the phases for the selected program and the current load.
func (o *Orchestrator) Plan() PhasePlan {
	o.mu.Lock()
	defer o.mu.Unlock()
	return NewPhasePlan(o.currentProgram(), o.loadKg)
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	remaining := o.totalCycleTime - o.cycleElapsed
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		State:            o.sm.Current(),
		PreviousState:    o.sm.Previous(),
		PausedFrom:       o.sm.PausedFrom(),
		Door:             o.door.Status(),
		WaterLevel:       o.water.Level(),
		TargetWaterLevel: o.water.Target(),
		ReservoirLevel:   o.water.Reservoir(),
		Filling:          o.water.IsFilling(),
		Draining:         o.water.IsDraining(),
		MotorRPM:         o.motor.CurrentRPM(),
		MotorDirection:   o.motor.Direction(),
		LoadKg:           o.loadKg,
		ModeIndex:        o.modeIndex,
		ModeName:         o.currentProgram().Name,
		ProgressPercent:  o.progress,
		RemainingSeconds: int(remaining),
		Fault:            o.fault,
		CycleID:          o.cycleID,
	}
}
