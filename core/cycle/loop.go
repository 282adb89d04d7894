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
	"context"
	"time"

	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/core/metrics"
	"github.com/laundrylab/washctl/core/sm"
)

// Tick drains the event channel and advances the simulation by dt of
// simulated time.
func (o *Orchestrator) Tick(dt time.Duration) {
	start := time.Now()
	defer func() {
		metrics.TickLatency.Observe(time.Since(start).Seconds())
	}()

	o.mu.Lock()
	defer o.mu.Unlock()

	o.processEvents()
	o.advance(dt)
}

func (o *Orchestrator) advance(dt time.Duration) {
	state := o.sm.Current()

	switch {
	case sm.IsActive(state):
		o.reinject(o.water.Advance(dt)...)
		o.motor.Advance(dt)

		seconds := dt.Seconds()
		o.cycleElapsed += seconds
		o.phaseElapsed += seconds

		if o.totalCycleTime > 0 {
			o.progress = o.cycleElapsed / o.totalCycleTime * 100
			if o.progress > 100 {
				o.progress = 100
			}
		}

		if done, timed := phaseCompletion(state); timed && !o.phaseDone && o.phaseElapsed >= o.phaseTime {
			o.phaseDone = true
			o.push(event.New(done))
		}

	case state == sm.PAUSED:
		o.motor.Advance(dt)

	case state == sm.EMERGENCY_STOP || state == sm.IDLE || state == sm.FAULT:
		o.reinject(o.water.Advance(dt)...)
		o.motor.Advance(dt)
		o.unlockIfSafe()
	}

	metrics.CycleProgress.Set(o.progress)
	metrics.WaterLevel.Set(o.water.Level())
	metrics.MotorRPM.Set(float64(o.motor.CurrentRPM()))
}

// phaseCompletion names the event that ends a timed phase. Filling and
// draining end on water level notifications instead.
func phaseCompletion(s sm.State) (event.Type, bool) {
	switch s {
	case sm.WASHING:
		return event.WASH_COMPLETE, true
	case sm.RINSING:
		return event.RINSE_COMPLETE, true
	case sm.SPINNING:
		return event.SPIN_COMPLETE, true
	}
	return event.NONE, false
}

// Run starts the background simulation loop and returns. The loop ticks at
// the configured interval until ctx is cancelled or Shutdown is called.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	o.running = true
	o.cancel = cancel
	o.done = make(chan struct{})

	go o.loop(ctx, o.done)

	o.logger().WithField("tickInterval", o.cfg.TickInterval.String()).
		WithField("timeScale", o.cfg.TimeScale).
		Debug("simulation loop started")
	return nil
}

func (o *Orchestrator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	ticker := time.NewTicker(o.cfg.TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			o.Tick(time.Duration(float64(elapsed) * o.cfg.TimeScale))
		}
	}
}

func (o *Orchestrator) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Shutdown stops the simulation loop, waits for it to exit and closes the
// event channel. It is safe to call more than once.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.cancel, o.done = nil, nil
	o.mu.Unlock()

	o.events.Close()
	if cancel != nil {
		cancel()
		<-done
	}
	log.Debug("orchestrator shut down")
}

// Reset brings the machine back to its power-on state: IDLE, door open,
// empty tub, no pending events.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.events.Clear()
	o.sm.Reset()
	o.door.Reset()
	o.water.Reset()
	o.motor.Reset()
	o.modeIndex = 0
	o.loadKg = 0
	o.fault = FAULT_NONE
	o.cycleID = ""
	o.totalCycleTime = 0
	o.cycleElapsed = 0
	o.phaseTime = 0
	o.phaseElapsed = 0
	o.progress = 0
	o.phaseDone = false
}
