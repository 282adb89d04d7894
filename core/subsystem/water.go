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

	"github.com/laundrylab/washctl/common/event"
)

const (
	FillRate              = 10.0  // liters per second
	DrainRate             = 15.0  // liters per second
	ReservoirCapacity     = 100.0 // liters
	LowReservoirThreshold = 10.0  // liters
)

// Water models the tub, its inlet and drain valves, and the reservoir the
// inlet draws from.
type Water struct {
	level     float64
	target    float64
	reservoir float64

	maxReservoir  float64
	fillRate      float64
	drainRate     float64
	lowThreshold  float64
	autoReplenish bool

	inletOpen bool
	drainOpen bool
}

func NewWater() *Water {
	return &Water{
		reservoir:     ReservoirCapacity,
		maxReservoir:  ReservoirCapacity,
		fillRate:      FillRate,
		drainRate:     DrainRate,
		lowThreshold:  LowReservoirThreshold,
		autoReplenish: true,
	}
}

// SetAutoReplenish controls whether a low reservoir is refilled from the
// mains instead of being reported as unavailable water.
func (w *Water) SetAutoReplenish(enabled bool) {
	w.autoReplenish = enabled
}

func (w *Water) AutoReplenish() bool {
	return w.autoReplenish
}

// StartFilling opens the inlet towards target liters and closes the drain.
// If the reservoir is low and cannot be replenished, the inlet stays closed
// and FAULT_WATER_UNAVAILABLE is returned.
func (w *Water) StartFilling(target float64) (out event.Event, ok bool) {
	if w.reservoir < w.lowThreshold && !w.replenish() {
		log.WithField("reservoir", w.reservoir).
			Warn("reservoir below threshold, cannot fill")
		return event.New(event.FAULT_WATER_UNAVAILABLE), true
	}
	w.target = target
	w.inletOpen = true
	w.drainOpen = false
	return
}

func (w *Water) StopFilling() {
	w.inletOpen = false
}

// StartDraining opens the drain and closes the inlet. On an already empty tub
// DRAIN_COMPLETE is returned at once.
func (w *Water) StartDraining() (out event.Event, ok bool) {
	w.inletOpen = false
	if w.level <= 0 {
		w.level = 0
		w.drainOpen = false
		return event.New(event.DRAIN_COMPLETE), true
	}
	w.drainOpen = true
	return
}

func (w *Water) StopDraining() {
	w.drainOpen = false
}

// Advance moves water for dt. It returns WATER_LEVEL_REACHED when a fill hits
// its target and DRAIN_COMPLETE when a drain empties the tub, each at most
// once per fill or drain since the valve closes on the same step.
func (w *Water) Advance(dt time.Duration) (out []event.Event) {
	seconds := dt.Seconds()

	if w.inletOpen && w.level < w.target {
		amount := w.fillRate * seconds
		if amount > w.reservoir {
			amount = w.reservoir
		}

		w.level += amount
		w.reservoir -= amount

		if w.level >= w.target {
			w.level = w.target
			w.inletOpen = false
			out = append(out, event.New(event.WATER_LEVEL_REACHED))
		}

		if w.reservoir < w.lowThreshold && !w.replenish() && w.inletOpen && w.reservoir <= 0 {
			w.inletOpen = false
			log.WithField("level", w.level).
				Warn("reservoir ran dry while filling")
			out = append(out, event.New(event.FAULT_WATER_UNAVAILABLE))
		}
	}

	if w.drainOpen && w.level > 0 {
		w.level -= w.drainRate * seconds

		if w.level <= 0 {
			w.level = 0
			w.drainOpen = false
			out = append(out, event.New(event.DRAIN_COMPLETE))
		}
	}
	return
}

func (w *Water) replenish() bool {
	if !w.autoReplenish {
		return false
	}
	log.WithField("reservoir", w.reservoir).Debug("replenishing reservoir")
	w.reservoir = w.maxReservoir
	return true
}

// CheckReservoir is true when the reservoir holds at least the low threshold.
func (w *Water) CheckReservoir() bool {
	return w.reservoir >= w.lowThreshold
}

// SetReservoirLevel clamps to [0, capacity].
func (w *Water) SetReservoirLevel(liters float64) {
	switch {
	case liters > w.maxReservoir:
		liters = w.maxReservoir
	case liters < 0:
		liters = 0
	}
	w.reservoir = liters
}

func (w *Water) Level() float64 {
	return w.level
}

func (w *Water) Target() float64 {
	return w.target
}

func (w *Water) Reservoir() float64 {
	return w.reservoir
}

func (w *Water) MaxReservoir() float64 {
	return w.maxReservoir
}

func (w *Water) IsFilling() bool {
	return w.inletOpen
}

func (w *Water) IsDraining() bool {
	return w.drainOpen
}

// Reset empties the tub, closes both valves and refills the reservoir.
func (w *Water) Reset() {
	w.level = 0
	w.target = 0
	w.inletOpen = false
	w.drainOpen = false
	w.reservoir = w.maxReservoir
}
