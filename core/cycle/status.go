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
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/sm"
	"github.com/laundrylab/washctl/core/subsystem"
)

// Status is a point in time snapshot of the machine. It is computed on
// request and never cached.
type Status struct {
	State            sm.State             `json:"state"`
	PreviousState    sm.State             `json:"previousState"`
	PausedFrom       sm.State             `json:"pausedFrom"`
	Door             subsystem.DoorStatus `json:"door"`
	WaterLevel       float64              `json:"waterLevelLiters"`
	TargetWaterLevel float64              `json:"targetWaterLevelLiters"`
	ReservoirLevel   float64              `json:"reservoirLevelLiters"`
	Filling          bool                 `json:"filling"`
	Draining         bool                 `json:"draining"`
	MotorRPM         int                  `json:"motorRpm"`
	MotorDirection   subsystem.Direction  `json:"motorDirection"`
	LoadKg           float64              `json:"loadKg"`
	ModeIndex        int                  `json:"modeIndex"`
	ModeName         string               `json:"modeName"`
	ProgressPercent  float64              `json:"progressPercent"`
	RemainingSeconds int                  `json:"remainingSeconds"`
	Fault            FaultCode            `json:"fault"`
	CycleID          string               `json:"cycleId,omitempty"`
}

// PhasePlan holds the estimated duration of each phase, in seconds, for a
// program and load.
type PhasePlan struct {
	Program configuration.Program `json:"program"`
	LoadKg  float64               `json:"loadKg"`

	WaterLiters float64 `json:"waterLiters"`
	Fill        float64 `json:"fillSeconds"`
	Wash        float64 `json:"washSeconds"`
	Rinse       float64 `json:"rinseSeconds"`
	Spin        float64 `json:"spinSeconds"`
	Drain       float64 `json:"drainSeconds"`
}

func (p PhasePlan) Total() float64 {
	return p.Fill + p.Wash + p.Rinse + p.Spin + p.Drain
}

const (
	washShare  = 0.5
	rinseShare = 0.25
	spinShare  = 0.15

	RinseRPM = 400
)

func fillTime(water float64) float64 {
	return water / subsystem.FillRate
}

func drainTime(water float64) float64 {
	return water / subsystem.DrainRate
}

func phaseTime(p configuration.Program, loadKg float64, share float64) float64 {
	return float64(p.AdjustedDuration(loadKg)) * share * 60
}

// NewPhasePlan estimates a cycle for program p. The drain estimate assumes
// the tub holds the full load-adjusted water volume.
func NewPhasePlan(p configuration.Program, loadKg float64) PhasePlan {
	water := p.AdjustedWaterLevel(loadKg)
	return PhasePlan{
		Program:     p,
		LoadKg:      loadKg,
		WaterLiters: water,
		Fill:        fillTime(water),
		Wash:        phaseTime(p, loadKg, washShare),
		Rinse:       phaseTime(p, loadKg, rinseShare),
		Spin:        phaseTime(p, loadKg, spinShare),
		Drain:       drainTime(water),
	}
}
