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

// Package configuration loads the wash program definitions the cycle
// orchestrator runs.
package configuration

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// MaxWaterLevel is the ceiling for the load-adjusted water volume, in liters.
const MaxWaterLevel = 50.0

type Program struct {
	Name               string  `yaml:"name" json:"name" toml:"name"`
	DurationMinutes    int     `yaml:"duration_minutes" json:"duration_minutes" toml:"duration_minutes"`
	SpinSpeedRPM       int     `yaml:"spin_speed_rpm" json:"spin_speed_rpm" toml:"spin_speed_rpm"`
	WaterLevelLiters   float64 `yaml:"water_level_liters" json:"water_level_liters" toml:"water_level_liters"`
	TemperatureCelsius int     `yaml:"temperature_celsius" json:"temperature_celsius" toml:"temperature_celsius"`
}

// DefaultProgram supplies the value of any field a program file leaves out.
func DefaultProgram() Program {
	return Program{
		Name:               "Default",
		DurationMinutes:    30,
		SpinSpeedRPM:       800,
		WaterLevelLiters:   30,
		TemperatureCelsius: 40,
	}
}

// DefaultPrograms is the built-in program list used when no usable program
// file is available.
func DefaultPrograms() []Program {
	return []Program{
		{Name: "Quick Wash", DurationMinutes: 15, SpinSpeedRPM: 800, WaterLevelLiters: 20, TemperatureCelsius: 30},
		{Name: "Normal", DurationMinutes: 45, SpinSpeedRPM: 1000, WaterLevelLiters: 35, TemperatureCelsius: 40},
		{Name: "Heavy", DurationMinutes: 60, SpinSpeedRPM: 1200, WaterLevelLiters: 45, TemperatureCelsius: 60},
		{Name: "Delicate", DurationMinutes: 30, SpinSpeedRPM: 400, WaterLevelLiters: 30, TemperatureCelsius: 30},
	}
}

// AdjustedDuration adds two minutes per kilogram of load, truncated.
func (p Program) AdjustedDuration(loadKg float64) int {
	return p.DurationMinutes + int(loadKg*2)
}

// AdjustedWaterLevel adds three liters per kilogram of load, capped at
// MaxWaterLevel.
func (p Program) AdjustedWaterLevel(loadKg float64) float64 {
	adjusted := p.WaterLevelLiters + loadKg*3
	if adjusted > MaxWaterLevel {
		return MaxWaterLevel
	}
	return adjusted
}

func (p Program) String() string {
	return fmt.Sprintf("%s (%d min, %d RPM, %g L, %d°C)",
		p.Name, p.DurationMinutes, p.SpinSpeedRPM, p.WaterLevelLiters, p.TemperatureCelsius)
}

// Validate reports every out of range field, not just the first one.
func (p Program) Validate() error {
	var err *multierror.Error
	if p.Name == "" {
		err = multierror.Append(err, fmt.Errorf("program name is empty"))
	}
	if p.DurationMinutes <= 0 {
		err = multierror.Append(err, fmt.Errorf("program %q: duration must be positive, got %d", p.Name, p.DurationMinutes))
	}
	if p.SpinSpeedRPM < 0 || p.SpinSpeedRPM > 2000 {
		err = multierror.Append(err, fmt.Errorf("program %q: spin speed %d RPM out of range [0, 2000]", p.Name, p.SpinSpeedRPM))
	}
	if p.WaterLevelLiters <= 0 || p.WaterLevelLiters > MaxWaterLevel {
		err = multierror.Append(err, fmt.Errorf("program %q: water level %g L out of range (0, %g]", p.Name, p.WaterLevelLiters, MaxWaterLevel))
	}
	if p.TemperatureCelsius < 0 || p.TemperatureCelsius > 95 {
		err = multierror.Append(err, fmt.Errorf("program %q: temperature %d°C out of range [0, 95]", p.Name, p.TemperatureCelsius))
	}
	return err.ErrorOrNil()
}
