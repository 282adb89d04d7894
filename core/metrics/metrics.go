/*
 * === This file is part of washctl ===
 *
 * Copyright 2017 CERN and copyright holders of ALICE O².
 * Author: Teo Mrnjavac <teo.mrnjavac@cern.ch>
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
 *
 * In applying this license CERN does not waive the privileges and
 * immunities granted to it by virtue of its status as an
 * Intergovernmental Organization or submit itself to any jurisdiction.
 */

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "washctl"
	Subsystem = "cycle"
)

var (
	TransitionCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "transition_count",
		Help:      "The number of state transitions, by destination state.",
	}, []string{"state", "forced"})
	EventReceivedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "event_received_count",
		Help:      "The number of events taken off the event channel.",
	}, []string{"type"})
	EventDroppedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "event_dropped_count",
		Help:      "The number of events ignored because the current state has no edge for them.",
	}, []string{"type", "state"})
	CommandRejectedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "command_rejected_count",
		Help:      "The number of operator commands refused, by operation.",
	}, []string{"operation"})
	FaultCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "fault_count",
		Help:      "The number of faults raised, by fault code.",
	}, []string{"code"})
	CyclesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "cycles_started",
		Help:      "The number of wash cycles started.",
	})
	CyclesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "cycles_completed",
		Help:      "The number of wash cycles run to completion.",
	})
	EmergencyStops = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "emergency_stops",
		Help:      "The number of emergency stops.",
	})
	TickLatency = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "tick_latency_seconds",
		Help:      "Time to drain the event channel and advance the simulation once.",
	})
	CycleProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "progress_percent",
		Help:      "Progress of the current wash cycle.",
	})
	WaterLevel = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "water_level_liters",
		Help:      "Water currently in the tub.",
	})
	MotorRPM = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "motor_rpm",
		Help:      "Current drum speed.",
	})
)

var registerMetrics sync.Once

func Register() {
	registerMetrics.Do(func() {
		prometheus.MustRegister(TransitionCount)
		prometheus.MustRegister(EventReceivedCount)
		prometheus.MustRegister(EventDroppedCount)
		prometheus.MustRegister(CommandRejectedCount)
		prometheus.MustRegister(FaultCount)
		prometheus.MustRegister(CyclesStarted)
		prometheus.MustRegister(CyclesCompleted)
		prometheus.MustRegister(EmergencyStops)
		prometheus.MustRegister(TickLatency)
		prometheus.MustRegister(CycleProgress)
		prometheus.MustRegister(WaterLevel)
		prometheus.MustRegister(MotorRPM)
	})
}
