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

// Package cycle sequences the phases of a wash cycle. The Orchestrator owns
// the state machine, the event channel and the simulated subsystems, and is
// the only consumer of the channel.
package cycle

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/common/logger"
	"github.com/laundrylab/washctl/common/utils"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/metrics"
	"github.com/laundrylab/washctl/core/sm"
	"github.com/laundrylab/washctl/core/subsystem"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "cycle")

const (
	DefaultTickInterval = 50 * time.Millisecond
	DefaultMaxLoadKg    = 6.0
)

type Config struct {
	Programs     *configuration.Catalog
	TickInterval time.Duration
	TimeScale    float64
	MaxLoadKg    float64
	// ManualReservoir turns off the automatic refill of a low reservoir; it
	// then only changes through SetReservoirLevel.
	ManualReservoir bool
}

func DefaultConfig() Config {
	return Config{
		Programs:     configuration.NewCatalog(configuration.DefaultPrograms()),
		TickInterval: DefaultTickInterval,
		TimeScale:    1,
		MaxLoadKg:    DefaultMaxLoadKg,
	}
}

// Orchestrator is safe for concurrent use. A single mutex serializes the
// simulation tick with operator commands; the event channel has its own lock.
type Orchestrator struct {
	mu sync.Mutex

	cfg      Config
	programs *configuration.Catalog

	sm     *sm.Machine
	events *event.Channel
	door   *subsystem.Door
	water  *subsystem.Water
	motor  *subsystem.Motor

	modeIndex int
	loadKg    float64
	fault     FaultCode
	cycleID   string

	// all in simulated seconds
	totalCycleTime float64
	cycleElapsed   float64
	phaseTime      float64
	phaseElapsed   float64
	progress       float64
	phaseDone      bool

	running bool
	cancel  func()
	done    chan struct{}
}

type transitionListener struct {
	o *Orchestrator
}

func (l transitionListener) OnExit(t sm.Transition) {}

func (l transitionListener) OnEnter(t sm.Transition) {
	l.o.onEnter(t)
}

// New fills the unset fields of cfg from DefaultConfig.
func New(cfg Config) *Orchestrator {
	def := DefaultConfig()
	if err := mergo.Merge(&cfg, def, mergo.WithoutDereference); err != nil {
		log.WithError(err).Warn("cannot complete cycle configuration, using defaults")
		cfg = def
	}
	if cfg.TickInterval < 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.TimeScale < 0 {
		cfg.TimeScale = def.TimeScale
	}
	if cfg.MaxLoadKg < 0 {
		cfg.MaxLoadKg = def.MaxLoadKg
	}

	o := &Orchestrator{
		cfg:      cfg,
		programs: cfg.Programs,
		events:   event.NewChannel(),
		door:     subsystem.NewDoor(),
		water:    subsystem.NewWater(),
		motor:    subsystem.NewMotor(),
	}
	o.water.SetAutoReplenish(!cfg.ManualReservoir)
	o.sm = sm.NewMachine(transitionListener{o: o})
	return o
}

func (o *Orchestrator) logger() *logrus.Entry {
	entry := log.WithField("state", o.sm.Current().String())
	if o.cycleID != "" {
		entry = entry.WithField("cycleId", o.cycleID)
	}
	return entry
}

func (o *Orchestrator) reject(operation string, err error) error {
	metrics.CommandRejectedCount.WithLabelValues(operation).Inc()
	o.logger().WithError(err).
		WithField("operation", operation).
		Debug("command rejected")
	return err
}

func (o *Orchestrator) push(e event.Event) {
	o.events.Push(e)
}

// Inject queues an arbitrary event, as a sensor or a diagnostic tool would.
func (o *Orchestrator) Inject(e event.Event) {
	o.push(e)
}

func (o *Orchestrator) reinject(out ...event.Event) {
	for _, e := range out {
		o.push(e)
	}
}

func (o *Orchestrator) reinjectOptional(e event.Event, ok bool) {
	if ok {
		o.push(e)
	}
}

// cycleInProgress is true from the first fill until the cycle ends, pauses
// included.
func (o *Orchestrator) cycleInProgress() bool {
	return o.sm.IsActive() || o.sm.Current() == sm.PAUSED
}

func (o *Orchestrator) currentProgram() configuration.Program {
	return o.programs.Get(o.modeIndex)
}

// processEvents hands every pending event to the state machine. The caller
// holds o.mu.
func (o *Orchestrator) processEvents() {
	start := time.Now()
	if n := event.Drain(o.events, o.handleEvent); n > 0 {
		utils.TimeTrack(start, fmt.Sprintf("processing %d events", n), o.logger())
	}
}

func (o *Orchestrator) handleEvent(e event.Event) {
	metrics.EventReceivedCount.WithLabelValues(e.Type().String()).Inc()

	if !o.cycleInProgress() {
		switch e.Type() {
		case event.SELECT_MODE:
			if index, ok := e.Int(); ok && o.programs.IsValid(index) {
				o.modeIndex = index
			}
		case event.SET_LOAD:
			if kg, ok := e.Float(); ok && kg >= 0 {
				o.loadKg = kg
			}
		}
	}

	// A fault is recorded even when the current state has no edge for it.
	if code, ok := faultFromEvent(e.Type()); ok {
		o.fault = code
	}

	from := o.sm.Current()
	if !o.sm.Apply(e.Type()) {
		metrics.EventDroppedCount.WithLabelValues(e.Type().String(), from.String()).Inc()
		o.logger().WithField("event", e.String()).
			Debug("event ignored in current state")
		return
	}
	o.logger().WithField("event", e.String()).
		WithField("from", from.String()).
		Trace("event applied")
}

func (o *Orchestrator) onEnter(t sm.Transition) {
	metrics.TransitionCount.WithLabelValues(t.To.String(), strconv.FormatBool(t.Forced)).Inc()
	o.logger().WithFields(logrus.Fields{
		"from":   t.From.String(),
		"event":  t.Event.String(),
		"forced": t.Forced,
	}).Debug("state entered")

	switch EntryActionFor(t.To) {
	case ENTRY_SETTLE:
		o.settle()
	case ENTRY_FILL:
		o.startFillPhase()
	case ENTRY_WASH:
		o.startWashPhase()
	case ENTRY_RINSE:
		o.startRinsePhase()
	case ENTRY_SPIN:
		o.startSpinPhase()
	case ENTRY_DRAIN:
		o.startDrainPhase()
	case ENTRY_COMPLETE:
		o.completeCycle()
	case ENTRY_PAUSE:
		o.pauseCycle(t.From)
	case ENTRY_EMERGENCY:
		o.executeEmergencyStop()
	case ENTRY_FAULT:
		o.raiseFault(t.Event)
	case ENTRY_NONE:
	}
}

func (o *Orchestrator) beginPhase(seconds float64) {
	o.phaseTime = seconds
	o.phaseElapsed = 0
	o.phaseDone = false
}

func (o *Orchestrator) startFillPhase() {
	water := o.currentProgram().AdjustedWaterLevel(o.loadKg)
	o.door.Lock()
	o.beginPhase(fillTime(water))
	o.reinjectOptional(o.water.StartFilling(water))
	o.logger().WithField("targetLiters", water).Info("filling")
}

func (o *Orchestrator) startWashPhase() {
	program := o.currentProgram()
	o.motor.Start(program.SpinSpeedRPM/2, subsystem.CLOCKWISE)
	o.beginPhase(phaseTime(program, o.loadKg, washShare))
	o.logger().WithField("seconds", o.phaseTime).Info("washing")
}

func (o *Orchestrator) startRinsePhase() {
	o.motor.Start(RinseRPM, subsystem.COUNTER_CLOCKWISE)
	o.beginPhase(phaseTime(o.currentProgram(), o.loadKg, rinseShare))
	o.logger().WithField("seconds", o.phaseTime).Info("rinsing")
}

func (o *Orchestrator) startSpinPhase() {
	program := o.currentProgram()
	o.motor.Start(program.SpinSpeedRPM, subsystem.CLOCKWISE)
	o.beginPhase(phaseTime(program, o.loadKg, spinShare))
	o.logger().WithField("seconds", o.phaseTime).
		WithField("rpm", program.SpinSpeedRPM).
		Info("spinning")
}

func (o *Orchestrator) startDrainPhase() {
	o.motor.Stop()
	o.beginPhase(drainTime(o.water.Level()))
	o.reinjectOptional(o.water.StartDraining())
	o.logger().WithField("liters", o.water.Level()).Info("draining")
}

func (o *Orchestrator) completeCycle() {
	o.motor.Stop()
	o.door.Unlock()
	o.cycleElapsed = o.totalCycleTime
	o.progress = 100
	metrics.CyclesCompleted.Inc()
	o.logger().WithField("program", o.currentProgram().Name).
		Info("cycle complete")
}

func (o *Orchestrator) pauseCycle(from sm.State) {
	o.sm.SetPausedFrom(from)
	o.motor.Stop()
	o.water.StopFilling()
	o.logger().WithField("pausedFrom", from.String()).Info("cycle paused")
}

func (o *Orchestrator) executeEmergencyStop() {
	o.motor.EmergencyStop()
	o.water.StopFilling()
	o.reinjectOptional(o.water.StartDraining())
	metrics.EmergencyStops.Inc()
	o.logger().Warn("emergency stop activated")
}

func (o *Orchestrator) raiseFault(cause event.Type) {
	if code, ok := faultFromEvent(cause); ok {
		o.fault = code
	}
	o.motor.Stop()
	o.water.StopFilling()
	metrics.FaultCount.WithLabelValues(o.fault.String()).Inc()
	o.logger().WithField("fault", o.fault.String()).Error("machine fault")
}

// settle runs on entering IDLE: nothing is driven any more, leftover water
// is drained and the door is released once the drum is still and empty.
func (o *Orchestrator) settle() {
	o.motor.Stop()
	o.water.StopFilling()
	if o.water.Level() > 0 {
		o.water.StartDraining()
	}
	o.unlockIfSafe()

	o.totalCycleTime = 0
	o.cycleElapsed = 0
	o.progress = 0
	o.phaseTime = 0
	o.phaseElapsed = 0
	o.cycleID = ""
}

func (o *Orchestrator) unlockIfSafe() {
	if o.door.IsLocked() && o.water.Level() <= 0 && o.motor.CurrentRPM() == 0 {
		o.door.Unlock()
		o.logger().Debug("door released")
	}
}
