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
	"time"

	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/core/sm"
	"github.com/laundrylab/washctl/core/subsystem"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Orchestrator", func() {
	var o *Orchestrator

	Describe("power on", func() {
		BeforeEach(func() {
			o = New(DefaultConfig())
		})

		It("starts idle with the door open and the tub empty", func() {
			st := o.Status()
			Expect(st.State).To(Equal(sm.IDLE))
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_OPEN))
			Expect(st.WaterLevel).To(BeZero())
			Expect(st.MotorRPM).To(BeZero())
			Expect(st.Fault).To(Equal(FAULT_NONE))
			Expect(st.ModeName).To(Equal("Quick Wash"))
		})

		It("takes defaults for the settings left unset", func() {
			custom := New(Config{MaxLoadKg: 8, ManualReservoir: true})
			Expect(custom.cfg.MaxLoadKg).To(Equal(8.0))
			Expect(custom.cfg.TickInterval).To(Equal(DefaultTickInterval))
			Expect(custom.cfg.TimeScale).To(Equal(1.0))
			Expect(custom.Programs().Count()).To(Equal(4))
			Expect(custom.water.AutoReplenish()).To(BeFalse())
			Expect(o.water.AutoReplenish()).To(BeTrue())
		})

		It("treats opening an open door as a no-op", func() {
			Expect(o.OpenDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.IDLE))
			Expect(o.events.IsEmpty()).To(BeTrue())
		})

		It("follows the door between IDLE and DOOR_OPEN", func() {
			Expect(o.CloseDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.IDLE))
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))

			Expect(o.OpenDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.DOOR_OPEN))

			Expect(o.CloseDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.IDLE))
		})

		It("treats closing a closed door as a no-op", func() {
			Expect(o.CloseDoor()).To(Succeed())
			Expect(o.CloseDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.IDLE))
			Expect(o.events.IsEmpty()).To(BeTrue())
		})

		It("refuses to start without a mode", func() {
			Expect(o.CloseDoor()).To(Succeed())
			Expect(o.SetLoad(2)).To(Succeed())
			Expect(o.Start()).To(MatchError(ErrNotReady))
		})

		It("refuses to stop when already stopped", func() {
			Expect(o.Stop()).To(MatchError(ErrAlreadyStopped))
		})

		It("refuses pause and resume outside a cycle", func() {
			Expect(o.Pause()).To(MatchError(ErrNotActive))
			Expect(o.Resume()).To(MatchError(ErrNotPaused))
			Expect(o.ClearFault()).To(MatchError(ErrNotFaulted))
		})
	})

	Describe("selecting mode and load", func() {
		BeforeEach(func() {
			o = New(DefaultConfig())
		})

		It("rejects an unknown mode", func() {
			Expect(o.SelectMode(4)).To(MatchError(ErrInvalidMode))
			Expect(o.SelectMode(-1)).To(MatchError(ErrInvalidMode))
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.IDLE))
		})

		It("rejects a negative load", func() {
			Expect(o.SetLoad(-1)).To(MatchError(ErrNegativeLoad))
			Expect(o.Status().LoadKg).To(BeZero())
		})

		It("accepts an overload but refuses to start with it", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.SetLoad(7)).To(Succeed())
			Expect(o.Start()).To(MatchError(ErrOverload))
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.READY))
		})

		It("refuses to start with no load", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.SetLoad(0)).To(Succeed())
			Expect(o.Start()).To(MatchError(ErrNoLoad))
		})

		It("reselects in READY without leaving it", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.SelectMode(2)).To(Succeed())
			o.Tick(0)
			st := o.Status()
			Expect(st.State).To(Equal(sm.READY))
			Expect(st.ModeIndex).To(Equal(2))
			Expect(st.ModeName).To(Equal("Heavy"))
		})

		It("goes back to DOOR_OPEN when the door opens in READY", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.OpenDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.DOOR_OPEN))
			Expect(o.Start()).To(MatchError(ErrDoorOpen))
		})

		It("returns to IDLE on STOP in READY", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Stop()).To(Succeed())
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.IDLE))
		})
	})

	Describe("starting a cycle", func() {
		BeforeEach(func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
		})

		It("fills with the door locked after the next tick", func() {
			Expect(o.Start()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.READY))

			o.Tick(0)
			st := o.Status()
			Expect(st.State).To(Equal(sm.FILLING))
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_LOCKED))
			Expect(st.Filling).To(BeTrue())
			Expect(st.TargetWaterLevel).To(BeNumerically("~", 29, 0.001))
			Expect(st.CycleID).NotTo(BeEmpty())
			Expect(st.RemainingSeconds).To(BeNumerically(">", 0))
		})

		It("does not start while the reservoir is low", func() {
			o.SetReservoirLevel(5)
			Expect(o.Start()).To(MatchError(ErrReservoirLow))
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.READY))
		})

		It("locks mode and load while the cycle runs", func() {
			Expect(o.Start()).To(Succeed())
			o.Tick(0)
			Expect(o.SelectMode(1)).To(MatchError(ErrCycleActive))
			Expect(o.SetLoad(1)).To(MatchError(ErrCycleActive))
			Expect(o.Status().ModeIndex).To(Equal(0))
			Expect(o.Status().LoadKg).To(Equal(3.0))
		})

		It("keeps the door shut while the cycle runs", func() {
			Expect(o.Start()).To(Succeed())
			o.Tick(0)
			Expect(o.OpenDoor()).To(MatchError(ErrDoorLocked))
			Expect(o.Status().State).To(Equal(sm.FILLING))
		})

		It("refuses a second start", func() {
			Expect(o.Start()).To(Succeed())
			o.Tick(0)
			Expect(o.Start()).To(MatchError(ErrNotReady))
		})
	})

	Describe("a full cycle", func() {
		It("walks every phase in order and releases the door", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())

			seen := tickUntil(o, sm.COMPLETED, 5*time.Second, 1000)
			Expect(seen).To(Equal([]sm.State{
				sm.READY,
				sm.FILLING,
				sm.WASHING,
				sm.RINSING,
				sm.SPINNING,
				sm.DRAINING,
				sm.COMPLETED,
			}))

			st := o.Status()
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
			Expect(st.WaterLevel).To(BeZero())
			Expect(st.ProgressPercent).To(Equal(100.0))
			Expect(st.RemainingSeconds).To(BeZero())
		})

		It("never reports negative remaining time and progress only grows", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())

			last := 0.0
			for i := 0; i < 1000 && o.Status().State != sm.COMPLETED; i++ {
				o.Tick(5 * time.Second)
				st := o.Status()
				Expect(st.RemainingSeconds).To(BeNumerically(">=", 0))
				Expect(st.ProgressPercent).To(BeNumerically(">=", last))
				Expect(st.ProgressPercent).To(BeNumerically("<=", 100))
				last = st.ProgressPercent
			}
		})

		It("can start again from COMPLETED after reselecting", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			tickUntil(o, sm.COMPLETED, 5*time.Second, 1000)

			Expect(o.SelectMode(1)).To(Succeed())
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.READY))
			Expect(o.Start()).To(Succeed())
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.FILLING))
		})
	})

	Describe("emergency stop", func() {
		BeforeEach(func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			tickUntil(o, sm.WASHING, time.Second, 20)
			o.Tick(time.Second)
			Expect(o.Status().MotorRPM).To(BeNumerically(">", 0))
		})

		It("halts the drum at once and drains", func() {
			Expect(o.EmergencyStop()).To(Succeed())
			o.Tick(0)

			st := o.Status()
			Expect(st.State).To(Equal(sm.EMERGENCY_STOP))
			Expect(st.MotorRPM).To(BeZero())
			Expect(st.Draining).To(BeTrue())
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_LOCKED))
		})

		It("goes idle and unlocks once the tub is empty", func() {
			Expect(o.EmergencyStop()).To(Succeed())
			tickUntil(o, sm.IDLE, time.Second, 10)

			st := o.Status()
			Expect(st.WaterLevel).To(BeZero())
			Expect(st.MotorRPM).To(BeZero())
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
			Expect(o.Stop()).To(MatchError(ErrAlreadyStopped))
		})

		It("goes idle on STOP and keeps draining", func() {
			Expect(o.EmergencyStop()).To(Succeed())
			o.Tick(0)
			Expect(o.Stop()).To(Succeed())
			o.Tick(0)

			Expect(o.Status().State).To(Equal(sm.IDLE))
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_LOCKED))

			for i := 0; i < 10 && o.Status().WaterLevel > 0; i++ {
				o.Tick(time.Second)
			}
			Expect(o.Status().WaterLevel).To(BeZero())
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
		})

		It("is ignored when nothing is running", func() {
			idle := New(DefaultConfig())
			Expect(idle.EmergencyStop()).To(Succeed())
			idle.Tick(0)
			Expect(idle.Status().State).To(Equal(sm.IDLE))
		})
	})

	Describe("pause and resume", func() {
		BeforeEach(func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			tickUntil(o, sm.RINSING, 10*time.Second, 200)
		})

		It("remembers the phase it paused in", func() {
			Expect(o.Pause()).To(Succeed())
			o.Tick(0)

			st := o.Status()
			Expect(st.State).To(Equal(sm.PAUSED))
			Expect(st.PausedFrom).To(Equal(sm.RINSING))
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_LOCKED))
		})

		It("winds the drum down while paused", func() {
			Expect(o.Pause()).To(Succeed())
			for i := 0; i < 10; i++ {
				o.Tick(time.Second)
			}
			Expect(o.Status().MotorRPM).To(BeZero())
			Expect(o.Status().State).To(Equal(sm.PAUSED))
		})

		It("restarts the phase timing on resume", func() {
			// rinse lasts 315s for 3 kg of Quick Wash
			o.Tick(200 * time.Second)
			Expect(o.Status().State).To(Equal(sm.RINSING))

			Expect(o.Pause()).To(Succeed())
			o.Tick(0)
			Expect(o.Resume()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.RINSING))

			o.Tick(200 * time.Second)
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.RINSING))

			o.Tick(120 * time.Second)
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.SPINNING))
		})

		It("drains when stopped while paused", func() {
			Expect(o.Pause()).To(Succeed())
			o.Tick(0)
			Expect(o.Stop()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.DRAINING))
		})
	})

	Describe("stopping a running cycle", func() {
		BeforeEach(func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			o.Tick(0)
		})

		It("goes straight to IDLE on an empty tub", func() {
			Expect(o.Stop()).To(Succeed())
			st := o.Status()
			Expect(st.State).To(Equal(sm.IDLE))
			Expect(st.Filling).To(BeFalse())
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
		})

		It("drains a partially filled tub", func() {
			o.Tick(time.Second)
			Expect(o.Status().WaterLevel).To(BeNumerically(">", 0))

			Expect(o.Stop()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.DRAINING))
			Expect(o.Status().Draining).To(BeTrue())

			tickUntil(o, sm.COMPLETED, time.Second, 10)
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
		})

		It("refuses to pause while draining", func() {
			o.Tick(time.Second)
			Expect(o.Stop()).To(Succeed())
			Expect(o.Pause()).To(MatchError(ErrCannotPause))
		})
	})

	Describe("faults", func() {
		It("faults when the reservoir runs dry mid-fill", func() {
			cfg := DefaultConfig()
			cfg.ManualReservoir = true
			o = readyOrchestrator(cfg, 0, 3)
			o.SetReservoirLevel(12)
			Expect(o.Start()).To(Succeed())

			tickUntil(o, sm.FAULT, time.Second, 10)
			st := o.Status()
			Expect(st.Fault).To(Equal(FAULT_WATER_UNAVAILABLE))
			Expect(st.Filling).To(BeFalse())
			Expect(st.WaterLevel).To(BeNumerically("~", 12, 0.001))
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_LOCKED))
		})

		It("drains and unlocks after the fault is cleared", func() {
			cfg := DefaultConfig()
			cfg.ManualReservoir = true
			o = readyOrchestrator(cfg, 0, 3)
			o.SetReservoirLevel(12)
			Expect(o.Start()).To(Succeed())
			tickUntil(o, sm.FAULT, time.Second, 10)

			Expect(o.ClearFault()).To(Succeed())
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.IDLE))
			Expect(o.Status().Fault).To(Equal(FAULT_NONE))

			for i := 0; i < 5; i++ {
				o.Tick(time.Second)
			}
			Expect(o.Status().WaterLevel).To(BeZero())
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
		})

		It("faults on an injected sensor event while filling", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			o.Tick(0)

			o.Inject(event.New(event.FAULT_WATER_UNAVAILABLE))
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.FAULT))
			Expect(o.Stop()).To(Succeed())
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.IDLE))
		})

		It("records fault events the current state has no edge for", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			o.Inject(event.New(event.FAULT_MOTOR))
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.READY))
			Expect(o.Status().Fault).To(Equal(FAULT_MOTOR))
		})

		It("records a motor fault raised while filling", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.FILLING))

			o.Inject(event.New(event.FAULT_MOTOR))
			o.Tick(0)
			Expect(o.Status().State).To(Equal(sm.FILLING))
			Expect(o.Status().Fault).To(Equal(FAULT_MOTOR))
		})

		It("keeps the state and door in step when the door moves", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.OpenDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.DOOR_OPEN))
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_OPEN))

			Expect(o.CloseDoor()).To(Succeed())
			Expect(o.Status().State).To(Equal(sm.IDLE))
			Expect(o.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))

			// IDLE has no CLOSE_DOOR edge: the door still closes.
			fresh := New(DefaultConfig())
			Expect(fresh.CloseDoor()).To(Succeed())
			Expect(fresh.Status().State).To(Equal(sm.IDLE))
			Expect(fresh.Status().Door).To(Equal(subsystem.DOOR_STATUS_CLOSED_UNLOCKED))
		})
	})

	Describe("Reset", func() {
		It("returns to the power-on state", func() {
			o = readyOrchestrator(DefaultConfig(), 0, 3)
			Expect(o.Start()).To(Succeed())
			o.Tick(time.Second)

			o.Reset()
			st := o.Status()
			Expect(st.State).To(Equal(sm.IDLE))
			Expect(st.Door).To(Equal(subsystem.DOOR_STATUS_OPEN))
			Expect(st.WaterLevel).To(BeZero())
			Expect(st.LoadKg).To(BeZero())
			Expect(st.CycleID).To(BeEmpty())
			Expect(o.events.IsEmpty()).To(BeTrue())
		})
	})
})
