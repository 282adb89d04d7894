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
	"encoding/json"

	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/sm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PhasePlan", func() {
	quick := configuration.DefaultPrograms()[0]

	It("splits the adjusted duration between the timed phases", func() {
		plan := NewPhasePlan(quick, 3)
		Expect(plan.Wash).To(BeNumerically("~", 630, 0.001))
		Expect(plan.Rinse).To(BeNumerically("~", 315, 0.001))
		Expect(plan.Spin).To(BeNumerically("~", 189, 0.001))
	})

	It("fills and drains the load-adjusted volume", func() {
		plan := NewPhasePlan(quick, 3)
		Expect(plan.WaterLiters).To(BeNumerically("~", 29, 0.001))
		Expect(plan.Fill).To(BeNumerically("~", 2.9, 0.001))
		Expect(plan.Drain).To(BeNumerically("~", 29.0/15, 0.001))
		Expect(plan.Total()).To(BeNumerically("~", 630+315+189+2.9+29.0/15, 0.001))
	})

	It("caps the water at the tub maximum", func() {
		heavy := configuration.DefaultPrograms()[2]
		plan := NewPhasePlan(heavy, 6)
		Expect(plan.WaterLiters).To(Equal(float64(configuration.MaxWaterLevel)))
	})

	It("is what the orchestrator reports for its selection", func() {
		o := readyOrchestrator(DefaultConfig(), 0, 3)
		Expect(o.Plan()).To(Equal(NewPhasePlan(quick, 3)))
	})
})

var _ = Describe("Status", func() {
	It("renders enums as names in JSON", func() {
		o := readyOrchestrator(DefaultConfig(), 0, 3)
		data, err := json.Marshal(o.Status())
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]interface{}
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded["state"]).To(Equal("READY"))
		Expect(decoded["door"]).To(Equal("CLOSED_UNLOCKED"))
		Expect(decoded["fault"]).To(Equal("NONE"))
		Expect(decoded["modeName"]).To(Equal("Quick Wash"))
		Expect(decoded).NotTo(HaveKey("cycleId"))
	})
})

var _ = Describe("FaultCode", func() {
	It("names every code", func() {
		Expect(FAULT_WATER_UNAVAILABLE.String()).To(Equal("WATER_UNAVAILABLE"))
		Expect(FAULT_DOOR.Label()).To(Equal("Door Fault"))
		Expect(FaultCode(42).String()).To(Equal("UNKNOWN"))
	})

	It("maps fault events to codes", func() {
		code, ok := faultFromEvent(event.FAULT_MOTOR)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(FAULT_MOTOR))

		code, ok = faultFromEvent(event.TIMER_TIMEOUT)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(FAULT_TIMEOUT))

		_, ok = faultFromEvent(event.START)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("EntryActionFor", func() {
	It("settles on IDLE and runs a phase on every timed state", func() {
		Expect(EntryActionFor(sm.IDLE)).To(Equal(ENTRY_SETTLE))
		Expect(EntryActionFor(sm.FILLING)).To(Equal(ENTRY_FILL))
		Expect(EntryActionFor(sm.SPINNING)).To(Equal(ENTRY_SPIN))
		Expect(EntryActionFor(sm.EMERGENCY_STOP)).To(Equal(ENTRY_EMERGENCY))
		Expect(EntryActionFor(sm.READY)).To(Equal(ENTRY_NONE))
	})
})
