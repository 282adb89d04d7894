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

package sm

import (
	"github.com/laundrylab/washctl/common/event"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recorder struct {
	calls []string
	seen  []Transition
	m     *Machine
	// state observed by the machine during OnExit
	stateAtExit []State
}

func (r *recorder) OnExit(t Transition) {
	r.calls = append(r.calls, "exit:"+t.From.String())
	if r.m != nil {
		r.stateAtExit = append(r.stateAtExit, r.m.Current())
	}
}

func (r *recorder) OnEnter(t Transition) {
	r.calls = append(r.calls, "enter:"+t.To.String())
	r.seen = append(r.seen, t)
}

var _ = Describe("Machine", func() {
	var (
		rec *recorder
		m   *Machine
	)

	BeforeEach(func() {
		rec = &recorder{}
		m = NewMachine(rec)
		rec.m = m
	})

	It("starts in IDLE", func() {
		Expect(m.Current()).To(Equal(IDLE))
		Expect(m.Previous()).To(Equal(IDLE))
	})

	It("keeps every state in the table", func() {
		table := m.Table()
		for _, st := range States() {
			Expect(table).To(HaveKey(st))
		}
	})

	Describe("table membership", func() {
		It("accepts an event iff the table has an edge for it", func() {
			table := DefaultTable()
			for _, st := range States() {
				for _, evt := range event.Types() {
					m.Reset()
					m.Force(st)
					to, has := table.Lookup(st, evt)

					Expect(m.Can(evt)).To(Equal(has), "%s + %s", st, evt)

					before := len(rec.seen)
					applied := m.Apply(evt)
					Expect(applied).To(Equal(has), "%s + %s", st, evt)
					if has {
						Expect(m.Current()).To(Equal(to))
						Expect(m.Previous()).To(Equal(st))
						Expect(rec.seen).To(HaveLen(before + 1))
					} else {
						Expect(m.Current()).To(Equal(st))
						Expect(rec.seen).To(HaveLen(before))
					}
				}
			}
		})
	})

	Describe("notifications", func() {
		It("calls exit before the state changes and enter after", func() {
			Expect(m.Apply(event.OPEN_DOOR)).To(BeTrue())
			Expect(rec.calls).To(Equal([]string{"exit:IDLE", "enter:DOOR_OPEN"}))
			Expect(rec.stateAtExit).To(Equal([]State{IDLE}))
			Expect(rec.seen[0]).To(Equal(Transition{From: IDLE, To: DOOR_OPEN, Event: event.OPEN_DOOR}))
		})

		It("treats a self loop as a transition", func() {
			Expect(m.Apply(event.SELECT_MODE)).To(BeTrue())
			rec.calls = nil
			Expect(m.Apply(event.SELECT_MODE)).To(BeTrue())
			Expect(m.Current()).To(Equal(READY))
			Expect(m.Previous()).To(Equal(READY))
			Expect(rec.calls).To(Equal([]string{"exit:READY", "enter:READY"}))
		})

		It("does not notify for an illegal event", func() {
			Expect(m.Apply(event.START)).To(BeFalse())
			Expect(rec.calls).To(BeEmpty())
		})
	})

	Describe("forcing", func() {
		It("bypasses the table and still notifies", func() {
			Expect(m.Can(event.RESUME)).To(BeFalse())
			m.Force(RINSING)
			Expect(m.Current()).To(Equal(RINSING))
			Expect(rec.seen).To(HaveLen(1))
			Expect(rec.seen[0].Forced).To(BeTrue())
			Expect(rec.seen[0].Event).To(Equal(event.NONE))
		})
	})

	Describe("a complete cycle", func() {
		It("visits every phase in order", func() {
			steps := []struct {
				evt event.Type
				to  State
			}{
				{event.SELECT_MODE, READY},
				{event.START, FILLING},
				{event.WATER_LEVEL_REACHED, WASHING},
				{event.WASH_COMPLETE, RINSING},
				{event.RINSE_COMPLETE, SPINNING},
				{event.SPIN_COMPLETE, DRAINING},
				{event.DRAIN_COMPLETE, COMPLETED},
			}
			for _, step := range steps {
				Expect(m.Apply(step.evt)).To(BeTrue(), step.evt.String())
				Expect(m.Current()).To(Equal(step.to))
			}

			visited := make([]State, 0, len(rec.seen))
			for _, t := range rec.seen {
				visited = append(visited, t.To)
			}
			Expect(visited).To(Equal([]State{READY, FILLING, WASHING, RINSING, SPINNING, DRAINING, COMPLETED}))
		})
	})

	Describe("resetting", func() {
		It("goes back to IDLE silently", func() {
			m.Force(FAULT)
			m.SetPausedFrom(WASHING)
			rec.calls = nil
			m.Reset()
			Expect(m.Current()).To(Equal(IDLE))
			Expect(m.PausedFrom()).To(Equal(IDLE))
			Expect(rec.calls).To(BeEmpty())
		})
	})

	It("works without a listener", func() {
		bare := NewMachine(nil)
		Expect(bare.Apply(event.OPEN_DOOR)).To(BeTrue())
		Expect(bare.IsSafeToOpen()).To(BeTrue())
		Expect(bare.IsActive()).To(BeFalse())
	})
})
