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
	"github.com/looplab/fsm"
)

type edge struct {
	from State
	evt  event.Type
	to   State
}

var transitions = []edge{
	{IDLE, event.OPEN_DOOR, DOOR_OPEN},
	{IDLE, event.SELECT_MODE, READY},

	{DOOR_OPEN, event.CLOSE_DOOR, IDLE},

	{READY, event.OPEN_DOOR, DOOR_OPEN},
	{READY, event.START, FILLING},
	{READY, event.STOP, IDLE},
	{READY, event.SELECT_MODE, READY},

	{FILLING, event.WATER_LEVEL_REACHED, WASHING},
	{FILLING, event.PAUSE, PAUSED},
	{FILLING, event.EMERGENCY, EMERGENCY_STOP},
	{FILLING, event.FAULT_WATER_UNAVAILABLE, FAULT},
	{FILLING, event.STOP, DRAINING},

	{WASHING, event.WASH_COMPLETE, RINSING},
	{WASHING, event.PAUSE, PAUSED},
	{WASHING, event.EMERGENCY, EMERGENCY_STOP},
	{WASHING, event.STOP, DRAINING},

	{RINSING, event.RINSE_COMPLETE, SPINNING},
	{RINSING, event.PAUSE, PAUSED},
	{RINSING, event.EMERGENCY, EMERGENCY_STOP},
	{RINSING, event.STOP, DRAINING},

	{SPINNING, event.SPIN_COMPLETE, DRAINING},
	{SPINNING, event.PAUSE, PAUSED},
	{SPINNING, event.EMERGENCY, EMERGENCY_STOP},
	{SPINNING, event.STOP, DRAINING},

	{DRAINING, event.DRAIN_COMPLETE, COMPLETED},
	{DRAINING, event.EMERGENCY, EMERGENCY_STOP},

	{COMPLETED, event.OPEN_DOOR, DOOR_OPEN},
	{COMPLETED, event.STOP, IDLE},
	{COMPLETED, event.SELECT_MODE, READY},

	{PAUSED, event.RESUME, FILLING},
	{PAUSED, event.STOP, DRAINING},
	{PAUSED, event.EMERGENCY, EMERGENCY_STOP},

	{EMERGENCY_STOP, event.STOP, IDLE},
	{EMERGENCY_STOP, event.DRAIN_COMPLETE, IDLE},

	{FAULT, event.FAULT_CLEARED, IDLE},
	{FAULT, event.STOP, IDLE},
}

// Table maps (state, event) to a destination state. A missing entry means the
// event is ignored in that state. Every state is a key, even with no edges.
type Table map[State]map[event.Type]State

func newTable() Table {
	t := make(Table, len(_names))
	for _, s := range States() {
		t[s] = make(map[event.Type]State)
	}
	for _, e := range transitions {
		t[e.from][e.evt] = e.to
	}
	return t
}

var defaultTable = newTable()

// DefaultTable returns a copy of the washer transition table.
func DefaultTable() Table {
	return defaultTable.Copy()
}

func (t Table) Copy() Table {
	out := make(Table, len(t))
	for s, edges := range t {
		out[s] = make(map[event.Type]State, len(edges))
		for e, to := range edges {
			out[s][e] = to
		}
	}
	return out
}

func (t Table) Lookup(from State, evt event.Type) (State, bool) {
	edges, ok := t[from]
	if !ok {
		return from, false
	}
	to, ok := edges[evt]
	return to, ok
}

// Events lists the events accepted in the given state.
func (t Table) Events(from State) []event.Type {
	out := make([]event.Type, 0, len(t[from]))
	for _, evt := range event.Types() {
		if _, ok := t[from][evt]; ok {
			out = append(out, evt)
		}
	}
	return out
}

func (t Table) fsmEvents() fsm.Events {
	events := make(fsm.Events, 0, len(transitions))
	for _, from := range States() {
		for _, evt := range t.Events(from) {
			events = append(events, fsm.EventDesc{
				Name: evt.String(),
				Src:  []string{from.String()},
				Dst:  t[from][evt].String(),
			})
		}
	}
	return events
}
