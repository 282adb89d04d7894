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

// Package sm holds the washer's operating state and the static transition
// table that moves it.
package sm

import (
	"context"
	"errors"

	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/common/logger"
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "sm")

// Transition describes one state change. Event is event.NONE for forced
// transitions.
type Transition struct {
	From   State
	To     State
	Event  event.Type
	Forced bool
}

// Listener is notified around every transition, OnExit before the state
// changes and OnEnter after. A Listener must not call Apply or Force.
type Listener interface {
	OnExit(t Transition)
	OnEnter(t Transition)
}

// Machine is not safe for concurrent use; its owner serializes access.
type Machine struct {
	fsm        *fsm.FSM
	table      Table
	listener   Listener
	previous   State
	pausedFrom State
}

func NewMachine(listener Listener) *Machine {
	m := &Machine{
		table:      DefaultTable(),
		listener:   listener,
		previous:   IDLE,
		pausedFrom: IDLE,
	}
	m.fsm = fsm.NewFSM(IDLE.String(), m.table.fsmEvents(), fsm.Callbacks{})
	return m
}

func (m *Machine) Current() State {
	s, ok := StateFromString(m.fsm.Current())
	if !ok {
		log.WithField("state", m.fsm.Current()).Error("state machine holds an unknown state")
	}
	return s
}

func (m *Machine) Previous() State {
	return m.previous
}

func (m *Machine) PausedFrom() State {
	return m.pausedFrom
}

func (m *Machine) SetPausedFrom(s State) {
	m.pausedFrom = s
}

func (m *Machine) IsActive() bool {
	return IsActive(m.Current())
}

func (m *Machine) IsSafeToOpen() bool {
	return IsSafeToOpen(m.Current())
}

// Can reports whether evt has an edge out of the current state.
func (m *Machine) Can(evt event.Type) bool {
	_, ok := m.table.Lookup(m.Current(), evt)
	return ok
}

// Apply performs the transition for evt if the table allows it. It returns
// false, without notifying the listener, when evt is not accepted in the
// current state.
func (m *Machine) Apply(evt event.Type) bool {
	from := m.Current()
	to, ok := m.table.Lookup(from, evt)
	if !ok {
		return false
	}

	t := Transition{From: from, To: to, Event: evt}
	m.exit(t)

	err := m.fsm.Event(context.Background(), evt.String())
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		// the table and the fsm are built from the same edges, so this
		// only happens if they diverge
		log.WithError(err).
			WithField("event", evt.String()).
			WithField("state", from.String()).
			Error("transition rejected by state machine, forcing destination")
		m.fsm.SetState(to.String())
	}

	m.previous = from
	m.enter(t)
	return true
}

// Force moves to s regardless of the table, with the same exit and entry
// notifications as Apply.
func (m *Machine) Force(s State) {
	from := m.Current()
	t := Transition{From: from, To: s, Event: event.NONE, Forced: true}
	m.exit(t)
	m.fsm.SetState(s.String())
	m.previous = from
	m.enter(t)
}

// Reset returns to IDLE without notifying the listener.
func (m *Machine) Reset() {
	m.fsm.SetState(IDLE.String())
	m.previous = IDLE
	m.pausedFrom = IDLE
}

// Table returns a copy of the transition table.
func (m *Machine) Table() Table {
	return m.table.Copy()
}

func (m *Machine) exit(t Transition) {
	log.WithFields(logrus.Fields{
		"from":   t.From.String(),
		"to":     t.To.String(),
		"event":  t.Event.String(),
		"forced": t.Forced,
	}).Trace("leaving state")
	if m.listener != nil {
		m.listener.OnExit(t)
	}
}

func (m *Machine) enter(t Transition) {
	if m.listener != nil {
		m.listener.OnEnter(t)
	}
}
