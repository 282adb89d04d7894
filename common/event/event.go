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

package event

import (
	"fmt"
	"strconv"
	"time"
)

type payloadKind int

const (
	noPayload payloadKind = iota
	intPayload
	floatPayload
)

// Event is an immutable tagged value carried through the Channel. It is
// always passed by value.
type Event struct {
	kind      Type
	payload   payloadKind
	intVal    int
	floatVal  float64
	timestamp time.Time
}

func New(t Type) Event {
	return Event{
		kind:      t,
		timestamp: time.Now(),
	}
}

func NewWithInt(t Type, value int) Event {
	e := New(t)
	e.payload = intPayload
	e.intVal = value
	return e
}

func NewWithFloat(t Type, value float64) Event {
	e := New(t)
	e.payload = floatPayload
	e.floatVal = value
	return e
}

func (e Event) Type() Type {
	return e.kind
}

func (e Event) Timestamp() time.Time {
	return e.timestamp
}

func (e Event) HasPayload() bool {
	return e.payload != noPayload
}

// Int returns the integer payload. A float payload is truncated.
func (e Event) Int() (int, bool) {
	switch e.payload {
	case intPayload:
		return e.intVal, true
	case floatPayload:
		return int(e.floatVal), true
	}
	return 0, false
}

// Float returns the float payload. An integer payload is widened.
func (e Event) Float() (float64, bool) {
	switch e.payload {
	case floatPayload:
		return e.floatVal, true
	case intPayload:
		return float64(e.intVal), true
	}
	return 0, false
}

func (e Event) String() string {
	switch e.payload {
	case intPayload:
		return fmt.Sprintf("%s(%d)", e.kind.String(), e.intVal)
	case floatPayload:
		return fmt.Sprintf("%s(%s)", e.kind.String(), strconv.FormatFloat(e.floatVal, 'f', -1, 64))
	}
	return e.kind.String()
}
