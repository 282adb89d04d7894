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

// Channel is the single serialization point between event producers (operator
// commands, subsystem notifications, the simulation tick) and the one consumer
// that feeds the state machine. Delivery is strictly FIFO.
type Channel = FifoBuffer[Event]

func NewChannel() *Channel {
	return NewFifoBuffer[Event]()
}

// Drain pops every pending event without blocking and hands each to fn, in
// order. Events pushed by fn itself are delivered in the same call. It returns
// the number of events handled.
func Drain(ch *Channel, fn func(Event)) (n int) {
	for {
		e, ok := ch.TryPop()
		if !ok {
			return
		}
		fn(e)
		n++
	}
}
