/*
 * === This file is part of washctl ===
 *
 * Copyright 2025 CERN and copyright holders of ALICE O².
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

package event

import (
	"sync"
)

// This structure is meant to be used as a threadsafe FIFO with builtin waiting for new data
// in its Pop function. TryPop is the non-waiting variant for a consumer that polls.
// Push never blocks. Once closed, waiting consumers are released and Pop on an
// empty buffer returns immediately, but Push stays legal so that pending values
// can still be drained.
type FifoBuffer[T any] struct {
	lock sync.Mutex
	cond *sync.Cond

	buffer []T
	closed bool
}

func NewFifoBuffer[T any]() *FifoBuffer[T] {
	result := &FifoBuffer[T]{}
	result.cond = sync.NewCond(&result.lock)
	return result
}

func (this *FifoBuffer[T]) Push(value T) {
	this.cond.L.Lock()
	this.buffer = append(this.buffer, value)
	this.cond.Signal()
	this.cond.L.Unlock()
}

// TryPop returns the oldest value without waiting.
func (this *FifoBuffer[T]) TryPop() (value T, ok bool) {
	this.cond.L.Lock()
	defer this.cond.L.Unlock()

	if len(this.buffer) == 0 {
		return
	}
	return this.popFront(), true
}

// Pop blocks until a value is available or the buffer is closed and empty,
// in which case ok is false.
func (this *FifoBuffer[T]) Pop() (value T, ok bool) {
	this.cond.L.Lock()
	defer this.cond.L.Unlock()

	for len(this.buffer) == 0 {
		if this.closed {
			return
		}
		this.cond.Wait()
	}
	return this.popFront(), true
}

// caller holds the lock and has checked the buffer is not empty
func (this *FifoBuffer[T]) popFront() T {
	value := this.buffer[0]
	var zero T
	this.buffer[0] = zero
	this.buffer = this.buffer[1:]
	return value
}

func (this *FifoBuffer[T]) Length() int {
	this.cond.L.Lock()
	defer this.cond.L.Unlock()
	return len(this.buffer)
}

func (this *FifoBuffer[T]) IsEmpty() bool {
	return this.Length() == 0
}

func (this *FifoBuffer[T]) Clear() {
	this.cond.L.Lock()
	this.buffer = nil
	this.cond.L.Unlock()
}

func (this *FifoBuffer[T]) Close() {
	this.cond.L.Lock()
	this.closed = true
	this.cond.Broadcast()
	this.cond.L.Unlock()
}

func (this *FifoBuffer[T]) IsClosed() bool {
	this.cond.L.Lock()
	defer this.cond.L.Unlock()
	return this.closed
}
