/*
 * === This file is part of washctl ===
 *
 * Copyright 2020 CERN and copyright holders of ALICE O².
 * Author: Miltiadis Alexis <miltiadis.alexis@cern.ch>
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


package core

import (
	"os"
	"os/signal"
	"syscall"
)

// signals cancels the core on SIGINT or SIGTERM. The returned func stops
// listening.
func signals(cancel func()) (stop func()) {
	// Create channel to receive unix signals
	signal_chan := make(chan os.Signal, 1)

	//Register channel to receive SIGINT and SIGTERM signals
	signal.Notify(signal_chan,
		syscall.SIGINT,
		syscall.SIGTERM)

	done := make(chan struct{})

	// Goroutine executes a blocking receive for signals
	go func() {
		select {
		case s := <-signal_chan:
			log.WithPrefix("termination").
				WithField("signal", s.String()).
				Info("shutting down")
			cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(signal_chan)
		close(done)
	}
}
