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

package subsystem

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Motor", func() {
	var motor *Motor

	BeforeEach(func() {
		motor = NewMotor()
	})

	It("starts at rest", func() {
		Expect(motor.CurrentRPM()).To(BeZero())
		Expect(motor.IsRunning()).To(BeFalse())
		Expect(motor.Direction()).To(Equal(STOPPED))
	})

	It("ramps up at 200 RPM per second", func() {
		motor.Start(1000, CLOCKWISE)
		Expect(motor.CurrentRPM()).To(BeZero())
		Expect(motor.IsRunning()).To(BeTrue())

		motor.Advance(time.Second)
		Expect(motor.CurrentRPM()).To(Equal(200))

		motor.Advance(500 * time.Millisecond)
		Expect(motor.CurrentRPM()).To(Equal(300))
	})

	It("does not overshoot the target", func() {
		motor.Start(250, COUNTER_CLOCKWISE)
		for i := 0; i < 5; i++ {
			motor.Advance(time.Second)
		}
		Expect(motor.CurrentRPM()).To(Equal(250))
		Expect(motor.Direction()).To(Equal(COUNTER_CLOCKWISE))
	})

	It("ramps down to a standstill when stopped", func() {
		motor.Start(400, CLOCKWISE)
		motor.Advance(2 * time.Second)
		Expect(motor.CurrentRPM()).To(Equal(400))

		motor.Stop()
		Expect(motor.IsRunning()).To(BeTrue())
		motor.Advance(time.Second)
		Expect(motor.CurrentRPM()).To(Equal(200))
		motor.Advance(time.Second)
		Expect(motor.CurrentRPM()).To(BeZero())
		Expect(motor.IsRunning()).To(BeFalse())
		Expect(motor.Direction()).To(Equal(STOPPED))
	})

	It("halts instantly on emergency stop", func() {
		motor.Start(1200, CLOCKWISE)
		motor.Advance(3 * time.Second)
		Expect(motor.CurrentRPM()).To(Equal(600))

		motor.EmergencyStop()
		Expect(motor.CurrentRPM()).To(BeZero())
		Expect(motor.TargetRPM()).To(BeZero())
		Expect(motor.IsRunning()).To(BeFalse())
		Expect(motor.Direction()).To(Equal(STOPPED))
	})

	It("follows speed changes", func() {
		motor.SetSpeed(100)
		Expect(motor.IsRunning()).To(BeTrue())
		motor.SetDirection(COUNTER_CLOCKWISE)
		motor.Advance(time.Second)
		Expect(motor.CurrentRPM()).To(Equal(100))
		Expect(motor.Direction()).To(Equal(COUNTER_CLOCKWISE))

		motor.Reset()
		Expect(motor.CurrentRPM()).To(BeZero())
		Expect(motor.IsRunning()).To(BeFalse())
	})
})
