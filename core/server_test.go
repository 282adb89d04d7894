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


package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/cycle"
	"github.com/laundrylab/washctl/core/metrics"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("status endpoint", func() {
	var (
		orch     *cycle.Orchestrator
		handler  http.Handler
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		metrics.Register()
		orch = cycle.New(cycle.DefaultConfig())
		Expect(orch.CloseDoor()).To(Succeed())
		Expect(orch.SelectMode(1)).To(Succeed())
		Expect(orch.SetLoad(2)).To(Succeed())
		orch.Tick(0)

		handler = newHandlerForHttpService(&HttpService{src: orch})
		recorder = httptest.NewRecorder()
	})

	get := func(path string) {
		req, err := http.NewRequest("GET", path, nil)
		Expect(err).NotTo(HaveOccurred())
		handler.ServeHTTP(recorder, req)
	}

	When("the status is requested", func() {
		It("returns the snapshot as JSON", func() {
			get("/api/v1/status")
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Header().Get("Content-Type")).To(Equal("application/json"))

			var status map[string]interface{}
			Expect(json.NewDecoder(recorder.Body).Decode(&status)).To(Succeed())
			Expect(status["state"]).To(Equal("READY"))
			Expect(status["modeName"]).To(Equal("Normal"))
			Expect(status["loadKg"]).To(Equal(2.0))
		})

		It("returns plain text on request", func() {
			get("/api/v1/status?format=text")
			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(ContainSubstring("state: READY"))
			Expect(recorder.Body.String()).To(ContainSubstring("door: CLOSED_UNLOCKED"))
		})
	})

	It("lists the programs", func() {
		get("/api/v1/programs")
		Expect(recorder.Code).To(Equal(http.StatusOK))

		var programs []configuration.Program
		Expect(json.NewDecoder(recorder.Body).Decode(&programs)).To(Succeed())
		Expect(programs).To(HaveLen(4))
		Expect(programs[2].Name).To(Equal("Heavy"))
	})

	It("returns the phase plan", func() {
		get("/api/v1/plan/")
		Expect(recorder.Code).To(Equal(http.StatusOK))

		var plan map[string]interface{}
		Expect(json.NewDecoder(recorder.Body).Decode(&plan)).To(Succeed())
		Expect(plan).To(HaveKey("washSeconds"))
		Expect(plan["waterLiters"]).To(Equal(41.0))
	})

	It("exposes the metrics", func() {
		get("/metrics")
		Expect(recorder.Code).To(Equal(http.StatusOK))
		Expect(recorder.Body.String()).To(ContainSubstring("washctl_cycle_"))
	})

	It("has no control routes", func() {
		req, err := http.NewRequest("POST", "/api/v1/status", nil)
		Expect(err).NotTo(HaveOccurred())
		handler.ServeHTTP(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusMethodNotAllowed))
	})
})
