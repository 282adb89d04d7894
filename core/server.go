/*
 * === This file is part of washctl ===
 *
 * Copyright 2019-2023 CERN and copyright holders of ALICE O².
 * Author: Claire Guyot <claire.eloise.guyot@cern.ch>
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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/cycle"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource is the read-only view of the machine served over HTTP.
type StatusSource interface {
	Status() cycle.Status
	Plan() cycle.PhasePlan
	Programs() *configuration.Catalog
}

type HttpService struct {
	src StatusSource
}

func writeJson(w http.ResponseWriter, v interface{}) {
	response, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintln(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintln(w, string(response))
}

func (httpsvc *HttpService) ApiGetStatus(w http.ResponseWriter, r *http.Request) {
	status := httpsvc.src.Status()

	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "state: %s\ndoor: %s\nwater: %.1f/%.1f L\nmotor: %d RPM\nprogress: %.1f%%\nremaining: %ds\nfault: %s\n",
			status.State.String(),
			status.Door.String(),
			status.WaterLevel,
			status.TargetWaterLevel,
			status.MotorRPM,
			status.ProgressPercent,
			status.RemainingSeconds,
			status.Fault.String())
	case "json":
		fallthrough
	default:
		writeJson(w, status)
	}
}

func (httpsvc *HttpService) ApiListPrograms(w http.ResponseWriter, r *http.Request) {
	writeJson(w, httpsvc.src.Programs().All())
}

func (httpsvc *HttpService) ApiGetPlan(w http.ResponseWriter, r *http.Request) {
	writeJson(w, httpsvc.src.Plan())
}

func newHandlerForHttpService(httpsvc *HttpService) http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/status", httpsvc.ApiGetStatus).Methods(http.MethodGet)
	api.HandleFunc("/status/", httpsvc.ApiGetStatus).Methods(http.MethodGet)
	api.HandleFunc("/programs", httpsvc.ApiListPrograms).Methods(http.MethodGet)
	api.HandleFunc("/programs/", httpsvc.ApiListPrograms).Methods(http.MethodGet)
	api.HandleFunc("/plan", httpsvc.ApiGetPlan).Methods(http.MethodGet)
	api.HandleFunc("/plan/", httpsvc.ApiGetPlan).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return router
}

// NewHttpService returns a server for the read-only status API on addr. The
// caller starts it.
func NewHttpService(addr string, src StatusSource) (svr *http.Server) {
	httpsvc := &HttpService{
		src: src,
	}
	return &http.Server{
		Handler:      newHandlerForHttpService(httpsvc),
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
}
