/*
 * === This file is part of washctl ===
 *
 * Copyright 2017-2020 CERN and copyright holders of ALICE O².
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


// Package core wires the washer control core together: configuration, the
// cycle orchestrator and its simulation loop, the optional status endpoint
// and the operator console.
package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/laundrylab/washctl/common/logger"
	"github.com/laundrylab/washctl/common/product"
	"github.com/laundrylab/washctl/core/cycle"
	"github.com/laundrylab/washctl/core/metrics"
	"github.com/laundrylab/washctl/washctl/console"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var log = logger.New(logrus.StandardLogger(), "core")

const SHUTDOWN_TIMEOUT = 5 * time.Second

// Run is the entry point for the control core. It returns when the operator
// quits, the input ends or ctx is cancelled.
func Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if viper.GetBool("verbose") {
		log.WithField("configuration", viper.AllSettings()).Debug("core starting up")
	}
	log.Infof("%s (%s v%s) starting up", product.PRETTY_FULLNAME, product.PRETTY_SHORTNAME, product.VERSION_BUILD)

	cfg, err := NewCycleConfig(viper.GetViper())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Set up channel to receive Unix Signals
	stopSignals := signals(cancel)
	defer stopSignals()

	metrics.Register()

	orch := cycle.New(cfg)
	if err = orch.Run(ctx); err != nil {
		return err
	}
	defer orch.Shutdown()

	if addr := viper.GetString("statusListen"); addr != "" {
		svr := NewHttpService(addr, orch)
		go func() {
			log.WithField("address", addr).Info("serving status endpoint")
			if err := svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).
					WithField("address", addr).
					Error("status endpoint failed")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
			defer shutdownCancel()
			_ = svr.Shutdown(shutdownCtx)
		}()
	}

	log.WithField("programs", cfg.Programs.Count()).
		WithField("timeScale", cfg.TimeScale).
		Debug("everything initiated")

	return console.New(orch, in, out).Run(ctx)
}
