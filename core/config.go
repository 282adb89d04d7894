/*
 * === This file is part of washctl ===
 *
 * Copyright 2017-2018 CERN and copyright holders of ALICE O².
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


package core

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/cycle"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func setDefaults(cfg *viper.Viper) {
	cfg.SetDefault("programsFile", configuration.DefaultProgramsFile)
	cfg.SetDefault("tickInterval", cycle.DefaultTickInterval)
	cfg.SetDefault("timeScale", 1.0)
	cfg.SetDefault("maxLoadKg", cycle.DefaultMaxLoadKg)
	cfg.SetDefault("autoReplenish", true)
	cfg.SetDefault("statusListen", "")
}

func setFlags(fs *pflag.FlagSet, cfg *viper.Viper) {
	fs.String("programsFile", cfg.GetString("programsFile"), "Path to the JSON or YAML file with the wash programs")
	fs.Duration("tickInterval", cfg.GetDuration("tickInterval"), "Real time between two simulation ticks")
	fs.Float64("timeScale", cfg.GetFloat64("timeScale"), "Simulated seconds per real second")
	fs.Float64("maxLoadKg", cfg.GetFloat64("maxLoadKg"), "Rated maximum load in kilograms")
	fs.Bool("autoReplenish", cfg.GetBool("autoReplenish"), "Refill the water reservoir when it runs low")
	fs.String("statusListen", cfg.GetString("statusListen"), "HOST:PORT for the read-only status and metrics endpoint, empty to disable")
}

// AddFlags registers the core settings on fs with their defaults and binds
// them into cfg, so that flags take precedence over the settings file and the
// environment.
func AddFlags(fs *pflag.FlagSet, cfg *viper.Viper) error {
	setDefaults(cfg)
	setFlags(fs, cfg)
	return cfg.BindPFlags(fs)
}

// NewCycleConfig builds the orchestrator configuration from cfg, loading the
// program catalog from the configured file.
func NewCycleConfig(cfg *viper.Viper) (cycle.Config, error) {
	var merr *multierror.Error

	tick := cfg.GetDuration("tickInterval")
	if tick <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("tickInterval must be positive, got %s", tick))
	} else if tick < time.Millisecond {
		log.WithField("tickInterval", tick.String()).
			Warn("very short tick interval")
	}
	scale := cfg.GetFloat64("timeScale")
	if scale <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("timeScale must be positive, got %g", scale))
	}
	maxLoad := cfg.GetFloat64("maxLoadKg")
	if maxLoad <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("maxLoadKg must be positive, got %g", maxLoad))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return cycle.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cycle.Config{
		Programs:        configuration.CatalogFromFile(cfg.GetString("programsFile")),
		TickInterval:    tick,
		TimeScale:       scale,
		MaxLoadKg:       maxLoad,
		ManualReservoir: !cfg.GetBool("autoReplenish"),
	}, nil
}
