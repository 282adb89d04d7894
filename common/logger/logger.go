/*
 * === This file is part of washctl ===
 *
 * Copyright 2017 CERN and copyright holders of ALICE O².
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

// Package logger is a convenience wrapper package for using logrus
// in the washer control core.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
	prefixed "github.com/teo/logrus-prefixed-formatter"
)

type Log struct {
	logrus.Entry
}

func (logger *Log) WithPrefix(prefix string) *logrus.Entry {
	return logger.WithField("prefix", prefix)
}

func New(baseLogger *logrus.Logger, defaultPrefix string) *Log {
	logger := new(Log)
	logger.Logger = baseLogger
	logger.Data = make(logrus.Fields, 5)
	logger.Data["prefix"] = defaultPrefix
	return logger
}

// Setup configures the standard logger with the prefixed text formatter and
// the given level. An unparsable level leaves the current level untouched.
func Setup(level string, output io.Writer, forceColors bool) error {
	logrus.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp: true,
		SpacePadding:  20,
		PrefixPadding: 12,

		ForceColors:     forceColors,
		ForceFormatting: true,
	})
	if output != nil {
		logrus.SetOutput(output)
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(logLevel)
	return nil
}
