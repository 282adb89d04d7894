/*
 * === This file is part of washctl ===
 *
 * Copyright 2018-2019 CERN and copyright holders of ALICE O².
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


package utils

import (
	"regexp"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/laundrylab/washctl/common/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// TimeTrack logs how long name took since start. It only does so when the
// "verbose" setting is on.
func TimeTrack(start time.Time, name string, log *logrus.Entry) {
	if !viper.GetBool("verbose") {
		return
	}

	if log == nil {
		log = logger.New(logrus.StandardLogger(), "debug").WithPrefix("debug")
	}
	elapsed := time.Since(start)
	log.WithField("elapsed", elapsed.String()).Debugf("%s took %s", name, elapsed)
}

func TimeTrackFunction(start time.Time, log *logrus.Entry) {
	// Skip this function, and fetch the PC and file for its parent.
	pc, _, _, _ := runtime.Caller(1)

	funcObj := runtime.FuncForPC(pc)

	// Just the function name, not the module path.
	runtimeFunc := regexp.MustCompile(`^.*\.(.*)$`)
	name := runtimeFunc.ReplaceAllString(funcObj.Name(), "$1")
	if log != nil {
		log = log.WithField("method", funcObj.Name())
	}

	TimeTrack(start, name, log)
}

func TruncateString(str string, length int) string {
	if length <= 0 {
		return ""
	}

	if utf8.RuneCountInString(str) <= length {
		return str
	}

	return string([]rune(str)[:length])
}
