/*
 * === This file is part of washctl ===
 *
 * Copyright 2019 CERN and copyright holders of ALICE O².
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


// Generates the markdown reference of the washctl command line.
package main

import (
	"github.com/laundrylab/washctl/common/logger"
	"github.com/laundrylab/washctl/washctl/app"
	"github.com/laundrylab/washctl/washctl/cmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra/doc"
)

var log = logger.New(logrus.StandardLogger(), app.NAME)

func main() {
	rootCmd := cmd.GetRootCmd()
	err := doc.GenMarkdownTree(rootCmd, "./")
	if err != nil {
		log.Fatal(err)
	}
}
