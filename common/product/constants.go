/*
 * === This file is part of washctl ===
 *
 * Copyright 2018 CERN and copyright holders of ALICE O².
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

package product

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func getExecutableDir() string {
	ex, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(ex)
}

func fillVersionFromVersionFile(versionFilePath string) {
	vfContents, err := os.ReadFile(versionFilePath)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(vfContents), "\n") {
		if !strings.HasPrefix(line, "VERSION_") {
			continue
		}
		splitLine := strings.Split(line, ":=")
		if len(splitLine) != 2 {
			return
		}
		switch strings.TrimSpace(splitLine[0]) {
		case "VERSION_MAJOR":
			VERSION_MAJOR = strings.TrimSpace(splitLine[1])
		case "VERSION_MINOR":
			VERSION_MINOR = strings.TrimSpace(splitLine[1])
		case "VERSION_PATCH":
			VERSION_PATCH = strings.TrimSpace(splitLine[1])
		}
	}
}

// fillBuildFromGit is the equivalent of git rev-parse --short HEAD, best effort.
func fillBuildFromGit(localRepoPath string) {
	r, err := git.PlainOpen(localRepoPath)
	if err != nil {
		return
	}

	h, err := r.ResolveRevision(plumbing.Revision("HEAD"))
	if err != nil {
		return
	}
	BUILD = h.String()[:7]
}

func init() {
	// If the binary was built with go build directly instead of make.
	if VERSION_MAJOR == "0" &&
		VERSION_MINOR == "0" &&
		VERSION_PATCH == "0" &&
		BUILD == "" {
		basePath := filepath.Dir(getExecutableDir())
		versionFilePath := filepath.Join(basePath, "VERSION")

		if _, err := os.Stat(versionFilePath); err == nil {
			fillVersionFromVersionFile(versionFilePath)
		}

		fillBuildFromGit(basePath)
	}

	VERSION = strings.Join([]string{VERSION_MAJOR, VERSION_MINOR, VERSION_PATCH}, ".")
	VERSION_SHORT = VERSION
	VERSION_BUILD = VERSION
	if BUILD != "" {
		VERSION_BUILD = strings.Join([]string{VERSION, BUILD}, "-")
	}
}

var ( // Acquired from -ldflags="-X=..." in Makefile
	VERSION_MAJOR = "0"
	VERSION_MINOR = "0"
	VERSION_PATCH = "0"
	BUILD         = ""
)

var (
	NAME             = "washctl"
	PRETTY_SHORTNAME = "washctl"
	PRETTY_FULLNAME  = "Washer Control Core"
	VERSION          string
	VERSION_SHORT    string
	VERSION_BUILD    string
)
