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

package configuration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/laundrylab/washctl/common/logger"
	"github.com/naoina/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logger.New(logrus.StandardLogger(), "confsys")

// DefaultProgramsFile is where the program list is looked up when nothing
// else is configured.
const DefaultProgramsFile = "config/wash_modes.json"

var ErrNoPrograms = errors.New("no wash programs defined")

type programsDocument struct {
	WashModes []programEntry `yaml:"wash_modes" toml:"wash_modes"`
}

// programEntry decodes one program on top of DefaultProgram, so only the keys
// present in the file replace a default. An explicit zero stays zero.
type programEntry Program

func (e *programEntry) UnmarshalYAML(value *yaml.Node) error {
	p := DefaultProgram()
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = programEntry(p)
	return nil
}

func (e *programEntry) UnmarshalTOML(decode func(interface{}) error) error {
	p := DefaultProgram()
	if err := decode(&p); err != nil {
		return err
	}
	*e = programEntry(p)
	return nil
}

// LoadPrograms reads a program list from a JSON, YAML or TOML file. TOML is
// recognized by the .toml extension.
func LoadPrograms(path string) ([]Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read programs file %s: %w", path, err)
	}

	var programs []Program
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		programs, err = ParseProgramsTOML(data)
	} else {
		programs, err = ParsePrograms(data)
	}
	if err != nil {
		return nil, fmt.Errorf("programs file %s: %w", path, err)
	}
	return programs, nil
}

// ParsePrograms decodes, schema-checks and validates a program list. Fields
// left out of an entry are taken from DefaultProgram.
func ParsePrograms(data []byte) ([]Program, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoPrograms
	}

	var document interface{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("cannot parse programs: %w", err)
	}
	if err := validateSchema(document); err != nil {
		return nil, fmt.Errorf("programs do not match schema: %w", err)
	}

	var programs []programEntry
	if _, isList := document.([]interface{}); isList {
		if err := yaml.Unmarshal(data, &programs); err != nil {
			return nil, fmt.Errorf("cannot decode programs: %w", err)
		}
	} else {
		var doc programsDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("cannot decode programs: %w", err)
		}
		programs = doc.WashModes
	}

	return completePrograms(programs)
}

// ParseProgramsTOML decodes a program list from a TOML document with one
// [[wash_modes]] table per program. Field names match the JSON keys.
func ParseProgramsTOML(data []byte) ([]Program, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoPrograms
	}

	var doc programsDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse programs: %w", err)
	}
	return completePrograms(doc.WashModes)
}

func completePrograms(entries []programEntry) ([]Program, error) {
	if len(entries) == 0 {
		return nil, ErrNoPrograms
	}

	programs := make([]Program, len(entries))
	var merr *multierror.Error
	for i, entry := range entries {
		programs[i] = Program(entry)
		if err := programs[i].Validate(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return programs, nil
}

// CatalogFromFile loads the program list at path, falling back to the
// built-in programs when the file is missing, empty or invalid.
func CatalogFromFile(path string) *Catalog {
	if path == "" {
		return NewCatalog(DefaultPrograms())
	}

	programs, err := LoadPrograms(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.WithField("path", path).
			Info("programs file not found, using built-in programs")
		return NewCatalog(DefaultPrograms())
	case err != nil:
		log.WithError(err).
			WithField("path", path).
			Warn("cannot load programs file, using built-in programs")
		return NewCatalog(DefaultPrograms())
	}

	log.WithField("path", path).
		WithField("count", len(programs)).
		Debug("programs loaded")
	return NewCatalog(programs)
}
