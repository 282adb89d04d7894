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
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/xeipuuv/gojsonschema"
)

// ProgramsSchema accepts either a bare list of programs or an object with a
// wash_modes list.
const ProgramsSchema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "title": "Wash programs",
    "definitions": {
        "program": {
            "type": "object",
            "properties": {
                "name": {
                    "description": "Name shown on the console",
                    "type": "string",
                    "minLength": 1
                },
                "duration_minutes": {
                    "description": "Nominal duration before load adjustment",
                    "type": "integer",
                    "minimum": 1
                },
                "spin_speed_rpm": {
                    "description": "Drum speed during the spin phase",
                    "type": "integer",
                    "minimum": 0
                },
                "water_level_liters": {
                    "description": "Nominal water volume before load adjustment",
                    "type": "number",
                    "exclusiveMinimum": 0
                },
                "temperature_celsius": {
                    "description": "Nominal water temperature",
                    "type": "integer"
                }
            }
        },
        "programs": {
            "type": "array",
            "items": { "$ref": "#/definitions/program" }
        }
    },
    "oneOf": [
        { "$ref": "#/definitions/programs" },
        {
            "type": "object",
            "properties": {
                "wash_modes": { "$ref": "#/definitions/programs" }
            },
            "required": ["wash_modes"]
        }
    ]
}`

// validateSchema checks an unmarshaled document against ProgramsSchema.
func validateSchema(document interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(ProgramsSchema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("cannot validate programs document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var merr *multierror.Error
	for _, desc := range result.Errors() {
		merr = multierror.Append(merr, fmt.Errorf("%s", desc.String()))
	}
	return merr.ErrorOrNil()
}
