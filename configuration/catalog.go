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

// Catalog is an immutable, ordered list of programs.
type Catalog struct {
	programs []Program
}

// NewCatalog copies programs. An empty list yields the built-in programs.
func NewCatalog(programs []Program) *Catalog {
	if len(programs) == 0 {
		programs = DefaultPrograms()
	}
	c := &Catalog{programs: make([]Program, len(programs))}
	copy(c.programs, programs)
	return c
}

func (c *Catalog) Count() int {
	return len(c.programs)
}

func (c *Catalog) IsValid(index int) bool {
	return index >= 0 && index < len(c.programs)
}

// Get returns the program at index, or the first one if index is out of range.
func (c *Catalog) Get(index int) Program {
	if !c.IsValid(index) {
		return c.programs[0]
	}
	return c.programs[index]
}

func (c *Catalog) All() []Program {
	out := make([]Program, len(c.programs))
	copy(out, c.programs)
	return out
}
