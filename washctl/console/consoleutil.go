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


package console

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/laundrylab/washctl/common/utils"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/cycle"
	"github.com/laundrylab/washctl/core/sm"
	"github.com/laundrylab/washctl/core/subsystem"
	"github.com/olekukonko/tablewriter"
	"github.com/xlab/treeprint"
)

var (
	blue   = color.New(color.FgHiBlue).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
	grey   = color.New(color.FgWhite).SprintFunc()
)

const maxNameWidth = 24

func colorState(st sm.State) string {
	switch st {
	case sm.IDLE, sm.DOOR_OPEN, sm.COMPLETED:
		return blue(st.Label())
	case sm.READY, sm.PAUSED:
		return yellow(st.Label())
	case sm.EMERGENCY_STOP, sm.FAULT:
		return red(st.Label())
	default:
		return green(st.Label())
	}
}

func colorDoor(ds subsystem.DoorStatus) string {
	if ds == subsystem.DOOR_STATUS_CLOSED_LOCKED {
		return yellow(ds.Label())
	}
	return ds.Label()
}

func colorFault(f cycle.FaultCode) string {
	if f == cycle.FAULT_NONE {
		return grey(f.Label())
	}
	return red(f.Label())
}

// formatSeconds renders a duration in seconds as e.g. "12m30s".
func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	return (time.Duration(math.Round(seconds)) * time.Second).String()
}

func newTable(o io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(o)
	table.SetHeader(headers)
	table.SetBorder(false)
	fg := tablewriter.Colors{tablewriter.Bold, tablewriter.FgYellowColor}
	fgColSlice := make([]tablewriter.Colors, len(headers))
	for i := 0; i < len(headers); i++ {
		fgColSlice[i] = fg
	}
	table.SetHeaderColor(fgColSlice...)
	return table
}

func drawStatus(st cycle.Status, o io.Writer) {
	table := newTable(o, []string{"field", "value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	data := [][]string{
		{"state", colorState(st.State)},
		{"door", colorDoor(st.Door)},
		{"program", fmt.Sprintf("%d. %s", st.ModeIndex+1, st.ModeName)},
		{"load", fmt.Sprintf("%.1f kg", st.LoadKg)},
		{"water", fmt.Sprintf("%.1f / %.1f L", st.WaterLevel, st.TargetWaterLevel)},
		{"reservoir", fmt.Sprintf("%.1f L", st.ReservoirLevel)},
		{"motor", fmt.Sprintf("%d RPM %s", st.MotorRPM, st.MotorDirection.String())},
		{"progress", fmt.Sprintf("%.1f%%", st.ProgressPercent)},
		{"remaining", formatSeconds(float64(st.RemainingSeconds))},
		{"fault", colorFault(st.Fault)},
	}
	if st.State == sm.PAUSED {
		data = append(data, []string{"paused in", st.PausedFrom.Label()})
	}
	if st.CycleID != "" {
		data = append(data, []string{"cycle", grey(st.CycleID)})
	}

	table.AppendBulk(data)
	table.Render()
}

func drawPrograms(programs []configuration.Program, selected int, o io.Writer) {
	table := newTable(o, []string{"#", "name", "minutes", "spin rpm", "water L", "temp °C"})

	data := make([][]string, 0, len(programs))
	for i, p := range programs {
		index := strconv.Itoa(i + 1)
		if i == selected {
			index = green("*" + index)
		}
		data = append(data, []string{
			index,
			utils.TruncateString(p.Name, maxNameWidth),
			strconv.Itoa(p.DurationMinutes),
			strconv.Itoa(p.SpinSpeedRPM),
			strconv.FormatFloat(p.WaterLevelLiters, 'g', -1, 64),
			strconv.Itoa(p.TemperatureCelsius),
		})
	}

	table.AppendBulk(data)
	table.Render()
}

func drawPlan(plan cycle.PhasePlan, o io.Writer) {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s, %.1f kg", plan.Program.Name, plan.LoadKg))
	tree.SetMetaValue(formatSeconds(plan.Total()))

	tree.AddMetaNode(formatSeconds(plan.Fill), fmt.Sprintf("fill %.1f L", plan.WaterLiters))
	tree.AddMetaNode(formatSeconds(plan.Wash), fmt.Sprintf("wash at %d RPM", plan.Program.SpinSpeedRPM/2))
	tree.AddMetaNode(formatSeconds(plan.Rinse), fmt.Sprintf("rinse at %d RPM", cycle.RinseRPM))
	tree.AddMetaNode(formatSeconds(plan.Spin), fmt.Sprintf("spin at %d RPM", plan.Program.SpinSpeedRPM))
	tree.AddMetaNode(formatSeconds(plan.Drain), "drain")

	_, _ = fmt.Fprint(o, tree.String())
}

// PrintPrograms writes the program table without a selection marker.
func PrintPrograms(programs []configuration.Program, o io.Writer) {
	drawPrograms(programs, -1, o)
}
