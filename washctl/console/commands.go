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


package console

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/briandowns/spinner"
	"github.com/iancoleman/strcase"
	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/core/sm"
)

func commandTable() []*command {
	return []*command{
		{name: "open", usage: "open", short: "open the door", run: openDoor},
		{name: "close", usage: "close", short: "close the door", run: closeDoor},
		{name: "load", usage: "load <kg>", short: "set the laundry load", nargs: 1, run: setLoad},
		{name: "mode", usage: "mode <n>", short: "select wash program n, see modes", nargs: 1, run: selectMode},
		{name: "start", usage: "start", short: "start the wash cycle", run: start},
		{name: "pause", usage: "pause", short: "pause the running phase", run: pause},
		{name: "resume", usage: "resume", short: "resume a paused cycle", run: resume},
		{name: "stop", usage: "stop", short: "stop the cycle and drain", run: stop},
		{name: "emergency", aliases: []string{"estop"}, usage: "emergency", short: "emergency stop", run: emergency},
		{name: "clear", usage: "clear", short: "clear a fault", run: clearFault},
		{name: "reservoir", usage: "reservoir <liters>", short: "set the water reservoir level", nargs: 1, run: setReservoir},
		{name: "status", aliases: []string{"st"}, usage: "status", short: "show the machine status", run: showStatus},
		{name: "modes", aliases: []string{"programs"}, usage: "modes", short: "list the wash programs", run: showModes},
		{name: "plan", usage: "plan", short: "estimate the phases of the selected program", run: showPlan},
		{name: "wait", usage: "wait", short: "wait until the machine is at rest", run: wait},
		{name: "inject", usage: "inject <EVENT> [n]", short: "queue a raw event", nargs: -1, run: inject},
		{name: "help", aliases: []string{"?"}, usage: "help", short: "show this help", run: help},
	}
}

func openDoor(_ context.Context, c *Console, _ []string) error {
	if err := c.m.OpenDoor(); err != nil {
		return err
	}
	c.printOk("door %s", c.m.Status().Door.Label())
	return nil
}

func closeDoor(_ context.Context, c *Console, _ []string) error {
	if err := c.m.CloseDoor(); err != nil {
		return err
	}
	c.printOk("door %s", c.m.Status().Door.Label())
	return nil
}

func setLoad(_ context.Context, c *Console, args []string) error {
	kg, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("load expects a number of kilograms, got %q", args[0])
	}
	if err = c.m.SetLoad(kg); err != nil {
		return err
	}
	c.printOk("load set to %.1f kg", kg)
	return nil
}

// selectMode takes the 1-based program number shown by modes.
func selectMode(_ context.Context, c *Console, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("mode expects a program number, got %q", args[0])
	}
	if err = c.m.SelectMode(n - 1); err != nil {
		return err
	}
	c.printOk("mode %d selected: %s", n, c.m.Programs().Get(n-1).Name)
	return nil
}

func start(_ context.Context, c *Console, _ []string) error {
	plan := c.m.Plan()
	if err := c.m.Start(); err != nil {
		return err
	}
	c.startPending = true
	c.printOk("starting %s, estimated %s", green(plan.Program.Name), formatSeconds(plan.Total()))
	return nil
}

func pause(_ context.Context, c *Console, _ []string) error {
	if err := c.m.Pause(); err != nil {
		return err
	}
	c.printOk("pausing")
	return nil
}

func resume(_ context.Context, c *Console, _ []string) error {
	if err := c.m.Resume(); err != nil {
		return err
	}
	c.printOk("resumed %s", colorState(c.m.Status().State))
	return nil
}

func stop(_ context.Context, c *Console, _ []string) error {
	if err := c.m.Stop(); err != nil {
		return err
	}
	c.printOk("stopping, now %s", colorState(c.m.Status().State))
	return nil
}

func emergency(_ context.Context, c *Console, _ []string) error {
	if err := c.m.EmergencyStop(); err != nil {
		return err
	}
	c.printOk(red("EMERGENCY STOP"))
	return nil
}

func clearFault(_ context.Context, c *Console, _ []string) error {
	if err := c.m.ClearFault(); err != nil {
		return err
	}
	c.printOk("fault cleared")
	return nil
}

func setReservoir(_ context.Context, c *Console, args []string) error {
	liters, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("reservoir expects a number of liters, got %q", args[0])
	}
	c.m.SetReservoirLevel(liters)
	c.printOk("reservoir at %.1f L", c.m.Status().ReservoirLevel)
	return nil
}

func showStatus(_ context.Context, c *Console, _ []string) error {
	drawStatus(c.m.Status(), c.out)
	return nil
}

func showModes(_ context.Context, c *Console, _ []string) error {
	drawPrograms(c.m.Programs().All(), c.m.Status().ModeIndex, c.out)
	return nil
}

func showPlan(_ context.Context, c *Console, _ []string) error {
	drawPlan(c.m.Plan(), c.out)
	return nil
}

func help(_ context.Context, c *Console, _ []string) error {
	c.printHelp()
	return nil
}

func inject(_ context.Context, c *Console, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: inject <EVENT> [n]")
	}
	// accepts select_mode, selectMode and SELECT_MODE alike
	t, ok := event.TypeFromString(strcase.ToScreamingSnake(args[0]))
	if !ok || t == event.NONE {
		return fmt.Errorf("%w event %q", ErrUnknownCommand, args[0])
	}

	e := event.New(t)
	if len(args) == 2 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			e = event.NewWithInt(t, n)
		} else if f, err := strconv.ParseFloat(args[1], 64); err == nil {
			e = event.NewWithFloat(t, f)
		} else {
			return fmt.Errorf("event payload must be a number, got %q", args[1])
		}
	}

	c.m.Inject(e)
	c.printOk("queued %s", e.String())
	return nil
}

// busy is true while a cycle or an emergency drain is under way, and right
// after start until the machine leaves READY.
func (c *Console) busy() bool {
	s := c.m.Status().State
	if s != sm.READY {
		c.startPending = false
	}
	return sm.IsActive(s) || s == sm.EMERGENCY_STOP || (s == sm.READY && c.startPending)
}

// wait blocks until the machine comes to rest, showing the running phase.
func wait(ctx context.Context, c *Console, _ []string) error {
	if !c.busy() {
		c.printOk("nothing to wait for, machine is %s", colorState(c.m.Status().State))
		return nil
	}

	s := spinner.New(spinner.CharSets[11], c.pollInterval, spinner.WithWriter(c.out))
	s.Color("yellow")
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for c.busy() {
		st := c.m.Status()
		s.Lock()
		s.Suffix = fmt.Sprintf(" %s %.0f%%, %s left", st.State.Label(), st.ProgressPercent, formatSeconds(float64(st.RemainingSeconds)))
		s.Unlock()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	s.Stop()
	c.printOk("machine is %s", colorState(c.m.Status().State))
	return nil
}
