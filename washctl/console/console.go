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


// Package console implements the interactive operator console of washctl. It
// reads one command per line and maps each onto an orchestrator operation.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/laundrylab/washctl/common/event"
	"github.com/laundrylab/washctl/common/logger"
	"github.com/laundrylab/washctl/common/product"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/core/cycle"
	"github.com/laundrylab/washctl/washctl/app"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "console")

const POLL_INTERVAL = 100 * time.Millisecond

var ErrUnknownCommand = errors.New("unknown command")

// Machine is the set of operations the console drives.
type Machine interface {
	SelectMode(index int) error
	SetLoad(kg float64) error
	Start() error
	Pause() error
	Resume() error
	Stop() error
	EmergencyStop() error
	OpenDoor() error
	CloseDoor() error
	ClearFault() error
	SetReservoirLevel(liters float64)
	Inject(e event.Event)
	Status() cycle.Status
	Plan() cycle.PhasePlan
	Programs() *configuration.Catalog
}

type handler func(ctx context.Context, c *Console, args []string) error

type command struct {
	name    string
	aliases []string
	usage   string
	short   string
	nargs   int
	run     handler
}

type Console struct {
	m   Machine
	in  io.Reader
	out io.Writer

	commands map[string]*command
	ordered  []*command

	// set by a successful start until the machine has left READY
	startPending bool
	pollInterval time.Duration
}

func New(m Machine, in io.Reader, out io.Writer) *Console {
	c := &Console{
		m:            m,
		in:           in,
		out:          out,
		commands:     make(map[string]*command),
		pollInterval: POLL_INTERVAL,
	}
	for _, cmd := range commandTable() {
		c.register(cmd)
	}
	return c
}

func (c *Console) register(cmd *command) {
	c.ordered = append(c.ordered, cmd)
	c.commands[cmd.name] = cmd
	for _, alias := range cmd.aliases {
		c.commands[alias] = cmd
	}
}

func (c *Console) printBanner() {
	_, _ = fmt.Fprintf(c.out, "%s %s\n", green(product.PRETTY_FULLNAME), grey("v"+product.VERSION_BUILD))
	_, _ = fmt.Fprintf(c.out, "type %s for the list of commands\n\n", yellow("help"))
}

func (c *Console) prompt() {
	_, _ = fmt.Fprint(c.out, app.PROMPT)
}

// Run reads commands until the input ends, the operator quits or ctx is
// cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.printBanner()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(c.out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			quit, err := c.Execute(ctx, line)
			if err != nil {
				c.printError(err)
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs a single command line. It reports whether the operator asked
// to quit.
func (c *Console) Execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	if name == "exit" || name == "quit" {
		_, _ = fmt.Fprintln(c.out, "shutting down")
		return true, nil
	}

	cmd, ok := c.commands[name]
	if !ok {
		return false, fmt.Errorf("%w %q, type help for the list of commands", ErrUnknownCommand, name)
	}
	if cmd.nargs >= 0 && len(args) != cmd.nargs {
		return false, fmt.Errorf("usage: %s", cmd.usage)
	}

	log.WithField("command", cmd.name).
		WithField("args", args).
		Trace("console command")

	return false, cmd.run(ctx, c, args)
}

func (c *Console) printError(err error) {
	_, _ = fmt.Fprintln(c.out, red("error: "+err.Error()))
}

func (c *Console) printOk(format string, a ...interface{}) {
	_, _ = fmt.Fprintln(c.out, fmt.Sprintf(format, a...))
}

func (c *Console) printHelp() {
	_, _ = fmt.Fprintln(c.out, "commands:")
	for _, cmd := range c.ordered {
		_, _ = fmt.Fprintf(c.out, "  %-18s %s\n", cmd.usage, cmd.short)
	}
	_, _ = fmt.Fprintf(c.out, "  %-18s %s\n", "exit, quit", "leave the console")

	types := event.Types()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	sort.Strings(names)
	_, _ = fmt.Fprintf(c.out, "\nevents for inject: %s\n", grey(strings.Join(names, " ")))
}
