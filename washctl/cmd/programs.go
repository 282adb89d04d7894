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


package cmd

import (
	"fmt"

	"github.com/gobwas/glob"
	"github.com/laundrylab/washctl/configuration"
	"github.com/laundrylab/washctl/washctl/console"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// programsCmd represents the programs command
var programsCmd = &cobra.Command{
	Use:     "programs",
	Aliases: []string{"modes"},
	Short:   "list the configured wash programs",
	Long: `The programs command loads the wash programs from the configured
programs file, or the built-in list if there is none, and prints them.
With --filter only programs whose name matches the glob pattern are shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := configuration.CatalogFromFile(viper.GetString("programsFile"))
		programs := catalog.All()

		filter, err := cmd.Flags().GetString("filter")
		if err != nil {
			return err
		}
		if filter != "" {
			g, err := glob.Compile(filter)
			if err != nil {
				return fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			matching := make([]configuration.Program, 0, len(programs))
			for _, p := range programs {
				if g.Match(p.Name) {
					matching = append(matching, p)
				}
			}
			programs = matching
		}

		if len(programs) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no matching programs")
			return nil
		}
		console.PrintPrograms(programs, cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)

	programsCmd.Flags().StringP("filter", "f", "", "show only programs whose name matches this glob pattern")
}
