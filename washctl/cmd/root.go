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


// Package cmd contains all the entry points for command line
// subcommands, following library convention.
package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/laundrylab/washctl/common/logger"
	"github.com/laundrylab/washctl/common/product"
	"github.com/laundrylab/washctl/core"
	"github.com/laundrylab/washctl/washctl/app"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logger.New(logrus.StandardLogger(), app.NAME)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   app.NAME,
	Short: app.PRETTY_FULLNAME,
	Long: fmt.Sprintf(`The %s is a command line program for operating the %s,
a simulated washing machine control core.`, app.PRETTY_FULLNAME, product.PRETTY_FULLNAME),
	SilenceUsage: true,
}

func GetRootCmd() *cobra.Command { // Used for docs generator
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.WithField("error", err).Error("cannot run command")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.Set("version", product.VERSION)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("configuration file (default $HOME/.config/%s/settings.yaml)", app.NAME))
	rootCmd.PersistentFlags().String("log.level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show verbose output for debug purposes")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log.level"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	if err := core.AddFlags(rootCmd.PersistentFlags(), viper.GetViper()); err != nil {
		log.WithError(err).Fatal("cannot bind core flags")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("verbose", false)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.WithField("error", err).Error("cannot find configuration file")
			os.Exit(1)
		}

		// Search config in .config/washctl directory with name "settings.yaml"
		viper.AddConfigPath(path.Join(home, ".config/"+app.NAME))
		viper.SetConfigName("settings")
	}

	// WASHCTL_* variables may also come from a .env file in the working directory.
	_ = godotenv.Load()

	viper.SetEnvPrefix(strings.ToUpper(app.NAME))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Logs go to stderr so they do not interleave with the console.
	_ = logger.Setup(viper.GetString("log.level"), os.Stderr, false)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logLevel, err := logrus.ParseLevel(viper.GetString("log.level"))
		if err == nil {
			logrus.SetLevel(logLevel)
		}
		log.WithField("file", viper.ConfigFileUsed()).
			Debug("configuration loaded")
	} else if cfgFile != "" {
		log.WithError(err).
			WithField("file", cfgFile).
			Warn("cannot read configuration file")
	}

	if viper.GetBool("verbose") {
		viper.Set("log.level", "debug")
		logrus.SetLevel(logrus.DebugLevel)
	}
}
