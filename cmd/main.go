/*
Copyright 2025 Telsim Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/telsim/onboard"
	"github.com/telsim/onboard/config"
	"github.com/telsim/onboard/database"
	"github.com/telsim/onboard/internal/notification"
)

// Onboard represents the CLI application, encapsulating the root Cobra command.
type Onboard struct {
	cmd *cobra.Command
}

// onboardInstance holds the service instance and its configuration for the
// lifetime of a command.
type onboardInstance struct {
	onboard *onboard.Onboard
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the service before running
// any command.
func preRun(app *onboardInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("onboard.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newOnboard, err := setupOnboard(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.onboard = newOnboard
		app.cnf = cnf

		return nil
	}
}

func setupOnboard(cfg *config.Configuration) (*onboard.Onboard, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newOnboard, err := onboard.NewOnboard(db)
	if err != nil {
		return nil, fmt.Errorf("error creating onboard: %v", err)
	}
	return newOnboard, nil
}

// NewCLI creates the command-line interface for the onboarding server.
func NewCLI() *Onboard {
	var configFile string
	b := &onboardInstance{}

	var rootCmd = &cobra.Command{
		Use:   "onboard",
		Short: "Telecom subscriber onboarding server",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./onboard.json", "Configuration file for the onboarding server")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &Onboard{cmd: rootCmd}
}

func (w Onboard) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
