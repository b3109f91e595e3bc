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
	"log"

	"github.com/spf13/cobra"

	"github.com/telsim/onboard/config"
	"github.com/telsim/onboard/database"
)

// migrateCommands defines the "migrate" command which creates the database
// schema. The schema statements are idempotent, so rerunning is safe.
func migrateCommands(b *onboardInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "create the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			if cnf.DataSource.Driver == config.DriverMemory {
				log.Println("memory datasource requires no migration")
				return
			}

			conn, err := database.ConnectDB(cnf.DataSource.Dns)
			if err != nil {
				log.Fatalf("migration failed: %v", err)
			}
			defer conn.Close()

			log.Println("database schema is up to date")
		},
	}

	return cmd
}
