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

package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	// Postgres driver without a DNS must be rejected
	cnf := Configuration{
		ProjectName: "",
		DataSource: DataSourceConfig{
			Driver: DriverPostgres,
		},
	}

	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "data source DNS is required for the postgres driver" {
		t.Errorf("Expected data source DNS required error, got %v", err)
	}

	// Unknown driver must be rejected
	cnf = Configuration{
		DataSource: DataSourceConfig{
			Driver: "oracle",
		},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil {
		t.Error("Expected unknown driver error, got nil")
	}

	// Empty driver defaults to the in-memory store and passes validation
	cnf = Configuration{
		ProjectName: "Test Project",
	}
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.DataSource.Driver != DriverMemory {
		t.Errorf("Expected default driver %s, got %s", DriverMemory, cnf.DataSource.Driver)
	}

	// Test default port setting
	cnf.Server.Port = ""
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}

	// OTP and verification policies pick up demo defaults
	if cnf.OTP.TTLMinMinutes != 5 || cnf.OTP.TTLMaxMinutes != 10 {
		t.Errorf("Expected OTP TTL window 5..10, got %d..%d", cnf.OTP.TTLMinMinutes, cnf.OTP.TTLMaxMinutes)
	}
	if cnf.OTP.MaxAttempts != 3 {
		t.Errorf("Expected 3 OTP attempts, got %d", cnf.OTP.MaxAttempts)
	}
	if cnf.Verification.AcceptThreshold != 90 || cnf.Verification.ReviewThreshold != 70 {
		t.Errorf("Expected thresholds 90/70, got %d/%d", cnf.Verification.AcceptThreshold, cnf.Verification.ReviewThreshold)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "onboard.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up after the test

	// Sample configuration to write to the temp file
	sampleConfig := Configuration{
		ProjectName: "Temp Project",
		DataSource: DataSourceConfig{
			Driver: DriverPostgres,
			Dns:    "temp-dns",
		},
		Redis: RedisConfig{
			Dns: "temp-redis",
		},
	}
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close() // Close the file so loadConfigFromFile can open it

	// Set an environment variable to override the project name
	os.Setenv("ONBOARD_PROJECT_NAME", "Env Project")
	defer os.Unsetenv("ONBOARD_PROJECT_NAME") // Clean up after the test

	// Load the configuration from the file
	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile failed: %v", err)
	}

	// Fetch the loaded configuration
	loadedConfig, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Check if the environment variable override worked
	if loadedConfig.ProjectName != "Env Project" {
		t.Errorf("Expected ProjectName to be 'Env Project', got '%s'", loadedConfig.ProjectName)
	}

	// Check if the DNS was loaded correctly from the file
	if loadedConfig.DataSource.Dns != "temp-dns" {
		t.Errorf("Expected DataSource.Dns to be 'temp-dns', got '%s'", loadedConfig.DataSource.Dns)
	}
}
