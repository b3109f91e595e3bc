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
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5401"

	// DriverPostgres and DriverMemory select the backing store for application records.
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"ONBOARD_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"ONBOARD_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"ONBOARD_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"ONBOARD_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"ONBOARD_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"ONBOARD_SERVER_PORT"`
}

type DataSourceConfig struct {
	Driver string `json:"driver" envconfig:"ONBOARD_DATA_SOURCE_DRIVER"`
	Dns    string `json:"dns" envconfig:"ONBOARD_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"ONBOARD_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"ONBOARD_REDIS_SKIP_TLS_VERIFY"`
}

// OTPConfig holds the one-time-password challenge policy.
type OTPConfig struct {
	TTLMinMinutes int  `json:"ttl_min_minutes" envconfig:"ONBOARD_OTP_TTL_MIN_MINUTES"`
	TTLMaxMinutes int  `json:"ttl_max_minutes" envconfig:"ONBOARD_OTP_TTL_MAX_MINUTES"`
	MaxAttempts   int  `json:"max_attempts" envconfig:"ONBOARD_OTP_MAX_ATTEMPTS"`
	ExposeCode    bool `json:"expose_code" envconfig:"ONBOARD_OTP_EXPOSE_CODE"`
}

// VerificationConfig holds scoring policy for the simulated external checks.
// The thresholds and pass rates are business policy, not invariants, so they
// live in config with demo defaults.
type VerificationConfig struct {
	AcceptThreshold   int     `json:"accept_threshold" envconfig:"ONBOARD_VERIFICATION_ACCEPT_THRESHOLD"`
	ReviewThreshold   int     `json:"review_threshold" envconfig:"ONBOARD_VERIFICATION_REVIEW_THRESHOLD"`
	IssuerPassRate    float64 `json:"issuer_pass_rate" envconfig:"ONBOARD_VERIFICATION_ISSUER_PASS_RATE"`
	TamperPassRate    float64 `json:"tamper_pass_rate" envconfig:"ONBOARD_VERIFICATION_TAMPER_PASS_RATE"`
	ExpiryPassRate    float64 `json:"expiry_pass_rate" envconfig:"ONBOARD_VERIFICATION_EXPIRY_PASS_RATE"`
	FacePassRate      float64 `json:"face_pass_rate" envconfig:"ONBOARD_VERIFICATION_FACE_PASS_RATE"`
	TerritoryPassRate float64 `json:"territory_pass_rate" envconfig:"ONBOARD_VERIFICATION_TERRITORY_PASS_RATE"`
}

type QueueConfig struct {
	WebhookQueue       string `json:"webhook_queue" envconfig:"ONBOARD_QUEUE_WEBHOOK"`
	CafGenerationQueue string `json:"caf_generation_queue" envconfig:"ONBOARD_QUEUE_CAF_GENERATION"`
	NumberOfQueues     int    `json:"number_of_queues" envconfig:"ONBOARD_QUEUE_NUMBER_OF_QUEUES"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"ONBOARD_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"ONBOARD_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"ONBOARD_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string             `json:"project_name" envconfig:"ONBOARD_PROJECT_NAME"`
	DocumentDir  string             `json:"document_dir" envconfig:"ONBOARD_DOCUMENT_DIR"`
	Server       ServerConfig       `json:"server"`
	DataSource   DataSourceConfig   `json:"data_source"`
	Redis        RedisConfig        `json:"redis"`
	OTP          OTPConfig          `json:"otp"`
	Verification VerificationConfig `json:"verification"`
	Queue        QueueConfig        `json:"queue"`
	Notification Notification       `json:"notification"`
	RateLimit    RateLimitConfig    `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("onboard", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called onboard.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Onboard Server"
	}

	if cnf.DataSource.Driver == "" {
		cnf.DataSource.Driver = DriverMemory
	}
	if cnf.DataSource.Driver != DriverMemory && cnf.DataSource.Driver != DriverPostgres {
		return errors.New("data source driver must be one of: memory, postgres")
	}
	if cnf.DataSource.Driver == DriverPostgres && cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's required for the postgres driver.")
		return errors.New("data source DNS is required for the postgres driver")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.DocumentDir == "" {
		cnf.DocumentDir = os.TempDir()
	}

	cnf.OTP.applyDefaults()
	cnf.Verification.applyDefaults()

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
	if cnf.Queue.CafGenerationQueue == "" {
		cnf.Queue.CafGenerationQueue = "new:caf"
	}
	if cnf.Queue.NumberOfQueues == 0 {
		cnf.Queue.NumberOfQueues = 20
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

func (o *OTPConfig) applyDefaults() {
	if o.TTLMinMinutes == 0 {
		o.TTLMinMinutes = 5
	}
	if o.TTLMaxMinutes == 0 {
		o.TTLMaxMinutes = 10
	}
	if o.TTLMaxMinutes < o.TTLMinMinutes {
		o.TTLMaxMinutes = o.TTLMinMinutes
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 3
	}
}

func (v *VerificationConfig) applyDefaults() {
	if v.AcceptThreshold == 0 {
		v.AcceptThreshold = 90
	}
	if v.ReviewThreshold == 0 {
		v.ReviewThreshold = 70
	}
	if v.IssuerPassRate == 0 {
		v.IssuerPassRate = 0.90
	}
	if v.TamperPassRate == 0 {
		v.TamperPassRate = 0.95
	}
	if v.ExpiryPassRate == 0 {
		v.ExpiryPassRate = 0.95
	}
	if v.FacePassRate == 0 {
		v.FacePassRate = 0.85
	}
	if v.TerritoryPassRate == 0 {
		v.TerritoryPassRate = 0.90
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.OTP.applyDefaults()
	mockConfig.Verification.applyDefaults()
	if mockConfig.Queue.WebhookQueue == "" {
		mockConfig.Queue.WebhookQueue = "new:webhook"
	}
	if mockConfig.Queue.CafGenerationQueue == "" {
		mockConfig.Queue.CafGenerationQueue = "new:caf"
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
