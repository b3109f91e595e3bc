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

package onboard

import (
	"time"

	"github.com/telsim/onboard/config"
	"github.com/telsim/onboard/database"
	"github.com/telsim/onboard/internal/blobstore"
	"github.com/telsim/onboard/verification"
)

// Onboard is the main service struct. It owns the persistence layer, the
// task queue, the staged-document store and the simulated verification
// providers, and exposes the application lifecycle on top of them.
type Onboard struct {
	queue      *Queue
	datasource database.IDataSource
	blobs      *blobstore.Store
	otp        *verification.OTPService
	registry   *verification.IdentityRegistry
	authority  *verification.DocumentAuthority
	checks     *verification.CheckRunner
	plans      *verification.PlanCatalog
}

// NewOnboard initializes a new instance of Onboard with the provided database datasource.
func NewOnboard(db database.IDataSource) (*Onboard, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	blobs, err := blobstore.New(configuration.DocumentDir)
	if err != nil {
		return nil, err
	}

	outcomes := verification.NewRandomOutcomes(time.Now().UnixNano())
	otp := verification.NewOTPService(outcomes)
	checks := verification.NewCheckRunner(outcomes)

	newOnboard := &Onboard{
		queue:      NewQueue(configuration),
		datasource: db,
		blobs:      blobs,
		otp:        otp,
		registry:   verification.NewIdentityRegistry(otp, outcomes),
		authority:  verification.NewDocumentAuthority(checks),
		checks:     checks,
		plans:      verification.NewPlanCatalog(outcomes),
	}
	return newOnboard, nil
}

// OTP returns the one-time-password service.
func (o *Onboard) OTP() *verification.OTPService { return o.otp }

// Registry returns the identity registry client.
func (o *Onboard) Registry() *verification.IdentityRegistry { return o.registry }

// Authority returns the document repository client.
func (o *Onboard) Authority() *verification.DocumentAuthority { return o.authority }

// Checks returns the scored check runner.
func (o *Onboard) Checks() *verification.CheckRunner { return o.checks }

// Plans returns the postpaid plan catalog.
func (o *Onboard) Plans() *verification.PlanCatalog { return o.plans }

// Blobs returns the staged-document store.
func (o *Onboard) Blobs() *blobstore.Store { return o.blobs }
