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

package model

import "github.com/shopspring/decimal"

// Plan is a postpaid plan offered during an OTP-based conversion flow.
type Plan struct {
	PlanID       string          `json:"plan_id"`
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	DataLimitGB  int             `json:"data_limit_gb"`
	SMSPerDay    int             `json:"sms_per_day"`
	Benefits     []string        `json:"benefits"`
}

// Eligibility is the outcome of a mobile-number eligibility check.
type Eligibility struct {
	Mobile   string `json:"mobile"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}
