package verification

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/model"
)

// PlanCatalog lists the postpaid plans offered during a prepaid-to-postpaid
// conversion and answers eligibility queries for the number being converted.
type PlanCatalog struct {
	plans    []model.Plan
	outcomes OutcomePolicy
}

func NewPlanCatalog(outcomes OutcomePolicy) *PlanCatalog {
	return &PlanCatalog{
		outcomes: outcomes,
		plans: []model.Plan{
			{
				PlanID:       "plan_postpaid_399",
				Name:         "Postpaid 399",
				MonthlyPrice: decimal.NewFromInt(399),
				DataLimitGB:  40,
				SMSPerDay:    100,
				Benefits:     []string{"Unlimited calls", "Data rollover up to 200GB"},
			},
			{
				PlanID:       "plan_postpaid_599",
				Name:         "Postpaid 599",
				MonthlyPrice: decimal.NewFromInt(599),
				DataLimitGB:  75,
				SMSPerDay:    100,
				Benefits:     []string{"Unlimited calls", "Data rollover up to 200GB", "One streaming subscription"},
			},
			{
				PlanID:       "plan_postpaid_999",
				Name:         "Postpaid Family 999",
				MonthlyPrice: decimal.NewFromInt(999),
				DataLimitGB:  150,
				SMSPerDay:    100,
				Benefits:     []string{"Unlimited calls", "3 add-on connections", "Two streaming subscriptions"},
			},
		},
	}
}

// Plans returns the catalog in display order.
func (c *PlanCatalog) Plans(_ context.Context) []model.Plan {
	out := make([]model.Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Plan looks up a single plan by id.
func (c *PlanCatalog) Plan(_ context.Context, planID string) (*model.Plan, error) {
	for i := range c.plans {
		if c.plans[i].PlanID == planID {
			plan := c.plans[i]
			return &plan, nil
		}
	}
	return nil, apierror.NewAPIError(apierror.ErrNotFound, "plan not found", planID)
}

// CheckEligibility decides whether a prepaid number can convert to postpaid.
// Numbers with too little tenure on the network are turned away; the tenure
// probe is drawn through the outcome policy.
func (c *PlanCatalog) CheckEligibility(_ context.Context, mobile string) (*model.Eligibility, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "mobile number is required", nil)
	}

	if !c.outcomes.Draw(0.85) {
		return &model.Eligibility{
			Mobile:   mobile,
			Eligible: false,
			Reason:   "number has less than 90 days tenure on the network",
		}, nil
	}
	return &model.Eligibility{Mobile: mobile, Eligible: true}, nil
}
