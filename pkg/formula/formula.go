// Package formula implements the closed-form business indicators.
//
// Every function is pure. Callers are expected to validate their inputs
// beforehand; the only checks performed here are the ones needed to avoid
// dividing by zero or reading from an empty list.
package formula

import (
	"errors"
	"fmt"

	"github.com/iwvelando/metrics-calculator/pkg/constants"
)

var (
	// ErrDivisionByZero is returned when a formula's divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrEmptyInput is returned when a list-based statistic receives no values.
	ErrEmptyInput = errors.New("empty input")

	// ErrLengthMismatch is returned when paired sequences differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
)

func divide(op string, numerator, divisor float64) (float64, error) {
	if divisor == 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrDivisionByZero)
	}
	return numerator / divisor, nil
}

func percentage(op string, part, whole float64) (float64, error) {
	ratio, err := divide(op, part, whole)
	if err != nil {
		return 0, err
	}
	return ratio * constants.PercentageMultiplier, nil
}

// CPL returns the cost per lead.
func CPL(cost, leads float64) (float64, error) {
	return divide("cpl", cost, leads)
}

// ROI returns the return on investment as a percentage.
func ROI(revenue, cost float64) (float64, error) {
	return percentage("roi", revenue-cost, cost)
}

// LTV returns the customer lifetime value.
func LTV(avgRevenue, retentionTime, margin float64) float64 {
	return avgRevenue * retentionTime * margin
}

// CTR returns the click-through rate as a percentage.
func CTR(clicks, impressions float64) (float64, error) {
	return percentage("ctr", clicks, impressions)
}

// CAC returns the customer acquisition cost.
func CAC(salesCost, newCustomers float64) (float64, error) {
	return divide("cac", salesCost, newCustomers)
}

// NPS returns the net promoter score. The result is a plain difference, not a
// percentage.
func NPS(promoterScore, detractorScore float64) float64 {
	return promoterScore - detractorScore
}

// Churn returns the share of customers lost over a period as a percentage.
func Churn(lostCustomers, initialCustomers float64) (float64, error) {
	return percentage("churn", lostCustomers, initialCustomers)
}

// ConversionRate returns conversions over visits as a percentage.
func ConversionRate(conversions, visits float64) (float64, error) {
	return percentage("conversion rate", conversions, visits)
}

// GrowthRate returns the relative change from previous to current as a
// percentage.
func GrowthRate(current, previous float64) (float64, error) {
	return percentage("growth rate", current-previous, previous)
}

// PaybackPeriod returns how many periods of annualReturn it takes to recover
// initialInvestment.
func PaybackPeriod(initialInvestment, annualReturn float64) (float64, error) {
	return divide("payback period", initialInvestment, annualReturn)
}

// PurchaseFrequency returns the average number of purchases per client.
func PurchaseFrequency(totalPurchases, clients float64) (float64, error) {
	return divide("purchase frequency", totalPurchases, clients)
}

// AverageTicket returns the average revenue per client.
func AverageTicket(totalRevenue, clients float64) (float64, error) {
	return divide("average ticket", totalRevenue, clients)
}
