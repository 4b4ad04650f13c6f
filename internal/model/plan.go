package model

import (
	"math"
	"time"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanMonthly Plan = "monthly"
	PlanAnnual  Plan = "annual"
)

// PlanInfo is the public description of a plan. Price is in dollars.
type PlanInfo struct {
	Price    float64  `json:"price"`
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

var Plans = map[Plan]PlanInfo{
	PlanFree: {
		Price:    0.0,
		Name:     "Free Plan",
		Features: []string{"Basic wrestling techniques", "Beginner tutorials"},
	},
	PlanMonthly: {
		Price:    19.99,
		Name:     "Monthly Pro",
		Features: []string{"All basic techniques", "Secret techniques", "Advanced moves", "Priority support"},
	},
	PlanAnnual: {
		Price:    149.99,
		Name:     "Annual Pro",
		Features: []string{"All basic techniques", "Secret techniques", "Advanced moves", "Priority support", "2 months free"},
	},
}

// Paid reports whether p is one of the purchasable tiers.
func (p Plan) Paid() bool {
	return p == PlanMonthly || p == PlanAnnual
}

// Duration is how long one purchase of p keeps a subscription active.
func (p Plan) Duration() time.Duration {
	switch p {
	case PlanMonthly:
		return 30 * 24 * time.Hour
	case PlanAnnual:
		return 365 * 24 * time.Hour
	}
	return 0
}

// Price returns the catalog price of p in dollars.
func (p Plan) Price() float64 {
	return Plans[p].Price
}

// Cents converts a dollar amount to the smallest currency unit.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
