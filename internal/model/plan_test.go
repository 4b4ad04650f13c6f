package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanPaid(t *testing.T) {
	assert.True(t, PlanMonthly.Paid())
	assert.True(t, PlanAnnual.Paid())
	assert.False(t, PlanFree.Paid())
	assert.False(t, Plan("lifetime").Paid())
}

func TestPlanDuration(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, PlanMonthly.Duration())
	assert.Equal(t, 365*24*time.Hour, PlanAnnual.Duration())
	assert.Zero(t, PlanFree.Duration())
}

func TestPlanPrice(t *testing.T) {
	assert.Equal(t, 19.99, PlanMonthly.Price())
	assert.Equal(t, 149.99, PlanAnnual.Price())
	assert.Equal(t, int64(1999), Cents(PlanMonthly.Price()))
	assert.Equal(t, int64(14999), Cents(PlanAnnual.Price()))
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}

func TestNewID(t *testing.T) {
	id := NewID("txn_")
	assert.Len(t, id, len("txn_")+12)
	assert.Regexp(t, `^txn_[0-9a-f]{12}$`, id)
	assert.NotEqual(t, id, NewID("txn_"))
}
