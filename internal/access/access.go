// Package access decides who may watch premium videos.
package access

import (
	"time"

	"ironhold/internal/apperr"
	"ironhold/internal/model"
)

// HasPremium reports whether user holds a paid plan that is still running at now.
func HasPremium(user *model.User, now time.Time) bool {
	return premiumErr(user, now) == nil
}

// Check returns nil when user may watch v at now, otherwise one of
// apperr.LoginRequired, apperr.SubscriptionRequired or apperr.SubscriptionExpired.
func Check(v *model.Video, user *model.User, now time.Time) error {
	if !v.IsPremium {
		return nil
	}
	return premiumErr(user, now)
}

func premiumErr(user *model.User, now time.Time) error {
	if user == nil {
		return apperr.LoginRequired
	}
	if !user.SubscriptionPlan.Paid() {
		return apperr.SubscriptionRequired
	}
	if user.SubscriptionExpires == nil || !user.SubscriptionExpires.After(now) {
		return apperr.SubscriptionExpired
	}
	return nil
}
