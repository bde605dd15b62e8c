// Package filter keeps the sellers whose trading preferences admit the caller.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hellodex/otcboard/model"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ThresholdKeys are checked in this order; the first failing one excludes the seller.
var ThresholdKeys = []string{
	model.ParamCompleteRateDay30,
	model.ParamOrderFinishNumberDay30,
}

// Thresholds holds the caller-supplied minimums that were present in the query.
type Thresholds map[string]int64

// ParseThresholds reads every threshold key present in params as an integer.
func ParseThresholds(params model.Params) (Thresholds, error) {
	th := Thresholds{}
	for _, key := range ThresholdKeys {
		if !params.Has(key) {
			continue
		}
		raw := strings.TrimSpace(params.First(key, ""))
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		th[key] = v
	}
	return th, nil
}

// Eligible reports whether seller passes every active constraint. A constraint is active
// when the caller supplied its threshold and the seller enforces the matching preference.
func (th Thresholds) Eligible(seller model.Seller) bool {
	prefs := seller.TradingPreferenceSet
	if prefs == nil {
		return true
	}
	for _, key := range ThresholdKeys {
		p, ok := th[key]
		if !ok {
			continue
		}
		value, enforced := prefs.Threshold(key)
		if !enforced {
			continue
		}
		if decimal.NewFromInt(p).GreaterThan(value.Truncate(0)) {
			return false
		}
	}
	return true
}

// FilterEligible returns the sellers that pass th, in their original order.
func FilterEligible(sellers []model.Seller, th Thresholds) []model.Seller {
	return lo.Filter(sellers, func(s model.Seller, _ int) bool {
		return th.Eligible(s)
	})
}
