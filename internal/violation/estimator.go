package violation

import (
	"curbside-service/internal/domain/curb"
)

// highRiskThresholdUSD is the max-fine level at or above which a violation
// counts as high risk in summaries.
const highRiskThresholdUSD = 115

// Estimate prices one rule against the catalog. It returns nil for metered
// rules (a payment reminder, not a ticket), for rules that currently permit
// parking, and for types with no catalog band.
func (c *Catalog) Estimate(rule curb.Rule) *curb.ViolationEstimate {
	if rule.Type == curb.RuleMetered {
		return nil
	}
	if rule.Valid {
		return nil
	}

	band, ok := c.Bands[string(rule.Type)]
	if !ok {
		return nil
	}

	fineSource := band.FineSource
	if fineSource == "" {
		fineSource = c.Source
	}
	lastUpdated := band.LastUpdated
	if lastUpdated == "" {
		lastUpdated = c.LastUpdated
	}

	return &curb.ViolationEstimate{
		ViolationCode: band.ViolationCode,
		MinFineUSD:    band.MinFineUSD,
		MaxFineUSD:    band.MaxFineUSD,
		Confidence:    band.Confidence,
		Note:          band.Note,
		FineSource:    fineSource,
		LastUpdated:   lastUpdated,
	}
}

// Attach enriches each rule in place with its violation estimate, the single
// mutation a rule sees after classification.
func (c *Catalog) Attach(rules []curb.Rule) {
	for i := range rules {
		rules[i].ViolationEstimate = c.Estimate(rules[i])
	}
}

// Summarize aggregates the attached estimates of a rule list. Rules without
// an estimate are ignored; an empty result is the all-zero summary.
func Summarize(rules []curb.Rule) curb.ViolationSummary {
	var summary curb.ViolationSummary
	for _, rule := range rules {
		e := rule.ViolationEstimate
		if e == nil {
			continue
		}
		summary.EstimatedTotalMinUSD += e.MinFineUSD
		summary.EstimatedTotalMaxUSD += e.MaxFineUSD
		if e.MaxFineUSD > summary.HighestSingleMaxUSD {
			summary.HighestSingleMaxUSD = e.MaxFineUSD
		}
		if e.MaxFineUSD >= highRiskThresholdUSD {
			summary.HighRiskViolations++
		}
	}
	return summary
}
