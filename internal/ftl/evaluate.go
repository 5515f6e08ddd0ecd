package ftl

import (
	"github.com/crewdesk/crewdesk/internal/domain"
)

// Tier is the severity of a total relative to its limit
type Tier string

const (
	TierNominal     Tier = "nominal"
	TierApproaching Tier = "approaching"
	TierExceeded    Tier = "exceeded"
)

var tierRank = map[Tier]int{
	TierNominal:     0,
	TierApproaching: 1,
	TierExceeded:    2,
}

// Worse returns the more severe of t and o
func (t Tier) Worse(o Tier) Tier {
	if tierRank[o] > tierRank[t] {
		return o
	}
	return t
}

// Evaluation is a total measured against one limit.
// Percentage is never clamped; use Progress for bar rendering.
type Evaluation struct {
	Total      float64 `json:"total"`
	MaxHours   float64 `json:"max_hours"`
	Percentage float64 `json:"percentage"`
	Tier       Tier    `json:"tier"`
}

// Progress returns the percentage clamped to [0, 100]
func (e Evaluation) Progress() float64 {
	return clampPercent(e.Percentage)
}

// Evaluate compares total against limit using the default 80/100 policy,
// or the limit's own thresholds when it carries them.
func Evaluate(total float64, limit domain.LimitDefinition) Evaluation {
	thresholds := domain.DefaultThresholds
	if limit.Thresholds != nil {
		thresholds = *limit.Thresholds
	}
	return EvaluateWith(total, limit, thresholds)
}

// EvaluateWith compares total against limit using the given thresholds.
// A non-positive maximum cannot come out of a LimitTable; if one is passed
// anyway the result is exceeded with a zero percentage.
func EvaluateWith(total float64, limit domain.LimitDefinition, thresholds domain.TierThresholds) Evaluation {
	eval := Evaluation{Total: total, MaxHours: limit.MaxHours}
	if limit.MaxHours <= 0 {
		eval.Tier = TierExceeded
		return eval
	}

	eval.Percentage = total / limit.MaxHours * 100
	eval.Tier = Classify(eval.Percentage, thresholds)
	return eval
}

// Classify maps a percentage-of-limit to its tier
func Classify(percentage float64, thresholds domain.TierThresholds) Tier {
	switch {
	case percentage >= thresholds.Exceeded:
		return TierExceeded
	case percentage >= thresholds.Approaching:
		return TierApproaching
	default:
		return TierNominal
	}
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
