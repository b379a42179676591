package screening

import (
	"fmt"
	"math"
	"strings"

	"screening-service/internal/domain"
)

// ThresholdUnit tells how threshold values are expressed.
type ThresholdUnit string

const (
	// UnitPercent thresholds are percentages of the condition's maximum score.
	UnitPercent ThresholdUnit = "percent"
	// UnitPoints thresholds are in the same integer scale as the total.
	UnitPoints ThresholdUnit = "points"
)

// Thresholds are the lower bounds of the Mild, Moderate and High tiers.
type Thresholds struct {
	Low      int           `yaml:"low"`
	Moderate int           `yaml:"moderate"`
	High     int           `yaml:"high"`
	Unit     ThresholdUnit `yaml:"unit"`
}

// Resolve converts the thresholds to points for a given maximum. Percent values are rounded
// up so a total reaching the threshold is always at or above the configured percentage.
func (t Thresholds) Resolve(maxPossible int) (low, moderate, high int) {
	if t.Unit != UnitPercent {
		return t.Low, t.Moderate, t.High
	}
	return ceilPercent(maxPossible, t.Low), ceilPercent(maxPossible, t.Moderate), ceilPercent(maxPossible, t.High)
}

func (t Thresholds) validate() error {
	switch t.Unit {
	case UnitPercent, UnitPoints:
	default:
		return fmt.Errorf("%w: unit %q", domain.ErrInvalidThresholds, t.Unit)
	}
	if t.Low < 0 || t.Low > t.Moderate || t.Moderate > t.High {
		return fmt.Errorf("%w: want 0 <= low <= moderate <= high, got %d/%d/%d", domain.ErrInvalidThresholds, t.Low, t.Moderate, t.High)
	}
	if t.Unit == UnitPercent && t.High > 100 {
		return fmt.Errorf("%w: percent threshold %d above 100", domain.ErrInvalidThresholds, t.High)
	}
	return nil
}

func ceilPercent(maxPossible, pct int) int {
	return (maxPossible*pct + 99) / 100
}

// PercentThresholds builds percent-of-max thresholds.
func PercentThresholds(low, moderate, high int) Thresholds {
	return Thresholds{Low: low, Moderate: moderate, High: high, Unit: UnitPercent}
}

// DefaultThresholds is the stock 25/50/75 percent calibration.
func DefaultThresholds() Thresholds {
	return PercentThresholds(25, 50, 75)
}

// PointThresholds builds thresholds in raw score points.
func PointThresholds(low, moderate, high int) Thresholds {
	return Thresholds{Low: low, Moderate: moderate, High: high, Unit: UnitPoints}
}

// TierText is the presentation text attached to a tier. "{condition}" in Message or
// Recommendation is replaced with the condition name.
type TierText struct {
	Severity       string `yaml:"severity"`
	Message        string `yaml:"message"`
	Recommendation string `yaml:"recommendation"`
}

// InterpreterConfig holds the recalibration knobs of the interpretation engine.
type InterpreterConfig struct {
	Thresholds     map[domain.Condition]Thresholds
	Texts          map[domain.Tier]TierText
	ConditionTexts map[domain.Condition]map[domain.Tier]TierText
}

// DefaultInterpreterConfig returns 25/50/75 percent thresholds for the built-in conditions.
func DefaultInterpreterConfig() InterpreterConfig {
	thresholds := make(map[domain.Condition]Thresholds)
	for _, c := range domain.BuiltinConditions() {
		thresholds[c] = DefaultThresholds()
	}
	return InterpreterConfig{
		Thresholds: thresholds,
		Texts:      DefaultTierTexts(),
	}
}

// DefaultTierTexts is the stock message table.
func DefaultTierTexts() map[domain.Tier]TierText {
	return map[domain.Tier]TierText{
		domain.TierLow: {
			Severity:       "minimal",
			Message:        "Based on the screening responses, your child shows minimal indicators for {condition}.",
			Recommendation: "No immediate concerns based on this screening. If you have ongoing concerns about your child's development, consider consulting a healthcare professional.",
		},
		domain.TierMild: {
			Severity:       "mild",
			Message:        "Based on the screening responses, your child shows some indicators that may be associated with {condition}; monitor development.",
			Recommendation: "Consider monitoring your child's development and discussing these observations with a pediatrician or developmental specialist.",
		},
		domain.TierModerate: {
			Severity:       "moderate",
			Message:        "Based on the screening responses, your child shows several indicators commonly associated with {condition}; professional evaluation recommended.",
			Recommendation: "We recommend scheduling a consultation with a qualified healthcare professional for a comprehensive evaluation. Early intervention can make a significant difference.",
		},
		domain.TierHigh: {
			Severity:       "significant",
			Message:        "Based on the screening responses, your child shows multiple indicators strongly associated with {condition}; professional evaluation strongly recommended.",
			Recommendation: "We strongly recommend seeking a professional evaluation from a qualified healthcare provider or developmental specialist as soon as possible.",
		},
	}
}

// Interpreter maps condition scores to tiers. It is immutable after construction.
type Interpreter struct {
	thresholds     map[domain.Condition]Thresholds
	texts          map[domain.Tier]TierText
	conditionTexts map[domain.Condition]map[domain.Tier]TierText
}

func NewInterpreter(cfg InterpreterConfig) (*Interpreter, error) {
	thresholds := make(map[domain.Condition]Thresholds, len(cfg.Thresholds))
	for c, t := range cfg.Thresholds {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		thresholds[c] = t
	}

	texts := DefaultTierTexts()
	for tier, text := range cfg.Texts {
		texts[tier] = text
	}
	conditionTexts := make(map[domain.Condition]map[domain.Tier]TierText, len(cfg.ConditionTexts))
	for c, byTier := range cfg.ConditionTexts {
		copied := make(map[domain.Tier]TierText, len(byTier))
		for tier, text := range byTier {
			copied[tier] = text
		}
		conditionTexts[c] = copied
	}

	return &Interpreter{thresholds: thresholds, texts: texts, conditionTexts: conditionTexts}, nil
}

// Tier classifies a total. The comparison is on integers; a total equal to a threshold
// belongs to the higher tier. The maximum must be positive and the total within it.
func (i *Interpreter) Tier(condition domain.Condition, total, maxPossible int) (domain.Tier, error) {
	t, ok := i.thresholds[condition]
	if !ok {
		return domain.TierLow, &domain.UnknownConditionError{Condition: condition}
	}
	if maxPossible <= 0 || total < 0 || total > maxPossible {
		return domain.TierLow, &domain.ScoreOutOfRangeError{Condition: condition, Total: total, MaxPossible: maxPossible}
	}
	low, moderate, high := t.Resolve(maxPossible)
	switch {
	case total < low:
		return domain.TierLow, nil
	case total < moderate:
		return domain.TierMild, nil
	case total < high:
		return domain.TierModerate, nil
	default:
		return domain.TierHigh, nil
	}
}

// Interpret classifies one condition score and attaches its presentation text.
func (i *Interpreter) Interpret(cs domain.ConditionScore) (domain.Interpretation, error) {
	tier, err := i.Tier(cs.Condition, cs.Total, cs.MaxPossible)
	if err != nil {
		return domain.Interpretation{}, err
	}

	pct := float64(cs.Total) / float64(cs.MaxPossible) * 100
	text := i.text(cs.Condition, tier)
	return domain.Interpretation{
		Condition:         cs.Condition,
		Total:             cs.Total,
		MaxPossible:       cs.MaxPossible,
		Percentage:        pct,
		DisplayPercentage: int(math.Round(pct)),
		Tier:              tier,
		Severity:          text.Severity,
		Message:           fill(text.Message, cs.Condition),
		Recommendation:    fill(text.Recommendation, cs.Condition),
	}, nil
}

// InterpretAll interprets scores in order, stopping at the first unknown condition.
func (i *Interpreter) InterpretAll(scores []domain.ConditionScore) ([]domain.Interpretation, error) {
	out := make([]domain.Interpretation, 0, len(scores))
	for _, cs := range scores {
		in, err := i.Interpret(cs)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// Knows reports whether thresholds exist for the condition.
func (i *Interpreter) Knows(condition domain.Condition) bool {
	_, ok := i.thresholds[condition]
	return ok
}

func (i *Interpreter) text(condition domain.Condition, tier domain.Tier) TierText {
	if byTier, ok := i.conditionTexts[condition]; ok {
		if text, ok := byTier[tier]; ok {
			return text
		}
	}
	return i.texts[tier]
}

func fill(template string, condition domain.Condition) string {
	return strings.ReplaceAll(template, "{condition}", string(condition))
}
