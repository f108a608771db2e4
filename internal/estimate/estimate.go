// Package estimate computes a price and timeline for a package given the selected
// configurator options. Price modifiers are percentages of the base price and time
// modifiers are day deltas; both are summed across every selected option before being
// applied once.
package estimate

import (
	"math"

	"neeklo-backend/internal/catalog"
)

// MinDays is the floor for any computed timeline.
const MinDays = 5

// Modifier is one applied option.
type Modifier struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
	Label      string `json:"label"`
	Percent    string `json:"percent,omitempty"`
	Days       int    `json:"days,omitempty"`
}

// Estimate is the computed price and timeline.
type Estimate struct {
	Base       int64      `json:"base"`
	Total      int64      `json:"total"`
	Currency   string     `json:"currency"`
	PercentSum float64    `json:"percentSum"`
	Modifiers  []Modifier `json:"modifiers"`
	BaseDays   int        `json:"baseDays"`
	DaySum     int        `json:"daySum"`
	Days       int        `json:"days"`
}

// TotalLabel is the formatted total price.
func (e Estimate) TotalLabel() string {
	return FormatPrice(catalog.Money{Amount: e.Total, Currency: e.Currency})
}

// DaysLabel is the formatted timeline.
func (e Estimate) DaysLabel() string {
	return FormatDays(e.Days)
}

// Compute applies the selected options of questions to the package's parsed price and timeline.
// Questions without options and unknown option ids are ignored.
func Compute(pkg catalog.Package, questions []catalog.Question, answers AnswerSet) Estimate {
	return apply(pkg.Price, pkg.Timeline.Days, questions, answers)
}

// ComputeFromLabel parses the display price and features on the fly. An unparseable
// price degrades to 0 and a missing day count to the default timeline.
func ComputeFromLabel(priceLabel string, features []string, questions []catalog.Question, answers AnswerSet) Estimate {
	price, err := catalog.ParsePrice(priceLabel)
	if err != nil {
		price.Amount = 0
	}
	timeline, _ := catalog.ParseTimeline(features)
	return apply(price, timeline.Days, questions, answers)
}

func apply(price catalog.Money, baseDays int, questions []catalog.Question, answers AnswerSet) Estimate {
	est := Estimate{
		Base:      price.Amount,
		Currency:  price.Currency,
		BaseDays:  baseDays,
		Modifiers: []Modifier{},
	}
	for _, q := range questions {
		if len(q.Options) == 0 {
			continue
		}
		sel, ok := answers[q.ID]
		if !ok {
			continue
		}
		for _, id := range sel.Values() {
			opt, ok := q.Option(id)
			if !ok {
				continue
			}
			if opt.PriceModifier == nil && opt.TimeModifier == nil {
				continue
			}
			m := Modifier{QuestionID: q.ID, OptionID: opt.ID, Label: opt.Label}
			if opt.PriceModifier != nil {
				est.PercentSum += *opt.PriceModifier
				m.Percent = FormatPercent(*opt.PriceModifier)
			}
			if opt.TimeModifier != nil {
				est.DaySum += *opt.TimeModifier
				m.Days = *opt.TimeModifier
			}
			est.Modifiers = append(est.Modifiers, m)
		}
	}

	total := math.Round(float64(est.Base) * (1 + est.PercentSum/100))
	if total < 0 {
		total = 0
	}
	est.Total = int64(total)
	est.Days = max(MinDays, est.BaseDays+est.DaySum)
	return est
}
