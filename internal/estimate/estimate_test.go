package estimate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neeklo-backend/internal/catalog"
)

func pct(v float64) *float64 { return &v }
func days(v int) *int        { return &v }

var testQuestions = []catalog.Question{
	{ID: "design", Type: catalog.QuestionSingle, Options: []catalog.Option{
		{ID: "template", Label: "Шаблон"},
		{ID: "custom", Label: "Индивидуальный", PriceModifier: pct(25), TimeModifier: days(5)},
	}},
	{ID: "integrations", Type: catalog.QuestionMulti, Options: []catalog.Option{
		{ID: "crm", Label: "CRM", PriceModifier: pct(10), TimeModifier: days(3)},
		{ID: "payment", Label: "Оплата", PriceModifier: pct(15)},
	}},
	{ID: "urgency", Type: catalog.QuestionSingle, Options: []catalog.Option{
		{ID: "express", Label: "Экспресс", PriceModifier: pct(40), TimeModifier: days(-10)},
		{ID: "rush", Label: "Очень срочно", TimeModifier: days(-20)},
	}},
	{ID: "goal", Type: catalog.QuestionText},
}

func corporate() catalog.Package {
	return catalog.Package{
		ID:       "corporate",
		Price:    catalog.Money{Amount: 65000, Currency: "RUB"},
		Timeline: catalog.Timeline{Days: 14, MaxDays: 14},
	}
}

func TestComputeAppliesSummedPercentOnce(t *testing.T) {
	est := Compute(corporate(), testQuestions, AnswerSet{
		"design":       Single("custom"),
		"integrations": Multi(),
		"goal":         Single("custom"),
	})
	assert.Equal(t, int64(65000), est.Base)
	assert.Equal(t, int64(81250), est.Total)
	assert.Equal(t, 19, est.Days)
	require.Len(t, est.Modifiers, 1)
	assert.Equal(t, Modifier{QuestionID: "design", OptionID: "custom", Label: "Индивидуальный", Percent: "+25%", Days: 5}, est.Modifiers[0])
}

func TestComputeRoundsScaledBase(t *testing.T) {
	pkg := catalog.Package{ID: "mini", Price: catalog.Money{Amount: 50, Currency: "RUB"}}
	est := Compute(pkg, testQuestions, AnswerSet{"integrations": Multi("payment")})
	// 50 * (1 + 15/100) is just below 57.5 in floating point.
	assert.Equal(t, int64(57), est.Total)
}

func TestComputeMultiSelectAndUnknownIDs(t *testing.T) {
	est := Compute(corporate(), testQuestions, AnswerSet{
		"integrations": Multi("crm", "payment", "ghost"),
		"missing":      Single("custom"),
	})
	assert.Equal(t, 25.0, est.PercentSum)
	assert.Equal(t, int64(81250), est.Total)
	assert.Equal(t, 17, est.Days)
	assert.Len(t, est.Modifiers, 2)
}

func TestComputeDaysFloor(t *testing.T) {
	est := Compute(corporate(), testQuestions, AnswerSet{"urgency": Single("rush")})
	assert.Equal(t, -20, est.DaySum)
	assert.Equal(t, MinDays, est.Days)
	assert.Equal(t, int64(65000), est.Total)
}

func TestComputeFromLabel(t *testing.T) {
	est := ComputeFromLabel("от 65 000 ₽", []string{"Дизайн", "14 дней"}, testQuestions, AnswerSet{"design": Single("custom")})
	assert.Equal(t, int64(81250), est.Total)
	assert.Equal(t, 19, est.Days)

	est = ComputeFromLabel("по запросу", nil, testQuestions, AnswerSet{"design": Single("custom")})
	assert.Equal(t, int64(0), est.Base)
	assert.Equal(t, int64(0), est.Total)
	assert.Equal(t, catalog.DefaultTimelineDays+5, est.Days)
}

// randomAnswers picks a random subset of options for each question that has them.
func randomAnswers(r *rand.Rand, questions []catalog.Question) AnswerSet {
	out := AnswerSet{}
	for _, q := range questions {
		if len(q.Options) == 0 || r.Intn(3) == 0 {
			continue
		}
		switch q.Type {
		case catalog.QuestionSingle:
			out[q.ID] = Single(q.Options[r.Intn(len(q.Options))].ID)
		case catalog.QuestionMulti:
			var ids []string
			for _, o := range q.Options {
				if r.Intn(2) == 0 {
					ids = append(ids, o.ID)
				}
			}
			out[q.ID] = Multi(ids...)
		}
	}
	return out
}

func TestComputeProperties(t *testing.T) {
	c, err := catalog.Default(catalog.ModeStrict)
	require.NoError(t, err)
	r := rand.New(rand.NewSource(7))

	for _, p := range c.Products() {
		for _, pkg := range p.Packages {
			for i := 0; i < 200; i++ {
				answers := randomAnswers(r, p.Questions)
				est := Compute(pkg, p.Questions, answers)
				if est.Days < MinDays {
					t.Fatalf("%s/%s: days %d below floor", p.Slug, pkg.ID, est.Days)
				}
				if est.BaseDays+est.DaySum < MinDays && est.Days != MinDays {
					t.Fatalf("%s/%s: expected floor, got %d", p.Slug, pkg.ID, est.Days)
				}

				// Adding a positive price option to a multi question never lowers the total.
				for _, q := range p.Questions {
					if q.Type != catalog.QuestionMulti {
						continue
					}
					for _, o := range q.Options {
						if o.PriceModifier == nil || *o.PriceModifier <= 0 {
							continue
						}
						more := answers.Clone()
						more[q.ID] = Multi(append(append([]string(nil), answers[q.ID].Values()...), o.ID)...)
						if got := Compute(pkg, p.Questions, more); got.Total < est.Total {
							t.Fatalf("%s/%s: adding %s lowered total %d -> %d", p.Slug, pkg.ID, o.ID, est.Total, got.Total)
						}
					}
				}
			}
		}
	}
}
