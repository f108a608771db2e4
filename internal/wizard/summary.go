package wizard

import (
	"fmt"
	"strings"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
)

// Summary renders the brief: product, package, every answer by label and the estimate.
func (s Session) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Продукт: %s\n", s.Product.Name)
	if pkg, ok := s.Product.Package(s.Package); ok {
		fmt.Fprintf(&b, "Пакет: %s (%s)\n", pkg.Name, pkg.PriceLabel)
	}
	for _, q := range s.Product.Questions {
		sel, ok := s.Answers[q.ID]
		if !ok || sel.Empty() {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", q.Title, answerLabel(q, sel))
	}
	if est, ok := s.Estimate(); ok {
		fmt.Fprintf(&b, "Оценка: %s, %s\n", est.TotalLabel(), est.DaysLabel())
		if len(est.Modifiers) > 0 {
			parts := make([]string, 0, len(est.Modifiers))
			for _, m := range est.Modifiers {
				if m.Percent != "" {
					parts = append(parts, m.Label+" "+m.Percent)
				} else {
					parts = append(parts, m.Label)
				}
			}
			fmt.Fprintf(&b, "Опции: %s\n", strings.Join(parts, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func answerLabel(q catalog.Question, sel estimate.Selection) string {
	if !q.Type.HasOptions() {
		return sel.Text()
	}
	labels := make([]string, 0, len(sel.Values()))
	for _, id := range sel.Values() {
		if opt, ok := q.Option(id); ok {
			labels = append(labels, opt.Label)
		}
	}
	return strings.Join(labels, ", ")
}
