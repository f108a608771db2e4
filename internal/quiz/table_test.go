package quiz

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"neeklo-backend/internal/catalog"
)

func TestRecommendExamples(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		slug    string
		title   string
	}{
		{name: "site leads", answers: Answers{What: "site", Why: "leads"}, slug: "website", title: "Сайт для заявок"},
		{name: "site sales", answers: Answers{What: "site", Why: "sales"}, slug: "online-store", title: "Интернет-магазин"},
		{name: "site default", answers: Answers{What: "site", Why: "automation"}, slug: "website", title: "Сайт под ключ"},
		{name: "site no why", answers: Answers{What: "site"}, slug: "website", title: "Сайт под ключ"},
		{name: "bot automation", answers: Answers{What: "bot", Why: "automation"}, slug: "ai-agent", title: "AI-ассистент"},
		{name: "bot default", answers: Answers{What: "bot", Why: "image"}, slug: "telegram-bot", title: "Telegram-бот"},
		{name: "video default", answers: Answers{What: "video", Why: "leads"}, slug: "ai-video", title: "AI-видео"},
		{name: "unknown", answers: Answers{What: "unknown", Why: "leads", When: "asap"}, slug: "ai-agent", title: "AI-ассистент"},
		{name: "unrecognized what", answers: Answers{What: "game"}, slug: "ai-agent", title: "AI-ассистент"},
		{name: "normalized", answers: Answers{What: "  SITE ", Why: "Leads"}, slug: "website", title: "Сайт для заявок"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.answers)
			if got.Slug != tt.slug || got.Title != tt.title {
				t.Fatalf("Recommend(%+v) = %s %q, want %s %q", tt.answers, got.Slug, got.Title, tt.slug, tt.title)
			}
		})
	}
}

func TestRecommendIsTotalAndIdempotent(t *testing.T) {
	whats := []string{"site", "bot", "video", "unknown", "other", ""}
	whys := []string{"leads", "sales", "image", "automation", "nonsense", ""}
	whens := []string{"asap", "later", ""}
	c, err := catalog.Default(catalog.ModeStrict)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, what := range whats {
		for _, why := range whys {
			for _, when := range whens {
				a := Answers{What: what, Why: why, When: when}
				first := Recommend(a)
				if first.Slug == "" || first.Title == "" {
					t.Fatalf("empty result for %+v", a)
				}
				if !c.Has(first.Slug) {
					t.Fatalf("result slug %q not in catalog", first.Slug)
				}
				if diff := cmp.Diff(first, Recommend(a)); diff != "" {
					t.Fatalf("Recommend not idempotent for %+v (-first +second):\n%s", a, diff)
				}
			}
		}
	}
}

func TestContactLinkCarriesProductAndUrgency(t *testing.T) {
	res := Recommend(Answers{What: "site", Why: "leads", When: "ASAP"})
	u, err := url.Parse(res.ContactLink)
	if err != nil {
		t.Fatalf("parse contact link: %v", err)
	}
	if u.Path != ContactPath {
		t.Fatalf("unexpected path %q", u.Path)
	}
	if u.Query().Get("product") != "website" || u.Query().Get("when") != "asap" {
		t.Fatalf("unexpected query %q", u.RawQuery)
	}

	res = Recommend(Answers{What: "bot"})
	if strings.Contains(res.ContactLink, "when=") {
		t.Fatalf("expected no when param, got %q", res.ContactLink)
	}
}

func TestDefaultTableValidatesAgainstCatalog(t *testing.T) {
	c, err := catalog.Default(catalog.ModeStrict)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	table := DefaultTable()
	if err := table.Validate(c); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	rules := table.Rules()
	if len(rules) == 0 {
		t.Fatal("expected rules")
	}
	seen := map[Key]bool{}
	for _, k := range rules {
		if seen[k] {
			t.Fatalf("duplicate rule %+v", k)
		}
		seen[k] = true
		res := table.Recommend(Answers{What: k.What, Why: k.Why})
		if !c.Has(res.Slug) {
			t.Fatalf("rule %+v recommends unknown product %q", k, res.Slug)
		}
	}
}

func TestValidateReportsMissingDefaultAndProduct(t *testing.T) {
	table, err := LoadTable([]byte(`
steps:
  what:
    - {id: site, label: Сайт}
    - {id: app, label: Приложение}
fallback: {slug: ai-agent, title: AI}
rules:
  - what: site
    default: {slug: website, title: Сайт}
    why:
      sales: {slug: shop, title: Магазин}
`))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	c := catalog.New([]catalog.Product{{Slug: "website"}, {Slug: "ai-agent"}})
	err = table.Validate(c)
	if !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected ErrInvalidTable, got %v", err)
	}
	for _, want := range []string{"what=app: no default rule", `unknown product "shop"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadTableRejectsDuplicateWhat(t *testing.T) {
	_, err := LoadTable([]byte(`
fallback: {slug: a, title: A}
rules:
  - what: site
    default: {slug: a, title: A}
  - what: Site
    default: {slug: b, title: B}
`))
	if !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected ErrInvalidTable, got %v", err)
	}
}
