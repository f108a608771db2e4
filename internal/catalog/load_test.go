package catalog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neeklo-backend/internal/shared/telemetry"
)

const badPriceYAML = `
products:
  - slug: website
    name: Сайт
    packages:
      - id: landing
        name: Лендинг
        price: "по запросу"
        features: ["7 дней"]
`

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default(ModeStrict)
	require.NoError(t, err)

	for _, slug := range []string{"website", "online-store", "telegram-bot", "ai-agent", "ai-video"} {
		assert.True(t, c.Has(slug), "expected product %s", slug)
	}

	site, _ := c.Product("website")
	corporate, ok := site.Package("corporate")
	require.True(t, ok)
	assert.Equal(t, int64(65000), corporate.Price.Amount)
	assert.Equal(t, 14, corporate.Timeline.Days)
	assert.True(t, corporate.Popular)

	video, _ := c.Product("ai-video")
	series, _ := video.Package("series")
	assert.Equal(t, int64(25000), series.Price.Amount, "ranges resolve to the low bound")
	assert.Equal(t, Timeline{Days: 10, MaxDays: 14}, series.Timeline)

	assert.Equal(t, int64(35000), site.StartingPrice().Amount)
}

func TestLoadStrictRejectsUnparseablePrice(t *testing.T) {
	_, err := Load([]byte(badPriceYAML), ModeStrict)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparseable))
}

func TestLoadLenientDefaultsToZeroAndWarns(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	c, err := Load([]byte(badPriceYAML), ModeLenient)
	require.NoError(t, err)
	p, _ := c.Product("website")
	pkg, _ := p.Package("landing")
	assert.Equal(t, int64(0), pkg.Price.Amount)
	assert.Equal(t, 7, pkg.Timeline.Days)

	telemetry.Sync()
	assert.Contains(t, buf.String(), "catalog.price_unparseable")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load([]byte("products:\n  - slug: x\n    colour: red\n"), ModeStrict)
	require.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	c, err := Default(ModeStrict)
	require.NoError(t, err)

	data, err := Encode(c)
	require.NoError(t, err)

	again, err := Load(data, ModeStrict)
	require.NoError(t, err)
	assert.Equal(t, c.Products(), again.Products())
}

func TestMergeReplacesPackagesKeepsQuestions(t *testing.T) {
	base, err := Default(ModeStrict)
	require.NoError(t, err)
	overlay := New([]Product{
		{Slug: "website", Packages: []Package{{ID: "landing", Name: "Лендинг", Price: Money{Amount: 40000, Currency: "RUB"}}}},
		{Slug: "mobile-app", Name: "Приложение", Packages: []Package{{ID: "mvp", Price: Money{Amount: 300000, Currency: "RUB"}}}},
	})

	merged := Merge(base, overlay)
	site, ok := merged.Product("website")
	require.True(t, ok)
	require.Len(t, site.Packages, 1)
	assert.Equal(t, int64(40000), site.Packages[0].Price.Amount)
	assert.NotEmpty(t, site.Questions)
	assert.Equal(t, "Сайт под ключ", site.Name)
	assert.True(t, merged.Has("mobile-app"))
	assert.Len(t, merged.Products(), len(base.Products())+1)
}
