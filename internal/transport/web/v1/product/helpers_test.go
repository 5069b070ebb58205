package product

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/my-shop/internal/domain"
)

func TestParseListQuery(t *testing.T) {
	q, err := url.ParseQuery("limit=10&sort=price_cents&order=asc&cursor=abc&offset=5" +
		"&status=active&available=true&category=synths&tag=analog&tag=mono" +
		"&min_price=100&max_price=5000&q=bass")
	require.NoError(t, err)

	lq, err := parseListQuery(q)
	require.NoError(t, err)

	assert.Equal(t, 10, lq.Limit)
	assert.Equal(t, domain.SortByPrice, lq.Sort)
	assert.Equal(t, domain.SortAsc, lq.Dir)
	assert.Equal(t, "abc", lq.Cursor)
	assert.Equal(t, 5, lq.Offset)
	require.Len(t, lq.Filters, 6)

	var sawTags, sawPrice, sawSearch bool
	for _, f := range lq.Filters {
		switch v := f.(type) {
		case domain.FilterTagsAny:
			sawTags = true
			assert.Equal(t, []string{"analog", "mono"}, v.Tags)
		case domain.FilterPriceRange:
			sawPrice = true
			require.NotNil(t, v.MinCents)
			require.NotNil(t, v.MaxCents)
			assert.EqualValues(t, 100, *v.MinCents)
			assert.EqualValues(t, 5000, *v.MaxCents)
		case domain.FilterSearch:
			sawSearch = true
			assert.Equal(t, "bass", v.Query)
		}
	}
	assert.True(t, sawTags)
	assert.True(t, sawPrice)
	assert.True(t, sawSearch)
}

func TestParseListQueryEmpty(t *testing.T) {
	lq, err := parseListQuery(url.Values{})
	require.NoError(t, err)
	assert.Zero(t, lq.Limit)
	assert.Empty(t, lq.Filters)
}

func TestParseListQueryBadNumbers(t *testing.T) {
	for _, raw := range []string{"limit=abc", "offset=x", "min_price=1.5", "max_price=-"} {
		q, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = parseListQuery(q)
		assert.ErrorIs(t, err, domain.ErrBadParams, raw)
	}
}

func TestToViewHidesStorageKey(t *testing.T) {
	p := domain.Product{
		Handle:    "korg-ms20",
		Name:      "Korg MS-20",
		AssetKey:  "sha256/ab12",
		AssetSize: 42,
	}
	v := toView(p)
	assert.True(t, v.HasAsset)
	assert.EqualValues(t, 42, v.AssetSize)
}
