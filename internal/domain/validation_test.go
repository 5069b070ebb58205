package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	var q ListQuery
	require.NoError(t, q.Normalize())
	require.Equal(t, DefaultPageSize, q.Limit)
	require.Equal(t, SortByUpdated, q.Sort)
	require.Equal(t, SortDesc, q.Dir)
}

func TestNormalizeCursorWinsOverOffset(t *testing.T) {
	q := ListQuery{Cursor: "anything", Offset: 40}
	require.NoError(t, q.Normalize())
	require.Zero(t, q.Offset)
}

func TestNormalizeRejects(t *testing.T) {
	neg := int64(-1)
	lo, hi := int64(100), int64(50)

	cases := map[string]ListQuery{
		"limit too big":   {Limit: MaxPageSize + 1},
		"negative limit":  {Limit: -5},
		"bad sort":        {Sort: "rating"},
		"bad dir":         {Dir: "sideways"},
		"negative offset": {Offset: -1},
		"bad status":      {Filters: []Filter{FilterStatus{Status: "draft"}}},
		"empty tags":      {Filters: []Filter{FilterTagsAny{}}},
		"negative price":  {Filters: []Filter{FilterPriceRange{MinCents: &neg}}},
		"inverted range":  {Filters: []Filter{FilterPriceRange{MinCents: &lo, MaxCents: &hi}}},
		"blank search":    {Filters: []Filter{FilterSearch{Query: "   "}}},
	}
	for name, q := range cases {
		err := q.Normalize()
		require.Error(t, err, name)
		require.True(t, errors.Is(err, ErrBadParams), name)
	}
}
