package apartment

import (
	"errors"
	"net/url"
	"testing"

	"apartments/internal/domain"
	"apartments/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) (SearchFilters, validator.Errors) {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)

	f, err := ParseSearchFilters(q)
	if err == nil {
		return f, nil
	}
	var errs validator.Errors
	require.True(t, errors.As(err, &errs), "unexpected error type %T", err)
	return f, errs
}

func TestParseSearchFilters_Defaults(t *testing.T) {
	f, errs := parse(t, "")
	require.Nil(t, errs)

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPerPage, f.PerPage)
	assert.Nil(t, f.Status)
	assert.Nil(t, f.MinPrice)

	rf := f.RepositoryFilters()
	assert.Equal(t, DefaultPerPage, rf.Limit)
	assert.Equal(t, 0, rf.Offset)
}

func TestParseSearchFilters_AllFields(t *testing.T) {
	f, errs := parse(t, "status=rented&bedrooms=2&bathrooms=1&min_price=1000&max_price=2000"+
		"&min_sqft=40&max_sqft=90&q=loft&sort_by=price_desc&page=3&per_page=10")
	require.Nil(t, errs)

	rf := f.RepositoryFilters()
	require.NotNil(t, rf.Status)
	assert.Equal(t, domain.StatusRented, *rf.Status)
	assert.Equal(t, 2, *rf.Bedrooms)
	assert.Equal(t, 1000.0, *rf.MinPrice)
	assert.Equal(t, 2000.0, *rf.MaxPrice)
	assert.Equal(t, 40.0, *rf.MinArea)
	assert.Equal(t, 90.0, *rf.MaxArea)
	assert.Equal(t, "loft", rf.Query)
	assert.Equal(t, "price_desc", rf.SortBy)
	assert.Equal(t, 10, rf.Limit)
	assert.Equal(t, 20, rf.Offset)
}

func TestParseSearchFilters_QueryAliases(t *testing.T) {
	f, errs := parse(t, "search=garden")
	require.Nil(t, errs)
	assert.Equal(t, "garden", f.Query)
}

func TestParseSearchFilters_PriceRangeInverted(t *testing.T) {
	_, errs := parse(t, "min_price=2000&max_price=1000")
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Maximum price must be greater than or equal to minimum price."}, errs["max_price"])
}

func TestParseSearchFilters_EqualBoundsAllowed(t *testing.T) {
	_, errs := parse(t, "min_price=1500&max_price=1500&min_sqft=50&max_sqft=50")
	assert.Nil(t, errs)
}

func TestParseSearchFilters_Rejections(t *testing.T) {
	cases := []struct {
		query string
		field string
		msg   string
	}{
		{"bedrooms=abc", "bedrooms", "Number of bedrooms must be a valid number."},
		{"bedrooms=11", "bedrooms", "Number of bedrooms cannot exceed 10."},
		{"bathrooms=0", "bathrooms", "Number of bathrooms must be at least 1."},
		{"min_price=-5", "min_price", "Minimum price cannot be negative."},
		{"max_sqft=10&min_sqft=20", "max_sqft", "Maximum square footage must be greater than or equal to minimum square footage."},
		{"sort_by=cheapest", "sort_by", "Invalid sort option. Valid options: price_asc, price_desc, bedrooms, square_feet, newest, oldest."},
		{"per_page=51", "per_page", "Cannot retrieve more than 50 items per page."},
		{"page=0", "page", "The page must be at least 1."},
		{"status=sold", "status", `Status must be one of "available", "rented" or "maintenance".`},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			_, errs := parse(t, tc.query)
			require.NotNil(t, errs)
			assert.Equal(t, []string{tc.msg}, errs[tc.field])
		})
	}
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 15))
	assert.Equal(t, 1, LastPage(15, 15))
	assert.Equal(t, 2, LastPage(16, 15))
}
