package reqsift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortParams_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, SortParams{}.Empty())
	assert.False(t, SortParams{Limit: 10}.Empty())
	assert.False(t, SortParams{By: `r."created"`}.Empty())
	assert.False(t, SortParams{Order: SortOrderAsc}.Empty())
}

func TestSortParams_Valid(t *testing.T) {
	t.Parallel()

	sortableBy := []string{`r."created"`, `r."updated"`}

	assert.True(t, SortParams{}.Valid(sortableBy))
	assert.True(t, SortParams{By: `r."created"`, Order: SortOrderDesc, Limit: 10}.Valid(sortableBy))
	assert.False(t, SortParams{Limit: -1}.Valid(sortableBy))
	assert.False(t, SortParams{By: `r."id"`}.Valid(sortableBy))
	assert.False(t, SortParams{By: `r."created"; drop table run`}.Valid(sortableBy))
}

func TestSortParams_SQL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		params SortParams
		want   string
	}{
		{
			name:   "empty",
			params: SortParams{},
			want:   "",
		},
		{
			name:   "order by only",
			params: SortParams{By: `r."created"`},
			want:   ` order by r."created"`,
		},
		{
			name:   "order by with direction",
			params: SortParams{By: `r."created"`, Order: SortOrderDesc},
			want:   ` order by r."created" desc`,
		},
		{
			name:   "limit only",
			params: SortParams{Limit: 100},
			want:   ` limit 100`,
		},
		{
			name:   "full",
			params: SortParams{By: `r."updated"`, Order: SortOrderAsc, Limit: 25},
			want:   ` order by r."updated" asc limit 25`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.params.SQL())
		})
	}
}
