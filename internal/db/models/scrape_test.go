package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeTarget(t *testing.T) {
	t.Run("popular has no category id", func(t *testing.T) {
		target := PopularTarget()
		assert.Equal(t, ScrapeTypePopular, target.Type())
		assert.Nil(t, target.CategoryID())
		assert.Equal(t, "popular", target.String())
	})

	t.Run("category carries its id", func(t *testing.T) {
		target := CategoryTarget(10)
		assert.Equal(t, ScrapeTypeCategory, target.Type())
		require.NotNil(t, target.CategoryID())
		assert.Equal(t, int64(10), *target.CategoryID())
		assert.Equal(t, "category(10)", target.String())
	})
}

func TestTargetFromColumns(t *testing.T) {
	catID := int64(24)

	tests := []struct {
		name       string
		scrapeType ScrapeType
		categoryID *int64
		want       ScrapeTarget
		wantErr    bool
	}{
		{"popular with nil category", ScrapeTypePopular, nil, PopularTarget(), false},
		{"category with id", ScrapeTypeCategory, &catID, CategoryTarget(24), false},
		{"popular with stray category id", ScrapeTypePopular, &catID, ScrapeTarget{}, true},
		{"category missing id", ScrapeTypeCategory, nil, ScrapeTarget{}, true},
		{"unknown type", ScrapeType("trending"), nil, ScrapeTarget{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetFromColumns(tt.scrapeType, tt.categoryID)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoIdentity(t *testing.T) {
	a := &Video{VideoID: "abc", Target: CategoryTarget(10)}
	b := &Video{VideoID: "abc", Target: CategoryTarget(10)}
	c := &Video{VideoID: "abc", Target: PopularTarget()}

	assert.Equal(t, a.Identity(), b.Identity())
	assert.NotEqual(t, a.Identity(), c.Identity())
}
