package models

import "fmt"

// ScrapeType classifies how a video was discovered.
type ScrapeType string

const (
	// ScrapeTypePopular marks videos from the region-wide popular chart.
	ScrapeTypePopular ScrapeType = "popular"
	// ScrapeTypeCategory marks videos from a per-category popular chart.
	ScrapeTypeCategory ScrapeType = "category"
)

// ScrapeTarget is a closed variant over the two scrape kinds. A category id
// is only present for category scrapes; use the constructors so the pairing
// cannot be built inconsistently.
type ScrapeTarget struct {
	scrapeType ScrapeType
	categoryID int64
}

// PopularTarget returns the target for the region-wide popular chart.
func PopularTarget() ScrapeTarget {
	return ScrapeTarget{scrapeType: ScrapeTypePopular}
}

// CategoryTarget returns the target for one category's popular chart.
func CategoryTarget(categoryID int64) ScrapeTarget {
	return ScrapeTarget{scrapeType: ScrapeTypeCategory, categoryID: categoryID}
}

// Type returns the scrape type of the target.
func (t ScrapeTarget) Type() ScrapeType {
	return t.scrapeType
}

// CategoryID returns the category id for category targets and nil for
// popular targets, matching the nullable scrape_category column.
func (t ScrapeTarget) CategoryID() *int64 {
	if t.scrapeType != ScrapeTypeCategory {
		return nil
	}
	id := t.categoryID
	return &id
}

func (t ScrapeTarget) String() string {
	if t.scrapeType == ScrapeTypeCategory {
		return fmt.Sprintf("category(%d)", t.categoryID)
	}
	return string(ScrapeTypePopular)
}

// TargetFromColumns rebuilds a ScrapeTarget from the stored column pair. A
// non-nil category id with a popular scrape type (or the reverse) is a data
// corruption and reported as an error.
func TargetFromColumns(scrapeType ScrapeType, categoryID *int64) (ScrapeTarget, error) {
	switch scrapeType {
	case ScrapeTypePopular:
		if categoryID != nil {
			return ScrapeTarget{}, fmt.Errorf("popular scrape carries category id %d", *categoryID)
		}
		return PopularTarget(), nil
	case ScrapeTypeCategory:
		if categoryID == nil {
			return ScrapeTarget{}, fmt.Errorf("category scrape is missing its category id")
		}
		return CategoryTarget(*categoryID), nil
	default:
		return ScrapeTarget{}, fmt.Errorf("unknown scrape type %q", scrapeType)
	}
}
