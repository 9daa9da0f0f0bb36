package models

// Category is YouTube reference data: which video categories exist for the
// configured region and which of them accept uploads (only assignable
// categories are scraped).
type Category struct {
	CategoryID int64
	Name       string
	Assignable bool
}
