package model

// Category is the closed set of business categories.
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryHealth     Category = "Health"
	CategoryBeauty     Category = "Beauty"
	CategoryEducation  Category = "Education"
	CategorySports     Category = "Sports"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryHealth, CategoryBeauty, CategoryEducation, CategorySports:
		return true
	}
	return false
}

type Business struct {
	ID       string
	OwnerID  string
	Name     string
	Category Category
	// WorkingHours is "HH:mm-HH:mm", empty when the owner has not configured it.
	WorkingHours string
	// Timezone is an IANA zone name; empty means the process default.
	Timezone string
}

type Service struct {
	ID              string
	BusinessID      string
	Name            string
	DurationMinutes int
	// Price is a positive decimal kept as text to avoid float rounding.
	Price string
}
