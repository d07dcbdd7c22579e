package domain

import "time"

// MinScore and MaxScore bound a flavor's score. A score of 0 means "not rated".
const (
	MinScore = 1
	MaxScore = 5
)

type Shop struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	OpeningHours string    `json:"openingHours,omitempty"`
	Website      string    `json:"website,omitempty"`
	Memo         string    `json:"memo,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Flavor struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Flavors   []string   `json:"flavors"`
	ShopID    string     `json:"shopId,omitempty"`
	Score     int        `json:"score,omitempty"`
	Memo      string     `json:"memo,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	SmokedAt  *time.Time `json:"smokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Settings struct {
	Theme        Theme      `json:"theme"`
	SortBy       string     `json:"sortBy"`
	SortOrder    SortOrder  `json:"sortOrder"`
	ItemsPerPage int        `json:"itemsPerPage"`
	LastBackup   *time.Time `json:"lastBackup,omitempty"`
}

// DefaultSettings is what a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:        ThemeLight,
		SortBy:       "createdAt",
		SortOrder:    SortDesc,
		ItemsPerPage: 10,
	}
}
