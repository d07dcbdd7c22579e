package domain

import "time"

// ShopPatch carries the fields of a create or update request. A nil field was
// not provided and leaves the stored value alone on update.
type ShopPatch struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	OpeningHours *string `json:"openingHours,omitempty"`
	Website      *string `json:"website,omitempty"`
	Memo         *string `json:"memo,omitempty"`
}

func (p ShopPatch) Apply(s *Shop) {
	setString(&s.Name, p.Name)
	setString(&s.Address, p.Address)
	setString(&s.Phone, p.Phone)
	setString(&s.OpeningHours, p.OpeningHours)
	setString(&s.Website, p.Website)
	setString(&s.Memo, p.Memo)
}

// PatchFromShop returns a patch that sets every field of s.
func PatchFromShop(s Shop) ShopPatch {
	return ShopPatch{
		Name:         &s.Name,
		Address:      &s.Address,
		Phone:        &s.Phone,
		OpeningHours: &s.OpeningHours,
		Website:      &s.Website,
		Memo:         &s.Memo,
	}
}

// FlavorPatch mirrors ShopPatch for flavors. Nil slices were not provided.
// SmokedAt is kept as the raw submitted text so it can be validated; an empty
// string clears it.
type FlavorPatch struct {
	Name     *string  `json:"name,omitempty"`
	Flavors  []string `json:"flavors,omitempty"`
	ShopID   *string  `json:"shopId,omitempty"`
	Score    *int     `json:"score,omitempty"`
	Memo     *string  `json:"memo,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	SmokedAt *string  `json:"smokedAt,omitempty"`
}

// Apply merges the patch into f. An unparsable SmokedAt falls back to now, the
// same way unreadable stored dates do.
func (p FlavorPatch) Apply(f *Flavor, now time.Time) {
	setString(&f.Name, p.Name)
	if p.Flavors != nil {
		f.Flavors = append([]string(nil), p.Flavors...)
	}
	setString(&f.ShopID, p.ShopID)
	if p.Score != nil {
		f.Score = *p.Score
	}
	setString(&f.Memo, p.Memo)
	if p.Tags != nil {
		f.Tags = append([]string(nil), p.Tags...)
	}
	if p.SmokedAt != nil {
		if *p.SmokedAt == "" {
			f.SmokedAt = nil
		} else {
			t, ok := ParseTime(*p.SmokedAt)
			if !ok {
				t = now
			}
			f.SmokedAt = &t
		}
	}
}

// PatchFromFlavor returns a patch that sets every field of f.
func PatchFromFlavor(f Flavor) FlavorPatch {
	p := FlavorPatch{
		Name:    &f.Name,
		Flavors: f.Flavors,
		ShopID:  &f.ShopID,
		Memo:    &f.Memo,
		Tags:    f.Tags,
	}
	if f.Flavors == nil {
		p.Flavors = []string{}
	}
	if f.Score != 0 {
		score := f.Score
		p.Score = &score
	}
	if f.SmokedAt != nil {
		s := f.SmokedAt.Format(time.RFC3339Nano)
		p.SmokedAt = &s
	}
	return p
}

type SettingsPatch struct {
	Theme        *Theme     `json:"theme,omitempty"`
	SortBy       *string    `json:"sortBy,omitempty"`
	SortOrder    *SortOrder `json:"sortOrder,omitempty"`
	ItemsPerPage *int       `json:"itemsPerPage,omitempty"`
	LastBackup   *time.Time `json:"lastBackup,omitempty"`
}

func (p SettingsPatch) Apply(s *Settings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	setString(&s.SortBy, p.SortBy)
	if p.SortOrder != nil {
		s.SortOrder = *p.SortOrder
	}
	if p.ItemsPerPage != nil {
		s.ItemsPerPage = *p.ItemsPerPage
	}
	if p.LastBackup != nil {
		t := *p.LastBackup
		s.LastBackup = &t
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Overlay returns p with every field provided in q taking q's value.
func (p ShopPatch) Overlay(q ShopPatch) ShopPatch {
	overlay(&p.Name, q.Name)
	overlay(&p.Address, q.Address)
	overlay(&p.Phone, q.Phone)
	overlay(&p.OpeningHours, q.OpeningHours)
	overlay(&p.Website, q.Website)
	overlay(&p.Memo, q.Memo)
	return p
}

func (p FlavorPatch) Overlay(q FlavorPatch) FlavorPatch {
	overlay(&p.Name, q.Name)
	if q.Flavors != nil {
		p.Flavors = q.Flavors
	}
	overlay(&p.ShopID, q.ShopID)
	overlay(&p.Score, q.Score)
	overlay(&p.Memo, q.Memo)
	if q.Tags != nil {
		p.Tags = q.Tags
	}
	overlay(&p.SmokedAt, q.SmokedAt)
	return p
}

func overlay[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
