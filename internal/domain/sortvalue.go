package domain

// SortValue returns the value of the named JSON field for ordering. ok is false
// when the field is absent on this record or unknown, which sorts it last.
func (s Shop) SortValue(field string) (any, bool) {
	switch field {
	case "id":
		return s.ID, true
	case "name":
		return s.Name, true
	case "address":
		return optional(s.Address)
	case "phone":
		return optional(s.Phone)
	case "openingHours":
		return optional(s.OpeningHours)
	case "website":
		return optional(s.Website)
	case "memo":
		return optional(s.Memo)
	case "createdAt":
		return s.CreatedAt, true
	case "updatedAt":
		return s.UpdatedAt, true
	}
	return nil, false
}

func (f Flavor) SortValue(field string) (any, bool) {
	switch field {
	case "id":
		return f.ID, true
	case "name":
		return f.Name, true
	case "shopId":
		return optional(f.ShopID)
	case "score":
		if f.Score == 0 {
			return nil, false
		}
		return f.Score, true
	case "memo":
		return optional(f.Memo)
	case "smokedAt":
		if f.SmokedAt == nil {
			return nil, false
		}
		return *f.SmokedAt, true
	case "createdAt":
		return f.CreatedAt, true
	case "updatedAt":
		return f.UpdatedAt, true
	}
	return nil, false
}

func optional(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}
