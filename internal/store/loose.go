package store

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vbonduro/shishalog/internal/domain"
)

// looseTime decodes a stored timestamp without ever failing. Strings go
// through domain.ParseTime, numbers are epoch milliseconds.
type looseTime struct {
	t     time.Time
	set   bool // present, non-null and not empty
	valid bool
}

func (lt *looseTime) UnmarshalJSON(b []byte) error {
	*lt = looseTime{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == "" {
			return nil
		}
		lt.set = true
		lt.t, lt.valid = domain.ParseTime(s)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err == nil {
		if ms == 0 {
			return nil
		}
		lt.set = true
		lt.t, lt.valid = time.UnixMilli(int64(ms)).UTC(), true
		return nil
	}

	lt.set = true
	return nil
}

// or returns the parsed time, or now when it is missing or unreadable.
func (lt looseTime) or(now time.Time) time.Time {
	if lt.valid {
		return lt.t
	}
	return now
}

// optional returns nil when nothing was stored, the parsed time when it
// reads, and now when a value is stored but unreadable.
func (lt looseTime) optional(now time.Time) *time.Time {
	if !lt.set {
		return nil
	}
	t := lt.or(now)
	return &t
}

// logDefaulted notes a required timestamp that was replaced by now.
func logDefaulted(logger *slog.Logger, id, field string, lt looseTime) {
	if !lt.valid && (lt.set || field != "smokedAt") {
		logger.Debug("unreadable stored date replaced with now", "id", id, "field", field)
	}
}

type shopRecord struct {
	domain.Shop
	CreatedAt looseTime `json:"createdAt"`
	UpdatedAt looseTime `json:"updatedAt"`
}

func decodeShop(raw json.RawMessage, now time.Time, logger *slog.Logger) (*domain.Shop, error) {
	var r shopRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	logDefaulted(logger, r.ID, "createdAt", r.CreatedAt)
	logDefaulted(logger, r.ID, "updatedAt", r.UpdatedAt)
	s := r.Shop
	s.CreatedAt = r.CreatedAt.or(now)
	s.UpdatedAt = r.UpdatedAt.or(now)
	return &s, nil
}

type flavorRecord struct {
	domain.Flavor
	SmokedAt  looseTime `json:"smokedAt"`
	CreatedAt looseTime `json:"createdAt"`
	UpdatedAt looseTime `json:"updatedAt"`
}

func decodeFlavor(raw json.RawMessage, now time.Time, logger *slog.Logger) (*domain.Flavor, error) {
	var r flavorRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	logDefaulted(logger, r.ID, "smokedAt", r.SmokedAt)
	logDefaulted(logger, r.ID, "createdAt", r.CreatedAt)
	logDefaulted(logger, r.ID, "updatedAt", r.UpdatedAt)
	f := r.Flavor
	f.SmokedAt = r.SmokedAt.optional(now)
	f.CreatedAt = r.CreatedAt.or(now)
	f.UpdatedAt = r.UpdatedAt.or(now)
	if f.Flavors == nil {
		f.Flavors = []string{}
	}
	return &f, nil
}
