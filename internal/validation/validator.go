// Package validation checks shop, flavor and settings input before it is
// stored. Checks are pure: they never modify their input or touch storage.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/shishalog/internal/domain"
)

// Messages shown to the user, one per rule.
const (
	MsgShopNameRequired  = "店舗名は必須です"
	MsgShopNameTooLong   = "店舗名は100文字以内で入力してください"
	MsgShopPhoneFormat   = "電話番号の形式が正しくありません"
	MsgShopWebsiteFormat = "ウェブサイトは有効なURLを入力してください"
	MsgShopAddressLong   = "住所は500文字以内で入力してください"
	MsgMemoTooLong       = "メモは1000文字以内で入力してください"

	MsgFlavorNameRequired  = "フレーバー名は必須です"
	MsgFlavorNameTooLong   = "フレーバー名は100文字以内で入力してください"
	MsgFlavorsRequired     = "フレーバーの組み合わせは1つ以上入力してください"
	MsgFlavorsBlankEntry   = "フレーバーの組み合わせに空の項目があります"
	MsgFlavorScoreRange    = "評価は1-5の値を選択してください"
	MsgFlavorShopIDFormat  = "関連店舗の形式が正しくありません"
	MsgFlavorTagBlank      = "タグに空の項目があります"
	MsgFlavorTagTooLong    = "各タグは50文字以内で入力してください"
	MsgFlavorSmokedAtValue = "喫煙日時の形式が正しくありません"

	MsgSettingsTheme        = "テーマの値が正しくありません"
	MsgSettingsSortBy       = "並び替え項目の値が正しくありません"
	MsgSettingsSortOrder    = "並び順の値が正しくありません"
	MsgSettingsItemsPerPage = "表示件数は1以上で入力してください"
)

var (
	// Digits, + - ( ) . and whitespace, including full-width spaces.
	phonePattern   = regexp.MustCompile(`^[\d+\-().\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+$`)
	websitePattern = regexp.MustCompile(`^https?://.+`)
)

type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom tags used by the rules:
// nonblank, phone, httpurl and datelike.
func New() *Validator {
	v := validator.New()
	must(v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return websitePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("datelike", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseTime(fl.Field().String())
		return ok
	}))
	return &Validator{v: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ok reports whether value passes tag.
func (v *Validator) ok(value any, tag string) bool {
	return v.v.Var(value, tag) == nil
}

// Shop checks a shop form. Nil fields were not submitted.
func (v *Validator) Shop(p domain.ShopPatch) Result {
	var r Result

	name := deref(p.Name)
	if !v.ok(name, "nonblank") {
		r.Add("name", MsgShopNameRequired)
	} else if !v.ok(name, "max=100") {
		r.Add("name", MsgShopNameTooLong)
	}
	if !v.ok(deref(p.Phone), "omitempty,phone") {
		r.Add("phone", MsgShopPhoneFormat)
	}
	if !v.ok(deref(p.Website), "omitempty,httpurl") {
		r.Add("website", MsgShopWebsiteFormat)
	}
	if !v.ok(deref(p.Address), "max=500") {
		r.Add("address", MsgShopAddressLong)
	}
	if !v.ok(deref(p.Memo), "max=1000") {
		r.Add("memo", MsgMemoTooLong)
	}
	return r
}

// Flavor checks a flavor form. Nil fields were not submitted.
func (v *Validator) Flavor(p domain.FlavorPatch) Result {
	var r Result

	name := deref(p.Name)
	if !v.ok(name, "nonblank") {
		r.Add("name", MsgFlavorNameRequired)
	} else if !v.ok(name, "max=100") {
		r.Add("name", MsgFlavorNameTooLong)
	}

	if !v.ok(p.Flavors, "min=1") {
		r.Add("flavors", MsgFlavorsRequired)
	} else if !v.ok(p.Flavors, "dive,nonblank") {
		r.Add("flavors", MsgFlavorsBlankEntry)
	}

	if !v.ok(deref(p.Score), "min=1,max=5") {
		r.Add("score", MsgFlavorScoreRange)
	}

	if !v.ok(deref(p.Memo), "max=1000") {
		r.Add("memo", MsgMemoTooLong)
	}

	if len(p.Tags) > 0 {
		if !v.ok(p.Tags, "dive,nonblank") {
			r.Add("tags", MsgFlavorTagBlank)
		}
		if !v.ok(p.Tags, "dive,max=50") {
			r.Add("tags", MsgFlavorTagTooLong)
		}
	}

	if !v.ok(deref(p.SmokedAt), "omitempty,datelike") {
		r.Add("smokedAt", MsgFlavorSmokedAtValue)
	}
	return r
}

// ShopIDType is the result for a flavor form whose shopId is not a string.
// Typed input cannot express that case, so the JSON decoder reports it.
func ShopIDType() Result {
	var r Result
	r.Add("shopId", MsgFlavorShopIDFormat)
	return r
}

// ScoreType is the result for a flavor form whose score is not a whole number.
func ScoreType() Result {
	var r Result
	r.Add("score", MsgFlavorScoreRange)
	return r
}

func (v *Validator) Settings(s domain.Settings) Result {
	var r Result

	if !v.ok(string(s.Theme), "oneof=light dark") {
		r.Add("theme", MsgSettingsTheme)
	}
	if !v.ok(s.SortBy, "oneof=createdAt updatedAt score name") {
		r.Add("sortBy", MsgSettingsSortBy)
	}
	if !v.ok(string(s.SortOrder), "oneof=asc desc") {
		r.Add("sortOrder", MsgSettingsSortOrder)
	}
	if !v.ok(s.ItemsPerPage, "min=1") {
		r.Add("itemsPerPage", MsgSettingsItemsPerPage)
	}
	return r
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
