package account

import (
	"strings"

	"libiss.org/pos-web/internal/format"
)

// Translate resolves a message key in the page language. Passing the lookup
// in keeps this layer free of any display or i18n dependency.
type Translate func(key string) string

// Snapshot is what the session cookie remembers between visits; it renders
// the dashboard even when every fetch comes back empty.
type Snapshot struct {
	UserID   string
	UserName string
	ShopID   string
	ShopName string
}

// StoreRow is one rendered line of the stores table.
type StoreRow struct {
	Name       string
	ID         string
	Plan       string
	Subscribed string
}

// LicenseRow is one rendered line of the licenses table.
type LicenseRow struct {
	ShopName string
	ShopID   string
	Key      string
	Days     string
	Expires  string
	// Placeholder rows render but expose nothing to copy.
	Placeholder bool
}

// OfficeView is the render-ready account dashboard.
type OfficeView struct {
	Welcome   string
	Stores    []StoreRow
	Licenses  []LicenseRow
	ShowTrial bool
	// ActiveShopID/Name are the reconciled values the caller persists back
	// into the session when non-empty.
	ActiveShopID   string
	ActiveShopName string
}

// FilterOwned keeps only shops whose owner id, under any recognized field
// name, string-equals userID.
func FilterOwned(shops []Shop, userID string) []Shop {
	out := make([]Shop, 0, len(shops))
	for _, s := range shops {
		if s.OwnedBy(userID) {
			out = append(out, s)
		}
	}
	return out
}

// AttachShops fills each license's owning shop by id when the API did not
// already embed it.
func AttachShops(licenses []License, shops []Shop) []License {
	out := make([]License, 0, len(licenses))
	for _, l := range licenses {
		if l.Shop == nil && l.ShopID != "" {
			for i := range shops {
				if shops[i].ID == l.ShopID {
					shop := shops[i]
					l.Shop = &shop
					break
				}
			}
		}
		out = append(out, l)
	}
	return out
}

// BuildOfficeView reconciles cached snapshots with fresh API payloads into
// the dashboard view model. shops must already be filtered to the session
// user; licenses are attached to their shops here.
func BuildOfficeView(snap Snapshot, shops []Shop, licenses []License, lang string, t Translate) OfficeView {
	view := OfficeView{
		Welcome: welcomeLine(snap.UserName, t),
	}

	if len(shops) > 0 {
		view.ActiveShopID = shops[0].ID.String()
		view.ActiveShopName = shops[0].Name
		for i := range shops {
			view.Stores = append(view.Stores, storeRow(&shops[i], t))
		}
	} else {
		// placeholder row from cached identifiers
		view.Stores = append(view.Stores, StoreRow{
			Name:       format.OrPlaceholder(snap.ShopName),
			ID:         format.OrPlaceholder(snap.ShopID),
			Plan:       t("office.planEmpty"),
			Subscribed: t("office.subscribedUnknown"),
		})
	}

	attached := AttachShops(licenses, shops)
	for _, l := range attached {
		view.Licenses = append(view.Licenses, licenseRow(l, lang))
	}
	view.ShowTrial = len(attached) == 0
	if len(view.Licenses) == 0 {
		view.Licenses = append(view.Licenses, LicenseRow{
			ShopName:    format.Placeholder,
			ShopID:      format.Placeholder,
			Key:         format.Placeholder,
			Days:        format.Placeholder,
			Expires:     format.Placeholder,
			Placeholder: true,
		})
	}
	return view
}

func welcomeLine(name string, t Translate) string {
	msg := t("office.welcome")
	if strings.TrimSpace(name) == "" {
		return msg
	}
	return msg + " " + name
}

func storeRow(shop *Shop, t Translate) StoreRow {
	row := StoreRow{
		Name: format.OrPlaceholder(shop.Name),
		ID:   format.OrPlaceholder(shop.ID.String()),
	}
	switch {
	case shop.License != nil && shop.License.SubscriptionType != "":
		row.Plan = shop.License.SubscriptionType
	case shop.License != nil && shop.License.SubscriptionStatus != "":
		row.Plan = shop.License.SubscriptionStatus
	default:
		row.Plan = t("office.planEmpty")
	}
	switch {
	case shop.IsSubscribed != nil && *shop.IsSubscribed:
		row.Subscribed = t("office.subscribedYes")
	case shop.IsSubscribed != nil:
		row.Subscribed = t("office.subscribedNo")
	default:
		row.Subscribed = t("office.subscribedUnknown")
	}
	return row
}

func licenseRow(l License, lang string) LicenseRow {
	row := LicenseRow{
		ShopID:   format.Placeholder,
		ShopName: format.Placeholder,
		Key:      format.OrPlaceholder(l.KeyValue()),
		Days:     l.DaysDisplay(),
		Expires:  format.Date(l.Expires(), lang),
	}
	if l.Shop != nil {
		row.ShopName = format.OrPlaceholder(l.Shop.Name)
		row.ShopID = format.OrPlaceholder(l.Shop.ID.String())
	}
	if row.ShopID == format.Placeholder && l.ShopID != "" {
		row.ShopID = l.ShopID.String()
	}
	return row
}
