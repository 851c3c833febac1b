package account

import (
	"encoding/json"
	"fmt"
	"time"
)

// Demo data served when no API base URL is configured, so the site stays
// browsable during template work.

func fakeCities() []City {
	return []City{
		{ID: "1", Name: "Москва"},
		{ID: "2", Name: "Санкт-Петербург"},
		{ID: "3", Name: "Алматы"},
	}
}

func fakeUser() *User {
	return &User{ID: "demo-user", Name: "Demo Owner"}
}

func fakeShops() []Shop {
	subscribed := true
	return []Shop{
		{
			ID:           "demo-shop",
			Name:         "Demo Coffee Point",
			UserID:       "demo-user",
			IsSubscribed: &subscribed,
			License:      &ShopLicense{SubscriptionType: "trial"},
		},
	}
}

func fakeLicenses() []License {
	days := 14.0
	return []License{
		{
			ShopID:        "demo-shop",
			LicenseKey:    "DEMO-TRIAL-0001",
			DaysRemaining: &days,
			ExpiresAt:     time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
		},
	}
}

func fakeAuthResult(name, shopName string) AuthResult {
	if name == "" {
		name = "Demo Owner"
	}
	if shopName == "" {
		shopName = "Demo Coffee Point"
	}
	return AuthResult{
		Token:    "demo-token",
		User:     &User{ID: "demo-user", Name: name},
		ShopID:   "demo-shop",
		ShopName: shopName,
	}
}

func fakeTrialPayload(shopID string) json.RawMessage {
	days := 14
	expires := time.Now().AddDate(0, 0, days).Format(time.RFC3339)
	return json.RawMessage(fmt.Sprintf(
		`{"shopId":%q,"licenseKey":"DEMO-TRIAL-0001","daysRemaining":%d,"expiresAt":%q}`,
		shopID, days, expires,
	))
}
