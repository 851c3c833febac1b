package account

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"libiss.org/pos-web/internal/format"
)

// FlexID tolerates the backend emitting identifiers as JSON strings or
// numbers. Comparisons always happen on the string form.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string { return string(id) }

// User is the account record behind the welcome line. Everything beyond id
// and name is opaque to this site.
type User struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

type ownerRef struct {
	ID FlexID `json:"id"`
}

// Shop is one point-of-sale store owned by a user. The backend has shipped
// the owner id under several field names over time; OwnedBy checks them all.
type Shop struct {
	ID           FlexID       `json:"id"`
	Name         string       `json:"name"`
	UserID       FlexID       `json:"userId"`
	OwnerID      FlexID       `json:"ownerId"`
	User         *ownerRef    `json:"user"`
	Owner        *ownerRef    `json:"owner"`
	License      *ShopLicense `json:"license"`
	IsSubscribed *bool        `json:"isSubscribed"`
}

// ShopLicense is the subscription summary embedded in a shop record.
type ShopLicense struct {
	SubscriptionType   string `json:"subscriptionType"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

// OwnedBy reports whether any recognized owner field string-equals userID.
func (s Shop) OwnedBy(userID string) bool {
	if userID == "" {
		return false
	}
	if s.UserID != "" && s.UserID.String() == userID {
		return true
	}
	if s.OwnerID != "" && s.OwnerID.String() == userID {
		return true
	}
	if s.User != nil && s.User.ID != "" && s.User.ID.String() == userID {
		return true
	}
	if s.Owner != nil && s.Owner.ID != "" && s.Owner.ID.String() == userID {
		return true
	}
	return false
}

// License is one issued license, zero or more per shop. Key and expiry have
// shipped under alternate field names.
type License struct {
	ShopID         FlexID   `json:"shopId"`
	Shop           *Shop    `json:"shop"`
	LicenseKey     string   `json:"licenseKey"`
	Key            string   `json:"key"`
	DaysRemaining  *float64 `json:"daysRemaining"`
	ExpiresAt      string   `json:"expiresAt"`
	ExpiresAtSnake string   `json:"expires_at"`
}

// KeyValue prefers licenseKey over key.
func (l License) KeyValue() string {
	if strings.TrimSpace(l.LicenseKey) != "" {
		return l.LicenseKey
	}
	return l.Key
}

// Expires parses whichever expiry field was set.
func (l License) Expires() time.Time {
	if ts := format.ParseDate(l.ExpiresAt); !ts.IsZero() {
		return ts
	}
	return format.ParseDate(l.ExpiresAtSnake)
}

// DaysDisplay renders the remaining-days counter or the placeholder.
func (l License) DaysDisplay() string {
	if l.DaysRemaining == nil {
		return format.Placeholder
	}
	return strconv.FormatFloat(*l.DaysRemaining, 'f', -1, 64)
}

// City is one entry for the registration city select.
type City struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// AuthResult is the normalized outcome of registration or login. Every field
// is independently optional; absent fields leave the cached session slots
// untouched.
type AuthResult struct {
	Token    string
	User     *User
	ShopID   string
	ShopName string
}

// Registration is the payload for the shop-registration endpoint. All string
// fields except the password are trimmed before sending; a blank city is
// omitted entirely.
type Registration struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	ShopName    string
	INN         string
	Description string
	Address     string
	CityID      string
}

func (reg Registration) payload() map[string]string {
	p := map[string]string{
		"name":        strings.TrimSpace(reg.Name),
		"email":       strings.TrimSpace(reg.Email),
		"password":    reg.Password,
		"phone":       strings.TrimSpace(reg.Phone),
		"shopName":    strings.TrimSpace(reg.ShopName),
		"inn":         strings.TrimSpace(reg.INN),
		"description": strings.TrimSpace(reg.Description),
		"address":     strings.TrimSpace(reg.Address),
	}
	if city := strings.TrimSpace(reg.CityID); city != "" {
		p["cityId"] = city
	}
	return p
}
