package account

import (
	"bytes"
	"encoding/json"
)

// NormalizeList flattens the list envelopes the license endpoint has been
// seen to emit. Recognized shapes, in precedence order: a bare array, then
// an object exposing the array under `data`, `licenses`, `data.licenses`
// or `data.items`. Anything else yields an empty list.
func NormalizeList(raw json.RawMessage) []json.RawMessage {
	if items, ok := asArray(raw); ok {
		return items
	}
	var env struct {
		Data     json.RawMessage `json:"data"`
		Licenses json.RawMessage `json:"licenses"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if items, ok := asArray(env.Data); ok {
		return items
	}
	if items, ok := asArray(env.Licenses); ok {
		return items
	}
	var nested struct {
		Licenses json.RawMessage `json:"licenses"`
		Items    json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &nested); err == nil {
		if items, ok := asArray(nested.Licenses); ok {
			return items
		}
		if items, ok := asArray(nested.Items); ok {
			return items
		}
	}
	return nil
}

// normalizeShopList accepts the shop-list envelopes: a bare array, then
// `data.shops`, `data`, `shops`.
func normalizeShopList(raw json.RawMessage) []json.RawMessage {
	if items, ok := asArray(raw); ok {
		return items
	}
	var env struct {
		Data  json.RawMessage `json:"data"`
		Shops json.RawMessage `json:"shops"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	var nested struct {
		Shops json.RawMessage `json:"shops"`
	}
	if err := json.Unmarshal(env.Data, &nested); err == nil {
		if items, ok := asArray(nested.Shops); ok {
			return items
		}
	}
	if items, ok := asArray(env.Data); ok {
		return items
	}
	if items, ok := asArray(env.Shops); ok {
		return items
	}
	return nil
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}
