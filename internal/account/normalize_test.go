package account

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeListShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"key":"a"},{"key":"b"}]`, 2},
		{"data array", `{"data":[{"key":"a"}]}`, 1},
		{"licenses array", `{"licenses":[{"key":"a"},{"key":"b"},{"key":"c"}]}`, 3},
		{"data.licenses", `{"data":{"licenses":[{"key":"a"}]}}`, 1},
		{"data.items", `{"data":{"items":[{"key":"a"},{"key":"b"}]}}`, 2},
		{"empty object", `{}`, 0},
		{"scalar", `42`, 0},
		{"null", `null`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := NormalizeList(json.RawMessage(tc.raw))
			require.Len(t, items, tc.want)
		})
	}
}

func TestNormalizeListPrecedence(t *testing.T) {
	// when several envelopes coexist, data wins over licenses
	raw := json.RawMessage(`{"data":[{"key":"from-data"}],"licenses":[{"key":"x"},{"key":"y"}]}`)
	items := NormalizeList(raw)
	require.Len(t, items, 1)

	var l License
	require.NoError(t, json.Unmarshal(items[0], &l))
	require.Equal(t, "from-data", l.Key)
}

func TestNormalizeShopListShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"id":1}]`, 1},
		{"data.shops", `{"data":{"shops":[{"id":1},{"id":2}]}}`, 2},
		{"data array", `{"data":[{"id":1}]}`, 1},
		{"shops array", `{"shops":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"garbage", `"nope"`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := normalizeShopList(json.RawMessage(tc.raw))
			require.Len(t, items, tc.want)
		})
	}
}

func TestFlexIDAcceptsStringAndNumber(t *testing.T) {
	var s Shop
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"userId":"42"}`), &s))
	require.Equal(t, "42", s.ID.String())
	require.Equal(t, "42", s.UserID.String())

	var c City
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"Almaty"}`), &c))
	require.Equal(t, "", c.ID.String())
}
