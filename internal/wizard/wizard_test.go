package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSteps() []Step {
	return []Step{
		{Name: "owner", Fields: []Field{
			{Name: "name", Kind: "text", Required: true},
			{Name: "email", Kind: "email", Required: true},
		}},
		{Name: "shop", Fields: []Field{
			{Name: "shopName", Kind: "text", Required: true},
		}},
		{Name: "security", Fields: []Field{
			{Name: "password", Kind: "password", Required: true, MinLength: 8},
		}},
	}
}

func TestNextBlockedByInvalidStep(t *testing.T) {
	w := New(testSteps())
	errs := w.Next(map[string]string{"name": "", "email": "not-an-email"})
	require.Len(t, errs, 2)
	assert.Equal(t, 0, w.Current(), "invalid step must not change the index")
	assert.Equal(t, FieldError{Field: "name", Key: MsgRequired}, errs[0])
	assert.Equal(t, FieldError{Field: "email", Key: MsgEmailFormat}, errs[1])
	assert.Equal(t, "name", FirstInvalid(errs))
}

func TestNextAdvancesByExactlyOne(t *testing.T) {
	w := New(testSteps())
	errs := w.Next(map[string]string{"name": "Ivan", "email": "ivan@example.com"})
	require.Empty(t, errs)
	assert.Equal(t, 1, w.Current())
}

func TestNextSaturatesAtLastStep(t *testing.T) {
	w := New(testSteps())
	w.Restore(2)
	errs := w.Next(map[string]string{"password": "longenough"})
	require.Empty(t, errs)
	assert.Equal(t, 2, w.Current())
}

func TestPrevNeverValidates(t *testing.T) {
	w := New(testSteps())
	w.Restore(2)
	w.Prev()
	assert.Equal(t, 1, w.Current())
	// retreat from 0 is a no-op
	w.Prev()
	w.Prev()
	assert.Equal(t, 0, w.Current())
}

func TestRestoreClampsOutOfRangeIndices(t *testing.T) {
	w := New(testSteps())
	w.Restore(99)
	assert.Equal(t, 2, w.Current())
	w.Restore(-5)
	assert.Equal(t, 0, w.Current())
}

func TestControls(t *testing.T) {
	w := New(testSteps())
	c := w.Controls()
	assert.True(t, c.PrevDisabled)
	assert.False(t, c.NextHidden)
	assert.False(t, c.SubmitVisible)

	w.Restore(1)
	c = w.Controls()
	assert.False(t, c.PrevDisabled)
	assert.False(t, c.SubmitVisible)

	w.Restore(2)
	c = w.Controls()
	assert.False(t, c.PrevDisabled)
	assert.True(t, c.NextHidden)
	assert.True(t, c.SubmitVisible)
}

func TestErrorPriority(t *testing.T) {
	step := Step{Fields: []Field{
		{Name: "email", Kind: "email", Required: true, MinLength: 5},
	}}

	errs := Validate(step, map[string]string{})
	require.Len(t, errs, 1)
	assert.Equal(t, MsgRequired, errs[0].Key, "missing wins over format")

	errs = Validate(step, map[string]string{"email": "bad"})
	require.Len(t, errs, 1)
	assert.Equal(t, MsgEmailFormat, errs[0].Key, "format wins over length")

	short := Step{Fields: []Field{{Name: "password", Kind: "password", MinLength: 8}}}
	errs = Validate(short, map[string]string{"password": "tiny"})
	require.Len(t, errs, 1)
	assert.Equal(t, MsgTooShort, errs[0].Key)
}

func TestOptionalBlankFieldPasses(t *testing.T) {
	step := Step{Fields: []Field{{Name: "cityId", Kind: "select"}}}
	assert.Empty(t, Validate(step, map[string]string{}))
}
