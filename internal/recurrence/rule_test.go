package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleValidate(t *testing.T) {
	cases := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{"valid", Rule{Unit: UnitMonth, Every: 1, Anchor: AnchorCustom}, nil},
		{"empty anchor is custom", Rule{Unit: UnitDay, Every: 3}, nil},
		{"bad unit", Rule{Unit: "WEEK", Every: 1}, ErrInvalidUnit},
		{"zero every", Rule{Unit: UnitYear, Every: 0}, ErrInvalidEvery},
		{"negative offset", Rule{Unit: UnitYear, Every: 1, FirstDueOffsetDays: -1}, ErrInvalidOffset},
		{"bad anchor", Rule{Unit: UnitYear, Every: 1, Anchor: "BIRTHDAY"}, ErrInvalidAnchor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseUnitAndAnchor(t *testing.T) {
	u, err := ParseUnit(" month ")
	require.NoError(t, err)
	assert.Equal(t, UnitMonth, u)

	a, err := ParseAnchor("hire_date")
	require.NoError(t, err)
	assert.Equal(t, AnchorHireDate, a)

	a, err = ParseAnchor("")
	require.NoError(t, err)
	assert.Equal(t, AnchorCustom, a)
}

func TestRuleRRule(t *testing.T) {
	base := date(t, "2025-01-15")

	s, err := Rule{Unit: UnitMonth, Every: 2}.RRule(base)
	require.NoError(t, err)
	assert.Contains(t, s, "FREQ=MONTHLY")
	assert.Contains(t, s, "INTERVAL=2")

	s, err = Rule{Unit: UnitYear, Every: 1}.RRule(base)
	require.NoError(t, err)
	assert.Contains(t, s, "FREQ=YEARLY")

	_, err = Rule{Unit: UnitDay, Every: 0}.RRule(base)
	assert.ErrorIs(t, err, ErrInvalidEvery)
}
