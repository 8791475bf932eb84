package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		name string
		from string
		n    int
		want string
	}{
		{"plain month", "2025-03-15", 1, "2025-04-15"},
		{"jan 31 to feb", "2025-01-31", 1, "2025-02-28"},
		{"jan 31 to leap feb", "2024-01-31", 1, "2024-02-29"},
		{"month end to 31-day month", "2025-01-31", 2, "2025-03-31"},
		{"crosses year", "2025-11-30", 3, "2026-02-28"},
		{"leap day plus a year", "2024-02-29", 12, "2025-02-28"},
		{"leap day plus four years", "2024-02-29", 48, "2028-02-29"},
		{"negative", "2025-03-31", -1, "2025-02-28"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AddMonths(date(t, tc.from), tc.n)
			assert.Equal(t, tc.want, got.Format(DateLayout))
		})
	}
}

func TestComputeDueDate(t *testing.T) {
	t.Run("monthly from jan 31 clamps without drifting", func(t *testing.T) {
		r := Rule{Unit: UnitMonth, Every: 1}
		base := date(t, "2025-01-31")
		assert.Equal(t, "2025-01-31", ComputeDueDate(base, r, 0).Format(DateLayout))
		assert.Equal(t, "2025-02-28", ComputeDueDate(base, r, 1).Format(DateLayout))
		assert.Equal(t, "2025-03-31", ComputeDueDate(base, r, 2).Format(DateLayout))
	})

	t.Run("weekly with offset", func(t *testing.T) {
		r := Rule{Unit: UnitDay, Every: 7, FirstDueOffsetDays: 2}
		base := date(t, "2025-06-01")
		assert.Equal(t, "2025-06-03", ComputeDueDate(base, r, 0).Format(DateLayout))
		assert.Equal(t, "2025-06-10", ComputeDueDate(base, r, 1).Format(DateLayout))
		assert.Equal(t, "2025-06-17", ComputeDueDate(base, r, 2).Format(DateLayout))
	})

	t.Run("yearly from leap day", func(t *testing.T) {
		r := Rule{Unit: UnitYear, Every: 1}
		base := date(t, "2024-02-29")
		assert.Equal(t, "2024-02-29", ComputeDueDate(base, r, 0).Format(DateLayout))
		assert.Equal(t, "2025-02-28", ComputeDueDate(base, r, 1).Format(DateLayout))
		assert.Equal(t, "2028-02-29", ComputeDueDate(base, r, 4).Format(DateLayout))
	})

	t.Run("every two months across month lengths", func(t *testing.T) {
		r := Rule{Unit: UnitMonth, Every: 2, FirstDueOffsetDays: 0}
		base := date(t, "2023-12-31")
		assert.Equal(t, "2024-02-29", ComputeDueDate(base, r, 1).Format(DateLayout))
		assert.Equal(t, "2024-04-30", ComputeDueDate(base, r, 2).Format(DateLayout))
		assert.Equal(t, "2024-06-30", ComputeDueDate(base, r, 3).Format(DateLayout))
	})

	t.Run("offset applied before month arithmetic", func(t *testing.T) {
		r := Rule{Unit: UnitMonth, Every: 1, FirstDueOffsetDays: 1}
		base := date(t, "2025-01-30")
		assert.Equal(t, "2025-01-31", ComputeDueDate(base, r, 0).Format(DateLayout))
		assert.Equal(t, "2025-02-28", ComputeDueDate(base, r, 1).Format(DateLayout))
	})

	t.Run("time of day and zone are dropped", func(t *testing.T) {
		loc := time.FixedZone("UTC+9", 9*3600)
		base := time.Date(2025, 6, 1, 23, 30, 0, 0, loc)
		got := ComputeDueDate(base, Rule{Unit: UnitDay, Every: 1}, 0)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
	})
}

func TestComputeDueDateDayUnitIsLinear(t *testing.T) {
	base := date(t, "2024-12-20")
	for every := 1; every <= 10; every++ {
		for offset := 0; offset <= 5; offset++ {
			r := Rule{Unit: UnitDay, Every: every, FirstDueOffsetDays: offset}
			for n := 0; n < 20; n++ {
				want := base.AddDate(0, 0, offset+n*every)
				require.Equal(t, want, ComputeDueDate(base, r, n), "every=%d offset=%d n=%d", every, offset, n)
			}
		}
	}
}

func TestComputeDueDateIsMonotonic(t *testing.T) {
	bases := []string{"2024-01-31", "2024-02-29", "2025-08-31", "2025-12-31", "2025-06-15"}
	for _, unit := range []Unit{UnitDay, UnitMonth, UnitYear} {
		for every := 1; every <= 5; every++ {
			for _, raw := range bases {
				r := Rule{Unit: unit, Every: every}
				base := date(t, raw)
				prev := ComputeDueDate(base, r, 0)
				for n := 1; n < 30; n++ {
					next := ComputeDueDate(base, r, n)
					require.False(t, next.Before(prev), "unit=%s every=%d base=%s n=%d", unit, every, raw, n)
					prev = next
				}
			}
		}
	}
}

func TestPlanOccurrenceCount(t *testing.T) {
	monthly := Rule{Unit: UnitMonth, Every: 1}

	t.Run("no end date uses the lookahead", func(t *testing.T) {
		assert.Equal(t, 3, PlanOccurrenceCount(date(t, "2025-01-31"), monthly, nil, DefaultLookahead))
		assert.Equal(t, 5, PlanOccurrenceCount(date(t, "2025-01-31"), monthly, nil, 5))
	})

	t.Run("leap day yearly stops at end date", func(t *testing.T) {
		end := date(t, "2026-01-01")
		r := Rule{Unit: UnitYear, Every: 1}
		assert.Equal(t, 2, PlanOccurrenceCount(date(t, "2024-02-29"), r, &end, 3))
	})

	t.Run("end date equal to first due date is inclusive", func(t *testing.T) {
		r := Rule{Unit: UnitDay, Every: 7, FirstDueOffsetDays: 2}
		end := date(t, "2025-06-03")
		assert.Equal(t, 1, PlanOccurrenceCount(date(t, "2025-06-01"), r, &end, 3))
	})

	t.Run("end date before first due date yields zero", func(t *testing.T) {
		r := Rule{Unit: UnitDay, Every: 7, FirstDueOffsetDays: 2}
		end := date(t, "2025-06-02")
		assert.Equal(t, 0, PlanOccurrenceCount(date(t, "2025-06-01"), r, &end, 3))
	})

	t.Run("far end date is capped", func(t *testing.T) {
		end := date(t, "2099-12-31")
		assert.Equal(t, 3, PlanOccurrenceCount(date(t, "2025-01-01"), monthly, &end, 3))
	})

	t.Run("non-positive limit", func(t *testing.T) {
		assert.Equal(t, 0, PlanOccurrenceCount(date(t, "2025-01-01"), monthly, nil, 0))
	})

	t.Run("never exceeds limit", func(t *testing.T) {
		base := date(t, "2025-01-01")
		for _, unit := range []Unit{UnitDay, UnitMonth, UnitYear} {
			for days := -10; days < 1500; days += 37 {
				end := base.AddDate(0, 0, days)
				n := PlanOccurrenceCount(base, Rule{Unit: unit, Every: 1}, &end, 3)
				require.LessOrEqual(t, n, 3)
				require.GreaterOrEqual(t, n, 0)
			}
		}
	})
}

func TestExpand(t *testing.T) {
	end := date(t, "2025-03-01")
	got := Expand(date(t, "2025-01-31"), Rule{Unit: UnitMonth, Every: 1}, &end, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-31", got[0].Format(DateLayout))
	assert.Equal(t, "2025-02-28", got[1].Format(DateLayout))
}

func TestFirstIterationOnOrAfter(t *testing.T) {
	cases := []struct {
		name  string
		base  string
		rule  Rule
		floor string
		want  int
	}{
		{"base already on or after floor", "2025-06-01", Rule{Unit: UnitDay, Every: 7}, "2025-05-01", 0},
		{"floor equal to first due date", "2025-06-01", Rule{Unit: UnitDay, Every: 7, FirstDueOffsetDays: 2}, "2025-06-03", 0},
		{"days land exactly", "2025-06-01", Rule{Unit: UnitDay, Every: 7}, "2025-06-15", 2},
		{"days round up", "2025-06-01", Rule{Unit: UnitDay, Every: 7}, "2025-06-16", 3},
		{"month end phase kept", "2024-01-31", Rule{Unit: UnitMonth, Every: 1}, "2025-03-10", 14},
		{"clamped month counts", "2025-01-31", Rule{Unit: UnitMonth, Every: 1}, "2025-02-28", 1},
		{"every six months", "2025-02-03", Rule{Unit: UnitMonth, Every: 6}, "2026-01-01", 2},
		{"years from a leap day", "2024-02-29", Rule{Unit: UnitYear, Every: 1}, "2027-03-01", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base, floor := date(t, tc.base), date(t, tc.floor)
			got := FirstIterationOnOrAfter(base, tc.rule, floor)
			assert.Equal(t, tc.want, got)
			assert.False(t, ComputeDueDate(base, tc.rule, got).Before(floor))
			if got > 0 {
				assert.True(t, ComputeDueDate(base, tc.rule, got-1).Before(floor))
			}
		})
	}
}

func TestExpandFrom(t *testing.T) {
	base := date(t, "2024-01-31")
	r := Rule{Unit: UnitMonth, Every: 1}

	got := ExpandFrom(base, r, 14, nil, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-03-31", got[0].Format(DateLayout))
	assert.Equal(t, "2025-04-30", got[1].Format(DateLayout))
	assert.Equal(t, "2025-05-31", got[2].Format(DateLayout))

	end := date(t, "2025-04-30")
	assert.Len(t, ExpandFrom(base, r, 14, &end, 3), 2)
	assert.Empty(t, ExpandFrom(base, r, 14, nil, 0))
}
