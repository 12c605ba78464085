package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

var rangeNow = time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)

func TestResolveRangeDaily(t *testing.T) {
	rng, err := ResolveRange(PeriodDaily, "2024-03-01", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, rng.From, rng.To)
	assert.Equal(t, "daily_2024-03-01", rng.Label)
}

func TestResolveRangeDailyDefaultsToToday(t *testing.T) {
	rng, err := ResolveRange(PeriodDaily, "", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, "daily_2024-03-15", rng.Label)
}

func TestResolveRangeWeeklyStartsMonday(t *testing.T) {
	// 2024-03-15 is a Friday; the containing week runs Mon 11th to Sun 17th.
	rng, err := ResolveRange(PeriodWeekly, "2024-03-15", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), rng.To)
	assert.Equal(t, "weekly_2024-03-11_to_2024-03-17", rng.Label)
}

func TestResolveRangeWeeklySundayBelongsToPreviousWeek(t *testing.T) {
	rng, err := ResolveRange(PeriodWeekly, "2024-03-17", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), rng.From)
}

func TestResolveRangeMonthly(t *testing.T) {
	rng, err := ResolveRange(PeriodMonthly, "2024-02", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), rng.To)
	assert.Equal(t, "monthly_2024_2", rng.Label)
}

func TestResolveRangeMonthlyDecember(t *testing.T) {
	rng, err := ResolveRange(PeriodMonthly, "2023-12", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), rng.To)
	assert.Equal(t, "monthly_2023_12", rng.Label)
}

func TestResolveRangeYearly(t *testing.T) {
	rng, err := ResolveRange(PeriodYearly, "2023", "", "", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), rng.To)
	assert.Equal(t, "yearly_2023", rng.Label)
}

func TestResolveRangeCustom(t *testing.T) {
	rng, err := ResolveRange(PeriodCustom, "", "2024-01-10", "2024-02-20", rangeNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), rng.To)
	assert.Equal(t, "custom_2024-01-10_to_2024-02-20", rng.Label)
}

func TestResolveRangeCustomMissingBounds(t *testing.T) {
	_, err := ResolveRange(PeriodCustom, "", "2024-01-10", "", rangeNow)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErr.Code)
}

func TestResolveRangeCustomInvertedBounds(t *testing.T) {
	_, err := ResolveRange(PeriodCustom, "", "2024-02-20", "2024-01-10", rangeNow)
	require.Error(t, err)
}

func TestResolveRangeBadDateFormat(t *testing.T) {
	cases := map[Period]string{
		PeriodDaily:   "15-03-2024",
		PeriodMonthly: "2024-03-15",
		PeriodYearly:  "24",
	}
	for period, raw := range cases {
		_, err := ResolveRange(period, raw, "", "", rangeNow)
		require.Error(t, err, string(period))
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrInvalidDate.Code, appErr.Code)
	}
}

func TestPeriodValid(t *testing.T) {
	assert.True(t, PeriodDaily.Valid())
	assert.True(t, PeriodCustom.Valid())
	assert.False(t, Period("hourly").Valid())
	assert.False(t, Period("").Valid())
}
