package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func rowEnding(id, end string) domain.Row {
	return domain.Row{
		Listing: &domain.Listing{ID: id, EndDate: end, Slug: "slug-" + id},
		Outcome: domain.SideYes,
	}
}

func TestParseEndDate(t *testing.T) {
	want := time.Date(2025, 3, 11, 8, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2025-03-11T08:30:00Z",
		"2025-03-11T08:30:00+00:00",
		"2025-03-11T08:30:00.000Z",
		"2025-03-11T10:30:00+02:00",
		"2025-03-11T08:30:00",
		"2025-03-11 08:30:00",
		" 2025-03-11T08:30:00Z ",
	} {
		got, err := ParseEndDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	d, err := ParseEndDate("2025-03-11")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"tomorrow", "2025-13-01T00:00:00Z", "11/03/2025"} {
		_, err := ParseEndDate(bad)
		assert.ErrorIs(t, err, domain.ErrMalformed, bad)
	}
}

func TestWindowInclusiveBounds(t *testing.T) {
	f := WindowFilter{Now: fixedNow, Hours: 48}
	rows := []domain.Row{
		rowEnding("at-now", fixedNow.Format(time.RFC3339)),
		rowEnding("at-limit", fixedNow.Add(48*time.Hour).Format(time.RFC3339)),
		rowEnding("past-limit", fixedNow.Add(48*time.Hour+time.Second).Format(time.RFC3339)),
		rowEnding("past-limit-nanos", fixedNow.Add(48*time.Hour+time.Nanosecond).Format(time.RFC3339Nano)),
		rowEnding("before-now", fixedNow.Add(-time.Second).Format(time.RFC3339)),
	}

	res := f.Apply(rows, NopObserver{})

	require.Len(t, res.In, 2)
	assert.Equal(t, "at-now", res.In[0].Listing.ID)
	assert.Zero(t, res.In[0].HoursRemaining)
	assert.Equal(t, "at-limit", res.In[1].Listing.ID)
	assert.Equal(t, 48.0, res.In[1].HoursRemaining)
	assert.Len(t, res.Out, 3)
}

func TestWindowDerivedFields(t *testing.T) {
	f := WindowFilter{Now: fixedNow, Hours: 48}
	end := fixedNow.Add(10*time.Hour + 15*time.Minute)
	noSlug := rowEnding("x", end.Format(time.RFC3339))
	noSlug.Listing.Slug = ""

	res := f.Apply([]domain.Row{rowEnding("a", end.Format(time.RFC3339)), noSlug}, NopObserver{})

	require.Len(t, res.In, 2)
	r := res.In[0]
	assert.True(t, end.Equal(r.ResolvesAt))
	assert.InDelta(t, 10.25, r.HoursRemaining, 1e-9)
	assert.Equal(t, "https://polymarket.com/event/slug-a", r.URL)
	assert.Empty(t, res.In[1].URL)
}

func TestWindowCustomTemplate(t *testing.T) {
	f := WindowFilter{Now: fixedNow, Hours: 1, URLTemplate: "https://polymarket.com/market/{slug}"}
	res := f.Apply([]domain.Row{rowEnding("a", fixedNow.Format(time.RFC3339))}, NopObserver{})
	require.Len(t, res.In, 1)
	assert.Equal(t, "https://polymarket.com/market/slug-a", res.In[0].URL)
}

func TestWindowMissingAndMalformed(t *testing.T) {
	rec := newRecorder()
	f := WindowFilter{Now: fixedNow, Hours: 48}
	rows := []domain.Row{
		rowEnding("missing", ""),
		rowEnding("garbage", "soon"),
	}

	res := f.Apply(rows, rec)

	assert.Empty(t, res.In)
	assert.Len(t, res.Out, 2)
	require.Len(t, rec.warnings, 1)
	assert.Equal(t, "garbage", rec.warnings[0].id)
	assert.True(t, res.Earliest.IsZero())
	assert.True(t, res.Latest.IsZero())
}

func TestWindowObservedRangeCoversAllRows(t *testing.T) {
	f := WindowFilter{Now: fixedNow, Hours: 48}
	early := fixedNow.Add(-72 * time.Hour)
	late := fixedNow.Add(400 * time.Hour)
	rows := []domain.Row{
		rowEnding("in", fixedNow.Add(time.Hour).Format(time.RFC3339)),
		rowEnding("late", late.Format(time.RFC3339)),
		rowEnding("early", early.Format(time.RFC3339)),
		rowEnding("bad", "n/a"),
	}

	res := f.Apply(rows, NopObserver{})

	assert.True(t, early.Equal(res.Earliest))
	assert.True(t, late.Equal(res.Latest))
	assert.Len(t, res.In, 1)
}

func TestWindowDoesNotTouchSource(t *testing.T) {
	rows := []domain.Row{rowEnding("a", fixedNow.Add(time.Hour).Format(time.RFC3339))}
	before := *rows[0].Listing

	res := WindowFilter{Now: fixedNow, Hours: 48}.Apply(rows, NopObserver{})

	require.Len(t, res.In, 1)
	assert.True(t, rows[0].ResolvesAt.IsZero())
	assert.Empty(t, rows[0].URL)
	assert.Equal(t, before, *rows[0].Listing)
}
