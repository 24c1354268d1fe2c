package importer

import (
	"errors"
	"testing"
	"time"

	"marginalia/internal/services"
)

func testOptions() Options {
	return Options{
		InputPath:        "export.csv",
		Source:           "helmet",
		LogPath:          "import.log",
		IDColumn:         1,
		DateColumn:       2,
		CommentColumn:    3,
		RatingColumn:     4,
		RatingMultiplier: 1,
	}
}

func TestNormalizeRow(t *testing.T) {
	defaultDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := newNormalizer(testOptions(), defaultDate, nil)

	r, err := n.normalize([]string{"123", "2024-03-02 10:30:00", `A fine \"classic\".`, "80"}, 1)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if r.id != "123" {
		t.Fatalf("id = %q, want %q", r.id, "123")
	}
	want := time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)
	if !r.created.Equal(want) {
		t.Fatalf("created = %v, want %v", r.created, want)
	}
	if !r.hasComment || r.comment != `A fine "classic".` {
		t.Fatalf("comment = %q (present=%v)", r.comment, r.hasComment)
	}
	if !r.hasRating || r.rating != 80 {
		t.Fatalf("rating = %d (present=%v)", r.rating, r.hasRating)
	}
}

func TestNormalizeMalformedRow(t *testing.T) {
	n := newNormalizer(testOptions(), time.Now(), nil)

	_, err := n.normalize([]string{"only one field"}, 7)
	if err == nil {
		t.Fatal("expected error for a single-field row")
	}
	var skip *skipError
	if errors.As(err, &skip) {
		t.Fatalf("malformed row classified as a skip: %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeNullMarkerSynthesizesDates(t *testing.T) {
	defaultDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := newNormalizer(testOptions(), defaultDate, nil)

	for _, rowNum := range []int64{1, 2, 5} {
		r, err := n.normalize([]string{"123", `\N`, "some text", ""}, rowNum)
		if err != nil {
			t.Fatalf("normalize row %d: %v", rowNum, err)
		}
		want := defaultDate.Add(time.Duration(rowNum) * time.Second)
		if !r.created.Equal(want) {
			t.Fatalf("row %d created = %v, want %v", rowNum, r.created, want)
		}
	}
}

func TestNormalizeUnparseableDateFallsBack(t *testing.T) {
	defaultDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := newNormalizer(testOptions(), defaultDate, nil)

	r, err := n.normalize([]string{"123", "not a date", "some text", ""}, 3)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !r.created.Equal(defaultDate) {
		t.Fatalf("created = %v, want default %v", r.created, defaultDate)
	}
}

func TestParseDateValueLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-03-02T10:30:00Z", time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)},
		{"2024-03-02 10:30:00", time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)},
		{"2024-03-02", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"2.3.2024", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"2.3.2024 10:30", time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)},
		{"2.3.2024 10:30:45", time.Date(2024, 3, 2, 10, 30, 45, 0, time.UTC)},
		{"3/2/2024", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"1136239445", time.Unix(1136239445, 0).UTC()},
	}
	for _, tt := range tests {
		parsed, ok := parseDateValue(tt.value)
		if !ok {
			t.Errorf("parseDateValue(%q) not parsed", tt.value)
			continue
		}
		if !parsed.Equal(tt.want) {
			t.Errorf("parseDateValue(%q) = %v, want %v", tt.value, parsed, tt.want)
		}
	}

	if _, ok := parseDateValue("next tuesday"); ok {
		t.Error("parseDateValue accepted free-form text")
	}
}

func TestNormalizeRatings(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		multiplier float64
		want       int
		absent     bool
		skip       bool
	}{
		{name: "plain", value: "80", multiplier: 1, want: 80},
		{name: "boundary high", value: "100", multiplier: 1, want: 100},
		{name: "scaled", value: "4.6", multiplier: 10, want: 46},
		{name: "rounds to boundary", value: "10.04", multiplier: 10, want: 100},
		{name: "floors to half star", value: "4", multiplier: 1, want: 10},
		{name: "zero absent", value: "0", multiplier: 1, absent: true},
		{name: "rounds to zero absent", value: "0.4", multiplier: 1, absent: true},
		{name: "unparseable absent", value: "four stars", multiplier: 1, absent: true},
		{name: "empty absent", value: "", multiplier: 1, absent: true},
		{name: "above range", value: "11", multiplier: 10, skip: true},
		{name: "below range", value: "-1", multiplier: 1, skip: true},
		{name: "rounds above range", value: "10.05", multiplier: 10, skip: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.RatingMultiplier = tt.multiplier
			n := newNormalizer(opts, time.Now(), nil)

			r, err := n.normalize([]string{"123", "", "", tt.value}, 1)
			if tt.skip {
				var skip *skipError
				if !errors.As(err, &skip) {
					t.Fatalf("expected skip, got row %+v err %v", r, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if tt.absent {
				if r.hasRating {
					t.Fatalf("rating %d present, want absent", r.rating)
				}
				return
			}
			if !r.hasRating || r.rating != tt.want {
				t.Fatalf("rating = %d (present=%v), want %d", r.rating, r.hasRating, tt.want)
			}
		})
	}
}

func TestNormalizeDisabledColumns(t *testing.T) {
	defaultDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts := testOptions()
	opts.DateColumn = 0
	opts.CommentColumn = 0
	n := newNormalizer(opts, defaultDate, nil)

	r, err := n.normalize([]string{"123", "2024-03-02", "looks like a comment", "50"}, 1)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !r.created.Equal(defaultDate) {
		t.Fatalf("created = %v, want default %v with date column disabled", r.created, defaultDate)
	}
	if r.hasComment {
		t.Fatalf("comment %q present with comment column disabled", r.comment)
	}
	if !r.hasRating || r.rating != 50 {
		t.Fatalf("rating = %d (present=%v), want 50", r.rating, r.hasRating)
	}
}

func TestNormalizeShortRow(t *testing.T) {
	defaultDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := newNormalizer(testOptions(), defaultDate, nil)

	r, err := n.normalize([]string{"123", "2024-03-02"}, 1)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if r.hasComment || r.hasRating {
		t.Fatalf("short row produced comment=%v rating=%v", r.hasComment, r.hasRating)
	}
	if r.id != "123" {
		t.Fatalf("id = %q, want %q", r.id, "123")
	}
}

func TestNormalizeTrimsCommentAndDropsEmpty(t *testing.T) {
	n := newNormalizer(testOptions(), time.Now(), nil)

	r, err := n.normalize([]string{"123", "", "   ", "50"}, 1)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if r.hasComment {
		t.Fatalf("whitespace-only comment kept: %q", r.comment)
	}

	r, err = n.normalize([]string{"123", "", "  trimmed  ", ""}, 2)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !r.hasComment || r.comment != "trimmed" {
		t.Fatalf("comment = %q, want %q", r.comment, "trimmed")
	}
}
