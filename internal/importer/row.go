package importer

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"marginalia/internal/logging"
	"marginalia/internal/services"
	"marginalia/internal/textutil"
)

// nullMarker is the literal a database dump writes for a NULL date cell.
const nullMarker = `\N`

// dateLayouts are tried in order against row date cells. Layouts without a
// zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// row is one normalized input line.
type row struct {
	id      string
	created time.Time
	comment string
	rating  int

	hasComment bool
	hasRating  bool
}

// skipError marks a row condition that skips the row without aborting the
// run.
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

// normalizer converts raw field slices into rows using the configured
// column positions. Indices are held zero-based; -1 disables the attribute.
type normalizer struct {
	idIdx      int
	dateIdx    int
	commentIdx int
	ratingIdx  int

	multiplier  float64
	defaultDate time.Time
	logger      *slog.Logger
}

func newNormalizer(opts Options, defaultDate time.Time, logger *slog.Logger) *normalizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &normalizer{
		idIdx:       opts.IDColumn - 1,
		dateIdx:     opts.DateColumn - 1,
		commentIdx:  opts.CommentColumn - 1,
		ratingIdx:   opts.RatingColumn - 1,
		multiplier:  opts.RatingMultiplier,
		defaultDate: defaultDate,
		logger:      logger,
	}
}

// normalize converts one parsed line into a row. A *skipError return skips
// the row; any other error aborts the run.
func (n *normalizer) normalize(fields []string, rowNum int64) (*row, error) {
	if len(fields) < 2 {
		return nil, services.Wrap(services.ErrValidation, "import", "parse row",
			fmt.Sprintf("row %d has %d fields, at least 2 required", rowNum, len(fields)), nil)
	}

	r := &row{created: n.defaultDate}

	if value, ok := cell(fields, n.idIdx); ok {
		r.id = strings.TrimSpace(value)
	}

	if value, ok := cell(fields, n.dateIdx); ok {
		r.created = n.parseDate(value, rowNum)
	}

	if value, ok := cell(fields, n.commentIdx); ok {
		if text := strings.TrimSpace(textutil.CollapseEscapes(value)); text != "" {
			r.comment = text
			r.hasComment = true
		}
	}

	if value, ok := cell(fields, n.ratingIdx); ok {
		rating, err := n.normalizeRating(value)
		if err != nil {
			return nil, err
		}
		if rating > 0 {
			r.rating = rating
			r.hasRating = true
		}
	}

	return r, nil
}

// parseDate maps a date cell to the comment timestamp. The null marker
// synthesizes defaultDate + rowNum seconds so repeated markers stay
// distinct and strictly increasing across the file.
func (n *normalizer) parseDate(value string, rowNum int64) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return n.defaultDate
	}
	if value == nullMarker {
		return n.defaultDate.Add(time.Duration(rowNum) * time.Second)
	}
	if parsed, ok := parseDateValue(value); ok {
		return parsed
	}
	n.logger.Warn("unparseable date, using default",
		logging.Int64("row", rowNum),
		logging.String("value", value))
	return n.defaultDate
}

// normalizeRating maps a raw rating cell onto the 0-100 scale. Zero means
// no rating; values that multiply out of range reject the whole row.
func (n *normalizer) normalizeRating(value string) (int, error) {
	raw, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		raw = 0
	}
	rating := int(math.Round(raw * n.multiplier))
	if rating < 0 || rating > 100 {
		return 0, &skipError{reason: fmt.Sprintf("rating %d out of range", rating)}
	}
	if rating > 0 && rating < 10 {
		rating = 10
	}
	return rating, nil
}

// parseDateValue tries the known layouts, then a bare seconds-since-epoch
// number.
func parseDateValue(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	if isDigits(value) {
		if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// cell returns the value at a zero-based index, reporting absence for
// disabled columns and rows shorter than the configured position.
func cell(fields []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(fields) {
		return "", false
	}
	return fields[idx], true
}
