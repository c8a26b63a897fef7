package domain

import (
	"time"
)

// TranslationUnavailable is the placeholder stored when no translation could
// be resolved. A record carrying it is re-attempted on the next lookup.
const TranslationUnavailable = "<unavailable>"

// dayKeyLayout is the calendar-day bucket format, always in local wall-clock
// terms so that day boundaries match what the user sees.
const dayKeyLayout = "2006-01-02"

// WordRecord is the per-word statistics record, keyed by the normalized word.
type WordRecord struct {
	Word        string         `json:"word"`
	Count       int            `json:"count"`
	Translation string         `json:"translation"`
	Stats       map[string]int `json:"stats"`
	LastSeen    time.Time      `json:"lastSeen"`
	LastURL     string         `json:"lastUrl"`
}

// NewWordRecord returns a zero-value record for a word that has never been
// looked up. Records are created lazily on the first valid lookup.
func NewWordRecord(word string) *WordRecord {
	return &WordRecord{
		Word:  word,
		Stats: map[string]int{},
	}
}

// DayKey formats t as a calendar-day bucket key in the given location.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// ParseDayKey parses a bucket key back into the midnight instant of that day
// in the given location. Returns false for keys that are not valid dates.
func ParseDayKey(key string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(dayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RecordLookup applies one lookup event to the record: the total count and
// today's bucket each grow by one, LastSeen moves forward, and LastURL is
// replaced only when the event carries a URL.
func (r *WordRecord) RecordLookup(now time.Time, loc *time.Location, pageURL string) {
	if r.Stats == nil {
		r.Stats = map[string]int{}
	}
	r.Count++
	r.Stats[DayKey(now, loc)]++
	r.LastSeen = now
	if pageURL != "" {
		r.LastURL = pageURL
	}
}

// NeedsTranslation reports whether a translation should be fetched on the
// next lookup: either none was ever resolved, or only the unavailable
// sentinel is stored.
func (r *WordRecord) NeedsTranslation() bool {
	return r.Translation == "" || r.Translation == TranslationUnavailable
}

// StatsFor returns the bucket value for the given day key, zero if absent.
func (r *WordRecord) StatsFor(key string) int {
	return r.Stats[key]
}

// PruneStatsBefore removes day buckets whose calendar day starts before the
// cutoff instant. Keys that do not parse as dates are removed as well.
// Count is never touched: it is the sum of everything ever added to Stats,
// including what pruning discards. Reports whether the map shrank.
func (r *WordRecord) PruneStatsBefore(cutoff time.Time, loc *time.Location) bool {
	changed := false
	for key := range r.Stats {
		day, ok := ParseDayKey(key, loc)
		if !ok || day.Before(cutoff) {
			delete(r.Stats, key)
			changed = true
		}
	}
	return changed
}
