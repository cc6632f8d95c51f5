package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/repository"
)

// Timeframes accepted by the analytics endpoint.
const (
	TimeframeToday     = "today"
	TimeframeYesterday = "yesterday"
	Timeframe7Days     = "7days"
	Timeframe30Days    = "30days"
	TimeframeAllTime   = "alltime"
	TimeframeCustom    = "custom"

	dateLayout            = "2006-01-02"
	day                   = 24 * time.Hour
	DefaultAllTimeRowCap  = 10000
	DefaultMaxCustomDays  = 366
	defaultAnalyticsFrame = Timeframe7Days
)

// AnalyticsLimits bound how much one analytics request may read.
type AnalyticsLimits struct {
	// RowCap caps the events read for alltime and custom ranges.
	RowCap int
	// MaxCustomDays is the longest custom range, end date included.
	MaxCustomDays int
}

func (l AnalyticsLimits) withDefaults() AnalyticsLimits {
	if l.RowCap <= 0 {
		l.RowCap = DefaultAllTimeRowCap
	}
	if l.MaxCustomDays <= 0 {
		l.MaxCustomDays = DefaultMaxCustomDays
	}
	return l
}

// AnalyticsQuery are the analytics request parameters.
type AnalyticsQuery struct {
	Timeframe string
	WhopID    string
	StartDate string
	EndDate   string
	Debug     bool
}

// TimeRange is a resolved [From, To) window. A zero From is unbounded.
type TimeRange struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Totals counts events by action.
type Totals struct {
	Events      int `json:"events"`
	CodeReveals int `json:"codeReveals"`
	OfferClicks int `json:"offerClicks"`
}

func (t *Totals) add(a models.ActionType) {
	t.Events++
	switch a {
	case models.ActionCodeReveal:
		t.CodeReveals++
	case models.ActionOfferClick:
		t.OfferClicks++
	}
}

// DayBucket is one calendar day (UTC).
type DayBucket struct {
	Date string `json:"date"`
	Totals
}

// WhopBreakdown is one whop's share of the events.
type WhopBreakdown struct {
	WhopID   string `json:"whopId"`
	WhopName string `json:"whopName"`
	Totals
}

// Analytics is the analytics endpoint body.
type Analytics struct {
	Timeframe string          `json:"timeframe"`
	From      *time.Time      `json:"from,omitempty"`
	To        time.Time       `json:"to"`
	Totals    Totals          `json:"totals"`
	Daily     []DayBucket     `json:"daily"`
	ByWhop    []WhopBreakdown `json:"byWhop"`
	Truncated bool            `json:"truncated"`
	Debug     *AnalyticsDebug `json:"debug,omitempty"`
}

// AnalyticsDebug echoes how the query was resolved.
type AnalyticsDebug struct {
	WhopID   string `json:"whopId,omitempty"`
	RowCount int    `json:"rowCount"`
	RowLimit int    `json:"rowLimit"`
}

// AnalyticsService aggregates tracking events.
type AnalyticsService struct {
	events EventStore
	limits AnalyticsLimits
	now    func() time.Time
}

func NewAnalyticsService(events EventStore, limits AnalyticsLimits) *AnalyticsService {
	return &AnalyticsService{events: events, limits: limits.withDefaults(), now: time.Now}
}

// Get resolves q's timeframe, loads the matching events and aggregates them.
func (s *AnalyticsService) Get(ctx context.Context, q AnalyticsQuery) (*Analytics, error) {
	tf := strings.ToLower(strings.TrimSpace(q.Timeframe))
	if tf == "" {
		tf = defaultAnalyticsFrame
	}
	r, err := ResolveTimeframe(tf, q.StartDate, q.EndDate, s.now(), s.limits)
	if err != nil {
		return nil, err
	}

	rows, err := s.events.Events(ctx, repository.EventQuery{
		From:   r.From,
		To:     r.To,
		WhopID: strings.TrimSpace(q.WhopID),
		Limit:  r.Limit,
	})
	if err != nil {
		return nil, err
	}

	a := Aggregate(rows, r)
	a.Timeframe = tf
	a.Truncated = r.Limit > 0 && len(rows) >= r.Limit
	if q.Debug {
		a.Debug = &AnalyticsDebug{WhopID: q.WhopID, RowCount: len(rows), RowLimit: r.Limit}
	}
	return a, nil
}

// ResolveTimeframe turns a timeframe name into a UTC window ending no later
// than now. Custom ranges include their end date.
func ResolveTimeframe(tf, startDate, endDate string, now time.Time, limits AnalyticsLimits) (TimeRange, error) {
	limits = limits.withDefaults()
	now = now.UTC()
	midnight := now.Truncate(day)
	end := now.Add(time.Nanosecond)

	switch tf {
	case TimeframeToday:
		return TimeRange{From: midnight, To: end}, nil
	case TimeframeYesterday:
		return TimeRange{From: midnight.Add(-day), To: midnight}, nil
	case Timeframe7Days:
		return TimeRange{From: midnight.Add(-6 * day), To: end}, nil
	case Timeframe30Days:
		return TimeRange{From: midnight.Add(-29 * day), To: end}, nil
	case TimeframeAllTime:
		return TimeRange{To: end, Limit: limits.RowCap}, nil
	case TimeframeCustom:
		return resolveCustom(startDate, endDate, limits)
	default:
		return TimeRange{}, invalid("timeframe", "must be one of today, yesterday, 7days, 30days, alltime, custom")
	}
}

func resolveCustom(startDate, endDate string, limits AnalyticsLimits) (TimeRange, error) {
	if startDate == "" || endDate == "" {
		return TimeRange{}, invalid("startDate", "custom timeframe needs startDate and endDate")
	}
	from, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return TimeRange{}, invalid("startDate", "must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return TimeRange{}, invalid("endDate", "must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return TimeRange{}, invalid("endDate", "must not be before startDate")
	}
	if days := int(to.Sub(from)/day) + 1; days > limits.MaxCustomDays {
		return TimeRange{}, invalid("endDate", fmt.Sprintf("range must not exceed %d days", limits.MaxCustomDays))
	}
	return TimeRange{From: from, To: to.Add(day), Limit: limits.RowCap}, nil
}

// Aggregate buckets rows by UTC day and by whop. Bounded ranges get a bucket
// for every day, including empty ones.
func Aggregate(rows []models.TrackingEventRow, r TimeRange) *Analytics {
	a := &Analytics{To: r.To, Daily: []DayBucket{}, ByWhop: []WhopBreakdown{}}
	if !r.From.IsZero() {
		from := r.From
		a.From = &from
	}

	days := make(map[string]*DayBucket)
	if !r.From.IsZero() {
		for d := r.From.UTC().Truncate(day); d.Before(r.To); d = d.Add(day) {
			key := d.Format(dateLayout)
			a.Daily = append(a.Daily, DayBucket{Date: key})
		}
		for i := range a.Daily {
			days[a.Daily[i].Date] = &a.Daily[i]
		}
	}

	whops := make(map[string]*WhopBreakdown)
	var whopOrder []string
	extraDays := make(map[string]*DayBucket)

	for _, row := range rows {
		a.Totals.add(row.ActionType)

		key := row.CreatedAt.UTC().Format(dateLayout)
		b, ok := days[key]
		if !ok {
			b, ok = extraDays[key]
			if !ok {
				b = &DayBucket{Date: key}
				extraDays[key] = b
			}
		}
		b.add(row.ActionType)

		w, ok := whops[row.WhopID]
		if !ok {
			w = &WhopBreakdown{WhopID: row.WhopID, WhopName: row.WhopName}
			whops[row.WhopID] = w
			whopOrder = append(whopOrder, row.WhopID)
		}
		if w.WhopName == "" {
			w.WhopName = row.WhopName
		}
		w.add(row.ActionType)
	}

	for _, b := range extraDays {
		a.Daily = append(a.Daily, *b)
	}
	sort.SliceStable(a.Daily, func(i, j int) bool { return a.Daily[i].Date < a.Daily[j].Date })

	for _, id := range whopOrder {
		a.ByWhop = append(a.ByWhop, *whops[id])
	}
	sort.SliceStable(a.ByWhop, func(i, j int) bool {
		if a.ByWhop[i].Events != a.ByWhop[j].Events {
			return a.ByWhop[i].Events > a.ByWhop[j].Events
		}
		return a.ByWhop[i].WhopID < a.ByWhop[j].WhopID
	})
	return a
}
