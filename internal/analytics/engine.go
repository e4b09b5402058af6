// Package analytics turns the raw rows fetched by database/analytics into
// the aggregate views served by the analysis endpoints. All bucketing, tier
// assignment and percentage math happens here, in Go, so the storage queries
// stay dialect-portable.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	dbanalytics "github.com/spellbook/spellbook/internal/database/analytics"
	"github.com/spellbook/spellbook/internal/entities"
)

// Grouping granularities accepted by Progress.
const (
	GroupByHour  = "hour"
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// ValidGroupBy reports whether g is a supported progress granularity.
func ValidGroupBy(g string) bool {
	switch g {
	case GroupByHour, GroupByDay, GroupByWeek, GroupByMonth:
		return true
	}
	return false
}

// WindowStart converts a trailing-days window into an absolute cutoff.
// Non-positive days means no cutoff.
func WindowStart(now time.Time, days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

// ErrorTypeShare is one slice of the error-type distribution.
type ErrorTypeShare struct {
	ErrorType  entities.ErrorType `json:"error_type"`
	Count      int                `json:"count"`
	Percentage float64            `json:"percentage"`
}

// DailyActivity is one day's session and error totals with the day's
// average accuracy across recorded stats.
type DailyActivity struct {
	Date            string  `json:"date"`
	Sessions        int     `json:"sessions"`
	Errors          int     `json:"errors"`
	AverageAccuracy float64 `json:"average_accuracy"`
}

// TopErrorWord is one entry of the most-missed-words ranking.
type TopErrorWord struct {
	WordID     uint    `json:"word_id"`
	Word       string  `json:"word"`
	Definition string  `json:"definition,omitempty"`
	ErrorCount int     `json:"error_count"`
	Percentage float64 `json:"percentage"`
}

// WeeklyTrend is one ISO week's totals.
type WeeklyTrend struct {
	Week             string  `json:"week"`
	Sessions         int     `json:"sessions"`
	Errors           int     `json:"errors"`
	AverageAccuracy  float64 `json:"average_accuracy"`
	TotalTimeSeconds int     `json:"total_time_seconds"`
}

// Overview is the learning-overview response body.
type Overview struct {
	PeriodDays          int              `json:"period_days"`
	TotalSessions       int              `json:"total_sessions"`
	CompletedSessions   int              `json:"completed_sessions"`
	TotalWordsPracticed int              `json:"total_words_practiced"`
	TotalErrors         int              `json:"total_errors"`
	AverageAccuracy     float64          `json:"average_accuracy"`
	TotalTimeSeconds    int              `json:"total_time_seconds"`
	ErrorTypes          []ErrorTypeShare `json:"error_types"`
	DailyActivity       []DailyActivity  `json:"daily_activity"`
	TopErrorWords       []TopErrorWord   `json:"top_error_words"`
	WeeklyTrend         []WeeklyTrend    `json:"weekly_trend"`
}

func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// BuildOverview aggregates a window of sessions and errors into the overview
// view. Percentages use the window's error total as denominator.
func BuildOverview(days int, sessions []dbanalytics.SessionRow, errs []dbanalytics.ErrorRow, distinctWords int) *Overview {
	o := &Overview{
		PeriodDays:          days,
		TotalSessions:       len(sessions),
		TotalWordsPracticed: distinctWords,
		ErrorTypes:          []ErrorTypeShare{},
		DailyActivity:       []DailyActivity{},
		TopErrorWords:       []TopErrorWord{},
		WeeklyTrend:         []WeeklyTrend{},
	}

	var accuracySum float64
	var withStats int
	for _, s := range sessions {
		if s.Status == entities.SessionStatusCompleted {
			o.CompletedSessions++
		}
		o.TotalTimeSeconds += s.TotalTimeSeconds
		if s.StatsID != nil {
			accuracySum += s.AccuracyRate
			withStats++
		}
	}
	if withStats > 0 {
		o.AverageAccuracy = round2(accuracySum / float64(withStats))
	}

	byType := map[entities.ErrorType]int{}
	byDayErrors := map[string]int{}
	byWeekErrors := map[string]int{}
	type wordAgg struct {
		word       string
		definition string
		count      int
	}
	byWord := map[uint]*wordAgg{}
	for _, e := range errs {
		o.TotalErrors += e.ErrorCount
		byType[e.ErrorType] += e.ErrorCount
		byDayErrors[e.CreatedAt.Format("2006-01-02")] += e.ErrorCount
		byWeekErrors[isoWeek(e.CreatedAt)] += e.ErrorCount
		agg := byWord[e.WordID]
		if agg == nil {
			agg = &wordAgg{word: e.Word, definition: e.Definition}
			byWord[e.WordID] = agg
		}
		agg.count += e.ErrorCount
	}

	for _, t := range []entities.ErrorType{entities.ErrorTypeSpelling, entities.ErrorTypePronunciation, entities.ErrorTypeRecognition} {
		if count, ok := byType[t]; ok {
			o.ErrorTypes = append(o.ErrorTypes, ErrorTypeShare{
				ErrorType:  t,
				Count:      count,
				Percentage: percentage(count, o.TotalErrors),
			})
		}
	}
	sort.SliceStable(o.ErrorTypes, func(i, j int) bool {
		return o.ErrorTypes[i].Count > o.ErrorTypes[j].Count
	})

	byDaySessions := map[string]int{}
	byDayAccuracy := map[string][]float64{}
	byWeekSessions := map[string]int{}
	byWeekAccuracy := map[string][]float64{}
	byWeekTime := map[string]int{}
	for _, s := range sessions {
		day := s.CreatedAt.Format("2006-01-02")
		week := isoWeek(s.CreatedAt)
		byDaySessions[day]++
		byWeekSessions[week]++
		byWeekTime[week] += s.TotalTimeSeconds
		if s.StatsID != nil {
			byDayAccuracy[day] = append(byDayAccuracy[day], s.AccuracyRate)
			byWeekAccuracy[week] = append(byWeekAccuracy[week], s.AccuracyRate)
		}
	}

	dayKeys := map[string]bool{}
	for d := range byDaySessions {
		dayKeys[d] = true
	}
	for d := range byDayErrors {
		dayKeys[d] = true
	}
	for d := range dayKeys {
		activity := DailyActivity{
			Date:     d,
			Sessions: byDaySessions[d],
			Errors:   byDayErrors[d],
		}
		if rates := byDayAccuracy[d]; len(rates) > 0 {
			var sum float64
			for _, rate := range rates {
				sum += rate
			}
			activity.AverageAccuracy = round2(sum / float64(len(rates)))
		}
		o.DailyActivity = append(o.DailyActivity, activity)
	}
	sort.Slice(o.DailyActivity, func(i, j int) bool {
		return o.DailyActivity[i].Date < o.DailyActivity[j].Date
	})

	for id, agg := range byWord {
		o.TopErrorWords = append(o.TopErrorWords, TopErrorWord{
			WordID:     id,
			Word:       agg.word,
			Definition: agg.definition,
			ErrorCount: agg.count,
			Percentage: percentage(agg.count, o.TotalErrors),
		})
	}
	sort.Slice(o.TopErrorWords, func(i, j int) bool {
		if o.TopErrorWords[i].ErrorCount != o.TopErrorWords[j].ErrorCount {
			return o.TopErrorWords[i].ErrorCount > o.TopErrorWords[j].ErrorCount
		}
		return o.TopErrorWords[i].Word < o.TopErrorWords[j].Word
	})
	if len(o.TopErrorWords) > 10 {
		o.TopErrorWords = o.TopErrorWords[:10]
	}

	weeks := map[string]bool{}
	for w := range byWeekSessions {
		weeks[w] = true
	}
	for w := range byWeekErrors {
		weeks[w] = true
	}
	for w := range weeks {
		trend := WeeklyTrend{
			Week:             w,
			Sessions:         byWeekSessions[w],
			Errors:           byWeekErrors[w],
			TotalTimeSeconds: byWeekTime[w],
		}
		if rates := byWeekAccuracy[w]; len(rates) > 0 {
			var sum float64
			for _, rate := range rates {
				sum += rate
			}
			trend.AverageAccuracy = round2(sum / float64(len(rates)))
		}
		o.WeeklyTrend = append(o.WeeklyTrend, trend)
	}
	sort.Slice(o.WeeklyTrend, func(i, j int) bool {
		return o.WeeklyTrend[i].Week < o.WeeklyTrend[j].Week
	})

	return o
}

// ProgressBucket is one time bucket of the progress rollup.
type ProgressBucket struct {
	Period           string  `json:"period"`
	Sessions         int     `json:"sessions"`
	DistinctWords    int     `json:"distinct_words"`
	Errors           int     `json:"errors"`
	AverageAccuracy  float64 `json:"average_accuracy"`
	TotalTimeSeconds int     `json:"total_time_seconds"`
}

func bucketKey(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByHour:
		return t.Format("2006-01-02 15:00")
	case GroupByWeek:
		return isoWeek(t)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// BuildProgress buckets sessions, their words and errors by the requested
// granularity, ordered oldest bucket first.
func BuildProgress(groupBy string, sessions []dbanalytics.SessionRow, errs []dbanalytics.ErrorRow, pairs []dbanalytics.SessionWordPair) []ProgressBucket {
	sessionBucket := map[uint]string{}
	type agg struct {
		sessions  int
		words     map[uint]bool
		errors    int
		accuracy  []float64
		timeSpent int
	}
	buckets := map[string]*agg{}
	get := func(key string) *agg {
		a := buckets[key]
		if a == nil {
			a = &agg{words: map[uint]bool{}}
			buckets[key] = a
		}
		return a
	}

	for _, s := range sessions {
		key := bucketKey(s.CreatedAt, groupBy)
		sessionBucket[s.ID] = key
		a := get(key)
		a.sessions++
		a.timeSpent += s.TotalTimeSeconds
		if s.StatsID != nil {
			a.accuracy = append(a.accuracy, s.AccuracyRate)
		}
	}
	for _, p := range pairs {
		if key, ok := sessionBucket[p.SessionID]; ok {
			get(key).words[p.WordID] = true
		}
	}
	for _, e := range errs {
		get(bucketKey(e.CreatedAt, groupBy)).errors += e.ErrorCount
	}

	out := make([]ProgressBucket, 0, len(buckets))
	for key, a := range buckets {
		b := ProgressBucket{
			Period:           key,
			Sessions:         a.sessions,
			DistinctWords:    len(a.words),
			Errors:           a.errors,
			TotalTimeSeconds: a.timeSpent,
		}
		if len(a.accuracy) > 0 {
			var sum float64
			for _, rate := range a.accuracy {
				sum += rate
			}
			b.AverageAccuracy = round2(sum / float64(len(a.accuracy)))
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// Mastery tiers, from fully learned to chronically missed.
const (
	TierMastered      = "mastered"
	TierGood          = "good"
	TierNeedsPractice = "needs_practice"
	TierDifficult     = "difficult"
)

// MasteryTier maps a word's summed error count to its tier.
func MasteryTier(errors int) string {
	switch {
	case errors == 0:
		return TierMastered
	case errors <= 2:
		return TierGood
	case errors <= 5:
		return TierNeedsPractice
	default:
		return TierDifficult
	}
}

// MasteryWord is one practiced word with its tier.
type MasteryWord struct {
	WordID           uint    `json:"word_id"`
	Word             string  `json:"word"`
	Definition       string  `json:"definition,omitempty"`
	PracticeSessions int     `json:"practice_sessions"`
	Errors           int     `json:"errors"`
	ErrorRate        float64 `json:"error_rate"`
	Tier             string  `json:"tier"`
}

// TierSummary is one tier's share of the practiced words.
type TierSummary struct {
	Tier       string  `json:"tier"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Mastery is the word-mastery response body.
type Mastery struct {
	TotalWords int           `json:"total_words"`
	Summary    []TierSummary `json:"summary"`
	Words      []MasteryWord `json:"words"`
}

// BuildMastery joins practice counts with error sums and tiers every word
// that was practiced at least once in the window. The word list is sorted by
// error rate ascending, more-practiced words first on ties.
func BuildMastery(practice []dbanalytics.PracticeRow, errorSums []dbanalytics.ErrorSumRow, limit int) *Mastery {
	errorsByWord := map[uint]int{}
	for _, e := range errorSums {
		errorsByWord[e.WordID] = e.Errors
	}

	m := &Mastery{Summary: []TierSummary{}, Words: []MasteryWord{}}
	tierCounts := map[string]int{}
	for _, p := range practice {
		if p.Sessions == 0 {
			continue
		}
		errs := errorsByWord[p.WordID]
		tier := MasteryTier(errs)
		tierCounts[tier]++
		m.Words = append(m.Words, MasteryWord{
			WordID:           p.WordID,
			Word:             p.Word,
			Definition:       p.Definition,
			PracticeSessions: p.Sessions,
			Errors:           errs,
			ErrorRate:        round2(float64(errs) / float64(p.Sessions)),
			Tier:             tier,
		})
	}
	m.TotalWords = len(m.Words)

	sort.SliceStable(m.Words, func(i, j int) bool {
		if m.Words[i].ErrorRate != m.Words[j].ErrorRate {
			return m.Words[i].ErrorRate < m.Words[j].ErrorRate
		}
		return m.Words[i].PracticeSessions > m.Words[j].PracticeSessions
	})
	if limit > 0 && len(m.Words) > limit {
		m.Words = m.Words[:limit]
	}

	for _, tier := range []string{TierMastered, TierGood, TierNeedsPractice, TierDifficult} {
		m.Summary = append(m.Summary, TierSummary{
			Tier:       tier,
			Count:      tierCounts[tier],
			Percentage: percentage(tierCounts[tier], m.TotalWords),
		})
	}
	return m
}

// ReviewWord is a word recommended for review because it keeps being missed.
type ReviewWord struct {
	WordID         uint      `json:"word_id"`
	Word           string    `json:"word"`
	Definition     string    `json:"definition,omitempty"`
	Errors         int       `json:"errors"`
	ErrorFrequency float64   `json:"error_frequency"`
	LastError      time.Time `json:"last_error"`
}

// Recommendations is the study-recommendations response body.
type Recommendations struct {
	Review   []ReviewWord    `json:"review"`
	NewWords []entities.Word `json:"new_words"`
	Total    int             `json:"total"`
}

// BuildRecommendations ranks repeatedly-missed words by error frequency
// (summed errors divided by days since the first error, floored at one day)
// and attaches never-practiced words as fresh material.
func BuildRecommendations(now time.Time, errorSums []dbanalytics.ErrorSumRow, neverPracticed []entities.Word, limit int) *Recommendations {
	rec := &Recommendations{Review: []ReviewWord{}, NewWords: neverPracticed}
	if rec.NewWords == nil {
		rec.NewWords = []entities.Word{}
	}

	for _, e := range errorSums {
		if e.Errors < 2 {
			continue
		}
		daysSince := int(now.Sub(e.FirstError).Hours() / 24)
		if daysSince < 1 {
			daysSince = 1
		}
		rec.Review = append(rec.Review, ReviewWord{
			WordID:         e.WordID,
			Word:           e.Word,
			Definition:     e.Definition,
			Errors:         e.Errors,
			ErrorFrequency: round2(float64(e.Errors) / float64(daysSince)),
			LastError:      e.LastError,
		})
	}
	sort.SliceStable(rec.Review, func(i, j int) bool {
		if rec.Review[i].ErrorFrequency != rec.Review[j].ErrorFrequency {
			return rec.Review[i].ErrorFrequency > rec.Review[j].ErrorFrequency
		}
		return rec.Review[i].LastError.Before(rec.Review[j].LastError)
	})
	if limit > 0 && len(rec.Review) > limit {
		rec.Review = rec.Review[:limit]
	}

	rec.Total = len(rec.Review) + len(rec.NewWords)
	return rec
}

// SessionErrorDetail is one error row of the session analysis.
type SessionErrorDetail struct {
	WordID     uint               `json:"word_id"`
	Word       string             `json:"word"`
	ErrorType  entities.ErrorType `json:"error_type"`
	ErrorCount int                `json:"error_count"`
	Percentage float64            `json:"percentage"`
}

// SessionAnalysis is the per-session breakdown.
type SessionAnalysis struct {
	Session     *entities.TrainingSession `json:"session"`
	Stats       *entities.TrainingStats   `json:"stats,omitempty"`
	TotalErrors int                       `json:"total_errors"`
	ErrorTypes  []ErrorTypeShare          `json:"error_types"`
	Errors      []SessionErrorDetail      `json:"errors"`
}

// BuildSessionAnalysis computes per-word and per-type percentages for one
// session's recorded errors.
func BuildSessionAnalysis(session *entities.TrainingSession, stats *entities.TrainingStats, errs []dbanalytics.ErrorRow) *SessionAnalysis {
	a := &SessionAnalysis{
		Session:    session,
		Stats:      stats,
		ErrorTypes: []ErrorTypeShare{},
		Errors:     []SessionErrorDetail{},
	}

	byType := map[entities.ErrorType]int{}
	for _, e := range errs {
		a.TotalErrors += e.ErrorCount
		byType[e.ErrorType] += e.ErrorCount
	}
	for _, t := range []entities.ErrorType{entities.ErrorTypeSpelling, entities.ErrorTypePronunciation, entities.ErrorTypeRecognition} {
		if count, ok := byType[t]; ok {
			a.ErrorTypes = append(a.ErrorTypes, ErrorTypeShare{
				ErrorType:  t,
				Count:      count,
				Percentage: percentage(count, a.TotalErrors),
			})
		}
	}
	for _, e := range errs {
		a.Errors = append(a.Errors, SessionErrorDetail{
			WordID:     e.WordID,
			Word:       e.Word,
			ErrorType:  e.ErrorType,
			ErrorCount: e.ErrorCount,
			Percentage: percentage(e.ErrorCount, a.TotalErrors),
		})
	}
	return a
}
