package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// MonthScheduleKey returns the cache key for a month's published schedule.
func (r *CacheKeyStruct) MonthScheduleKey(year int, month int) string {
	return fmt.Sprintf("schedule:%04d-%02d", year, month)
}

// PaperPayloadKey returns the cache key for a day's selected paper payload
// (student-facing, answer key stripped).
func (r *CacheKeyStruct) PaperPayloadKey(dateKey, subjectID string) string {
	return fmt.Sprintf("paper:%s:%s:payload", dateKey, subjectID)
}

// SessionAnswersKey returns the cache key for a session's autosaved answers.
func (r *CacheKeyStruct) SessionAnswersKey(sessionID string) string {
	return fmt.Sprintf("session:%s:answers", sessionID)
}

// StudentSessionKey returns the cache key mapping an identity to its live
// session for a given exam day, so a reload reattaches instead of reopening.
func (r *CacheKeyStruct) StudentSessionKey(personalKey, dateKey string) string {
	return fmt.Sprintf("student:%s:day:%s:session", personalKey, dateKey)
}

// SessionStartKey returns the cache key for a session's wall-clock start.
func (r *CacheKeyStruct) SessionStartKey(sessionID string) string {
	return fmt.Sprintf("session:%s:started_at", sessionID)
}

var CacheKey = NewCacheKeyStruct()
