package models

// SegmentFilter represents filter parameters for querying activity segments
type SegmentFilter struct {
	StartTime     int64   `form:"startTime"` // Unix timestamp
	EndTime       int64   `form:"endTime"`   // Unix timestamp
	Activity      string  `form:"activity"`
	PlaceID       string  `form:"placeId"`
	MinConfidence float64 `form:"minConfidence"` // 0-1
	Page          int     `form:"page"`
	PageSize      int     `form:"pageSize"`
}

// SummaryFilter represents filter parameters for querying hourly summaries
type SummaryFilter struct {
	LocalDate string `form:"date"`      // YYYY-MM-DD
	StartTime int64  `form:"startTime"` // Unix timestamp
	EndTime   int64  `form:"endTime"`   // Unix timestamp
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// EventFilter represents filter parameters for querying timeline events
type EventFilter struct {
	StartTime int64  `form:"startTime"` // Unix timestamp
	EndTime   int64  `form:"endTime"`   // Unix timestamp
	Source    string `form:"source"`
	Kind      string `form:"kind"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}
