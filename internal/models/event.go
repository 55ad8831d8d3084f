package models

import "time"

// EventSource identifies who (or which pipeline) authored an event.
type EventSource string

// EventSource constants
const (
	SourceUser         EventSource = "user"
	SourceActualAdjust EventSource = "actual_adjust"
	SourceScreenTime   EventSource = "screen_time"
	SourceLocation     EventSource = "location"
	SourceUnknown      EventSource = "unknown"
)

// sourcePriorities is the explicit ordering table for derived sources.
// Protected events (user-authored or locked) outrank every derived tier.
var sourcePriorities = map[EventSource]int{
	SourceUser:         3,
	SourceActualAdjust: 3,
	SourceScreenTime:   2,
	SourceLocation:     1,
	SourceUnknown:      0,
}

// Priority returns the reconciliation priority tier of the source.
func (s EventSource) Priority() int {
	return sourcePriorities[s]
}

// Derived reports whether events from this source are system-authored
// and therefore mutable by reconciliation.
func (s EventSource) Derived() bool {
	switch s {
	case SourceScreenTime, SourceLocation, SourceUnknown:
		return true
	}
	return false
}

// EventKind identifies the shape of an event's metadata.
type EventKind string

// EventKind constants
const (
	KindScreenTime    EventKind = "screen_time"
	KindLocationBlock EventKind = "location_block"
	KindCommute       EventKind = "commute"
	KindSessionBlock  EventKind = "session_block"
)

// EventMeta is a tagged union of per-kind metadata. Exactly the variant
// matching Kind is set; the reconciliation engine switches on Kind
// exhaustively instead of probing optional fields.
type EventMeta struct {
	Source EventSource `json:"source"`
	Kind   EventKind   `json:"kind"`

	ScreenTime *ScreenTimeMeta    `json:"screenTime,omitempty"`
	Location   *LocationBlockMeta `json:"location,omitempty"`
	Commute    *CommuteMeta       `json:"commute,omitempty"`
	Session    *SessionBlockMeta  `json:"session,omitempty"`
}

// ScreenTimeMeta carries app identity for a screen-time event.
type ScreenTimeMeta struct {
	AppID       string `json:"appId"`
	DisplayName string `json:"displayName,omitempty"`
}

// LocationBlockMeta carries place identity for a location-block event.
// PlaceID is nil for blocks at an unrecognized place.
type LocationBlockMeta struct {
	PlaceID    *string `json:"placeId,omitempty"`
	PlaceLabel string  `json:"placeLabel,omitempty"`
}

// CommuteMeta carries movement detail for a commute event. A commute is
// a container: concurrent screen-time events may coexist inside it.
type CommuteMeta struct {
	Mode           MovementType `json:"mode,omitempty"`
	DistanceMeters float64      `json:"distanceMeters,omitempty"`
	ToPlaceID      *string      `json:"toPlaceId,omitempty"`
}

// SessionBlockMeta carries detail for a user-defined session block.
type SessionBlockMeta struct {
	SessionType string `json:"sessionType,omitempty"`
}

// NewScreenTimeMeta builds metadata for a screen-time event.
func NewScreenTimeMeta(appID, displayName string) EventMeta {
	return EventMeta{
		Source:     SourceScreenTime,
		Kind:       KindScreenTime,
		ScreenTime: &ScreenTimeMeta{AppID: appID, DisplayName: displayName},
	}
}

// NewLocationBlockMeta builds metadata for a location-block event.
func NewLocationBlockMeta(placeID *string, placeLabel string) EventMeta {
	return EventMeta{
		Source:   SourceLocation,
		Kind:     KindLocationBlock,
		Location: &LocationBlockMeta{PlaceID: placeID, PlaceLabel: placeLabel},
	}
}

// NewCommuteMeta builds metadata for a commute event.
func NewCommuteMeta(mode MovementType, distanceMeters float64, toPlaceID *string) EventMeta {
	return EventMeta{
		Source:  SourceLocation,
		Kind:    KindCommute,
		Commute: &CommuteMeta{Mode: mode, DistanceMeters: distanceMeters, ToPlaceID: toPlaceID},
	}
}

// AppID returns the app identity of a screen-time event, or nil.
func (m EventMeta) AppID() *string {
	if m.Kind == KindScreenTime && m.ScreenTime != nil {
		return &m.ScreenTime.AppID
	}
	return nil
}

// PlaceID returns the place identity of a location-block event. The
// second return distinguishes "location block at unknown place" (true,
// nil) from "not a location block" (false, nil).
func (m EventMeta) PlaceID() (*string, bool) {
	if m.Kind == KindLocationBlock && m.Location != nil {
		return m.Location.PlaceID, true
	}
	return nil, false
}

// TimelineEvent is a persisted entry of the user's actual calendar.
// Events with LockedAt set, or authored by the user, are protected:
// reconciliation never modifies or deletes them.
type TimelineEvent struct {
	ID       string     `json:"id" db:"id"`
	UserID   string     `json:"userId" db:"user_id"`
	SourceID string     `json:"sourceId,omitempty" db:"source_id"` // stable matching key for derived events
	Title    string     `json:"title" db:"title"`
	Start    time.Time  `json:"start" db:"start_time"`
	End      time.Time  `json:"end" db:"end_time"`
	Meta     EventMeta  `json:"meta" db:"meta"`
	LockedAt *time.Time `json:"lockedAt,omitempty" db:"locked_at"`
}

// Protected reports whether reconciliation must leave the event alone.
func (e TimelineEvent) Protected() bool {
	if e.LockedAt != nil {
		return true
	}
	return e.Meta.Source == SourceUser || e.Meta.Source == SourceActualAdjust
}

// Derived reports whether the event is system-authored and unlocked.
func (e TimelineEvent) Derived() bool {
	return e.Meta.Source.Derived() && e.LockedAt == nil
}

// DerivedEvent is an ephemeral event produced by one reconciliation run,
// matched against persisted events by SourceID.
type DerivedEvent struct {
	SourceID string    `json:"sourceId"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Meta     EventMeta `json:"meta"`
}

// EventUpdate retimes an existing unlocked event.
type EventUpdate struct {
	EventID string    `json:"eventId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// EventExtension stretches a previous-window event's end forward to
// absorb an adjacent derived event instead of inserting a duplicate.
type EventExtension struct {
	EventID string    `json:"eventId"`
	NewEnd  time.Time `json:"newEnd"`
}

// ReconciliationOps is the sole output of the reconciliation engine.
// Applying the operations to the store is the caller's responsibility.
type ReconciliationOps struct {
	Inserts    []TimelineEvent  `json:"inserts"`
	Updates    []EventUpdate    `json:"updates"`
	Deletes    []string         `json:"deletes"` // event ids
	Extensions []EventExtension `json:"extensions"`

	// ProtectedIDs lists events that could not be changed, for UI
	// disclosure. Informational only.
	ProtectedIDs []string `json:"protectedIds"`
}

// Empty reports whether the run produced no store mutations.
func (o ReconciliationOps) Empty() bool {
	return len(o.Inserts) == 0 && len(o.Updates) == 0 &&
		len(o.Deletes) == 0 && len(o.Extensions) == 0
}
