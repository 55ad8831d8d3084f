package models

// ActivityType is the closed set of inferred activities a segment can
// be assigned. Inference is rule-based and deterministic.
type ActivityType string

// ActivityType constants, roughly ordered by inference priority
const (
	ActivityWorkout           ActivityType = "workout"
	ActivitySleep             ActivityType = "sleep"
	ActivityCommute           ActivityType = "commute"
	ActivityDeepWork          ActivityType = "deep_work"
	ActivityCollaborativeWork ActivityType = "collaborative_work"
	ActivityMeeting           ActivityType = "meeting"
	ActivityDistractedTime    ActivityType = "distracted_time"
	ActivityLeisure           ActivityType = "leisure"
	ActivityExtendedSocial    ActivityType = "extended_social"
	ActivitySocialBreak       ActivityType = "social_break"
	ActivityPersonalTime      ActivityType = "personal_time"
	ActivityAwayFromDesk      ActivityType = "away_from_desk"
	ActivityOfflineActivity   ActivityType = "offline_activity"
	ActivityMixed             ActivityType = "mixed_activity"
)

// activityLabels maps activity types to human-readable titles.
var activityLabels = map[ActivityType]string{
	ActivityWorkout:           "Workout",
	ActivitySleep:             "Sleep",
	ActivityCommute:           "Commute",
	ActivityDeepWork:          "Deep Work",
	ActivityCollaborativeWork: "Collaborative Work",
	ActivityMeeting:           "Meeting",
	ActivityDistractedTime:    "Distracted Time",
	ActivityLeisure:           "Leisure",
	ActivityExtendedSocial:    "Extended Social",
	ActivitySocialBreak:       "Social Break",
	ActivityPersonalTime:      "Personal Time",
	ActivityAwayFromDesk:      "Away from Desk",
	ActivityOfflineActivity:   "Offline Activity",
	ActivityMixed:             "Mixed Activity",
}

// Label returns the human-readable title for the activity type.
func (a ActivityType) Label() string {
	if label, ok := activityLabels[a]; ok {
		return label
	}
	return "Activity"
}

// MovementType classifies how the user was moving during a commute
// segment, inferred from sample spacing and speed.
type MovementType string

// MovementType constants
const (
	MovementWalking MovementType = "walking"
	MovementCycling MovementType = "cycling"
	MovementDriving MovementType = "driving"
)
