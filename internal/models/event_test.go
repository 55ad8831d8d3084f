package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSourcePriorityOrdering(t *testing.T) {
	assert.Equal(t, SourceUser.Priority(), SourceActualAdjust.Priority())
	assert.Greater(t, SourceUser.Priority(), SourceScreenTime.Priority())
	assert.Greater(t, SourceScreenTime.Priority(), SourceLocation.Priority())
	assert.Greater(t, SourceLocation.Priority(), SourceUnknown.Priority())
}

func TestEventProtection(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		event     TimelineEvent
		protected bool
	}{
		{
			name:      "user authored",
			event:     TimelineEvent{Meta: EventMeta{Source: SourceUser}},
			protected: true,
		},
		{
			name:      "actual adjust",
			event:     TimelineEvent{Meta: EventMeta{Source: SourceActualAdjust}},
			protected: true,
		},
		{
			name:      "locked derived",
			event:     TimelineEvent{Meta: EventMeta{Source: SourceScreenTime}, LockedAt: &now},
			protected: true,
		},
		{
			name:      "unlocked derived",
			event:     TimelineEvent{Meta: EventMeta{Source: SourceLocation}},
			protected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.protected, tt.event.Protected())
			assert.Equal(t, !tt.protected && tt.event.Meta.Source.Derived(), tt.event.Derived())
		})
	}
}

func TestMetaAccessors(t *testing.T) {
	screen := NewScreenTimeMeta("com.editor", "Editor")
	appID := screen.AppID()
	assert.NotNil(t, appID)
	assert.Equal(t, "com.editor", *appID)
	_, isLocation := screen.PlaceID()
	assert.False(t, isLocation)

	office := "office"
	location := NewLocationBlockMeta(&office, "Office")
	placeID, ok := location.PlaceID()
	assert.True(t, ok)
	assert.Equal(t, "office", *placeID)
	assert.Nil(t, location.AppID())

	unknown := NewLocationBlockMeta(nil, "")
	placeID, ok = unknown.PlaceID()
	assert.True(t, ok, "an unknown place is still a location block")
	assert.Nil(t, placeID)
}
