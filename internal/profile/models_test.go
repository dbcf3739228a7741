package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesiredInterests(t *testing.T) {
	tests := []struct {
		name   string
		filter *FilterSettings
		want   []string
	}{
		{name: "nil filter", filter: nil, want: nil},
		{name: "empty", filter: &FilterSettings{}, want: nil},
		{name: "trims and lower-cases", filter: &FilterSettings{Interests: " Hiking, CODING ,"}, want: []string{"hiking", "coding"}},
		{name: "only separators", filter: &FilterSettings{Interests: " , ,"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.DesiredInterests())
		})
	}
}

func TestHasBlocked(t *testing.T) {
	p := &UserProfile{ID: "a", BlockedUserIDs: []string{"b", "c"}}

	assert.True(t, p.HasBlocked("b"))
	assert.False(t, p.HasBlocked("d"))
	assert.False(t, (&UserProfile{}).HasBlocked("b"))
}

func TestHousingStatusValid(t *testing.T) {
	assert.True(t, LookingForRoommate.Valid())
	assert.True(t, LookingForLease.Valid())
	assert.True(t, LookingToFindTogether.Valid())
	assert.False(t, HousingStatus("looking_for_castle").Valid())
	assert.False(t, HousingStatus("").Valid())
}
