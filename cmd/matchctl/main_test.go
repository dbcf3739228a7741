package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-backend/internal/matching"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestMatchctl(t *testing.T) {
	fixtures := filepath.Join("testdata", "fixtures.json")
	saved := filepath.Join(t.TempDir(), "after.json")

	var feed matching.FeedResponse
	out := runCLI(t, "feed", "--fixtures", fixtures, "--user", "maya", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &feed))

	var ids []string
	for _, rc := range feed.Candidates {
		ids = append(ids, rc.Profile.ID)
	}
	// lee was already passed on; priya blocked maya but stays visible
	assert.ElementsMatch(t, []string{"jordan", "sam", "priya"}, ids)
	assert.Equal(t, "jordan", ids[0])

	var breakdown matching.CompatibilityBreakdown
	out = runCLI(t, "compat", "--fixtures", fixtures, "--user", "maya", "--candidate", "jordan", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	assert.Greater(t, breakdown.Overall, 70.0)

	var outcome matching.SwipeOutcome
	out = runCLI(t, "swipe", "--fixtures", fixtures, "--user", "maya", "--candidate", "jordan", "--like", "--save", saved, "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.True(t, outcome.Matched)
	assert.True(t, outcome.Created)

	out = runCLI(t, "feed", "--fixtures", saved, "--user", "maya", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &feed))
	for _, rc := range feed.Candidates {
		assert.NotEqual(t, "jordan", rc.Profile.ID)
	}

	// The conversation survives the save, so a later like reuses it
	var again matching.SwipeOutcome
	resaved := filepath.Join(t.TempDir(), "again.json")
	out = runCLI(t, "swipe", "--fixtures", saved, "--user", "jordan", "--candidate", "maya", "--like", "--save", resaved, "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &again))
	assert.True(t, again.Matched)
	assert.False(t, again.Created)
	assert.Equal(t, outcome.ConversationID, again.ConversationID)

	raw, err := os.ReadFile(resaved)
	require.NoError(t, err)
	var fx matching.Fixtures
	require.NoError(t, json.Unmarshal(raw, &fx))
	require.Len(t, fx.Conversations, 1)
	assert.Equal(t, outcome.ConversationID, fx.Conversations[0].ID)
}
