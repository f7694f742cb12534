package source

import (
	"context"
	"testing"

	"github.com/afumu/codash/internal/model"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHackerRank() *HackerRank {
	return &HackerRank{client: newTestClient(), ep: testEndpoints()}
}

const hackerRankStatePage = `<html><body><script>window.__INITIAL_STATE__ = {"profile":{
	"user":{"username":"hacker","name":"Hack Er","country":"India","followers_count":3,"rank":"1200","level":"5"},
	"badges":[{"name":"Problem Solving","description":"Gold","level":"5"}],
	"leaderboard":{"domains":[{"name":"algorithms","score":120.5,"problems_solved":30},{"name":"sql","score":300}]},
	"submissions":[{"challenge_name":"A","status":"accepted","score":10,"language":"go"},{"challenge_name":"B","status":"wrong answer"},{"challenge_name":"C","status":"Accepted"}],
	"contests":[{"name":"c1"},{"name":"c2"}]
}};</script></body></html>`

func TestHackerRankFetchDetailsFromPageState(t *testing.T) {
	httpmock.Reset()
	httpmock.RegisterResponder("GET", "https://hr.test/rest/contests/master/hackers/hacker/profile", httpmock.NewStringResponder(500, ""))
	httpmock.RegisterResponder("GET", "https://hr.test/profile/hacker", httpmock.NewStringResponder(200, hackerRankStatePage))
	httpmock.RegisterResponder("GET", "https://hr.test/rest/hackers/hacker/submission_histories",
		httpmock.NewStringResponder(200, `{"2024-03-01":"2","2024-03-02":"5"}`))

	d, err := newHackerRank().FetchDetails(context.Background(), "hacker")
	require.NoError(t, err)

	p := d.Profile.(*model.HackerRankProfile)
	assert.Equal(t, "hacker", p.Username)
	assert.Equal(t, "Hack Er", p.Name)
	assert.Equal(t, 3, p.Followers)

	x := d.Extras.(*model.HackerRankExtras)
	assert.False(t, x.Limited)
	assert.InDelta(t, 420.5, x.Statistics.TotalScore, 0.001)
	assert.Equal(t, "sql", x.Statistics.TopDomain)
	assert.Equal(t, 2, x.Statistics.SolvedChallenges)
	assert.Equal(t, 3, x.Statistics.TotalSubmissions)
	assert.Equal(t, 66.7, x.Statistics.SuccessRate)
	assert.Equal(t, "1200", x.Statistics.Rank)
	assert.Equal(t, 2, x.ContestsParticipated)
	require.Len(t, x.Badges, 1)
	assert.Equal(t, "Problem Solving", x.Badges[0].Name)
	assert.Len(t, x.RecentSubmissions, 3)
	assert.Len(t, x.Domains, 2)

	assert.Equal(t, "submission-histories", d.Activity.Source)
	assert.Equal(t, model.ActivityMap{"2024-03-01": 2, "2024-03-02": 5}, d.Activity.Calendar)
}

func TestHackerRankRestProfile(t *testing.T) {
	httpmock.Reset()
	httpmock.RegisterResponder("GET", "https://hr.test/rest/contests/master/hackers/hacker/profile",
		httpmock.NewStringResponder(200, `{"model":{"username":"hacker","name":"From Rest","avatar":"https://img.test/a.png","school":"MIT","following_count":2}}`))

	d, err := newHackerRank().FetchDetails(context.Background(), "hacker")
	require.NoError(t, err)
	p := d.Profile.(*model.HackerRankProfile)
	assert.Equal(t, "From Rest", p.Name)
	assert.Equal(t, "MIT", p.School)
	assert.Equal(t, 2, p.Following)

	x := d.Extras.(*model.HackerRankExtras)
	assert.False(t, x.Limited)
	assert.Empty(t, x.Domains)
	assert.Equal(t, SourceNone, d.Activity.Source)
}

func TestHackerRankBasicHTMLFallback(t *testing.T) {
	httpmock.Reset()
	httpmock.RegisterResponder("GET", "https://hr.test/profile/hacker",
		httpmock.NewStringResponder(200, `<html><body><h1 class="profile-heading">Hack Er</h1><img class="ui-avatar" src="https://img.test/avatar.png"></body></html>`))

	d, err := newHackerRank().FetchDetails(context.Background(), "hacker")
	require.NoError(t, err)
	p := d.Profile.(*model.HackerRankProfile)
	assert.Equal(t, "Hack Er", p.Name)
	assert.Equal(t, "https://img.test/avatar.png", p.Avatar)
	assert.True(t, d.Extras.(*model.HackerRankExtras).Limited)
}

func TestHackerRankUserNotFound(t *testing.T) {
	httpmock.Reset()
	httpmock.RegisterResponder("GET", "https://hr.test/rest/contests/master/hackers/ghost/profile", httpmock.NewStringResponder(404, ""))
	_, err := newHackerRank().FetchDetails(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	httpmock.RegisterResponder("GET", "https://hr.test/profile/nobody", httpmock.NewStringResponder(200, `<html><body>Page not found</body></html>`))
	_, err = newHackerRank().FetchDetails(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHackerRankAllSourcesDown(t *testing.T) {
	httpmock.Reset()

	d, err := newHackerRank().FetchDetails(context.Background(), "hacker")
	require.NoError(t, err)
	assert.Equal(t, "hacker", d.Profile.(*model.HackerRankProfile).Username)
	assert.True(t, d.Extras.(*model.HackerRankExtras).Limited)
}
