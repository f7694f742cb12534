package source

import (
	"os"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

func TestMain(m *testing.M) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	os.Exit(m.Run())
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func testEndpoints() Endpoints {
	return Endpoints{
		LeetCodeGraphQL:     "https://lc.test/graphql",
		LeetCodeWeb:         "https://lc.test",
		LeetCodeCalendarAPI: "https://lc-api.test/%s/calendar",
		CodeforcesAPI:       "https://cf.test/api",
		CodeforcesMirrorAPI: "https://cf-mirror.test/api",
		CodeforcesWeb:       "https://cf.test",
		CodeChefWeb:         "https://cc.test",
		CodeChefAPIs:        []string{"https://cc-api1.test/%s", "https://cc-api2.test/%s"},
		GFGAPI:              "https://gfg-api.test",
		GFGWeb:              "https://gfg.test",
		HackerRankWeb:       "https://hr.test",
	}
}

func newTestClient() *Client {
	return NewClient(ClientConfig{Timeout: time.Second})
}
