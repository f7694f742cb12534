package source

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/afumu/codash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestTableDates(t *testing.T) {
	doc := parseHTML(t, `<table>
		<tr><th>When</th></tr>
		<tr><td>#1</td><td>2024-01-05 10:22</td><td>2024-01-09</td></tr>
		<tr><td>05/01/2024</td></tr>
		<tr><td>Jan/06/2024 18:40</td></tr>
		<tr><td>7 March 2024</td></tr>
		<tr><td>no date here</td></tr>
	</table>`)

	assert.Equal(t, model.ActivityMap{
		"2024-01-05": 2,
		"2024-01-06": 1,
		"2024-03-07": 1,
	}, TableDates(doc))
}

func TestScriptDates(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>var submissions = ["2024-02-01", "2024-02-01", '2024-02-03'];</script>
		<script>var unrelated = "2024-05-05";</script>
	</body></html>`)

	assert.Equal(t, model.ActivityMap{"2024-02-01": 2, "2024-02-03": 1}, ScriptDates(doc))
}

func TestScrapeActivityEmbeddedCalendarWins(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>window.profile = {calendar: {"2024-02-01": 4}};</script>
		<table><tr><td>2024-02-01</td></tr><tr><td>2024-02-02</td></tr></table>
	</body></html>`)

	assert.Equal(t, model.ActivityMap{"2024-02-01": 4, "2024-02-02": 1}, ScrapeActivity(doc))
}

func TestScrapeActivityEmpty(t *testing.T) {
	doc := parseHTML(t, `<html><body><p>nothing</p></body></html>`)
	assert.Empty(t, ScrapeActivity(doc))
}
