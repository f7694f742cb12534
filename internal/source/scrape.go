package source

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/tidwall/gjson"
)

var (
	// 表格单元格中可识别的日期格式，按优先级排列。
	cellDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
		regexp.MustCompile(`\d{2}-\d{2}-\d{4}`),
		regexp.MustCompile(`[A-Z][a-z]{2}/\d{2}/\d{4}`),
		regexp.MustCompile(`\d{1,2}\s+[A-Za-z]+\s+\d{4}`),
	}
	scriptDateRe     = regexp.MustCompile(`["'](\d{4}-\d{2}-\d{2})["']`)
	embeddedCalendar = regexp.MustCompile(`calendar["']?\s*:\s*(\{[^}]+\})`)
)

// ScrapeActivity 从页面中提取活动数据：内嵌的 calendar 对象优先，
// 其次是表格行，最后是脚本中的日期字面量。后面的结果只填补前面缺失的日期。
func ScrapeActivity(doc *goquery.Document) model.ActivityMap {
	cal := EmbeddedCalendar(doc)
	cal.Merge(TableDates(doc))
	cal.Merge(ScriptDates(doc))
	return cal
}

// TableDates 把每个带日期的表格行计为一次提交。
func TableDates(doc *goquery.Document) model.ActivityMap {
	cal := model.ActivityMap{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			if day, ok := cellDate(strings.TrimSpace(cell.Text())); ok {
				cal.Add(day, 1)
				return false
			}
			return true
		})
	})
	return cal
}

func cellDate(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, re := range cellDatePatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		return activity.NormalizeDate(m)
	}
	return "", false
}

// ScriptDates 扫描提及 submission 或 calendar 的脚本，每个带引号的日期计一次。
func ScriptDates(doc *goquery.Document) model.ActivityMap {
	cal := model.ActivityMap{}
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.Contains(text, "submission") && !strings.Contains(text, "calendar") {
			return
		}
		for _, m := range scriptDateRe.FindAllStringSubmatch(text, -1) {
			if activity.IsCanonicalDate(m[1]) {
				cal.Add(m[1], 1)
			}
		}
	})
	return cal
}

// EmbeddedCalendar 解析脚本中的 calendar: {...} 片段。
func EmbeddedCalendar(doc *goquery.Document) model.ActivityMap {
	cal := model.ActivityMap{}
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := embeddedCalendar.FindStringSubmatch(s.Text())
		if m == nil || !gjson.Valid(m[1]) {
			return true
		}
		p, ok := Classify(gjson.Parse(m[1]))
		if !ok {
			return true
		}
		found, _ := Adapt(p)
		cal.Merge(found)
		return len(cal) == 0
	})
	return cal
}

// scriptJSON 在原始 HTML 中查找 pattern 捕获的第一个合法 JSON。
func scriptJSON(html []byte, patterns ...*regexp.Regexp) (gjson.Result, bool) {
	for _, re := range patterns {
		m := re.FindSubmatch(html)
		if m == nil || !gjson.ValidBytes(m[1]) {
			continue
		}
		return gjson.ParseBytes(m[1]), true
	}
	return gjson.Result{}, false
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
