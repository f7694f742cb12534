package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/afumu/codash/internal/model"
)

var heatmapHeader = []string{"date", "count", "intensity", "weekday", "week"}

// HeatmapCSV 导出热力图为 CSV 格式，每天一行
func HeatmapCSV(b *model.HeatmapBundle) ([]byte, error) {
	var buf bytes.Buffer

	// 写入 UTF-8 BOM，确保 Excel 正确识别编码
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)

	if err := w.Write(heatmapHeader); err != nil {
		return nil, fmt.Errorf("写入CSV表头失败: %w", err)
	}

	for _, d := range b.Heatmap {
		row := []string{
			d.Date,
			strconv.Itoa(d.Count),
			strconv.Itoa(d.Intensity),
			weekdayName(d.DayOfWeek),
			strconv.Itoa(d.Week),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("写入CSV数据失败: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV写入错误: %w", err)
	}

	return buf.Bytes(), nil
}
