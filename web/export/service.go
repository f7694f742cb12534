package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/internal/platform"
	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// File is a rendered export ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	ETag        string
	Content     []byte
}

type Service struct {
	Platform *platform.Service
}

// ExportHeatmap 获取热力图并按格式渲染。
func (s *Service) ExportHeatmap(ctx context.Context, p model.Platform, username string, spec platform.RangeSpec, format string) (*File, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	bundle, err := s.Platform.GetHeatmap(ctx, p, username, spec)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	f := &File{Name: fileName(bundle, format)}
	switch format {
	case FormatCSV:
		f.ContentType = "text/csv; charset=utf-8"
		f.Content, err = HeatmapCSV(bundle)
	case FormatXLSX:
		f.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		f.Content, err = HeatmapXLSX(bundle)
	}
	if err != nil {
		return nil, err
	}
	f.ETag = ETag(f.Content)

	log.Debug().
		Str("platform", string(p)).
		Str("username", username).
		Str("format", format).
		Int("bytes", len(f.Content)).
		Dur("took", time.Since(start)).
		Msg("heatmap exported")
	return f, nil
}

// ETag returns a strong entity tag for content.
func ETag(content []byte) string {
	return fmt.Sprintf("\"%016x\"", xxhash.Sum64(content))
}

func fileName(b *model.HeatmapBundle, format string) string {
	return fmt.Sprintf("%s_%s_%s_%s.%s", b.Platform, sanitize(b.Username), b.From, b.To, format)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func weekdayName(d int) string {
	if d < 0 || d > 6 {
		return ""
	}
	return weekdayNames[d]
}
