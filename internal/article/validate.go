package article

import (
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/readtrack/internal/model"
)

// maxTitleLength はタイトルの最大文字数。
const maxTitleLength = 255

// maxURLLength はURLの最大文字数。
const maxURLLength = 2048

// validateTitle はタイトルの必須・長さ制約を検証する。
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return model.NewTitleRequiredError()
	}
	if len([]rune(title)) > maxTitleLength {
		return model.NewTitleTooLongError(maxTitleLength)
	}
	return nil
}

// validateURL はURLの形式・長さ制約を検証する。
// http / https スキーム以外は拒否する。
func validateURL(rawURL string) error {
	if rawURL == "" {
		return model.NewInvalidURLError("URLが空です")
	}
	if len(rawURL) > maxURLLength {
		return model.NewInvalidURLError("URLが長すぎます")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.NewInvalidURLError(rawURL)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return model.NewInvalidURLError("スキームは http または https のみ使用できます")
	}
	if parsed.Host == "" {
		return model.NewInvalidURLError("ホストがありません")
	}
	return nil
}

// validateNotFuture は日付が今日より後でないことを検証する。
// 比較は日付のみで行い、時刻部分は無視する。
func validateNotFuture(field string, date, today time.Time) error {
	if truncateToDay(date).After(truncateToDay(today)) {
		return model.NewFutureDateError(field)
	}
	return nil
}

// truncateToDay は時刻部分を切り捨てUTCの日付に正規化する。
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
