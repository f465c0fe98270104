// Package preview は記事URLのメタデータ取得機能を提供する。
//
// ユーザーが入力したURLをSSRF防止付きクライアントで取得し、
// RSS/AtomフィードであればgofeedでパースしてエントリをRecord候補として返す。
// 通常のWebページであればタイトルと公開日時をHTMLから抽出する。
// 取得したテキストは全てサニタイズしてから返す。
package preview

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/readtrack/internal/model"
)

// Kind はプレビュー結果の種類を表す。
type Kind string

const (
	// KindPage は通常のWebページ。
	KindPage Kind = "page"
	// KindFeed はRSS/Atomフィード。
	KindFeed Kind = "feed"
)

// Candidate はフィードから検出された記録候補を表す。
type Candidate struct {
	Title         string
	URL           string
	PublishedDate *time.Time
}

// Result はプレビュー結果を表す。
// KindがKindFeedの場合はCandidatesにフィードのエントリが入る。
// KindがKindPageの場合はTitleとPublishedDateがページから抽出した値になる。
type Result struct {
	Kind          Kind
	Title         string
	PublishedDate *time.Time
	Candidates    []Candidate
}

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// TextSanitizer は外部由来テキストのサニタイズインターフェース。
type TextSanitizer interface {
	SanitizeText(raw string) string
}

// MetricsRecorder はプレビュー取得のメトリクスインターフェース。
type MetricsRecorder interface {
	RecordPreviewFetch(kind string, success bool)
}

// maxFeedCandidates はフィードから返す記録候補の最大件数。
const maxFeedCandidates = 20

// Service はプレビュー取得のサービス層。
type Service struct {
	ssrfGuard   SSRFValidator
	sanitizer   TextSanitizer
	metrics     MetricsRecorder
	timeout     time.Duration
	maxBodySize int64
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewService(
	ssrfGuard SSRFValidator,
	sanitizer TextSanitizer,
	metrics MetricsRecorder,
	timeout time.Duration,
	maxBodySize int64,
) *Service {
	return &Service{
		ssrfGuard:   ssrfGuard,
		sanitizer:   sanitizer,
		metrics:     metrics,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch はURLを取得してプレビュー結果を返す。
// 1. SSRF検証を実行
// 2. SSRF防止付きクライアントでHTTPリクエストを送信
// 3. Content-Typeとボディからフィードかどうかを判定
// 4. フィードの場合はgofeedでパースして記録候補を返す
// 5. HTMLの場合はタイトルと公開日時を抽出して返す
func (s *Service) Fetch(ctx context.Context, inputURL string) (*Result, error) {
	if inputURL == "" {
		return nil, model.NewInvalidURLError("URLが入力されていません")
	}

	if err := s.ssrfGuard.ValidateURL(inputURL); err != nil {
		s.record("", false)
		return nil, model.NewSSRFBlockedError()
	}

	client := s.ssrfGuard.NewSafeClient(s.timeout, s.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inputURL, nil)
	if err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}
	req.Header.Set("User-Agent", "ReadTrack/1.0 Article Preview")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, text/html, */*")

	resp, err := client.Do(req)
	if err != nil {
		s.record("", false)
		return nil, model.NewFetchFailedError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.record("", false)
		return nil, model.NewFetchFailedError(fmt.Sprintf("HTTPステータス %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		s.record("", false)
		return nil, model.NewFetchFailedError(fmt.Sprintf("レスポンスの読み取りに失敗: %v", err))
	}

	contentType := resp.Header.Get("Content-Type")

	if isFeedContent(contentType, body) {
		result, err := s.parseFeed(body)
		s.record(string(KindFeed), err == nil)
		return result, err
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !strings.Contains(strings.ToLower(mediaType), "html") {
		s.record("", false)
		return nil, model.NewPreviewParseFailedError()
	}

	result, err := s.parsePage(body)
	s.record(string(KindPage), err == nil)
	return result, err
}

// parseFeed はフィードボディをパースして記録候補を返す。
func (s *Service) parseFeed(body []byte) (*Result, error) {
	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, model.NewPreviewParseFailedError()
	}

	result := &Result{
		Kind:  KindFeed,
		Title: s.sanitizer.SanitizeText(parsedFeed.Title),
	}

	for _, item := range parsedFeed.Items {
		if item == nil {
			continue
		}
		if len(result.Candidates) >= maxFeedCandidates {
			break
		}

		candidate := Candidate{
			Title: s.sanitizer.SanitizeText(item.Title),
			URL:   item.Link,
		}

		// 公開日時: PublishedParsedを優先、なければUpdatedParsed
		if item.PublishedParsed != nil {
			t := *item.PublishedParsed
			candidate.PublishedDate = &t
		} else if item.UpdatedParsed != nil {
			t := *item.UpdatedParsed
			candidate.PublishedDate = &t
		}

		// LinkがなくGUIDがURL形式の場合はGUIDを使用
		if candidate.URL == "" && item.GUID != "" &&
			(strings.HasPrefix(item.GUID, "http://") || strings.HasPrefix(item.GUID, "https://")) {
			candidate.URL = item.GUID
		}

		if candidate.Title == "" || candidate.URL == "" {
			continue
		}

		result.Candidates = append(result.Candidates, candidate)
	}

	return result, nil
}

// parsePage はHTMLボディからタイトルと公開日時を抽出して返す。
func (s *Service) parsePage(body []byte) (*Result, error) {
	meta := extractPageMetadata(body)

	title := meta.ogTitle
	if title == "" {
		title = meta.title
	}
	title = s.sanitizer.SanitizeText(title)
	if title == "" {
		return nil, model.NewPreviewParseFailedError()
	}

	result := &Result{
		Kind:  KindPage,
		Title: title,
	}

	if meta.publishedTime != "" {
		if t, err := parsePublishedTime(meta.publishedTime); err == nil {
			result.PublishedDate = &t
		}
	}

	return result, nil
}

// record はメトリクスを記録する。metricsがnilの場合は何もしない。
func (s *Service) record(kind string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordPreviewFetch(kind, success)
	}
}

// parsePublishedTime はメタデータの公開日時文字列をパースする。
// ISO 8601形式と日付のみの形式に対応する。
func parsePublishedTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}
