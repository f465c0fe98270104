// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は外部サイトから取得したメタデータをサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリのStrictPolicyで全てのHTMLタグを除去する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は外部由来テキストのサニタイズ機能のインターフェースを定義する。
// プレビュー結果のタイトルや説明文をAPI応答に含める前に使用される。
type TextSanitizerService interface {
	// SanitizeText はHTMLタグを全て除去したプレーンテキストを返す。
	// script, iframe等のタグとon*イベント属性を含む全てのマークアップが除去される。
	// HTMLエンティティはデコードされ、前後の空白はトリムされる。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText はHTMLタグを全て除去したプレーンテキストを返す。
func (s *textSanitizer) SanitizeText(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	// StrictPolicyはテキストをエスケープして返すため、エンティティを戻す。
	return strings.TrimSpace(html.UnescapeString(stripped))
}
