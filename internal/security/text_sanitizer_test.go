package security

import (
	"strings"
	"testing"
)

// TestSanitizeText_RemovesAllTags は全てのHTMLタグが除去されることを検証する。
func TestSanitizeText_RemovesAllTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "pタグが除去される",
			input: "<p>テスト段落</p>",
			want:  "テスト段落",
		},
		{
			name:  "ネストしたタグが除去される",
			input: "<div><strong>重要な</strong>記事タイトル</div>",
			want:  "重要な記事タイトル",
		},
		{
			name:  "aタグが除去されテキストのみ残る",
			input: `<a href="https://example.com">リンクテキスト</a>`,
			want:  "リンクテキスト",
		},
		{
			name:  "タグなしテキストはそのまま",
			input: "プレーンなタイトル",
			want:  "プレーンなタイトル",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeText_RemovesDangerousContent は危険なマークアップが除去されることを検証する。
func TestSanitizeText_RemovesDangerousContent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name          string
		input         string
		mustNotContain []string
	}{
		{
			name:           "scriptタグが除去される",
			input:          `タイトル<script>alert("XSS")</script>`,
			mustNotContain: []string{"<script", "alert"},
		},
		{
			name:           "iframeタグが除去される",
			input:          `<iframe src="https://evil.example.com"></iframe>本文`,
			mustNotContain: []string{"<iframe", "evil.example.com"},
		},
		{
			name:           "onerrorイベント属性が除去される",
			input:          `<img src="x" onerror="alert(1)">画像付きタイトル`,
			mustNotContain: []string{"onerror", "<img"},
		},
		{
			name:           "styleタグが除去される",
			input:          `<style>body{display:none}</style>スタイル付き`,
			mustNotContain: []string{"<style", "display:none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeText(tt.input)
			for _, bad := range tt.mustNotContain {
				if strings.Contains(got, bad) {
					t.Errorf("SanitizeText(%q) = %q, should not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}

// TestSanitizeText_UnescapesEntities はHTMLエンティティがデコードされることを検証する。
func TestSanitizeText_UnescapesEntities(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.SanitizeText("Tom &amp; Jerry &lt;特集&gt;")
	want := "Tom & Jerry <特集>"
	if got != want {
		t.Errorf("SanitizeText = %q, want %q", got, want)
	}
}

// TestSanitizeText_TrimsWhitespace は前後の空白がトリムされることを検証する。
func TestSanitizeText_TrimsWhitespace(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.SanitizeText("  <p>  タイトル  </p>  ")
	if got != "タイトル" {
		t.Errorf("SanitizeText = %q, want %q", got, "タイトル")
	}
}

// TestSanitizeText_EmptyInput は空文字列の入力に空文字列を返すことを検証する。
func TestSanitizeText_EmptyInput(t *testing.T) {
	sanitizer := NewTextSanitizer()

	if got := sanitizer.SanitizeText(""); got != "" {
		t.Errorf("SanitizeText(\"\") = %q, want empty", got)
	}
}

// TestSanitizeText_Idempotent は同一入力に対して常に同一出力を返すことを検証する。
func TestSanitizeText_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := `<b>タイトル</b> &amp; サブタイトル`
	first := sanitizer.SanitizeText(input)
	second := sanitizer.SanitizeText(first)
	if first != second {
		t.Errorf("sanitize is not idempotent: first = %q, second = %q", first, second)
	}
}

// TestTextSanitizer_ImplementsInterface はtextSanitizerがTextSanitizerServiceを満たすことを検証する。
func TestTextSanitizer_ImplementsInterface(t *testing.T) {
	var _ TextSanitizerService = NewTextSanitizer()
}
