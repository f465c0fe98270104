// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// バリデーションエラーの場合はFieldに対象フィールド名が入る。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, article, category, preview, system
	Action   string // ユーザー向け対処方法
	Field    string // バリデーション対象フィールド（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeFutureDate            = "FUTURE_DATE"
	ErrCodeTitleRequired         = "TITLE_REQUIRED"
	ErrCodeTitleTooLong          = "TITLE_TOO_LONG"
	ErrCodeInvalidURL            = "INVALID_URL"
	ErrCodeInvalidColor          = "INVALID_COLOR"
	ErrCodeDuplicateMissedDay    = "DUPLICATE_MISSED_DAY"
	ErrCodeDuplicateCategoryName = "DUPLICATE_CATEGORY_NAME"
	ErrCodeCategoryInUse         = "CATEGORY_IN_USE"
	ErrCodeCategoryNotFound      = "CATEGORY_NOT_FOUND"
	ErrCodeArticleNotFound       = "ARTICLE_NOT_FOUND"
	ErrCodeInvalidFilter         = "INVALID_FILTER"
	ErrCodeInvalidSort           = "INVALID_SORT"
	ErrCodeSSRFBlocked           = "SSRF_BLOCKED"
	ErrCodeFetchFailed           = "FETCH_FAILED"
	ErrCodePreviewParseFailed    = "PREVIEW_PARSE_FAILED"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeValidation            = "VALIDATION_ERROR"
)

// NewValidationError は汎用のバリデーションエラーを生成する。
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認してください。",
		Field:    field,
	}
}

// NewFutureDateError は未来日付の記録を拒否するバリデーションエラーを生成する。
// fieldには"publication_date"または"read_date"を指定する。
func NewFutureDateError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeFutureDate,
		Message:  "未来の日付は指定できません。",
		Category: "validation",
		Action:   "今日以前の日付を指定してください。",
		Field:    field,
	}
}

// NewTitleRequiredError はタイトル未入力のバリデーションエラーを生成する。
func NewTitleRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTitleRequired,
		Message:  "記事タイトルは必須です。",
		Category: "validation",
		Action:   "タイトルを入力してください。",
		Field:    "title",
	}
}

// NewTitleTooLongError はタイトル長超過のバリデーションエラーを生成する。
func NewTitleTooLongError(max int) *APIError {
	return &APIError{
		Code:     ErrCodeTitleTooLong,
		Message:  fmt.Sprintf("記事タイトルは%d文字以内で入力してください。", max),
		Category: "validation",
		Action:   "タイトルを短くしてください。",
		Field:    "title",
	}
}

// NewInvalidURLError は無効なURLのバリデーションエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "http:// または https:// で始まる正しいURLを入力してください。",
		Field:    "url",
	}
}

// NewInvalidColorError は色形式不正のバリデーションエラーを生成する。
func NewInvalidColorError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidColor,
		Message:  fmt.Sprintf("無効な色形式です: %s", value),
		Category: "validation",
		Action:   "#RRGGBB形式（6桁の16進数）で指定してください。",
		Field:    "color",
	}
}

// NewDuplicateMissedDayError は同一日の重複マーカーを拒否するエラーを生成する。
func NewDuplicateMissedDayError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateMissedDay,
		Message:  "この日はすでに「読まなかった日」として記録されています。",
		Category: "validation",
		Action:   "同じ日に重複してマークすることはできません。",
		Field:    "read_date",
	}
}

// NewDuplicateCategoryNameError は同名カテゴリの重複を拒否するエラーを生成する。
func NewDuplicateCategoryNameError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateCategoryName,
		Message:  fmt.Sprintf("同じ名前のカテゴリがすでに存在します: %s", name),
		Category: "validation",
		Action:   "別の名前を指定してください。",
		Field:    "name",
	}
}

// NewCategoryInUseError は記録が参照中のカテゴリ削除を拒否するエラーを生成する。
func NewCategoryInUseError() *APIError {
	return &APIError{
		Code:     ErrCodeCategoryInUse,
		Message:  "このカテゴリを参照している記録が存在するため削除できません。",
		Category: "category",
		Action:   "先に該当する記録を削除するか、別のカテゴリに付け替えてください。",
	}
}

// NewCategoryNotFoundError はカテゴリ未検出エラーを生成する。
func NewCategoryNotFoundError(categoryID string) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryNotFound,
		Message:  fmt.Sprintf("指定されたカテゴリが見つかりません: %s", categoryID),
		Category: "category",
		Action:   "カテゴリIDを確認してください。",
	}
}

// NewArticleNotFoundError は記録未検出エラーを生成する。
func NewArticleNotFoundError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotFound,
		Message:  fmt.Sprintf("指定された記録が見つかりません: %s", articleID),
		Category: "article",
		Action:   "記録IDを確認してください。",
	}
}

// NewInvalidFilterError は無効なフィルタエラーを生成する。
func NewInvalidFilterError(filter string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFilter,
		Message:  fmt.Sprintf("無効なフィルタです: %s", filter),
		Category: "validation",
		Action:   "フィルタには all、read、missed のいずれかを指定してください。",
		Field:    "filter",
	}
}

// NewInvalidSortError は無効なソート指定エラーを生成する。
func NewInvalidSortError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSort,
		Message:  fmt.Sprintf("無効なソート指定です: %s", value),
		Category: "validation",
		Action:   "ソートには title、publication_date、read_date と asc、desc を指定してください。",
		Field:    "sort",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "preview",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewFetchFailedError はプレビュー取得失敗エラーを生成する。
func NewFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("URLの取得に失敗しました: %s", reason),
		Category: "preview",
		Action:   "URLが正しいか確認し、しばらく待ってから再度お試しください。",
	}
}

// NewPreviewParseFailedError はプレビュー解析失敗エラーを生成する。
func NewPreviewParseFailedError() *APIError {
	return &APIError{
		Code:     ErrCodePreviewParseFailed,
		Message:  "ページの解析に失敗しました。",
		Category: "preview",
		Action:   "タイトル等を手動で入力してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
