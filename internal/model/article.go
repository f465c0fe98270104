// Package model はドメインモデルを定義する。
package model

import "time"

// Article は1件の読書記録を表す。
// IsMissedDay=trueのレコードは「読まなかった日」のマーカーであり、
// タイトル・URLは固定値が入る。
type Article struct {
	ID              string
	UserID          string
	Title           string
	PublicationDate time.Time // 日付のみ（時刻部分は無視する）
	URL             string
	ReadDate        time.Time // 日付のみ（時刻部分は無視する）
	IsMissedDay     bool
	CategoryID      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MissedDayTitle は「読まなかった日」マーカーのタイトル固定値。
const MissedDayTitle = "Missed Reading Day"

// MissedDayURL は「読まなかった日」マーカーのURL固定値。
const MissedDayURL = "#"

// ArticleFilter は記録一覧のフィルタ種別を表す。
type ArticleFilter string

const (
	// ArticleFilterAll は全記録を表示するフィルタ。
	ArticleFilterAll ArticleFilter = "all"
	// ArticleFilterRead は読書記録のみ（マーカーを除く）を表示するフィルタ。
	ArticleFilterRead ArticleFilter = "read"
	// ArticleFilterMissed は「読まなかった日」マーカーのみを表示するフィルタ。
	ArticleFilterMissed ArticleFilter = "missed"
)

// ArticleSortField は記録一覧のソート対象フィールドを表す。
type ArticleSortField string

const (
	// SortFieldTitle はタイトルによるソート。
	SortFieldTitle ArticleSortField = "title"
	// SortFieldPublicationDate は公開日によるソート。
	SortFieldPublicationDate ArticleSortField = "publication_date"
	// SortFieldReadDate は読了日によるソート。
	SortFieldReadDate ArticleSortField = "read_date"
)

// SortDirection はソート方向を表す。
type SortDirection string

const (
	// SortAsc は昇順ソート。
	SortAsc SortDirection = "asc"
	// SortDesc は降順ソート。
	SortDesc SortDirection = "desc"
)
