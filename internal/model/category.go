// Package model はドメインモデルを定義する。
package model

import "time"

// Category はユーザー定義の記事カテゴリを表す。
// 名前はユーザーごとに一意。色は#RRGGBB形式の6桁16進数。
type Category struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultCategory は初期セットアップで作成されるカテゴリの定義。
type DefaultCategory struct {
	Name  string
	Color string
}

// DefaultCategories は初期セットアップで提案されるカテゴリセット。
var DefaultCategories = []DefaultCategory{
	{Name: "Technology", Color: "#3B82F6"},
	{Name: "Science", Color: "#10B981"},
	{Name: "Business", Color: "#8B5CF6"},
	{Name: "Programming", Color: "#F59E0B"},
	{Name: "Research", Color: "#EF4444"},
}
