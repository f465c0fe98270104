// Package calendar は読書活動の年間カレンダー集計を提供する。
// ユーザーの生の読書記録から、1年分の日別セル（件数と表示色）を
// 純粋関数として計算する。永続化やHTTPには依存しない。
package calendar

import (
	"time"

	"github.com/hitoshi/readtrack/internal/model"
)

// ColorKind は日別セルの色の決定根拠を表すタグ。
// 優先順位の高い順: MissedDay > SingleCategory / MultipleCategories / PlainCount > NoActivity。
type ColorKind int

const (
	// ColorNoActivity は記録のない日（背景色で描画される）。
	ColorNoActivity ColorKind = iota
	// ColorMissedDay は「読まなかった日」マーカーのある日。
	ColorMissedDay
	// ColorSingleCategory は単一カテゴリの記録のみの日。
	ColorSingleCategory
	// ColorMultipleCategories は複数カテゴリの記録が混在する日。
	ColorMultipleCategories
	// ColorPlainCount はカテゴリなし記録のみの日（件数による緑の段階色）。
	ColorPlainCount
)

// DayCell はカレンダー1日分の集計結果を表す。
// Colorが空文字列の場合は活動なし（背景色）を意味する。
type DayCell struct {
	Date        time.Time
	Count       int
	Color       string
	Kind        ColorKind
	IsMissedDay bool
}

// MissedDayColor は「読まなかった日」の固定色。
const MissedDayColor = "#EF4444"

// greenTiers はカテゴリなし記録の件数に応じた4段階の緑色。
// 1件 → [0]、2件 → [1]、3件 → [2]、4件以上 → [3]。
var greenTiers = [4]string{"#9BE9A8", "#40C463", "#30A14E", "#216E39"}

// Aggregate は指定年の1月1日から12月31日までの日別セルを昇順で返す。
// 戻り値の長さは常にその年の日数（365または閏年の366）に一致する。
//
// 色の解決は優先順位つきのマッチで行う:
//  1. マーカーのある日は件数にかかわらずMissedDayColor
//  2. 記録のない日は色なし
//  3. 記録のカテゴリが1種類ならそのカテゴリの色（カテゴリが削除済みの場合は段階1の緑）
//  4. カテゴリが複数種類ならmultipleColor
//  5. 全記録がカテゴリなしなら件数による緑の段階色
//
// multipleColorが空の場合はデフォルト色を使用する。
// 純粋関数であり、同一入力に対して常に同一の結果を返す。
func Aggregate(articles []model.Article, categories []model.Category, multipleColor string, year int) []DayCell {
	if multipleColor == "" {
		multipleColor = model.DefaultMultipleCategoriesColor
	}

	categoryColors := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryColors[c.ID] = c.Color
	}

	// 読了日（日付のみ）でグループ化する
	byDate := make(map[string][]model.Article, len(articles))
	for _, a := range articles {
		key := dayKey(a.ReadDate)
		byDate[key] = append(byDate[key], a)
	}

	cells := make([]DayCell, 0, 366)
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		cells = append(cells, resolveCell(d, byDate[dayKey(d)], categoryColors, multipleColor))
	}

	return cells
}

// resolveCell は1日分の記録から日別セルを解決する。
func resolveCell(date time.Time, dayArticles []model.Article, categoryColors map[string]string, multipleColor string) DayCell {
	cell := DayCell{Date: date}

	distinctCategories := make(map[string]bool)
	for _, a := range dayArticles {
		if a.IsMissedDay {
			cell.IsMissedDay = true
			continue
		}
		cell.Count++
		if a.CategoryID != nil {
			distinctCategories[*a.CategoryID] = true
		}
	}

	switch {
	case cell.IsMissedDay:
		// マーカーは通常記録の色づけより常に優先される
		cell.Kind = ColorMissedDay
		cell.Color = MissedDayColor

	case cell.Count == 0:
		cell.Kind = ColorNoActivity

	case len(distinctCategories) == 0:
		cell.Kind = ColorPlainCount
		cell.Color = tierColor(cell.Count)

	case len(distinctCategories) == 1:
		cell.Kind = ColorSingleCategory
		for id := range distinctCategories {
			if color, ok := categoryColors[id]; ok {
				cell.Color = color
			} else {
				// 削除済みカテゴリへの参照は段階1の緑にフォールバック
				cell.Color = greenTiers[0]
			}
		}

	default:
		cell.Kind = ColorMultipleCategories
		cell.Color = multipleColor
	}

	return cell
}

// tierColor はカテゴリなし記録の件数を4段階の緑色に変換する。
func tierColor(count int) string {
	switch {
	case count <= 1:
		return greenTiers[0]
	case count == 2:
		return greenTiers[1]
	case count == 3:
		return greenTiers[2]
	default:
		return greenTiers[3]
	}
}

// dayKey は時刻部分を無視した日付キーを返す。
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
