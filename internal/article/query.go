// Package article は読書記録の管理機能を提供する。
// 記録の作成・削除のビジネスロジックと、一覧ビュー用の
// 検索・フィルタ・ソートを行うコレクション検索エンジンを含む。
package article

import (
	"sort"
	"strings"

	"github.com/hitoshi/readtrack/internal/model"
)

// QueryParams はコレクション検索エンジンへの入力を表す。
// エンジンはステートレスであり、呼び出しごとに明示的な
// (フィールド, 方向)の組を受け取る。
type QueryParams struct {
	Search    string
	Filter    model.ArticleFilter
	SortField model.ArticleSortField
	Direction model.SortDirection
}

// QueryResult はコレクション検索エンジンの出力を表す。
// TotalReadとTotalMissedはフィルタ適用後の結果に対して計算される。
// 全件に対する集計ではない点に注意（アクティブなフィルタを反映した
// サマリーを表示するための仕様）。
type QueryResult struct {
	Articles    []model.Article
	TotalRead   int
	TotalMissed int
}

// validFilters は有効なフィルタ値のセット。
var validFilters = map[model.ArticleFilter]bool{
	model.ArticleFilterAll:    true,
	model.ArticleFilterRead:   true,
	model.ArticleFilterMissed: true,
}

// validSortFields は有効なソートフィールドのセット。
var validSortFields = map[model.ArticleSortField]bool{
	model.SortFieldTitle:           true,
	model.SortFieldPublicationDate: true,
	model.SortFieldReadDate:        true,
}

// Query は記録の集合に検索・フィルタ・ソートを適用して返す。
//
//  1. searchが空でない場合、タイトルにsearchを大文字小文字を
//     区別しない部分文字列として含む記録のみを残す
//  2. フィルタを適用する（read=マーカー以外 / missed=マーカーのみ / all=全件）
//  3. 指定フィールド・方向で安定ソートする（同値は入力順を維持する）
//  4. フィルタ適用後の結果からTotalRead / TotalMissedを計算する
//
// 入力スライスは変更しない。無効なフィルタ・ソート指定にはAPIErrorを返す。
func Query(articles []model.Article, params QueryParams) (*QueryResult, error) {
	if !validFilters[params.Filter] {
		return nil, model.NewInvalidFilterError(string(params.Filter))
	}
	if !validSortFields[params.SortField] {
		return nil, model.NewInvalidSortError(string(params.SortField))
	}
	if params.Direction != model.SortAsc && params.Direction != model.SortDesc {
		return nil, model.NewInvalidSortError(string(params.Direction))
	}

	search := strings.ToLower(params.Search)

	filtered := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) {
			continue
		}
		switch params.Filter {
		case model.ArticleFilterRead:
			if a.IsMissedDay {
				continue
			}
		case model.ArticleFilterMissed:
			if !a.IsMissedDay {
				continue
			}
		}
		filtered = append(filtered, a)
	}

	less := lessFunc(filtered, params.SortField)
	if params.Direction == model.SortDesc {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(filtered, less)

	result := &QueryResult{Articles: filtered}
	for _, a := range filtered {
		if a.IsMissedDay {
			result.TotalMissed++
		} else {
			result.TotalRead++
		}
	}

	return result, nil
}

// lessFunc は指定フィールドの昇順比較関数を返す。
func lessFunc(articles []model.Article, field model.ArticleSortField) func(i, j int) bool {
	switch field {
	case model.SortFieldTitle:
		return func(i, j int) bool {
			return articles[i].Title < articles[j].Title
		}
	case model.SortFieldPublicationDate:
		return func(i, j int) bool {
			return articles[i].PublicationDate.Before(articles[j].PublicationDate)
		}
	default:
		return func(i, j int) bool {
			return articles[i].ReadDate.Before(articles[j].ReadDate)
		}
	}
}
