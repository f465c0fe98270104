package handler

import (
	"github.com/hitoshi/readtrack/internal/article"
	"github.com/hitoshi/readtrack/internal/calendar"
	"github.com/hitoshi/readtrack/internal/category"
	"github.com/hitoshi/readtrack/internal/preview"
	"github.com/hitoshi/readtrack/internal/settings"
	"github.com/hitoshi/readtrack/internal/user"
)

// ドメインサービスがハンドラーの要求するインターフェースを
// 満たすことを保証する。アダプタを介さず直接注入できる。

// --- compile-time interface checks ---

var _ ArticleServiceInterface = (*article.Service)(nil)
var _ RecentArticlesInterface = (*article.Service)(nil)
var _ CalendarServiceInterface = (*calendar.Service)(nil)
var _ CategoryServiceInterface = (*category.Service)(nil)
var _ SettingsServiceInterface = (*settings.Service)(nil)
var _ PreviewServiceInterface = (*preview.Service)(nil)
var _ UserServiceInterface = (*user.Service)(nil)
