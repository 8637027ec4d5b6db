package entities

import (
	"math"
	"strconv"
	"strings"
)

// Значения по умолчанию для выборки записей.
const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100

	SortNewest = "newest"
	SortOldest = "oldest"

	MoodAll = "all"
)

// ListParams - проверенные параметры постраничной выборки.
type ListParams struct {
	Page   int
	Limit  int
	SortBy string
	Search string
	Mood   string
}

// DefaultListParams возвращает параметры по умолчанию.
func DefaultListParams() ListParams {
	return ListParams{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		SortBy: SortNewest,
		Mood:   MoodAll,
	}
}

// ParseListParams разбирает сырые значения строки запроса.
// Нечисловые или нулевые page/limit заменяются значениями по умолчанию,
// отрицательные зажимаются до 1, limit ограничен сверху maxLimit.
func ParseListParams(page, limit, sortBy, search, mood string, maxLimit int) ListParams {
	params := DefaultListParams()

	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		params.Page = n
	}

	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n != 0 {
		params.Limit = max(n, 1)
	}
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	params.Limit = min(params.Limit, maxLimit)
	params.Page = clampPage(params.Page, params.Limit)

	if strings.EqualFold(strings.TrimSpace(sortBy), SortOldest) {
		params.SortBy = SortOldest
	}

	params.Search = strings.TrimSpace(search)

	if m := strings.TrimSpace(mood); m != "" {
		params.Mood = m
	}

	return params
}

// Normalize приводит значения, пришедшие в обход ParseListParams, к допустимым.
func (p ListParams) Normalize(maxLimit int) ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	p.Page = clampPage(p.Page, p.Limit)
	if p.SortBy != SortOldest {
		p.SortBy = SortNewest
	}
	if p.Mood == "" {
		p.Mood = MoodAll
	}
	return p
}

// MaxPage - наибольшая страница, для которой (page-1)*limit помещается в int.
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return math.MaxInt / limit
}

func clampPage(page, limit int) int {
	return min(page, MaxPage(limit))
}

// Offset возвращает число пропускаемых записей: (page-1)*limit.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination - метаданные страницы.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// NewPagination считает pages = ceil(total/limit).
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 && total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Pages: pages}
}

// EntryPage - одна страница записей с метаданными.
type EntryPage struct {
	Entries    []*Entry   `json:"entries"`
	Pagination Pagination `json:"pagination"`
}
