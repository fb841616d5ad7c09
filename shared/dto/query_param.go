package dto

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"washbay/shared/constant"
	"washbay/shared/failure"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"

	MaxLimit = 100
)

type QueryParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir"`
}

// ParseQueryParams reads paging and sorting from query, filling defaults for what is absent.
// A page or limit that is not a positive number is rejected and limit is capped at MaxLimit.
func ParseQueryParams(query url.Values) (QueryParams, error) {
	params := QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   constant.DefaultValueLimit,
		SortBy:  constant.DefaultValueSortBy,
		SortDir: constant.DefaultValueSortDir,
	}

	if raw := query.Get(constant.RequestParamPage); raw != constant.Empty {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, failure.InvalidPageParam
		}

		params.Page = page
	}

	if raw := query.Get(constant.RequestParamLimit); raw != constant.Empty {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return params, failure.InvalidLimitParam
		}

		params.Limit = min(limit, MaxLimit)
	}

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != constant.Empty {
		params.SortBy = sortBy
	}

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		params.SortDir = dir
	}

	return params, nil
}

// RestrictSort falls back to the default column when SortBy is not one of allowed.
func (q *QueryParams) RestrictSort(allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = constant.DefaultValueSortBy
	}
}
