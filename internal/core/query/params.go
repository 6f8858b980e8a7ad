// Package query implements the list-read pipeline: where, sortBy,
// offset/pageSize, distinct, count, select and load, applied in that order.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize applies when pageSize is given but is not a positive number.
const DefaultPageSize = 10

// Params holds the raw query-string parameters the pipeline understands.
// A stage runs only when its parameter is non-empty.
type Params struct {
	Where    string
	SortBy   string
	Offset   string
	PageSize string
	Distinct string
	Count    string
	Select   string
	Load     string
}

// ParseRawQuery decodes a raw query string. Pairs are split on '&' and on the
// first '='; values are percent-decoded without turning '+' into a space.
func ParseRawQuery(raw string) Params {
	var p Params
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		switch key {
		case "where":
			p.Where = value
		case "sortBy":
			p.SortBy = value
		case "offset":
			p.Offset = value
		case "pageSize":
			p.PageSize = value
		case "distinct":
			p.Distinct = value
		case "count":
			p.Count = value
		case "select":
			p.Select = value
		case "load":
			p.Load = value
		}
	}
	return p
}

func (p Params) offset() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Offset))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (p Params) pageSize() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.PageSize))
	if err != nil || n <= 0 {
		return DefaultPageSize
	}
	return n
}

// splitList splits a comma-separated parameter, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
