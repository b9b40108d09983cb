package pagination

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidParams = errors.New("invalid pagination parameters")

// Params is an offset page request
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Metadata describes the page that was returned
type Metadata struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"hasMore"`
}

type OffsetHandler struct {
	DefaultLimit int
	MaxLimit     int
}

func NewOffsetHandler(defaultLimit, maxLimit int) *OffsetHandler {
	return &OffsetHandler{
		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
	}
}

// Normalize applies the default limit and clamps to the maximum
func (h *OffsetHandler) Normalize(params Params) (Params, error) {
	if params.Limit < 0 || params.Offset < 0 {
		return Params{}, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidParams)
	}

	if params.Limit == 0 {
		params.Limit = h.DefaultLimit
	}

	if h.MaxLimit > 0 && params.Limit > h.MaxLimit {
		params.Limit = h.MaxLimit
	}

	return params, nil
}

// ParseQuery builds normalized params from raw query string values. Empty values use defaults.
func (h *OffsetHandler) ParseQuery(limit, offset string) (Params, error) {
	var params Params

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return Params{}, fmt.Errorf("%w: limit %q", ErrInvalidParams, limit)
		}
		params.Limit = n
	}

	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return Params{}, fmt.Errorf("%w: offset %q", ErrInvalidParams, offset)
		}
		params.Offset = n
	}

	return h.Normalize(params)
}

// Metadata reports a full page as possibly having more results
func (h *OffsetHandler) Metadata(params Params, count int) Metadata {
	return Metadata{
		Limit:   params.Limit,
		Offset:  params.Offset,
		Count:   count,
		HasMore: params.Limit > 0 && count >= params.Limit,
	}
}
