package http

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"wallet/internal/core"
)

// parseFilter turns query parameters into a filter. Every field is
// optional; a malformed value rejects the request before any storage
// access. When requireUser is set, user_id must be present.
func parseFilter(q url.Values, requireUser bool) (core.Filter, error) {
	var f core.Filter

	if v := q.Get("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: user_id %q", core.ErrInvalidFilter, v)
		}
		f.UserID = &id
	} else if requireUser {
		return core.Filter{}, fmt.Errorf("%w: user_id is required", core.ErrInvalidFilter)
	}

	if v := q.Get("category"); v != "" {
		c, err := core.ParseCategory(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: category %q", core.ErrInvalidFilter, v)
		}
		f.Category = &c
	}

	if v := q.Get("transaction_type"); v != "" {
		k, err := core.ParseKind(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: transaction_type %q", core.ErrInvalidFilter, v)
		}
		f.Kind = &k
	}

	if v := q.Get("amount_min"); v != "" {
		cents, err := core.ParseCents(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: amount_min %q", core.ErrInvalidFilter, v)
		}
		f.AmountMin = &core.Money{Cents: cents}
	}

	if v := q.Get("amount_max"); v != "" {
		cents, err := core.ParseCents(v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: amount_max %q", core.ErrInvalidFilter, v)
		}
		f.AmountMax = &core.Money{Cents: cents}
	}

	if v := q.Get("start_timestamp"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: start_timestamp %q", core.ErrInvalidFilter, v)
		}
		f.Start = &ts
	}

	if v := q.Get("end_timestamp"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("%w: end_timestamp %q", core.ErrInvalidFilter, v)
		}
		f.End = &ts
	}

	if f.AmountMin != nil && f.AmountMax != nil && f.AmountMin.Cents > f.AmountMax.Cents {
		return core.Filter{}, fmt.Errorf("%w: amount_min exceeds amount_max", core.ErrInvalidFilter)
	}
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return core.Filter{}, fmt.Errorf("%w: start_timestamp after end_timestamp", core.ErrInvalidFilter)
	}

	return f, nil
}
