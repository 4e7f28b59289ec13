package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

// Query string parameters
const (
	paramMinScore  = "min_score"
	paramTier      = "tier"
	paramSort      = "sort"
	paramAscending = "asc"
	paramTop       = "top"
	paramCharts    = "charts"

	// set by the dashboard form so unchecked boxes mean "off" instead of "default"
	paramSubmitted = "submitted"
)

// ParseQuery reads a pipeline.Query from URL parameters. Missing values fall
// back to the dashboard defaults. Tiers may repeat (?tier=WATCH&tier=MONITOR)
// or be comma separated.
func ParseQuery(values url.Values) (pipeline.Query, error) {
	q := pipeline.DefaultQuery()
	submitted := values.Get(paramSubmitted) != ""

	if v := values.Get(paramMinScore); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, fmt.Errorf("%s: %q is not a number", paramMinScore, v)
		}
		q.MinScore = f
	}

	var tiers []string
	for _, v := range values[paramTier] {
		tiers = append(tiers, strings.Split(v, ",")...)
	}
	if len(tiers) > 0 || submitted {
		set, err := contracts.ParseTierSet(tiers)
		if err != nil {
			return q, fmt.Errorf("%s: %w", paramTier, err)
		}
		q.Tiers = set
	}

	if v := values.Get(paramSort); v != "" {
		key, err := pipeline.ParseSortKey(v)
		if err != nil {
			return q, fmt.Errorf("%s: %w", paramSort, err)
		}
		q.SortKey = key
	}

	if v := values.Get(paramAscending); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return q, fmt.Errorf("%s: %w", paramAscending, err)
		}
		q.Ascending = b
	}

	if v := values.Get(paramTop); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("%s: %q is not an integer", paramTop, v)
		}
		q.TopN = n
	}

	if v := values.Get(paramCharts); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return q, fmt.Errorf("%s: %w", paramCharts, err)
		}
		q.ShowCharts = b
	} else if submitted {
		q.ShowCharts = false
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// parseBool also accepts "on", which browsers send for checked boxes
func parseBool(v string) (bool, error) {
	if strings.EqualFold(v, "on") {
		return true, nil
	}
	return strconv.ParseBool(v)
}

// EncodeQuery is the inverse of ParseQuery (links, export URLs)
func EncodeQuery(q pipeline.Query) url.Values {
	values := url.Values{}
	values.Set(paramMinScore, strconv.FormatFloat(q.MinScore, 'f', -1, 64))
	for _, t := range q.Tiers.Sorted() {
		values.Add(paramTier, t.String())
	}
	values.Set(paramSort, string(q.SortKey))
	values.Set(paramAscending, strconv.FormatBool(q.Ascending))
	values.Set(paramTop, strconv.Itoa(q.TopN))
	values.Set(paramCharts, strconv.FormatBool(q.ShowCharts))
	values.Set(paramSubmitted, "1")
	return values
}

func queryFromRequest(w http.ResponseWriter, r *http.Request) (pipeline.Query, bool) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	return q, true
}
