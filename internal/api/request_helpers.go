package api

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
)

// getPathID extracts a positive integer ID from the URL path. Anything but
// plain decimal digits is rejected.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, domain.ErrInvalidID
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// getQueryInt returns the integer value of a query parameter, or 0 when it
// is absent or not a number. Fractions are truncated toward zero, except
// that a nonzero value never becomes 0, and out-of-range values saturate.
func getQueryInt(r *http.Request, name string) int {
	value, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}

	switch {
	case math.IsNaN(value) || value == 0:
		return 0
	case value >= math.MaxInt:
		return math.MaxInt
	case value <= math.MinInt:
		return math.MinInt
	case value > 0 && value < 1:
		return 1
	case value < 0 && value > -1:
		return -1
	}
	return int(value)
}

// decodeTaskInput reads a task body. An empty body is an empty object.
func decodeTaskInput(r *http.Request) (domain.TaskInput, error) {
	var input domain.TaskInput
	if err := shared.DecodeJSON(r, &input); err != nil && !errors.Is(err, io.EOF) {
		return domain.TaskInput{}, err
	}
	return input, nil
}
