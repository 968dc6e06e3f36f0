// Package errutil turns store and service errors into structured log
// records.
package errutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/oops"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
)

// promotedKeys are oops context keys lifted to top-level attributes so
// log queries can filter on them directly.
var promotedKeys = []string{"booking_id", "booking_date", "sponsor_id", "username"}

// Code returns the oops code carried by err, or "" if there is none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if code := oopsErr.Code(); code != nil {
		return fmt.Sprint(code)
	}
	return ""
}

// Kind names the apperror sentinel err wraps, or "internal".
func Kind(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return "internal"
}

// LogError logs err at error level. The oops code, the booking keys and
// any remaining oops context become separate attributes.
func LogError(logger *slog.Logger, msg string, err error) {
	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("kind", Kind(err)),
	}
	if code := Code(err); code != "" {
		attrs = append(attrs, slog.String("code", code))
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		rest := make(map[string]any)
		for k, v := range oopsErr.Context() {
			rest[k] = v
		}
		for _, k := range promotedKeys {
			if v, found := rest[k]; found {
				attrs = append(attrs, slog.Any(k, v))
				delete(rest, k)
			}
		}
		if len(rest) > 0 {
			attrs = append(attrs, slog.Any("context", rest))
		}
	}

	logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}
