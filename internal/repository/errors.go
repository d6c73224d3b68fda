package repository

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
