package utils

import "time"

func Ptr[T any](v T) *T {
	return &v
}

func Now() time.Time {
	return time.Now().UTC()
}
