package utils

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomString returns size random ASCII letters (9 when size <= 0).
func RandomString(size int) string {
	if size <= 0 {
		size = 9
	}
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(letters[rand.IntN(len(letters))])
	}
	return sb.String()
}

// Timestamp is the current unix time in milliseconds.
func Timestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// NonCacheQS builds the cache busting query pair.
func NonCacheQS() string {
	return RandomString(5) + Timestamp() + "=" + Timestamp()
}

// AddQueryString appends qs to url with the right separator.
func AddQueryString(url, qs string) string {
	if qs == "" {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + qs
	}
	return url + "?" + qs
}
