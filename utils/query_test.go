package utils

import (
	"regexp"
	"testing"
)

func TestAddQueryString_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		qs   string
		want string
	}{
		{name: "first param", url: "/a", qs: "x=1", want: "/a?x=1"},
		{name: "second param", url: "/a?x=1", qs: "y=2", want: "/a?x=1&y=2"},
		{name: "empty qs", url: "/a", qs: "", want: "/a"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AddQueryString(tt.url, tt.qs); got != tt.want {
				t.Fatalf("got=%q want %q", got, tt.want)
			}
		})
	}
}

func TestNonCacheQS_Shape(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^[A-Za-z]{5}(\d+)=(\d+)$`)
	m := re.FindStringSubmatch(NonCacheQS())
	if m == nil {
		t.Fatalf("unexpected cache buster shape")
	}
	if len(RandomString(0)) != 9 {
		t.Fatalf("default random string size should be 9")
	}
}
