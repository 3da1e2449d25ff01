package api

import (
	"net/url"
	"strings"
	"testing"
)

func TestIndexURL_NameIsOneSegment(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"my index/a", "q?x#y", "plain", "ünï"} {
		u := IndexURL("http://h", name)
		segment := strings.TrimPrefix(u, "http://h/v1/indexes/")
		if strings.ContainsAny(segment, "/?# ") {
			t.Fatalf("segment %q leaks delimiters", segment)
		}
		back, err := url.PathUnescape(segment)
		if err != nil || back != name {
			t.Fatalf("round trip of %q gave %q (%v)", name, back, err)
		}
	}
}

func TestIndexURL_Shapes(t *testing.T) {
	t.Parallel()
	if got := IndexesURL("http://h"); got != "http://h/v1/indexes/" {
		t.Fatalf("IndexesURL = %q", got)
	}
	if got := functionURL("http://h", "idx", 3); got != "http://h/v1/indexes/idx/functions/3" {
		t.Fatalf("functionURL = %q", got)
	}
}
