package ids

import "testing"

func TestUniquePrefixLengths(t *testing.T) {
	ids := []string{"2u3iutfd", "2a9k1111", "abc12345"}
	lengths := UniquePrefixLengths(ids)

	if got := lengths["2u3iutfd"]; got != 2 {
		t.Fatalf("expected 2u3iutfd prefix length 2, got %d", got)
	}
	if got := lengths["2a9k1111"]; got != 2 {
		t.Fatalf("expected 2a9k1111 prefix length 2, got %d", got)
	}
	if got := lengths["abc12345"]; got != 1 {
		t.Fatalf("expected abc12345 prefix length 1, got %d", got)
	}
}

func TestUniquePrefixLengthsSkipsDuplicatesAndEmpty(t *testing.T) {
	ids := []string{"abc", "", "ABC"}
	lengths := UniquePrefixLengths(ids)

	if len(lengths) != 1 {
		t.Fatalf("expected 1 unique ID, got %d", len(lengths))
	}
	if got := lengths["abc"]; got != 1 {
		t.Fatalf("expected abc prefix length 1, got %d", got)
	}
}

func TestMatchPrefixNormalized(t *testing.T) {
	ids := NormalizeUniqueIDs([]string{"abcd1234", "abce5678", "zz"})

	cases := []struct {
		name      string
		prefix    string
		match     string
		found     bool
		ambiguous bool
	}{
		{name: "unique", prefix: "abcd", match: "abcd1234", found: true},
		{name: "case insensitive", prefix: "ZZ", match: "zz", found: true},
		{name: "ambiguous", prefix: "abc", found: true, ambiguous: true},
		{name: "missing", prefix: "q"},
		{name: "empty", prefix: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			match, found, ambiguous := MatchPrefixNormalized(ids, tc.prefix)
			if match != tc.match || found != tc.found || ambiguous != tc.ambiguous {
				t.Fatalf("got (%q, %v, %v), want (%q, %v, %v)", match, found, ambiguous, tc.match, tc.found, tc.ambiguous)
			}
		})
	}
}

func TestMatchPrefixNormalizedPrefersExactMatch(t *testing.T) {
	ids := NormalizeUniqueIDs([]string{"ab", "abc"})

	match, found, ambiguous := MatchPrefixNormalized(ids, "ab")
	if match != "ab" || !found || ambiguous {
		t.Fatalf("expected exact match ab, got (%q, %v, %v)", match, found, ambiguous)
	}
}
