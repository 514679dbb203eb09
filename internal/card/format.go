package card

import (
	"strconv"
	"strings"
)

// Abbreviate shortens n with a K, M or G suffix and one decimal.
func Abbreviate(n int64) string {
	for _, u := range []struct {
		div    float64
		suffix string
	}{
		{1e9, "G"},
		{1e6, "M"},
		{1e3, "K"},
	} {
		if float64(n) >= u.div {
			s := strconv.FormatFloat(float64(n)/u.div, 'f', 1, 64)
			return strings.TrimSuffix(s, ".0") + u.suffix
		}
	}
	return strconv.FormatInt(n, 10)
}

func expand(template string, vars ...string) string {
	return strings.NewReplacer(vars...).Replace(template)
}
