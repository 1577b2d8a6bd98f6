package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var parser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseAt resolves a --at value relative to base. Exact dates are tried first,
// then natural language such as "tomorrow 8am" or "friday at 20:00".
func ParseAt(s string, base time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return base, nil
	}
	if t, err := ParseDate(s, base.Location()); err == nil {
		return t, nil
	}
	r, err := parser.Parse(s, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not understand time %q", s)
	}
	return r.Time, nil
}
