package dom

import (
	"strings"
	"time"
)

// declarations is an ordered inline style, as found in a style attribute.
type declarations []declaration

type declaration struct {
	prop, value string
}

func parseStyle(s string) declarations {
	var st declarations
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		st.set(prop, value)
	}
	return st
}

func (st declarations) get(prop string) string {
	for _, d := range st {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

func (st *declarations) set(prop, value string) {
	if value == "" {
		st.remove(prop)
		return
	}
	for i, d := range *st {
		if d.prop == prop {
			(*st)[i].value = value
			return
		}
	}
	*st = append(*st, declaration{prop: prop, value: value})
}

func (st *declarations) remove(prop string) {
	for i, d := range *st {
		if d.prop == prop {
			*st = append((*st)[:i], (*st)[i+1:]...)
			return
		}
	}
}

func (st declarations) String() string {
	parts := make([]string, len(st))
	for i, d := range st {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// transitionDuration extracts the duration from a transition shorthand such
// as "height 0.15s ease-out".
func transitionDuration(transition string) (time.Duration, bool) {
	for _, field := range strings.Fields(transition) {
		if d, err := time.ParseDuration(field); err == nil {
			return d, true
		}
	}
	return 0, false
}
