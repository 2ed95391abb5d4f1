package discovery

import "strconv"

// Params is the form payload of one Discovery API call.
type Params map[string]string

// With returns a copy of p with overrides applied. p is left untouched.
func (p Params) With(overrides Params) Params {
	out := make(Params, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func unixParam(ts int64) string {
	return strconv.FormatInt(ts, 10)
}
