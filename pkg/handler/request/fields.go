package request

import (
	"net/url"
	"sort"

	"github.com/yumyai/seqportal/pkg/filter"
)

// NullValue in a query string stands for an explicit "no value" filter.
const NullValue = "_null_"

// FieldValues turns a query string into filter field values. A key given
// once is a scalar, a repeated key is a list. Reserved keys are skipped.
func FieldValues(q url.Values, reserved ...string) filter.FieldValues {
	skip := make(map[string]bool, len(reserved))
	for _, k := range reserved {
		skip[k] = true
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		if !skip[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make(filter.FieldValues, len(keys))
	for _, k := range keys {
		vs := q[k]
		switch len(vs) {
		case 0:
			continue
		case 1:
			out[k] = queryValue(vs[0])
		default:
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = queryValue(v)
			}
			out[k] = list
		}
	}
	return out
}

func queryValue(v string) any {
	if v == NullValue {
		return nil
	}
	return v
}
