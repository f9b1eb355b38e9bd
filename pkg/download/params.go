package download

import (
	"net/url"
	"strings"

	"github.com/yumyai/seqportal/pkg/filter"
)

// orderedParams keeps insertion order when encoding, which url.Values does
// not.
type orderedParams struct {
	pairs []filter.UrlParam
}

// Set replaces every value of key, keeping the position of the first one.
func (p *orderedParams) Set(key, value string) {
	out := p.pairs[:0]
	replaced := false
	for _, pair := range p.pairs {
		if pair.Key != key {
			out = append(out, pair)
			continue
		}
		if !replaced {
			out = append(out, filter.UrlParam{Key: key, Value: value})
			replaced = true
		}
	}
	p.pairs = out
	if !replaced {
		p.pairs = append(p.pairs, filter.UrlParam{Key: key, Value: value})
	}
}

func (p *orderedParams) Append(key, value string) {
	p.pairs = append(p.pairs, filter.UrlParam{Key: key, Value: value})
}

func (p *orderedParams) Encode() string {
	parts := make([]string, len(p.pairs))
	for i, pair := range p.pairs {
		parts[i] = url.QueryEscape(pair.Key) + "=" + url.QueryEscape(pair.Value)
	}
	return strings.Join(parts, "&")
}

func (p *orderedParams) Values() url.Values {
	v := url.Values{}
	for _, pair := range p.pairs {
		v.Add(pair.Key, pair.Value)
	}
	return v
}

func (p *orderedParams) Pairs() []filter.UrlParam {
	return append([]filter.UrlParam(nil), p.pairs...)
}
