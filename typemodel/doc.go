package typemodel

import (
	"regexp"

	"github.com/teranos/tscli/tsparse"
)

// Documentation returns the JSDoc block closest to the declaration, or
// nil when none is attached.
func Documentation(docs []*tsparse.DocBlock) *tsparse.DocBlock {
	if len(docs) == 0 {
		return nil
	}
	return docs[len(docs)-1]
}

// TagMatcher selects documentation tags.
type TagMatcher interface {
	Match(tag *tsparse.Tag) bool
}

// TagName matches tags by exact name.
type TagName string

func (n TagName) Match(tag *tsparse.Tag) bool { return tag.Name == string(n) }

// TagPattern matches tag names against a regular expression.
type TagPattern struct {
	*regexp.Regexp
}

func (p TagPattern) Match(tag *tsparse.Tag) bool { return p.MatchString(tag.Name) }

// TagFunc adapts a predicate to TagMatcher.
type TagFunc func(tag *tsparse.Tag) bool

func (f TagFunc) Match(tag *tsparse.Tag) bool { return f(tag) }

// Tags returns the block's tags accepted by m, in source order.
func Tags(block *tsparse.DocBlock, m TagMatcher) []*tsparse.Tag {
	if block == nil {
		return nil
	}
	var out []*tsparse.Tag
	for _, tag := range block.Tags {
		if m.Match(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Tag returns the first (index 0) or last (index -1) tag accepted by m.
func Tag(block *tsparse.DocBlock, m TagMatcher, index int) *tsparse.Tag {
	tags := Tags(block, m)
	if len(tags) == 0 {
		return nil
	}
	if index < 0 {
		return tags[len(tags)-1]
	}
	if index >= len(tags) {
		return nil
	}
	return tags[index]
}
