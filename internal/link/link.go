// Package link turns {@link ...} references found in documentation comments
// into Markdown links.
package link

import (
	"regexp"
	"strings"

	"github.com/g5becks/ahkdoc/internal/textutil"
)

// DefaultBaseURI is used when no base URI is configured.
const DefaultBaseURI = "."

const staticIDPrefix = "static-"

var linkRegex = regexp.MustCompile(
	`\{@link\s+(?:(?P<url>https?://[^\s|}]+)|(?P<instance>@?)(?P<symbol>[\w.]+))(?:(?:\s*\|\s*|\s+)(?P<display>[^}]+?))?\s*\}`,
)

// bareReference matches text that is nothing but a symbol or a URL.
var bareReference = regexp.MustCompile(`^(?:https?://\S+|@?[\w.]+)$`)

var (
	urlGroup      = linkRegex.SubexpIndex("url")
	instanceGroup = linkRegex.SubexpIndex("instance")
	symbolGroup   = linkRegex.SubexpIndex("symbol")
	displayGroup  = linkRegex.SubexpIndex("display")
)

// Link is a single parsed reference.
type Link struct {
	URI     string
	Display string
}

// Resolver maps symbols to generated documentation URIs below BaseURI.
type Resolver struct {
	baseURI string
}

// NewResolver returns a Resolver rooted at baseURI. Trailing path separators
// are removed; a blank base falls back to DefaultBaseURI.
func NewResolver(baseURI string) *Resolver {
	base := strings.TrimRight(strings.TrimSpace(baseURI), `/\`)
	if base == "" && strings.TrimSpace(baseURI) == "" {
		base = DefaultBaseURI
	}

	return &Resolver{baseURI: base}
}

// BaseURI returns the normalized base.
func (r *Resolver) BaseURI() string {
	return r.baseURI
}

// SymbolURI builds the page URI for a dotted symbol such as Class.member.
// Only the first dot separates the class from the member.
func (r *Resolver) SymbolURI(symbol string, isStatic bool) string {
	classPart, memberPart, hasMember := strings.Cut(symbol, ".")

	var b strings.Builder
	b.WriteString(r.baseURI)
	b.WriteByte('/')
	b.WriteString(strings.ToLower(classPart))

	if hasMember {
		b.WriteString("?id=")
		if isStatic {
			b.WriteString(staticIDPrefix)
		}
		b.WriteString(strings.ToLower(memberPart))
	}

	return b.String()
}

// Resolve rewrites every {@link ...} in text to a Markdown link and trims
// the result with textutil.TrimDescription.
func (r *Resolver) Resolve(text string) string {
	resolved := linkRegex.ReplaceAllStringFunc(text, func(match string) string {
		groups := linkRegex.FindStringSubmatch(match)
		l := r.fromGroups(groups)

		label := l.Display
		if label == "" {
			// exactly one of url and symbol matched
			label = groups[urlGroup] + groups[symbolGroup]
		}

		return "[" + label + "](" + l.URI + ")"
	})

	return textutil.TrimDescription(resolved)
}

// ResolveReference resolves text that is expected to hold a single
// reference, such as the value of a @see tag. A bare symbol or URL is
// treated as if it were wrapped in {@link ...}.
func (r *Resolver) ResolveReference(text string) string {
	text = strings.TrimSpace(text)
	if _, ok := r.ParseLink(text); !ok && bareReference.MatchString(text) {
		text = "{@link " + text + "}"
	}

	return r.Resolve(text)
}

// ParseLink returns the first reference found in text.
func (r *Resolver) ParseLink(text string) (Link, bool) {
	groups := linkRegex.FindStringSubmatch(text)
	if groups == nil {
		return Link{}, false
	}

	return r.fromGroups(groups), true
}

func (r *Resolver) fromGroups(groups []string) Link {
	display := strings.TrimSpace(groups[displayGroup])

	if url := groups[urlGroup]; url != "" {
		return Link{URI: url, Display: display}
	}

	isStatic := groups[instanceGroup] == ""
	return Link{
		URI:     r.SymbolURI(groups[symbolGroup], isStatic),
		Display: display,
	}
}
