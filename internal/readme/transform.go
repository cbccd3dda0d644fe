package readme

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// HeaderKeys are refreshed from the main source file, in this order.
var HeaderKeys = []string{
	"Plugin Name",
	"Plugin URI",
	"Description",
	"Version",
	"Author",
	"Author URI",
	"License",
	"License URI",
	"Requires at least",
	"Requires PHP",
}

const testedUpToKey = "Tested up to"

var (
	hostVersionRe = regexp.MustCompile(`\$wp_version = '([^']+)'`)
	leadParaRe    = regexp.MustCompile(`(?m)^\n\n*(.*)\n*\n==`)
	titleRe       = regexp.MustCompile(`(?m)^=== .* ===\n*`)

	h1Re     = regexp.MustCompile(`^# +(.*?) *$`)
	h2Re     = regexp.MustCompile(`^## +(.*?) *$`)
	h3Re     = regexp.MustCompile(`^### +(.*?) *$`)
	bulletRe = regexp.MustCompile(`^- `)
)

// CopyHeader keeps everything before marker and terminates it with marker.
func CopyHeader(content, marker string) string {
	before, _, _ := strings.Cut(content, marker)
	return before + marker + "\n"
}

// HeaderValue returns the first `key: value` found in source.
func HeaderValue(source, key string) (string, bool) {
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `: (.*)`)
	m := re.FindStringSubmatch(source)
	if m == nil {
		return "", false
	}
	return strings.TrimRight(m[1], "\r"), true
}

// HostVersion extracts the host version from the content of a version file.
func HostVersion(versionFile string) (string, bool) {
	m := hostVersionRe.FindStringSubmatch(versionFile)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// UpdateHeader rewrites the `Key: value` lines of header with the values of
// mainSource. Keys absent from mainSource keep their value. An empty
// hostVersion leaves the "Tested up to" line unchanged. The leading
// description paragraph is replaced by the main source's Description.
func UpdateHeader(header, mainSource, hostVersion string) string {
	for _, key := range HeaderKeys {
		val, ok := HeaderValue(mainSource, key)
		if !ok {
			continue
		}
		header = replaceKey(header, key, val)
	}
	if hostVersion != "" {
		header = replaceKey(header, testedUpToKey, hostVersion)
	}

	desc, hasDesc := HeaderValue(mainSource, "Description")
	return leadParaRe.ReplaceAllStringFunc(header, func(match string) string {
		if hasDesc {
			return "\n" + desc + "\n\n=="
		}
		sub := leadParaRe.FindStringSubmatch(match)
		return "\n" + sub[1] + "\n\n=="
	})
}

func replaceKey(s, key, val string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `: .*`)
	return re.ReplaceAllLiteralString(s, key+": "+val)
}

// Reformat rewrites Markdown headings levels 1 to 3 into readme section
// markers and "- " bullets into "* " bullets. Lines inside code blocks keep
// their content. Line endings are normalized to "\n".
func Reformat(md string) string {
	src := []byte(md)
	protected := codeLines(src)

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if protected[i] {
			lines[i] = line
			continue
		}
		switch {
		case h1Re.MatchString(line):
			line = h1Re.ReplaceAllString(line, "=== $1 ===")
		case h2Re.MatchString(line):
			line = h2Re.ReplaceAllString(line, "== $1 ==")
		case h3Re.MatchString(line):
			line = h3Re.ReplaceAllString(line, "= $1 =")
		}
		lines[i] = bulletRe.ReplaceAllString(line, "* ")
	}
	return strings.Join(lines, "\n")
}

// codeLines returns the zero-based indexes of lines that belong to fenced or
// indented code blocks.
func codeLines(src []byte) map[int]bool {
	lineOf := func(offset int) int {
		return bytes.Count(src[:offset], []byte("\n"))
	}

	out := make(map[int]bool)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				out[lineOf(segs.At(i).Start)] = true
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

// StripTitle removes the first top-level section marker line and any blank
// lines following it.
func StripTitle(s string) string {
	loc := titleRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
