package defuse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"reflect"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placeholders returned for values that are neither strings nor numbers.
const (
	PlaceholderBoolean  = "[boolean]"
	PlaceholderFunction = "[function]"
	PlaceholderObject   = "[object]"
)

// Defuse returns input in a form that can be rendered without escaping.
//
// nil yields "", numbers are returned unchanged, strings are parsed as HTML and
// filtered (see package documentation) and any other value yields a short
// placeholder naming its category.
func Defuse(input any) any {
	if input == nil {
		return ""
	}
	if n, ok := input.(json.Number); ok {
		return n
	}

	v := reflect.ValueOf(input)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		if v.IsNil() {
			return ""
		}
	case reflect.Func:
		if v.IsNil() {
			return ""
		}
		return PlaceholderFunction
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return input
	case reflect.String:
		return String(v.String())
	case reflect.Bool:
		return PlaceholderBoolean
	default:
		return PlaceholderObject
	}
}

// String defuses an HTML fragment and returns the resulting markup.
func String(s string) string {
	body, err := parseBody(s)
	if err != nil {
		// x/net/html only fails on reader errors; degrade to plain text
		return html.EscapeString(s)
	}

	removeScripts(body)
	stripAttributes(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return html.EscapeString(s)
		}
	}
	return buf.String()
}

// HTML is Defuse for html/template callers. Numbers and placeholders are
// escaped as text.
func HTML(input any) template.HTML {
	out := Defuse(input)
	if isStringKind(input) {
		return template.HTML(out.(string))
	}
	return template.HTML(html.EscapeString(toText(out)))
}

// Text returns the text content of the defused input, for renderers that
// cannot display markup (terminals, logs).
func Text(input any) string {
	out := Defuse(input)
	if !isStringKind(input) {
		return toText(out)
	}

	body, err := parseBody(out.(string))
	if err != nil {
		return out.(string)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(body)
	return b.String()
}

// parseBody parses s as a complete document, the way a browser DOMParser
// does, and returns its <body> element.
func parseBody(s string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	if body := findBody(doc); body != nil {
		return body, nil
	}
	// html.Parse always synthesizes <body>; keep a usable node anyway
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return body, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

// removeScripts detaches every script element below n, including its subtree.
func removeScripts(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && c.Data == "script" {
			n.RemoveChild(c)
		} else {
			removeScripts(c)
		}
		c = next
	}
}

// stripAttributes removes event handler and javascript-bearing attributes
// from every element below n.
func stripAttributes(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && len(c.Attr) > 0 {
			kept := c.Attr[:0]
			for _, a := range c.Attr {
				if isDangerous(a) {
					continue
				}
				kept = append(kept, a)
			}
			c.Attr = kept
		}
		stripAttributes(c)
	}
}

// isDangerous reports whether an attribute must be removed. Both checks are
// case-sensitive.
func isDangerous(a html.Attribute) bool {
	return strings.HasPrefix(attrName(a), "on") || strings.Contains(a.Val, "javascript")
}

func attrName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

func isStringKind(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.String
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
