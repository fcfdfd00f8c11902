// Package defuse makes untrusted or semi-trusted markup safe enough to be
// rendered without escaping.
//
// Defuse parses a string as an HTML document, drops every <script> element
// together with its content and strips two kinds of attributes from the
// remaining elements:
//
//   - attributes whose name starts with "on" (onclick, onmouseover, ...)
//   - attributes whose value contains the substring "javascript"
//
// The value match is case-sensitive and not anchored, so an href of
// "javascript:x()" is removed while a title of "JavaScript Guide" is kept.
//
// # Limits
//
// This is a defense-in-depth filter, not an allowlist sanitizer. It does not
// canonicalize encodings and it does not block other URL schemes. Callers that
// need a complete XSS policy must use a dedicated sanitizer.
//
// # Non-string input
//
// Defuse accepts any value and never panics:
//
//	defuse.Defuse(nil)          // ""
//	defuse.Defuse(7)            // 7 (unchanged, still an int)
//	defuse.Defuse(struct{}{})   // "[object]"
//
// # Usage
//
//	label := defuse.HTML(desc.Label) // template.HTML, safe to inject unescaped
package defuse
