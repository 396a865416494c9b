package transform

import "strings"

// importSpec is one string-literal module specifier ending in ".svelte",
// found in an import/export-from statement or a dynamic import() call.
// start/end delimit the specifier's contents, exclusive of its quotes.
type importSpec struct {
	start, end int
}

// scanSvelteImportSpecifiers locates every .svelte module specifier in a
// script so the rewriter can retarget it at the staged TypeScript mirror
// (Child.svelte is staged as Child.svelte.ts; a ".svelte.js" specifier
// resolves to it under TypeScript's .js-to-.ts substitution). Only
// specifier positions qualify — a plain string containing ".svelte" in
// expression position is left alone.
func scanSvelteImportSpecifiers(script string) []importSpec {
	var specs []importSpec
	i := 0
	n := len(script)
	for i < n {
		c := script[i]
		switch {
		case c == '/' && i+1 < n && script[i+1] == '/':
			i = skipLineComment(script, i)
		case c == '/' && i+1 < n && script[i+1] == '*':
			i = skipBlockComment(script, i)
		case c == '`':
			i = skipStringLiteral(script, i, c)
		case c == '\'' || c == '"':
			end := skipStringLiteral(script, i, c)
			if end <= i+1 || end > n {
				i = end
				continue
			}
			contentStart, contentEnd := i+1, end-1
			if strings.HasSuffix(script[contentStart:contentEnd], ".svelte") && isSpecifierPosition(script, i) {
				specs = append(specs, importSpec{start: contentStart, end: contentEnd})
			}
			i = end
		default:
			i++
		}
	}
	return specs
}

// isSpecifierPosition reports whether the string literal opening at quote
// sits where a module specifier belongs: after the `from` keyword, after
// the `import` keyword (side-effect form), or inside `import(...)`.
func isSpecifierPosition(script string, quote int) bool {
	j := quote - 1
	for j >= 0 && (script[j] == ' ' || script[j] == '\t' || script[j] == '\n' || script[j] == '\r') {
		j--
	}
	if j < 0 {
		return false
	}
	if script[j] == '(' {
		j--
		for j >= 0 && (script[j] == ' ' || script[j] == '\t') {
			j--
		}
		return hasKeywordEndingAt(script, j, "import")
	}
	return hasKeywordEndingAt(script, j, "from") || hasKeywordEndingAt(script, j, "import")
}

// hasKeywordEndingAt reports whether script[..=end] ends with keyword as a
// whole word.
func hasKeywordEndingAt(script string, end int, keyword string) bool {
	start := end - len(keyword) + 1
	if start < 0 || script[start:end+1] != keyword {
		return false
	}
	if start == 0 {
		return true
	}
	prev := script[start-1]
	return !(prev == '_' || prev == '$' ||
		(prev >= 'a' && prev <= 'z') || (prev >= 'A' && prev <= 'Z') || (prev >= '0' && prev <= '9'))
}
