package engine

// form is one top-level expression of a preprocessed script.
type form struct {
	line int // 1-based line the form starts on
	text string
}

// splitForms cuts preprocessed source into top-level forms so errors can be
// reported against the line a form starts on. Brackets inside strings and
// // comments are ignored. Unbalanced input is passed through as a final
// form and left to the parser to reject.
func splitForms(src string) []form {
	var (
		forms []form
		b     = []byte(src)
		line  = 1
		depth = 0
		start = -1
		first = 0
	)
	flush := func(end int) {
		forms = append(forms, form{line: first, text: string(b[start:end])})
		start = -1
	}

	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '\n':
			if start >= 0 && depth == 0 {
				flush(i)
			}
			line++
			continue
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			if start >= 0 && depth == 0 {
				flush(i)
			}
			for i+1 < len(b) && b[i+1] != '\n' {
				i++
			}
			continue
		case c == ' ' || c == '\t' || c == '\r':
			if start >= 0 && depth == 0 {
				flush(i)
			}
			continue
		}

		if start < 0 {
			start, first = i, line
		}
		switch c {
		case '"':
			for i++; i < len(b) && b[i] != '"'; i++ {
				if b[i] == '\\' {
					i++
				} else if b[i] == '\n' {
					line++
				}
			}
		case '`':
			for i++; i < len(b) && b[i] != '`'; i++ {
				if b[i] == '\n' {
					line++
				}
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				flush(i + 1)
			}
		}
	}
	if start >= 0 {
		flush(len(b))
	}
	return forms
}
