package reflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	headingWordRegex = regexp.MustCompile(`(?i)^(chapter|part|prologue|epilogue|foreword|afterword|preface|introduction)\b`)
	pageNumberRegex  = regexp.MustCompile(`^\d{1,3}$`)
	separatorRegex   = regexp.MustCompile(`^(?:[*_-]\s*){3,}$`)
	listItemRegex    = regexp.MustCompile(`^(?:[-*•·▪◦‣]\s+|\d{1,3}[.)]\s+|[a-zA-Z][.)]\s+)`)
)

// maxCapsHeading is the longest all-caps line still treated as a heading.
const maxCapsHeading = 40

// IsHeading reports whether a line stands alone as a heading and must never
// be merged into surrounding prose.
func IsHeading(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if headingWordRegex.MatchString(s) || pageNumberRegex.MatchString(s) {
		return true
	}
	if IsSeparator(s) {
		return true
	}
	return utf8.RuneCountInString(s) <= maxCapsHeading && IsAllCaps(s)
}

// IsSeparator reports whether a line is a scene break such as "***" or "---".
func IsSeparator(line string) bool {
	return separatorRegex.MatchString(strings.TrimSpace(line))
}

// IsAllCaps reports whether s has at least one letter and no lowercase ones.
func IsAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// IsDialogueStart reports whether a line opens with a quotation mark or a dash.
func IsDialogueStart(line string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(line))
	switch r {
	case '"', '\'', '“', '”', '‘', '’', '«', '»', '„', '—', '–':
		return true
	}
	return false
}

// LooksLikeList reports whether a line is a bulleted or numbered list item,
// or a parenthesised stage direction.
func LooksLikeList(line string) bool {
	s := strings.TrimSpace(line)
	return listItemRegex.MatchString(s) || IsStageDirection(s)
}

// IsStageDirection reports whether a line is fully wrapped in parentheses.
func IsStageDirection(line string) bool {
	s := strings.TrimSpace(line)
	return len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

// EndsSentence reports whether a line ends with terminal punctuation,
// optionally followed by closing quotes or brackets.
func EndsSentence(line string) bool {
	s := strings.TrimRightFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`"'”’»)]`, r)
	})
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

// EndsWithContinuation reports whether a line ends mid-sentence: a comma,
// semicolon or dash.
func EndsWithContinuation(line string) bool {
	r, _ := utf8.DecodeLastRuneInString(strings.TrimSpace(line))
	switch r {
	case ',', ';', '-', '–', '—':
		return true
	}
	return false
}

// EndsWithColon reports whether a line ends with a colon, as labels and
// speaker tags do.
func EndsWithColon(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), ":")
}

// StartsLowercase reports whether the first letter-like rune of a line is
// lowercase.
func StartsLowercase(line string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(line))
	return unicode.IsLower(r)
}

// endsWithHyphenatedWord reports whether a line ends with a word broken by
// a hyphen, e.g. "exam-".
func endsWithHyphenatedWord(line string) bool {
	s := strings.TrimRight(line, " \t")
	if !strings.HasSuffix(s, "-") || strings.HasSuffix(s, "--") {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(strings.TrimSuffix(s, "-"))
	return unicode.IsLetter(r)
}
