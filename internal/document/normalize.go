package document

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// CleanOptions controls text normalization before pattern matching.
type CleanOptions struct {
	NormalizeForm      string // "NFC" (default), "NFKC", "NFD", "NFKD", "" to disable
	FoldWidth          bool   // fold full-width CJK digits/latin to half-width
	CollapseWhitespace bool   // collapse runs of spaces/tabs within a line
	Trim               bool   // trim leading/trailing whitespace per line
	RemoveControlChars bool   // remove non-printable control characters
	RemoveZeroWidth    bool   // remove zero-width spaces/joiners
}

// DefaultCleanOptions returns sensible defaults for OCR-derived text.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		NormalizeForm:      "NFC",
		FoldWidth:          false,
		CollapseWhitespace: true,
		Trim:               true,
		RemoveControlChars: true,
		RemoveZeroWidth:    true,
	}
}

// BilingualCleanOptions returns the normalization used for mixed-script
// certificates: NFKC plus width folding so full-width digits and latin
// letters in CJK text match ASCII patterns.
func BilingualCleanOptions() CleanOptions {
	opts := DefaultCleanOptions()
	opts.NormalizeForm = "NFKC"
	opts.FoldWidth = true
	return opts
}

// Normalize applies cleaning to extracted text. Newlines are always
// preserved: line boundaries carry positional meaning downstream.
func Normalize(s string, opts CleanOptions) string {
	if s == "" {
		return s
	}

	s = applyNormalization(s, opts)
	if opts.FoldWidth {
		s = width.Fold.String(s)
	}
	s = applyZeroWidthRemoval(s, opts)
	s = applyControlCharRemoval(s, opts)

	if !opts.CollapseWhitespace && !opts.Trim {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if opts.CollapseWhitespace {
			line = collapseSpaces(line)
		}
		if opts.Trim {
			line = strings.TrimSpace(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func applyNormalization(s string, opts CleanOptions) string {
	switch strings.ToUpper(opts.NormalizeForm) {
	case "NFC", "":
		return norm.NFC.String(s)
	case "NFKC":
		return norm.NFKC.String(s)
	case "NFD":
		return norm.NFD.String(s)
	case "NFKD":
		return norm.NFKD.String(s)
	default:
		return s
	}
}

func applyZeroWidthRemoval(s string, opts CleanOptions) string {
	if !opts.RemoveZeroWidth {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}

func applyControlCharRemoval(s string, opts CleanOptions) string {
	if !opts.RemoveControlChars {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	space := false
	for _, r := range line {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
