package recipe

import (
	"strings"
	"unicode/utf16"

	"github.com/sirupsen/logrus"
)

// MaxCaptionUnits is the platform limit on caption length, measured in
// UTF-16 code units (the unit the remote service counts in, not bytes
// or runes).
const MaxCaptionUnits = 2200

// ellipsis terminates truncated caption text. One UTF-16 code unit.
const ellipsis = "…"

// linkPrefix separates the app link from the caption body.
const linkPrefix = "\n\n📱 "

// BuildCaption assembles the publish caption from the recipe text, a
// hashtag list, and an optional app link. Layout: text, blank line,
// space-joined #hashtags, blank line, 📱 link. The result never exceeds
// MaxCaptionUnits UTF-16 code units; when the text is too long it is
// truncated on a rune boundary and terminated with an ellipsis, with
// room reserved for the hashtag block and link suffix so they survive
// truncation intact.
//
// BuildCaption is deterministic: identical inputs produce byte-identical
// output.
func BuildCaption(text string, hashtags []string, appLink string) string {
	tail := captionTail(hashtags, appLink)

	full := text + tail
	if utf16Length(full) <= MaxCaptionUnits {
		return full
	}

	// A tail that alone overflows the cap sheds its hashtag block,
	// then the link, so the cap holds even for degenerate input.
	if utf16Length(tail)+utf16Length(ellipsis) > MaxCaptionUnits {
		logrus.WithFields(logrus.Fields{
			"function":      "BuildCaption",
			"tail_units":    utf16Length(tail),
			"hashtag_count": len(hashtags),
			"has_link":      appLink != "",
		}).Warn("Caption suffix exceeded platform limit, dropping hashtags")

		tail = captionTail(nil, appLink)
		if utf16Length(tail)+utf16Length(ellipsis) > MaxCaptionUnits {
			tail = ""
		}
		full = text + tail
		if utf16Length(full) <= MaxCaptionUnits {
			return full
		}
	}

	budget := MaxCaptionUnits - utf16Length(tail) - utf16Length(ellipsis)
	if budget < 0 {
		budget = 0
	}
	truncated := truncateUTF16(text, budget)

	logrus.WithFields(logrus.Fields{
		"function":       "BuildCaption",
		"original_units": utf16Length(full),
		"budget_units":   budget,
		"hashtag_count":  len(hashtags),
		"has_link":       appLink != "",
	}).Debug("Caption exceeded platform limit, truncating")

	return truncated + ellipsis + tail
}

// captionTail builds the hashtag block and link suffix appended after
// the caption text.
func captionTail(hashtags []string, appLink string) string {
	var b strings.Builder
	if len(hashtags) > 0 {
		b.WriteString("\n\n")
		for i, tag := range hashtags {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('#')
			b.WriteString(strings.TrimPrefix(tag, "#"))
		}
	}
	if appLink != "" {
		b.WriteString(linkPrefix)
		b.WriteString(appLink)
	}
	return b.String()
}

// utf16Length returns the length of s in UTF-16 code units. Runes
// outside the basic multilingual plane count as two units.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.AppendRune(nil, r))
	}
	return n
}

// truncateUTF16 returns the longest prefix of s whose UTF-16 length
// does not exceed limit, cut on a rune boundary.
func truncateUTF16(s string, limit int) string {
	units := 0
	for i, r := range s {
		units += len(utf16.AppendRune(nil, r))
		if units > limit {
			return s[:i]
		}
	}
	return s
}
