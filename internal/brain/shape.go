package brain

import (
	"regexp"
	"strings"
)

var (
	shapeMetaLeadPattern  = regexp.MustCompile(`(?i)^(here's my response|my response|response|warm smile|\*.*?\*)[:.]?\s*`)
	shapeActionPattern    = regexp.MustCompile(`\*.*?\*`)
	shapeDirectionPattern = regexp.MustCompile(`\(.*?\)`)
	shapeLabelPattern     = regexp.MustCompile(`(?i)^(assistant|daisy|ai):\s*`)
	shapeMarkdownPattern  = regexp.MustCompile("[*#`_>\\\\-]+")
	shapeSpacePattern     = regexp.MustCompile(`\s+`)
	shapeNumberingPattern = regexp.MustCompile(`^\d+\.\s*`)
	shapeBulletPattern    = regexp.MustCompile(`^[-•]\s*`)
)

var shapeQuoteReplacer = strings.NewReplacer(
	`"`, "",
	"“", "",
	"”", "",
	"‘", "",
	"’", "",
	"′", "",
	"`", "",
)

// Shape strips markup and stage-direction noise from model output and caps
// it at two sentences so the reply stays speakable.
func Shape(text string) string {
	text = shapeMetaLeadPattern.ReplaceAllString(text, "")
	text = shapeActionPattern.ReplaceAllString(text, "")
	text = shapeDirectionPattern.ReplaceAllString(text, "")
	text = shapeLabelPattern.ReplaceAllString(text, "")
	text = shapeMarkdownPattern.ReplaceAllString(text, "")
	text = shapeQuoteReplacer.Replace(text)

	text = strings.TrimSpace(shapeSpacePattern.ReplaceAllString(text, " "))
	text = shapeNumberingPattern.ReplaceAllString(text, "")
	text = shapeBulletPattern.ReplaceAllString(text, "")

	if sentences := strings.Split(text, ". "); len(sentences) > 2 {
		text = strings.Join(sentences[:2], ". ") + "."
	}

	if text != "" && !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}
	return text
}
