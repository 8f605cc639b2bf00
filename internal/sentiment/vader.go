package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/k3a/html2text"
	"github.com/russross/blackfriday/v2"
)

// Compound scores at or beyond this magnitude are polar.
const VaderThreshold = 0.20

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)

	markdownRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText flattens markdown to plain single-spaced text.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(markdownRenderer))
	plainText := html2text.HTML2Text(string(output))

	return strings.Join(strings.Fields(plainText), " ")
}

func AnalyzeWithVADER(text string) (float64, Label) {
	plainText := ConvertMarkdownToText(text)

	score := analyzer.PolarityScores(plainText).Compound

	var label Label
	if score >= VaderThreshold {
		label = Positive
	} else if score <= -VaderThreshold {
		label = Negative
	} else {
		label = Neutral
	}

	return score, label
}
