package router

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/rickgao/newsdesk/internal/envelope"
)

// factPhrase marks chat input as a fact request.
const factPhrase = "do you know"

// Classify maps user-composed text to an outbound envelope. Text containing
// "do you know" in any letter case becomes a fact_request; everything else
// is a fake_news_check. The text is carried unmodified.
func Classify(text string) envelope.Outbound {
	// A Caser is stateful, so each call gets its own.
	folded := cases.Fold().String(text)
	if strings.Contains(folded, factPhrase) {
		return envelope.FactRequest{Text: text}
	}
	return envelope.FakeNewsCheck{Text: text}
}
