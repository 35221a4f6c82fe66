// Package ingest implements the content ingestion pipeline: normalizing and
// adapting harvested question text, fingerprinting it, and resolving
// duplicates against the catalog.
package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

// Substitution rewrites one boilerplate phrase into a paraphrase. Applied in
// order, case-insensitively.
type Substitution struct {
	From string
	To   string
}

// DefaultSubstitutions paraphrases exam boilerplate common in Brazilian
// concurso questions. The table is surface-level adaptation only; it carries
// no authorship-detection guarantee.
var DefaultSubstitutions = []Substitution{
	{"de acordo com", "conforme"},
	{"assinale a alternativa", "marque a opção"},
	{"é correto afirmar", "pode-se afirmar corretamente"},
	{"é incorreto afirmar", "não se pode afirmar corretamente"},
	{"julgue os itens", "avalie os itens"},
	{"com relação a", "acerca de"},
	{"no que se refere a", "quanto a"},
}

// AdaptSlack bounds how far the fallback rewrite may grow the text: the
// adapted result is truncated to len(normalized input) + AdaptSlack runes.
const AdaptSlack = 50

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalizer cleans and lightly rewrites harvested text. The zero value is
// not usable; construct with NewNormalizer.
type Normalizer struct {
	subs []compiledSub
}

type compiledSub struct {
	re *regexp.Regexp
	to string
}

// NewNormalizer builds a Normalizer over an ordered substitution table. Pass
// DefaultSubstitutions for the stock behavior.
func NewNormalizer(subs []Substitution) *Normalizer {
	n := &Normalizer{subs: make([]compiledSub, 0, len(subs))}
	for _, s := range subs {
		n.subs = append(n.subs, compiledSub{
			re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(s.From)),
			to: s.To,
		})
	}
	return n
}

// Normalize collapses consecutive whitespace to single spaces and trims.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// Fingerprint computes the duplicate-detection hash of normalized text. It is
// stable under whitespace and case variation. MD5 is used purely as a 128-bit
// content hash, not for security.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(strings.ToLower(Normalize(text))))
	return hex.EncodeToString(sum[:])
}

// Adapt normalizes text and applies the substitution table. When no
// substitution changed anything, a deterministic lexical fallback is applied
// instead so the stored text never matches the harvested source verbatim.
// The result is truncated to len(normalized)+AdaptSlack runes.
func (n *Normalizer) Adapt(text string) string {
	if text == "" {
		return text
	}

	normalized := Normalize(text)
	adapted := normalized
	for _, s := range n.subs {
		adapted = s.re.ReplaceAllString(adapted, s.to)
	}

	if adapted == normalized {
		adapted = fallbackVariation(adapted)
	}

	return truncateRunes(adapted, len([]rune(normalized))+AdaptSlack)
}

// fallbackVariation injects small lexical noise when the substitution table
// did not fire: article doubling and copula expansion.
func fallbackVariation(text string) string {
	text = strings.ReplaceAll(text, " o ", " o(a) ")
	text = strings.ReplaceAll(text, " a ", " a(o) ")
	text = strings.ReplaceAll(text, "é", "é considerado")
	text = strings.ReplaceAll(text, "são", "são considerados")
	return text
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
