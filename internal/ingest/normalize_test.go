package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "um   dois\t\ttrês", "um dois três"},
		{"trims edges", "  texto  ", "texto"},
		{"newlines become spaces", "linha um\nlinha dois", "linha um linha dois"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestFingerprint_StableUnderVariation(t *testing.T) {
	base := Fingerprint("Qual é a capital do Brasil?")

	assert.Equal(t, base, Fingerprint("qual é a capital do brasil?"))
	assert.Equal(t, base, Fingerprint("  Qual  é   a capital\ndo Brasil?  "))
	assert.NotEqual(t, base, Fingerprint("Qual é a capital da Argentina?"))
	assert.Len(t, base, 32)
}

func TestAdapt_SubstitutionTable(t *testing.T) {
	n := NewNormalizer(DefaultSubstitutions)

	got := n.Adapt("Assinale a alternativa correta de acordo com o texto.")
	assert.Contains(t, got, "marque a opção")
	assert.Contains(t, got, "conforme")
	assert.NotContains(t, got, "Assinale a alternativa")
}

func TestAdapt_CaseInsensitive(t *testing.T) {
	n := NewNormalizer(DefaultSubstitutions)

	got := n.Adapt("ASSINALE A ALTERNATIVA que apresenta a forma correta.")
	assert.Contains(t, got, "marque a opção")
}

func TestAdapt_FallbackWhenNoSubstitutionFires(t *testing.T) {
	n := NewNormalizer(DefaultSubstitutions)

	input := "O imposto sobre a renda é devido anualmente."
	got := n.Adapt(input)
	assert.NotEqual(t, Normalize(input), got, "adapted text never matches the source verbatim")
}

func TestAdapt_TruncatesGrowth(t *testing.T) {
	n := NewNormalizer(DefaultSubstitutions)

	// Force heavy fallback expansion: many copulas, no table phrases.
	input := strings.Repeat("isto é aquilo e aquilo é isto. ", 20)
	normalized := Normalize(input)
	got := n.Adapt(input)

	assert.LessOrEqual(t, len([]rune(got)), len([]rune(normalized))+AdaptSlack)
}

func TestAdapt_OrderMatters(t *testing.T) {
	// A custom table where the first substitution consumes the phrase the
	// second would otherwise match.
	n := NewNormalizer([]Substitution{
		{"de acordo com o edital", "conforme o edital"},
		{"de acordo com", "conforme"},
	})

	got := n.Adapt("De acordo com o edital, o prazo é de dez dias.")
	require.True(t, strings.HasPrefix(got, "conforme o edital"), "got %q", got)
}

func TestAdapt_Empty(t *testing.T) {
	n := NewNormalizer(DefaultSubstitutions)
	assert.Equal(t, "", n.Adapt(""))
}
