package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBlob = `
1. Assinale a alternativa em que todos os vocábulos estejam acentuados pela mesma regra ortográfica:
A) vênus, hífen, fáceis
B) saúde, egoísmo, atribuí-lo
C) têm, convêm, mantém
D) público, parágrafo, ética
Gabarito: D

2. O servidor público que agir com dolo ou culpa responderá por seus atos perante a administração. Isso se refere à responsabilidade:
a. Penal
b. Civil
c. Administrativa
d. Política
e. Funcional
Gabarito - C
`

func TestExtractQuestions_Blocks(t *testing.T) {
	questions, malformed := ExtractQuestions(sampleBlob, Metadata{Subject: "Português"})
	require.Len(t, questions, 2)
	assert.Zero(t, malformed)

	first := questions[0]
	assert.Contains(t, first.Statement, "acentuados pela mesma regra")
	assert.Equal(t, "D", first.Correct)
	assert.Len(t, first.Options, 4)
	assert.Equal(t, "vênus, hífen, fáceis", first.Options["A"])
	assert.Equal(t, "Português", first.Meta.Subject)

	second := questions[1]
	assert.Equal(t, "C", second.Correct, "answer key accepts dash separator and lowercase labels")
	assert.Len(t, second.Options, 5)
	assert.Equal(t, "Funcional", second.Options["E"])
}

func TestExtractQuestions_CountsShortBlocks(t *testing.T) {
	blob := `
1. Curto demais.
A) um
B) dois
C) três
D) quatro

2. Este bloco tem um enunciado com comprimento suficiente para passar pelo filtro de ruído do coletor:
A) um
B) dois
C) três
D) quatro
`
	questions, malformed := ExtractQuestions(blob, Metadata{})
	require.Len(t, questions, 1)
	assert.Equal(t, 1, malformed, "dropped blocks count toward the malformed tally")
	assert.Contains(t, questions[0].Statement, "comprimento suficiente")
}

func TestExtractQuestions_RequiresFourOptions(t *testing.T) {
	blob := `
1. Um enunciado com comprimento razoável mas com poucas alternativas listadas abaixo dele:
A) um
B) dois
`
	questions, malformed := ExtractQuestions(blob, Metadata{})
	assert.Empty(t, questions)
	assert.Equal(t, 1, malformed)
}

func TestExtractQuestions_NoBlocks(t *testing.T) {
	questions, malformed := ExtractQuestions("texto corrido sem numeração de questões", Metadata{})
	assert.Empty(t, questions)
	assert.Zero(t, malformed)
}

func TestExtractQuestions_MissingAnswerKey(t *testing.T) {
	blob := `
1. Enunciado longo o bastante para o filtro, mas sem linha de gabarito ao final do bloco da questão:
A) um
B) dois
C) três
D) quatro
`
	questions, malformed := ExtractQuestions(blob, Metadata{})
	require.Len(t, questions, 1)
	assert.Zero(t, malformed)
	assert.Empty(t, questions[0].Correct, "missing key is caught later by validation")
}
