package ingest

import (
	"regexp"
	"strings"
)

// MinStatementLength is the shortest statement accepted by the pipeline.
// Blocks below it are assumed to be noise from the harvesting source.
const MinStatementLength = 50

// Metadata is harvesting context attached to every question extracted from
// one blob.
type Metadata struct {
	Subject    string `json:"subject"`
	Board      string `json:"board"`
	Year       *int   `json:"year"`
	Agency     string `json:"agency"`
	PositionID *int   `json:"position_id"`
}

// RawQuestion is a candidate question as extracted from harvested text,
// before adaptation and deduplication.
type RawQuestion struct {
	Statement string
	Options   map[string]string
	Correct   string
	Meta      Metadata
}

var (
	blockStartRE = regexp.MustCompile(`(?m)^\s*\d+[.)]\s*`)
	optionLineRE = regexp.MustCompile(`(?i)^([A-E])[.)]\s*(.+)$`)
	answerKeyRE  = regexp.MustCompile(`(?i)^gabarito\s*[:\-]?\s*([A-E])\b`)
)

// ExtractQuestions parses numbered question blocks out of a raw text blob.
// Each block is expected to carry lettered options (A–E, one per line) and
// optionally a trailing "Gabarito: X" answer-key line. Blocks that are too
// short or missing options count toward the malformed tally, like content
// rejected by insert-time validation.
func ExtractQuestions(raw string, meta Metadata) (questions []RawQuestion, malformed int) {
	indices := blockStartRE.FindAllStringIndex(raw, -1)
	if len(indices) == 0 {
		return nil, 0
	}

	for i, loc := range indices {
		end := len(raw)
		if i+1 < len(indices) {
			end = indices[i+1][0]
		}
		block := raw[loc[1]:end]
		if len(strings.TrimSpace(block)) < MinStatementLength {
			malformed++
			continue
		}

		q, ok := parseBlock(block, meta)
		if !ok {
			malformed++
			continue
		}
		questions = append(questions, q)
	}
	return questions, malformed
}

func parseBlock(block string, meta Metadata) (RawQuestion, bool) {
	q := RawQuestion{
		Options: make(map[string]string),
		Meta:    meta,
	}

	var statementParts []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := answerKeyRE.FindStringSubmatch(line); m != nil {
			q.Correct = strings.ToUpper(m[1])
			continue
		}
		if m := optionLineRE.FindStringSubmatch(line); m != nil {
			q.Options[strings.ToUpper(m[1])] = m[2]
			continue
		}
		statementParts = append(statementParts, line)
	}

	q.Statement = strings.Join(statementParts, " ")
	if q.Statement == "" || len(q.Options) < 4 {
		return RawQuestion{}, false
	}
	return q, true
}
