package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

/*
Headlines is the intermediate result of the news stage. The three lists are
index-aligned.
*/
type Headlines struct {
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	Dates        []string `json:"dates"`
}

/*
Riddles is the document the riddle agent returns as its artifact. The three
lists are index-aligned: riddle i is answered by answer i and hinted at by
hint i.
*/
type Riddles struct {
	Riddles []string `json:"riddles"`
	Answers []string `json:"answers"`
	Hints   []string `json:"hints"`
}

func ParseRiddles(raw string) (Riddles, error) {
	var riddles Riddles

	if err := json.Unmarshal([]byte(raw), &riddles); err != nil {
		return riddles, fmt.Errorf("failed to decode riddles: %w", err)
	}

	return riddles, riddles.Validate()
}

func (riddles Riddles) Validate() error {
	if len(riddles.Riddles) == 0 {
		return fmt.Errorf("no riddles")
	}

	if len(riddles.Answers) != len(riddles.Riddles) || len(riddles.Hints) != len(riddles.Riddles) {
		return fmt.Errorf(
			"riddles, answers and hints differ in length: %d, %d, %d",
			len(riddles.Riddles), len(riddles.Answers), len(riddles.Hints),
		)
	}

	return nil
}

func (riddles Riddles) String() string {
	blocks := make([]string, 0, len(riddles.Riddles))

	for i := range riddles.Riddles {
		blocks = append(blocks, fmt.Sprintf(
			"Riddle: %s\nAnswer: %s\nHint: %s",
			riddles.Riddles[i], at(riddles.Answers, i), at(riddles.Hints, i),
		))
	}

	return strings.Join(blocks, "\n\n")
}

/*
FormatRiddles renders the JSON an agent produced as plain text. Anything
that does not parse as riddles is returned untouched.
*/
func FormatRiddles(raw string) string {
	var riddles Riddles

	if err := json.Unmarshal([]byte(raw), &riddles); err != nil || len(riddles.Riddles) == 0 {
		return raw
	}

	return riddles.String()
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}

	return ""
}

var headlinesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"headlines":    stringList(),
		"descriptions": stringList(),
		"dates":        stringList(),
	},
	"required":             []string{"headlines", "descriptions", "dates"},
	"additionalProperties": false,
}

var riddlesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"riddles": stringList(),
		"answers": stringList(),
		"hints":   stringList(),
	},
	"required":             []string{"riddles", "answers", "hints"},
	"additionalProperties": false,
}

func stringList() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}
