// Package parser converts player input into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"
)

// Kind classifies an intent.
type Kind int

const (
	Empty Kind = iota
	Select
	Meta
)

// Intent is parsed player input: a meta command, a numbered pick, or words
// naming a choice.
type Intent struct {
	Kind   Kind
	Number int      // 1-based, 0 when not a number
	Key    string   // choice key the first word names, after aliases
	Words  []string // remaining words, articles stripped
	Text   string   // normalized input
	Meta   string   // meta command name without the slash
	Args   []string // meta command arguments
}

var metaAliases = map[string]string{
	"q":    "quit",
	"exit": "quit",
	"h":    "help",
	"?":    "help",
	"r":    "restart",
	"new":  "restart",
	"s":    "save",
	"l":    "load",
	"ls":   "saves",
	"list": "saves",
	"pdf":  "export",
	"st":   "state",
	"t":    "trace",
	"c":    "choices",
	"rm":   "delete",
}

var keyAliases = map[string]string{
	// Comply / Resist
	"yes":     "comply",
	"agree":   "comply",
	"accept":  "comply",
	"obey":    "comply",
	"ok":      "comply",
	"no":      "resist",
	"refuse":  "resist",
	"decline": "resist",
	"defy":    "resist",

	// Contextual
	"calm":      "defuse",
	"soothe":    "defuse",
	"look":      "investigate",
	"examine":   "investigate",
	"search":    "investigate",
	"accuse":    "confront",
	"challenge": "confront",
	"back":      "ally",
	"support":   "ally",
	"go":        "press",
	"continue":  "press",
	"onward":    "press",
	"wait":      "observe",
	"watch":     "observe",
	"z":         "observe",

	// Late
	"hug":     "comfort",
	"console": "comfort",
	"nod":     "acknowledge",
	"thank":   "acknowledge",
	"smile":   "acknowledge",
	"trust":   "confide",
	"tell":    "confide",
	"stop":    "intervene",
	"grab":    "seize",
	"take":    "seize",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "with": true, "at": true,
}

// Parse converts a raw input string into an Intent.
func Parse(input string) Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return Intent{}
	}

	if strings.HasPrefix(input, "/") {
		fields := strings.Fields(input[1:])
		if len(fields) == 0 {
			return Intent{Kind: Meta, Text: input}
		}
		name := strings.ToLower(fields[0])
		if alias, ok := metaAliases[name]; ok {
			name = alias
		}
		return Intent{Kind: Meta, Meta: name, Args: fields[1:], Text: input}
	}

	text := strings.ToLower(input)
	if n, err := strconv.Atoi(text); err == nil {
		return Intent{Kind: Select, Number: n, Text: text}
	}

	words := strings.Fields(text)
	key := words[0]
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	return Intent{
		Kind:  Select,
		Key:   key,
		Words: stripArticles(words[1:]),
		Text:  text,
	}
}

// stripArticles removes filler words from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
