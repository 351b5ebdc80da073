package trending

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Group is one block of the frequency words file.
type Group struct {
	// Name labels the group in stats output: the first plain word, or the
	// first required word for groups without plain words.
	Name string `json:"name"`

	// Words are the plain synonyms; a title containing any of them matches.
	Words []string `json:"words,omitempty"`

	// Required are the "+" words that must all co-occur in the title.
	Required []string `json:"required,omitempty"`
}

// Lexicon is a parsed frequency words configuration.
type Lexicon struct {
	Groups []Group

	// Filters are the "!" words. A title containing any of them is
	// excluded from every group.
	Filters []string
}

// LoadFile reads and parses a frequency words file.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frequency words file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the frequency words format from r. Words are lowercased so
// matching is case-insensitive for latin text.
func Parse(r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{}
	var current Group

	flush := func() {
		if len(current.Words) == 0 && len(current.Required) == 0 {
			current = Group{}
			return
		}
		if len(current.Words) > 0 {
			current.Name = current.Words[0]
		} else {
			current.Name = current.Required[0]
		}
		lex.Groups = append(lex.Groups, current)
		current = Group{}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}

		word := strings.ToLower(line)
		switch {
		case strings.HasPrefix(word, "+"):
			if w := strings.TrimSpace(word[1:]); w != "" {
				current.Required = append(current.Required, w)
			}
		case strings.HasPrefix(word, "!"):
			if w := strings.TrimSpace(word[1:]); w != "" {
				lex.Filters = append(lex.Filters, w)
			}
		default:
			current.Words = append(current.Words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading frequency words: %w", err)
	}
	flush()

	return lex, nil
}

// MatchGroup returns the index of the first group the title matches, or -1.
// A title containing any filter word never matches.
func (l *Lexicon) MatchGroup(title string) int {
	t := strings.ToLower(title)

	for _, filter := range l.Filters {
		if strings.Contains(t, filter) {
			return -1
		}
	}

	for i, g := range l.Groups {
		if g.matches(t) {
			return i
		}
	}
	return -1
}

func (g *Group) matches(lowerTitle string) bool {
	for _, req := range g.Required {
		if !strings.Contains(lowerTitle, req) {
			return false
		}
	}
	if len(g.Words) == 0 {
		return len(g.Required) > 0
	}
	for _, w := range g.Words {
		if strings.Contains(lowerTitle, w) {
			return true
		}
	}
	return false
}
