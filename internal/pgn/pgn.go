// Package pgn implements an error-tolerant, streaming PGN tokenizer: it
// extracts tag pairs, movetext, comments, and variations from a stream
// of PGN text, recovering across malformed games rather than aborting
// the batch.
package pgn

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

var (
	tagPairRe   = regexp.MustCompile(`\[\s*(\S+)\s+"([^"]*)"\s*\]`)
	moveNumRe   = regexp.MustCompile(`\d+\.+`)
	nagRe       = regexp.MustCompile(`\$\d+`)
	resultWords = []string{"1-0", "0-1", "1/2-1/2"}

	// commentOrMove matches, in left-to-right order, either a brace
	// comment or a move token. Scanning with a single alternation keeps
	// comments and the moves they follow in their original relative
	// order without needing separate byte-offset bookkeeping.
	commentOrMove = regexp.MustCompile(`\{[^}]*\}|[NBRQK]?[a-h]?[1-8]?x?[a-h][1-8](?:=[NBRQ])?[+#]?|O-O(?:-O)?[+#]?`)
)

// ParsedGame is one game as the tokenizer sees it, before an ingest
// counter assigns it a stable ID.
type ParsedGame struct {
	Tags  *model.TagMap
	Moves []model.Move
}

// ParseError records one recoverable failure: a malformed game was
// skipped, with enough context to find it again in the source text.
type ParseError struct {
	GameIndex int // 0-based index of the game block in source order
	Message   string
}

func (e ParseError) Error() string { return e.Message }

// ErrorLog accumulates ParseErrors in the order they occur.
type ErrorLog struct {
	entries []ParseError
}

func (l *ErrorLog) add(gameIndex int, message string) {
	l.entries = append(l.entries, ParseError{GameIndex: gameIndex, Message: message})
}

// Entries returns every recorded error, in encounter order.
func (l *ErrorLog) Entries() []ParseError { return l.entries }

// Len returns the number of recorded errors.
func (l *ErrorLog) Len() int { return len(l.entries) }

// Parser tokenizes PGN text into ParsedGames, tolerating malformed games
// by skipping them and recording why in its ErrorLog. A Parser is total:
// Parse always returns a (possibly empty) game list, never an error.
type Parser struct {
	errors ErrorLog
}

// NewParser returns a Parser with an empty error log.
func NewParser() *Parser { return &Parser{} }

// Errors returns every error recorded by this Parser's Parse calls so
// far; the log is not cleared between calls.
func (p *Parser) Errors() []ParseError { return p.errors.Entries() }

// Parse reads every game from r, tolerating malformed games by
// skipping them. Recoverable errors are appended to Errors(); Parse
// itself never fails.
func (p *Parser) Parse(r io.Reader) []*ParsedGame {
	blocks := splitGameBlocks(r)
	games := make([]*ParsedGame, 0, len(blocks))
	for i, block := range blocks {
		game, ok := p.parseBlock(block)
		if !ok {
			p.errors.add(i, "pgn: malformed game block, skipped")
			continue
		}
		games = append(games, game)
	}
	return games
}

// splitGameBlocks applies the boundary rule: a game begins at the
// first tag pair and ends at a movetext result token, or when a new
// tag pair opens after a blank-line gap while content is already
// buffered. This is a heuristic: PGN using blank lines inside movetext
// can over-split.
func splitGameBlocks(r io.Reader) []string {
	var blocks []string
	var buf []string
	inGame := false
	blankSeen := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			if inGame {
				blankSeen = true
				buf = append(buf, line)
			}
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			if inGame && blankSeen && len(buf) > 0 {
				blocks = append(blocks, strings.Join(buf, "\n"))
				buf = nil
			}
			inGame = true
			blankSeen = false
			buf = append(buf, line)
			continue
		}

		if !inGame {
			continue // content before any tag pair belongs to no game
		}
		buf = append(buf, line)
		blankSeen = false
		if containsResultToken(trimmed) {
			blocks = append(blocks, strings.Join(buf, "\n"))
			buf = nil
			inGame = false
		}
	}
	if len(buf) > 0 {
		blocks = append(blocks, strings.Join(buf, "\n"))
	}
	return blocks
}

func containsResultToken(line string) bool {
	for _, w := range resultWords {
		if strings.Contains(line, w) {
			return true
		}
	}
	fields := strings.Fields(line)
	for _, f := range fields {
		if f == "*" {
			return true
		}
	}
	return false
}

// parseBlock extracts tags and movetext from one game block. ok is
// false if the block looks structurally broken (unbalanced tag
// brackets with no recoverable content), in which case the caller
// records a parse error and moves on.
func (p *Parser) parseBlock(block string) (*ParsedGame, bool) {
	if strings.Count(block, "[") != strings.Count(block, "]") {
		return nil, false
	}

	tagMatches := tagPairRe.FindAllStringSubmatchIndex(block, -1)
	tags := model.NewTagMap()
	var spans [][2]int
	for _, m := range tagMatches {
		key := block[m[2]:m[3]]
		value := block[m[4]:m[5]]
		tags.Set(key, value)
		spans = append(spans, [2]int{m[0], m[1]})
	}

	movetext := removeSpans(block, spans)
	movetext = moveNumRe.ReplaceAllString(movetext, " ")
	movetext = nagRe.ReplaceAllString(movetext, " ")
	movetext = stripBalancedParens(movetext)

	if len(tagMatches) == 0 && strings.TrimSpace(movetext) == "" {
		return nil, false
	}

	moves := extractMoves(movetext)
	return &ParsedGame{Tags: tags, Moves: moves}, true
}

// removeSpans deletes the given [start,end) byte ranges from s, which
// must be sorted and non-overlapping (true of regexp match positions).
func removeSpans(s string, spans [][2]int) string {
	if len(spans) == 0 {
		return s
	}
	var sb strings.Builder
	prev := 0
	for _, sp := range spans {
		sb.WriteString(s[prev:sp[0]])
		prev = sp[1]
	}
	sb.WriteString(s[prev:])
	return sb.String()
}

// stripBalancedParens removes variation text to arbitrary nesting
// depth.
func stripBalancedParens(s string) string {
	var sb strings.Builder
	depth := 0
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				sb.WriteRune(c)
			}
		}
	}
	return sb.String()
}

// extractMoves scans movetext (already stripped of move-number glyphs,
// NAGs, and variations) for move tokens and brace comments in order,
// attaching each comment to the most recently emitted move.
func extractMoves(movetext string) []model.Move {
	matches := commentOrMove.FindAllString(movetext, -1)
	var moves []model.Move
	for _, m := range matches {
		if strings.HasPrefix(m, "{") {
			comment := strings.TrimSpace(strings.Trim(m, "{}"))
			if len(moves) > 0 {
				moves[len(moves)-1].Comment = comment
			}
			continue
		}
		moves = append(moves, model.Move{SAN: m})
	}
	return moves
}
