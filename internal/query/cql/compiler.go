package cql

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/query"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/store"
)

// CompileError reports a field or operator that the compiler cannot
// lower: an unknown operator on a known field is a compile error.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return e.Message }

// Compile lowers a CQL AST into a query.Builder using a fixed
// field→slot table. OR nodes are evaluated by compiling each side
// independently and unioning their results (the supported OR subset);
// AND nodes and comparisons compose directly onto one Builder's
// predicate chain.
//
// Because OR produces a result set rather than a further-chainable
// Builder, Compile returns a thunk that executes the whole expression
// rather than a Builder itself: CQL's grammar allows OR to nest anywhere,
// but query.Builder's fluent API only composes AND-conjunctions. An OR
// nested beneath an AND, such as `a AND (b OR c)`, is a CompileError;
// OR is supported only above AND chains.
func Compile(expr Expression, indexes *store.IndexSet, reader *store.Reader, log zerolog.Logger) (func() ([]*model.Game, error), error) {
	switch e := expr.(type) {
	case *BinaryExpr:
		switch e.Op {
		case OpAnd:
			b := query.New(indexes, reader, log)
			if err := applyAndChain(b, e); err != nil {
				return nil, err
			}
			return b.Execute, nil
		case OpOr:
			leftFn, err := Compile(e.Left, indexes, reader, log)
			if err != nil {
				return nil, err
			}
			rightFn, err := Compile(e.Right, indexes, reader, log)
			if err != nil {
				return nil, err
			}
			return func() ([]*model.Game, error) {
				left, err := leftFn()
				if err != nil {
					return nil, err
				}
				right, err := rightFn()
				if err != nil {
					return nil, err
				}
				return unionGames(left, right), nil
			}, nil
		}
		return nil, &CompileError{Message: "cql: unknown boolean operator"}

	case *ComparisonExpr:
		b := query.New(indexes, reader, log)
		if err := applyComparison(b, e); err != nil {
			return nil, err
		}
		return b.Execute, nil

	default:
		return nil, &CompileError{Message: "cql: unknown expression node"}
	}
}

// applyAndChain flattens a tree of AND nodes and comparisons onto a
// single Builder, since AND is the builder's native conjunction.
func applyAndChain(b *query.Builder, expr Expression) error {
	switch e := expr.(type) {
	case *BinaryExpr:
		if e.Op != OpAnd {
			return &CompileError{Message: "cql: OR nested inside an AND is not supported"}
		}
		if err := applyAndChain(b, e.Left); err != nil {
			return err
		}
		return applyAndChain(b, e.Right)
	case *ComparisonExpr:
		return applyComparison(b, e)
	default:
		return &CompileError{Message: "cql: unknown expression node in AND chain"}
	}
}

// applyComparison lowers a single `field OP value` node onto b, per the
// fixed field→slot table.
func applyComparison(b *query.Builder, cmp *ComparisonExpr) error {
	switch cmp.Field {
	case "player":
		return requireEq(cmp, func() { b.Player(cmp.Value.Str) })
	case "event":
		return applyEvent(b, cmp)
	case "eco":
		return requireEq(cmp, func() { b.ECO(cmp.Value.Str) })
	case "result":
		return requireEq(cmp, func() { b.Result(cmp.Value.Str) })
	case "fen":
		return requireEq(cmp, func() { b.FEN(cmp.Value.Str) })
	case "move", "san_move":
		return requireEq(cmp, func() { b.SANMove(cmp.Value.Str) })
	case "structure", "pawn_structure":
		return requireEq(cmp, func() {
			b.PawnStructureTag(model.ParsePawnStructure(cmp.Value.Str))
		})
	case "motif":
		return requireEq(cmp, func() {
			b.Motif(model.ParseTacticalMotif(cmp.Value.Str))
		})
	case "commentary":
		return applyCommentary(b, cmp)
	case "elo":
		return applyElo(b, cmp)
	case "date":
		return applyDate(b, cmp)
	default:
		return &CompileError{Message: fmt.Sprintf("cql: unknown field %q", cmp.Field)}
	}
}

func requireEq(cmp *ComparisonExpr, apply func()) error {
	if cmp.Op != OpEq {
		return &CompileError{Message: fmt.Sprintf("cql: field %q only supports '='", cmp.Field)}
	}
	apply()
	return nil
}

// applyEvent lowers an event comparison: '=' is an exact-match lookup,
// CONTAINS is a case-insensitive substring match against indexed event
// names (MetadataIndex.EventsContaining), not a comment-token lookup.
func applyEvent(b *query.Builder, cmp *ComparisonExpr) error {
	switch cmp.Op {
	case OpEq:
		b.Event(cmp.Value.Str)
		return nil
	case OpContains:
		b.EventContains(cmp.Value.Str)
		return nil
	default:
		return &CompileError{Message: "cql: field \"event\" only supports '=' or CONTAINS"}
	}
}

// applyCommentary lowers `commentary CONTAINS "phrase"`. CONTAINS is
// valid only on commentary and event; commentary is tokenized and each
// token becomes its own predicate, so a multi-word phrase lowers to an
// implicit AND of single-token Commentary filters.
func applyCommentary(b *query.Builder, cmp *ComparisonExpr) error {
	if cmp.Op != OpContains {
		return &CompileError{Message: "cql: field \"commentary\" only supports CONTAINS"}
	}
	for _, token := range store.Tokenize(cmp.Value.Str) {
		b.Commentary(token)
	}
	return nil
}

// applyElo lowers an elo comparison. '=' sets both bounds to the same
// value; '>'/'>=' raises min_elo (with +1 for the strict form); '<'/'<='
// lowers max_elo (with -1 for the strict form).
func applyElo(b *query.Builder, cmp *ComparisonExpr) error {
	if !cmp.Value.IsNumber {
		return &CompileError{Message: "cql: field \"elo\" requires a numeric value"}
	}
	v := int(cmp.Value.Num)
	switch cmp.Op {
	case OpEq:
		b.EloRange(v, v)
	case OpGt:
		b.EloRange(v+1, 3000)
	case OpGte:
		b.EloRange(v, 3000)
	case OpLt:
		b.EloRange(0, v-1)
	case OpLte:
		b.EloRange(0, v)
	default:
		return &CompileError{Message: "cql: field \"elo\" does not support this operator"}
	}
	return nil
}

// applyDate lowers a date comparison. '=' sets both bounds to the value;
// '>='/'>' set the start bound ('>' is treated like '>=' since dates have
// day granularity and no exclusive-successor is defined); '<='/'<' set
// the end bound ('<' is likewise treated like '<=').
func applyDate(b *query.Builder, cmp *ComparisonExpr) error {
	v := cmp.Value.Str
	switch cmp.Op {
	case OpEq:
		b.DateRange(v, v)
	case OpGt, OpGte:
		b.DateRange(v, "9999.99.99")
	case OpLt, OpLte:
		b.DateRange("0000.00.00", v)
	default:
		return &CompileError{Message: "cql: field \"date\" does not support this operator"}
	}
	return nil
}

func unionGames(left, right []*model.Game) []*model.Game {
	seen := make(map[uint32]struct{}, len(left)+len(right))
	out := make([]*model.Game, 0, len(left)+len(right))
	for _, g := range left {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	for _, g := range right {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	return out
}
