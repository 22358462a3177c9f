package query

import (
	"fmt"
	"strings"
)

// ToSQL 编译为 gorm Where 可用的片段，空条件返回空串
func (s Schema) ToSQL(p Predicate) (string, []any, error) {
	switch v := p.(type) {
	case nil:
		return "", nil, nil
	case Clause:
		return s.clauseSQL(v)
	case Group:
		return s.groupSQL(v)
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnsupportedOp, p)
	}
}

func (s Schema) clauseSQL(c Clause) (string, []any, error) {
	f, err := s.Lookup(c)
	if err != nil {
		return "", nil, err
	}
	switch c.Op {
	case OpEq:
		return f.Column + " = ?", []any{c.Value}, nil
	case OpIn:
		return f.Column + " IN ?", []any{Values(c.Value)}, nil
	case OpGte:
		return f.Column + " >= ?", []any{c.Value}, nil
	case OpLte:
		return f.Column + " <= ?", []any{c.Value}, nil
	default:
		return f.Column + " LIKE ? ESCAPE '!'", []any{"%" + escapeLike(c.Value.(string)) + "%"}, nil
	}
}

func (s Schema) groupSQL(g Group) (string, []any, error) {
	sep := " AND "
	switch g.Join {
	case Or:
		sep = " OR "
	case And, "":
	default:
		return "", nil, fmt.Errorf("%w: join %s", ErrUnsupportedOp, g.Join)
	}

	parts := make([]string, 0, len(g.Items))
	var args []any
	for _, item := range g.Items {
		if IsEmpty(item) {
			continue
		}
		sql, itemArgs, err := s.ToSQL(item)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, itemArgs...)
	}

	switch len(parts) {
	case 0:
		return "", nil, nil
	case 1:
		return parts[0], args, nil
	default:
		return "(" + strings.Join(parts, sep) + ")", args, nil
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}
