package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

type Op string

const (
	OpEq   Op = "eq"
	OpIn   Op = "in"
	OpGte  Op = "gte"
	OpLte  Op = "lte"
	OpLike Op = "like"
)

type Join string

const (
	And Join = "and"
	Or  Join = "or"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrUnsupportedOp = errors.New("unsupported operator")
	ErrInvalidValue  = errors.New("invalid value")
)

// Predicate 类型化的查询条件，Clause 或 Group
type Predicate interface {
	isPredicate()
}

// Clause 单个字段条件
type Clause struct {
	Field string
	Op    Op
	Value any
}

// Group 多个条件按 And/Or 组合，空组不产生条件
type Group struct {
	Join  Join
	Items []Predicate
}

func (Clause) isPredicate() {}
func (Group) isPredicate() {}

func Eq(field string, v any) Clause { return Clause{Field: field, Op: OpEq, Value: v} }
func In(field string, v any) Clause { return Clause{Field: field, Op: OpIn, Value: v} }
func Gte(field string, v any) Clause { return Clause{Field: field, Op: OpGte, Value: v} }
func Lte(field string, v any) Clause { return Clause{Field: field, Op: OpLte, Value: v} }
func Like(field, v string) Clause { return Clause{Field: field, Op: OpLike, Value: v} }
func All(items ...Predicate) Group { return Group{Join: And, Items: items} }
func AnyOf(items ...Predicate) Group { return Group{Join: Or, Items: items} }

// Field 逻辑字段到存储字段的映射
type Field struct {
	Column  string
	ESField string
	Text    bool
}

// Schema 字段白名单
type Schema map[string]Field

// Lookup 校验字段与操作符
func (s Schema) Lookup(c Clause) (Field, error) {
	f, ok := s[c.Field]
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
	}
	switch c.Op {
	case OpEq, OpGte, OpLte:
		if c.Value == nil {
			return Field{}, fmt.Errorf("%w: %s is nil", ErrInvalidValue, c.Field)
		}
	case OpIn:
		if len(Values(c.Value)) == 0 {
			return Field{}, fmt.Errorf("%w: %s needs a non-empty list", ErrInvalidValue, c.Field)
		}
	case OpLike:
		if str, ok := c.Value.(string); !ok || strings.TrimSpace(str) == "" {
			return Field{}, fmt.Errorf("%w: %s needs a non-empty string", ErrInvalidValue, c.Field)
		}
	default:
		return Field{}, fmt.Errorf("%w: %s", ErrUnsupportedOp, c.Op)
	}
	return f, nil
}

// Values 将切片展开为 []any，非切片返回 nil
func Values(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// IsEmpty 不含任何有效条件
func IsEmpty(p Predicate) bool {
	switch v := p.(type) {
	case nil:
		return true
	case Clause:
		return false
	case Group:
		for _, item := range v.Items {
			if !IsEmpty(item) {
				return false
			}
		}
		return true
	}
	return true
}
