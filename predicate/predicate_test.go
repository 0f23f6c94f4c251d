package predicate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/dialect"
)

func TestBuild_Empty(t *testing.T) {
	p := Build(nil)
	assert.True(t, p.Empty())
	assert.Equal(t, "TRUE", p.String())
	for _, r := range []Map{{}, {"name": "Bob"}, {"score": 1}} {
		assert.True(t, p.Match(r))
	}
	assert.Equal(t, p, Build([]Criterion{}))
}

func TestBuild_UnknownOperatorIsDropped(t *testing.T) {
	unknown := []Criterion{{Field: "x", Op: ParseOp("unknown"), Value: 1}}
	assert.Equal(t, Build(nil), Build(unknown))
	assert.Equal(t, Build(nil), Build([]Criterion{{Field: "x", Op: Op(200), Value: 1}}))

	mixed := Build([]Criterion{
		{Field: "x", Op: OpNone, Value: 1},
		{Field: "name", Op: OpEQ, Value: "Ana"},
	})
	assert.Equal(t, 1, mixed.Len())
	assert.Equal(t, "name", mixed.Terms()[0].Field)
}

func TestBuild_Like(t *testing.T) {
	p := Build([]Criterion{{Field: "name", Op: OpLike, Value: "an"}})
	assert.True(t, p.Match(Map{"name": "Ana"}))
	assert.True(t, p.Match(Map{"name": "Anderson"}))
	assert.True(t, p.Match(Map{"name": "Susan"}))
	assert.False(t, p.Match(Map{"name": "Bob"}))
	assert.False(t, p.Match(Map{}))
	// undefined on non-text fields, reported as no match
	assert.False(t, p.Match(Map{"name": 42}))
	assert.Equal(t, `name LIKE "%an%"`, p.String())
}

func TestLike(t *testing.T) {
	tests := []struct {
		s, pattern string
		want       bool
	}{
		{"Anderson", "%an%", true},
		{"Anderson", "an%", true},
		{"Anderson", "%an", false},
		{"Bob", "%an%", false},
		{"", "%%", true},
		{"abc", "a_c", true},
		{"abc", "a_", false},
		{"mississippi", "%iss%ppi", true},
		{"ÁNA", "%na%", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, like(tt.s, tt.pattern), "%q LIKE %q", tt.s, tt.pattern)
	}
}

func TestBuild_OrderingIsTextual(t *testing.T) {
	gt := Build([]Criterion{{Field: "score", Op: OpGT, Value: 9}})
	require.Equal(t, 1, gt.Len())
	assert.Equal(t, "9", gt.Terms()[0].Value)

	// "10" > "9" is false lexicographically
	assert.False(t, gt.Match(Map{"score": 10}))
	assert.False(t, gt.Match(Map{"score": 2}))
	assert.True(t, gt.Match(Map{"score": 95}))

	lt := Build([]Criterion{{Field: "score", Op: OpLT, Value: 9}})
	assert.True(t, lt.Match(Map{"score": 10}))
	assert.True(t, lt.Match(Map{"score": 2}))

	lte := Build([]Criterion{{Field: "score", Op: OpLTE, Value: "9"}})
	assert.True(t, lte.Match(Map{"score": 9}))
	gte := Build([]Criterion{{Field: "score", Op: OpGTE, Value: 9.0}})
	assert.Equal(t, "9.0", gte.Terms()[0].Value)
	assert.True(t, gte.Match(Map{"score": 9.5}))
	assert.False(t, gte.Match(Map{"score": 9}), `"9" sorts before "9.0"`)
	assert.False(t, gte.Match(Map{"score": 100}))

	active := Build([]Criterion{{Field: "active", Op: OpGTE, Value: "t"}})
	assert.False(t, active.Match(Map{"active": true}), "booleans compare as 1 and 0")
	amount := Build([]Criterion{{Field: "amount", Op: OpGTE, Value: "10.0"}})
	assert.True(t, amount.Match(Map{"amount": 10.0}))
	assert.True(t, amount.Match(Map{"amount": 2.5}))
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{[]byte("abc"), "abc"},
		{true, "1"},
		{false, "0"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(3), "3"},
		{10.0, "10.0"},
		{2.5, "2.5"},
		{float32(0.5), "0.5"},
		{0.1, "0.1"},
		{1e20, "1.0e+20"},
		{1.5e-7, "1.5e-07"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01 00:00:00+00:00"},
		{time.Date(2024, 3, 1, 8, 30, 0, 500, time.FixedZone("X", 3600)), "2024-03-01 08:30:00.0000005+01:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "%#v", tt.in)
	}
}

func TestMatch_Null(t *testing.T) {
	eq := Build([]Criterion{{Field: "name", Op: OpEQ}})
	neq := Build([]Criterion{{Field: "name", Op: OpNEQ}})
	for _, r := range []Map{{"name": "Ana"}, {"name": ""}, {"name": nil}} {
		assert.False(t, eq.Match(r), "%v", r)
		assert.False(t, neq.Match(r), "%v", r)
	}
	query, args := neq.SQL(dialect.SQLite)
	assert.Equal(t, `"name" <> ?`, query)
	assert.Equal(t, []any{nil}, args)
}

func TestBuild_Equality(t *testing.T) {
	eq := Build([]Criterion{{Field: "score", Op: OpEQ, Value: 10}})
	assert.Equal(t, 10, eq.Terms()[0].Value, "equality keeps the native value")
	assert.True(t, eq.Match(Map{"score": int64(10)}))
	assert.True(t, eq.Match(Map{"score": 10.0}))
	assert.False(t, eq.Match(Map{"score": "10"}))
	assert.False(t, eq.Match(Map{"score": nil}))

	neq := Build([]Criterion{{Field: "name", Op: OpNEQ, Value: "Bob"}})
	assert.True(t, neq.Match(Map{"name": "Ana"}))
	assert.False(t, neq.Match(Map{"name": "Bob"}))
	assert.False(t, neq.Match(Map{}), "missing fields never match")

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	at := Build([]Criterion{{Field: "at", Op: OpEQ, Value: day}})
	assert.True(t, at.Match(Map{"at": day.In(time.FixedZone("X", 3600))}))

	flag := Build([]Criterion{{Field: "active", Op: OpEQ, Value: true}})
	assert.True(t, flag.Match(Map{"active": true}))
	assert.False(t, flag.Match(Map{"active": false}))
}

func TestPredicate_Conjunction(t *testing.T) {
	criteria := []Criterion{
		{Field: "name", Op: OpLike, Value: "an"},
		{Field: "score", Op: OpNEQ, Value: 3},
	}
	reversed := []Criterion{criteria[1], criteria[0]}
	records := []Map{
		{"name": "Ana", "score": 3},
		{"name": "Ana", "score": 4},
		{"name": "Bob", "score": 4},
	}
	for _, r := range records {
		assert.Equal(t, Build(criteria).Match(r), Build(reversed).Match(r))
	}
	assert.Equal(t, []Map{records[1]}, Filter(Build(criteria), records))

	a := Build(criteria[:1])
	b := Build(criteria[1:])
	assert.Equal(t, Build(criteria), a.And(b))
	assert.Equal(t, a, a.And(Build(nil)))
	assert.Equal(t, b, Build(nil).And(b))
	assert.Equal(t, []string{"name", "score"}, a.And(b).Fields())

	many := make([]Criterion, 100)
	for i := range many {
		many[i] = Criterion{Field: "name", Op: OpLike, Value: "a"}
	}
	assert.Equal(t, 100, Build(many).Len())
}

func TestPredicate_SQL(t *testing.T) {
	p := Build([]Criterion{
		{Field: "name", Op: OpLike, Value: "an"},
		{Field: "score", Op: OpGT, Value: 9},
		{Field: "id", Op: OpEQ, Value: "x"},
		{Field: "skip", Op: OpNone, Value: 1},
	})

	t.Run("sqlite", func(t *testing.T) {
		query, args := p.SQL(dialect.SQLite)
		assert.Equal(t, `"name" LIKE ? AND CAST("score" AS TEXT) > ? AND "id" = ?`, query)
		assert.Equal(t, []any{"%an%", "9", "x"}, args)
	})

	t.Run("mysql", func(t *testing.T) {
		query, _ := p.SQL(dialect.MySQL)
		assert.Equal(t, "`name` LIKE ? AND CAST(`score` AS CHAR) > ? AND `id` = ?", query)
	})

	t.Run("postgres", func(t *testing.T) {
		query, args := p.SQL(dialect.Postgres)
		assert.Equal(t, `"name" ILIKE $1 AND CAST("score" AS TEXT) > $2 AND "id" = $3`, query)
		assert.Len(t, args, 3)
	})

	t.Run("columns", func(t *testing.T) {
		query, _ := Build([]Criterion{{Field: "userName", Op: OpNEQ, Value: "x"}}).
			SQLColumns(dialect.SQLite, func(string) string { return "user_name" })
		assert.Equal(t, `"user_name" <> ?`, query)
	})

	t.Run("empty", func(t *testing.T) {
		query, args := Build(nil).SQL(dialect.SQLite)
		assert.Empty(t, query)
		assert.Nil(t, args)
	})
}

func TestCriterion_JSON(t *testing.T) {
	var criteria []Criterion
	err := json.Unmarshal([]byte(`[
		{"key": "name", "operation": "like", "value": "an"},
		{"key": "score", "operation": "gt", "value": 9},
		{"key": "x", "operation": "between", "value": 1}
	]`), &criteria)
	require.NoError(t, err)
	require.Len(t, criteria, 3)
	assert.Equal(t, OpLike, criteria[0].Op)
	assert.Equal(t, OpGT, criteria[1].Op)
	assert.Equal(t, OpNone, criteria[2].Op)

	p := Build(criteria)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, `name LIKE "%an%" AND score > "9"`, p.String())

	assert.Equal(t, int64(9), criteria[1].Value)

	var values []Criterion
	err = json.Unmarshal([]byte(`[
		{"key": "a", "operation": "gte", "value": 10.0},
		{"key": "a", "operation": "gte", "value": 2.5},
		{"key": "a", "operation": "eq", "value": null},
		{"key": "a", "operation": "eq"},
		{"key": "a", "operation": "eq", "value": true}
	]`), &values)
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 2.5, nil, nil, true},
		[]any{values[0].Value, values[1].Value, values[2].Value, values[3].Value, values[4].Value})
	assert.Equal(t, "10.0", Build(values[:1]).Terms()[0].Value)

	out, err := json.Marshal(Criterion{Field: "a", Op: OpLTE, Value: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"a","operation":"lte","value":1}`, string(out))
}

func TestOp(t *testing.T) {
	names := map[string]Op{"eq": OpEQ, "neq": OpNEQ, "like": OpLike, "lt": OpLT, "lte": OpLTE, "gt": OpGT, "gte": OpGTE}
	for name, op := range names {
		assert.Equal(t, op, ParseOp(name))
		assert.Equal(t, name, op.String())
	}
	assert.Equal(t, OpEQ, ParseOp(" EQ "))
	assert.Equal(t, OpNone, ParseOp("ne"))
	assert.Equal(t, "none", Op(99).String())
	assert.Len(t, Ops(), 7)
	assert.True(t, OpLike.Textual())
	assert.False(t, OpEQ.Textual())
	assert.True(t, OpGTE.Ordering())
	assert.False(t, OpLike.Ordering())
}
