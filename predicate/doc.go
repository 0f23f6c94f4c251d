// Package predicate turns generic search criteria into a filter expression.
//
// A criterion names a field, an operator and a value:
//
//	[]predicate.Criterion{
//	    {Field: "name", Op: predicate.OpLike, Value: "an"},
//	    {Field: "score", Op: predicate.OpGT, Value: 9},
//	}
//
// [Build] combines the criteria with logical AND. Operator semantics are fixed:
//
//   - eq, neq compare the field with the value natively.
//   - like matches when the field contains the value as a substring. The value
//     is wrapped with % on both sides and keeps the SQL LIKE wildcards % and _.
//     Matching is ASCII case-insensitive. Like is only defined for text fields;
//     on other fields the result is undefined and Match reports false.
//   - lt, lte, gt, gte compare the textual representation of the field with
//     the textual representation of the value. Numbers and dates are compared
//     as strings, so score=10 is not greater than "9". The textual
//     representation is [Text], which matches what SQLite yields when casting
//     a stored value to TEXT: booleans are 1 and 0, floats keep a fractional
//     digit (10.0) and times use [TimeLayout].
//
// A nil value compares like SQL NULL: eq and neq never match it.
//
// Any other operator is [OpNone] and contributes no condition at all, so an
// unknown operator behaves exactly like a missing criterion. An empty
// predicate matches every record.
//
// A [Predicate] can be evaluated in memory with Match or rendered as a SQL
// condition for a [dialect.Dialect] with SQL.
package predicate
