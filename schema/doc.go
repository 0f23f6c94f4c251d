// Package schema describes the single entity a crudgen project is generated for.
//
// A [Schema] is an immutable, ordered list of attributes plus the entity and
// table names. Exactly one attribute acts as the identity key; which one is
// decided by [ResolveIdentity]:
//
//   - exactly one attribute flagged: that attribute.
//   - no attribute flagged: the first declared attribute.
//   - several attributes flagged: the first flagged one in declaration order.
//
// # Quick Start
//
//	s, err := schema.New("Resultado", "resultados",
//	    schema.Key("id", schema.Text),
//	    schema.Attr("name", schema.Text),
//	    schema.Attr("score", schema.Integer),
//	)
//	if err != nil {
//	    return err
//	}
//	id := s.Identity() // id:text
//
// # Attribute Types
//
// Attribute types are semantic tags. The generator maps them to a concrete
// representation of the target, for example:
//
//	schema.Text     // string,    TEXT / VARCHAR(255)
//	schema.Integer  // int64,     BIGINT
//	schema.Decimal  // float64,   DOUBLE PRECISION
//	schema.Boolean  // bool,      BOOLEAN
//	schema.Date     // time.Time, DATE / TIMESTAMP
package schema
