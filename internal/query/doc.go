// Package query provides the typed model of the Druid native query protocol
// (0.22.x wire format) used by cathbad.
//
// The package contains three layers:
//
//	[component model] → [query envelope] → [wire JSON]
//
// COMPONENT MODEL:
//
// Every DSL primitive (filters, aggregations, post-aggregations, dimension
// specs, extraction functions, search query specs, having specs, limit specs,
// virtual columns, granularities, data sources, ...) is a sealed interface
// using the marker method pattern. Only types in this package implement them.
// Recursive families (Filter, Having, ExtractionFunction, DimensionSpec,
// Aggregation, DataSource) hold their children as interface values.
//
// Every variant stores its discriminator explicitly:
//
//	&EqualToHaving{Type: "equalTo", Aggregation: "rows", Value: 10}
//
// Constructors (NewEqualToHaving, NewSelectorFilter, ...) fill it in. The
// discriminator is what goes on the wire, and it is also what validation
// checks. Several variants share a field shape, so the struct type alone
// does not prove which literal the caller meant.
//
// VALIDATION:
//
// Every node implements Component:
//
//	ValidateType()          - discriminator equals the literal for the variant
//	ValidateSubcomponents() - every owned component is Valid
//
// Absent optional components are valid. Sequences are valid when every
// element is valid. A present but nil pointer is invalid. Validation is a pure
// predicate and never rewrites the tree.
//
// WIRE FORMAT:
//
// Components carry their discriminator in "type", queries in "queryType".
// Field names are lowerCamelCase, absent optionals are omitted. Decoding an
// unknown discriminator returns *UnknownTypeError rather than picking a
// default variant. For every variant, decoding the encoding yields a value
// equal to the original.
//
// Example:
//
//	q := query.NewSearch(
//	    query.StringDataSource("wikipedia"),
//	    []string{"2013-01-01/2013-01-02"},
//	    query.NewInsensitiveContainsSearch("Ke"),
//	)
//	if !query.Validate(q) {
//	    // reject before any I/O
//	}
//	body, err := query.Marshal(q)
package query
