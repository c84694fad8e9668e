package query

import (
	"encoding/json"
	"fmt"
)

// DataSource is where a query reads rows from.
//
// A StringDataSource encodes as a bare JSON string (table shorthand); every
// other variant is a tagged object. QueryDataSource nests a whole query.
type DataSource interface {
	Component
	dataSourceNode()
}

// Data source discriminators.
const (
	DataSourceTypeTable  = "table"
	DataSourceTypeUnion  = "union"
	DataSourceTypeInline = "inline"
	DataSourceTypeQuery  = "query"
	DataSourceTypeJoin   = "join"
	DataSourceTypeUnnest = "unnest"
)

// StringDataSource names a table directly. It must not be empty.
type StringDataSource string

func (StringDataSource) dataSourceNode()             {}
func (s StringDataSource) ValidateType() bool        { return s != "" }
func (StringDataSource) ValidateSubcomponents() bool { return true }

// TableDataSource reads one table.
type TableDataSource struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func NewTableDataSource(name string) *TableDataSource {
	return &TableDataSource{Type: DataSourceTypeTable, Name: name}
}

func (*TableDataSource) dataSourceNode()             {}
func (d *TableDataSource) ValidateType() bool        { return d.Type == DataSourceTypeTable }
func (*TableDataSource) ValidateSubcomponents() bool { return true }

// UnionDataSource reads the union of several tables with the same schema.
type UnionDataSource struct {
	Type        string   `json:"type"`
	DataSources []string `json:"dataSources"`
}

func NewUnionDataSource(tables ...string) *UnionDataSource {
	return &UnionDataSource{Type: DataSourceTypeUnion, DataSources: tables}
}

func (*UnionDataSource) dataSourceNode()             {}
func (d *UnionDataSource) ValidateType() bool        { return d.Type == DataSourceTypeUnion }
func (*UnionDataSource) ValidateSubcomponents() bool { return true }

// InlineDataSource embeds rows in the query. Each row holds one value per
// entry in ColumnNames, written as a string; the engine coerces it to the
// column type.
type InlineDataSource struct {
	Type        string     `json:"type"`
	ColumnNames []string   `json:"columnNames"`
	Rows        [][]string `json:"rows"`
}

func NewInlineDataSource(columnNames []string, rows [][]string) *InlineDataSource {
	return &InlineDataSource{Type: DataSourceTypeInline, ColumnNames: columnNames, Rows: rows}
}

func (*InlineDataSource) dataSourceNode()             {}
func (d *InlineDataSource) ValidateType() bool        { return d.Type == DataSourceTypeInline }
func (*InlineDataSource) ValidateSubcomponents() bool { return true }

// QueryDataSource reads the results of a subquery.
type QueryDataSource struct {
	Type  string      `json:"type"`
	Query NativeQuery `json:"query"`
}

func NewQueryDataSource(q NativeQuery) *QueryDataSource {
	return &QueryDataSource{Type: DataSourceTypeQuery, Query: q}
}

func (*QueryDataSource) dataSourceNode()               {}
func (d *QueryDataSource) ValidateType() bool          { return d.Type == DataSourceTypeQuery }
func (d *QueryDataSource) ValidateSubcomponents() bool { return Valid(d.Query) }

func (d *QueryDataSource) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type  string          `json:"type"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q, err := decodeOptional(aux.Query, Unmarshal)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	d.Type, d.Query = aux.Type, q
	return nil
}

// JoinDataSource joins Left and Right on Condition. Right-hand columns are
// renamed with RightPrefix.
type JoinDataSource struct {
	Type        string     `json:"type"`
	Left        DataSource `json:"left"`
	Right       DataSource `json:"right"`
	RightPrefix string     `json:"rightPrefix"`
	Condition   string     `json:"condition"`
	JoinType    string     `json:"joinType"`
}

func NewJoinDataSource(left, right DataSource, rightPrefix, condition, joinType string) *JoinDataSource {
	return &JoinDataSource{
		Type:        DataSourceTypeJoin,
		Left:        left,
		Right:       right,
		RightPrefix: rightPrefix,
		Condition:   condition,
		JoinType:    joinType,
	}
}

func (*JoinDataSource) dataSourceNode()      {}
func (d *JoinDataSource) ValidateType() bool { return d.Type == DataSourceTypeJoin }

func (d *JoinDataSource) ValidateSubcomponents() bool {
	return Valid(d.Left) && Valid(d.Right)
}

func (d *JoinDataSource) UnmarshalJSON(data []byte) error {
	type plain JoinDataSource
	aux := struct {
		*plain
		Left  json.RawMessage `json:"left"`
		Right json.RawMessage `json:"right"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if d.Left, err = decodeOptional(aux.Left, UnmarshalDataSource); err != nil {
		return fmt.Errorf("left: %w", err)
	}
	if d.Right, err = decodeOptional(aux.Right, UnmarshalDataSource); err != nil {
		return fmt.Errorf("right: %w", err)
	}
	return nil
}

// UnnestDataSource flattens the multi-value VirtualColumn of Base into rows.
type UnnestDataSource struct {
	Type          string        `json:"type"`
	Base          DataSource    `json:"base"`
	VirtualColumn VirtualColumn `json:"virtualColumn"`
	UnnestFilter  string        `json:"unnestFilter,omitempty"`
}

func NewUnnestDataSource(base DataSource, column VirtualColumn) *UnnestDataSource {
	return &UnnestDataSource{Type: DataSourceTypeUnnest, Base: base, VirtualColumn: column}
}

func (*UnnestDataSource) dataSourceNode()      {}
func (d *UnnestDataSource) ValidateType() bool { return d.Type == DataSourceTypeUnnest }

func (d *UnnestDataSource) ValidateSubcomponents() bool {
	return Valid(d.Base) && Valid(d.VirtualColumn)
}

func (d *UnnestDataSource) UnmarshalJSON(data []byte) error {
	type plain UnnestDataSource
	aux := struct {
		*plain
		Base json.RawMessage `json:"base"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	base, err := decodeOptional(aux.Base, UnmarshalDataSource)
	if err != nil {
		return fmt.Errorf("base: %w", err)
	}
	d.Base = base
	return nil
}

var dataSourceRegistry = map[string]func() DataSource{
	DataSourceTypeTable:  func() DataSource { return &TableDataSource{} },
	DataSourceTypeUnion:  func() DataSource { return &UnionDataSource{} },
	DataSourceTypeInline: func() DataSource { return &InlineDataSource{} },
	DataSourceTypeQuery:  func() DataSource { return &QueryDataSource{} },
	DataSourceTypeJoin:   func() DataSource { return &JoinDataSource{} },
	DataSourceTypeUnnest: func() DataSource { return &UnnestDataSource{} },
}

// UnmarshalDataSource decodes a data source. A bare JSON string becomes a
// StringDataSource; an object is dispatched on its "type".
func UnmarshalDataSource(data []byte) (DataSource, error) {
	if isJSONString(data) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, fmt.Errorf("decode data source: %w", err)
		}
		return StringDataSource(name), nil
	}
	return decodeVariant(data, "data source", "type", dataSourceRegistry)
}
