package query

// PostAggregation derives a value from already aggregated metrics.
// Arithmetic references its operands by name, so the family is not recursive.
type PostAggregation interface {
	Component
	postAggregationNode()
}

// Post-aggregation discriminators.
const (
	PostAggregationTypeArithmetic             = "arithmetic"
	PostAggregationTypeConstant               = "constant"
	PostAggregationTypeJavaScript             = "javaScript"
	PostAggregationTypeHyperUniqueCardinality = "hyperUniqueCardinality"
	PostAggregationTypeFieldAccess            = "fieldAccess"
	PostAggregationTypeFinalizingFieldAccess  = "finalizingFieldAccess"
	PostAggregationTypeDoubleGreatest         = "doubleGreatest"
	PostAggregationTypeLongGreatest           = "longGreatest"
	PostAggregationTypeDoubleLeast            = "doubleLeast"
	PostAggregationTypeLongLeast              = "longLeast"
)

var fieldAccessTypes = map[string]bool{
	PostAggregationTypeFieldAccess:           true,
	PostAggregationTypeFinalizingFieldAccess: true,
}

var boundPostAggregationTypes = map[string]bool{
	PostAggregationTypeDoubleGreatest: true,
	PostAggregationTypeLongGreatest:   true,
	PostAggregationTypeDoubleLeast:    true,
	PostAggregationTypeLongLeast:      true,
}

// ArithmeticPostAggregation applies Fn (+, -, *, /, quotient) to Fields left to right.
type ArithmeticPostAggregation struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Fn       string   `json:"fn"`
	Fields   []string `json:"fields"`
	Ordering string   `json:"ordering,omitempty"`
}

func NewArithmeticPostAggregation(name, fn string, fields ...string) *ArithmeticPostAggregation {
	return &ArithmeticPostAggregation{Type: PostAggregationTypeArithmetic, Name: name, Fn: fn, Fields: fields}
}

func (*ArithmeticPostAggregation) postAggregationNode()        {}
func (p *ArithmeticPostAggregation) ValidateType() bool        { return p.Type == PostAggregationTypeArithmetic }
func (*ArithmeticPostAggregation) ValidateSubcomponents() bool { return true }

// FieldAccessPostAggregation exposes an aggregator's value. Type is
// fieldAccess (raw) or finalizingFieldAccess (finalized), and must match the
// constructor the value came from.
type FieldAccessPostAggregation struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	FieldName string `json:"fieldName"`

	variant string
}

func NewFieldAccessPostAggregation(name, fieldName string) *FieldAccessPostAggregation {
	return newFieldAccess(PostAggregationTypeFieldAccess, name, fieldName)
}

func NewFinalizingFieldAccessPostAggregation(name, fieldName string) *FieldAccessPostAggregation {
	return newFieldAccess(PostAggregationTypeFinalizingFieldAccess, name, fieldName)
}

func newFieldAccess(typ, name, fieldName string) *FieldAccessPostAggregation {
	return &FieldAccessPostAggregation{Type: typ, Name: name, FieldName: fieldName, variant: typ}
}

func (*FieldAccessPostAggregation) postAggregationNode()        {}
func (p *FieldAccessPostAggregation) ValidateType() bool        { return fieldAccessTypes[p.variant] && p.Type == p.variant }
func (*FieldAccessPostAggregation) ValidateSubcomponents() bool { return true }

// BoundPostAggregation picks the greatest or least of Fields. Like
// FieldAggregation it remembers the variant it was built as.
type BoundPostAggregation struct {
	Type   string   `json:"type"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`

	variant string
}

// NewBoundPostAggregation takes one of doubleGreatest, longGreatest,
// doubleLeast, longLeast.
func NewBoundPostAggregation(typ, name string, fields ...string) *BoundPostAggregation {
	return &BoundPostAggregation{Type: typ, Name: name, Fields: fields, variant: typ}
}

func (*BoundPostAggregation) postAggregationNode()        {}
func (p *BoundPostAggregation) ValidateType() bool        { return boundPostAggregationTypes[p.variant] && p.Type == p.variant }
func (*BoundPostAggregation) ValidateSubcomponents() bool { return true }

// JavaScriptPostAggregation applies Function to FieldNames.
type JavaScriptPostAggregation struct {
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	FieldNames []string `json:"fieldNames"`
	Function   string   `json:"function"`
}

func NewJavaScriptPostAggregation(name, function string, fieldNames ...string) *JavaScriptPostAggregation {
	return &JavaScriptPostAggregation{Type: PostAggregationTypeJavaScript, Name: name, FieldNames: fieldNames, Function: function}
}

func (*JavaScriptPostAggregation) postAggregationNode()        {}
func (p *JavaScriptPostAggregation) ValidateType() bool        { return p.Type == PostAggregationTypeJavaScript }
func (*JavaScriptPostAggregation) ValidateSubcomponents() bool { return true }

// HyperUniqueCardinalityPostAggregation wraps a hyperUnique metric for use
// in arithmetic.
type HyperUniqueCardinalityPostAggregation struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	FieldName string `json:"fieldName"`
}

func NewHyperUniqueCardinalityPostAggregation(name, fieldName string) *HyperUniqueCardinalityPostAggregation {
	return &HyperUniqueCardinalityPostAggregation{Type: PostAggregationTypeHyperUniqueCardinality, Name: name, FieldName: fieldName}
}

func (*HyperUniqueCardinalityPostAggregation) postAggregationNode() {}

func (p *HyperUniqueCardinalityPostAggregation) ValidateType() bool {
	return p.Type == PostAggregationTypeHyperUniqueCardinality
}

func (*HyperUniqueCardinalityPostAggregation) ValidateSubcomponents() bool { return true }

// ConstantPostAggregation always returns Value.
type ConstantPostAggregation struct {
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func NewConstantPostAggregation(name string, value float64) *ConstantPostAggregation {
	return &ConstantPostAggregation{Type: PostAggregationTypeConstant, Name: name, Value: value}
}

func (*ConstantPostAggregation) postAggregationNode()        {}
func (p *ConstantPostAggregation) ValidateType() bool        { return p.Type == PostAggregationTypeConstant }
func (*ConstantPostAggregation) ValidateSubcomponents() bool { return true }

var postAggregationRegistry = map[string]func() PostAggregation{
	PostAggregationTypeArithmetic:             func() PostAggregation { return &ArithmeticPostAggregation{} },
	PostAggregationTypeConstant:               func() PostAggregation { return &ConstantPostAggregation{} },
	PostAggregationTypeJavaScript:             func() PostAggregation { return &JavaScriptPostAggregation{} },
	PostAggregationTypeHyperUniqueCardinality: func() PostAggregation { return &HyperUniqueCardinalityPostAggregation{} },
	PostAggregationTypeFieldAccess:            func() PostAggregation { return &FieldAccessPostAggregation{variant: PostAggregationTypeFieldAccess} },
	PostAggregationTypeFinalizingFieldAccess:  func() PostAggregation { return &FieldAccessPostAggregation{variant: PostAggregationTypeFinalizingFieldAccess} },
	PostAggregationTypeDoubleGreatest:         func() PostAggregation { return &BoundPostAggregation{variant: PostAggregationTypeDoubleGreatest} },
	PostAggregationTypeLongGreatest:           func() PostAggregation { return &BoundPostAggregation{variant: PostAggregationTypeLongGreatest} },
	PostAggregationTypeDoubleLeast:            func() PostAggregation { return &BoundPostAggregation{variant: PostAggregationTypeDoubleLeast} },
	PostAggregationTypeLongLeast:              func() PostAggregation { return &BoundPostAggregation{variant: PostAggregationTypeLongLeast} },
}

// UnmarshalPostAggregation decodes a post-aggregation by its "type".
func UnmarshalPostAggregation(data []byte) (PostAggregation, error) {
	return decodeVariant(data, "post-aggregation", "type", postAggregationRegistry)
}
