package query

// VirtualColumnTypeExpression is the only virtual column discriminator.
const VirtualColumnTypeExpression = "expression"

// VirtualColumn is a column computed at query time from Expression.
type VirtualColumn struct {
	Type       string     `json:"type"`
	Name       string     `json:"name"`
	Expression string     `json:"expression"`
	OutputType OutputType `json:"outputType"`
}

func NewVirtualColumn(name, expression string, outputType OutputType) VirtualColumn {
	return VirtualColumn{Type: VirtualColumnTypeExpression, Name: name, Expression: expression, OutputType: outputType}
}

func (v VirtualColumn) ValidateType() bool          { return v.Type == VirtualColumnTypeExpression }
func (v VirtualColumn) ValidateSubcomponents() bool { return v.OutputType.Known() }
