package query

// LimitSpecTypeDefault is the only limit spec discriminator.
const LimitSpecTypeDefault = "default"

// LimitSpec sorts and limits grouped results.
type LimitSpec struct {
	Type    string              `json:"type"`
	Limit   *int64              `json:"limit,omitempty"`
	Offset  *int64              `json:"offset,omitempty"`
	Columns []OrderByColumnSpec `json:"columns,omitempty"`
}

// OrderByColumnSpec orders results by one output column.
type OrderByColumnSpec struct {
	Dimension      string    `json:"dimension"`
	Direction      Direction `json:"direction"`
	DimensionOrder Sort      `json:"dimensionOrder"`
}

func NewLimitSpec(limit int64, columns ...OrderByColumnSpec) *LimitSpec {
	return &LimitSpec{Type: LimitSpecTypeDefault, Limit: &limit, Columns: columns}
}

func (l *LimitSpec) ValidateType() bool { return l.Type == LimitSpecTypeDefault }

// ValidateSubcomponents requires every column to name a known direction
// and ordering.
func (l *LimitSpec) ValidateSubcomponents() bool {
	for _, c := range l.Columns {
		if !c.Direction.Known() || !c.DimensionOrder.Known() {
			return false
		}
	}
	return true
}
