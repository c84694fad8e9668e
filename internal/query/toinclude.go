package query

// ToInclude selects the columns a segment metadata query reports on.
type ToInclude interface {
	Component
	toIncludeNode()
}

const (
	ToIncludeTypeAll  = "all"
	ToIncludeTypeNone = "none"
	ToIncludeTypeList = "list"
)

type AllToInclude struct {
	Type string `json:"type"`
}

func NewAllToInclude() *AllToInclude { return &AllToInclude{Type: ToIncludeTypeAll} }

func (*AllToInclude) toIncludeNode()              {}
func (t *AllToInclude) ValidateType() bool        { return t.Type == ToIncludeTypeAll }
func (*AllToInclude) ValidateSubcomponents() bool { return true }

type NoneToInclude struct {
	Type string `json:"type"`
}

func NewNoneToInclude() *NoneToInclude { return &NoneToInclude{Type: ToIncludeTypeNone} }

func (*NoneToInclude) toIncludeNode()              {}
func (t *NoneToInclude) ValidateType() bool        { return t.Type == ToIncludeTypeNone }
func (*NoneToInclude) ValidateSubcomponents() bool { return true }

// ListToInclude reports on Columns only.
type ListToInclude struct {
	Type    string   `json:"type"`
	Columns []string `json:"columns"`
}

func NewListToInclude(columns ...string) *ListToInclude {
	return &ListToInclude{Type: ToIncludeTypeList, Columns: columns}
}

func (*ListToInclude) toIncludeNode()              {}
func (t *ListToInclude) ValidateType() bool        { return t.Type == ToIncludeTypeList }
func (*ListToInclude) ValidateSubcomponents() bool { return true }

var toIncludeRegistry = map[string]func() ToInclude{
	ToIncludeTypeAll:  func() ToInclude { return &AllToInclude{} },
	ToIncludeTypeNone: func() ToInclude { return &NoneToInclude{} },
	ToIncludeTypeList: func() ToInclude { return &ListToInclude{} },
}

// UnmarshalToInclude decodes a toInclude spec by its "type".
func UnmarshalToInclude(data []byte) (ToInclude, error) {
	return decodeVariant(data, "toInclude", "type", toIncludeRegistry)
}
