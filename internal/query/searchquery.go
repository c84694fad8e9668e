package query

// SearchQuerySpec is the predicate a search query or search filter matches
// dimension values against.
type SearchQuerySpec interface {
	Component
	searchQuerySpecNode()
}

// Search query spec discriminators. The family uses snake_case literals.
const (
	SearchTypeInsensitiveContains = "insensitive_contains"
	SearchTypeFragment            = "fragment"
	SearchTypeContains            = "contains"
	SearchTypeRegex               = "regex"
)

// InsensitiveContainsSearch matches values containing Value, ignoring case.
type InsensitiveContainsSearch struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func NewInsensitiveContainsSearch(value string) *InsensitiveContainsSearch {
	return &InsensitiveContainsSearch{Type: SearchTypeInsensitiveContains, Value: value}
}

func (*InsensitiveContainsSearch) searchQuerySpecNode() {}

func (s *InsensitiveContainsSearch) ValidateType() bool {
	return s.Type == SearchTypeInsensitiveContains
}

func (*InsensitiveContainsSearch) ValidateSubcomponents() bool { return true }

// FragmentSearch matches values containing all of Values.
type FragmentSearch struct {
	Type          string   `json:"type"`
	CaseSensitive bool     `json:"caseSensitive"`
	Values        []string `json:"values"`
}

func NewFragmentSearch(caseSensitive bool, values ...string) *FragmentSearch {
	return &FragmentSearch{Type: SearchTypeFragment, CaseSensitive: caseSensitive, Values: values}
}

func (*FragmentSearch) searchQuerySpecNode() {}

func (s *FragmentSearch) ValidateType() bool { return s.Type == SearchTypeFragment }

func (*FragmentSearch) ValidateSubcomponents() bool { return true }

// ContainsSearch matches values containing Value.
type ContainsSearch struct {
	Type          string `json:"type"`
	CaseSensitive bool   `json:"caseSensitive"`
	Value         string `json:"value"`
}

func NewContainsSearch(caseSensitive bool, value string) *ContainsSearch {
	return &ContainsSearch{Type: SearchTypeContains, CaseSensitive: caseSensitive, Value: value}
}

func (*ContainsSearch) searchQuerySpecNode() {}

func (s *ContainsSearch) ValidateType() bool { return s.Type == SearchTypeContains }

func (*ContainsSearch) ValidateSubcomponents() bool { return true }

// RegexSearch matches values against a Java regular expression.
type RegexSearch struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
}

func NewRegexSearch(pattern string) *RegexSearch {
	return &RegexSearch{Type: SearchTypeRegex, Pattern: pattern}
}

func (*RegexSearch) searchQuerySpecNode() {}

func (s *RegexSearch) ValidateType() bool { return s.Type == SearchTypeRegex }

func (*RegexSearch) ValidateSubcomponents() bool { return true }

var searchQuerySpecRegistry = map[string]func() SearchQuerySpec{
	SearchTypeInsensitiveContains: func() SearchQuerySpec { return &InsensitiveContainsSearch{} },
	SearchTypeFragment:            func() SearchQuerySpec { return &FragmentSearch{} },
	SearchTypeContains:            func() SearchQuerySpec { return &ContainsSearch{} },
	SearchTypeRegex:               func() SearchQuerySpec { return &RegexSearch{} },
}

// UnmarshalSearchQuerySpec decodes a search query spec by its "type".
func UnmarshalSearchQuerySpec(data []byte) (SearchQuerySpec, error) {
	return decodeVariant(data, "search query spec", "type", searchQuerySpecRegistry)
}

// SearchSortSpec orders search hits.
type SearchSortSpec struct {
	Type Sort `json:"type"`
}

func NewSearchSortSpec(sort Sort) *SearchSortSpec {
	return &SearchSortSpec{Type: sort}
}

func (s *SearchSortSpec) ValidateType() bool        { return sorts.known(s.Type) }
func (*SearchSortSpec) ValidateSubcomponents() bool { return true }
