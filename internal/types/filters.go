package types

// FilterConfig holds the run-wide filter settings. It is read-only once a run starts.
type FilterConfig struct {
	HoursLimit      int      `json:"hours_limit" yaml:"hours_limit" validate:"gt=0"`
	Keywords        []string `json:"keywords" yaml:"keywords"`
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords"`
}

// LocationLists holds extra location tokens appended to the built-in classifier lists.
type LocationLists struct {
	NonUSA []string `json:"non_usa,omitempty" yaml:"non_usa,omitempty"`
	USA    []string `json:"usa,omitempty" yaml:"usa,omitempty"`
}
