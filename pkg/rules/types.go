package rules

// Rule maps artifacts containing Prefix to the Dest subdirectory
type Rule struct {
	Prefix string `koanf:"prefix" json:"prefix" toml:"prefix"`
	Dest   string `koanf:"dest" json:"dest" toml:"dest"`
}

// Table is an ordered rule list; order decides which rule wins
type Table []Rule

// Exclusions is a set of substrings; a path containing any of them is dropped
type Exclusions []string

// Move relocates a staged file once all artifacts of a category are copied
type Move struct {
	From string `koanf:"from" json:"from" toml:"from"`
	To   string `koanf:"to" json:"to" toml:"to"`
}

// Layout is the complete placement recipe for one artifact category
type Layout struct {
	// Root is the category root, relative to the staging directory
	Root string `koanf:"root" json:"root" toml:"root"`
	// Rules are tried in order; the first substring match wins
	Rules Table `koanf:"rules" json:"rules" toml:"rules"`
	// Exclude drops any artifact containing one of the substrings
	Exclude Exclusions `koanf:"exclude" json:"exclude" toml:"exclude"`
	// SkipSuffixes drops artifacts whose path ends with one of the suffixes
	SkipSuffixes []string `koanf:"skip_suffixes" json:"skip_suffixes" toml:"skip_suffixes"`
	// UnmatchedExclude drops artifacts that match no rule and contain one of the substrings
	UnmatchedExclude Exclusions `koanf:"unmatched_exclude" json:"unmatched_exclude" toml:"unmatched_exclude"`
	// CreateInit puts an empty package marker next to every copied file
	CreateInit bool `koanf:"create_init" json:"create_init" toml:"create_init"`
	// Moves run after the category is copied, relative to Root
	Moves []Move `koanf:"moves" json:"moves" toml:"moves"`
}

// Status tells what happens to an artifact
type Status string

const (
	StatusPlaced   Status = "placed"
	StatusExcluded Status = "excluded"
	StatusSkipped  Status = "skipped"
	StatusDropped  Status = "dropped"
)

// Resolution is the outcome of resolving one artifact path
type Resolution struct {
	Source string
	Status Status
	// Dest is the slash-separated destination relative to the staging root,
	// set only when Status is StatusPlaced
	Dest string
	// Rule is the rule that matched, nil when the artifact kept its own path
	Rule *Rule
	// Reason names the exclusion or suffix that dropped the artifact
	Reason string
}
