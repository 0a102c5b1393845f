package recommendation

// Strategy names a scoring strategy.
type Strategy string

// Strategy constants.
const (
	Genre         Strategy = "genre"
	Tag           Strategy = "tag"
	Collaborative Strategy = "collaborative"
	Genome        Strategy = "genome-scores"
	Hybrid        Strategy = "hybrid"
)

// Strategies lists every supported strategy in hybrid aggregation order, hybrid last.
func Strategies() []Strategy {
	return []Strategy{Genre, Tag, Collaborative, Genome, Hybrid}
}

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	switch s {
	case Genre, Tag, Collaborative, Genome, Hybrid:
		return true
	}
	return false
}
