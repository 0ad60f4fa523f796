package scoring

// GradeBand is one configured score range of an evaluation period.
type GradeBand struct {
	MinScore float64
	MaxScore float64
	Grade    string
}

// ResolveGrade maps a composite score onto the period's grade bands. Bands are
// checked in configured order, first match wins. Nil means the period has no
// bands configured or none matched; both are display states, not errors.
func ResolveGrade(bands []GradeBand, score float64) *string {
	for _, band := range bands {
		if score >= band.MinScore && score <= band.MaxScore {
			grade := band.Grade
			return &grade
		}
	}
	return nil
}
