package progress

// Band classifies a day's progress for display coloring.
type Band string

const (
	BandNone     Band = "none"
	BandMinimal  Band = "minimal"
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandStrong   Band = "strong"
	BandExceeded Band = "exceeded"
)

// BandFor classifies a percentage. Days without data are BandNone; a day
// with data is at least BandMinimal, so "no data" and "little progress"
// stay distinct.
func BandFor(p float64, hasData bool) Band {
	switch {
	case !hasData:
		return BandNone
	case p >= 100:
		return BandExceeded
	case p >= 75:
		return BandStrong
	case p >= 50:
		return BandModerate
	case p >= 25:
		return BandLow
	default:
		return BandMinimal
	}
}

// Bands lists every band from lowest to highest.
func Bands() []Band {
	return []Band{BandNone, BandMinimal, BandLow, BandModerate, BandStrong, BandExceeded}
}
