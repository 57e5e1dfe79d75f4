package mastery

// Band is the coarse mastery classification reported alongside the numeric
// score.
type Band string

const (
	BandIntroduced  Band = "introduced"
	BandDeveloping  Band = "developing"
	BandProgressing Band = "progressing"
	BandProficient  Band = "proficient"
	BandMastered    Band = "mastered"
)

// BandForLevel maps a 0-100 mastery level onto its band.
func BandForLevel(level int) Band {
	switch {
	case level <= 20:
		return BandIntroduced
	case level <= 40:
		return BandDeveloping
	case level <= 60:
		return BandProgressing
	case level <= 80:
		return BandProficient
	default:
		return BandMastered
	}
}

// Label returns a human-readable name for the band.
func (b Band) Label() string {
	switch b {
	case BandIntroduced:
		return "Introduced"
	case BandDeveloping:
		return "Developing"
	case BandProgressing:
		return "Progressing"
	case BandProficient:
		return "Proficient"
	case BandMastered:
		return "Mastered"
	default:
		return "Unknown"
	}
}
