package tarot

import "strings"

// Signs lists the twelve zodiac signs in calendar order, as offered
// by the horoscope choice keyboard.
var Signs = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// ValidSign reports whether name matches one of the twelve signs,
// case-insensitively, and returns the canonical form.
func ValidSign(name string) (string, bool) {
	for _, s := range Signs {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}
