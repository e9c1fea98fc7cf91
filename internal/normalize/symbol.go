package normalize

import (
	"regexp"
	"strings"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

// issuerCodes maps issuer name fragments (Thai names, English names,
// abbreviations) to the two-digit broker code embedded in SET DR symbols.
// It is an ordered list, not a map: entries are matched top to bottom and
// the first hit wins, which keeps overlapping fragments deterministic.
var issuerCodes = []struct {
	fragment string
	code     string
}{
	{"บัวหลวง", "01"}, {"bualuang", "01"}, {"bls", "01"},
	{"พาย", "03"}, {"pi", "03"}, {"pai", "03"},
	{"เกียรตินาคิน", "06"}, {"ภัทร", "06"}, {"kiatnakin", "06"}, {"phatra", "06"}, {"kkp", "06"},
	{"เคเจไอ", "13"}, {"kgi", "13"},
	{"หยวนต้า", "19"}, {"yuanta", "19"},
	{"อินโนเวสท์", "23"}, {"innovest", "23"}, {"scbx", "23"},
	{"กรุงไทย", "80"}, {"ktb", "80"}, {"ktbst", "80"}, {"ธนาคารกรุงไทย", "80"},
}

var (
	trailingDigits = regexp.MustCompile(`\d+$`)
	symbolPattern  = regexp.MustCompile(`^[A-Z]{2,}\d{2,}$`)
)

// IssuerCode resolves an issuer name to its two-digit broker code by
// case-insensitive substring match against the known issuer list.
func IssuerCode(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	for _, e := range issuerCodes {
		if strings.Contains(lower, e.fragment) {
			return e.code, true
		}
	}
	return "", false
}

// SynthesizeSymbol guesses the SET trading symbol of a DR from its
// underlying security name and the issuer: first token of the underlying,
// trailing digits stripped, upper-cased, suffixed with the issuer code.
// This is a heuristic, not an authoritative lookup; ok=false means no
// guess could be made.
func SynthesizeSymbol(underlying, issuer string) (string, bool) {
	underlying = strings.TrimSpace(underlying)
	if underlying == "" || underlying == model.NotFound {
		return "", false
	}
	code, ok := IssuerCode(issuer)
	if !ok {
		return "", false
	}
	ticker := strings.Fields(underlying)[0]
	ticker = trailingDigits.ReplaceAllString(strings.ToUpper(ticker), "")
	if ticker == "" {
		return "", false
	}
	return ticker + code, true
}

// ValidSymbol reports whether s looks like a SET DR symbol: two or more
// letters followed by two or more digits.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}
