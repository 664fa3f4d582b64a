package extract

import "regexp"

// Units holds the scale declared in a financial document's table headers.
// Factor converts source numbers to millions: 0.001 for "in thousands",
// 1000 for "in billions".
type Units struct {
	Factor float64
	Label  string
}

// unitPatterns are checked in priority order; first match wins.
var unitPatterns = []struct {
	re     *regexp.Regexp
	factor float64
	label  string
}{
	{regexp.MustCompile(`(?i)\(\s*in\s+thousands\s*\)`), 0.001, "thousands"},
	{regexp.MustCompile(`(?i)in\s+thousands`), 0.001, "thousands"},
	{regexp.MustCompile(`(?i)amounts\s+in\s+thousands`), 0.001, "thousands"},
	{regexp.MustCompile(`(?i)thousands\s+of\s+dollars`), 0.001, "thousands"},
	{regexp.MustCompile(`(?i)\$\s*000s?\b`), 0.001, "thousands"},
	{regexp.MustCompile(`(?i)\(\s*in\s+billions\s*\)`), 1000, "billions"},
	{regexp.MustCompile(`(?i)in\s+billions`), 1000, "billions"},
	{regexp.MustCompile(`(?i)\(\s*in\s+millions\s*\)`), 1, "millions"},
	{regexp.MustCompile(`(?i)in\s+millions`), 1, "millions"},
	{regexp.MustCompile(`(?i)amounts\s+in\s+millions`), 1, "millions"},
	{regexp.MustCompile(`(?i)millions\s+of\s+dollars`), 1, "millions"},
	{regexp.MustCompile(`(?i)\$\s*MM\b`), 1, "millions"},
}

// headerScanBytes bounds the region scanned for unit declarations; they
// appear near the top of the statements, not deep in the notes.
const headerScanBytes = 5000

// DetectUnits scans the document's header region for a unit declaration.
// Millions is assumed when nothing is declared.
func DetectUnits(text string) Units {
	region := text
	if len(region) > headerScanBytes {
		region = region[:headerScanBytes]
	}
	for _, p := range unitPatterns {
		if p.re.MatchString(region) {
			return Units{Factor: p.factor, Label: p.label}
		}
	}
	return Units{Factor: 1, Label: "millions"}
}
