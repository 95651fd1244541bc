package classifier

import (
	"regexp"
	"strings"
)

// Reference patterns found in ofício subjects and bodies: CNJ case numbers,
// OPAJ references and FNDA/DILA identifiers.
var (
	cnjRE     = regexp.MustCompile(`\d{7}-\d{2}(?:\.\d{4})?\.\d(?:\.\d{2})?\.\d{4}|\d{20}`)
	numericRE = regexp.MustCompile(`\d{6,25}`)
	opajRE    = regexp.MustCompile(`(?i)OPAJ[-–:/\s]*([0-9]+)`)
	idRE      = regexp.MustCompile(`(?i)\b(FNDA|DILA)[-–:/\s]?(\d{6,})\b`)
)

// ExtractFields pulls the case number, OPAJ and identifier out of free text.
// Missing references come back as empty strings.
func ExtractFields(text string) map[string]string {
	fields := map[string]string{
		"processo":      "",
		"opaj":          "",
		"identificador": "",
	}

	if m := cnjRE.FindString(text); m != "" {
		fields["processo"] = strings.TrimSpace(m)
	} else if m := numericRE.FindString(text); m != "" {
		fields["processo"] = strings.TrimSpace(m)
	}

	if m := opajRE.FindStringSubmatch(text); m != nil {
		fields["opaj"] = m[1]
	}

	if m := idRE.FindStringSubmatch(text); m != nil {
		fields["identificador"] = strings.ToUpper(m[1]) + "-" + m[2]
	}

	return fields
}
