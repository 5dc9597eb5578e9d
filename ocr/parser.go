package ocr

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Longest values the order table can hold. Anything longer is misread text
// run together and is treated as absent.
const (
	MaxCustomerLen  = 160
	MaxAddressLen   = 255
	MaxReferenceLen = 80
)

// OrderDraft is what could be read off a scanned load document. A nil field
// means the text did not say, or said it in more than one way.
type OrderDraft struct {
	Customer      *string    `json:"customer"`
	Origin        *string    `json:"origin"`
	Destination   *string    `json:"destination"`
	PickupStart   *time.Time `json:"pickupStart"`
	PickupEnd     *time.Time `json:"pickupEnd"`
	DeliveryStart *time.Time `json:"deliveryStart"`
	DeliveryEnd   *time.Time `json:"deliveryEnd"`
	TruckType     *string    `json:"truckType"`
	Reference     *string    `json:"reference"`
	Notes         *string    `json:"notes"`
}

// Window is an appointment. End is nil for an open-ended appointment.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// ParseOrder runs every field extractor over text.
func ParseOrder(text string) OrderDraft {
	pickup := ExtractPickupWindow(text)
	delivery := ExtractDeliveryWindow(text)
	return OrderDraft{
		Customer:      ExtractCustomer(text),
		Origin:        ExtractOrigin(text),
		Destination:   ExtractDestination(text),
		PickupStart:   pickup.Start,
		PickupEnd:     pickup.End,
		DeliveryStart: delivery.Start,
		DeliveryEnd:   delivery.End,
		TruckType:     ExtractTruckType(text),
		Reference:     ExtractReference(text),
		Notes:         ExtractNotes(text),
	}
}

var (
	customerLabel    = newLabel(`customer(?:\s+name)?`, `bill(?:ed)?\s*to`, `shipper`, `client`, `broker`)
	originLabel      = newLabel(`ship\s*from`, `origin`, `pick\s*-?\s*up\s+(?:address|location|at)`, `shipper\s+address`)
	destinationLabel = newLabel(`ship\s*to`, `consignee`, `destination`, `deliver\s+to`, `delivery\s+(?:address|location)`, `receiver`)
	pickupLabel      = newLabel(`pick\s*-?\s*up(?:\s+(?:date|time|window|appt\.?|appointment))?`, `ship\s+date`, `load\s+date`)
	deliveryLabel    = newLabel(`deliver(?:y)?(?:\s+(?:date|time|window|appt\.?|appointment|by))?`, `due\s+date`, `eta`)
	truckLabel       = newLabel(`equipment(?:\s+type)?`, `truck(?:\s*type)?`, `trailer(?:\s+type)?`)
	notesLabel       = newLabel(`notes?`, `comments?`, `remarks`, `special\s+instructions`, `instructions`)

	// labelLike is any "Word words:" prefix; digits are excluded so times such
	// as "08:00" and dates such as "Mar 5 2024 08:00" do not count.
	labelLike = regexp.MustCompile(`^\s*[A-Za-z][A-Za-z .#/&()'-]{0,40}:`)

	referencePattern = regexp.MustCompile(`(?i)\b(?:reference|ref|load|po|p\.o\.|pro|bol|order|confirmation|conf)\s*(?:no\.?|number|#)?\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9/-]*)`)
)

type label struct {
	inline *regexp.Regexp
	alone  *regexp.Regexp
}

func newLabel(names ...string) label {
	alt := strings.Join(names, "|")
	return label{
		inline: regexp.MustCompile(`(?i)^\s*(?:` + alt + `)\s*:\s*(\S.*?)\s*$`),
		alone:  regexp.MustCompile(`(?i)^\s*(?:` + alt + `)\s*:?\s*$`),
	}
}

// values returns every value given for the label, in document order. A label
// on a line of its own takes up to follow lines below it, stopping at a blank
// or labelled line; those lines are joined with ", ".
func (l label) values(lines []string, follow int) []string {
	var out []string
	for i, line := range lines {
		if m := l.inline.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
			continue
		}
		if !l.alone.MatchString(line) {
			continue
		}
		var parts []string
		for j := i + 1; j < len(lines) && len(parts) < follow; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || labelLike.MatchString(next) {
				break
			}
			parts = append(parts, next)
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, ", "))
		}
	}
	return out
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// single returns the only distinct value (compared case-insensitively), or nil
// when there is none, more than one, or the value is longer than maxLen runes.
func single(values []string, maxLen int) *string {
	var picked string
	seen := make(map[string]bool)
	for _, v := range values {
		v = collapseSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		picked = v
	}
	if len(seen) != 1 || utf8.RuneCountInString(picked) > maxLen {
		return nil
	}
	return &picked
}

func withoutDates(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if len(findDates(v)) == 0 {
			out = append(out, v)
		}
	}
	return out
}

func ExtractCustomer(text string) *string {
	return single(withoutDates(customerLabel.values(splitLines(text), 1)), MaxCustomerLen)
}

func ExtractOrigin(text string) *string {
	return single(withoutDates(originLabel.values(splitLines(text), 3)), MaxAddressLen)
}

func ExtractDestination(text string) *string {
	return single(withoutDates(destinationLabel.values(splitLines(text), 3)), MaxAddressLen)
}

func ExtractPickupWindow(text string) Window {
	return extractWindow(text, pickupLabel)
}

func ExtractDeliveryWindow(text string) Window {
	return extractWindow(text, deliveryLabel)
}

func extractWindow(text string, l label) Window {
	var found []Window
	for _, v := range l.values(splitLines(text), 1) {
		w, ok := windowFrom(v)
		if !ok {
			continue
		}
		dup := false
		for _, f := range found {
			if sameTime(f.Start, w.Start) && sameTime(f.End, w.End) {
				dup = true
				break
			}
		}
		if !dup {
			found = append(found, w)
		}
	}
	if len(found) != 1 {
		return Window{}
	}
	return found[0]
}

// Truck types, most specific first. Each match is blanked out before the next
// pattern runs so "reefer van" does not also count as a van. A plain "van"
// only counts under an equipment label, see bareVan.
var truckTypes = []struct {
	name string
	re   *regexp.Regexp
}{
	{"reefer", regexp.MustCompile(`(?i)\b(?:reefer|refrigerated|temp(?:erature)?[\s-]*controlled)(?:\s+(?:van|trailer|truck))?\b`)},
	{"flatbed", regexp.MustCompile(`(?i)\bflat[\s-]*bed(?:\s+trailer)?\b`)},
	{"step_deck", regexp.MustCompile(`(?i)\b(?:step|drop)[\s-]*deck\b`)},
	{"box_truck", regexp.MustCompile(`(?i)\b(?:box|straight)[\s-]*truck\b`)},
	{"power_only", regexp.MustCompile(`(?i)\bpower[\s-]*only\b`)},
	{"tanker", regexp.MustCompile(`(?i)\btanker\b`)},
	{"dry_van", regexp.MustCompile(`(?i)\b(?:dry[\s-]*van|\d{2}\s*(?:'|ft\b\.?|foot\b|feet\b)\s*van)\b`)},
}

// bareVan is too common in street and company names ("Van Buren St") to trust
// outside a label.
var bareVan = regexp.MustCompile(`(?i)\bvan\b`)

func truckTypesIn(s string, labelled bool) []string {
	var out []string
	for _, tt := range truckTypes {
		if !tt.re.MatchString(s) {
			continue
		}
		out = append(out, tt.name)
		s = tt.re.ReplaceAllStringFunc(s, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
	}
	if labelled && bareVan.MatchString(s) && !contains(out, "dry_van") {
		out = append(out, "dry_van")
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ExtractTruckType prefers what an equipment/trailer label says. Without one it
// falls back to the whole text, which must then mention exactly one type by an
// unambiguous name.
func ExtractTruckType(text string) *string {
	labelled := make(map[string]bool)
	var name string
	for _, v := range truckLabel.values(splitLines(text), 1) {
		for _, t := range truckTypesIn(v, true) {
			labelled[t] = true
			name = t
		}
	}
	switch len(labelled) {
	case 0:
	case 1:
		return &name
	default:
		return nil
	}

	found := truckTypesIn(text, false)
	if len(found) != 1 {
		return nil
	}
	return &found[0]
}

// ExtractReference reads load/PO/BOL style numbers. A candidate must contain a
// digit.
func ExtractReference(text string) *string {
	var values []string
	for _, m := range referencePattern.FindAllStringSubmatch(text, -1) {
		v := strings.TrimRight(m[1], "-/")
		if strings.IndexFunc(v, unicode.IsDigit) >= 0 {
			values = append(values, v)
		}
	}
	return single(values, MaxReferenceLen)
}

// ExtractNotes joins every distinct note in document order.
func ExtractNotes(text string) *string {
	var notes []string
	seen := make(map[string]bool)
	for _, v := range notesLabel.values(splitLines(text), 5) {
		v = collapseSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		notes = append(notes, v)
	}
	if len(notes) == 0 {
		return nil
	}
	joined := strings.Join(notes, "\n")
	return &joined
}
