package classify

import "strings"

// Topic labels. The stored values stay in Greek to match the rows the
// dashboard has always written; the identifiers are the English names.
const (
	TopicSolar       = "Φωτοβολταϊκά"
	TopicBatteries   = "Μπαταρίες"
	TopicHeatPumps   = "Αντλίες"
	TopicLegislation = "Νομοθεσία"
	TopicSubsidies   = "Επιδοτήσεις"
	TopicSmartHome   = "Smart_Σπίτια"
)

// Entry is one taxonomy label with its keyword list.
type Entry struct {
	Label    string
	Keywords []string
}

// Taxonomy is the fixed, ordered topic list. Order matters: Classify
// returns the first entry with any keyword match, so earlier entries
// win ties. The keyword lists include unaccented spellings and stems
// ("φωτοβολταϊκ" covers every inflection) because titles arrive in
// whatever form the source wrote them.
var Taxonomy = []Entry{
	{TopicSolar, []string{
		"φωτοβολταϊκ", "φωτοβολταικ", "pv", "solar", "ηλιακά", "ηλιακα",
		"net metering", "net billing", "αυτοπαραγωγή", "αυτοπαραγωγη",
		"πάνελ", "πανελ", "panels",
	}},
	{TopicBatteries, []string{
		"μπαταρί", "μπαταρι", "battery", "batteries",
		"αποθήκευση", "αποθηκευση", "storage",
	}},
	{TopicHeatPumps, []string{
		"αντλία", "αντλια", "αντλίες", "αντλιες", "heat pump",
		"θερμότητα", "θερμοτητα", "θέρμανση", "θερμανση", "ψύξη", "ψυξη",
	}},
	{TopicLegislation, []string{
		"νόμος", "νομος", "νομοθεσία", "νομοθεσια", "φεκ",
		"κανονισμός", "κανονισμος", "απόφαση", "αποφαση",
		"ρυθμιστικό", "ρυθμιστικο", "law", "regulation", "legislation",
	}},
	{TopicSubsidies, []string{
		"επιδότηση", "επιδοτηση", "επιδοτήσεις", "επιδοτησεις",
		"επιχορήγηση", "επιχορηγηση", "πρόγραμμα", "προγραμμα",
		"εσπα", "espa", "χρηματοδότηση", "χρηματοδοτηση",
		"subsidy", "grant", "funding",
	}},
	{TopicSmartHome, []string{
		"smart", "έξυπνο", "εξυπνο", "iot",
		"αυτοματισμός", "αυτοματισμος", "αισθητήρες", "αισθητηρες",
		"automation", "sensors",
	}},
}

// Classify maps a title to a topic label, or "" when nothing matches.
// It returns the first taxonomy entry (in declaration order) with a
// keyword present as a substring, not the best-scoring one.
func Classify(title string) string {
	t := strings.ToLower(title)
	if t == "" {
		return ""
	}
	for _, entry := range Taxonomy {
		for _, kw := range entry.Keywords {
			if strings.Contains(t, kw) {
				return entry.Label
			}
		}
	}
	return ""
}

// ClassifyQuery maps a free-text query to the topic with the most
// keyword hits. Unlike Classify this scores all entries, because a
// query sentence usually touches several; ties keep taxonomy order.
func ClassifyQuery(query string) string {
	q := strings.ToLower(query)
	if q == "" {
		return ""
	}
	best := ""
	bestCount := 0
	for _, entry := range Taxonomy {
		count := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(q, kw) {
				count++
			}
		}
		if count > bestCount {
			best = entry.Label
			bestCount = count
		}
	}
	return best
}
