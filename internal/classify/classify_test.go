package classify

import "testing"

func TestClassifySolar(t *testing.T) {
	topic := Classify("Νέο πρόγραμμα φωτοβολταϊκών")
	if topic != TopicSolar {
		t.Errorf("expected %s, got %q", TopicSolar, topic)
	}
}

func TestClassifyBatteries(t *testing.T) {
	topic := Classify("Αποθήκευση ενέργειας με νέες μπαταρίες")
	if topic != TopicBatteries {
		t.Errorf("expected %s, got %q", TopicBatteries, topic)
	}
}

func TestClassifyLegislation(t *testing.T) {
	topic := Classify("Νέο ΦΕΚ για τον ενεργειακό τομέα")
	if topic != TopicLegislation {
		t.Errorf("expected %s, got %q", TopicLegislation, topic)
	}
}

// A title hitting two entries must resolve to whichever is earlier in
// the taxonomy, regardless of how many keywords each entry matched.
func TestClassifyFirstMatchWins(t *testing.T) {
	// "πρόγραμμα" belongs to Επιδοτήσεις, "φωτοβολταϊκ" to Φωτοβολταϊκά;
	// Φωτοβολταϊκά is declared first.
	topic := Classify("Πρόγραμμα επιδότησης για φωτοβολταϊκά με χρηματοδότηση ΕΣΠΑ")
	if topic != TopicSolar {
		t.Errorf("expected first-match %s, got %q", TopicSolar, topic)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	if topic := Classify("Ποδοσφαιρικά αποτελέσματα της Κυριακής"); topic != "" {
		t.Errorf("expected empty topic, got %q", topic)
	}
	if topic := Classify(""); topic != "" {
		t.Errorf("expected empty topic for empty title, got %q", topic)
	}
}

// ClassifyQuery scores entries instead of first-matching.
func TestClassifyQueryBestCount(t *testing.T) {
	// One solar keyword, two subsidy keywords.
	topic := ClassifyQuery("επιδότηση από πρόγραμμα για solar")
	if topic != TopicSubsidies {
		t.Errorf("expected %s, got %q", TopicSubsidies, topic)
	}
}

func TestClassifyQueryNoMatch(t *testing.T) {
	if topic := ClassifyQuery("καιρός αύριο"); topic != "" {
		t.Errorf("expected empty topic, got %q", topic)
	}
}

func TestSearchTopicsOrder(t *testing.T) {
	topics := SearchTopics()
	if len(topics) != len(Taxonomy) {
		t.Fatalf("expected %d searchable topics, got %d", len(Taxonomy), len(topics))
	}
	if topics[0] != TopicSolar {
		t.Errorf("expected %s first, got %s", TopicSolar, topics[0])
	}
	for _, topic := range topics {
		if len(SearchQueries[topic]) < 3 {
			t.Errorf("topic %s needs at least 3 search queries", topic)
		}
	}
}
