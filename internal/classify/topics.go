package classify

// SearchQueries maps each topic to the web search queries used by the
// topic-driven batch search. Only the first three per topic are run on
// a batch pass.
var SearchQueries = map[string][]string{
	TopicSolar: {
		"φωτοβολταϊκά νέα",
		"net metering ελλάδα",
		"net billing πρόγραμμα",
		"αυτοπαραγωγή ενέργειας",
		"επιδότηση φωτοβολταϊκών",
	},
	TopicHeatPumps: {
		"αντλίες θερμότητας νέα",
		"επιδότηση αντλιών θερμότητας",
		"θέρμανση ελλάδα",
		"heat pump greece",
	},
	TopicLegislation: {
		"φεκ ενέργεια",
		"νόμος ενέργειας",
		"ρυθμίσεις ενέργειας",
		"υπουργείο ενέργειας",
	},
	TopicSubsidies: {
		"επιχορήγηση ενέργεια",
		"εσπα ενέργεια",
		"πρόγραμμα επιδότησης",
		"εξοικονομώ κατ' οίκον",
	},
	TopicBatteries: {
		"αποθήκευση ενέργειας",
		"battery storage greece",
		"μπαταρίες φωτοβολταϊκών",
	},
	TopicSmartHome: {
		"έξυπνο σπίτι ενέργεια",
		"smart home greece",
		"iot εξοικονόμηση ενέργειας",
	},
}

// SearchTopics returns the topics with search queries, in taxonomy order.
func SearchTopics() []string {
	var topics []string
	for _, entry := range Taxonomy {
		if _, ok := SearchQueries[entry.Label]; ok {
			topics = append(topics, entry.Label)
		}
	}
	return topics
}
