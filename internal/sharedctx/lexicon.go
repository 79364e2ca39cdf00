package sharedctx

type theme struct {
	name     string
	keywords []string
}

var themeLexicon = []theme{
	{"environment", []string{"climate", "environment", "pollution", "emission", "carbon", "warming", "recycl", "renewable", "ecosystem", "species", "forest", "wildlife", "sustainab"}},
	{"technology", []string{"technology", "digital", "internet", "software", "computer", "smartphone", "artificial", "robot", "data", "online", "device", "algorithm"}},
	{"health", []string{"health", "disease", "doctor", "hospital", "medicine", "patient", "exercise", "diet", "illness", "vaccine", "mental", "sleep"}},
	{"business", []string{"business", "company", "market", "economy", "economic", "profit", "customer", "investment", "employee", "startup", "finance", "trade"}},
	{"travel", []string{"travel", "tourist", "tourism", "flight", "hotel", "airport", "journey", "destination", "passport", "luggage", "trip", "holiday"}},
	{"education", []string{"school", "student", "teacher", "university", "education", "learning", "classroom", "exam", "lesson", "course", "study"}},
	{"food", []string{"food", "cooking", "recipe", "restaurant", "meal", "kitchen", "ingredient", "vegetable", "dinner", "breakfast", "chef"}},
	{"culture", []string{"culture", "cultural", "music", "film", "museum", "festival", "tradition", "literature", "artist", "painting", "theatre", "heritage"}},
	{"sport", []string{"sport", "football", "athlete", "team", "match", "olympic", "tournament", "player", "coach", "championship", "fitness"}},
	{"science", []string{"science", "scientist", "research", "experiment", "laboratory", "discovery", "physics", "biology", "chemistry", "space", "planet", "study"}},
	{"politics", []string{"government", "election", "policy", "politician", "parliament", "minister", "vote", "president", "democracy", "law", "campaign"}},
	{"society", []string{"community", "society", "social", "family", "poverty", "inequality", "housing", "immigration", "population", "city", "urban", "volunteer"}},
}

var stopwords = toSet(
	"about", "above", "after", "again", "against", "also", "although", "among", "another", "around",
	"because", "been", "before", "being", "below", "between", "both", "came", "cannot", "could",
	"does", "doing", "down", "during", "each", "either", "else", "even", "ever", "every",
	"from", "further", "gets", "give", "goes", "going", "gone", "have", "having", "here",
	"hers", "herself", "himself", "however", "into", "itself", "just", "know", "like", "made",
	"make", "many", "might", "more", "most", "much", "must", "myself", "near", "need",
	"never", "next", "once", "only", "other", "others", "ours", "ourselves", "over", "own",
	"perhaps", "quite", "rather", "really", "said", "same", "says", "seem", "seems", "should",
	"since", "some", "something", "still", "such", "take", "than", "that", "their", "theirs",
	"them", "themselves", "then", "there", "therefore", "these", "they", "thing", "things", "this",
	"those", "though", "through", "thus", "together", "too", "under", "until", "upon", "very",
	"want", "were", "what", "when", "where", "whether", "which", "while", "whom", "whose",
	"will", "with", "within", "without", "would", "year", "years", "your", "yours", "yourself",
	"yourselves", "according", "already", "always", "anyone", "anything", "became", "become",
	"come", "done", "enough", "first", "good", "great", "less", "little", "long", "look",
	"lots", "mostly", "people", "place", "put", "several", "sometimes", "soon", "sure", "tell",
	"used", "using", "well", "went", "will", "work", "able", "part", "last", "high", "says",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
