package analyzer

import "github.com/newswatchhq/newswatch/internal/models"

// CategoryKeywords binds one category to its trigger keywords. Order of
// CategoryKeywords entries matters: ties between categories resolve to
// the earlier entry.
type CategoryKeywords struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// defaultCategories returns the built-in category lexicon.
func defaultCategories() []CategoryKeywords {
	return []CategoryKeywords{
		{
			Category: models.CategoryMilitary,
			Keywords: []string{
				"military", "army", "troops", "soldier", "soldiers", "border", "loc",
				"ceasefire violation", "firing", "shelling", "attack", "strike", "airstrike",
				"missile", "drone", "weapon", "weapons", "defence", "defense", "war",
				"combat", "artillery", "infiltration", "terrorist", "terrorism", "militant",
			},
		},
		{
			Category: models.CategoryDiplomatic,
			Keywords: []string{
				"diplomat", "diplomatic", "diplomacy", "talks", "negotiation", "negotiations",
				"summit", "bilateral", "treaty", "agreement", "ambassador", "embassy",
				"foreign minister", "foreign ministry", "delegation", "dialogue", "mediation",
				"united nations", "sanctions", "visa", "peace process",
			},
		},
		{
			Category: models.CategoryEconomic,
			Keywords: []string{
				"trade", "economy", "economic", "export", "exports", "import", "imports",
				"tariff", "tariffs", "investment", "market", "markets", "gdp", "inflation",
				"currency", "rupee", "business", "commerce", "industry", "fiscal",
			},
		},
		{
			Category: models.CategorySocial,
			Keywords: []string{
				"culture", "cultural", "cricket", "sports", "festival", "refugee", "refugees",
				"migration", "education", "students", "tourism", "pilgrims", "pilgrimage",
				"community", "families", "wedding", "bollywood", "social media", "citizens",
			},
		},
	}
}

// defaultPriorityKeywords returns the high-priority trigger list used by
// the priority classifier. Distinct from the category lexicon.
func defaultPriorityKeywords() []string {
	return []string{
		"nuclear", "attack", "strike", "killed", "casualties", "invasion",
		"ceasefire", "missile", "airstrike", "escalation", "emergency",
		"evacuation", "mobilization", "retaliation", "hostage",
	}
}

// defaultSentimentLexicon returns the signed word polarity list. Weights
// follow the AFINN convention: -5 (most negative) to +5 (most positive).
func defaultSentimentLexicon() map[string]int {
	return map[string]int{
		// negative
		"attack": -2, "attacks": -2, "attacked": -2,
		"war": -3, "kill": -3, "killed": -3, "killing": -3,
		"dead": -3, "death": -2, "deaths": -2, "casualties": -2,
		"crisis": -3, "conflict": -2, "clash": -2, "clashes": -2,
		"threat": -2, "threats": -2, "threaten": -2, "threatened": -2,
		"violence": -3, "violent": -3, "terror": -3, "terrorist": -3, "terrorism": -3,
		"bomb": -3, "bombing": -3, "missile": -2, "strike": -2, "strikes": -2,
		"fear": -2, "fears": -2, "panic": -3, "danger": -2, "dangerous": -2,
		"escalation": -2, "escalate": -2, "tension": -2, "tensions": -2,
		"hostile": -2, "hostility": -2, "retaliation": -2, "sanctions": -1,
		"dispute": -1, "disputed": -1, "protest": -1, "protests": -1,
		"fail": -2, "failed": -2, "failure": -2, "collapse": -2,
		"warning": -1, "warns": -1, "warned": -1, "condemn": -2, "condemned": -2,
		"accuse": -1, "accused": -1, "blame": -1, "blamed": -1,
		"loss": -2, "losses": -2, "damage": -2, "destroyed": -3, "destruction": -3,
		"wounded": -2, "injured": -2, "victims": -2, "refugee": -1, "refugees": -1,
		"ban": -1, "banned": -1, "suspend": -1, "suspended": -1,
		"worst": -3, "severe": -2, "deadly": -3, "brutal": -3,

		// positive
		"peace": 3, "peaceful": 3, "agreement": 2, "agree": 2, "agreed": 2,
		"cooperation": 2, "cooperate": 2, "friendship": 3, "friendly": 2,
		"progress": 2, "success": 2, "successful": 2, "breakthrough": 3,
		"welcome": 2, "welcomed": 2, "celebrate": 3, "celebration": 3,
		"improve": 2, "improved": 2, "improvement": 2, "growth": 2,
		"support": 2, "supported": 2, "help": 2, "helped": 2, "aid": 1,
		"hope": 2, "hopeful": 2, "optimism": 2, "optimistic": 2,
		"resolve": 2, "resolved": 2, "resolution": 2, "restore": 2, "restored": 2,
		"win": 2, "winner": 2, "victory": 2, "gain": 2, "gains": 2,
		"stability": 2, "stable": 2, "calm": 2, "dialogue": 1, "talks": 1,
		"historic": 2, "landmark": 2, "strengthen": 2, "boost": 2,
	}
}
