package taxonomy

import "regexp"

// Category labels.
const (
	SportsBetting = "Sports Betting"
	Trading       = "Trading"
	Crypto        = "Crypto"
	Reselling     = "Reselling"
	ECommerce     = "E-Commerce"
	SocialMedia   = "Social Media"
	AIAutomation  = "AI & Automation"
	Gaming        = "Gaming"
	Fitness       = "Fitness"
	DatingLife    = "Dating & Lifestyle"
	Education     = "Education"
	Careers       = "Careers"
	Business      = "Business"
)

// defaultCategories is evaluated top to bottom. Betting and trading come
// before the generic business and careers buckets.
func defaultCategories() []Category {
	return []Category{
		{
			Label: SportsBetting,
			Primary: []string{
				"sports betting", "betting", "bets", "picks", "parlay", "parlays",
				"sportsbook", "handicapper", "capper", "cappers", "props", "player props", "odds",
			},
			Supporting: []string{
				"nba", "nfl", "mlb", "nhl", "ufc", "soccer", "units", "bankroll",
				"roi", "discord", "plays", "winning", "daily", "locks",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bsports\s*betting\b`),
				regexp.MustCompile(`\bsportsbooks?\b`),
				regexp.MustCompile(`\bparlays?\b`),
				regexp.MustCompile(`\b(?:nba|nfl|mlb|nhl|ufc)\s+(?:picks|bets|props)\b`),
			},
		},
		{
			Label: Trading,
			Primary: []string{
				"trading", "trader", "traders", "stocks", "options", "forex", "futures",
				"day trading", "swing trading", "scalping", "trade alerts", "chart", "charts",
				"technical analysis",
			},
			Supporting: []string{
				"alerts", "market", "markets", "portfolio", "spy", "entries", "exits",
				"watchlist", "discord", "strategy", "indicators", "profit", "signals",
			},
			Exclusions: []string{"trading cards", "card trading"},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\b(?:day|swing|options|forex|futures)\s+trad(?:ing|ers?)\b`),
				regexp.MustCompile(`\btrade\s+alerts?\b`),
			},
		},
		{
			Label: Crypto,
			Primary: []string{
				"crypto", "cryptocurrency", "bitcoin", "btc", "ethereum", "eth", "solana",
				"altcoin", "altcoins", "nft", "nfts", "defi", "web3", "airdrop", "airdrops",
				"memecoin", "memecoins",
			},
			Supporting: []string{
				"wallet", "blockchain", "token", "tokens", "coins", "degen", "alpha",
				"discord", "calls", "launches", "signals",
			},
			Exclusions: []string{"casino"},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bmeme\s*coins?\b`),
				regexp.MustCompile(`\bairdrops?\b`),
			},
		},
		{
			Label: Reselling,
			Primary: []string{
				"reselling", "resell", "reseller", "resellers", "sneakers", "sneaker",
				"flipping", "flip", "cook group", "cook groups", "retail arbitrage",
				"online arbitrage", "amazon fba", "fba", "buy box", "restock", "restocks",
			},
			Supporting: []string{
				"monitors", "profit", "pokemon", "cards", "nike", "supreme", "ebay",
				"stockx", "discord", "deals", "leads",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bcook\s*groups?\b`),
				regexp.MustCompile(`\b(?:retail|online)\s+arbitrage\b`),
				regexp.MustCompile(`\bamazon\s+fba\b`),
			},
		},
		{
			Label: ECommerce,
			Primary: []string{
				"ecommerce", "e commerce", "dropshipping", "dropship", "shopify",
				"online store", "print on demand", "product research", "winning products",
			},
			Supporting: []string{
				"store", "ads", "facebook ads", "suppliers", "aliexpress", "brand",
				"sales", "conversion", "customers",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bdrop\s*shipping\b`),
				regexp.MustCompile(`\bshopify\s+stores?\b`),
			},
		},
		{
			Label: SocialMedia,
			Primary: []string{
				"tiktok", "youtube", "instagram", "content creation", "content creator",
				"creators", "ugc", "followers", "viral", "clipping", "faceless", "influencer",
			},
			Supporting: []string{
				"views", "growth", "monetize", "monetization", "audience", "brand deals",
				"editing", "reels", "shorts", "algorithm", "tiktok shop",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\btiktok\s+(?:shop|affiliate|creativity)\b`),
				regexp.MustCompile(`\bfaceless\s+(?:channels?|youtube|tiktok)\b`),
				regexp.MustCompile(`\bugc\b`),
			},
		},
		{
			Label: AIAutomation,
			Primary: []string{
				"ai", "chatgpt", "gpt", "automation", "bot", "bots", "software", "saas",
				"tool", "tools", "agent", "agents", "prompts",
			},
			Supporting: []string{
				"workflow", "api", "code", "no code", "automate", "generate",
				"productivity", "chrome extension",
			},
			Exclusions: []string{"sneaker", "cook group"},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bai\s+(?:tools?|agents?|automation)\b`),
				regexp.MustCompile(`\bchat\s*gpt\b`),
			},
		},
		{
			Label: Gaming,
			Primary: []string{
				"gaming", "gamer", "gamers", "game", "games", "fortnite", "valorant",
				"minecraft", "roblox", "esports", "call of duty",
			},
			Supporting: []string{
				"rank", "ranked", "tournament", "stream", "twitch", "discord", "coaching", "clips",
			},
			Exclusions: []string{"gambling", "casino"},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\b(?:fortnite|valorant|minecraft|roblox)\b`),
			},
		},
		{
			Label: Fitness,
			Primary: []string{
				"fitness", "workout", "workouts", "gym", "training program", "nutrition",
				"meal plan", "weight loss", "muscle", "bodybuilding", "diet",
			},
			Supporting: []string{
				"coach", "coaching", "program", "health", "calories", "strength", "transformation",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\b(?:meal|workout)\s+plans?\b`),
				regexp.MustCompile(`\bweight\s+loss\b`),
			},
		},
		{
			Label: DatingLife,
			Primary: []string{
				"dating", "relationships", "attraction", "texting", "self improvement",
				"mindset", "lifestyle", "confidence", "spirituality", "manifestation",
			},
			Supporting: []string{
				"coaching", "habits", "motivation", "men", "women", "social skills",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bdating\s+(?:coach|advice|apps?)\b`),
			},
			MinimumMatches: 2,
		},
		{
			Label: Education,
			Primary: []string{
				"course", "courses", "masterclass", "learn", "tutoring", "lessons",
				"academy", "mentorship", "bootcamp", "curriculum",
			},
			Supporting: []string{
				"students", "modules", "videos", "certificate", "step by step", "beginners",
			},
			MinimumMatches: 2,
		},
		{
			Label: Careers,
			Primary: []string{
				"career", "careers", "jobs", "job", "resume", "interview", "interviews",
				"hiring", "internship", "freelancing", "freelance", "remote work", "salary",
			},
			Supporting: []string{
				"linkedin", "clients", "upwork", "skills", "portfolio", "recruiter", "income",
			},
			Exclusions: []string{"trading"},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bremote\s+jobs?\b`),
				regexp.MustCompile(`\bresume\s+(?:reviews?|templates?)\b`),
			},
		},
		{
			Label: Business,
			Primary: []string{
				"business", "agency", "agencies", "marketing", "entrepreneur", "entrepreneurs",
				"startup", "sales", "clients", "lead generation", "smma", "consulting",
				"affiliate marketing", "affiliate",
			},
			Supporting: []string{
				"revenue", "scale", "growth", "income", "strategy", "coaching",
				"mentorship", "networking", "profit", "community",
			},
			StrongIndicators: []*regexp.Regexp{
				regexp.MustCompile(`\bsmma\b`),
				regexp.MustCompile(`\blead\s+generation\b`),
				regexp.MustCompile(`\baffiliate\s+marketing\b`),
			},
			MinimumMatches: 2,
		},
	}
}
