package recommend

// Topic is one entry of the recommendation keyword dictionary. Phrases score
// their word count times five once when present; words score two per
// occurrence.
type Topic struct {
	Name    string
	Phrases []string
	Words   []string
}

// DefaultTopics is the dictionary used to derive item topics and the shared
// domain keywords between two items.
func DefaultTopics() []Topic {
	return []Topic{
		{
			Name:    "trading",
			Phrases: []string{"day trading", "swing trading", "options trading", "stock market", "technical analysis", "trade alerts", "price action"},
			Words:   []string{"trading", "stocks", "options", "forex", "futures", "charts", "scalping", "traders", "signals", "portfolio"},
		},
		{
			Name:    "sports betting",
			Phrases: []string{"sports betting", "betting picks", "player props", "positive ev", "bankroll management"},
			Words:   []string{"betting", "picks", "parlays", "odds", "sportsbook", "nba", "nfl", "mlb", "nhl", "ufc", "bets", "handicapper"},
		},
		{
			Name:    "crypto",
			Phrases: []string{"crypto trading", "defi yield", "nft drops", "on chain", "altcoin gems"},
			Words:   []string{"crypto", "bitcoin", "ethereum", "solana", "altcoins", "defi", "nft", "nfts", "blockchain", "web3", "memecoins"},
		},
		{
			Name:    "reselling",
			Phrases: []string{"cook group", "sneaker reselling", "buy box", "retail arbitrage", "online arbitrage"},
			Words:   []string{"resell", "reselling", "sneakers", "sneaker", "flip", "flipping", "restocks", "monitors", "pokemon", "arbitrage"},
		},
		{
			Name:    "ecommerce",
			Phrases: []string{"shopify store", "amazon fba", "print on demand", "winning products", "facebook ads"},
			Words:   []string{"dropshipping", "ecommerce", "shopify", "fba", "amazon", "etsy", "store", "products", "suppliers"},
		},
		{
			Name:    "social media",
			Phrases: []string{"content creation", "tiktok shop", "youtube automation", "grow your audience", "ugc creator"},
			Words:   []string{"tiktok", "instagram", "youtube", "twitter", "followers", "creators", "content", "viral", "influencer", "clipping"},
		},
		{
			Name:    "ai",
			Phrases: []string{"artificial intelligence", "ai tools", "ai automation", "chatgpt prompts", "no code"},
			Words:   []string{"ai", "automation", "chatgpt", "gpt", "prompts", "bots", "bot", "saas", "software"},
		},
		{
			Name:    "gaming",
			Phrases: []string{"game coaching", "rank up", "esports team"},
			Words:   []string{"gaming", "fortnite", "valorant", "minecraft", "roblox", "gamers", "esports", "twitch", "gta"},
		},
		{
			Name:    "fitness",
			Phrases: []string{"meal plan", "workout plan", "weight loss", "personal training"},
			Words:   []string{"fitness", "workout", "gym", "nutrition", "bodybuilding", "muscle", "diet", "training", "health"},
		},
		{
			Name:    "dating",
			Phrases: []string{"dating advice", "social skills", "self improvement"},
			Words:   []string{"dating", "relationships", "confidence", "attraction", "lifestyle", "mindset"},
		},
		{
			Name:    "education",
			Phrases: []string{"online course", "step by step", "video lessons", "learn how"},
			Words:   []string{"course", "courses", "mentorship", "coaching", "education", "lessons", "tutorials", "academy", "learn"},
		},
		{
			Name:    "business",
			Phrases: []string{"passive income", "side hustle", "make money online", "agency owners", "lead generation"},
			Words:   []string{"business", "agency", "entrepreneurs", "income", "marketing", "sales", "clients", "freelancing", "startup"},
		},
	}
}
