package graph

// Default returns the mobile-home sales funnel shipped with the service.
// The graph opens with rapport-building questions, branches on the land
// situation, converges on home requirements and financing, and ends at a
// hot or warm result screen.
func Default() (*Graph, error) {
	return New("start", defaultNodes(), defaultProgress())
}

func defaultNodes() map[string]*Node {
	nodes := []*Node{
		{
			ID:          "start",
			Kind:        KindQuestion,
			Category:    "connection",
			Headline:    "Hey there! So you're thinking about making a move into a new mobile home?",
			Subheadline: "Let's have a quick chat to see how we can help you find exactly what you're looking for.",
			Answers: []Answer{
				{ID: "yes-exploring", Text: "Yes, I'm exploring my options", Subtext: "Just starting to look around", Icon: "🔍", NextNodeID: "motivation", Score: 5, Tags: []string{"exploring"}},
				{ID: "yes-serious", Text: "Absolutely, I'm ready to make this happen", Subtext: "I've been thinking about this for a while", Icon: "🎯", NextNodeID: "motivation", Score: 15, Tags: []string{"serious-buyer"}},
				{ID: "just-curious", Text: "I'm just curious about pricing", Subtext: "Want to see what's out there", Icon: "💭", NextNodeID: "motivation", Score: 2, Tags: []string{"price-shopping"}},
			},
		},
		{
			ID:          "motivation",
			Kind:        KindQuestion,
			Category:    "problem",
			Headline:    "What's driving you to look at mobile homes right now?",
			Subheadline: "Understanding your 'why' helps us point you in the right direction.",
			Answers: []Answer{
				{ID: "first-home", Text: "Looking to own my first home", Subtext: "Ready to stop renting", Icon: "🏠", NextNodeID: "timeline", Score: 15, Tags: []string{"first-time-buyer", "renter"}},
				{ID: "downsize", Text: "Want to downsize and simplify", Subtext: "Less space, less stress", Icon: "📦", NextNodeID: "timeline", Score: 15, Tags: []string{"downsizing", "equity-likely"}},
				{ID: "investment", Text: "Looking for an investment property", Subtext: "Rental income or land development", Icon: "📈", NextNodeID: "timeline", Score: 20, Tags: []string{"investor", "cash-likely"}},
				{ID: "upgrade", Text: "Upgrading from my current mobile home", Subtext: "Time for something newer", Icon: "⬆️", NextNodeID: "timeline", Score: 20, Tags: []string{"upgrade", "experienced-buyer"}},
				{ID: "life-change", Text: "Going through a life change", Subtext: "Divorce, retirement, relocation", Icon: "🔄", NextNodeID: "timeline", Score: 15, Tags: []string{"life-change", "motivated"}},
			},
		},
		{
			ID:          "timeline",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "When are you hoping to be in your new home?",
			Subheadline: "This helps us understand what options make the most sense for you.",
			Answers: []Answer{
				{ID: "asap", Text: "As soon as possible", Subtext: "I'm ready to move quickly", Icon: "🚀", NextNodeID: "first-name-capture", Score: 25, Tags: []string{"urgent", "hot-lead"}},
				{ID: "1-3-months", Text: "Within the next 1-3 months", Subtext: "Have some things to wrap up first", Icon: "📅", NextNodeID: "first-name-capture", Score: 20, Tags: []string{"near-term"}},
				{ID: "3-6-months", Text: "In 3-6 months", Subtext: "Planning ahead", Icon: "🗓️", NextNodeID: "first-name-capture", Score: 10, Tags: []string{"planning"}},
				{ID: "not-sure", Text: "Not sure yet, just researching", Subtext: "Gathering information", Icon: "🤔", NextNodeID: "first-name-capture", Score: 3, Tags: []string{"researcher"}},
			},
		},
		{
			ID:          "first-name-capture",
			Kind:        KindLeadCapture,
			Headline:    "Love it! I want to make sure I'm giving you the right info.",
			Subheadline: "What should I call you?",
			LeadFields:  []string{FieldFirstName},
			NextNodeID:  "land-situation",
		},
		{
			ID:          "land-situation",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "Alright {{firstName}}, here's a big question...",
			Subheadline: "Do you already have land where you'd place the home?",
			Answers: []Answer{
				{ID: "have-land", Text: "Yes, I have land ready", Subtext: "I own property to place the home on", Icon: "🏞️", NextNodeID: "land-utilities", Score: 20, Tags: []string{"has-land"}},
				{ID: "buying-land", Text: "I'm looking to buy land too", Subtext: "Need both the home and property", Icon: "🔎", NextNodeID: "land-with-home", Score: 15, Tags: []string{"needs-land", "land-buyer"}},
				{ID: "community", Text: "I'd prefer a mobile home community", Subtext: "Interested in community living", Icon: "🏘️", NextNodeID: "community-awareness", Score: 15, Tags: []string{"community-interest"}},
				{ID: "not-sure-land", Text: "Not sure yet - what are my options?", Subtext: "Help me understand", Icon: "❓", NextNodeID: "land-education", Score: 10, Tags: []string{"needs-education"}},
			},
		},
		{
			ID:          "land-utilities",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "Nice! Having your own land is a great advantage.",
			Subheadline: "What's the utility situation on your property?",
			Answers: []Answer{
				{ID: "all-utilities", Text: "All utilities are there", Subtext: "Water, electric, and septic/sewer ready", Icon: "✅", NextNodeID: "home-size", Score: 20, Tags: []string{"utilities-ready", "move-in-ready-land"}},
				{ID: "some-utilities", Text: "Some utilities, not all", Subtext: "Partially developed", Icon: "⚡", NextNodeID: "land-work-needed", Score: 15, Tags: []string{"partial-utilities"}},
				{ID: "raw-land", Text: "It's raw land - nothing yet", Subtext: "Will need development work", Icon: "🌲", NextNodeID: "land-work-needed", Score: 10, Tags: []string{"raw-land", "development-needed"}},
				{ID: "not-sure-utilities", Text: "I'm not entirely sure", Subtext: "Need to find out", Icon: "🤷", NextNodeID: "land-work-needed", Score: 5, Tags: []string{"uncertain-utilities"}},
			},
		},
		{
			ID:          "land-work-needed",
			Kind:        KindTransition,
			Headline:    "Good to know! Land prep can sometimes add costs, but it's totally doable.",
			Subheadline: "We work with people in all stages of land development. The key is planning it right from the start.",
			NextNodeID:  "home-size",
		},
		{
			ID:          "land-with-home",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "Land + home packages can be a great option!",
			Subheadline: "What kind of area are you looking at?",
			Answers: []Answer{
				{ID: "rural", Text: "Rural - want some space and privacy", Subtext: "Acreage, room to breathe", Icon: "🌾", NextNodeID: "acreage-preference", Score: 15, Tags: []string{"rural", "privacy-seeker"}},
				{ID: "suburban", Text: "Suburban - close to town amenities", Subtext: "Balance of space and convenience", Icon: "🏡", NextNodeID: "home-size", Score: 15, Tags: []string{"suburban"}},
				{ID: "flexible-location", Text: "I'm flexible on location", Subtext: "Open to options", Icon: "📍", NextNodeID: "home-size", Score: 10, Tags: []string{"flexible"}},
			},
		},
		{
			ID:          "acreage-preference",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "Love the country living mindset!",
			Subheadline: "How much land are you thinking?",
			Answers: []Answer{
				{ID: "under-1-acre", Text: "Under 1 acre", Subtext: "Just enough for the home and yard", Icon: "🏠", NextNodeID: "home-size", Score: 10, Tags: []string{"small-lot"}},
				{ID: "1-5-acres", Text: "1-5 acres", Subtext: "Room for gardens, animals, projects", Icon: "🌳", NextNodeID: "home-size", Score: 15, Tags: []string{"medium-acreage"}},
				{ID: "5-plus-acres", Text: "5+ acres", Subtext: "Real elbow room", Icon: "🏔️", NextNodeID: "home-size", Score: 15, Tags: []string{"large-acreage"}},
			},
		},
		{
			ID:          "community-awareness",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "Communities can be a great choice!",
			Subheadline: "Are you familiar with how lot rent works?",
			Answers: []Answer{
				{ID: "know-lot-rent", Text: "Yes, I understand lot rent", Subtext: "I know I'd pay monthly for the space", Icon: "👍", NextNodeID: "community-preferences", Score: 15, Tags: []string{"understands-lot-rent"}},
				{ID: "some-idea", Text: "I have a general idea", Subtext: "But could use more clarity", Icon: "🤔", NextNodeID: "lot-rent-education", Score: 10, Tags: []string{"needs-lot-rent-info"}},
				{ID: "no-idea-rent", Text: "No, tell me more", Subtext: "I'm not sure how it works", Icon: "📚", NextNodeID: "lot-rent-education", Score: 5, Tags: []string{"needs-education"}},
			},
		},
		{
			ID:          "lot-rent-education",
			Kind:        KindTransition,
			Headline:    "Great question! Here's the deal with lot rent...",
			Subheadline: "You own your home, but lease the land it sits on - typically $300-$800/month depending on the community. You get amenities, maintenance-free living, and often a sense of community. It's kind of like a condo fee, but for your lot.",
			NextNodeID:  "community-preferences",
		},
		{
			ID:          "community-preferences",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "What matters most to you in a community?",
			Subheadline: "This helps us match you with the right fit.",
			Answers: []Answer{
				{ID: "amenities", Text: "Amenities & activities", Subtext: "Pool, clubhouse, social events", Icon: "🏊", NextNodeID: "home-size", Score: 10, Tags: []string{"amenities-focused"}},
				{ID: "affordability", Text: "Lowest lot rent possible", Subtext: "Keep monthly costs down", Icon: "💰", NextNodeID: "home-size", Score: 10, Tags: []string{"budget-conscious"}},
				{ID: "family-friendly", Text: "Family-friendly environment", Subtext: "Good for kids", Icon: "👨‍👩‍👧‍👦", NextNodeID: "home-size", Score: 15, Tags: []string{"family", "family-friendly"}},
				{ID: "senior", Text: "55+ community", Subtext: "Active adult lifestyle", Icon: "🌅", NextNodeID: "home-size", Score: 15, Tags: []string{"senior", "55-plus"}},
				{ID: "pet-friendly", Text: "Pet-friendly is a must", Subtext: "I have fur babies", Icon: "🐕", NextNodeID: "home-size", Score: 10, Tags: []string{"pet-owner"}},
			},
		},
		{
			ID:          "land-education",
			Kind:        KindTransition,
			Headline:    "Let me break down your options, {{firstName}}...",
			Subheadline: "You can buy land and place a home on it (more freedom, but more upfront work), go into a mobile home community (lower barrier, monthly lot rent), or sometimes find land/home packages. Each has pros and cons depending on your situation.",
			NextNodeID:  "land-preference-after-education",
		},
		{
			ID:       "land-preference-after-education",
			Kind:     KindQuestion,
			Category: "situation",
			Headline: "Based on that, what sounds more appealing?",
			Answers: []Answer{
				{ID: "prefer-own-land", Text: "I'd rather own my land", Subtext: "More control, build equity", Icon: "🏞️", NextNodeID: "land-with-home", Score: 15, Tags: []string{"prefers-land-ownership"}},
				{ID: "prefer-community", Text: "Community living sounds easier", Subtext: "Less hassle, amenities", Icon: "🏘️", NextNodeID: "community-preferences", Score: 10, Tags: []string{"prefers-community"}},
				{ID: "still-unsure", Text: "I'd like to explore both", Subtext: "Keep my options open", Icon: "⚖️", NextNodeID: "home-size", Score: 10, Tags: []string{"open-to-both"}},
			},
		},
		{
			ID:          "home-size",
			Kind:        KindQuestion,
			Category:    "situation",
			Headline:    "Now let's talk about the home itself!",
			Subheadline: "How many bedrooms do you need?",
			Answers: []Answer{
				{ID: "1-2-bed", Text: "1-2 bedrooms", Subtext: "Just me or a small household", Icon: "🛏️", NextNodeID: "home-style", Score: 10, Tags: []string{"small-home", "1-2-bed"}},
				{ID: "3-bed", Text: "3 bedrooms", Subtext: "Room for family or guests", Icon: "🛏️🛏️", NextNodeID: "home-style", Score: 15, Tags: []string{"medium-home", "3-bed"}},
				{ID: "4-plus-bed", Text: "4+ bedrooms", Subtext: "Larger family or need space", Icon: "🏠", NextNodeID: "home-style", Score: 15, Tags: []string{"large-home", "4-plus-bed"}},
			},
		},
		{
			ID:          "home-style",
			Kind:        KindQuestion,
			Category:    "solution",
			Headline:    "What style of home are you drawn to?",
			Subheadline: "This affects both price and options available.",
			Answers: []Answer{
				{ID: "single-wide", Text: "Single-wide", Subtext: "Efficient, affordable, fits more lots", Icon: "📏", NextNodeID: "new-vs-used", Score: 10, Tags: []string{"single-wide"}},
				{ID: "double-wide", Text: "Double-wide", Subtext: "More space, feels like traditional home", Icon: "📐", NextNodeID: "new-vs-used", Score: 15, Tags: []string{"double-wide"}},
				{ID: "not-sure-style", Text: "Not sure - what do you recommend?", Subtext: "Help me decide", Icon: "🤷", NextNodeID: "new-vs-used", Score: 10, Tags: []string{"needs-guidance"}},
			},
		},
		{
			ID:          "new-vs-used",
			Kind:        KindQuestion,
			Category:    "solution",
			Headline:    "Are you thinking new or used?",
			Subheadline: "Both have their advantages!",
			Answers: []Answer{
				{ID: "new-only", Text: "New - I want everything fresh", Subtext: "Latest features, warranty, peace of mind", Icon: "✨", NextNodeID: "payment-method", Score: 20, Tags: []string{"new-home", "higher-budget"}},
				{ID: "used-ok", Text: "Used is fine if it's in good shape", Subtext: "Value matters more than new", Icon: "🏷️", NextNodeID: "payment-method", Score: 15, Tags: []string{"used-ok", "value-focused"}},
				{ID: "open-to-both", Text: "Open to both - show me options", Subtext: "Depends on the deal", Icon: "⚖️", NextNodeID: "payment-method", Score: 15, Tags: []string{"flexible-condition"}},
			},
		},
		{
			ID:          "payment-method",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "Let's talk about the money side, {{firstName}}.",
			Subheadline: "How are you planning to handle the purchase?",
			Answers: []Answer{
				{ID: "cash", Text: "I'm paying cash", Subtext: "Have funds ready to go", Icon: "💵", NextNodeID: "cash-budget", Score: 30, Tags: []string{"cash-buyer", "hot-lead"}},
				{ID: "finance", Text: "I'll need financing", Subtext: "Looking for payment options", Icon: "📋", NextNodeID: "credit-situation", Score: 15, Tags: []string{"finance-buyer"}},
				{ID: "combo", Text: "Cash down payment + financing", Subtext: "Combination approach", Icon: "💰", NextNodeID: "down-payment-amount", Score: 20, Tags: []string{"combo-buyer", "has-down-payment"}},
				{ID: "not-sure-payment", Text: "I'm not sure what I can do", Subtext: "Need guidance on options", Icon: "❓", NextNodeID: "credit-situation", Score: 5, Tags: []string{"uncertain-payment"}},
			},
		},
		{
			ID:          "cash-budget",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "That's great! Cash gives you negotiating power.",
			Subheadline: "What budget range are you working with?",
			Answers: []Answer{
				{ID: "under-50k", Text: "Under $50,000", Subtext: "Looking for value", Icon: "💵", NextNodeID: "contact-capture", Score: 10, Tags: []string{"budget-under-50k"}},
				{ID: "50-100k", Text: "$50,000 - $100,000", Subtext: "Mid-range options", Icon: "💵💵", NextNodeID: "contact-capture", Score: 20, Tags: []string{"budget-50-100k"}},
				{ID: "100-150k", Text: "$100,000 - $150,000", Subtext: "Nice options available", Icon: "💵💵💵", NextNodeID: "contact-capture", Score: 25, Tags: []string{"budget-100-150k"}},
				{ID: "over-150k", Text: "$150,000+", Subtext: "Premium homes & land packages", Icon: "🏆", NextNodeID: "contact-capture", Score: 30, Tags: []string{"budget-over-150k", "premium-buyer"}},
			},
		},
		{
			ID:          "credit-situation",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "We work with multiple lenders.",
			Subheadline: "How would you describe your credit situation?",
			Answers: []Answer{
				{ID: "credit-excellent", Text: "Excellent (720+)", Icon: "⭐", NextNodeID: "monthly-budget", Score: 25, Tags: []string{"excellent-credit"}},
				{ID: "credit-good", Text: "Good (680-719)", Icon: "👍", NextNodeID: "monthly-budget", Score: 20, Tags: []string{"good-credit"}},
				{ID: "credit-fair", Text: "Fair (620-679)", Icon: "📊", NextNodeID: "monthly-budget", Score: 15, Tags: []string{"fair-credit"}},
				{ID: "credit-challenging", Text: "Below 620", Icon: "📋", NextNodeID: "credit-improvement", Score: 5, Tags: []string{"challenging-credit"}},
				{ID: "credit-unsure", Text: "I'm not sure", Subtext: "Haven't checked recently", Icon: "🤔", NextNodeID: "monthly-budget", Score: 10, Tags: []string{"unknown-credit"}},
			},
		},
		{
			ID:          "credit-improvement",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "Thanks for sharing!",
			Subheadline: "Tell us more about your situation.",
			Answers: []Answer{
				{ID: "improving-credit", Text: "I'm working on my credit", Icon: "📈", NextNodeID: "monthly-budget", Score: 10, Tags: []string{"improving-credit"}},
				{ID: "need-help-credit", Text: "I could use some guidance", Icon: "📋", NextNodeID: "monthly-budget", Score: 5, Tags: []string{"needs-credit-help"}},
				{ID: "cosigner", Text: "I might have a co-signer", Subtext: "Someone to help qualify", Icon: "🤝", NextNodeID: "monthly-budget", Score: 15, Tags: []string{"has-cosigner"}},
			},
		},
		{
			ID:          "monthly-budget",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "What monthly payment range works for you?",
			Subheadline: "Being realistic here helps us find the right fit.",
			Answers: []Answer{
				{ID: "under-500", Text: "Under $500/month", Subtext: "Keeping it lean", Icon: "💵", NextNodeID: "down-payment-amount", Score: 10, Tags: []string{"monthly-under-500"}},
				{ID: "500-800", Text: "$500 - $800/month", Subtext: "Comfortable range", Icon: "💵💵", NextNodeID: "down-payment-amount", Score: 15, Tags: []string{"monthly-500-800"}},
				{ID: "800-1200", Text: "$800 - $1,200/month", Subtext: "More home for the money", Icon: "💵💵💵", NextNodeID: "down-payment-amount", Score: 20, Tags: []string{"monthly-800-1200"}},
				{ID: "over-1200", Text: "$1,200+/month", Subtext: "Premium options", Icon: "🏆", NextNodeID: "down-payment-amount", Score: 25, Tags: []string{"monthly-over-1200"}},
			},
		},
		{
			ID:          "down-payment-amount",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "Do you have a down payment ready?",
			Subheadline: "This helps us understand your options.",
			Answers: []Answer{
				{ID: "dp-none", Text: "No down payment right now", Icon: "🔍", NextNodeID: "contact-capture", Score: 5, Tags: []string{"no-down-payment"}},
				{ID: "dp-small", Text: "Under $5,000", Icon: "💵", NextNodeID: "contact-capture", Score: 10, Tags: []string{"small-down-payment"}},
				{ID: "dp-moderate", Text: "$5,000 - $15,000", Icon: "💵💵", NextNodeID: "contact-capture", Score: 20, Tags: []string{"moderate-down-payment"}},
				{ID: "dp-strong", Text: "$15,000+", Icon: "💵💵💵", NextNodeID: "contact-capture", Score: 25, Tags: []string{"strong-down-payment"}},
			},
		},
		{
			ID:          "contact-capture",
			Kind:        KindLeadCapture,
			Headline:    "Awesome, {{firstName}}! I've got a clear picture of what you're looking for.",
			Subheadline: "Let me get your contact info so we can discuss your personalized options.",
			LeadFields:  []string{FieldLastName, FieldEmail, FieldPhone},
			NextNodeID:  "final-question",
		},
		{
			ID:          "final-question",
			Kind:        KindQuestion,
			Category:    "qualification",
			Headline:    "Last thing - what's the best way to reach you?",
			Subheadline: "We want to connect in the way that works best for you.",
			Answers: []Answer{
				{ID: "call-me", Text: "Call me - I'm ready to talk", Subtext: "Let's have a real conversation", Icon: "📞", NextNodeID: "result-hot", Score: 25, Tags: []string{"prefers-call", "ready-to-talk"}},
				{ID: "text-me", Text: "Text me first", Subtext: "I'll respond when I can", Icon: "💬", NextNodeID: "result-warm", Score: 15, Tags: []string{"prefers-text"}},
				{ID: "email-me", Text: "Email works best", Subtext: "Send me information", Icon: "📧", NextNodeID: "result-warm", Score: 10, Tags: []string{"prefers-email"}},
			},
		},
		{
			ID:          "result-hot",
			Kind:        KindResult,
			Headline:    "You're all set, {{firstName}}!",
			Subheadline: "Based on everything you've shared, we have some great options for you. One of our mobile home specialists will give you a call shortly to discuss the next steps. Get ready to find your perfect home!",
		},
		{
			ID:          "result-warm",
			Kind:        KindResult,
			Headline:    "Thanks for sharing, {{firstName}}!",
			Subheadline: "We've captured all your preferences and a member of our team will reach out soon with personalized options. Keep an eye on your inbox (or phone) - exciting things are coming your way!",
		},
	}

	out := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n
	}
	return out
}

func defaultProgress() map[string]int {
	return map[string]int{
		"start":      5,
		"motivation": 10,
		"timeline":   18,

		"first-name-capture": 25,

		"land-situation":                  30,
		"land-utilities":                  35,
		"land-work-needed":                38,
		"land-with-home":                  35,
		"acreage-preference":              38,
		"community-awareness":             35,
		"lot-rent-education":              38,
		"community-preferences":           40,
		"land-education":                  35,
		"land-preference-after-education": 40,

		"home-size":   45,
		"home-style":  52,
		"new-vs-used": 60,

		"payment-method":      68,
		"cash-budget":         78,
		"credit-situation":    75,
		"credit-improvement":  78,
		"monthly-budget":      80,
		"down-payment-amount": 85,

		"contact-capture": 90,
		"final-question":  95,
		"result-hot":      100,
		"result-warm":     100,
	}
}
