package catalog

import "math/rand"

// GameEvent is the macro market regime for a round. Exactly one is active at
// a time; its boosted categories drive the demand tiers in the pricing engine.
type GameEvent struct {
	ID                string     `json:"id" yaml:"id"`
	Name              string     `json:"name" yaml:"name"`
	Description       string     `json:"description" yaml:"description"`
	BoostedCategories []Category `json:"boosted_categories" yaml:"boosted_categories"`
	Icon              string     `json:"icon" yaml:"icon"`
}

// Boosts reports whether the event boosts the given category.
func (e GameEvent) Boosts(c Category) bool {
	for _, b := range e.BoostedCategories {
		if b == c {
			return true
		}
	}
	return false
}

// RandomEvent picks an event uniformly from the catalog.
func RandomEvent(events []GameEvent, rng *rand.Rand) GameEvent {
	if len(events) == 0 {
		return GameEvent{ID: "quiet_day", Name: "Quiet Day", Description: "Nothing unusual in the market today.", Icon: "☁️"}
	}
	return events[rng.Intn(len(events))]
}

// EventByID looks up an event by id.
func EventByID(events []GameEvent, id string) (GameEvent, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return GameEvent{}, false
}

// DefaultEvents is the built-in event catalog (~60 market regimes).
var DefaultEvents = []GameEvent{
	{ID: "heatwave", Name: "Heatwave", Description: "Record temperatures send everyone hunting for cold drinks.", BoostedCategories: []Category{CategoryDrinks, CategorySnacks}, Icon: "🌞"},
	{ID: "cold_snap", Name: "Cold Snap", Description: "An icy front has shoppers bundling up.", BoostedCategories: []Category{CategoryClothing, CategoryHome}, Icon: "🥶"},
	{ID: "rainy_week", Name: "Rainy Week", Description: "A week of downpours keeps people stocked up indoors.", BoostedCategories: []Category{CategoryDaily, CategoryFood}, Icon: "🌧️"},
	{ID: "marathon", Name: "City Marathon", Description: "Runners flood the streets and the sports aisles.", BoostedCategories: []Category{CategorySports, CategoryDrinks}, Icon: "🏃"},
	{ID: "school_term", Name: "Back to School", Description: "Term starts tomorrow and nobody has a pen.", BoostedCategories: []Category{CategoryStationery, CategoryBooks}, Icon: "🎒"},
	{ID: "gadget_launch", Name: "Gadget Launch", Description: "A hyped device drops at midnight.", BoostedCategories: []Category{CategoryElectronics}, Icon: "📱"},
	{ID: "flu_season", Name: "Flu Season", Description: "Everyone is sniffling and stocking the medicine cabinet.", BoostedCategories: []Category{CategoryHealth, CategoryDaily}, Icon: "🤧"},
	{ID: "wedding_season", Name: "Wedding Season", Description: "Gift registries drive demand for the finer things.", BoostedCategories: []Category{CategoryLuxury, CategoryBeauty}, Icon: "💍"},
	{ID: "toy_fair", Name: "Toy Fair", Description: "A travelling toy fair has kids dragging parents shopping.", BoostedCategories: []Category{CategoryToys}, Icon: "🧸"},
	{ID: "book_week", Name: "Literary Festival", Description: "Authors in town; readers in the shops.", BoostedCategories: []Category{CategoryBooks, CategoryStationery}, Icon: "📚"},
	{ID: "fitness_craze", Name: "Fitness Craze", Description: "A viral workout has gyms and shops packed.", BoostedCategories: []Category{CategorySports, CategoryHealth}, Icon: "💪"},
	{ID: "food_festival", Name: "Food Festival", Description: "Street food stalls spill into grocery demand.", BoostedCategories: []Category{CategoryFood, CategorySnacks}, Icon: "🍜"},
	{ID: "fashion_week", Name: "Fashion Week", Description: "Runway looks are trickling down to the high street.", BoostedCategories: []Category{CategoryClothing, CategoryBeauty}, Icon: "👗"},
	{ID: "moving_season", Name: "Moving Season", Description: "Lease turnover fills carts with home goods.", BoostedCategories: []Category{CategoryHome, CategoryDaily}, Icon: "📦"},
	{ID: "exam_week", Name: "Exam Week", Description: "Students mainline coffee and stationery.", BoostedCategories: []Category{CategoryDrinks, CategoryStationery}, Icon: "✏️"},
	{ID: "holiday_rush", Name: "Holiday Rush", Description: "Gift shopping hits fever pitch.", BoostedCategories: []Category{CategoryToys, CategoryLuxury}, Icon: "🎁"},
	{ID: "camping_boom", Name: "Camping Boom", Description: "A long weekend sends the city outdoors.", BoostedCategories: []Category{CategorySports, CategoryFood}, Icon: "🏕️"},
	{ID: "spa_trend", Name: "Self-Care Sunday", Description: "A wellness trend lifts lotions and candles.", BoostedCategories: []Category{CategoryBeauty, CategoryHome}, Icon: "🧖"},
	{ID: "esports_final", Name: "Esports Final", Description: "The grand final keeps everyone glued to screens.", BoostedCategories: []Category{CategoryElectronics, CategorySnacks}, Icon: "🎮"},
	{ID: "baby_boom", Name: "Baby Boom", Description: "A maternity-ward record lifts daily essentials.", BoostedCategories: []Category{CategoryDaily, CategoryHealth}, Icon: "👶"},
	{ID: "heat_blackout", Name: "Rolling Blackouts", Description: "Power cuts make battery packs precious.", BoostedCategories: []Category{CategoryElectronics, CategoryDaily}, Icon: "🔌"},
	{ID: "harvest", Name: "Harvest Glut", Description: "Farms overflow and the market eats well.", BoostedCategories: []Category{CategoryFood}, Icon: "🌾"},
	{ID: "movie_premiere", Name: "Blockbuster Premiere", Description: "Merch and snacks fly off shelves before showtime.", BoostedCategories: []Category{CategoryToys, CategorySnacks}, Icon: "🎬"},
	{ID: "diet_january", Name: "Resolution Month", Description: "New-year diets boost health aisles.", BoostedCategories: []Category{CategoryHealth, CategorySports}, Icon: "🥗"},
	{ID: "art_fair", Name: "Art Fair", Description: "Collectors browse with deep pockets.", BoostedCategories: []Category{CategoryLuxury, CategoryBooks}, Icon: "🖼️"},
	{ID: "heirloom_auction", Name: "Heirloom Auction", Description: "Old money is in a spending mood.", BoostedCategories: []Category{CategoryLuxury}, Icon: "🏛️"},
	{ID: "street_party", Name: "Street Party", Description: "Block parties empty the drink coolers.", BoostedCategories: []Category{CategoryDrinks, CategorySnacks}, Icon: "🎉"},
	{ID: "garden_show", Name: "Garden Show", Description: "Green thumbs refresh their homes.", BoostedCategories: []Category{CategoryHome}, Icon: "🌷"},
	{ID: "tech_conference", Name: "Tech Conference", Description: "Badge-wearing crowds want gadgets and coffee.", BoostedCategories: []Category{CategoryElectronics, CategoryDrinks}, Icon: "🖥️"},
	{ID: "kids_day", Name: "Children's Day", Description: "A holiday for the young and the young at heart.", BoostedCategories: []Category{CategoryToys, CategorySnacks}, Icon: "🎈"},
	{ID: "cosplay_con", Name: "Cosplay Convention", Description: "Costumes are being assembled city-wide.", BoostedCategories: []Category{CategoryClothing, CategoryToys}, Icon: "🦸"},
	{ID: "study_abroad", Name: "Study Abroad Fair", Description: "Departing students stock up on everything.", BoostedCategories: []Category{CategoryBooks, CategoryDaily}, Icon: "✈️"},
	{ID: "beauty_pageant", Name: "Beauty Pageant", Description: "Glamour is the word of the week.", BoostedCategories: []Category{CategoryBeauty}, Icon: "👑"},
	{ID: "night_market", Name: "Night Market", Description: "Late-night stalls drive snack traffic.", BoostedCategories: []Category{CategorySnacks, CategoryDrinks}, Icon: "🏮"},
	{ID: "picnic_weather", Name: "Perfect Picnic Weather", Description: "Blue skies, full baskets.", BoostedCategories: []Category{CategoryFood, CategoryDrinks}, Icon: "🧺"},
	{ID: "new_gym", Name: "Gym Grand Opening", Description: "A flashy new gym hands out free passes.", BoostedCategories: []Category{CategorySports}, Icon: "🏋️"},
	{ID: "pollen_storm", Name: "Pollen Storm", Description: "Allergy season hits hard.", BoostedCategories: []Category{CategoryHealth, CategoryDaily}, Icon: "🌼"},
	{ID: "retro_revival", Name: "Retro Revival", Description: "Vintage everything is suddenly cool again.", BoostedCategories: []Category{CategoryClothing, CategoryToys}, Icon: "📼"},
	{ID: "office_openings", Name: "New Office Tower", Description: "A thousand desks need supplies.", BoostedCategories: []Category{CategoryStationery, CategoryDrinks}, Icon: "🏢"},
	{ID: "renovation_wave", Name: "Renovation Wave", Description: "A home-makeover show inspires the neighborhood.", BoostedCategories: []Category{CategoryHome, CategoryDaily}, Icon: "🔨"},
	{ID: "mystery_influencer", Name: "Mystery Influencer", Description: "Someone famous was seen shopping here.", BoostedCategories: []Category{CategoryBeauty, CategoryClothing}, Icon: "📸"},
	{ID: "quiz_night", Name: "Citywide Quiz Night", Description: "Trivia fever sells books and brain food.", BoostedCategories: []Category{CategoryBooks, CategorySnacks}, Icon: "❓"},
	{ID: "baking_show", Name: "Baking Show Finale", Description: "Everyone is suddenly a pastry chef.", BoostedCategories: []Category{CategoryFood, CategoryHome}, Icon: "🧁"},
	{ID: "heistery", Name: "Jewel Heist Headlines", Description: "A daring heist makes luxury the talk of the town.", BoostedCategories: []Category{CategoryLuxury}, Icon: "💎"},
	{ID: "charity_run", Name: "Charity Fun Run", Description: "Good causes and sore legs.", BoostedCategories: []Category{CategorySports, CategoryHealth}, Icon: "🎽"},
	{ID: "poetry_slam", Name: "Poetry Slam", Description: "Notebooks and berets in high demand.", BoostedCategories: []Category{CategoryStationery, CategoryBooks}, Icon: "🎤"},
	{ID: "coffee_shortage", Name: "Coffee Shortage Scare", Description: "Rumors of a bean shortage cause panic sipping.", BoostedCategories: []Category{CategoryDrinks}, Icon: "☕"},
	{ID: "pet_expo", Name: "Pet Expo", Description: "The city is covered in fur and good moods.", BoostedCategories: []Category{CategoryToys, CategoryDaily}, Icon: "🐾"},
	{ID: "beach_day", Name: "Beach Day", Description: "Sunscreen, snacks, and sandals.", BoostedCategories: []Category{CategoryBeauty, CategorySnacks}, Icon: "🏖️"},
	{ID: "game_release", Name: "Game of the Year Release", Description: "Midnight queues wrap around the block.", BoostedCategories: []Category{CategoryElectronics, CategoryToys}, Icon: "🕹️"},
	{ID: "tax_refunds", Name: "Tax Refund Day", Description: "Wallets are briefly, gloriously full.", BoostedCategories: []Category{}, Icon: "💵"},
	{ID: "slow_news_day", Name: "Slow News Day", Description: "Nothing happening. Suspiciously calm.", BoostedCategories: []Category{}, Icon: "📰"},
	{ID: "transit_strike", Name: "Transit Strike", Description: "Everyone shops close to home.", BoostedCategories: []Category{CategoryDaily, CategoryFood}, Icon: "🚌"},
	{ID: "morning_show", Name: "Morning Show Feature", Description: "A TV segment on smart shopping airs at 8am.", BoostedCategories: []Category{}, Icon: "📺"},
	{ID: "craft_fair", Name: "Craft Fair", Description: "Handmade goods inspire handmade budgets.", BoostedCategories: []Category{CategoryHome, CategoryStationery}, Icon: "🧶"},
	{ID: "lunar_new_year", Name: "Lunar New Year", Description: "Red envelopes and generous tables.", BoostedCategories: []Category{CategoryFood, CategoryLuxury}, Icon: "🧧"},
	{ID: "spring_cleaning", Name: "Spring Cleaning", Description: "Out with the old, in with the detergent.", BoostedCategories: []Category{CategoryDaily, CategoryHome}, Icon: "🧹"},
	{ID: "music_festival", Name: "Music Festival", Description: "Three days of bass and bottled water.", BoostedCategories: []Category{CategoryDrinks, CategoryClothing}, Icon: "🎸"},
	{ID: "science_week", Name: "Science Week", Description: "Kits, books, and curious minds.", BoostedCategories: []Category{CategoryBooks, CategoryToys}, Icon: "🔬"},
	{ID: "first_snow", Name: "First Snow", Description: "The season's first flakes spark cozy spending.", BoostedCategories: []Category{CategoryClothing, CategoryDrinks}, Icon: "❄️"},
}
