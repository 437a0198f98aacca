package catalog

// Product is an immutable catalog entry. Shops copy it into an InventoryItem
// when procuring stock.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	BaseCost    int      `json:"base_cost" yaml:"base_cost"`
	BasePrice   int      `json:"base_price" yaml:"base_price"`
	UnlockLevel int      `json:"unlock_level" yaml:"unlock_level"`
	Quality     int      `json:"quality" yaml:"quality"` // 1–5
}

// DefaultProducts is the built-in product catalog. A YAML data file can
// replace it via LoadProducts.
var DefaultProducts = []Product{
	{ID: "bread", Name: "Fresh Bread", Category: CategoryFood, BaseCost: 8, BasePrice: 14, UnlockLevel: 1, Quality: 2},
	{ID: "eggs", Name: "Free-Range Eggs", Category: CategoryFood, BaseCost: 12, BasePrice: 20, UnlockLevel: 1, Quality: 3},
	{ID: "instant_noodles", Name: "Instant Noodles", Category: CategoryFood, BaseCost: 5, BasePrice: 9, UnlockLevel: 1, Quality: 1},
	{ID: "olive_oil", Name: "Olive Oil", Category: CategoryFood, BaseCost: 35, BasePrice: 58, UnlockLevel: 2, Quality: 4},
	{ID: "tissues", Name: "Tissue Pack", Category: CategoryDaily, BaseCost: 6, BasePrice: 11, UnlockLevel: 1, Quality: 2},
	{ID: "detergent", Name: "Laundry Detergent", Category: CategoryDaily, BaseCost: 22, BasePrice: 36, UnlockLevel: 1, Quality: 3},
	{ID: "umbrella", Name: "Folding Umbrella", Category: CategoryDaily, BaseCost: 30, BasePrice: 55, UnlockLevel: 2, Quality: 3},
	{ID: "earbuds", Name: "Wireless Earbuds", Category: CategoryElectronics, BaseCost: 120, BasePrice: 220, UnlockLevel: 2, Quality: 3},
	{ID: "power_bank", Name: "Power Bank", Category: CategoryElectronics, BaseCost: 80, BasePrice: 150, UnlockLevel: 2, Quality: 3},
	{ID: "smart_speaker", Name: "Smart Speaker", Category: CategoryElectronics, BaseCost: 260, BasePrice: 450, UnlockLevel: 4, Quality: 4},
	{ID: "tshirt", Name: "Graphic T-Shirt", Category: CategoryClothing, BaseCost: 40, BasePrice: 80, UnlockLevel: 1, Quality: 2},
	{ID: "denim_jacket", Name: "Denim Jacket", Category: CategoryClothing, BaseCost: 150, BasePrice: 290, UnlockLevel: 3, Quality: 4},
	{ID: "wool_scarf", Name: "Wool Scarf", Category: CategoryClothing, BaseCost: 55, BasePrice: 105, UnlockLevel: 2, Quality: 3},
	{ID: "plush_bear", Name: "Plush Bear", Category: CategoryToys, BaseCost: 45, BasePrice: 88, UnlockLevel: 1, Quality: 3},
	{ID: "model_kit", Name: "Model Kit", Category: CategoryToys, BaseCost: 90, BasePrice: 175, UnlockLevel: 3, Quality: 4},
	{ID: "board_game", Name: "Board Game", Category: CategoryToys, BaseCost: 110, BasePrice: 200, UnlockLevel: 2, Quality: 3},
	{ID: "face_cream", Name: "Face Cream", Category: CategoryBeauty, BaseCost: 70, BasePrice: 140, UnlockLevel: 2, Quality: 3},
	{ID: "perfume", Name: "Eau de Parfum", Category: CategoryBeauty, BaseCost: 180, BasePrice: 360, UnlockLevel: 3, Quality: 4},
	{ID: "yoga_mat", Name: "Yoga Mat", Category: CategorySports, BaseCost: 50, BasePrice: 95, UnlockLevel: 1, Quality: 2},
	{ID: "running_shoes", Name: "Running Shoes", Category: CategorySports, BaseCost: 200, BasePrice: 380, UnlockLevel: 3, Quality: 4},
	{ID: "novel", Name: "Bestselling Novel", Category: CategoryBooks, BaseCost: 25, BasePrice: 45, UnlockLevel: 1, Quality: 3},
	{ID: "cookbook", Name: "Illustrated Cookbook", Category: CategoryBooks, BaseCost: 60, BasePrice: 110, UnlockLevel: 2, Quality: 4},
	{ID: "scented_candle", Name: "Scented Candle", Category: CategoryHome, BaseCost: 28, BasePrice: 52, UnlockLevel: 1, Quality: 2},
	{ID: "throw_blanket", Name: "Throw Blanket", Category: CategoryHome, BaseCost: 85, BasePrice: 160, UnlockLevel: 2, Quality: 3},
	{ID: "vitamins", Name: "Multivitamins", Category: CategoryHealth, BaseCost: 48, BasePrice: 90, UnlockLevel: 2, Quality: 3},
	{ID: "first_aid_kit", Name: "First Aid Kit", Category: CategoryHealth, BaseCost: 65, BasePrice: 120, UnlockLevel: 1, Quality: 3},
	{ID: "gold_watch", Name: "Gold Watch", Category: CategoryLuxury, BaseCost: 800, BasePrice: 1600, UnlockLevel: 5, Quality: 5},
	{ID: "silk_tie", Name: "Silk Tie", Category: CategoryLuxury, BaseCost: 220, BasePrice: 430, UnlockLevel: 4, Quality: 4},
	{ID: "fountain_pen", Name: "Fountain Pen", Category: CategoryStationery, BaseCost: 75, BasePrice: 145, UnlockLevel: 2, Quality: 4},
	{ID: "notebook", Name: "Hardcover Notebook", Category: CategoryStationery, BaseCost: 18, BasePrice: 32, UnlockLevel: 1, Quality: 2},
	{ID: "potato_chips", Name: "Potato Chips", Category: CategorySnacks, BaseCost: 7, BasePrice: 13, UnlockLevel: 1, Quality: 1},
	{ID: "chocolate_box", Name: "Chocolate Gift Box", Category: CategorySnacks, BaseCost: 55, BasePrice: 105, UnlockLevel: 2, Quality: 4},
	{ID: "sparkling_water", Name: "Sparkling Water", Category: CategoryDrinks, BaseCost: 9, BasePrice: 16, UnlockLevel: 1, Quality: 2},
	{ID: "cold_brew", Name: "Cold Brew Coffee", Category: CategoryDrinks, BaseCost: 20, BasePrice: 38, UnlockLevel: 2, Quality: 3},
	{ID: "craft_soda", Name: "Craft Soda", Category: CategoryDrinks, BaseCost: 14, BasePrice: 26, UnlockLevel: 1, Quality: 2},
}

// ProductByID looks up a product in the given catalog slice.
func ProductByID(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductsForLevel returns the products procurable at the given shop level.
func ProductsForLevel(products []Product, level int) []Product {
	var out []Product
	for _, p := range products {
		if p.UnlockLevel <= level {
			out = append(out, p)
		}
	}
	return out
}

// ProductsInCategory returns all products carrying the given category tag.
func ProductsInCategory(products []Product, c Category) []Product {
	var out []Product
	for _, p := range products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}
