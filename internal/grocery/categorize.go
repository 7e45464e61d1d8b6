// Package grocery guesses a pantry category from a free-text item name.
package grocery

import (
	"sort"
	"strings"
)

// Fallback is returned when nothing in the vocabulary matches.
const Fallback = "Other"

// Categories are the pantry categories, in display order.
var Categories = []string{"Dairy", "Meat", "Vegetables", "Fruits", "Grains", "Sweets", "Oils"}

var vocabulary = map[string][]string{
	"Dairy": {
		"milk", "cheese", "cheddar", "mozzarella", "parmesan", "feta", "butter",
		"yogurt", "yoghurt", "cream", "sour cream", "cream cheese", "cottage cheese",
		"kefir", "ghee", "eggs", "egg",
	},
	"Meat": {
		"chicken", "beef", "pork", "lamb", "turkey", "bacon", "ham", "sausage",
		"salami", "steak", "mince", "ground beef", "fish", "salmon", "tuna", "shrimp",
		"prawns", "cod",
	},
	"Vegetables": {
		"tomato", "tomatoes", "potato", "potatoes", "onion", "onions", "garlic",
		"lettuce", "spinach", "kale", "broccoli", "carrot", "carrots", "celery",
		"cucumber", "pepper", "peppers", "mushroom", "mushrooms", "corn", "zucchini",
		"cabbage", "cauliflower", "beans", "peas", "leek", "eggplant", "aubergine",
	},
	"Fruits": {
		"apple", "apples", "banana", "bananas", "orange", "oranges", "lemon",
		"lemons", "lime", "limes", "avocado", "grapes", "strawberries", "blueberries",
		"raspberries", "berries", "pear", "pears", "peach", "mango", "pineapple",
		"watermelon", "kiwi", "cherries",
	},
	"Grains": {
		"bread", "rice", "pasta", "spaghetti", "noodles", "flour", "oats", "oatmeal",
		"cereal", "quinoa", "couscous", "barley", "tortillas", "bagels", "crackers",
	},
	"Sweets": {
		"chocolate", "candy", "cookies", "biscuits", "cake", "ice cream", "sugar",
		"honey", "jam", "syrup", "maple syrup", "donuts", "brownies", "marshmallows",
	},
	"Oils": {
		"oil", "olive oil", "vegetable oil", "canola oil", "sunflower oil",
		"coconut oil", "sesame oil", "vinegar", "mayonnaise", "margarine",
	},
}

type keyword struct {
	word     string
	category string
}

var (
	exact     map[string]string
	bySubword []keyword
)

func init() {
	exact = make(map[string]string)
	for _, cat := range Categories {
		for _, w := range vocabulary[cat] {
			exact[w] = cat
			bySubword = append(bySubword, keyword{w, cat})
		}
	}
	// longest keyword wins, so "ice cream" beats "cream" and "olive oil" beats "oil"
	sort.SliceStable(bySubword, func(i, j int) bool {
		return len(bySubword[i].word) > len(bySubword[j].word)
	})
}

// Categorize returns the pantry category for itemName, matching
// case-insensitively on the whole name first and on contained keywords
// second. Unknown names map to Fallback.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Fallback
	}

	if cat, ok := exact[name]; ok {
		return cat
	}

	for _, k := range bySubword {
		if strings.Contains(name, k.word) {
			return k.category
		}
	}
	return Fallback
}
