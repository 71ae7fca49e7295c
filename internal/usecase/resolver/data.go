package resolver

// Colour families group the merchandiser vocabulary under the common names
// shoppers actually type. Members are ordered by how often they appear in
// the catalog; tune after running vocabulary diagnostics.
var colourFamilies = map[string][]string{
	"red":    {"red", "maroon", "magenta", "rust", "coral", "peach"},
	"blue":   {"blue", "navy blue", "turquoise blue", "teal", "sea green"},
	"green":  {"green", "olive", "lime green", "fluorescent green"},
	"white":  {"white", "off white"},
	"black":  {"black", "charcoal"},
	"grey":   {"grey", "gray"},
	"pink":   {"pink", "peach", "lavender"},
	"purple": {"purple", "magenta"},
	"orange": {"orange", "rust"},
}

// colourFamilyOrder fixes the probe order for family-membership lookups;
// map iteration order would make resolution non-deterministic.
var colourFamilyOrder = []string{
	"red", "blue", "green", "white", "black", "grey", "pink", "purple", "orange",
}

// Category aliases expand a shopper's category word into the surface tokens
// that show up in product names and descriptions.
var categoryAliases = map[string][]string{
	"saree": {
		"saree", "sari",
		"drape", "pleats", "pallu",
		"zari", "border",
		"banarasi", "kanjeevaram", "silk saree",
	},
	"kurti":  {"kurti", "kurta", "tunic"},
	"dress":  {"dress", "gown", "one piece", "anarkali"},
	"shirt":  {"shirt", "top", "tee", "blouse"},
	"jeans":  {"jean", "jeans", "denim"},
	"jacket": {"jacket", "coat"},
}
