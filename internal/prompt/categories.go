package prompt

import "github.com/soraformula/soraformula/internal/model"

type Category struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

var categoryTable = map[model.GeneratorType][]Category{
	model.GeneratorProduct: {
		{Key: "style", Label: "Style", Options: []string{"Minimalist", "Luxury", "Editorial", "Cinematic", "Hyperrealistic"}},
		{Key: "background", Label: "Background", Options: []string{"Seamless White", "Marble Surface", "Gradient Studio", "Natural Wood", "Floating In Space"}},
		{Key: "lighting", Label: "Lighting", Options: []string{"Soft Box Lighting", "Rim Light", "Golden Hour", "Hard Shadows", "Neon Glow"}},
		{Key: "angle", Label: "Camera Angle", Options: []string{"Eye Level", "Top Down", "Low Angle", "Macro Close-Up", "360 Orbit"}},
		{Key: "mood", Label: "Mood", Options: []string{"Premium", "Playful", "Calm", "Energetic", "Mysterious"}},
		{Key: "enhancement", Label: "Enhancement", Options: []string{"Water Droplets", "Slow Motion Splash", "Particle Dust", "Reflections", "Steam"}},
	},
	model.GeneratorLifestyle: {
		{Key: "scene", Label: "Scene", Options: []string{"Morning Routine", "Coffee Shop", "Road Trip", "Home Office", "Rooftop Party"}},
		{Key: "people", Label: "People", Options: []string{"Solo Creator", "Young Couple", "Group Of Friends", "Family", "Athlete"}},
		{Key: "environment", Label: "Environment", Options: []string{"Tokyo Street", "Beach At Sunset", "Mountain Cabin", "Urban Loft", "Forest Trail"}},
		{Key: "lighting", Label: "Lighting", Options: []string{"Natural Daylight", "Golden Hour", "Blue Hour", "Candlelight", "Overcast"}},
		{Key: "mood", Label: "Mood", Options: []string{"Joyful", "Nostalgic", "Adventurous", "Cozy", "Romantic"}},
		{Key: "angle", Label: "Camera Angle", Options: []string{"Handheld POV", "Low Angle", "Wide Establishing", "Over The Shoulder", "Drone Aerial"}},
	},
	model.GeneratorGraphic: {
		{Key: "layout", Label: "Layout", Options: []string{"Centered Hero", "Split Screen", "Grid", "Full Bleed", "Asymmetric"}},
		{Key: "color", Label: "Color Palette", Options: []string{"Monochrome", "Pastel", "Vibrant Neon", "Earth Tones", "Brand Primary"}},
		{Key: "typography", Label: "Typography", Options: []string{"Bold Sans Serif", "Elegant Serif", "Handwritten", "Kinetic Type", "Retro Display"}},
		{Key: "elements", Label: "Elements", Options: []string{"Geometric Shapes", "Line Icons", "3D Objects", "Photo Cutouts", "Abstract Blobs"}},
		{Key: "purpose", Label: "Purpose", Options: []string{"Product Launch", "Social Ad", "Event Promo", "Explainer", "Brand Intro"}},
		{Key: "style", Label: "Style", Options: []string{"Flat Design", "Glassmorphism", "Brutalist", "Y2K", "Swiss"}},
	},
}

// Categories returns the category table of a generator type, or nil if unknown
func Categories(generatorType model.GeneratorType) []Category {
	return categoryTable[generatorType]
}

// HasCategory reports whether key is one of the generator type's categories
func HasCategory(generatorType model.GeneratorType, key string) bool {
	for _, c := range categoryTable[generatorType] {
		if c.Key == key {
			return true
		}
	}
	return false
}
