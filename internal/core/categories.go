package core

import "strings"

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "otros"

// categoryKeywords maps categories to trigger keywords. Order matters:
// the first matching category wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"vinos", []string{"vino", "malbec", "cabernet", "chardonnay", "syrah", "bianchi", "zuccardi", "luigi bosca", "salentein", "catena"}},
	{"super", []string{"coto", "disco", "carrefour", "jumbo", "dia", "supermercado"}},
	{"delivery", []string{"rappi", "pedidosya", "uber eats", "delivery"}},
	{"salidas", []string{"bar", "resto", "restaurante", "cine", "asado"}},
	{"hogar", []string{"ferreteria", "ikea", "easy", "sodimac", "marisa"}},
	{"viajes", []string{"viaje", "viajes", "pasajes", "hotel", "hospedaje", "alojamiento"}},
	{"transporte", []string{"transmilenio", "metro", "bus", "subte"}},
	{"taxi", []string{"taxi", "uber", "cabify", "didi", "beat", "remis"}},
}

// InferCategory suggests a category for a free-text description.
func InferCategory(description string) string {
	lower := strings.ToLower(description)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return DefaultCategory
}

// ValidCategory reports whether name is a known category.
func ValidCategory(name string) bool {
	if name == DefaultCategory {
		return true
	}
	for _, c := range categoryKeywords {
		if c.name == name {
			return true
		}
	}
	return false
}

// Categories lists the known categories in priority order, with the
// default category last.
func Categories() []string {
	names := make([]string, 0, len(categoryKeywords)+1)
	for _, c := range categoryKeywords {
		names = append(names, c.name)
	}
	return append(names, DefaultCategory)
}
