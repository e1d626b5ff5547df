package service

import (
	"fmt"
	"strings"

	"github.com/platoro/foodgram/internal/model"
)

// ShoppingListEntry is one consolidated ingredient group of a shopping list.
type ShoppingListEntry struct {
	Name   string
	Unit   string
	Amount int
}

// AggregateShoppingList flattens the line items of the given recipes into one
// sequence and merges them by (ingredient name, measurement unit), summing the
// amounts. Merging is nominal: two ingredients with distinct ids but the same
// name and unit land in the same group. Output order is first-seen order of
// the group key. Reading only, never mutates its input.
func AggregateShoppingList(recipes []*model.Recipe) []ShoppingListEntry {
	type groupKey struct {
		name string
		unit string
	}

	index := make(map[groupKey]int)
	entries := make([]ShoppingListEntry, 0)

	for _, recipe := range recipes {
		for _, item := range recipe.Ingredients {
			key := groupKey{name: item.Ingredient.Name, unit: item.Ingredient.MeasurementUnit}
			if at, ok := index[key]; ok {
				entries[at].Amount += item.Amount
				continue
			}
			index[key] = len(entries)
			entries = append(entries, ShoppingListEntry{
				Name:   key.name,
				Unit:   key.unit,
				Amount: item.Amount,
			})
		}
	}

	return entries
}

const shoppingListHeader = "Shopping list:"

// FormatShoppingList renders the aggregated entries as the downloadable
// plain-text document: a fixed header, a blank line, then one line per group.
func FormatShoppingList(entries []ShoppingListEntry) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader + "\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s - %d %s\n", entry.Name, entry.Amount, entry.Unit)
	}
	return b.String()
}
