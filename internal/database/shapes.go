package database

import "github.com/localnerve/bluefin-crm/internal/models"

// UnknownContact names opportunities whose old contact reference no longer resolves.
const UnknownContact = "Unknown Contact"

// Shapes is the target schema, parents before children.
var Shapes = []Shape{
	{Model: &models.User{}, Strategy: AddColumns},
	{
		Model:    &models.Contact{},
		Strategy: AddColumns,
		Fills: map[string]Fill{
			"created_at": Now(),
			"updated_at": Now(),
		},
	},
	{
		Model:    &models.ContactNote{},
		Strategy: Rebuild,
		Fills: map[string]Fill{
			"content":    Constant(""),
			"created_at": Now(),
			"updated_at": Now(),
		},
	},
	{
		Model:    &models.CalendarNote{},
		Strategy: Rebuild,
		Fills: map[string]Fill{
			"content":    Constant(""),
			"created_at": Now(),
			"updated_at": Now(),
		},
	},
	{
		Model:    &models.RegisteredAccount{},
		Strategy: Rebuild,
		Fills: map[string]Fill{
			"status":     Constant("New"),
			"created_at": Now(),
			"updated_at": Now(),
		},
	},
	{
		Model:    &models.Opportunity{},
		Strategy: Rebuild,
		Fills: map[string]Fill{
			"title":       Constant("Untitled"),
			"contact":     ContactName(UnknownContact),
			"amount":      Constant(0.0),
			"probability": Constant(50),
			"stage":       Constant(models.StageProspecting),
			"created_at":  Now(),
			"updated_at":  Now(),
		},
	},
	{Model: &models.Note{}, Strategy: Rebuild},
}

// Constant fills a column with v.
func Constant(v interface{}) Fill {
	return func(Row, *FillEnv) (interface{}, error) {
		return v, nil
	}
}

// Now fills a column with the reconcile time.
func Now() Fill {
	return func(_ Row, env *FillEnv) (interface{}, error) {
		return env.Now, nil
	}
}

// ContactName resolves an old contact_id to the contact's name, or fallback.
func ContactName(fallback string) Fill {
	return func(old Row, env *FillEnv) (interface{}, error) {
		if id, ok := old["contact_id"]; ok && id != nil {
			if name, ok := env.ContactName(id); ok && name != "" {
				return name, nil
			}
		}
		return fallback, nil
	}
}
