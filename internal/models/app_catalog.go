package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppCategory classifies an app for activity inference.
type AppCategory string

// AppCategory constants
const (
	AppCategoryWork          AppCategory = "work"
	AppCategoryComms         AppCategory = "comms"
	AppCategoryEntertainment AppCategory = "entertainment"
	AppCategorySocial        AppCategory = "social"
	AppCategoryIgnore        AppCategory = "ignore"
	AppCategoryOther         AppCategory = "other"
)

// AppCatalog maps app identifiers to categories. The catalog ships with
// built-in defaults and can be extended or overridden from a YAML file.
type AppCatalog struct {
	categories map[string]AppCategory
}

// catalogFile is the YAML shape of a catalog override file.
type catalogFile struct {
	Categories map[string][]string `yaml:"categories"` // category -> app ids
}

// DefaultAppCatalog returns the built-in app category catalog.
func DefaultAppCatalog() *AppCatalog {
	c := &AppCatalog{categories: make(map[string]AppCategory)}

	defaults := map[AppCategory][]string{
		AppCategoryWork: {
			"com.microsoft.vscode", "com.jetbrains.goland", "com.apple.dt.xcode",
			"com.figma.desktop", "notion.id", "com.linear", "md.obsidian",
			"com.google.android.apps.docs", "com.microsoft.office.excel",
		},
		AppCategoryComms: {
			"com.tinyspeck.slackmacgap", "com.slack", "us.zoom.xos",
			"com.microsoft.teams", "com.google.android.gm", "com.apple.mail",
			"com.google.android.apps.meetings",
		},
		AppCategoryEntertainment: {
			"com.netflix.mediaclient", "com.google.android.youtube",
			"com.spotify.music", "tv.twitch.android.app", "com.valvesoftware.steam",
		},
		AppCategorySocial: {
			"com.instagram.android", "com.twitter.android", "com.zhiliaoapp.musically",
			"com.reddit.frontpage", "com.facebook.katana", "org.telegram.messenger",
			"com.whatsapp",
		},
		AppCategoryIgnore: {
			"com.android.systemui", "com.android.launcher", "com.apple.springboard",
			"com.android.settings",
		},
	}

	for category, ids := range defaults {
		for _, id := range ids {
			c.categories[id] = category
		}
	}

	return c
}

// LoadAppCatalog loads a catalog from a YAML file, layered on top of the
// built-in defaults. File entries win over defaults.
func LoadAppCatalog(path string) (*AppCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse app catalog: %w", err)
	}

	c := DefaultAppCatalog()
	for category, ids := range file.Categories {
		for _, id := range ids {
			c.categories[id] = AppCategory(category)
		}
	}

	return c, nil
}

// Category returns the category for an app ID, or AppCategoryOther when
// the app is not in the catalog.
func (c *AppCatalog) Category(appID string) AppCategory {
	if category, ok := c.categories[appID]; ok {
		return category
	}
	return AppCategoryOther
}

// Set assigns a category to an app ID.
func (c *AppCatalog) Set(appID string, category AppCategory) {
	c.categories[appID] = category
}
