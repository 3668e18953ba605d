// Package navigation builds the role-filtered, localised link list of the
// dashboard's top bar.
package navigation

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Languages are the locales shipped with the binary. English is the fallback.
var Languages = []string{"en", "es", "fr", "de", "ar", "zh"}

// Link is one navigation entry.
type Link struct {
	Key   string          `json:"key"`
	Path  string          `json:"path"`
	Label string          `json:"label"`
	Roles []identity.Role `json:"-"`
}

// links is the static table; a link is shown when the session role is a member
// of its Roles.
var links = []Link{
	{Key: "dashboard", Path: "/dashboard", Roles: []identity.Role{identity.RoleSupplier, identity.RoleAdmin}},
	{Key: "analytics", Path: "/analytics", Roles: []identity.Role{identity.RoleSupplier, identity.RoleAdmin}},
	{Key: "contracts", Path: "/contracts", Roles: []identity.Role{identity.RoleSupplier, identity.RoleAdmin}},
	{Key: "newContract", Path: "/contracts/new", Roles: []identity.Role{identity.RoleSupplier}},
	{Key: "manageIssues", Path: "/admin/issues", Roles: []identity.Role{identity.RoleAdmin}},
	{Key: "profile", Path: "/profile", Roles: []identity.Role{identity.RoleSupplier, identity.RoleAdmin}},
}

// Menu is the localised navigation for one session.
type Menu struct {
	Lang  string `json:"lang"`
	Dir   string `json:"dir"`
	Links []Link `json:"links"`
}

type Navigator struct {
	bundle *i18n.Bundle
}

// New loads the embedded message files.
func New() (*Navigator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, lang := range Languages {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/active."+lang+".json"); err != nil {
			return nil, fmt.Errorf("load %s messages: %w", lang, err)
		}
	}
	return &Navigator{bundle: bundle}, nil
}

// Links returns the entries visible to role with labels in lang. lang is a
// language tag or an Accept-Language value; the first supported language wins
// and English is the fallback.
func (n *Navigator) Links(role identity.Role, lang string) Menu {
	resolved := resolveLang(lang)
	localizer := i18n.NewLocalizer(n.bundle, resolved)

	menu := Menu{Lang: resolved, Dir: "ltr", Links: []Link{}}
	if resolved == "ar" {
		menu.Dir = "rtl"
	}
	for _, l := range links {
		if !role.In(l.Roles...) {
			continue
		}
		label, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: l.Key})
		if err != nil {
			label = l.Key
		}
		menu.Links = append(menu.Links, Link{Key: l.Key, Path: l.Path, Label: label})
	}
	return menu
}

func resolveLang(lang string) string {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil {
		return "en"
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if slices.Contains(Languages, base.String()) {
			return base.String()
		}
	}
	return "en"
}
