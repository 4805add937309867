package workflow

import (
	"strings"

	"github.com/ytget/convertudo/internal/catalog"
	"github.com/ytget/convertudo/internal/locale"
)

// Choice is one selectable target format.
type Choice struct {
	Extension string
	Label     string
}

// ChoiceGroup is the options of one category.
type ChoiceGroup struct {
	Category string
	Label    string
	Options  []Choice
}

// FormatChoices is the content of the format selector. When Blocked is set
// the selector only shows Placeholder, disabled.
type FormatChoices struct {
	Placeholder string
	Blocked     bool
	Groups      []ChoiceGroup
}

// Flat reports whether the options render without group headers.
func (fc FormatChoices) Flat() bool {
	return len(fc.Groups) == 1
}

// Options returns all choices in display order.
func (fc FormatChoices) Options() []Choice {
	var out []Choice
	for _, g := range fc.Groups {
		out = append(out, g.Options...)
	}
	return out
}

// Find returns the choice for ext.
func (fc FormatChoices) Find(ext string) (Choice, bool) {
	for _, g := range fc.Groups {
		for _, c := range g.Options {
			if c.Extension == ext {
				return c, true
			}
		}
	}
	return Choice{}, false
}

// OptionLabel renders an extension the way the selector lists it.
func OptionLabel(ext string) string {
	return "." + strings.ToUpper(ext)
}

// buildChoices derives the selector content for an input extension.
func buildChoices(cat *catalog.Catalog, ext string, text Translator) (FormatChoices, error) {
	if cat == nil {
		return FormatChoices{
			Placeholder: text.GetText(locale.KeyCatalogUnavailable),
			Blocked:     true,
		}, ErrCatalogUnavailable
	}

	outputs := cat.ResolveOutputs(ext)
	if len(outputs) == 0 {
		return FormatChoices{
			Placeholder: text.Format(locale.KeyUnsupportedFormat, ext),
			Blocked:     true,
		}, &UnsupportedInputError{Ext: ext}
	}

	groups := cat.GroupByCategory(outputs)
	choices := FormatChoices{
		Placeholder: text.GetText(locale.KeySelectFormat),
		Groups:      make([]ChoiceGroup, 0, len(groups)),
	}
	for _, g := range groups {
		group := ChoiceGroup{
			Category: g.Category,
			Label:    groupLabel(g.Category, text),
			Options:  make([]Choice, 0, len(g.Extensions)),
		}
		for _, out := range g.Extensions {
			group.Options = append(group.Options, Choice{Extension: out, Label: OptionLabel(out)})
		}
		choices.Groups = append(choices.Groups, group)
	}
	return choices, nil
}

func groupLabel(category string, text Translator) string {
	name := category
	if category == catalog.OtherCategory {
		name = text.GetText(locale.KeyCategoryOther)
	}
	if icon := catalog.IconForCategory(category); icon != "" {
		return icon + " " + name
	}
	return name
}
