package session

import (
	"github.com/charmbracelet/log"

	"taskdeck/internal/category"
	"taskdeck/internal/config"
)

// OptionsFromConfig maps the loaded configuration onto session options.
func OptionsFromConfig(cfg config.Config, journal Journal, logger *log.Logger) Options {
	return Options{
		RootName:   cfg.RootName,
		Indent:     cfg.Indent,
		Removal:    ParseRemoval(cfg.TreeRemoval),
		Categories: categorySpecs(cfg.Categories),
		Journal:    journal,
		Logger:     logger,
	}
}

func ParseRemoval(v string) Removal {
	if v == config.RemovalShallow {
		return RemoveShallow
	}
	return RemoveDeep
}

func categorySpecs(cats []config.Category) []category.Spec {
	if len(cats) == 0 {
		return nil
	}
	out := make([]category.Spec, 0, len(cats))
	for _, c := range cats {
		out = append(out, category.Spec{Name: c.Name, Children: categorySpecs(c.Children)})
	}
	return out
}
