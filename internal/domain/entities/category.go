package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the closed material taxonomy. Values outside the seven
// constants below never leave ParseCategory or NormalizeCategoryName.
type Category string

const (
	CategoryChemicals    Category = "Chemicals"
	CategoryGlassware    Category = "Glassware"
	CategoryElectronics  Category = "Electronics"
	CategoryMetals       Category = "Metals"
	CategoryPlastics     Category = "Plastics"
	CategoryBioMaterials Category = "Bio Materials"
	CategoryOther        Category = "Other"
)

// Categories lists the taxonomy in display order.
var Categories = []Category{
	CategoryChemicals,
	CategoryGlassware,
	CategoryElectronics,
	CategoryMetals,
	CategoryPlastics,
	CategoryBioMaterials,
	CategoryOther,
}

// ErrUnknownCategory is returned by ParseCategory for labels outside the taxonomy.
var ErrUnknownCategory = errors.New("unknown material category")

// categorySynonyms maps lowercase labels an inference model is known to emit
// onto the canonical taxonomy. Lookups are exact after trimming and lowercasing.
var categorySynonyms = map[string]Category{
	"chemical":      CategoryChemicals,
	"reagent":       CategoryChemicals,
	"reagents":      CategoryChemicals,
	"glass":         CategoryGlassware,
	"lab glass":     CategoryGlassware,
	"electronic":    CategoryElectronics,
	"wire":          CategoryElectronics,
	"wires":         CategoryElectronics,
	"cable":         CategoryElectronics,
	"cables":        CategoryElectronics,
	"circuit":       CategoryElectronics,
	"circuits":      CategoryElectronics,
	"sensor":        CategoryElectronics,
	"sensors":       CategoryElectronics,
	"metal":         CategoryMetals,
	"steel":         CategoryMetals,
	"copper":        CategoryMetals,
	"aluminum":      CategoryMetals,
	"aluminium":     CategoryMetals,
	"iron":          CategoryMetals,
	"plastic":       CategoryPlastics,
	"polymer":       CategoryPlastics,
	"polymers":      CategoryPlastics,
	"bio material":  CategoryBioMaterials,
	"biomaterial":   CategoryBioMaterials,
	"biomaterials":  CategoryBioMaterials,
	"biological":    CategoryBioMaterials,
	"miscellaneous": CategoryOther,
}

// IsValid reports whether c is one of the seven canonical categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// UnmarshalText only accepts canonical names.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a canonical category name, ignoring case and
// surrounding whitespace. Synonyms are rejected.
func ParseCategory(name string) (Category, error) {
	trimmed := strings.TrimSpace(name)
	for _, known := range Categories {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// NormalizeCategoryName maps an arbitrary label onto the taxonomy: canonical
// names map to themselves, known synonyms to their canonical category, and
// everything else to Other.
func NormalizeCategoryName(name string) Category {
	if c, err := ParseCategory(name); err == nil {
		return c
	}
	if c, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return CategoryOther
}
