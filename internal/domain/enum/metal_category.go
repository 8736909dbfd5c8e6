package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MetalCategory classifies scrap items in the catalog
type MetalCategory string

const (
	MetalCategoryFerrous    MetalCategory = "ferrous"
	MetalCategoryNonFerrous MetalCategory = "non_ferrous"
	MetalCategoryCopper     MetalCategory = "copper"
	MetalCategoryAluminum   MetalCategory = "aluminum"
	MetalCategorySteel      MetalCategory = "steel"
	MetalCategoryMixed      MetalCategory = "mixed"
)

func (c MetalCategory) String() string {
	return string(c)
}

// Valid reports whether the category is one of the known values
func (c MetalCategory) Valid() bool {
	switch c {
	case MetalCategoryFerrous, MetalCategoryNonFerrous, MetalCategoryCopper,
		MetalCategoryAluminum, MetalCategorySteel, MetalCategoryMixed:
		return true
	}
	return false
}

func (c MetalCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *MetalCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*c = MetalCategory(str)
	return nil
}

func (c MetalCategory) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *MetalCategory) Scan(value interface{}) error {
	if value == nil {
		*c = MetalCategoryMixed
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = MetalCategory(v)
	case []byte:
		*c = MetalCategory(string(v))
	}
	return nil
}
