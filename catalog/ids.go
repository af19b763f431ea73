package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BasePermission is the node every category and sub-category permission is
// attached under.
const BasePermission = "simpleshop.category"

const subCategoryPermissionPrefix = "simpleshop.subcategory"

// DeriveID turns a display name into an entity id: lower-cased, with spaces
// replaced by underscores. Ids are derived once at creation and never
// re-derived on rename.
func DeriveID(name string) string {
	// A Caser is stateful, so one is built per call
	return cases.Lower(language.Und).String(strings.ReplaceAll(name, " ", "_"))
}

// CategoryPermission returns the default permission for a top-level category
func CategoryPermission(id string) string {
	return BasePermission + "." + cases.Lower(language.Und).String(id)
}

// SubCategoryPermission returns the default permission for a sub-category
func SubCategoryPermission(parentID, id string) string {
	lower := cases.Lower(language.Und)
	return subCategoryPermissionPrefix + "." + lower.String(parentID) + "." + lower.String(id)
}
