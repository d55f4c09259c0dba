// Package display turns generator namespaces into titles shown to the user.
package display

import (
	"strings"

	"github.com/ettle/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NamespaceToName returns the package part of a namespace ("webapp:app" -> "webapp").
func NamespaceToName(namespace string) string {
	name, _, _ := strings.Cut(namespace, ":")
	return name
}

// Humanize converts a camelCased, dashed or underscored identifier into
// lower-case space-separated words.
func Humanize(s string) string {
	return strings.Join(strings.Fields(strcase.ToCase(s, strcase.LowerCase, ' ')), " ")
}

// PrettyName builds the title of a generator from its namespace.
func PrettyName(namespace string) string {
	return cases.Title(language.Und).String(Humanize(NamespaceToName(namespace)))
}
