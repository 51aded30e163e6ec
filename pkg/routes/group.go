// Package routes declares grouped HTTP routes and registers them on a ServeMux.
package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JaimeStill/lawfinder/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk("", nil, groups, func(path string, _ []string, route Route) {
		mux.HandleFunc(route.Method+" "+path, route.Handler)
	})
}

// Describe adds every documented route to spec under basePath.
// Operations without tags inherit the tags of their enclosing groups.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) error {
	var errs []error
	walk(basePath, nil, groups, func(path string, tags []string, route Route) {
		if route.OpenAPI == nil {
			return
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		if err := spec.Add(route.Method, openapiPath(path), &op); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

func walk(prefix string, tags []string, groups []Group, fn func(path string, tags []string, route Route)) {
	for _, group := range groups {
		full := prefix + group.Prefix
		groupTags := append(append([]string{}, tags...), group.Tags...)

		for _, route := range group.Routes {
			fn(full+route.Pattern, groupTags, route)
		}
		walk(full, groupTags, group.Children, fn)
	}
}

func openapiPath(pattern string) string {
	return strings.ReplaceAll(pattern, "...}", "}")
}
