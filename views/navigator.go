// Package views holds the headless state and actions of every screen. A front
// end renders the exported fields and calls the action methods.
package views

import "net/url"

const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteForms    = "/forms"
	RouteProfile  = "/profile"
)

func FormRoute(id string) string          { return RouteForms + "/" + url.PathEscape(id) }
func FormEditRoute(id string) string      { return FormRoute(id) + "/edit" }
func FormResponsesRoute(id string) string { return FormRoute(id) + "/responses" }

// Navigator moves the front end to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// History records every navigation; the last entry is the current route.
type History struct {
	Paths []string
}

func (h *History) Navigate(path string) { h.Paths = append(h.Paths, path) }

func (h *History) Current() string {
	if len(h.Paths) == 0 {
		return ""
	}
	return h.Paths[len(h.Paths)-1]
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

func navOrNop(n Navigator) Navigator {
	if n == nil {
		return nopNavigator{}
	}
	return n
}
