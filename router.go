package jido

import "strings"

// RouteHandler turns a matched signal into zero or more instructions for
// the strategy to act on.
type RouteHandler func(signal Signal) []Instruction

// Route binds a signal type pattern to a handler. Pattern is either an
// exact dotted type ("ping", "user.message") or a prefix glob ending in
// "*" ("jido.agent.*", "*").
type Route struct {
	Pattern string
	Handler RouteHandler
}

type compiledRoute struct {
	route      Route
	prefix     string
	isGlob     bool
	insertOrd  int
}

// Router is the per-agent signal router: a table of (type_pattern,
// handler) bindings supporting exact match, prefix globs, and priority
// ordering where more specific patterns win and ties are broken by
// insertion order.
type Router struct {
	routes []compiledRoute
}

// NewRouter builds a Router from an initial set of routes, in the order
// they should be considered for insertion-order tie-breaking.
func NewRouter(routes ...Route) *Router {
	r := &Router{}
	for _, rt := range routes {
		r.Add(rt)
	}
	return r
}

// Add registers a new route. Later calls break ties after earlier ones.
func (r *Router) Add(route Route) {
	cr := compiledRoute{route: route, insertOrd: len(r.routes)}
	if strings.HasSuffix(route.Pattern, "*") {
		cr.isGlob = true
		cr.prefix = strings.TrimSuffix(route.Pattern, "*")
	}
	r.routes = append(r.routes, cr)
}

// Match returns the ordered list of handlers bound to patterns that match
// signal.Type, most specific first. An exact match always outranks a glob
// match; among globs, a longer prefix outranks a shorter one; ties are
// broken by insertion order.
func (r *Router) Match(signal Signal) []RouteHandler {
	type scored struct {
		handler RouteHandler
		score   int
		ord     int
	}
	var hits []scored
	for _, cr := range r.routes {
		if cr.isGlob {
			if strings.HasPrefix(signal.Type, cr.prefix) {
				hits = append(hits, scored{cr.route.Handler, len(cr.prefix), cr.insertOrd})
			}
			continue
		}
		if cr.route.Pattern == signal.Type {
			hits = append(hits, scored{cr.route.Handler, len(signal.Type)*2 + 1, cr.insertOrd})
		}
	}
	// stable sort by score desc, then insertion order asc.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0; j-- {
			a, b := hits[j-1], hits[j]
			if a.score < b.score || (a.score == b.score && a.ord > b.ord) {
				hits[j-1], hits[j] = hits[j], hits[j-1]
				continue
			}
			break
		}
	}
	handlers := make([]RouteHandler, len(hits))
	for i, h := range hits {
		handlers[i] = h.handler
	}
	return handlers
}
