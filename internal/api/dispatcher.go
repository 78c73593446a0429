package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/tilemux/tilemux/internal/config"
	"github.com/tilemux/tilemux/internal/log"
)

// APIPrefix is the mount point stripped from the request path before
// pattern matching.
const APIPrefix = "/api"

// Handlers advertise the verbs they support by implementing one interface
// per verb. A verb without a matching interface on the resolved handler is
// a 405.
type getter interface {
	Get(r *http.Request, args []string) (*response, error)
}

type putter interface {
	Put(r *http.Request, args []string) (*response, error)
}

type poster interface {
	Post(r *http.Request, args []string) (*response, error)
}

type deleter interface {
	Delete(r *http.Request, args []string) (*response, error)
}

// response is what a handler produces on success. A nil data field means an
// empty 200 body.
type response struct {
	status  int
	data    interface{}
	headers map[string]string
}

func jsonResponse(data interface{}) *response {
	return &response{status: http.StatusOK, data: data}
}

func emptyResponse() *response {
	return &response{status: http.StatusOK}
}

func (r *response) withHeader(key, value string) *response {
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	r.headers[key] = value
	return r
}

// route pairs a URL pattern with the factory producing its handler. The
// pattern is anchored to the whole path at compile time; parenthesized
// groups become the handler's positional args.
type route struct {
	pattern string
	factory func(*base) interface{}
}

// adminRoutes is the route table of the admin API. Order matters: the
// first matching pattern wins, so keep collection patterns ahead of the
// item patterns they overlap with.
var adminRoutes = []route{
	{`/config`, func(b *base) interface{} { return &configHandler{base: b} }},
	{`/config/pack`, func(b *base) interface{} { return &packListHandler{base: b} }},
	{`/config/pack/(.+)`, func(b *base) interface{} { return &packHandler{base: b} }},
	{`/config/layer`, func(b *base) interface{} { return &layerListHandler{base: b} }},
	{`/config/layer/(.+)`, func(b *base) interface{} { return &layerHandler{base: b} }},
	{`/config/cache`, func(b *base) interface{} { return &itemListHandler[config.Cache]{base: b, coll: cacheCollection} }},
	{`/config/cache/(.+)`, func(b *base) interface{} { return &itemHandler[config.Cache]{base: b, coll: cacheCollection} }},
	{`/config/source`, func(b *base) interface{} { return &itemListHandler[config.Source]{base: b, coll: sourceCollection} }},
	{`/config/source/(.+)`, func(b *base) interface{} { return &itemHandler[config.Source]{base: b, coll: sourceCollection} }},
}

type compiledRoute struct {
	re      *regexp.Regexp
	factory func(*base) interface{}
}

// Dispatcher resolves admin API requests against an ordered pattern table
// and invokes the matching handler.
type Dispatcher struct {
	configPath string
	routes     []compiledRoute
	check      checkFunc
}

// NewDispatcher compiles the admin route table for the document at
// configPath.
func NewDispatcher(configPath string) *Dispatcher {
	return newDispatcher(configPath, adminRoutes, defaultCheck)
}

// newDispatcher is the injectable core. Tests swap in their own route
// tables or candidate checks.
func newDispatcher(configPath string, routes []route, check checkFunc) *Dispatcher {
	d := &Dispatcher{configPath: configPath, check: check}
	for _, rt := range routes {
		d.routes = append(d.routes, compiledRoute{
			re:      regexp.MustCompile(anchorPattern(rt.pattern)),
			factory: rt.factory,
		})
	}
	return d
}

func anchorPattern(pattern string) string {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern = pattern + "$"
	}
	return pattern
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// r.URL.Path arrives percent-decoded, so captures need no unescaping.
	path := strings.TrimPrefix(r.URL.Path, APIPrefix)

	for _, rt := range d.routes {
		m := rt.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		b := &base{store: config.NewStore(d.configPath), check: d.check}
		res, err := invoke(rt.factory(b), r, m[1:])
		if err != nil {
			d.renderError(w, r, err)
			return
		}
		renderResponse(w, res)
		return
	}

	writeError(w, NotFound("Not found"))
}

func invoke(h interface{}, r *http.Request, args []string) (*response, error) {
	switch r.Method {
	case http.MethodGet:
		if g, ok := h.(getter); ok {
			return g.Get(r, args)
		}
	case http.MethodPut:
		if p, ok := h.(putter); ok {
			return p.Put(r, args)
		}
	case http.MethodPost:
		if p, ok := h.(poster); ok {
			return p.Post(r, args)
		}
	case http.MethodDelete:
		if del, ok := h.(deleter); ok {
			return del.Delete(r, args)
		}
	}
	return nil, NotAllowed("Not allowed")
}

func (d *Dispatcher) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		writeError(w, clientErr)
		return
	}

	log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
	writeInternalError(w, "Internal server error")
}

func renderResponse(w http.ResponseWriter, res *response) {
	for key, value := range res.headers {
		w.Header().Set(key, value)
	}
	if res.data == nil {
		w.WriteHeader(res.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.status)
	json.NewEncoder(w).Encode(res.data)
}
