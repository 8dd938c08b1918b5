package context

import (
	"net/http"
	"net/url"
)

// URIInfo describes how the current request was matched by its framework.
type URIInfo struct {
	// Framework names the router that matched the request (gin, chi, ...).
	Framework string

	// Path is the request path as received by the router.
	Path string

	// Pattern is the route template that matched, e.g. "/resources/{name}".
	Pattern string

	// Params holds the path parameters extracted by the router.
	Params map[string]string

	// Query holds the parsed query string.
	Query url.Values
}

// NewURIInfo builds route information for r.
func NewURIInfo(framework string, r *http.Request, pattern string, params map[string]string) *URIInfo {
	info := &URIInfo{
		Framework: framework,
		Pattern:   pattern,
		Params:    params,
	}

	if info.Params == nil {
		info.Params = map[string]string{}
	}

	if r != nil && r.URL != nil {
		info.Path = r.URL.Path
		info.Query = r.URL.Query()
	}

	return info
}

// Param returns the named path parameter, or "" if absent.
func (u *URIInfo) Param(name string) string {
	if u == nil {
		return ""
	}

	return u.Params[name]
}

// HTTPContext is the state of one in-flight request/response exchange.
// It is created by the dispatch layer, bound into a Registry for the lifetime
// of the request, and shared by pointer with every handling stage.
type HTTPContext struct {
	uriInfo    *URIInfo
	request    *http.Request
	response   http.ResponseWriter
	properties *Properties
}

// NewHTTPContext creates an exchange with an empty property bag.
func NewHTTPContext(req *http.Request, resp http.ResponseWriter, uri *URIInfo) *HTTPContext {
	return &HTTPContext{
		uriInfo:    uri,
		request:    req,
		response:   resp,
		properties: NewProperties(),
	}
}

// WithProperties replaces the property bag with p, so a forwarded exchange
// shares ancillary state with the exchange it was forwarded from.
func (hc *HTTPContext) WithProperties(p *Properties) *HTTPContext {
	if p != nil {
		hc.properties = p
	}

	return hc
}

// URIInfo returns the route information, or nil.
func (hc *HTTPContext) URIInfo() *URIInfo {
	if hc == nil {
		return nil
	}

	return hc.uriInfo
}

// Request returns the inbound request, or nil.
func (hc *HTTPContext) Request() *http.Request {
	if hc == nil {
		return nil
	}

	return hc.request
}

// Response returns the outbound response writer, or nil.
func (hc *HTTPContext) Response() http.ResponseWriter {
	if hc == nil {
		return nil
	}

	return hc.response
}

// Properties returns the property bag, or nil.
func (hc *HTTPContext) Properties() *Properties {
	if hc == nil {
		return nil
	}

	return hc.properties
}
