package api

import (
	"net/url"
	"strconv"
)

const indexesPath = "/v1/indexes/"

// Index-scoped path suffixes.
const (
	searchSuffix     = "/search"
	docsSuffix       = "/docs"
	variablesSuffix  = "/docs/variables"
	categoriesSuffix = "/docs/categories"
	promoteSuffix    = "/promote"
	functionsSuffix  = "/functions"
)

// IndexesURL is the account-level listing endpoint.
func IndexesURL(baseURL string) string {
	return baseURL + indexesPath
}

// IndexURL addresses one index. The name is escaped as a single opaque path
// segment, so "/", "?", "#" and spaces never split or terminate the path.
func IndexURL(baseURL, name string) string {
	return baseURL + indexesPath + url.PathEscape(name)
}

func functionURL(baseURL, name string, id int) string {
	return IndexURL(baseURL, name) + functionsSuffix + "/" + strconv.Itoa(id)
}
