package constants

// Query Parameter Names
const (
	QueryParamPage   = "page"
	QueryParamLimit  = "limit"
	QueryParamSearch = "search"
)

// Pagination Defaults
const (
	DefaultPage   = "1"
	DefaultLimit  = "10"
	DefaultSearch = ""
	MinPage       = 1
	MinLimit      = 1
	MaxLimit      = 100
)
