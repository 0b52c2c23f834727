package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a base connection URL with a database
// name. The ledger runs against a dedicated database next to others on
// the same cluster, so deployments configure the base URL once and name
// the database separately. sslmode=disable is added when the base URL
// does not choose an ssl mode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		// Not a URL we can rewrite; leave it alone and let pgx report it
		return baseURL
	}

	parsed.Path = "/" + strings.Trim(databaseName, "/")

	query := parsed.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
