// Package fetch performs the HTTP GETs behind the scraper.
//
// A Fetcher sets the tool's User-Agent, rejects non-2xx responses and decodes
// the body to UTF-8 using the charset named by the response. Retries with
// exponential backoff are available but disabled unless MaxRetries is set.
package fetch
