// Package history records completed pipeline runs to a SQLite database so
// operators can audit stage outcomes without scraping the run log. The store
// is observational only: the runner writes summaries and never reads them.
package history
