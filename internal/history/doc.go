// Package history records completed sweep runs in a local SQLite database.
//
// The store is an audit log for operators: it answers "when did this last
// run and what did it change" without re-reading server state. It never
// feeds retries or resumption; each sweep always starts from a fresh
// library listing.
package history
