// Package storage persists scraped clubs as tabular rows.
//
// Every writer implements Sink and writes the clubs in the order given. File
// sinks (CSV, XLSX, GeoJSON) overwrite their target; the format is picked from
// the file extension unless one is named explicitly. The PostgreSQL sink
// upserts rows into a golf_clubs table inside a single transaction.
package storage
