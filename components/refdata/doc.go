// Package refdata provides reference option catalogs (vendors, projects,
// items, units) with search helpers and a small net/http handler that
// returns JSON options for entry surfaces.
//
// The default handler responds to GET and HEAD requests. The catalog is
// selected with a query parameter and results can be filtered with query
// and limit parameters. A built-in unit catalog ships embedded under
// data/units.txt; domain catalogs are supplied by the host application.
package refdata
