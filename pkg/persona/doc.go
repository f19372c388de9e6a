// Package persona resolves which persona configuration steers a generation
// request.
//
// Resolution is a server-side authorization decision: admins may select any
// registered admin-scoped persona by id and receive its stored configuration
// verbatim; everyone else receives their own default persona. A non-admin
// naming an admin-scoped persona id is denied outright. Client UIs only
// reflect this decision, they never enforce it.
//
// Persona catalogs can live in memory or be loaded from YAML files managed
// by ops.
package persona
