// The [erpdesk] package is the Go client SDK for the ERPDesk backend API:
// finance dashboards, finance reports, invoices, company management and
// system logs.
//
// # Client and services
//
// Construct a [Client] with [New], then reach each subsystem through its
// service: [Client.Invoices], [Client.Reports], [Client.Companies],
// [Client.SystemLogs] and [Client.Dashboard]. Each service owns one
// [github.com/erpdesk/erpdesk.go/pkg/store.Store] holding that subsystem's
// state (entity list, current entity, filters, sorting, pagination, loading
// and error flags) and exposes the fetch operations that mutate it. Callers
// read state through Snapshot/Subscribe and never dispatch actions directly.
//
// # Response envelope
//
// Every backend response carries a {Success, Message, Data} envelope, and
// collections inside Data may arrive wrapped in the serializer's
// {"$values": [...]} convention. Both are handled entirely inside
// [github.com/erpdesk/erpdesk.go/pkg/transport] and
// [github.com/erpdesk/erpdesk.go/pkg/wire]; the rest of the SDK only ever
// sees plain values.
//
// # Errors
//
// Failures surface as the typed errors of
// [github.com/erpdesk/erpdesk.go/pkg/transport]. Each service operation both
// records the failure in its store (for a global error banner) and returns
// it to the caller (for local handling), so nothing is ever swallowed
// silently. A 401 clears the stored credentials and fires the configured
// session-invalid hook.
//
// # Live system logs
//
// [Client.LogStream] tails the backend's live system-log feed over a
// WebSocket; see [github.com/erpdesk/erpdesk.go/pkg/logstream].
package erpdesk
