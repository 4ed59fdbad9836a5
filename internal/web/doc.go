// Package web serves the HTML surface: list and task pages, registration,
// login, and logout. Every route runs through the session middleware, which
// attaches the resolved actor to the request context before the handler sees
// it. Handlers never compare identities; ownership decisions come back from
// the lifecycle service as typed errors and are mapped to 403/404 here.
package web
