// Package auth gates HTTP access to the MCP endpoint with a single shared
// password.
//
// The password comes from the MCP_SERVER_PASSWORD environment variable,
// resolved once during configuration loading and injected into the Gate at
// construction. An unset or empty password disables the gate entirely and
// every request passes through ("open mode").
//
// Clients supply the password in the X-MCP-Password header or the pwd query
// parameter; the header wins when both are present. A missing and a wrong
// password are deliberately indistinguishable: both produce the same 403
// response with a fixed JSON body that never echoes the supplied value.
//
// The gate is implemented as HTTP middleware, keeping it decoupled from the
// MCP protocol layer. Rejection is stateless; there is no lockout and no
// retry tracking.
package auth
