// Package common contains shared constants and sentinel errors used across
// groupcon components.
package common

// AccessTokenHeaderName is the HTTP header used to carry the session token
// on inbound requests.
const AccessTokenHeaderName = "Authorization"
