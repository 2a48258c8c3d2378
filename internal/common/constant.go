// Package common contains shared constants and sentinel errors used across
// ModaCart components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer
// access token on authenticated requests.
const AuthorizationHeaderName = "Authorization"
