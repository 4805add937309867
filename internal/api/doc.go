package api

// Package api is the HTTP client of the conversion service. It speaks the
// formats and convert endpoints plus the URL import endpoints, and turns
// failed responses into typed errors carrying the server's detail message.
