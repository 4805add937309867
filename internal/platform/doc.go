package platform

// Package platform contains OS integration glue: the downloads directory,
// saving results under a free name, and OS open/reveal.
