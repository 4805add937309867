package convert

// Package convert runs conversion tasks against the service API. Each
// successful task leaves its result in a scratch artifact file that stands in
// for a revocable download reference: it lives until it is released or the
// service is closed.
