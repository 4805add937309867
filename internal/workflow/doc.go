// Package workflow drives the Upload, Configure and Result steps of a
// conversion session and reports every state change to a View.
package workflow
