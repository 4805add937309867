package model

// Package model defines the client's domain data: the selected input file, the
// conversion result and its scratch artifact, conversion tasks and the workflow
// step enum. Structures are plain values so the workflow can be tested without
// any rendering layer.
