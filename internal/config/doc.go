// Package config loads and validates ripple.json project configuration.
//
// A ripple.json file describes a demo project: the view template to serve,
// optional initial data, the server listen address, the scheduler frame
// interval, and metrics settings. Missing fields fall back to defaults, so
// an empty file is a valid configuration.
package config
