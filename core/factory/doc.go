// Package factory provides a small generic registry used to instantiate
// modules from configuration. Modules are defined by a type string and a
// map of raw settings. Factories decode the settings into typed structs
// and return the concrete implementation.
//
// The metrics sinks are the main users: the config lists sinks as
// {type, conf} pairs and the registry turns each into a MetricsSink.
package factory
