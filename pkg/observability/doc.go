/*
Package observability turns engine lifecycle hooks into metrics and logs.

Metrics registers Prometheus collectors and exposes them as domain.LifecycleHooks;
LogHooks does the same for a structured logger. Both can be combined with
LifecycleHooks.Merge and passed to markovchain.WithLifecycleHooks.
*/
package observability
