// Package events implements pub/sub fan-out of event updates over an
// external PUBLISH/SUBSCRIBE store.
//
// Publish resolves the event through the read-through cache, builds an Update
// with a fresh timestamp, and fires it at whoever is currently subscribed;
// there is no buffering for late joiners. Listen runs a blocking loop that
// hands every data frame to a handler, wrapping undecodable payloads so they
// are reported rather than silently dropped.
package events
