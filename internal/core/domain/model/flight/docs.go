// Package flight holds the Flight aggregate that baggage records reference.
package flight
