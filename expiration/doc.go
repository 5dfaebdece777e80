// Package expiration provides the expiry arithmetic and policies for cache entries.
//
// Lifetimes are relative durations and expirations are absolute times. The Infinite lifetime maps
// to the Never expiration, which no policy treats as expired. The zero time.Time stands for an
// omitted expiration and is always expired.
package expiration
