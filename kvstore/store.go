// Package kvstore abstracts the key-value storage the auth client keeps its
// token pair in, as an injected capability so everything above it can be
// tested without a real storage backend.
package kvstore

// Store is a minimal string key-value store. Get returns ok=false for
// missing keys; Delete of a missing key is not an error.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}
