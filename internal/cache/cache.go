package cache

// Cache is the minimal surface the storage layer needs in front of the
// database. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Keys() []interface{}
	Delete(key interface{})
}
