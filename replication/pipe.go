package replication

import "github.com/karupanerura/ttlmemcache"

// Pipe feeds the outbound records of src into dst and returns the function that disconnects them.
// When src is in byte mode the records are encoded and written to dst; otherwise they are passed directly.
// Errors of dst are reported to its own error handler.
func Pipe[K ttlmemcache.KeyConstraint, V ttlmemcache.ValueConstraint](src, dst *Channel[K, V]) (detach func()) {
	if src.ByteMode() {
		return src.AttachWriter(dst)
	}
	return src.Attach(SinkFunc[K, V](func(r ttlmemcache.Record[K, V]) {
		_ = dst.Accept(r)
	}))
}
