// Package downloadcache keeps the most recently downloaded remote media on
// disk so re-runs against the same URL skip the network.
//
// The cache is bounded to Capacity entries keyed by (remote id, kind). Files
// live in one directory as <id>.<ext>; a JSON index maps "<id>-<ext>" to the
// filename in insertion order, oldest first. Inserting past capacity evicts
// the oldest entry and deletes its file. Entries whose file vanished are
// ignored by Lookup and dropped by Prune, which Insert runs after every write.
//
// Every read-modify-write of the index is serialized within the process by a
// mutex and across processes by an advisory lock file beside the index. Two
// processes that both miss on the same id will still both download it.
package downloadcache
