// Package items exposes heterogeneous stored data as format-typed items.
//
// Every item owns a PropertyStore: a multi-valued, alias-aware property map.
// Some properties are supplied by the storage backend (storage-origin) and
// always shadow the others; the rest are produced by parsing the item's raw
// content (parsed-origin), which happens lazily on the first read that needs
// them and at most once per item.
//
// Formats are plugged in through a Registry keyed by format identifier:
//
//	reg := items.NewRegistry()
//	_ = reg.Register("binary", items.AtomFactory(items.Binary{}))
//	item, err := reg.Create(accessPoint, opener, storage)
//
// Items are not safe for concurrent use. Keep one item per unit of work or
// guard it with an external lock.
package items
