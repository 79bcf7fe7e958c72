package item

// Identity tag keys written on dropped items.
const (
	KeyCustomItem       = "dropforge:custom-item"
	KeyTier             = "dropforge:tier"
	KeyAlreadyBroadcast = "dropforge:already-broadcast"
)

// MetadataStore reads and writes persistent tags on item records.
type MetadataStore interface {
	Tag(it *Item, key string) (string, bool)
	SetTag(it *Item, key, value string)
	BoolTag(it *Item, key string) (bool, bool)
	SetBoolTag(it *Item, key string, value bool)
}

// NewTagStore returns the store for a host. Hosts without persistent tag
// support get a store that never finds or keeps anything.
func NewTagStore(persistentTags bool) MetadataStore {
	if persistentTags {
		return PersistentTags{}
	}
	return NoTags{}
}

// PersistentTags keeps tags on the item record itself, so they survive
// Clone and travel with the item.
type PersistentTags struct{}

func (PersistentTags) Tag(it *Item, key string) (string, bool) {
	if it == nil {
		return "", false
	}
	v, ok := it.tags[key]
	return v, ok
}

func (PersistentTags) SetTag(it *Item, key, value string) {
	if it == nil {
		return
	}
	if it.tags == nil {
		it.tags = make(map[string]string)
	}
	it.tags[key] = value
}

func (PersistentTags) BoolTag(it *Item, key string) (bool, bool) {
	if it == nil {
		return false, false
	}
	v, ok := it.flags[key]
	return v, ok
}

func (PersistentTags) SetBoolTag(it *Item, key string, value bool) {
	if it == nil {
		return
	}
	if it.flags == nil {
		it.flags = make(map[string]bool)
	}
	it.flags[key] = value
}

// NoTags is the store for hosts that predate persistent item tags.
type NoTags struct{}

func (NoTags) Tag(*Item, string) (string, bool)   { return "", false }
func (NoTags) SetTag(*Item, string, string)       {}
func (NoTags) BoolTag(*Item, string) (bool, bool) { return false, false }
func (NoTags) SetBoolTag(*Item, string, bool)     {}
