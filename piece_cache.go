package textlayout

import (
	"sync"
	"sync/atomic"
)

// MaxPieceLength is the longest range, in runes, that is shaped as a
// single cached piece. Longer style runs are measured in chunks of
// this size so cache entries stay small and reusable.
const MaxPieceLength = 128

// PieceCacheConfig holds configuration for PieceCache.
type PieceCacheConfig struct {
	// MaxEntries is the maximum number of cached pieces.
	// Default: 4096
	MaxEntries int

	// FrameLifetime is the number of frames an entry can be unused
	// before being eligible for eviction during Maintain().
	// Default: 256
	FrameLifetime int
}

// DefaultPieceCacheConfig returns the default cache configuration.
func DefaultPieceCacheConfig() PieceCacheConfig {
	return PieceCacheConfig{
		MaxEntries:    4096,
		FrameLifetime: 256,
	}
}

// PieceKey uniquely identifies a cached piece. Text is compared by
// content, so two equal ranges from different buffers share one entry.
type PieceKey struct {
	// Text is the exact rune content of the shaped range.
	Text string

	// RTL is the run direction the range was shaped in.
	RTL bool

	// Style is the measurement-affecting subset of the paint.
	Style StyleKey
}

// pieceEntry is an internal cache entry.
type pieceEntry struct {
	key   PieceKey
	piece *Piece

	// prev and next for LRU doubly-linked list
	prev *pieceEntry
	next *pieceEntry

	lastAccessFrame uint64
}

// pieceShard is a single shard of the piece cache.
type pieceShard struct {
	mu sync.RWMutex

	entries map[PieceKey]*pieceEntry

	// head is the most recently used entry
	head *pieceEntry

	// tail is the least recently used entry
	tail *pieceEntry

	maxEntries int
	count      int
}

// PieceCacheStats holds cache statistics.
type PieceCacheStats struct {
	Hits       atomic.Uint64
	Misses     atomic.Uint64
	Evictions  atomic.Uint64
	Insertions atomic.Uint64
}

// PieceCache memoizes shaping results keyed by text content, direction
// and style. Shaping dominates measurement cost, so every measured
// paragraph runs its style ranges through a cache; equal text in equal
// style shapes exactly once until evicted.
//
// The cache is sharded to reduce lock contention and evicts least
// recently used entries at capacity. It supports frame-based eviction
// through Maintain(). There is no process-wide instance; callers own
// their caches and pass them to the Builder explicitly.
//
// PieceCache is safe for concurrent use.
type PieceCache struct {
	shards [numPieceShards]*pieceShard

	config PieceCacheConfig

	currentFrame atomic.Uint64

	stats PieceCacheStats
}

// numPieceShards is the number of cache shards.
const numPieceShards = 16

// NewPieceCache creates a piece cache with default configuration.
func NewPieceCache() *PieceCache {
	return NewPieceCacheWithConfig(DefaultPieceCacheConfig())
}

// NewPieceCacheWithConfig creates a piece cache with the given
// configuration.
func NewPieceCacheWithConfig(config PieceCacheConfig) *PieceCache {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 4096
	}
	if config.FrameLifetime <= 0 {
		config.FrameLifetime = 256
	}

	c := &PieceCache{
		config: config,
	}

	entriesPerShard := (config.MaxEntries + numPieceShards - 1) / numPieceShards

	for i := 0; i < numPieceShards; i++ {
		c.shards[i] = &pieceShard{
			entries:    make(map[PieceKey]*pieceEntry, entriesPerShard),
			maxEntries: entriesPerShard,
		}
	}

	return c
}

// Get retrieves a cached piece.
// Returns nil if not found.
func (c *PieceCache) Get(key PieceKey) *Piece {
	shard := c.getShard(key)
	frame := c.currentFrame.Load()

	shard.mu.Lock()
	entry, ok := shard.entries[key]
	if !ok {
		shard.mu.Unlock()
		c.stats.Misses.Add(1)
		return nil
	}

	entry.lastAccessFrame = frame
	shard.moveToFront(entry)
	piece := entry.piece
	shard.mu.Unlock()

	c.stats.Hits.Add(1)
	return piece
}

// Set stores a piece in the cache.
// If the cache is full, the least recently used entry is evicted.
func (c *PieceCache) Set(key PieceKey, piece *Piece) {
	if piece == nil {
		return
	}

	shard := c.getShard(key)
	frame := c.currentFrame.Load()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if existing, ok := shard.entries[key]; ok {
		existing.piece = piece
		existing.lastAccessFrame = frame
		shard.moveToFront(existing)
		return
	}

	entry := &pieceEntry{
		key:             key,
		piece:           piece,
		lastAccessFrame: frame,
	}

	for shard.count >= shard.maxEntries && shard.tail != nil {
		shard.removeTail()
		c.stats.Evictions.Add(1)
	}

	shard.entries[key] = entry
	shard.addToFront(entry)
	shard.count++
	c.stats.Insertions.Add(1)
}

// GetOrCreate retrieves a cached piece or creates one using the
// provided function. Concurrent callers with the same key may both
// run create; the first Set wins and later results are discarded in
// favor of the stored entry's immutability guarantee.
func (c *PieceCache) GetOrCreate(key PieceKey, create func() *Piece) *Piece {
	shard := c.getShard(key)
	frame := c.currentFrame.Load()

	shard.mu.RLock()
	if _, ok := shard.entries[key]; ok {
		shard.mu.RUnlock()
		shard.mu.Lock()
		if entry, ok := shard.entries[key]; ok {
			entry.lastAccessFrame = frame
			shard.moveToFront(entry)
			piece := entry.piece
			shard.mu.Unlock()
			c.stats.Hits.Add(1)
			return piece
		}
		shard.mu.Unlock()
	} else {
		shard.mu.RUnlock()
	}

	if create == nil {
		c.stats.Misses.Add(1)
		return nil
	}

	piece := create()
	if piece != nil {
		c.Set(key, piece)
	} else {
		c.stats.Misses.Add(1)
	}
	return piece
}

// Delete removes an entry from the cache.
func (c *PieceCache) Delete(key PieceKey) {
	shard := c.getShard(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.entries[key]
	if !ok {
		return
	}

	shard.remove(entry)
	delete(shard.entries, key)
	shard.count--
}

// Clear removes all entries, for example after a font registry reload
// invalidates every shaped result.
func (c *PieceCache) Clear() {
	for i := 0; i < numPieceShards; i++ {
		shard := c.shards[i]
		shard.mu.Lock()
		shard.entries = make(map[PieceKey]*pieceEntry, shard.maxEntries)
		shard.head = nil
		shard.tail = nil
		shard.count = 0
		shard.mu.Unlock()
	}
}

// Maintain performs periodic maintenance on the cache.
// It evicts entries that haven't been accessed for FrameLifetime
// frames. Call this once per frame for frame-based eviction.
func (c *PieceCache) Maintain() {
	frame := c.currentFrame.Add(1)
	frameLifetime := max(c.config.FrameLifetime, 1)

	frameLifetimeU64 := uint64(frameLifetime)
	if frame < frameLifetimeU64 {
		return
	}
	threshold := frame - frameLifetimeU64

	evicted := 0
	for i := 0; i < numPieceShards; i++ {
		shard := c.shards[i]
		shard.mu.Lock()

		// Walk from tail (oldest) and evict stale entries
		entry := shard.tail
		for entry != nil && entry.lastAccessFrame < threshold {
			prev := entry.prev
			delete(shard.entries, entry.key)
			shard.remove(entry)
			shard.count--
			c.stats.Evictions.Add(1)
			evicted++
			entry = prev
		}

		shard.mu.Unlock()
	}
	if evicted > 0 {
		Logger().Debug("piece cache maintenance", "evicted", evicted, "frame", frame)
	}
}

// Len returns the total number of cached entries.
func (c *PieceCache) Len() int {
	total := 0
	for i := 0; i < numPieceShards; i++ {
		shard := c.shards[i]
		shard.mu.RLock()
		total += shard.count
		shard.mu.RUnlock()
	}
	return total
}

// MemoryUsage estimates the total heap footprint of cached pieces.
func (c *PieceCache) MemoryUsage() int {
	total := 0
	for i := 0; i < numPieceShards; i++ {
		shard := c.shards[i]
		shard.mu.RLock()
		for _, e := range shard.entries {
			total += len(e.key.Text) + e.piece.MemoryUsage()
		}
		shard.mu.RUnlock()
	}
	return total
}

// Stats returns cache statistics.
func (c *PieceCache) Stats() (hits, misses, evictions, insertions uint64) {
	return c.stats.Hits.Load(),
		c.stats.Misses.Load(),
		c.stats.Evictions.Load(),
		c.stats.Insertions.Load()
}

// HitRate returns the cache hit rate as a percentage.
// Returns 0 if there are no accesses.
func (c *PieceCache) HitRate() float64 {
	hits := c.stats.Hits.Load()
	misses := c.stats.Misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// ResetStats resets the cache statistics.
func (c *PieceCache) ResetStats() {
	c.stats.Hits.Store(0)
	c.stats.Misses.Store(0)
	c.stats.Evictions.Store(0)
	c.stats.Insertions.Store(0)
}

// getShard returns the shard for the given key.
func (c *PieceCache) getShard(key PieceKey) *pieceShard {
	// FNV-1a over the text, then mix in the style fields.
	h := uint64(14695981039346656037)
	for i := 0; i < len(key.Text); i++ {
		h = (h ^ uint64(key.Text[i])) * 1099511628211
	}
	h = h*31 + key.Style.FontID
	h = h*31 + key.Style.SizeBits
	h = h*31 + uint64(key.Style.Weight) //#nosec G115 -- hash only
	if key.Style.Italic {
		h = h*31 + 1
	}
	for i := 0; i < len(key.Style.Locale); i++ {
		h = h*31 + uint64(key.Style.Locale[i])
	}
	if key.RTL {
		h = h*31 + 1
	}
	return c.shards[h%numPieceShards]
}

// addToFront adds an entry to the front of the LRU list.
func (s *pieceShard) addToFront(entry *pieceEntry) {
	entry.prev = nil
	entry.next = s.head

	if s.head != nil {
		s.head.prev = entry
	}
	s.head = entry

	if s.tail == nil {
		s.tail = entry
	}
}

// moveToFront moves an entry to the front of the LRU list.
func (s *pieceShard) moveToFront(entry *pieceEntry) {
	if entry == s.head {
		return
	}

	s.remove(entry)
	s.addToFront(entry)
}

// remove removes an entry from the LRU list (does not delete from map).
func (s *pieceShard) remove(entry *pieceEntry) {
	if entry == nil {
		return
	}

	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		s.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		s.tail = entry.prev
	}

	entry.prev = nil
	entry.next = nil
}

// removeTail removes and returns the tail entry.
func (s *pieceShard) removeTail() *pieceEntry {
	if s.tail == nil {
		return nil
	}

	entry := s.tail
	delete(s.entries, entry.key)
	s.remove(entry)
	s.count--
	return entry
}
