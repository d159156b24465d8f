package zplprotocol

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync/atomic"
)

// Bucket is an ordering key inside a block. Buckets are visited in
// ascending string order; entries within a bucket keep insertion order.
//
// Integer positions go through Position, whose encoding sorts like the
// numbers it encodes. Other strings may be used directly, but a block that
// mixes them with positions orders them by the encoded text.
type Bucket string

// Position returns the bucket for integer position n.
func Position(n int) Bucket {
	if n < 0 {
		return Bucket(fmt.Sprintf("n%019d", uint64(int64(n)+math.MaxInt64+1)))
	}
	return Bucket(fmt.Sprintf("p%019d", n))
}

// DefaultBucket is the bucket used by Add, Set and New.
var DefaultBucket = Position(0)

// Block is a container of entries ordered by bucket, with optional start
// and end sentinels. Blocks nest: a block is itself an Entry.
//
// A block is owned by a single writer. It stays mutable after rendering;
// rendering again reflects the new state.
type Block struct {
	start   Entry
	end     Entry
	buckets map[Bucket][]Entry

	gen   uint64
	cache *measured
}

type measured struct {
	stamp  uint64
	in     Properties
	bounds Bounds
	out    Properties
}

// NewBlock creates an empty block. Either sentinel may be nil.
func NewBlock(start, end Entry) *Block {
	return &Block{start: start, end: end, buckets: make(map[Bucket][]Entry)}
}

func (*Block) entry() {}

// Start returns the start sentinel, or nil.
func (b *Block) Start() Entry { return b.start }

// End returns the end sentinel, or nil.
func (b *Block) End() Entry { return b.end }

// edits numbers every mutation in the package. Numbers only grow, so the
// newest edit in a tree identifies its state.
var edits atomic.Uint64

func nextEdit() uint64 {
	return edits.Add(1)
}

func (b *Block) touch() {
	b.gen = nextEdit()
	b.cache = nil
}

// Add appends e to the default bucket.
func (b *Block) Add(e Entry) *Block {
	return b.AddAt(DefaultBucket, e)
}

// AddAt appends e to bucket, creating the bucket if needed.
func (b *Block) AddAt(bucket Bucket, e Entry) *Block {
	if b.buckets == nil {
		b.buckets = make(map[Bucket][]Entry)
	}
	b.buckets[bucket] = append(b.buckets[bucket], e)
	b.touch()
	return b
}

// Set replaces the default bucket with e alone.
func (b *Block) Set(e Entry) *Block {
	return b.SetAt(DefaultBucket, e)
}

// SetAt replaces the contents of bucket with e alone.
func (b *Block) SetAt(bucket Bucket, e Entry) *Block {
	if b.buckets == nil {
		b.buckets = make(map[Bucket][]Entry)
	}
	b.buckets[bucket] = []Entry{e}
	b.touch()
	return b
}

// New creates a command from d in the default bucket and returns it for
// further edits.
func (b *Block) New(d *Descriptor, params ...any) *Command {
	return b.NewAt(DefaultBucket, d, params...)
}

// NewAt creates a command from d in bucket and returns it.
func (b *Block) NewAt(bucket Bucket, d *Descriptor, params ...any) *Command {
	c := d.Instance(params)
	b.AddAt(bucket, c)
	return c
}

// Remove deletes a bucket.
func (b *Block) Remove(bucket Bucket) {
	if _, ok := b.buckets[bucket]; !ok {
		return
	}
	delete(b.buckets, bucket)
	b.touch()
}

// Buckets returns the bucket keys in traversal order.
func (b *Block) Buckets() []Bucket {
	keys := make([]Bucket, 0, len(b.buckets))
	for k := range b.buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entries returns the entries in traversal order: buckets in ascending key
// order, insertion order within each bucket. Sentinels are not included.
func (b *Block) Entries() []Entry {
	var out []Entry
	for _, k := range b.Buckets() {
		out = append(out, b.buckets[k]...)
	}
	return out
}

// EntriesAt returns a copy of one bucket's entries.
func (b *Block) EntriesAt(bucket Bucket) []Entry {
	return slices.Clone(b.buckets[bucket])
}

// Len returns the number of entries, not counting sentinels.
func (b *Block) Len() int {
	n := 0
	for _, es := range b.buckets {
		n += len(es)
	}
	return n
}

// Dump implements Entry. The start sentinel, every entry and the end
// sentinel are rendered in turn; each one sees the properties left by the
// one before it. Bounds accumulate as the minimum origin and maximum
// extent over the known child bounds.
func (b *Block) Dump(opts RenderOptions) Dump {
	var (
		parts []string
		acc   = newAccumulator()
		props = opts.Props
	)
	visit := func(e Entry) {
		d := e.Dump(opts.with(props))
		parts = append(parts, d.Text)
		acc.add(d.Bounds)
		props = d.Props
	}
	if b.start != nil {
		visit(b.start)
	}
	for _, e := range b.Entries() {
		visit(e)
	}
	if b.end != nil {
		visit(b.end)
	}
	return Dump{Text: strings.Join(parts, opts.separator()), Bounds: acc.b, Props: props}
}

// Render serializes the block under opts.
func (b *Block) Render(opts RenderOptions) string {
	return b.Dump(opts).Text
}

// String renders the block with CRLF line breaks and the default syntax.
func (b *Block) String() string {
	return b.Render(DefaultRenderOptions())
}

// Measure returns the bounding box of the block and the properties in
// force after it, starting from props. The result is cached until the
// block or a nested block changes.
func (b *Block) Measure(props Properties) (Bounds, Properties) {
	stamp := b.stamp()
	if c := b.cache; c != nil && c.stamp == stamp && c.in == props {
		return c.bounds, c.out
	}
	d := b.Dump(RenderOptions{Props: props})
	b.cache = &measured{stamp: stamp, in: props, bounds: d.Bounds, out: d.Props}
	return d.Bounds, d.Props
}

// stamp returns the number of the newest edit to b, its sentinels, or any
// command or block nested in it. Removing an entry touches b, so the stamp
// never goes back to an earlier value.
func (b *Block) stamp() uint64 {
	s := max(b.gen, entryStamp(b.start), entryStamp(b.end))
	for _, es := range b.buckets {
		for _, e := range es {
			s = max(s, entryStamp(e))
		}
	}
	return s
}

func entryStamp(e Entry) uint64 {
	switch x := e.(type) {
	case *Command:
		return x.params.gen
	case *Block:
		return x.stamp()
	case *Field:
		return x.Block.stamp()
	}
	return 0
}

// Clone returns a deep copy of the tree. Descriptors stay shared.
func (b *Block) Clone() *Block {
	c := &Block{
		start:   cloneEntry(b.start),
		end:     cloneEntry(b.end),
		buckets: make(map[Bucket][]Entry, len(b.buckets)),
	}
	for k, es := range b.buckets {
		cp := make([]Entry, len(es))
		for i, e := range es {
			cp[i] = cloneEntry(e)
		}
		c.buckets[k] = cp
	}
	return c
}

func cloneEntry(e Entry) Entry {
	switch x := e.(type) {
	case nil:
		return nil
	case *Command:
		return x.Clone()
	case *Block:
		return x.Clone()
	case *Field:
		return x.clone()
	default:
		return e
	}
}

// Walk calls fn for every command in the tree, depth first, sentinels
// included. Walking stops when fn returns false.
func (b *Block) Walk(fn func(*Command) bool) bool {
	visit := func(e Entry) bool {
		switch x := e.(type) {
		case *Command:
			return fn(x)
		case *Block:
			return x.Walk(fn)
		case *Field:
			return x.Block.Walk(fn)
		}
		return true
	}
	if b.start != nil && !visit(b.start) {
		return false
	}
	for _, e := range b.Entries() {
		if !visit(e) {
			return false
		}
	}
	if b.end != nil && !visit(b.end) {
		return false
	}
	return true
}
