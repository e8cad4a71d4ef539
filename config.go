package bimap

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
)

const (
	// DefaultInitialCapacity is the bin count materialised by the first
	// insert when no initial capacity is configured.
	DefaultInitialCapacity = 1 << 4
	// DefaultLoadFactor is the fraction of capacity a table may fill before
	// it doubles.
	DefaultLoadFactor = 0.75
	// MaximumCapacity bounds the bin count of a table. It must be a power of
	// two no larger than 1<<30.
	MaximumCapacity = 1 << 30

	// TreeifyThreshold is the bin length at which a list bin is converted
	// to a red-black tree, provided the table holds at least
	// MinTreeifyCapacity bins. Smaller tables are resized instead.
	TreeifyThreshold = 8
	// UntreeifyThreshold is the length at or below which a tree bin that was
	// split by a resize reverts to a list.
	UntreeifyThreshold = 6
	// MinTreeifyCapacity is the smallest table capacity for which bins may
	// be treeified.
	MinTreeifyCapacity = 64
)

// Config defines configurable BiMapOf options.
type Config struct {
	// InitialCapacity is the requested bin count; it is rounded up to a
	// power of two and capped at MaximumCapacity.
	InitialCapacity int
	// LoadFactor is the resize trigger ratio of size to capacity.
	LoadFactor float64
	// Hasher post-mixes raw hashes of both keys and values.
	Hasher Hasher
	// Logger receives resize (V(1)) and treeify (V(2)) events.
	Logger logr.Logger
}

// WithInitialCapacity configures the number of bins allocated by the first
// insert. Negative values are rejected by the constructor.
func WithInitialCapacity(capacity int) func(*Config) {
	return func(c *Config) {
		c.InitialCapacity = capacity
	}
}

// WithLoadFactor configures the load factor of both tables. It must be
// positive and not NaN.
func WithLoadFactor(loadFactor float64) func(*Config) {
	return func(c *Config) {
		c.LoadFactor = loadFactor
	}
}

// WithHashing configures the hash smearing strategy, e.g. Spread or Murmur3.
func WithHashing(h Hasher) func(*Config) {
	return func(c *Config) {
		c.Hasher = h
	}
}

// WithLogger configures a logger for table maintenance events.
func WithLogger(logger logr.Logger) func(*Config) {
	return func(c *Config) {
		c.Logger = logger
	}
}

func defaultConfig() Config {
	return Config{
		InitialCapacity: DefaultInitialCapacity,
		LoadFactor:      DefaultLoadFactor,
		Hasher:          Standard,
		Logger:          logr.Discard(),
	}
}

func (c *Config) validate() error {
	if c.InitialCapacity < 0 {
		return fmt.Errorf("%w: illegal initial capacity: %d", ErrInvalidArgument, c.InitialCapacity)
	}
	if c.LoadFactor <= 0 || math.IsNaN(c.LoadFactor) {
		return fmt.Errorf("%w: illegal load factor: %v", ErrInvalidArgument, c.LoadFactor)
	}
	if c.Hasher == nil {
		return fmt.Errorf("%w: nil hasher", ErrInvalidArgument)
	}
	if c.InitialCapacity > MaximumCapacity {
		c.InitialCapacity = MaximumCapacity
	}
	return nil
}

// tableSizeFor returns a power of two size for the given target capacity.
func tableSizeFor(capacity int) int {
	n := nextPowOf2(capacity)
	if n > MaximumCapacity {
		return MaximumCapacity
	}
	return n
}

// nextPowOf2 calculates the smallest power of 2 that is greater than or equal to n.
func nextPowOf2(n int) int {
	if n <= 1 {
		return 1
	}
	v := uint64(n)
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return int(v)
}
