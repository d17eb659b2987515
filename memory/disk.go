package memory

import (
	"context"
	"encoding/binary"
	"os"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/gofrs/flock"
	lru "github.com/hashicorp/golang-lru/v2"
)

// headerSize is the fixed prefix of a disk-backed vector's file: a single
// little-endian uint64 holding the logical element count. Capacity is
// implicit in the file's length past the header.
const headerSize = 8

// lockRetryInterval and lockRetryAttempts bound how long a writer waits to
// acquire a disk vector's advisory lock before giving up with
// ErrLockTimeout, mirroring the original engine's "retry for about a
// second, then bail" lock-acquire discipline rather than blocking
// indefinitely.
const (
	lockRetryInterval = 20 * time.Millisecond
	lockRetryAttempts = 50
)

// diskVec is the memory-mapped-file-backed ItemVec. Unlike ramVec it grows
// its own capacity on demand (doubling, like a typical growable vector),
// so Push never returns ErrCapacityExceeded; it only fails on I/O or
// lock-acquisition errors.
type diskVec[T any] struct {
	codec    Codec[T]
	itemSize int

	path     string
	file     *os.File
	mm       mmap.MMap
	lock     *flock.Flock
	readOnly bool

	length   int
	capacity int

	cache *lru.Cache[int, T]
}

// NewDisk creates a new disk-backed ItemVec at path, truncated to hold
// initialCapacity elements. cacheSize is the number of decoded elements to
// keep in an LRU cache in front of the mmap; 0 disables caching.
//
// Returns ErrAlreadyExists if path already names a file.
func NewDisk[T any](path string, codec Codec[T], initialCapacity, cacheSize int) (ItemVec[T], error) {
	if _, err := os.Stat(path); err == nil {
		return nil, ErrAlreadyExists
	}

	lock := flock.New(path + ".lock")
	if err := acquireLock(lock); err != nil {
		return nil, err
	}

	if initialCapacity < 1 {
		initialCapacity = 1
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	v := &diskVec[T]{codec: codec, itemSize: codec.Size(), path: path, file: f, lock: lock}
	if cacheSize > 0 {
		c, err := lru.New[int, T](cacheSize)
		if err != nil {
			f.Close()
			lock.Unlock()
			return nil, err
		}
		v.cache = c
	}
	if err := v.remap(initialCapacity); err != nil {
		f.Close()
		lock.Unlock()
		return nil, err
	}
	v.writeHeader()
	return v, nil
}

// LoadDisk opens an existing disk-backed ItemVec. readOnly maps the file
// without acquiring the write lock, for read-only consumers such as a
// frozen ArrayGraph's arenas.
func LoadDisk[T any](path string, codec Codec[T], cacheSize int, readOnly bool) (ItemVec[T], error) {
	var lock *flock.Flock
	flags := os.O_RDWR
	if readOnly {
		flags = os.O_RDONLY
	} else {
		lock = flock.New(path + ".lock")
		if err := acquireLock(lock); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if lock != nil {
			lock.Unlock()
		}
		return nil, err
	}

	v := &diskVec[T]{codec: codec, itemSize: codec.Size(), path: path, file: f, lock: lock, readOnly: readOnly}
	if cacheSize > 0 {
		c, err := lru.New[int, T](cacheSize)
		if err != nil {
			f.Close()
			if lock != nil {
				lock.Unlock()
			}
			return nil, err
		}
		v.cache = c
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		if lock != nil {
			lock.Unlock()
		}
		return nil, err
	}
	mapMode := mmap.RDWR
	if readOnly {
		mapMode = mmap.RDONLY
	}
	mm, err := mmap.MapRegion(f, int(fi.Size()), mapMode, 0, 0)
	if err != nil {
		f.Close()
		if lock != nil {
			lock.Unlock()
		}
		return nil, err
	}
	v.mm = mm
	v.capacity = (len(mm) - headerSize) / v.itemSize
	v.length = int(binary.LittleEndian.Uint64(mm[:headerSize]))
	return v, nil
}

// acquireLock retries TryLock for a bounded window before giving up, rather
// than blocking forever on a wedged writer.
func acquireLock(lock *flock.Flock) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(lockRetryAttempts)*lockRetryInterval)
	defer cancel()
	ok, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockTimeout
	}
	return nil
}

func (v *diskVec[T]) remap(newCapacity int) error {
	if v.mm != nil {
		if err := v.mm.Unmap(); err != nil {
			return err
		}
		v.mm = nil
	}
	size := int64(headerSize + newCapacity*v.itemSize)
	if err := v.file.Truncate(size); err != nil {
		return err
	}
	mm, err := mmap.MapRegion(v.file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		return err
	}
	v.mm = mm
	v.capacity = newCapacity
	return nil
}

func (v *diskVec[T]) writeHeader() {
	binary.LittleEndian.PutUint64(v.mm[:headerSize], uint64(v.length))
}

func (v *diskVec[T]) offset(i int) int { return headerSize + i*v.itemSize }

func (v *diskVec[T]) Len() int { return v.length }

func (v *diskVec[T]) Push(item T) error {
	if v.readOnly {
		return ErrReadOnly
	}
	if v.length == v.capacity {
		grown := v.capacity * 2
		if grown == 0 {
			grown = 64
		}
		if err := v.remap(grown); err != nil {
			return err
		}
	}
	buf := v.mm[v.offset(v.length) : v.offset(v.length)+v.itemSize]
	v.codec.Encode(item, buf)
	v.length++
	v.writeHeader()
	if v.cache != nil {
		v.cache.Add(v.length-1, item)
	}
	return nil
}

func (v *diskVec[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= v.length {
		return zero, ErrIndexOutOfRange
	}
	if v.cache != nil {
		if item, ok := v.cache.Get(i); ok {
			return item, nil
		}
	}
	item := v.codec.Decode(v.mm[v.offset(i) : v.offset(i)+v.itemSize])
	if v.cache != nil {
		v.cache.Add(i, item)
	}
	return item, nil
}

func (v *diskVec[T]) Set(i int, item T) error {
	if v.readOnly {
		return ErrReadOnly
	}
	if i < 0 || i >= v.length {
		return ErrIndexOutOfRange
	}
	v.codec.Encode(item, v.mm[v.offset(i):v.offset(i)+v.itemSize])
	if v.cache != nil {
		v.cache.Add(i, item)
	}
	return nil
}

func (v *diskVec[T]) Pop() (T, bool, error) {
	var zero T
	if v.readOnly {
		return zero, false, ErrReadOnly
	}
	if v.length == 0 {
		return zero, false, nil
	}
	last, err := v.Get(v.length - 1)
	if err != nil {
		return zero, false, err
	}
	v.length--
	v.writeHeader()
	if v.cache != nil {
		v.cache.Remove(v.length)
	}
	return last, true, nil
}

func (v *diskVec[T]) Reserve(extra int) error {
	if v.readOnly {
		return ErrReadOnly
	}
	need := v.length + extra
	if need <= v.capacity {
		return nil
	}
	return v.remap(need)
}

// Freeze truncates the backing file to its logical length, remaps it
// read-only, and releases the writer's advisory lock so other processes
// may open the file for reading.
func (v *diskVec[T]) Freeze() error {
	if v.readOnly {
		return nil
	}
	if err := v.remap(v.length); err != nil {
		return err
	}
	if err := v.mm.Unmap(); err != nil {
		return err
	}
	size := int64(headerSize + v.length*v.itemSize)
	if err := v.file.Truncate(size); err != nil {
		return err
	}
	mm, err := mmap.MapRegion(v.file, int(size), mmap.RDONLY, 0, 0)
	if err != nil {
		return err
	}
	v.mm = mm
	v.capacity = v.length
	v.readOnly = true
	if v.lock != nil {
		v.lock.Unlock()
		v.lock = nil
	}
	return nil
}
