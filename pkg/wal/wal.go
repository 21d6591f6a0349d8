// Package wal implements the append-only framed log used for engine
// durability. Each record is a length+CRC32 header followed by the
// payload; a torn final record is detected and discarded on replay.
package wal

import (
	"bufio"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"sync"
	"syscall"

	"encoding/binary"
)

const (
	headerSize      = 8 // len(4) + crc32(4)
	defaultFilePerm = 0o644
)

// DefaultMaxPayload bounds a single record so a corrupt length field
// cannot make the reader allocate unbounded memory.
const DefaultMaxPayload = 4 << 20 // 4MB

var (
	ErrCorruptHeader    = errors.New("wal: corrupt header")
	ErrCorruptPayload   = errors.New("wal: corrupt payload")
	ErrChecksumMismatch = errors.New("wal: checksum mismatch")
	ErrPayloadTooLarge  = errors.New("wal: payload too large")
	ErrWriterFailed     = errors.New("wal: writer failed")
)

// Writer appends framed records. Append is buffered; Flush pushes the
// buffer to the OS and fsyncs. The durable offset is tracked so callers
// acknowledging clients under a batched flush policy can block on
// WaitDurable for their record without holding the engine write lock.
//
// A failed Flush is sticky: the writer is unusable afterwards and every
// pending and future call reports the failure.
type Writer struct {
	mu   sync.Mutex
	cond *sync.Cond

	f  *os.File
	bw *bufio.Writer

	off     int64 // logical end offset, buffered bytes included
	durable int64 // offset known to be on stable storage
	err     error // sticky failure
}

func OpenWrite(path string, bufSize int) (*Writer, error) {
	if bufSize <= 0 {
		bufSize = 1 << 20
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, defaultFilePerm)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w := &Writer{
		f:       f,
		bw:      bufio.NewWriterSize(f, bufSize),
		off:     stat.Size(),
		durable: stat.Size(),
	}
	w.cond = sync.NewCond(&w.mu)
	return w, nil
}

// Append frames and buffers one record. It returns the logical end
// offset of the record; the record is durable once the durable offset
// reaches that value.
func (w *Writer) Append(payload []byte) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return 0, w.err
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(hdr[4:], crc32.ChecksumIEEE(payload))

	if _, err := w.bw.Write(hdr[:]); err != nil {
		w.fail(err)
		return 0, err
	}
	if _, err := w.bw.Write(payload); err != nil {
		w.fail(err)
		return 0, err
	}

	w.off += int64(headerSize + len(payload))
	return w.off, nil
}

// Flush drains the buffer and fsyncs, then publishes the new durable
// offset to any WaitDurable callers.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if w.err != nil {
		return w.err
	}
	if err := w.bw.Flush(); err != nil {
		w.fail(err)
		return err
	}
	if err := syncRetry(w.f); err != nil {
		w.fail(err)
		return err
	}
	w.durable = w.off
	w.cond.Broadcast()
	return nil
}

// WaitDurable blocks until the given offset is on stable storage or the
// writer has failed.
func (w *Writer) WaitDurable(off int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.durable < off && w.err == nil {
		w.cond.Wait()
	}
	return w.err
}

// Offset reports the logical end offset, buffered bytes included.
func (w *Writer) Offset() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.off
}

// DurableOffset reports the fsynced offset.
func (w *Writer) DurableOffset() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.durable
}

// Err reports the sticky failure, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = fmt.Errorf("%w: %v", ErrWriterFailed, err)
	}
	w.cond.Broadcast()
}

// Close flushes, fsyncs and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.flushLocked(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

// syncRetry retries fsync on EINTR. Any other error is permanent: a
// failed fsync leaves the page cache state undefined, so the caller
// must treat it as fatal rather than retry blindly.
func syncRetry(f *os.File) error {
	for {
		err := f.Sync()
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
}

// TruncateTo cuts the file at offset. Used by recovery to drop a torn
// tail, and by the snapshot path to discard fully covered records.
func TruncateTo(path string, offset int64) error {
	if offset < 0 {
		return fmt.Errorf("wal: negative truncate offset %d", offset)
	}

	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Truncating past the end is a no-op to keep the repair path
	// tolerant.
	if offset >= st.Size() {
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Truncate(offset); err != nil {
		return err
	}

	return syncRetry(f)
}
