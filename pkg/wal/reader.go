package wal

import (
	"bufio"
	"errors"
	"hash/crc32"
	"io"
	"os"

	"encoding/binary"
)

type ReaderOptions struct {
	MaxPayload int // <=0 uses DefaultMaxPayload
	// AllowTruncatedTail treats a half-written final record as a clean
	// EOF instead of an error. Recovery sets this: a torn tail is the
	// normal crash signature.
	AllowTruncatedTail bool
	BufferSize         int
}

type Reader struct {
	f  *os.File
	br *bufio.Reader

	off        int64
	maxPayload int
	allowTail  bool

	truncatedTail  bool
	lastGoodOffset int64
}

func OpenReader(path string, offset int64, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1 << 20
	}
	maxPayload := opts.MaxPayload
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	return &Reader{
		f:              f,
		br:             bufio.NewReaderSize(f, opts.BufferSize),
		off:            offset,
		maxPayload:     maxPayload,
		allowTail:      opts.AllowTruncatedTail,
		lastGoodOffset: offset,
	}, nil
}

func (r *Reader) Close() error { return r.f.Close() }

func (r *Reader) TruncatedTail() bool   { return r.truncatedTail }
func (r *Reader) LastGoodOffset() int64 { return r.lastGoodOffset }

// Next returns the next record payload, or io.EOF at the end of the log.
// With AllowTruncatedTail set, a half-written final record also ends the
// stream with io.EOF and TruncatedTail() reports true.
func (r *Reader) Next() (payload []byte, nextOffset int64, err error) {
	var hdr [headerSize]byte
	_, err = io.ReadFull(r.br, hdr[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, r.off, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			r.truncatedTail = true
			if r.allowTail {
				return nil, r.off, io.EOF
			}
			return nil, r.off, ErrCorruptHeader
		}
		return nil, r.off, err
	}

	ln := int(binary.LittleEndian.Uint32(hdr[0:4]))
	crc := binary.LittleEndian.Uint32(hdr[4:8])

	if ln < 0 || ln > r.maxPayload {
		return nil, r.off, ErrPayloadTooLarge
	}

	payload = make([]byte, ln)
	_, err = io.ReadFull(r.br, payload)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			r.truncatedTail = true
			if r.allowTail {
				return nil, r.off, io.EOF
			}
			return nil, r.off, ErrCorruptPayload
		}
		return nil, r.off, err
	}

	if crc32.ChecksumIEEE(payload) != crc {
		// A checksum mismatch mid-file is corruption, but at the very
		// end of the file it is a torn write racing the crash.
		if r.allowTail && r.atEOF() {
			r.truncatedTail = true
			return nil, r.off, io.EOF
		}
		return nil, r.off, ErrChecksumMismatch
	}

	r.off += int64(headerSize + ln)
	r.lastGoodOffset = r.off
	return payload, r.off, nil
}

func (r *Reader) atEOF() bool {
	_, err := r.br.Peek(1)
	return errors.Is(err, io.EOF)
}

// Replay streams every record through onRecord. A missing file is a
// fresh start, not an error.
func Replay(path string, opts ReaderOptions, onRecord func(payload []byte) error) (ReplayStats, error) {
	var st ReplayStats
	r, err := OpenReader(path, 0, opts)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	defer r.Close()

	for {
		payload, off, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				st.TruncatedTail = r.TruncatedTail()
				st.LastGoodOffset = r.LastGoodOffset()
				return st, nil
			}
			st.LastGoodOffset = r.LastGoodOffset()
			return st, err
		}
		if err := onRecord(payload); err != nil {
			st.LastGoodOffset = r.LastGoodOffset()
			return st, err
		}
		st.Records++
		st.BytesRead = off
		st.LastGoodOffset = off
	}
}

type ReplayStats struct {
	Records        int
	BytesRead      int64
	LastGoodOffset int64
	TruncatedTail  bool
}
