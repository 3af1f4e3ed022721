package term

import "sync"

// Buffer is a thread-safe ring buffer for terminal output. When full, the
// oldest bytes are overwritten so a chatty session cannot grow unbounded.
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	full bool
	mu   sync.RWMutex
}

// NewBuffer creates a ring buffer with the given capacity
func NewBuffer(size int) *Buffer {
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends data to the buffer, overwriting the oldest bytes when full
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size
		if b.full {
			b.head = b.tail
		}
		if b.tail == b.head {
			b.full = true
		}
	}

	return len(p), nil
}

// Len reports the number of buffered bytes
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.length()
}

func (b *Buffer) length() int {
	if b.full {
		return b.size
	}
	if b.tail >= b.head {
		return b.tail - b.head
	}
	return b.size - b.head + b.tail
}

// Peek returns a copy of the buffered bytes without consuming them
func (b *Buffer) Peek() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot()
}

// Drain returns the buffered bytes and empties the buffer
func (b *Buffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.snapshot()
	b.head = b.tail
	b.full = false
	return out
}

func (b *Buffer) snapshot() []byte {
	n := b.length()
	if n == 0 {
		return []byte{}
	}

	out := make([]byte, n)
	if b.head+n <= b.size {
		copy(out, b.data[b.head:b.head+n])
	} else {
		first := b.size - b.head
		copy(out, b.data[b.head:])
		copy(out[first:], b.data[:n-first])
	}
	return out
}
