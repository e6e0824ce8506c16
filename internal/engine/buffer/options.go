package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithListener subscribes l when the buffer is created.
func WithListener(l Listener) Option {
	return func(b *Buffer) {
		b.subscribe(l)
	}
}

// WithCapacity preallocates storage for n bytes.
func WithCapacity(n int) Option {
	return func(b *Buffer) {
		if n > cap(b.data) {
			data := make([]byte, len(b.data), n)
			copy(data, b.data)
			b.data = data
		}
	}
}
