package live

import "context"

// Result is one emission of a Query: the loaded value or the load error.
type Result[T any] struct {
	Value T
	Err   error
}

// Query emits load's result immediately and again after every change
// published on topics. The channel closes when ctx is done.
func Query[T any](ctx context.Context, hub *Hub, topics []string, load func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T])
	// Subscribe before the first load so a write racing it is not lost.
	signal, unsubscribe := hub.Subscribe(topics...)
	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			value, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Result[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}
			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Triple is a positional combination of three stream values.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Combine3 emits the latest value of each input once all three have emitted,
// and again whenever any of them emits. It closes when ctx is done or all
// inputs are closed.
func Combine3[A, B, C any](ctx context.Context, a <-chan A, b <-chan B, c <-chan C) <-chan Triple[A, B, C] {
	out := make(chan Triple[A, B, C])
	go func() {
		defer close(out)
		var (
			cur              Triple[A, B, C]
			hasA, hasB, hasC bool
		)
		for a != nil || b != nil || c != nil {
			select {
			case v, ok := <-a:
				if !ok {
					a = nil
					continue
				}
				cur.First, hasA = v, true
			case v, ok := <-b:
				if !ok {
					b = nil
					continue
				}
				cur.Second, hasB = v, true
			case v, ok := <-c:
				if !ok {
					c = nil
					continue
				}
				cur.Third, hasC = v, true
			case <-ctx.Done():
				return
			}
			if !hasA || !hasB || !hasC {
				continue
			}
			select {
			case out <- cur:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// SwitchLatest opens a stream for every key received and forwards only the
// stream of the most recent key. Opening a new stream cancels the previous
// one, and a value read from a stale stream is dropped if a newer key arrives
// before it is delivered.
func SwitchLatest[K any, T any](ctx context.Context, keys <-chan K, open func(context.Context, K) <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		cancel := context.CancelFunc(func() {})
		defer func() { cancel() }()

		var cur <-chan T
		switchTo := func(key K) {
			cancel()
			var subCtx context.Context
			subCtx, cancel = context.WithCancel(ctx)
			cur = open(subCtx, key)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case key, ok := <-keys:
				if !ok {
					keys = nil
					if cur == nil {
						return
					}
					continue
				}
				switchTo(key)
			case v, ok := <-cur:
				if !ok {
					cur = nil
					if keys == nil {
						return
					}
					continue
				}
				select {
				case out <- v:
				case key, ok := <-keys:
					if !ok {
						keys = nil
						select {
						case out <- v:
						case <-ctx.Done():
							return
						}
						continue
					}
					switchTo(key)
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
