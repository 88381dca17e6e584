package image

import (
	"sync"
	"testing"
)

func TestNewPool(t *testing.T) {
	tests := []struct {
		name         string
		maxPerBucket int
		wantMaxSize  int
	}{
		{
			name:         "zero means unlimited",
			maxPerBucket: 0,
			wantMaxSize:  0,
		},
		{
			name:         "positive limit",
			maxPerBucket: 5,
			wantMaxSize:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.maxPerBucket)
			if pool == nil {
				t.Fatal("NewPool returned nil")
			}
			if pool.maxSize != tt.wantMaxSize {
				t.Errorf("maxSize = %d, want %d", pool.maxSize, tt.wantMaxSize)
			}
			if pool.buckets == nil {
				t.Error("buckets map is nil")
			}
		})
	}
}

func TestPool_GetPut_Basic(t *testing.T) {
	pool := NewPool(4)

	buf1 := pool.Get(100, 100, FormatBGRA8)
	if buf1 == nil {
		t.Fatal("Get returned nil")
	}
	if buf1.Width() != 100 || buf1.Height() != 100 {
		t.Errorf("got dimensions %dx%d, want 100x100", buf1.Width(), buf1.Height())
	}
	if buf1.Format() != FormatBGRA8 {
		t.Errorf("got format %v, want FormatBGRA8", buf1.Format())
	}

	setPixel(buf1, 0, 0, 255, 128, 64, 200)
	pool.Put(buf1)

	if n := pool.Len(100, 100, FormatBGRA8); n != 1 {
		t.Errorf("Len() = %d after Put, want 1", n)
	}

	buf2 := pool.Get(100, 100, FormatBGRA8)
	if buf2 != buf1 {
		t.Error("Get did not reuse the pooled buffer")
	}

	r, g, b, a := pixel(buf2, 0, 0)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("buffer not cleared: got RGBA(%d,%d,%d,%d), want (0,0,0,0)", r, g, b, a)
	}
}

func TestPool_GetPut_DifferentSizes(t *testing.T) {
	pool := NewPool(2)

	buf1 := pool.Get(100, 100, FormatRGBA8)
	buf2 := pool.Get(200, 200, FormatRGBA8)
	buf3 := pool.Get(100, 100, FormatBGRA8) // Same size, different format

	if buf1 == nil || buf2 == nil || buf3 == nil {
		t.Fatal("Get returned nil")
	}

	pool.Put(buf1)
	pool.Put(buf2)
	pool.Put(buf3)

	if n := pool.Len(100, 100, FormatRGBA8); n != 1 {
		t.Errorf("bucket[100x100 RGBA8] has %d buffers, want 1", n)
	}
	if n := pool.Len(200, 200, FormatRGBA8); n != 1 {
		t.Errorf("bucket[200x200 RGBA8] has %d buffers, want 1", n)
	}
	if n := pool.Len(100, 100, FormatBGRA8); n != 1 {
		t.Errorf("bucket[100x100 BGRA8] has %d buffers, want 1", n)
	}
}

func TestPool_MaxSize(t *testing.T) {
	maxSize := 3
	pool := NewPool(maxSize)

	buffers := make([]*Buf, 5)
	for i := range buffers {
		buffers[i] = pool.Get(50, 50, FormatRGBA8)
		if buffers[i] == nil {
			t.Fatalf("Get[%d] returned nil", i)
		}
	}
	for i := range buffers {
		pool.Put(buffers[i])
	}

	if n := pool.Len(50, 50, FormatRGBA8); n != maxSize {
		t.Errorf("bucket size = %d, want %d (maxSize)", n, maxSize)
	}
}

func TestPool_Put_Nil(t *testing.T) {
	pool := NewPool(4)
	pool.Put(nil)

	pool.mu.Lock()
	total := 0
	for _, bucket := range pool.buckets {
		total += len(bucket)
	}
	pool.mu.Unlock()

	if total != 0 {
		t.Errorf("pool has %d buffers after Put(nil), want 0", total)
	}
}

func TestPool_GetInvalidDimensions(t *testing.T) {
	pool := NewPool(4)

	tests := []struct {
		name   string
		width  int
		height int
		format Format
	}{
		{"zero width", 0, 100, FormatRGBA8},
		{"zero height", 100, 0, FormatRGBA8},
		{"negative width", -10, 100, FormatRGBA8},
		{"invalid format", 100, 100, Format(99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if buf := pool.Get(tt.width, tt.height, tt.format); buf != nil {
				t.Errorf("Get with invalid params returned non-nil buffer")
			}
		})
	}
}

func TestPool_Concurrent(t *testing.T) {
	pool := NewPool(10)
	numGoroutines := 20
	numOpsPerGoroutine := 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			for j := 0; j < numOpsPerGoroutine; j++ {
				format := FormatRGBA8
				if id%2 == 1 {
					format = FormatBGRA8
				}

				buf := pool.Get(64, 64, format)
				if buf == nil {
					t.Errorf("goroutine %d: Get returned nil", id)
					continue
				}

				setPixel(buf, 0, 0, byte(id), byte(j), 0, 255)
				r, _, _, _ := pixel(buf, 0, 0)
				if r != byte(id) {
					t.Errorf("goroutine %d: expected r=%d, got %d", id, byte(id), r)
				}
				pool.Put(buf)
			}
		}(i)
	}

	wg.Wait()

	pool.mu.Lock()
	for key, bucket := range pool.buckets {
		if len(bucket) > pool.maxSize {
			t.Errorf("bucket %+v has %d buffers, exceeds maxSize %d", key, len(bucket), pool.maxSize)
		}
	}
	pool.mu.Unlock()
}

func BenchmarkPool_GetPut(b *testing.B) {
	pool := NewPool(8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := pool.Get(256, 256, FormatBGRA8)
		pool.Put(buf)
	}
}

func BenchmarkDirect_NewBuf(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf, _ := NewBuf(256, 256, FormatBGRA8)
		_ = buf
	}
}
