// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"
)

// mockDecoder is a test decoder implementation
type mockDecoder struct {
	name string
}

func (d *mockDecoder) Open(r io.Reader, track Track) (FrameDecoder, error) {
	return &silentFrames{info: NewStreamInfo(d.name, 44100, 2, FormatS16, 64)}, nil
}

// failingDecoder always returns an error
type failingDecoder struct{}

func (d *failingDecoder) Open(r io.Reader, track Track) (FrameDecoder, error) {
	return nil, errors.New("decode failed")
}

// silentFrames emits a single frame of silence.
type silentFrames struct {
	info StreamInfo
	done bool
}

func (s *silentFrames) Info() StreamInfo { return s.info }
func (s *silentFrames) Close() error     { return nil }

func (s *silentFrames) NextFrame() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true

	return make([]byte, s.info.FrameSize), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}

	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}

	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}
}

func TestRegistry_GetNonExistent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, ok := registry.Get("nonexistent")
	if ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_MultipleFormats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDecoder := &mockDecoder{name: "wav"}
	mp3Decoder := &mockDecoder{name: "mp3"}
	oggDecoder := &mockDecoder{name: "ogg"}

	registry.Register("wav", wavDecoder)
	registry.Register("mp3", mp3Decoder)
	registry.Register("ogg", oggDecoder)

	tests := []struct {
		format  string
		want    Decoder
		wantOK  bool
	}{
		{"wav", wavDecoder, true},
		{"mp3", mp3Decoder, true},
		{"ogg", oggDecoder, true},
		{"flac", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, ok := registry.Get(tt.format)
			if ok != tt.wantOK {
				t.Errorf("Registry.Get(%q) ok = %v, want %v", tt.format, ok, tt.wantOK)
			}
			if tt.wantOK && got != tt.want {
				t.Errorf("Registry.Get(%q) returned wrong decoder", tt.format)
			}
		})
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder1 := &mockDecoder{name: "first"}
	decoder2 := &mockDecoder{name: "second"}

	registry.Register("wav", decoder1)
	registry.Register("wav", decoder2)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed after overwrite")
	}

	if got != decoder2 {
		t.Error("Registry.Get() did not return the overwritten decoder")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	// Register concurrently
	done := make(chan bool)
	for i := range 10 {
		go func(id int) {
			registry.Register("format", decoder)
			done <- true
		}(i)
	}

	// Get concurrently
	for i := range 10 {
		go func(id int) {
			_, _ = registry.Get("format")
			done <- true
		}(i)
	}

	// Wait for all goroutines
	for range 20 {
		<-done
	}

	// Verify the decoder is registered
	got, ok := registry.Get("format")
	if !ok {
		t.Error("Registry.Get() failed after concurrent operations")
	}
	if got != decoder {
		t.Error("Registry returned wrong decoder after concurrent operations")
	}
}

func TestRegistry_EmptyFormatName(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	// Empty string as format name should work (no validation in current impl)
	registry.Register("", decoder)

	got, ok := registry.Get("")
	if !ok {
		t.Error("Registry.Get(\"\") failed for empty format name")
	}
	if got != decoder {
		t.Error("Registry.Get(\"\") returned wrong decoder")
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	if registry == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if registry.codecs == nil {
		t.Error("NewRegistry() did not initialize codecs map")
	}

	if registry.mtx == nil {
		t.Error("NewRegistry() did not initialize mutex")
	}
}

// BenchmarkRegistry_Register benchmarks registering decoders
func BenchmarkRegistry_Register(b *testing.B) {
	registry := NewRegistry()
	decoder := &mockDecoder{}

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		registry.Register("wav", decoder)
	}
}

// BenchmarkRegistry_Get benchmarks retrieving decoders
func BenchmarkRegistry_Get(b *testing.B) {
	registry := NewRegistry()
	decoder := &mockDecoder{}
	registry.Register("wav", decoder)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		_, _ = registry.Get("wav")
	}
}

// BenchmarkRegistry_GetMiss benchmarks cache misses
func BenchmarkRegistry_GetMiss(b *testing.B) {
	registry := NewRegistry()

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		_, _ = registry.Get("nonexistent")
	}
}

// BenchmarkRegistry_ConcurrentRegisterGet benchmarks concurrent operations
func BenchmarkRegistry_ConcurrentRegisterGet(b *testing.B) {
	registry := NewRegistry()
	decoder := &mockDecoder{}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				registry.Register("wav", decoder)
			} else {
				_, _ = registry.Get("wav")
			}
			i++
		}
	})
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "flac"}
	registry.RegisterWithDescription("FLAC", "Free Lossless Audio Codec", decoder)

	got, ok := registry.Get("flac")
	if !ok || got != decoder {
		t.Fatal("Registry.Get() is not case-insensitive")
	}
	if d := registry.Describe("Flac"); d != "Free Lossless Audio Codec" {
		t.Errorf("Registry.Describe() = %q", d)
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, f := range []string{"wav", "aiff", "mp3"} {
		registry.Register(f, &mockDecoder{name: f})
	}

	got := registry.Formats()
	want := []string{"aiff", "mp3", "wav"}
	if len(got) != len(want) {
		t.Fatalf("Registry.Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Registry.Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Open(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{name: "wav"})
	registry.Register("broken", &failingDecoder{})

	dec, err := registry.Open("WAV", nil, TrackAny)
	if err != nil {
		t.Fatalf("Registry.Open() error = %v", err)
	}
	if dec.Info().Codec != "wav" {
		t.Errorf("Registry.Open() codec = %q", dec.Info().Codec)
	}

	if _, err := registry.Open("nonexistent", nil, TrackAny); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Registry.Open(nonexistent) error = %v, want ErrUnknownFormat", err)
	}

	if _, err := registry.Open("broken", nil, TrackAny); err == nil {
		t.Error("Registry.Open(broken) expected error")
	}
}
