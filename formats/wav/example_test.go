// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/formats/wav"
)

// Example_decoding demonstrates decoding a WAV file frame by frame.
func Example_decoding() {
	// Create a sample WAV file
	samples := []int16{100, 200, 300, 400, 500}
	wavData := new(bytes.Buffer)
	_ = wav.WriteWAV16(wavData, 16000, samples)

	dec, err := wav.Decoder{FrameLen: 2}.Open(wavData, audio.TrackAny)
	if err != nil {
		fmt.Printf("Open error: %v\n", err)
		return
	}
	defer dec.Close()

	info := dec.Info()
	fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	fmt.Printf("Channels: %d\n", info.Channels)
	fmt.Printf("Format: %s\n", info.Format)

	for {
		frame, err := dec.NextFrame()
		if err != nil {
			break
		}
		fmt.Printf("Frame: %d bytes\n", len(frame))
	}
	// Output:
	// Sample rate: 16000 Hz
	// Channels: 1
	// Format: s16le
	// Frame: 4 bytes
	// Frame: 4 bytes
	// Frame: 2 bytes
}

// Example_encoding demonstrates writing a WAV file.
func Example_encoding() {
	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16((i % 100) * 100)
	}

	// Write to buffer (in real code, use os.Create)
	output := new(bytes.Buffer)
	err := wav.WriteWAV16(output, 8000, samples)
	if err != nil {
		fmt.Printf("Write error: %v\n", err)
		return
	}

	fmt.Printf("Wrote %d bytes\n", output.Len())
	// Output:
	// Wrote 2044 bytes
}

// Example_rangeRead reads a sample range through an audio.Source.
func Example_rangeRead() {
	original := []int16{-1000, -500, 0, 500, 1000}

	wavData := new(bytes.Buffer)
	if err := wav.WriteWAV16(wavData, 8000, original); err != nil {
		fmt.Printf("Encode error: %v\n", err)
		return
	}

	dec, err := wav.Decoder{}.Open(wavData, audio.TrackAny)
	if err != nil {
		fmt.Printf("Open error: %v\n", err)
		return
	}

	src, err := audio.NewSource(dec)
	if err != nil {
		fmt.Printf("Source error: %v\n", err)
		return
	}
	defer src.Close()

	pkt, err := src.GetSamples(1, 4)
	if err != nil {
		fmt.Printf("Read error: %v\n", err)
		return
	}

	fmt.Printf("Bytes: %v\n", pkt.Data)
	fmt.Printf("EOF: %v\n", pkt.EOF)
	// Output:
	// Bytes: [12 254 0 0 244 1]
	// EOF: false
}

// Example_errorNotWAV shows handling of invalid WAV files.
func Example_errorNotWAV() {
	invalidData := bytes.NewReader([]byte("This is not a WAV file"))

	_, err := wav.Decoder{}.Open(invalidData, audio.TrackAny)
	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	} else if err != nil {
		fmt.Printf("Other error: %v\n", err)
	}
	// Output: Detected: Not a valid WAV file
}
