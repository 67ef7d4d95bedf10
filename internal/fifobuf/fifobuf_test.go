package fifobuf

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	buf := New(8)

	written := buf.Write([]byte{1, 2, 3})
	if written != 3 {
		t.Errorf("expected to write 3 bytes, wrote %d", written)
	}

	if buf.Available() != 3 {
		t.Errorf("expected 3 bytes available, got %d", buf.Available())
	}

	data := buf.Data()
	if len(data) != 3 || data[0] != 1 || data[2] != 3 {
		t.Errorf("unexpected data contents: %v", data)
	}

	buf.Pop(2)
	if buf.Available() != 1 {
		t.Errorf("expected 1 byte available after pop, got %d", buf.Available())
	}
}

func TestWrapAroundProducesContiguousData(t *testing.T) {
	buf := New(5)

	buf.Write([]byte{1, 2, 3, 4})
	readBuf := make([]byte, 2)
	n := 0
	for n < 2 {
		data := buf.Data()
		copy(readBuf[n:], data[:2-n])
		n += 2 - n
	}
	buf.Pop(2)

	written := buf.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("expected to write 2 bytes on wraparound, wrote %d", written)
	}

	data := buf.Data()
	if len(data) != 4 {
		t.Fatalf("expected 4 bytes available, got %d", len(data))
	}
	want := []byte{3, 4, 5, 6}
	for i, b := range want {
		if data[i] != b {
			t.Errorf("byte %d: got %d, want %d", i, data[i], b)
		}
	}
}

func TestFreeReflectsReservedSlot(t *testing.T) {
	buf := New(4)
	if buf.Free() != 3 {
		t.Errorf("expected 3 free slots in a 4-capacity buffer, got %d", buf.Free())
	}
}

func TestIsEmptyAndReset(t *testing.T) {
	buf := New(4)
	if !buf.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	buf.Write([]byte{9})
	if buf.IsEmpty() {
		t.Error("buffer with data should not be empty")
	}
	buf.Reset()
	if !buf.IsEmpty() {
		t.Error("buffer should be empty after Reset")
	}
}
