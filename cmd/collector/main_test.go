package main

import "testing"

func TestScanProgressSignalsOnce(t *testing.T) {
	p := newScanProgress(3)

	for i := 1; i <= 2; i++ {
		if n := p.record(); n != int64(i) {
			t.Fatalf("record() = %d, want %d", n, i)
		}
		select {
		case <-p.done:
			t.Fatalf("done signalled after %d of 3 scans", i)
		default:
		}
	}

	if n := p.record(); n != 3 {
		t.Fatalf("record() = %d, want 3", n)
	}
	select {
	case <-p.done:
	default:
		t.Fatal("done not signalled at target")
	}

	// Scans dispatched between the target and the broker disconnect must
	// not close the channel a second time.
	p.record()
	p.record()

	if got := p.count(); got != 5 {
		t.Errorf("count() = %d, want 5", got)
	}
}
