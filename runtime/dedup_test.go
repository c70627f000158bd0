package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeduper_AdmitsOnceById(t *testing.T) {
	req := require.New(t)
	dedup := NewDeduper()

	req.Equal(Admitted, dedup.Admit("m1"))
	req.Equal(Duplicate, dedup.Admit("m1"))
	req.Equal(Admitted, dedup.Admit("m2"))
	req.True(dedup.Seen("m1"))
	req.False(dedup.Seen("m3"))
}

func TestDeduper_ConcurrentDeliveriesCollapse(t *testing.T) {
	req := require.New(t)
	dedup := NewDeduper()

	// Given the same id arriving from a live push and a queue flush at once
	const attempts = 64
	admitted := make(chan Admission, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- dedup.Admit("m1")
		}()
	}
	wg.Wait()
	close(admitted)

	// Then exactly one of them won the admission
	wins := 0
	for a := range admitted {
		if a == Admitted {
			wins++
		}
	}
	req.Equal(1, wins)
}
