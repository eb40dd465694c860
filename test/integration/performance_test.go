package integration

import (
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/adapters"
)

// TestConcurrentThroughput values the example properties from many
// goroutines against one engine and checks every result matches the
// sequential one.
func TestConcurrentThroughput(t *testing.T) {
	conf, engine := loadExample(t)
	inputs := adapters.InputsFromRequests(conf.Properties)

	baseline := make([]valuation.Result, len(inputs))
	for i, input := range inputs {
		result, err := engine.Estimate(input)
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		baseline[i] = result
	}

	const workers = 16
	const rounds = 500

	start := time.Now()
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				i := r % len(inputs)
				result, err := engine.Estimate(inputs[i])
				if err != nil || result != baseline[i] {
					errs <- inputs[i].District + "/" + inputs[i].Zone
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for failure := range errs {
		t.Errorf("concurrent estimate for %s diverged from the sequential result", failure)
	}
	t.Logf("%d estimates in %v", workers*rounds, time.Since(start))
}

func BenchmarkEstimate(b *testing.B) {
	conf, engine := loadExample(b)
	inputs := adapters.InputsFromRequests(conf.Properties)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Estimate(inputs[i%len(inputs)]); err != nil {
			b.Fatal(err)
		}
	}
}
