// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/servmatch/core"
)

func defaultPoolSize() int {
	return max(runtime.NumCPU()/2, 1)
}

// RankBatch ranks independent requests concurrently. Results are returned
// in request order. Cancelling ctx stops submitting new requests; requests
// already running complete.
func (r *Ranker) RankBatch(ctx context.Context, reqs []Request) ([][]core.Recommendation, error) {
	if len(reqs) == 0 {
		return nil, ErrNoRequests
	}

	var panicked atomic.Bool
	pool, err := ants.NewPool(min(r.poolSize, len(reqs)), ants.WithPanicHandler(func(p any) {
		r.logger.Error("ranking panicked", "panic", p)
		panicked.Store(true)
	}))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([][]core.Recommendation, len(reqs))
	var wg sync.WaitGroup
	for i := range reqs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = r.Rank(reqs[i])
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit request %d: %w", i, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if panicked.Load() {
		return nil, ErrRankFailed
	}
	r.logger.Debug("batch ranked", "requests", len(reqs))
	return results, nil
}
