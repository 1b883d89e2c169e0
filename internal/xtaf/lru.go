// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package xtaf

import "sync"

// maxMemoizedChains bounds the cluster-chain memo to a small cache; there's no
// need for more since the number of distinct live files touched at once is
// small.
const maxMemoizedChains = 1024

// chainMemo is a small mutex-guarded cache keyed by a file's first cluster.
// When full it evicts the oldest inserted key; get does not refresh a key's
// position, so eviction follows insertion order, not recency of use. It's the
// only mutable state a Volume carries after construction, so it's
// the only thing that needs guarding when a Volume is shared across readers.
type chainMemo struct {
	mu    sync.Mutex
	order []uint32
	data  map[uint32][]uint32
}

func newChainMemo() *chainMemo {
	return &chainMemo{data: make(map[uint32][]uint32)}
}

func (m *chainMemo) get(key uint32) ([]uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chain, ok := m.data[key]
	return chain, ok
}

func (m *chainMemo) put(key uint32, chain []uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		if len(m.order) >= maxMemoizedChains {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.data, oldest)
		}
		m.order = append(m.order, key)
	}
	m.data[key] = chain
}
